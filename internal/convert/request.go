package convert

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is wrapped by every Request validation failure.
var ErrInvalidRequest = errors.New("invalid conversion request")

// Request carries the parameters of a single conversion.
// Quantization runs only when QuantizedOutput is set, and then QuantType and
// QuantAlgo are required too.
type Request struct {
	HFModel         string
	GGUFOutput      string
	QuantizedOutput string
	QuantType       string
	QuantAlgo       string
}

// Quantize reports whether the request asks for the quantization step.
func (r Request) Quantize() bool { return !blank(r.QuantizedOutput) }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Validate checks the request before anything is run.
func (r Request) Validate() error {
	if blank(r.HFModel) {
		return fmt.Errorf("%w: hf model is required", ErrInvalidRequest)
	}
	if blank(r.GGUFOutput) {
		return fmt.Errorf("%w: gguf output is required", ErrInvalidRequest)
	}
	var set, missing []string
	for _, f := range []struct{ name, val string }{
		{"quantized output", r.QuantizedOutput},
		{"quant type", r.QuantType},
		{"quant algo", r.QuantAlgo},
	} {
		if blank(f.val) {
			missing = append(missing, f.name)
		} else {
			set = append(set, f.name)
		}
	}
	if len(set) > 0 && len(missing) > 0 {
		return fmt.Errorf("%w: quantization needs %s (got %s)", ErrInvalidRequest,
			strings.Join(missing, ", "), strings.Join(set, ", "))
	}
	return nil
}

// IsInvalidRequest reports whether err is a Request validation failure.
func IsInvalidRequest(err error) bool { return errors.Is(err, ErrInvalidRequest) }
