package convert

import "ggufconv/internal/process"

// Defaults mirror a llama.cpp checkout built in-tree next to the working directory.
const (
	DefaultPython        = "python"
	DefaultConvertScript = "llama.cpp/convert_hf_to_gguf.py"
	DefaultQuantizeBin   = "llama.cpp/build/bin/llama-quantize"
)

// Toolchain locates the external programs used by the converter.
type Toolchain struct {
	Python        string
	ConvertScript string
	QuantizeBin   string
	// Dir, when set, is the working directory for both steps.
	Dir string
	// Env holds extra environment variables for both steps.
	Env map[string]string
}

// DefaultToolchain returns the toolchain with every path at its default.
func DefaultToolchain() Toolchain { return Toolchain{}.withDefaults() }

func (t Toolchain) withDefaults() Toolchain {
	if t.Python == "" {
		t.Python = DefaultPython
	}
	if t.ConvertScript == "" {
		t.ConvertScript = DefaultConvertScript
	}
	if t.QuantizeBin == "" {
		t.QuantizeBin = DefaultQuantizeBin
	}
	return t
}

// ConvertCommand builds `<python> <script> <hfModel> --outfile <ggufOutput>`.
func (t Toolchain) ConvertCommand(hfModel, ggufOutput string) process.Command {
	t = t.withDefaults()
	return process.Command{
		Path: t.Python,
		Args: []string{t.ConvertScript, hfModel, "--outfile", ggufOutput},
		Env:  t.Env,
		Dir:  t.Dir,
	}
}

// QuantizeCommand builds `<quantize-bin> <in> <out> <quantType> <quantAlgo>`.
func (t Toolchain) QuantizeCommand(ggufInput, quantizedOutput, quantType, quantAlgo string) process.Command {
	t = t.withDefaults()
	return process.Command{
		Path: t.QuantizeBin,
		Args: []string{ggufInput, quantizedOutput, quantType, quantAlgo},
		Env:  t.Env,
		Dir:  t.Dir,
	}
}
