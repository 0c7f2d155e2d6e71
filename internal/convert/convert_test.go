package convert

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ggufconv/internal/process"
)

// recordingRunner captures every command and fails the call whose index is
// listed in failAt.
type recordingRunner struct {
	calls  [][]string
	failAt map[int]error
}

func (r *recordingRunner) Run(ctx context.Context, c process.Command) error {
	idx := len(r.calls)
	r.calls = append(r.calls, c.Argv())
	if err, ok := r.failAt[idx]; ok {
		return err
	}
	return nil
}

var (
	wantConvertArgv = []string{"python", "llama.cpp/convert_hf_to_gguf.py", "facebook/opt-125m", "--outfile", "model.gguf"}
	wantQuantArgv   = []string{"llama.cpp/build/bin/llama-quantize", "model.gguf", "model-q.gguf", "Q4_0", "8"}
)

func TestConvert_Basic(t *testing.T) {
	rr := &recordingRunner{}
	c := New(Toolchain{}, rr)
	if err := c.Convert(context.Background(), Request{HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf"}); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if diff := cmp.Diff([][]string{wantConvertArgv}, rr.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_WithQuantization(t *testing.T) {
	rr := &recordingRunner{}
	c := New(Toolchain{}, rr)
	req := Request{
		HFModel:         "facebook/opt-125m",
		GGUFOutput:      "model.gguf",
		QuantizedOutput: "model-q.gguf",
		QuantType:       "Q4_0",
		QuantAlgo:       "8",
	}
	if err := c.Convert(context.Background(), req); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if diff := cmp.Diff([][]string{wantConvertArgv, wantQuantArgv}, rr.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestConvert_ConversionFailureSkipsQuantization(t *testing.T) {
	failure := &process.ProcessError{Command: []string{"fake_command"}, ExitCode: 1, Err: errors.New("exit status 1")}
	rr := &recordingRunner{failAt: map[int]error{0: failure}}
	c := New(Toolchain{}, rr)
	err := c.Convert(context.Background(), Request{
		HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf",
		QuantizedOutput: "model-q.gguf", QuantType: "Q4_0", QuantAlgo: "8",
	})
	if err != failure {
		t.Fatalf("expected the runner error unchanged, got %v", err)
	}
	if len(rr.calls) != 1 {
		t.Fatalf("quantization must not run after a failed conversion; calls=%v", rr.calls)
	}
}

func TestConvert_ConversionFailureWithoutQuantization(t *testing.T) {
	failure := &process.ProcessError{Command: []string{"fake_command"}, ExitCode: 1}
	rr := &recordingRunner{failAt: map[int]error{0: failure}}
	err := New(Toolchain{}, rr).Convert(context.Background(), Request{HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf"})
	pe, ok := process.AsProcessError(err)
	if !ok || pe.ExitCode != 1 {
		t.Fatalf("expected ProcessError exit 1, got %v", err)
	}
	if len(rr.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(rr.calls))
	}
}

func TestConvert_QuantizationFailurePropagates(t *testing.T) {
	failure := &process.ProcessError{Command: wantQuantArgv, ExitCode: 7}
	rr := &recordingRunner{failAt: map[int]error{1: failure}}
	err := New(Toolchain{}, rr).Convert(context.Background(), Request{
		HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf",
		QuantizedOutput: "model-q.gguf", QuantType: "Q4_0", QuantAlgo: "8",
	})
	if err != failure {
		t.Fatalf("expected the runner error unchanged, got %v", err)
	}
	if len(rr.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(rr.calls))
	}
}

func TestConvert_InvalidRequestsRunNothing(t *testing.T) {
	cases := map[string]Request{
		"missing model":       {GGUFOutput: "model.gguf"},
		"missing output":      {HFModel: "facebook/opt-125m"},
		"output without type": {HFModel: "m", GGUFOutput: "o.gguf", QuantizedOutput: "q.gguf", QuantAlgo: "8"},
		"output without algo": {HFModel: "m", GGUFOutput: "o.gguf", QuantizedOutput: "q.gguf", QuantType: "Q4_0"},
		"type without output": {HFModel: "m", GGUFOutput: "o.gguf", QuantType: "Q4_0"},
		"algo without output": {HFModel: "m", GGUFOutput: "o.gguf", QuantAlgo: "8"},
		"blank model":         {HFModel: "  ", GGUFOutput: "o.gguf"},
		"blank quant type":    {HFModel: "m", GGUFOutput: "o.gguf", QuantizedOutput: "q.gguf", QuantType: "  ", QuantAlgo: "8"},
		"blank output":        {HFModel: "m", GGUFOutput: "o.gguf", QuantizedOutput: " \t", QuantType: "Q4_0", QuantAlgo: "8"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			rr := &recordingRunner{}
			err := New(Toolchain{}, rr).Convert(context.Background(), req)
			if !IsInvalidRequest(err) {
				t.Fatalf("expected ErrInvalidRequest, got %v", err)
			}
			if len(rr.calls) != 0 {
				t.Fatalf("no command should run, got %v", rr.calls)
			}
		})
	}
}

func TestConvert_CustomToolchain(t *testing.T) {
	rr := &recordingRunner{}
	tools := Toolchain{Python: "python3", ConvertScript: "/app/convert_hf_to_gguf.py", QuantizeBin: "/app/llama-quantize", Dir: "/work"}
	c := New(tools, process.RunnerFunc(func(ctx context.Context, cmd process.Command) error {
		if cmd.Dir != "/work" {
			t.Fatalf("dir = %q, want /work", cmd.Dir)
		}
		return rr.Run(ctx, cmd)
	}))
	err := c.Convert(context.Background(), Request{HFModel: "/src", GGUFOutput: "out.gguf", QuantizedOutput: "q.gguf", QuantType: "Q8_0", QuantAlgo: "4"})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := [][]string{
		{"python3", "/app/convert_hf_to_gguf.py", "/src", "--outfile", "out.gguf"},
		{"/app/llama-quantize", "out.gguf", "q.gguf", "Q8_0", "4"},
	}
	if diff := cmp.Diff(want, rr.calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan(t *testing.T) {
	c := New(Toolchain{}, &recordingRunner{})
	cmds, err := c.Plan(Request{HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf", QuantizedOutput: "model-q.gguf", QuantType: "Q4_0", QuantAlgo: "8"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var got [][]string
	for _, c := range cmds {
		got = append(got, c.Argv())
	}
	if diff := cmp.Diff([][]string{wantConvertArgv, wantQuantArgv}, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
	if _, err := c.Plan(Request{}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestConvert_PublishesEvents(t *testing.T) {
	pub := NewMemoryPublisher()
	failure := &process.ProcessError{Command: wantQuantArgv, ExitCode: 2}
	rr := &recordingRunner{failAt: map[int]error{1: failure}}
	c := New(Toolchain{}, rr, WithPublisher(MultiPublisher{pub, nil}))
	_ = c.Convert(context.Background(), Request{
		HFModel: "facebook/opt-125m", GGUFOutput: "model.gguf",
		QuantizedOutput: "model-q.gguf", QuantType: "Q4_0", QuantAlgo: "8",
	})
	var got []string
	for _, e := range pub.Events() {
		got = append(got, fmt.Sprintf("%s/%s", e.Step, e.Name))
	}
	want := []string{"convert/step_start", "convert/step_done", "quantize/step_start", "quantize/step_failed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	last := pub.Events()[3]
	if code, _ := last.Fields["exit_code"].(int); code != 2 {
		t.Fatalf("exit_code field = %v, want 2", last.Fields["exit_code"])
	}
}

func TestNew_NilRunnerUsesExec(t *testing.T) {
	c := New(Toolchain{}, nil, WithPublisher(nil))
	if _, ok := c.runner.(*process.ExecRunner); !ok {
		t.Fatalf("expected ExecRunner default, got %T", c.runner)
	}
	if c.Toolchain().QuantizeBin != DefaultQuantizeBin {
		t.Fatalf("defaults not applied: %+v", c.Toolchain())
	}
}

func TestRequest_BlankQuantizationFieldsAreAbsent(t *testing.T) {
	req := Request{HFModel: "m", GGUFOutput: "o.gguf", QuantizedOutput: " ", QuantType: "", QuantAlgo: "\t"}
	if err := req.Validate(); err != nil {
		t.Fatalf("all-blank quantization fields should validate: %v", err)
	}
	if req.Quantize() {
		t.Fatalf("blank quantized output must not enable quantization")
	}
}
