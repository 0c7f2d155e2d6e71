package types

// ConvertRequest is the payload of POST /convert and POST /plan.
type ConvertRequest struct {
	// Hugging Face model id or local model directory.
	// example: facebook/opt-125m
	HFModel string `json:"hf_model" example:"facebook/opt-125m"`
	// Output path of the GGUF conversion.
	// example: model.gguf
	GGUFOutput string `json:"gguf_output" example:"model.gguf"`
	// Optional output path of the quantized model. Setting it enables quantization.
	// example: model-q.gguf
	QuantizedOutput string `json:"quantized_output,omitempty" example:"model-q.gguf"`
	// Quantization scheme, required with quantized_output.
	// example: Q4_0
	QuantType string `json:"quant_type,omitempty" example:"Q4_0"`
	// Quantization algorithm/parameter token, required with quantized_output.
	// example: 8
	QuantAlgo string `json:"quant_algo,omitempty" example:"8"`
	// If true, the response includes sha256 digests of the produced files.
	Digest bool `json:"digest,omitempty"`
}

// OutputFile describes a file written by one of the external tools.
type OutputFile struct {
	// Pipeline step that wrote the file (convert or quantize).
	// example: convert
	Step string `json:"step" example:"convert"`
	// example: model.gguf
	Path string `json:"path" example:"model.gguf"`
	// Size in bytes; 0 when the file could not be inspected.
	Size int64 `json:"size"`
	// Canonical digest, present when requested.
	// example: sha256:9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
	Digest string `json:"digest,omitempty"`
}

// ConvertResponse is returned by a successful POST /convert.
type ConvertResponse struct {
	// example: ok
	Status  string       `json:"status" example:"ok"`
	Outputs []OutputFile `json:"outputs"`
	// Total wall time in milliseconds.
	DurationMS int64 `json:"duration_ms"`
}

// PlannedCommand is one external command of a plan, in execution order.
type PlannedCommand struct {
	// example: convert
	Step string `json:"step" example:"convert"`
	// Full argument vector, program first.
	Argv []string `json:"argv"`
	// Shell-quoted rendering of Argv.
	// example: python llama.cpp/convert_hf_to_gguf.py facebook/opt-125m --outfile model.gguf
	Line string `json:"line"`
}

// PlanResponse is returned by POST /plan.
type PlanResponse struct {
	Commands []PlannedCommand `json:"commands"`
}
