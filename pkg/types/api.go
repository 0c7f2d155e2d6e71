package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ProcessErrorResponse reports a failed external tool (HTTP 502).
type ProcessErrorResponse struct {
	ErrorResponse
	// Argument vector of the failing command.
	Command []string `json:"command"`
	// Exit status of the command; -1 when it could not be started.
	// example: 1
	ExitCode int `json:"exit_code" example:"1"`
}

// ToolStatus describes one toolchain dependency in GET /readyz.
type ToolStatus struct {
	// example: quantize_bin
	Name string `json:"name" example:"quantize_bin"`
	// example: llama.cpp/build/bin/llama-quantize
	Path  string `json:"path" example:"llama.cpp/build/bin/llama-quantize"`
	Found bool   `json:"found"`
	Error string `json:"error,omitempty"`
}

// ReadyResponse is the body of GET /readyz.
type ReadyResponse struct {
	Ready bool         `json:"ready"`
	Tools []ToolStatus `json:"tools"`
}
