package httpapi

import (
	"encoding/json"
	"net/http"

	"ggufconv/internal/process"
	"ggufconv/pkg/types"
)

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// writeProcessError reports a failed external tool as 502 Bad Gateway.
func writeProcessError(w http.ResponseWriter, pe *process.ProcessError) {
	writeJSON(w, http.StatusBadGateway, types.ProcessErrorResponse{
		ErrorResponse: types.ErrorResponse{Error: pe.Error(), Code: http.StatusBadGateway},
		Command:       pe.Command,
		ExitCode:      pe.ExitCode,
	})
}
