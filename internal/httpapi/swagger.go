//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/convert": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Convert a Hugging Face model to GGUF, optionally quantizing it",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.ConvertRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ConvertResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "502": {"description": "External tool failed", "schema": {"$ref": "#/definitions/types.ProcessErrorResponse"}}
                }
            }
        },
        "/plan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Show the commands a conversion would run",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/types.ConvertRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PlanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "summary": "Toolchain readiness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ReadyResponse"}},
                    "503": {"description": "Toolchain incomplete", "schema": {"$ref": "#/definitions/types.ReadyResponse"}}
                }
            }
        },
        "/healthz": {
            "get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}
        }
    },
    "definitions": {
        "types.ConvertRequest": {
            "type": "object",
            "required": ["hf_model", "gguf_output"],
            "properties": {
                "hf_model": {"type": "string", "example": "facebook/opt-125m"},
                "gguf_output": {"type": "string", "example": "model.gguf"},
                "quantized_output": {"type": "string", "example": "model-q.gguf"},
                "quant_type": {"type": "string", "example": "Q4_0"},
                "quant_algo": {"type": "string", "example": "8"},
                "digest": {"type": "boolean"}
            }
        },
        "types.OutputFile": {
            "type": "object",
            "properties": {
                "step": {"type": "string", "example": "convert"},
                "path": {"type": "string", "example": "model.gguf"},
                "size": {"type": "integer"},
                "digest": {"type": "string"}
            }
        },
        "types.ConvertResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "ok"},
                "outputs": {"type": "array", "items": {"$ref": "#/definitions/types.OutputFile"}},
                "duration_ms": {"type": "integer"}
            }
        },
        "types.PlannedCommand": {
            "type": "object",
            "properties": {
                "step": {"type": "string", "example": "convert"},
                "argv": {"type": "array", "items": {"type": "string"}},
                "line": {"type": "string"}
            }
        },
        "types.PlanResponse": {
            "type": "object",
            "properties": {
                "commands": {"type": "array", "items": {"$ref": "#/definitions/types.PlannedCommand"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        },
        "types.ProcessErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "integer", "example": 502},
                "command": {"type": "array", "items": {"type": "string"}},
                "exit_code": {"type": "integer", "example": 1}
            }
        },
        "types.ToolStatus": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "quantize_bin"},
                "path": {"type": "string"},
                "found": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "types.ReadyResponse": {
            "type": "object",
            "properties": {
                "ready": {"type": "boolean"},
                "tools": {"type": "array", "items": {"$ref": "#/definitions/types.ToolStatus"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ggufconv API",
	Description:      "HTTP API for converting Hugging Face models to GGUF with llama.cpp.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the Swagger UI and doc.json under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
