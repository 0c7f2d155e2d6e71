package main

// General API documentation for swaggo. Run `swag init -g cmd/ggufconv/docs.go` to regenerate docs.
//
// @title           ggufconv API
// @version         1.0
// @description     HTTP API for converting Hugging Face models to GGUF with llama.cpp.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
