// Package convert turns a Hugging Face model into a GGUF file by running the
// llama.cpp conversion script, optionally followed by llama-quantize.
//
// Both steps are external processes run strictly in sequence through a
// process.Runner; the first failure stops the pipeline and is returned to the
// caller unchanged.
package convert
