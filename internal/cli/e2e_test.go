package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
)

// writeScript drops an executable shell script standing in for a llama.cpp tool.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func fakeToolchain(t *testing.T, quantizeBody string) (dir string, args []string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for the tools")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	dir = t.TempDir()
	// convert_hf_to_gguf.py <model> --outfile <out>
	convert := writeScript(t, dir, "convert.sh", `[ "$2" = "--outfile" ] || exit 9
printf 'GGUF:%s' "$1" > "$3"
`)
	quantize := writeScript(t, dir, "quantize.sh", quantizeBody)
	return dir, []string{"--python", "/bin/sh", "--convert-script", convert, "--quantize-bin", quantize, "--work-dir", dir}
}

func TestEndToEnd_ConvertAndQuantize(t *testing.T) {
	clearEnv(t)
	// llama-quantize <in> <out> <type> <algo>
	dir, tools := fakeToolchain(t, `cat "$1" > "$2" && printf ':%s:%s' "$3" "$4" >> "$2"
`)
	args := append(tools, "convert", "facebook/opt-125m", "-o", "model.gguf",
		"--quantized-output", "model-q.gguf", "--quant-type", "Q4_0", "--quant-algo", "8", "--digest")
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "model-q.gguf"))
	if err != nil {
		t.Fatalf("quantized output missing: %v", err)
	}
	if string(got) != "GGUF:facebook/opt-125m:Q4_0:8" {
		t.Fatalf("quantized content = %q", got)
	}
	if d := digest.FromBytes(got).String(); !strings.Contains(out, d) {
		t.Fatalf("summary missing digest %s:\n%s", d, out)
	}
}

func TestEndToEnd_QuantizeFailure(t *testing.T) {
	clearEnv(t)
	dir, tools := fakeToolchain(t, "exit 5\n")
	args := append(tools, "convert", "m", "-o", "model.gguf",
		"--quantized-output", "model-q.gguf", "--quant-type", "Q4_0", "--quant-algo", "8")
	_, err := execute(t, args...)
	if ExitCode(err) != 5 {
		t.Fatalf("ExitCode = %d, want 5 (err=%v)", ExitCode(err), err)
	}
	if _, err := os.Stat(filepath.Join(dir, "model.gguf")); err != nil {
		t.Fatalf("conversion output should exist: %v", err)
	}
}
