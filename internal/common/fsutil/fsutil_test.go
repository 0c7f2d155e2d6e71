package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cases := map[string]string{
		"":            "",
		"/tmp":        "/tmp",
		"rel/x":       "rel/x",
		"~user/x":     "~user/x",
		"~":           home,
		"~/llama.cpp": filepath.Join(home, "llama.cpp"),
	}
	for in, want := range cases {
		got, err := ExpandHome(in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ExpandHome(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathExists(t *testing.T) {
	d := t.TempDir()
	if !PathExists(d) {
		t.Fatalf("expected temp dir to exist")
	}
	if PathExists(filepath.Join(d, "nope")) {
		t.Fatalf("expected missing path")
	}
}

func TestResolve(t *testing.T) {
	cases := []struct{ dir, p, want string }{
		{"", "model.gguf", "model.gguf"},
		{"/work", "model.gguf", filepath.Join("/work", "model.gguf")},
		{"/work", "out/q.gguf", filepath.Join("/work", "out", "q.gguf")},
		{"/work", "/abs/model.gguf", "/abs/model.gguf"},
	}
	for _, c := range cases {
		if got := Resolve(c.dir, c.p); got != c.want {
			t.Fatalf("Resolve(%q, %q) = %q, want %q", c.dir, c.p, got, c.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "model.gguf")
	content := []byte("GGUF fake payload")
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Summarize(p, false)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Size != int64(len(content)) || s.Digest != "" {
		t.Fatalf("unexpected summary without digest: %+v", s)
	}

	s, err = Summarize(p, true)
	if err != nil {
		t.Fatalf("Summarize digest: %v", err)
	}
	if want := digest.FromBytes(content); s.Digest != want {
		t.Fatalf("digest = %s, want %s", s.Digest, want)
	}

	if _, err := Summarize(d, true); err == nil {
		t.Fatalf("expected error for directory")
	}
	if _, err := Summarize(filepath.Join(d, "missing.gguf"), false); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
