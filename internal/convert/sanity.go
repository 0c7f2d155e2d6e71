package convert

import (
	"os"
	"os/exec"

	"ggufconv/internal/common/fsutil"
)

// ToolStatus describes one external dependency.
type ToolStatus struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Found bool   `json:"found"`
	Error string `json:"error,omitempty"`
}

// SanityReport describes runtime checks for the toolchain.
type SanityReport struct {
	OK    bool         `json:"ok"`
	Tools []ToolStatus `json:"tools"`
}

// Check validates that the interpreter, script and quantize binary are present.
// Relative script and binary paths resolve against Dir when it is set.
// It does not mutate state and is safe to call at any time.
func (t Toolchain) Check() SanityReport {
	t = t.withDefaults()
	r := SanityReport{OK: true}
	r.Tools = append(r.Tools, lookupTool("python", t.Python))
	r.Tools = append(r.Tools, statTool("convert_script", t.resolve(t.ConvertScript)))
	r.Tools = append(r.Tools, statTool("quantize_bin", t.resolve(t.QuantizeBin)))
	for _, s := range r.Tools {
		if !s.Found {
			r.OK = false
		}
	}
	return r
}

func (t Toolchain) resolve(p string) string { return fsutil.Resolve(t.Dir, p) }

func lookupTool(name, bin string) ToolStatus {
	s := ToolStatus{Name: name, Path: bin}
	p, err := exec.LookPath(bin)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Path = p
	s.Found = true
	return s
}

func statTool(name, path string) ToolStatus {
	s := ToolStatus{Name: name, Path: path}
	fi, err := os.Stat(path)
	switch {
	case err != nil:
		s.Error = err.Error()
	case fi.IsDir():
		s.Error = "path is a directory"
	default:
		s.Found = true
	}
	return s
}

// Check reports on the converter's toolchain.
func (c *Converter) Check() SanityReport { return c.tools.Check() }
