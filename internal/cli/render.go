package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/convert"
	"ggufconv/internal/process"
)

var planSteps = []string{convert.StepConvert, convert.StepQuantize}

func renderPlan(w io.Writer, cmds []process.Command) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "STEP", "COMMAND"})
	for i, c := range cmds {
		step := ""
		if i < len(planSteps) {
			step = planSteps[i]
		}
		t.AppendRow(table.Row{i + 1, step, c.String()})
	}
	t.Render()
}

func renderOutputs(w io.Writer, files []fsutil.FileSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"FILE", "SIZE", "DIGEST"})
	for _, f := range files {
		t.AppendRow(table.Row{f.Path, f.Size, f.Digest.String()})
	}
	t.Render()
}

func renderReport(w io.Writer, r convert.SanityReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"TOOL", "FOUND", "PATH", "ERROR"})
	for _, s := range r.Tools {
		t.AppendRow(table.Row{s.Name, fmt.Sprint(s.Found), s.Path, s.Error})
	}
	t.Render()
}
