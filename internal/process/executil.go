package process

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Runner runs an external command synchronously. It returns nil on a zero
// exit status and a *ProcessError otherwise.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context, c Command) error

func (f RunnerFunc) Run(ctx context.Context, c Command) error { return f(ctx, c) }

// ExecRunner runs commands with os/exec. Child output goes to Stdout/Stderr
// when set, otherwise each line is logged through Logger.
type ExecRunner struct {
	Logger zerolog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner that logs child output through l.
func NewExecRunner(l zerolog.Logger) *ExecRunner { return &ExecRunner{Logger: l} }

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	argv := c.Argv()
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	// inherit environment
	cmd.Env = append(os.Environ(), c.environ()...)

	var outLines, errLines *lineWriter
	if r.Stdout != nil {
		cmd.Stdout = r.Stdout
	} else {
		outLines = &lineWriter{log: r.Logger, stream: "stdout"}
		cmd.Stdout = outLines
	}
	if r.Stderr != nil {
		cmd.Stderr = r.Stderr
	} else {
		errLines = &lineWriter{log: r.Logger, stream: "stderr"}
		cmd.Stderr = errLines
	}

	start := time.Now()
	r.Logger.Debug().Str("cmd", c.String()).Str("dir", c.Dir).Msg("exec start")
	err := cmd.Run()
	if outLines != nil {
		outLines.Flush()
	}
	if errLines != nil {
		errLines.Flush()
	}
	if err != nil {
		pe := newProcessError(argv, err)
		r.Logger.Debug().Str("cmd", c.String()).Int("exit_code", pe.ExitCode).Dur("dur", time.Since(start)).Msg("exec failed")
		return pe
	}
	r.Logger.Debug().Str("cmd", c.String()).Dur("dur", time.Since(start)).Msg("exec done")
	return nil
}

// lineWriter logs complete lines written by a child process.
type lineWriter struct {
	log    zerolog.Logger
	stream string
	buf    []byte
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		idx := indexByte(lw.buf, '\n')
		if idx < 0 {
			break
		}
		lw.emit(lw.buf[:idx])
		lw.buf = lw.buf[idx+1:]
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (lw *lineWriter) Flush() {
	if len(lw.buf) > 0 {
		lw.emit(lw.buf)
		lw.buf = nil
	}
}

func (lw *lineWriter) emit(line []byte) {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if len(line) == 0 {
		return
	}
	lw.log.Info().Str("stream", lw.stream).Msg(string(line))
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}
	return -1
}
