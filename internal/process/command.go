package process

import (
	"sort"

	"github.com/kballard/go-shellquote"
)

// Command describes one external program invocation.
type Command struct {
	Path string
	Args []string
	Env  map[string]string // additional env vars, appended to the inherited environment
	Dir  string            // working directory
}

// Argv returns the full argument vector, program first.
func (c Command) Argv() []string {
	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, c.Path)
	return append(argv, c.Args...)
}

// String renders the command as a shell-quoted line for logs and errors.
func (c Command) String() string { return shellquote.Join(c.Argv()...) }

// environ returns the extra env entries in KEY=VALUE form, sorted by key.
func (c Command) environ() []string {
	if len(c.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}
