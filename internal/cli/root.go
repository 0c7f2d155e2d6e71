package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/config"
	"ggufconv/internal/convert"
	"ggufconv/internal/logging"
	"ggufconv/internal/process"
)

// Version is stamped at build time via -ldflags "-X ggufconv/internal/cli.Version=...".
var Version = "dev"

// newRunner builds the process runner used by the converter. Tests swap it
// for a recording stub.
var newRunner = func(l zerolog.Logger) process.Runner { return process.NewExecRunner(l) }

// app carries state resolved once per invocation by the root pre-run hook.
type app struct {
	configPath string
	flags      config.Config
	cfg        config.Config
	tools      convert.Toolchain
	log        zerolog.Logger
	stdout     io.Writer
	stderr     io.Writer
}

// resolve merges file, env and flags (highest wins) and builds the logger.
func (a *app) resolve(cmd *cobra.Command) error {
	var cfg config.Config
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	cfg = config.FromEnv(cfg)

	fl := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if fl.Changed(name) {
			*dst = v
		}
	}
	override("python", &cfg.Python, a.flags.Python)
	override("convert-script", &cfg.ConvertScript, a.flags.ConvertScript)
	override("quantize-bin", &cfg.QuantizeBin, a.flags.QuantizeBin)
	override("work-dir", &cfg.WorkDir, a.flags.WorkDir)
	override("log-level", &cfg.LogLevel, a.flags.LogLevel)
	override("log-format", &cfg.LogFormat, a.flags.LogFormat)
	a.cfg = cfg.WithDefaults()

	tools, err := a.cfg.Toolchain()
	if err != nil {
		return err
	}
	if tools.Dir != "" && !fsutil.PathExists(tools.Dir) {
		return fmt.Errorf("work dir %s does not exist", tools.Dir)
	}
	a.tools = tools
	a.log = logging.New(a.stderr, a.cfg.LogLevel, a.cfg.LogFormat)
	return nil
}

func (a *app) converter(opts ...convert.Option) *convert.Converter {
	opts = append([]convert.Option{convert.WithLogger(a.log)}, opts...)
	return convert.New(a.tools, newRunner(a.log), opts...)
}

// NewRootCmd constructs the ggufconv command tree writing to stdout/stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "ggufconv",
		Short:         "Convert Hugging Face models to GGUF and quantize them with llama.cpp",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.resolve(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&a.flags.LogLevel, "log-level", config.DefaultLogLevel, "Log level: debug|info|warn|error (env "+config.EnvLogLevel+")")
	pf.StringVar(&a.flags.LogFormat, "log-format", config.DefaultLogFormat, "Log format: console|json (env "+config.EnvLogFormat+")")
	pf.StringVar(&a.flags.Python, "python", convert.DefaultPython, "Python interpreter running the conversion script")
	pf.StringVar(&a.flags.ConvertScript, "convert-script", convert.DefaultConvertScript, "Path to llama.cpp convert_hf_to_gguf.py")
	pf.StringVar(&a.flags.QuantizeBin, "quantize-bin", convert.DefaultQuantizeBin, "Path to the llama-quantize binary")
	pf.StringVar(&a.flags.WorkDir, "work-dir", "", "Working directory for both external tools")

	root.AddCommand(newConvertCmd(a), newPlanCmd(a), newCheckCmd(a), newServeCmd(a), newVersionCmd(a), newCompletionCmd(root))
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{Use: "version", Short: "Print the version", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(a.stdout, Version)
		return err
	}}
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	return completionCmd
}

// ExitCode maps an error returned by the command tree to a process exit code.
// A failed external tool propagates its own positive exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *process.ProcessError
	if errors.As(err, &pe) && pe.ExitCode > 0 {
		return pe.ExitCode
	}
	return 1
}

// Main runs the CLI with args and returns the process exit code.
func Main(args []string) int {
	root := NewRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return ExitCode(err)
	}
	return 0
}
