package cli

import (
	"github.com/spf13/cobra"

	"ggufconv/internal/common/fsutil"
	"ggufconv/internal/convert"
)

// requestFlags binds the conversion parameters shared by convert and plan.
type requestFlags struct {
	outfile         string
	quantizedOutput string
	quantType       string
	quantAlgo       string
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.outfile, "outfile", "o", "", "GGUF output path of the conversion step")
	fs.StringVar(&f.quantizedOutput, "quantized-output", "", "Quantized output path; enables the quantization step")
	fs.StringVar(&f.quantType, "quant-type", "", "Quantization type, e.g. Q4_0 (required with --quantized-output)")
	fs.StringVar(&f.quantAlgo, "quant-algo", "", "Quantization algorithm token (required with --quantized-output)")
	_ = cmd.MarkFlagRequired("outfile")
	cmd.MarkFlagsRequiredTogether("quantized-output", "quant-type", "quant-algo")
}

func (f *requestFlags) request(hfModel string) convert.Request {
	return convert.Request{
		HFModel:         hfModel,
		GGUFOutput:      f.outfile,
		QuantizedOutput: f.quantizedOutput,
		QuantType:       f.quantType,
		QuantAlgo:       f.quantAlgo,
	}
}

func newConvertCmd(a *app) *cobra.Command {
	var rf requestFlags
	var withDigest, dryRun bool
	cmd := &cobra.Command{
		Use:   "convert <hf-model> --outfile <gguf>",
		Short: "Convert a Hugging Face model to GGUF, optionally quantizing it",
		Example: `  ggufconv convert facebook/opt-125m --outfile model.gguf
  ggufconv convert facebook/opt-125m -o model.gguf --quantized-output model-q.gguf --quant-type Q4_0 --quant-algo 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := rf.request(args[0])
			conv := a.converter()
			if dryRun {
				cmds, err := conv.Plan(req)
				if err != nil {
					return err
				}
				renderPlan(a.stdout, cmds)
				return nil
			}
			if err := conv.Convert(cmd.Context(), req); err != nil {
				return err
			}
			outputs := []string{req.GGUFOutput}
			if req.Quantize() {
				outputs = append(outputs, req.QuantizedOutput)
			}
			var rows []fsutil.FileSummary
			for _, p := range outputs {
				s, err := fsutil.Summarize(fsutil.Resolve(a.tools.Dir, p), withDigest)
				if err != nil {
					a.log.Warn().Str("file", p).Err(err).Msg("cannot inspect output")
				}
				s.Path = p
				rows = append(rows, s)
			}
			renderOutputs(a.stdout, rows)
			return nil
		},
	}
	rf.bind(cmd)
	cmd.Flags().BoolVar(&withDigest, "digest", false, "Print sha256 digests of the produced files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the commands without running them")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var rf requestFlags
	cmd := &cobra.Command{
		Use:   "plan <hf-model> --outfile <gguf>",
		Short: "Show the external commands a conversion would run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := a.converter().Plan(rf.request(args[0]))
			if err != nil {
				return err
			}
			renderPlan(a.stdout, cmds)
			return nil
		},
	}
	rf.bind(cmd)
	return cmd
}
