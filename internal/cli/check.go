package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errToolchainIncomplete = errors.New("toolchain incomplete")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the interpreter, conversion script and quantize binary are present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.tools.Check()
			renderReport(a.stdout, r)
			if !r.OK {
				return errToolchainIncomplete
			}
			return nil
		},
	}
}
