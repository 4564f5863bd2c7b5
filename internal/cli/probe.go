package cli

import (
	"github.com/arthur-debert/xavr/pkg/output"
	"github.com/arthur-debert/xavr/pkg/setup"
	"github.com/spf13/cobra"
)

func newProbeCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:     "probe",
		Short:   MsgProbeShort,
		Long:    MsgProbeLong,
		Example: MsgProbeExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			overrides := map[string]interface{}{}
			if cmd.Flags().Changed("strict") {
				overrides["capabilities.strict"] = strict
			}
			p, loaded, err := loadConfig(g, overrides)
			if err != nil {
				return err
			}

			// Progress goes to stderr so the report can be piped
			result, err := setup.Probe(cmd.Context(), setup.Options{
				Config:  loaded.Config,
				WorkDir: p.WorkDir(),
				Console: output.NewConsole(cmd.ErrOrStderr(), output.FormatAuto),
			})
			if err != nil {
				return err
			}

			return output.RenderProbe(cmd.OutOrStdout(), f, output.Probe{
				Tools:  result.Tools,
				Report: result.Report,
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	cmd.Flags().BoolVar(&strict, "strict", false, MsgFlagStrict)
	return cmd
}
