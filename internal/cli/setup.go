package cli

import (
	"github.com/arthur-debert/xavr/pkg/output"
	"github.com/arthur-debert/xavr/pkg/setup"
	"github.com/spf13/cobra"
)

// setupFlags are the flags of the setup and install commands
type setupFlags struct {
	install   bool
	strict    bool
	dryRun    bool
	templates string
	output    string
}

func (f *setupFlags) register(cmd *cobra.Command, withInstall bool) {
	if withInstall {
		cmd.Flags().BoolVar(&f.install, "install", false, MsgFlagInstall)
	}
	cmd.Flags().BoolVar(&f.strict, "strict", false, MsgFlagStrict)
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().StringVar(&f.templates, "templates", "", MsgFlagTemplates)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", MsgFlagOutput)
}

// overrides returns the configuration keys set on the command line. Flags
// left at their default do not mask the config files.
func (f *setupFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	o := map[string]interface{}{}
	if cmd.Flags().Changed("strict") {
		o["capabilities.strict"] = f.strict
	}
	if cmd.Flags().Changed("templates") {
		o["templates.dir"] = f.templates
	}
	if cmd.Flags().Changed("output") {
		o["output.makefile"] = f.output
	}
	return o
}

func newSetupCmd(g *globalFlags) *cobra.Command {
	f := &setupFlags{}

	cmd := &cobra.Command{
		Use:     "setup",
		Short:   MsgSetupShort,
		Long:    MsgRootLong,
		Example: MsgSetupExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, g, f, f.install)
		},
	}

	f.register(cmd, true)
	return cmd
}

func newInstallCmd(g *globalFlags) *cobra.Command {
	f := &setupFlags{}

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, g, f, true)
		},
	}

	f.register(cmd, false)
	return cmd
}

func runSetup(cmd *cobra.Command, g *globalFlags, f *setupFlags, install bool) error {
	p, loaded, err := loadConfig(g, f.overrides(cmd))
	if err != nil {
		return err
	}

	console := output.NewConsole(cmd.OutOrStdout(), output.FormatAuto)
	_, err = setup.Run(cmd.Context(), setup.Options{
		Config:  loaded.Config,
		WorkDir: p.WorkDir(),
		Install: install,
		DryRun:  f.dryRun,
		Console: console,
	})
	if err != nil {
		return err
	}

	if f.dryRun {
		console.Phase(MsgDryRunNotice)
	}
	return nil
}
