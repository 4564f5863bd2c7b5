package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/xavr/internal/version"
	"github.com/arthur-debert/xavr/pkg/config"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/arthur-debert/xavr/pkg/paths"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	verbosity  int
	configFile string
	workDir    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	sf := &setupFlags{}

	rootCmd := &cobra.Command{
		Use:     "xavr",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgSetupExample,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		// Without a command xavr runs setup
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, g, sf, sf.install)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&g.workDir, "directory", "C", "", MsgFlagDirectory)
	sf.register(rootCmd, true)

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Setup Commands:"},
		&cobra.Group{ID: "misc", Title: "Other Commands:"},
	)

	rootCmd.AddCommand(newSetupCmd(g))
	rootCmd.AddCommand(newInstallCmd(g))
	rootCmd.AddCommand(newProbeCmd(g))
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// loadConfig initializes the paths and loads every configuration layer
func loadConfig(g *globalFlags, overrides map[string]interface{}) (paths.Paths, *config.Loaded, error) {
	p, err := paths.New(g.workDir)
	if err != nil {
		return nil, nil, err
	}

	loaded, err := config.Load(config.LoadOptions{
		Paths:      p,
		ConfigFile: g.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Msgf(MsgConfigSources, strings.Join(loaded.Sources, ", "))
	return p, loaded, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Long:    MsgVersionLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "XAVR",
				Section: "1",
			}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagManDir)
	return cmd
}
