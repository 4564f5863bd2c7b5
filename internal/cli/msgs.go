package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Set up an AVR toolchain for Xcode"
	MsgSetupShort      = "Generate the Makefile from the installed AVR toolchain"
	MsgInstallShort    = "Generate the Makefile and install the Xcode project template"
	MsgProbeShort      = "Report the AVR toolchain and its capabilities"
	MsgGenConfigShort  = "Print a default configuration file"
	MsgVersionShort    = "Print version information"
	MsgVersionLong     = "Print detailed version information including commit hash and build date"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Use this config file instead of the user config"
	MsgFlagDirectory = "Run as if xavr was started in this folder"
	MsgFlagInstall   = "Install the Xcode project template after generating the Makefile"
	MsgFlagStrict    = "Fail when a tool's output does not have the expected format"
	MsgFlagDryRun    = "Preview changes without writing any file"
	MsgFlagTemplates = "Folder holding the templates"
	MsgFlagOutput    = "Path of the generated Makefile"
	MsgFlagFormat    = "Output format (auto, term, text, json, yaml, markdown)"
	MsgFlagEffective = "Print the effective configuration instead of the defaults"
	MsgFlagWrite     = "Write the configuration to the user config file"
	MsgFlagManDir    = "Directory to write the man pages to"

	// Status messages
	MsgDryRunNotice   = "DRY RUN MODE - No changes were made"
	MsgConfigWritten  = "Configuration written to %s\n"
	MsgConfigExists   = "%s already exists"
	MsgManWritten     = "Man pages written to %s\n"
	MsgVersionFormat  = "xavr version %s\n"
	MsgCommitFormat   = "Commit: %s\n"
	MsgBuiltFormat    = "Built:  %s\n"
	MsgConfigSources  = "Using configuration from: %s"
	MsgCompletionLong = `To load completions:

Bash:
  $ source <(xavr completion bash)

Zsh:
  $ xavr completion zsh > "${fpath[1]}/_xavr"

Fish:
  $ xavr completion fish | source

PowerShell:
  PS> xavr completion powershell | Out-String | Invoke-Expression`
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/setup-example.txt
	msgSetupExampleRaw string
	MsgSetupExample    = strings.TrimRight(msgSetupExampleRaw, "\n")

	//go:embed msgs/probe-long.txt
	msgProbeLongRaw string
	MsgProbeLong    = strings.TrimSpace(msgProbeLongRaw)

	//go:embed msgs/probe-example.txt
	msgProbeExampleRaw string
	MsgProbeExample    = strings.TrimRight(msgProbeExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)
)
