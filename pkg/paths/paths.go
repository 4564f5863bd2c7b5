// Package paths provides centralized path handling for xavr.
// It resolves the XDG config directory and the working directory, and
// validates the paths and file names read from configuration.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/xavr/pkg/errors"
)

// Environment variable names
const (
	// EnvXavrConfigDir overrides the XDG config directory for xavr
	EnvXavrConfigDir = "XAVR_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names
const (
	// XavrDirName is the directory name for xavr-specific files
	XavrDirName = "xavr"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"

	// ProjectConfigFile is the name of the per-project configuration file
	ProjectConfigFile = ".xavr.toml"
)

// Paths provides centralized path management for xavr
type Paths interface {
	WorkDir() string
	ConfigFilePath() string
	ProjectConfigPath() string
}

type paths struct {
	workDir   string
	xdgConfig string
}

// New creates a new Paths instance rooted at workDir.
// If workDir is empty, the current working directory is used.
func New(workDir string) (Paths, error) {
	p := &paths{}

	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to get current directory")
		}
		workDir = cwd
	}

	absWork, err := filepath.Abs(ExpandHome(workDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", workDir)
	}
	p.workDir = absWork

	if configDir := os.Getenv(EnvXavrConfigDir); configDir != "" {
		p.xdgConfig = ExpandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, XavrDirName)
	}
	return p, nil
}

func (p *paths) WorkDir() string {
	return p.workDir
}

func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

func (p *paths) ProjectConfigPath() string {
	return filepath.Join(p.workDir, ProjectConfigFile)
}

// ExpandHome expands a leading ~ to the user's home directory.
// Paths that cannot be expanded are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user forms are not expanded
	return path
}

// ResolveAll makes every relative entry of list absolute under base
func ResolveAll(base string, list []string) []string {
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(base, entry)
		}
		out = append(out, entry)
	}
	return out
}

// ExpandAll expands ~ in every entry and drops blank entries
func ExpandAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		out = append(out, ExpandHome(entry))
	}
	return out
}
