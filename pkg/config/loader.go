package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/arthur-debert/xavr/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration
const EnvPrefix = "XAVR_"

// sections are the top-level keys environment variables may target
var sections = map[string]bool{
	"toolchain":    true,
	"capabilities": true,
	"templates":    true,
	"output":       true,
	"install":      true,
}

// LoadOptions controls which layers are loaded
type LoadOptions struct {
	// Paths locates the user and project config files. Nil skips both.
	Paths paths.Paths

	// ConfigFile replaces the user config file; it must exist.
	ConfigFile string

	// Overrides are applied last, keyed by dotted path (e.g. "capabilities.strict").
	Overrides map[string]interface{}
}

// Loaded is a resolved configuration together with its raw key space
type Loaded struct {
	Config  *Config
	Sources []string
	k       *koanf.Koanf
}

// Raw returns the merged configuration as a nested map
func (l *Loaded) Raw() map[string]interface{} {
	return l.k.Raw()
}

// Load builds the configuration from every layer
func Load(opts LoadOptions) (*Loaded, error) {
	logger := logging.GetLogger("config")

	k, err := loadDefaults()
	if err != nil {
		return nil, err
	}
	sources := []string{"defaults"}

	userConfig := opts.ConfigFile
	required := userConfig != ""
	if !required && opts.Paths != nil {
		userConfig = opts.Paths.ConfigFilePath()
	}
	if userConfig != "" {
		loaded, err := loadFile(k, paths.ExpandHome(userConfig), required)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, userConfig)
		}
	}

	if opts.Paths != nil {
		projectConfig := opts.Paths.ProjectConfigPath()
		loaded, err := loadFile(k, projectConfig, false)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, projectConfig)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
		sources = append(sources, "flags")
	}

	var cfg Config
	if err := unmarshal(k, &cfg); err != nil {
		return nil, err
	}

	cfg.Toolchain.SearchRoots = paths.ExpandAll(cfg.Toolchain.SearchRoots)
	cfg.Install.Dir = paths.ExpandHome(cfg.Install.Dir)
	cfg.Templates.Dir = paths.ExpandHome(cfg.Templates.Dir)
	if opts.Paths != nil {
		// Tool paths end up in the generated Makefile, so relative roots are
		// anchored at the working directory rather than the process cwd
		cfg.Toolchain.SearchRoots = paths.ResolveAll(opts.Paths.WorkDir(), cfg.Toolchain.SearchRoots)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().Strs("sources", sources).Msg("Configuration loaded")
	return &Loaded{Config: &cfg, Sources: sources, k: k}, nil
}

// Validate checks the values the pipeline cannot run without
func Validate(cfg *Config) error {
	if len(cfg.Toolchain.Tools) == 0 {
		return errors.New(errors.ErrConfigValid, "toolchain.tools must list at least one tool")
	}
	for _, tool := range cfg.Toolchain.Tools {
		if strings.TrimSpace(tool) == "" {
			return errors.New(errors.ErrConfigValid, "toolchain.tools contains an empty name")
		}
	}
	for _, root := range cfg.Toolchain.SearchRoots {
		if err := paths.ValidatePath(root); err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "invalid toolchain.search_roots entry")
		}
	}
	if cfg.Capabilities.Timeout <= 0 {
		return errors.Newf(errors.ErrConfigValid, "capabilities.timeout must be positive, got %s", cfg.Capabilities.Timeout)
	}
	if cfg.Templates.Makefile == "" {
		return errors.New(errors.ErrConfigValid, "templates.makefile must be set")
	}
	if err := paths.ValidateFileName(cfg.Templates.Makefile); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "templates.makefile must name a file inside templates.dir")
	}
	if cfg.Output.Makefile == "" {
		return errors.New(errors.ErrConfigValid, "output.makefile must be set")
	}
	dirs := []struct {
		key, value string
	}{
		{"templates.dir", cfg.Templates.Dir},
		{"install.dir", cfg.Install.Dir},
	}
	for _, d := range dirs {
		if err := paths.ValidatePath(d.value); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "invalid %s", d.key)
		}
	}
	if cfg.Capabilities.AvrdudeConf != "" {
		if err := paths.ValidatePath(cfg.Capabilities.AvrdudeConf); err != nil {
			return errors.Wrap(err, errors.ErrConfigValid, "invalid capabilities.avrdude_conf")
		}
	}
	return nil
}

func loadDefaults() (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}
	return k, nil
}

// loadFile merges a TOML file into k. Missing optional files are skipped.
func loadFile(k *koanf.Koanf, path string, required bool) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
	}
	return true, nil
}

// envKey maps XAVR_CAPABILITIES_AVRDUDE_CONF to capabilities.avrdude_conf.
// Variables outside the known sections are ignored.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || !sections[section] || rest == "" {
		return ""
	}
	return section + "." + rest
}

func unmarshal(k *koanf.Koanf, cfg *Config) error {
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return nil
}
