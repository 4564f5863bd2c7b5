// Package config provides layered configuration for xavr.
//
// Layers are merged with koanf in this order, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user config file ($XDG_CONFIG_HOME/xavr/config.toml or --config)
//  3. the project file .xavr.toml in the working directory
//  4. XAVR_<SECTION>_<KEY> environment variables
//  5. command line overrides
//
// Lists from environment variables are comma separated. Lists in a later
// layer replace lists from earlier layers.
package config
