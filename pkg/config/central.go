package config

import (
	"time"
)

// Config is the complete xavr configuration
type Config struct {
	Toolchain    Toolchain    `koanf:"toolchain"`
	Capabilities Capabilities `koanf:"capabilities"`
	Templates    Templates    `koanf:"templates"`
	Output       Output       `koanf:"output"`
	Install      Install      `koanf:"install"`
}

// Toolchain controls tool resolution
type Toolchain struct {
	Tools       []string `koanf:"tools"`
	SearchRoots []string `koanf:"search_roots"`
}

// Capabilities controls the capability probes
type Capabilities struct {
	Timeout     time.Duration `koanf:"timeout"`
	Strict      bool          `koanf:"strict"`
	AvrdudeConf string        `koanf:"avrdude_conf"`
}

// Templates locates the template files
type Templates struct {
	Dir        string `koanf:"dir"`
	Makefile   string `koanf:"makefile"`
	Descriptor string `koanf:"descriptor"`
}

// Output names the generated files
type Output struct {
	Makefile string `koanf:"makefile"`
}

// Install controls the IDE template installation
type Install struct {
	Dir    string   `koanf:"dir"`
	Assets []string `koanf:"assets"`
}

// Default returns the configuration built from the embedded defaults only
func Default() *Config {
	k, err := loadDefaults()
	if err == nil {
		var cfg Config
		if err = unmarshal(k, &cfg); err == nil {
			return &cfg
		}
	}

	// The embedded file is part of the binary, so this only happens when
	// it was edited into an invalid state.
	return &Config{
		Toolchain: Toolchain{
			Tools: []string{"avr-cpp", "avr-gcc", "avr-objcopy", "avr-objdump", "avr-size", "avr-nm", "avrdude"},
		},
		Capabilities: Capabilities{Timeout: 30 * time.Second},
		Templates: Templates{
			Dir:        ".",
			Makefile:   "Makefile.tpl",
			Descriptor: "TemplateInfo.plist.tpl",
		},
		Output: Output{Makefile: "Makefile"},
	}
}
