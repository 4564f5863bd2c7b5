package config

import (
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the defaults with every value commented out,
// ready to be saved as a user config file
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// Marshal renders the effective configuration as TOML
func (l *Loaded) Marshal() ([]byte, error) {
	out, err := toml.Marshal(l.Raw())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal configuration")
	}
	return out, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string
	inArray := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if !inArray && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// multi-line arrays are commented line by line
		if strings.HasSuffix(trimmed, "[") {
			inArray = true
		} else if inArray && strings.HasPrefix(trimmed, "]") {
			inArray = false
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
