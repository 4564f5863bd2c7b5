package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
)

// ValidatePath checks that a configured path is usable:
// - not empty
// - no null bytes
// - within the common filesystem length limit
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").
			WithDetail("path", path)
	}

	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length").
			WithDetail("path", path)
	}

	return nil
}

// ValidateFileName ensures name is a plain file name, so joining it to a
// directory cannot leave that directory. Template and asset names must:
// - Not be empty
// - Not contain path separators
// - Not be . or ..
// - Not contain control characters
func ValidateFileName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "file name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return errors.Newf(errors.ErrInvalidInput, "file name %q cannot contain path separators", name).
			WithDetail("name", name)
	}

	if name == "." || name == ".." {
		return errors.New(errors.ErrInvalidInput, "file name cannot be '.' or '..'")
	}

	for _, r := range name {
		if r < 32 {
			return errors.Newf(errors.ErrInvalidInput, "file name %q contains control characters", name).
				WithDetail("name", name)
		}
	}

	return nil
}

// ContainsPath checks if child is contained within parent.
// Both paths are cleaned before comparison.
func ContainsPath(parent, child string) bool {
	rel, err := filepath.Rel(filepath.Clean(ExpandHome(parent)), filepath.Clean(ExpandHome(child)))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
