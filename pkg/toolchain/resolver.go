package toolchain

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/rs/zerolog"
)

// LookPathFunc finds an executable on the PATH
type LookPathFunc func(file string) (string, error)

// Attempt records what one strategy found
type Attempt struct {
	Source  string
	Found   []ToolPath
	Missing []string
}

// Complete reports whether the strategy found every tool
func (a Attempt) Complete() bool {
	return len(a.Missing) == 0
}

// Resolver finds every required tool or fails
type Resolver struct {
	Tools       []string
	SearchRoots []string
	LookPath    LookPathFunc
	FS          filesystem.FS

	logger zerolog.Logger
}

// NewResolver creates a resolver using the process PATH and the OS filesystem
func NewResolver(tools, searchRoots []string) *Resolver {
	return &Resolver{
		Tools:       tools,
		SearchRoots: searchRoots,
		LookPath:    exec.LookPath,
		FS:          filesystem.NewOS(),
		logger:      logging.GetLogger("toolchain.resolver"),
	}
}

// Resolve returns the path of every tool, trying the PATH first and then
// each search root in order
func (r *Resolver) Resolve(ctx context.Context) (*ToolPaths, []Attempt, error) {
	if r.LookPath == nil {
		r.LookPath = exec.LookPath
	}
	if r.FS == nil {
		r.FS = filesystem.NewOS()
	}
	if len(r.Tools) == 0 {
		return nil, nil, errors.New(errors.ErrInvalidInput, "no tools to resolve")
	}

	var attempts []Attempt

	attempt := r.fromPath()
	attempts = append(attempts, attempt)
	if attempt.Complete() {
		return &ToolPaths{Tools: attempt.Found}, attempts, nil
	}
	r.logger.Info().
		Strs("missing", attempt.Missing).
		Msg("Could not find all tools in the PATH folders")

	for _, root := range r.SearchRoots {
		if err := ctx.Err(); err != nil {
			return nil, attempts, err
		}

		attempt = r.fromRoot(root)
		attempts = append(attempts, attempt)
		if attempt.Complete() {
			return &ToolPaths{Tools: attempt.Found, Root: root}, attempts, nil
		}
		r.logger.Info().
			Str("root", root).
			Strs("missing", attempt.Missing).
			Msg("Could not find all tools in search root")
	}

	last := attempts[len(attempts)-1]
	searched := make([]string, 0, len(attempts))
	for _, a := range attempts {
		searched = append(searched, a.Source)
	}

	return nil, attempts, errors.Newf(errors.ErrToolsMissing,
		"could not find %s in %s", strings.Join(last.Missing, ", "), strings.Join(searched, ", ")).
		WithDetail("missing", last.Missing).
		WithDetail("searched", searched)
}

func (r *Resolver) fromPath() Attempt {
	attempt := Attempt{Source: SourcePath}
	for _, tool := range r.Tools {
		path, err := r.LookPath(tool)
		if err != nil || path == "" {
			r.logger.Debug().Str("tool", tool).Msg("Not installed (or not in the PATH)")
			attempt.Missing = append(attempt.Missing, tool)
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		r.logger.Debug().Str("tool", tool).Str("path", path).Msg("Found tool")
		attempt.Found = append(attempt.Found, ToolPath{Name: tool, Path: path, Source: SourcePath})
	}
	return attempt
}

func (r *Resolver) fromRoot(root string) Attempt {
	attempt := Attempt{Source: root}
	for _, tool := range r.Tools {
		path := filepath.Join(root, tool)
		if !filesystem.IsRegularFile(r.FS, path) {
			r.logger.Debug().Str("tool", tool).Str("root", root).Msg("Not installed in search root")
			attempt.Missing = append(attempt.Missing, tool)
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		r.logger.Debug().Str("tool", tool).Str("path", path).Msg("Found tool")
		attempt.Found = append(attempt.Found, ToolPath{Name: tool, Path: path, Source: root})
	}
	return attempt
}
