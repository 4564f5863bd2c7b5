package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredTools = []string{"avr-cpp", "avr-gcc", "avr-objcopy", "avr-objdump", "avr-size", "avr-nm", "avrdude"}

// fakePath simulates a PATH holding the given tools under /usr/bin
func fakePath(available ...string) LookPathFunc {
	set := make(map[string]bool, len(available))
	for _, name := range available {
		set[name] = true
	}
	return func(file string) (string, error) {
		if set[file] {
			return filepath.Join("/usr/bin", file), nil
		}
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
	}
}

func installTools(t *testing.T, fs filesystem.FS, root string, tools ...string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(root, 0755))
	for _, tool := range tools {
		require.NoError(t, fs.WriteFile(filepath.Join(root, tool), []byte("#!/bin/sh\n"), 0755))
	}
}

func newTestResolver(lookPath LookPathFunc, fs filesystem.FS, roots ...string) *Resolver {
	r := NewResolver(requiredTools, roots)
	r.LookPath = lookPath
	r.FS = fs
	return r
}

func TestResolveFromPath(t *testing.T) {
	r := newTestResolver(fakePath(requiredTools...), filesystem.NewMemoryFS(), "/opt/arduino/bin")

	tools, attempts, err := r.Resolve(context.Background())
	require.NoError(t, err)

	require.Len(t, tools.Tools, len(requiredTools))
	for i, tool := range tools.Tools {
		assert.Equal(t, requiredTools[i], tool.Name, "tools keep their required order")
		assert.Equal(t, filepath.Join("/usr/bin", tool.Name), tool.Path)
		assert.Equal(t, SourcePath, tool.Source)
	}
	assert.False(t, tools.FromSearchRoot())
	assert.Len(t, attempts, 1)
}

func TestResolveFallsBackToSearchRoot(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "/opt/arduino/bin", requiredTools...)

	// Everything but avrdude is on the PATH; the whole PATH result is discarded.
	r := newTestResolver(fakePath(requiredTools[:6]...), fs, "/opt/arduino/bin")

	tools, attempts, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/opt/arduino/bin", tools.Root)
	assert.True(t, tools.FromSearchRoot())
	for _, tool := range tools.Tools {
		assert.Equal(t, filepath.Join("/opt/arduino/bin", tool.Name), tool.Path)
		assert.Equal(t, "/opt/arduino/bin", tool.Source)
	}

	require.Len(t, attempts, 2)
	assert.Equal(t, []string{"avrdude"}, attempts[0].Missing)
	assert.True(t, attempts[1].Complete())
}

func TestResolveRelativeSearchRootGivesAbsolutePaths(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "arduino/bin", requiredTools...)

	r := newTestResolver(fakePath(), fs, "arduino/bin")

	tools, _, err := r.Resolve(context.Background())
	require.NoError(t, err)

	for _, tool := range tools.Tools {
		assert.True(t, filepath.IsAbs(tool.Path), "%s resolved to %q", tool.Name, tool.Path)
		assert.True(t, strings.HasSuffix(tool.Path, filepath.Join("arduino", "bin", tool.Name)))
	}
}

func TestResolveSearchRootOrder(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "/first", requiredTools[:3]...)
	installTools(t, fs, "/second", requiredTools...)
	installTools(t, fs, "/third", requiredTools...)

	r := newTestResolver(fakePath(), fs, "/first", "/second", "/third")

	tools, attempts, err := r.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/second", tools.Root, "first complete root wins, incomplete roots are skipped")
	assert.Len(t, attempts, 3)
}

func TestResolveMissingTools(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "/opt/arduino/bin", requiredTools[:5]...)

	r := newTestResolver(fakePath("avr-gcc"), fs, "/opt/arduino/bin")

	tools, attempts, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Nil(t, tools)
	assert.Len(t, attempts, 2)

	assert.True(t, errors.IsErrorCode(err, errors.ErrToolsMissing))
	details := errors.GetErrorDetails(err)
	assert.Equal(t, []string{"avr-nm", "avrdude"}, details["missing"])
	assert.Equal(t, []string{SourcePath, "/opt/arduino/bin"}, details["searched"])
	assert.Contains(t, err.Error(), "avr-nm, avrdude")
}

func TestResolveNoSearchRoots(t *testing.T) {
	r := newTestResolver(fakePath(), filesystem.NewMemoryFS())

	_, _, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrToolsMissing))
	assert.Equal(t, requiredTools, errors.GetErrorDetails(err)["missing"])
}

func TestResolveIgnoresDirectories(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "/opt/bin", requiredTools[:6]...)
	require.NoError(t, fs.MkdirAll("/opt/bin/avrdude", 0755))

	r := newTestResolver(fakePath(), fs, "/opt/bin")

	_, _, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"avrdude"}, errors.GetErrorDetails(err)["missing"])
}

func TestResolveCancelled(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	installTools(t, fs, "/opt/bin", requiredTools...)
	r := newTestResolver(fakePath(), fs, "/opt/bin")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := r.Resolve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveNoTools(t *testing.T) {
	r := NewResolver(nil, nil)
	_, _, err := r.Resolve(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestToolPaths(t *testing.T) {
	tools := &ToolPaths{Tools: []ToolPath{
		{Name: "avr-gcc", Path: "/usr/bin/avr-gcc", Source: SourcePath},
		{Name: "avrdude", Path: "/usr/bin/avrdude", Source: SourcePath},
	}}

	path, ok := tools.Get("avrdude")
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin/avrdude", path)

	_, ok = tools.Get("avr-size")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{
		"avr-gcc_loc": "/usr/bin/avr-gcc",
		"avrdude_loc": "/usr/bin/avrdude",
	}, tools.ModelValues())
}
