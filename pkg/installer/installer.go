package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/xavr/pkg/errors"
	xavrfs "github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/arthur-debert/xavr/pkg/paths"
	"github.com/arthur-debert/xavr/pkg/template"
	"github.com/rs/zerolog"
)

// TemplateSuffix is stripped from template names to name the rendered files
const TemplateSuffix = ".tpl"

// Options describes what to install and where
type Options struct {
	// TemplatesDir holds the templates and the assets
	TemplatesDir string
	Makefile     string
	Descriptor   string
	Assets       []string

	// Dest is the IDE template directory
	Dest   string
	DryRun bool
}

// Operation is one step of the install pipeline
type Operation struct {
	ID          string
	Description string
	Target      string
}

// Result describes a finished (or planned) install
type Result struct {
	Dest          string
	Operations    []Operation
	Installed     []string
	MissingAssets []string

	// DescriptorStrings counts the <string> entries of the rendered descriptor
	DescriptorStrings int
	DryRun            bool
}

// Installer places the rendered project template in the IDE template directory
type Installer struct {
	// Templates reads templates and assets
	Templates xavrfs.FS
	// Target receives the installed files
	Target filesystem.FullFileSystem

	RollbackOnError bool

	logger zerolog.Logger
}

// New creates an installer working on the OS filesystem with absolute paths
func New() *Installer {
	osfs := filesystem.NewOSFileSystem("/")
	return &Installer{
		Templates:       xavrfs.NewOS(),
		Target:          synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths(),
		RollbackOnError: true,
		logger:          logging.GetLogger("installer"),
	}
}

type pending struct {
	op  Operation
	run func(ctx context.Context, fs filesystem.FileSystem) error
}

// Install renders the Makefile and descriptor templates against model and
// installs them with the assets into opts.Dest
func (i *Installer) Install(ctx context.Context, model template.Model, opts Options) (*Result, error) {
	done := logging.LogOperationStart(i.logger, "install")
	defer done()

	if opts.Dest == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no install directory configured")
	}
	dest, err := filepath.Abs(opts.Dest)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid install directory %s", opts.Dest)
	}
	templatesDir, err := filepath.Abs(opts.TemplatesDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid templates directory %s", opts.TemplatesDir)
	}
	if paths.ContainsPath(dest, templatesDir) {
		return nil, errors.Newf(errors.ErrInvalidInput, "install directory %s contains the templates", dest).
			WithDetail("path", dest)
	}
	for _, name := range append([]string{opts.Makefile, opts.Descriptor}, opts.Assets...) {
		if err := paths.ValidateFileName(name); err != nil {
			return nil, err
		}
	}

	result := &Result{Dest: dest, DryRun: opts.DryRun}

	makefile, err := i.render(filepath.Join(templatesDir, opts.Makefile), model)
	if err != nil {
		return nil, err
	}
	descriptor, err := i.render(filepath.Join(templatesDir, opts.Descriptor), model)
	if err != nil {
		return nil, err
	}
	if result.DescriptorStrings, err = CheckDescriptor(descriptor); err != nil {
		return nil, err
	}

	steps := []pending{{
		op: Operation{ID: "mkdir-dest", Description: "create " + dest, Target: dest},
		run: func(ctx context.Context, fs filesystem.FileSystem) error {
			return fs.MkdirAll(dest, 0755)
		},
	}}
	steps = append(steps,
		writeStep(filepath.Join(dest, RenderedName(opts.Makefile)), makefile),
		writeStep(filepath.Join(dest, RenderedName(opts.Descriptor)), descriptor),
	)

	for _, asset := range opts.Assets {
		src := filepath.Join(templatesDir, asset)
		if !xavrfs.IsRegularFile(i.Templates, src) {
			i.logger.Warn().Str("asset", src).Msg("Asset not found, skipping")
			result.MissingAssets = append(result.MissingAssets, asset)
			continue
		}
		steps = append(steps, copyStep(src, filepath.Join(dest, filepath.Base(asset))))
	}

	for _, s := range steps {
		result.Operations = append(result.Operations, s.op)
	}

	if opts.DryRun {
		for _, op := range result.Operations {
			i.logger.Info().Str("id", op.ID).Str("target", op.Target).Msg("Would run")
		}
		return result, nil
	}

	if err := i.run(ctx, steps); err != nil {
		return result, err
	}

	for _, s := range steps[1:] {
		result.Installed = append(result.Installed, s.op.Target)
	}
	i.logger.Info().
		Str("dest", dest).
		Int("files", len(result.Installed)).
		Msg("Installed project template")
	return result, nil
}

func (i *Installer) render(path string, model template.Model) ([]byte, error) {
	src, err := i.Templates.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "template %s not found", path).
				WithDetail("path", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read template %s", path).
			WithDetail("path", path)
	}
	return template.RenderBytes(path, src, model)
}

func (i *Installer) run(ctx context.Context, steps []pending) error {
	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(steps))
	for _, s := range steps {
		ops = append(ops, sfs.CustomOperationWithID(s.op.ID, s.run))
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = i.RollbackOnError

	i.logger.Info().
		Int("operationCount", len(ops)).
		Bool("rollbackEnabled", i.RollbackOnError).
		Msg("Executing synthfs operations")

	if _, err := synthfs.RunWithOptions(ctx, i.Target, options, ops...); err != nil {
		return errors.Wrap(err, errors.ErrInstall, "failed to install project template")
	}
	return nil
}

// RenderedName is the installed name of a template file
func RenderedName(tpl string) string {
	return strings.TrimSuffix(filepath.Base(tpl), TemplateSuffix)
}

func writeStep(target string, data []byte) pending {
	return pending{
		op: Operation{
			ID:          "write-" + filepath.Base(target),
			Description: fmt.Sprintf("write %s (%d bytes)", target, len(data)),
			Target:      target,
		},
		run: func(ctx context.Context, fs filesystem.FileSystem) error {
			if err := fs.WriteFile(target, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			return nil
		},
	}
}

func copyStep(source, target string) pending {
	return pending{
		op: Operation{
			ID:          "copy-" + filepath.Base(target),
			Description: fmt.Sprintf("copy %s to %s", source, target),
			Target:      target,
		},
		run: func(ctx context.Context, fs filesystem.FileSystem) error {
			return copyFile(fs, source, target)
		},
	}
}

// copyFile copies a file from source to destination using the filesystem interface
func copyFile(fs filesystem.FileSystem, source, destination string) error {
	srcFile, err := fs.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", source, err)
	}
	defer func() { _ = srcFile.Close() }()

	content, err := io.ReadAll(srcFile)
	if err != nil {
		return fmt.Errorf("failed to read source file %s: %w", source, err)
	}

	var mode os.FileMode = 0644
	if fullFS, ok := fs.(filesystem.FullFileSystem); ok {
		if srcInfo, err := fullFS.Stat(source); err == nil {
			mode = srcInfo.Mode().Perm()
		}
	}

	if err := fs.WriteFile(destination, content, mode); err != nil {
		return fmt.Errorf("failed to write destination file %s: %w", destination, err)
	}
	return nil
}
