package setup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/xavr/pkg/capabilities"
	"github.com/arthur-debert/xavr/pkg/config"
	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/installer"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/arthur-debert/xavr/pkg/output"
	"github.com/arthur-debert/xavr/pkg/template"
	"github.com/arthur-debert/xavr/pkg/toolchain"
)

// Options configures a setup run. A nil Config means the built-in defaults;
// the remaining collaborators default to their OS-backed implementations.
type Options struct {
	Config  *config.Config
	WorkDir string

	// Install runs the installer phase after the Makefile is generated
	Install bool
	// DryRun renders everything in memory and writes nothing
	DryRun bool

	Console   *output.Console
	Resolver  *toolchain.Resolver
	Scraper   *capabilities.Scraper
	Installer *installer.Installer
	FS        filesystem.FS
}

// Result is everything a run produced
type Result struct {
	Tools    *toolchain.ToolPaths
	Attempts []toolchain.Attempt
	Report   *capabilities.Report
	Model    template.Model

	// Rendered lists the files written outside the install directory
	Rendered []string
	Install  *installer.Result
}

func (o *Options) defaults() error {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "failed to get working directory")
		}
		o.WorkDir = wd
	}
	if o.Console == nil {
		o.Console = output.Discard()
	}
	if o.Resolver == nil {
		o.Resolver = toolchain.NewResolver(o.Config.Toolchain.Tools, o.Config.Toolchain.SearchRoots)
	}
	if o.Scraper == nil {
		o.Scraper = capabilities.NewScraper(capabilities.NewExecRunner(o.Config.Capabilities.Timeout))
		o.Scraper.AvrdudeConf = o.Config.Capabilities.AvrdudeConf
		o.Scraper.Strict = o.Config.Capabilities.Strict
	}
	if o.Installer == nil {
		o.Installer = installer.New()
	}
	if o.FS == nil {
		o.FS = filesystem.NewOS()
	}
	return nil
}

// Run resolves the tools, scrapes their capabilities, generates the Makefile
// and, when asked, installs the project template
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("setup")
	done := logging.LogOperationStart(logger, "setup")
	defer done()

	if err := opts.defaults(); err != nil {
		return nil, err
	}
	result, err := probe(ctx, &opts)
	if err != nil {
		return result, err
	}

	cfg := opts.Config
	c := opts.Console

	src := resolvePath(opts.WorkDir, filepath.Join(cfg.Templates.Dir, cfg.Templates.Makefile))
	dst := resolvePath(opts.WorkDir, cfg.Output.Makefile)

	c.Phase("Generating %s", dst)
	if opts.DryRun {
		data, err := template.ReadTemplate(opts.FS, src)
		if err != nil {
			return result, err
		}
		if _, err := template.RenderBytes(src, data, result.Model); err != nil {
			return result, err
		}
		c.Printf("Would write %s", dst)
	} else {
		if err := template.RenderFile(opts.FS, src, dst, result.Model); err != nil {
			return result, err
		}
		result.Rendered = append(result.Rendered, dst)
		c.Printf("Wrote %s", dst)
	}

	if !opts.Install {
		return result, nil
	}

	installOpts := installer.Options{
		TemplatesDir: resolvePath(opts.WorkDir, cfg.Templates.Dir),
		Makefile:     cfg.Templates.Makefile,
		Descriptor:   cfg.Templates.Descriptor,
		Assets:       cfg.Install.Assets,
		Dest:         resolvePath(opts.WorkDir, cfg.Install.Dir),
		DryRun:       opts.DryRun,
	}

	c.Phase("Installing template in: %q", installOpts.Dest)
	installed, err := opts.Installer.Install(ctx, result.Model, installOpts)
	result.Install = installed
	if err != nil {
		return result, err
	}

	c.Summary(len(result.Model.Lists[ListMCUs]), len(result.Model.Lists[ListProgrammers]))
	for _, asset := range installed.MissingAssets {
		c.Warn("asset %s not found in %s, skipped", asset, installOpts.TemplatesDir)
	}
	if opts.DryRun {
		for _, op := range installed.Operations {
			c.Printf("Would %s", op.Description)
		}
		return result, nil
	}

	c.Success("Done. Hack away!")
	return result, nil
}

// Probe resolves the tools and scrapes their capabilities without writing
// anything
func Probe(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.defaults(); err != nil {
		return nil, err
	}
	return probe(ctx, &opts)
}

func probe(ctx context.Context, opts *Options) (*Result, error) {
	c := opts.Console
	result := &Result{}

	c.Phase("Searching for AVR tools in the PATH folders (%s)", os.Getenv("PATH"))
	tools, attempts, err := opts.Resolver.Resolve(ctx)
	result.Attempts = attempts
	reportAttempts(c, attempts)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrToolsMissing) {
			c.Printf("Exiting.")
		}
		return result, err
	}
	result.Tools = tools

	c.Phase("Parsing AVR toolchain capabilities")
	report, err := opts.Scraper.Scrape(ctx, tools)
	result.Report = report
	if report != nil {
		reportCapabilities(c, report)
	}
	if err != nil {
		return result, err
	}

	result.Model = BuildModel(tools, report)
	logger := logging.GetLogger("setup")
	logger.Debug().
		Strs("values", result.Model.Keys()).
		Strs("lists", result.Model.ListNames()).
		Msg("Template model built")
	return result, nil
}

func reportAttempts(c *output.Console, attempts []toolchain.Attempt) {
	for i, a := range attempts {
		if i > 0 {
			c.Phase("Searching %s", a.Source)
		}
		for _, tool := range a.Found {
			c.ToolFound(tool.Name, tool.Path)
		}
		for _, name := range a.Missing {
			c.ToolMissing(name, a.Source)
		}
		if a.Complete() {
			continue
		}
		if a.Source == toolchain.SourcePath {
			c.Printf("Could not find all tools in the PATH folders.")
		} else {
			c.Printf("Could not find all tools in %s.", a.Source)
		}
	}
}

func reportCapabilities(c *output.Console, report *capabilities.Report) {
	for _, dir := range report.Includes.Entries {
		c.Printf("Found system include: %s", dir)
	}
	c.Printf("Found %d MCUs and %d programmers", report.MCUs.Len(), report.Programmers.Len())

	headers := map[string]string{
		capabilities.ProbeMCUs:        report.MCUs.Header,
		capabilities.ProbeProgrammers: report.Programmers.Header,
		capabilities.ProbeIncludes:    report.Includes.Header,
	}
	for _, name := range report.Drift() {
		c.Drift(name, headers[name])
	}
}

// resolvePath anchors a relative path at workDir; empty stays empty
func resolvePath(workDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
