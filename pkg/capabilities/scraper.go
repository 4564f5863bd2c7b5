package capabilities

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/logging"
	"github.com/arthur-debert/xavr/pkg/toolchain"
	"github.com/rs/zerolog"
)

// Tool names the probes run
const (
	ToolGCC     = "avr-gcc"
	ToolCPP     = "avr-cpp"
	ToolAvrdude = "avrdude"
)

// Probe names, as reported in drift warnings
const (
	ProbeMCUs        = "mcus"
	ProbeProgrammers = "programmers"
	ProbeIncludes    = "includes"
)

// Report is the result of every probe
type Report struct {
	MCUs        Result[MCU]        `json:"mcus" yaml:"mcus"`
	Programmers Result[Programmer] `json:"programmers" yaml:"programmers"`
	Includes    Result[string]     `json:"includes" yaml:"includes"`
}

// Drift lists the probes whose header was not found
func (r *Report) Drift() []string {
	var drifted []string
	if r.MCUs.Drifted() {
		drifted = append(drifted, ProbeMCUs)
	}
	if r.Programmers.Drifted() {
		drifted = append(drifted, ProbeProgrammers)
	}
	if r.Includes.Drifted() {
		drifted = append(drifted, ProbeIncludes)
	}
	return drifted
}

// Scraper runs the capability probes against resolved tools
type Scraper struct {
	Runner Runner
	FS     filesystem.FS

	// AvrdudeConf is passed to avrdude with -C when set
	AvrdudeConf string

	// Strict turns a missing header into an error
	Strict bool

	logger zerolog.Logger
}

// NewScraper creates a scraper that runs probes through runner
func NewScraper(runner Runner) *Scraper {
	return &Scraper{
		Runner: runner,
		FS:     filesystem.NewOS(),
		logger: logging.GetLogger("capabilities.scraper"),
	}
}

// Scrape runs the include, MCU and programmer probes in that order
func (s *Scraper) Scrape(ctx context.Context, tools *toolchain.ToolPaths) (*Report, error) {
	done := logging.LogOperationStart(s.logger, "scrape")
	defer done()

	cpp, err := requireTool(tools, ToolCPP)
	if err != nil {
		return nil, err
	}
	gcc, err := requireTool(tools, ToolGCC)
	if err != nil {
		return nil, err
	}
	avrdude, err := requireTool(tools, ToolAvrdude)
	if err != nil {
		return nil, err
	}

	report := &Report{}

	if report.Includes, err = s.ProbeIncludes(ctx, cpp); err != nil {
		return nil, err
	}
	if report.MCUs, err = s.ProbeMCUs(ctx, gcc); err != nil {
		return nil, err
	}
	conf := s.avrdudeConf(avrdude, tools.FromSearchRoot())
	if report.Programmers, err = s.ProbeProgrammers(ctx, avrdude, conf); err != nil {
		return nil, err
	}

	drifted := report.Drift()
	for _, probe := range drifted {
		s.logger.Warn().
			Str("probe", probe).
			Msg("Expected header not found in tool output, possible format drift")
	}
	if s.Strict && len(drifted) > 0 {
		return report, errors.Newf(errors.ErrScrapeFormat,
			"unexpected output format from %s", strings.Join(drifted, ", ")).
			WithDetail("probes", drifted)
	}

	return report, nil
}

// ProbeMCUs lists the MCUs avr-gcc supports
func (s *Scraper) ProbeMCUs(ctx context.Context, gcc string) (Result[MCU], error) {
	out, err := s.Runner.Run(ctx, Command{
		Path: gcc,
		Args: []string{"-Wa,-mlist-devices", "--target-help"},
	})
	if err != nil {
		return Result[MCU]{}, err
	}

	result, err := ParseMCUs(bytes.NewReader(out.Stdout))
	if err != nil {
		return result, errors.Wrap(err, errors.ErrScrapeFormat, "failed to read avr-gcc output")
	}
	s.logger.Info().Int("count", result.Len()).Str("status", string(result.Status)).Msg("Parsed supported MCUs")
	for _, mcu := range result.Entries {
		s.logger.Debug().Str("mcu", mcu.Name).Str("define", mcu.Define).Msg("MCU")
	}
	return result, nil
}

// ProbeProgrammers lists the programmers avrdude supports. conf may be empty.
func (s *Scraper) ProbeProgrammers(ctx context.Context, avrdude, conf string) (Result[Programmer], error) {
	var args []string
	if conf != "" {
		args = append(args, "-C", conf)
	}
	args = append(args, "-c?")

	out, err := s.Runner.Run(ctx, Command{Path: avrdude, Args: args})
	if err != nil {
		return Result[Programmer]{}, err
	}

	result, err := ParseProgrammers(bytes.NewReader(out.Stderr))
	if err != nil {
		return result, errors.Wrap(err, errors.ErrScrapeFormat, "failed to read avrdude output")
	}
	s.logger.Info().Int("count", result.Len()).Str("status", string(result.Status)).Msg("Parsed supported programmers")
	return result, nil
}

// ProbeIncludes lists the system include directories of avr-cpp
func (s *Scraper) ProbeIncludes(ctx context.Context, cpp string) (Result[string], error) {
	out, err := s.Runner.Run(ctx, Command{
		Path:  cpp,
		Args:  []string{"-v"},
		Stdin: strings.NewReader(""),
	})
	if err != nil {
		return Result[string]{}, err
	}

	result, err := ParseIncludes(bytes.NewReader(out.Stderr))
	if err != nil {
		return result, errors.Wrap(err, errors.ErrScrapeFormat, "failed to read avr-cpp output")
	}
	for _, dir := range result.Entries {
		s.logger.Info().Str("path", dir).Msg("Found system include")
	}
	return result, nil
}

// avrdudeConf picks the config file for avrdude. A bundled avrdude (one found
// in a search root rather than on the PATH) cannot locate its default
// config, which lives in ../etc/avrdude.conf relative to the binary.
func (s *Scraper) avrdudeConf(avrdude string, bundled bool) string {
	if s.AvrdudeConf != "" {
		return s.AvrdudeConf
	}
	if !bundled {
		return ""
	}

	candidate := filepath.Clean(filepath.Join(filepath.Dir(avrdude), "..", "etc", "avrdude.conf"))
	if s.FS != nil && filesystem.IsRegularFile(s.FS, candidate) {
		s.logger.Debug().Str("conf", candidate).Msg("Using bundled avrdude.conf")
		return candidate
	}
	return ""
}

func requireTool(tools *toolchain.ToolPaths, name string) (string, error) {
	if tools == nil {
		return "", errors.New(errors.ErrInvalidInput, "no resolved tools")
	}
	path, ok := tools.Get(name)
	if !ok || path == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "%s was not resolved", name)
	}
	return path, nil
}
