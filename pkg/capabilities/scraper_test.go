package capabilities

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/filesystem"
	"github.com/arthur-debert/xavr/pkg/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner answers commands by tool base name and records every call
type fakeRunner struct {
	outputs map[string]*Output
	calls   []Command
	stdin   map[string]string
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (*Output, error) {
	f.calls = append(f.calls, cmd)
	name := filepath.Base(cmd.Path)
	if cmd.Stdin != nil {
		data, _ := io.ReadAll(cmd.Stdin)
		if f.stdin == nil {
			f.stdin = map[string]string{}
		}
		f.stdin[name] = string(data)
	}
	out, ok := f.outputs[name]
	if !ok {
		return nil, errors.Newf(errors.ErrScrapeExec, "failed to run %s", cmd.Path)
	}
	return out, nil
}

func (f *fakeRunner) call(name string) (Command, bool) {
	for _, c := range f.calls {
		if filepath.Base(c.Path) == name {
			return c, true
		}
	}
	return Command{}, false
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func fixtureRunner(t *testing.T) *fakeRunner {
	return &fakeRunner{outputs: map[string]*Output{
		"avr-gcc": {Stdout: fixture(t, "avr-gcc-target-help.txt")},
		"avrdude": {Stderr: fixture(t, "avrdude-programmers.txt"), ExitCode: 1},
		"avr-cpp": {Stderr: fixture(t, "avr-cpp-v.txt")},
	}}
}

func toolsIn(root, dir string) *toolchain.ToolPaths {
	tools := &toolchain.ToolPaths{Root: root}
	for _, name := range []string{"avr-cpp", "avr-gcc", "avrdude"} {
		tools.Tools = append(tools.Tools, toolchain.ToolPath{
			Name: name, Path: filepath.Join(dir, name), Source: toolchain.SourcePath,
		})
	}
	return tools
}

func TestScrape(t *testing.T) {
	runner := fixtureRunner(t)
	s := NewScraper(runner)
	s.FS = filesystem.NewMemoryFS()

	report, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
	require.NoError(t, err)

	assert.Equal(t, 24, report.MCUs.Len())
	assert.Equal(t, 8, report.Programmers.Len())
	assert.Equal(t, 3, report.Includes.Len())
	assert.Empty(t, report.Drift())

	gcc, ok := runner.call("avr-gcc")
	require.True(t, ok)
	assert.Equal(t, []string{"-Wa,-mlist-devices", "--target-help"}, gcc.Args)

	avrdude, ok := runner.call("avrdude")
	require.True(t, ok)
	assert.Equal(t, []string{"-c?"}, avrdude.Args)

	cpp, ok := runner.call("avr-cpp")
	require.True(t, ok)
	assert.Equal(t, []string{"-v"}, cpp.Args)
	assert.Equal(t, "", runner.stdin["avr-cpp"], "the preprocessor reads an empty input")

	assert.Equal(t, "avr-cpp", filepath.Base(runner.calls[0].Path), "includes are probed first")
}

func TestScrapeReadsTheRightStreams(t *testing.T) {
	// Listings printed on the other stream are not picked up.
	runner := &fakeRunner{outputs: map[string]*Output{
		"avr-gcc": {Stderr: fixture(t, "avr-gcc-target-help.txt")},
		"avrdude": {Stdout: fixture(t, "avrdude-programmers.txt")},
		"avr-cpp": {Stdout: fixture(t, "avr-cpp-v.txt")},
	}}
	s := NewScraper(runner)

	report, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
	require.NoError(t, err)
	assert.Equal(t, []string{ProbeMCUs, ProbeProgrammers, ProbeIncludes}, report.Drift())
}

func TestScrapeDrift(t *testing.T) {
	newRunner := func() *fakeRunner {
		r := fixtureRunner(t)
		r.outputs["avrdude"] = &Output{Stderr: []byte("avrdude: unknown option -- ?\n")}
		return r
	}

	t.Run("warns by default", func(t *testing.T) {
		s := NewScraper(newRunner())
		report, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
		require.NoError(t, err)

		assert.Equal(t, []string{ProbeProgrammers}, report.Drift())
		assert.Equal(t, StatusHeaderNotFound, report.Programmers.Status)
		assert.Equal(t, StatusFound, report.MCUs.Status)
	})

	t.Run("fails when strict", func(t *testing.T) {
		s := NewScraper(newRunner())
		s.Strict = true

		report, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrScrapeFormat))
		assert.Equal(t, []string{ProbeProgrammers}, errors.GetErrorDetails(err)["probes"])
		require.NotNil(t, report, "the partial report is still returned")
	})

	t.Run("confirmed empty is not drift", func(t *testing.T) {
		r := fixtureRunner(t)
		r.outputs["avrdude"] = &Output{Stderr: []byte("Valid programmers are:\n\n")}
		s := NewScraper(r)
		s.Strict = true

		report, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
		require.NoError(t, err)
		assert.Equal(t, StatusEmpty, report.Programmers.Status)
	})
}

func TestScrapeMissingTool(t *testing.T) {
	s := NewScraper(fixtureRunner(t))
	tools := &toolchain.ToolPaths{Tools: []toolchain.ToolPath{{Name: "avr-gcc", Path: "/usr/bin/avr-gcc"}}}

	_, err := s.Scrape(context.Background(), tools)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = s.Scrape(context.Background(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestScrapeRunnerFailure(t *testing.T) {
	r := fixtureRunner(t)
	delete(r.outputs, "avr-gcc")
	s := NewScraper(r)

	_, err := s.Scrape(context.Background(), toolsIn("", "/usr/bin"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrScrapeExec))
}

func TestAvrdudeConf(t *testing.T) {
	fs := filesystem.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/Arduino/tools/avr/etc", 0755))
	require.NoError(t, fs.WriteFile("/Arduino/tools/avr/etc/avrdude.conf", []byte("# conf\n"), 0644))

	t.Run("bundled avrdude uses its sibling config", func(t *testing.T) {
		r := fixtureRunner(t)
		s := NewScraper(r)
		s.FS = fs

		_, err := s.Scrape(context.Background(), toolsIn("/Arduino/tools/avr/bin", "/Arduino/tools/avr/bin"))
		require.NoError(t, err)

		call, _ := r.call("avrdude")
		assert.Equal(t, []string{"-C", "/Arduino/tools/avr/etc/avrdude.conf", "-c?"}, call.Args)
	})

	t.Run("PATH avrdude uses its default config", func(t *testing.T) {
		s := NewScraper(nil)
		s.FS = fs
		assert.Equal(t, "", s.avrdudeConf("/Arduino/tools/avr/bin/avrdude", false))
	})

	t.Run("bundled avrdude without a config", func(t *testing.T) {
		s := NewScraper(nil)
		s.FS = fs
		assert.Equal(t, "", s.avrdudeConf("/opt/other/bin/avrdude", true))
	})

	t.Run("explicit config wins", func(t *testing.T) {
		s := NewScraper(nil)
		s.FS = fs
		s.AvrdudeConf = "/etc/avrdude.conf"
		assert.Equal(t, "/etc/avrdude.conf", s.avrdudeConf("/usr/bin/avrdude", false))
	})
}

func requireShell(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecRunner(t *testing.T) {
	sh := requireShell(t)
	r := NewExecRunner(10 * time.Second)

	t.Run("captures both streams", func(t *testing.T) {
		out, err := r.Run(context.Background(), Command{
			Path: sh,
			Args: []string{"-c", "echo out; echo err >&2"},
		})
		require.NoError(t, err)
		assert.Equal(t, "out\n", string(out.Stdout))
		assert.Equal(t, "err\n", string(out.Stderr))
		assert.Equal(t, 0, out.ExitCode)
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		out, err := r.Run(context.Background(), Command{
			Path: sh,
			Args: []string{"-c", "echo 'Valid programmers are:' >&2; exit 1"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, out.ExitCode)
		assert.Equal(t, "Valid programmers are:\n", string(out.Stderr))
	})

	t.Run("feeds stdin", func(t *testing.T) {
		out, err := r.Run(context.Background(), Command{
			Path:  sh,
			Args:  []string{"-c", "cat"},
			Stdin: strings.NewReader("hello"),
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", string(out.Stdout))
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		_, err := r.Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "avr-gcc")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrScrapeExec))
	})

	t.Run("timeout is an error", func(t *testing.T) {
		slow := NewExecRunner(50 * time.Millisecond)
		_, err := slow.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exec sleep 5"}})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrScrapeExec))
	})
}

func TestExecRunnerWithScraper(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()

	script := func(name, body string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("#!%s\n%s\n", sh, body)), 0755))
	}
	script("avr-gcc", "printf 'Known MCU names:\\n  atmega328p attiny85\\nEnd\\n'")
	script("avrdude", "printf 'Valid programmers are:\\n  avrisp   = Atmel AVR ISP\\n\\n' >&2; exit 1")
	script("avr-cpp", "cat >/dev/null; printf '#include <...> search starts here:\\n /opt/avr/include\\nEnd of search list.\\n' >&2")

	s := NewScraper(NewExecRunner(10 * time.Second))
	report, err := s.Scrape(context.Background(), toolsIn("", dir))
	require.NoError(t, err)

	assert.Equal(t, []MCU{
		{Name: "atmega328p", Define: "__AVR_ATmega328P__"},
		{Name: "attiny85", Define: "__AVR_ATtiny85__"},
	}, report.MCUs.Entries)
	assert.Equal(t, []Programmer{{ID: "avrisp", Description: "Atmel AVR ISP"}}, report.Programmers.Entries)
	assert.Equal(t, []string{"/opt/avr/include"}, report.Includes.Entries)
}
