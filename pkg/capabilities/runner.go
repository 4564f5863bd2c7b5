package capabilities

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os/exec"
	"time"

	"github.com/arthur-debert/xavr/pkg/errors"
	"github.com/arthur-debert/xavr/pkg/logging"
)

// waitDelay bounds how long Run waits for output pipes after the process is killed
const waitDelay = time.Second

// Command is a single tool invocation
type Command struct {
	Path  string
	Args  []string
	Stdin io.Reader
}

// Output is everything a finished command printed
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes capability probes
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExecRunner runs commands as subprocesses, buffering their output.
// A non-zero exit status is not an error: several tools exit non-zero
// after printing a listing.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner creates a runner that bounds every command by timeout
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run executes cmd and waits for it to exit
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Output, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logging.LogCommand(cmd.Path, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if cmd.Stdin != nil {
		c.Stdin = cmd.Stdin
	} else {
		c.Stdin = bytes.NewReader(nil)
	}

	start := time.Now()
	err := c.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		logging.LogCommandResult(cmd.Path, -1, time.Since(start), ctxErr)
		return out, errors.Wrapf(ctxErr, errors.ErrScrapeExec, "%s did not finish", cmd.Path)
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		err = nil
	}
	logging.LogCommandResult(cmd.Path, out.ExitCode, time.Since(start), err)
	if err != nil {
		return out, errors.Wrapf(err, errors.ErrScrapeExec, "failed to run %s", cmd.Path)
	}

	return out, nil
}
