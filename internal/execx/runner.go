package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Env entries are appended to the inherited environment.
	Env []string
	Dir string
	// Stream copies the process output to the runner's writers as it runs.
	Stream bool
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Output captures the result of a finished process.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes commands synchronously.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Output, error)
}

// ExitError reports a process that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("`%s` exited with status %d", e.Command, e.ExitCode)
	if tail := lastLines(e.Stderr, 5); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive streamed output; default os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Log    *logrus.Entry
}

// NewExecRunner returns a runner that logs through log.
func NewExecRunner(log *logrus.Entry) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run starts cmd and waits for it. A spawn failure is returned as a wrapped
// error; a non-zero exit is returned as *ExitError alongside the output.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Output, error) {
	log := r.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log.WithFields(logrus.Fields{"cmd": c.Name, "args": c.Args}).Debug("exec")

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if c.Stream {
		stdout := r.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		stderr := r.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	out := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			log.WithField("cmd", c.Name).WithField("status", out.ExitCode).Debug("exec failed")
			return out, &ExitError{Command: c.String(), ExitCode: out.ExitCode, Stderr: out.Stderr}
		}
		return out, errors.Wrapf(err, "running `%s`", c.String())
	}
	return out, nil
}

// lastLines returns the trailing n non-empty lines of s joined by "; ".
func lastLines(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
