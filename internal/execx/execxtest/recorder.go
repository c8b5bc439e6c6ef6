// Package execxtest provides a scripted execx.Runner for tests.
package execxtest

import (
	"context"
	"strings"
	"sync"

	"github.com/appwrap/appwrap/internal/execx"
)

// Handler answers one recorded command. Returning a nil Output is treated
// as an empty successful result.
type Handler func(cmd execx.Command) (*execx.Output, error)

// Recorder records every command it is asked to run and answers with the
// first matching rule, or success when no rule matches.
type Recorder struct {
	mu       sync.Mutex
	Commands []execx.Command
	rules    []rule
}

type rule struct {
	match   func(execx.Command) bool
	handler Handler
}

// On registers a handler for commands whose rendered command line starts
// with prefix.
func (r *Recorder) On(prefix string, h Handler) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		match:   func(c execx.Command) bool { return strings.HasPrefix(c.String(), prefix) },
		handler: h,
	})
	return r
}

// Fail makes commands starting with prefix exit with status code and stderr.
func (r *Recorder) Fail(prefix string, code int, stderr string) *Recorder {
	return r.On(prefix, func(c execx.Command) (*execx.Output, error) {
		out := &execx.Output{ExitCode: code, Stderr: stderr}
		return out, &execx.ExitError{Command: c.String(), ExitCode: code, Stderr: stderr}
	})
}

// Stdout makes commands starting with prefix succeed and print stdout.
func (r *Recorder) Stdout(prefix, stdout string) *Recorder {
	return r.On(prefix, func(execx.Command) (*execx.Output, error) {
		return &execx.Output{Stdout: stdout}, nil
	})
}

// Run implements execx.Runner.
func (r *Recorder) Run(_ context.Context, c execx.Command) (*execx.Output, error) {
	r.mu.Lock()
	r.Commands = append(r.Commands, c)
	rules := append([]rule(nil), r.rules...)
	r.mu.Unlock()

	for _, rl := range rules {
		if rl.match(c) {
			out, err := rl.handler(c)
			if out == nil {
				out = &execx.Output{}
			}
			return out, err
		}
	}
	return &execx.Output{}, nil
}

// Lines returns the rendered command lines in invocation order.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		lines[i] = c.String()
	}
	return lines
}

// Count returns how many recorded commands start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first command starting with prefix, or -1.
func (r *Recorder) Index(prefix string) int {
	for i, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			return i
		}
	}
	return -1
}
