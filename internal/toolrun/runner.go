// Package toolrun executes the external helper tools the discovery and
// execution pipelines depend on (plutil, sips, qlmanage, open).
//
// Every invocation runs with a bounded timeout so a single hung helper
// cannot stall an entire discovery batch.
package toolrun

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single external tool invocation.
const DefaultTimeout = 10 * time.Second

// Runner executes an external tool and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Observer records tool invocation outcomes for monitoring.
type Observer interface {
	ObserveTool(name string, err error, elapsed time.Duration)
}

// ExecRunner runs tools via os/exec with a per-invocation timeout.
type ExecRunner struct {
	timeout  time.Duration
	observer Observer
}

// New creates a runner. A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *ExecRunner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{timeout: timeout}
}

// WithObserver attaches a metrics observer.
func (r *ExecRunner) WithObserver(o Observer) *ExecRunner {
	r.observer = o
	return r
}

// Run executes the tool and returns its stdout. The process is killed when
// the timeout elapses.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	start := time.Now()
	err := cmd.Run()
	if r.observer != nil {
		r.observer.ObserveTool(name, err, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}
