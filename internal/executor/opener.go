package executor

import (
	"context"
	"errors"

	"github.com/launchdeck/backend/internal/toolrun"
)

var errNotReverseDNS = errors.New("target is not a reverse-DNS identifier")

// ExecOpener shells out to the system open tool.
type ExecOpener struct {
	runner toolrun.Runner
}

// NewExecOpener creates the default opener.
func NewExecOpener(runner toolrun.Runner) *ExecOpener {
	return &ExecOpener{runner: runner}
}

// Open launches a path or URL via the OS default-open mechanism.
func (o *ExecOpener) Open(ctx context.Context, target string) error {
	_, err := o.runner.Run(ctx, "open", target)
	return err
}

// OpenApp launches an application by name.
func (o *ExecOpener) OpenApp(ctx context.Context, name string) error {
	_, err := o.runner.Run(ctx, "open", "-a", name)
	return err
}
