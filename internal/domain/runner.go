package domain

import (
	"context"
	"strings"
	"time"

	"pgsetup/internal/ports"
	"pgsetup/internal/shared/console"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

// CommandRunner is the only boundary between setup and the process layer.
// It never returns an error: a failed command is printed and reported as
// ok=false.
type CommandRunner struct {
	exec    ports.Executor
	out     *console.Printer
	timeout time.Duration
}

// NewCommandRunner builds a runner. A zero timeout lets commands run until
// they exit.
func NewCommandRunner(exec ports.Executor, out *console.Printer, timeout time.Duration) *CommandRunner {
	return &CommandRunner{exec: exec, out: out, timeout: timeout}
}

// Run executes command and returns its stdout.
func (r *CommandRunner) Run(ctx context.Context, command, description string) (string, bool) {
	r.out.Step(description + "...")

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.exec.Execute(ctx, command)
	if err != nil {
		logger.Command(ctx, command, time.Since(start), appError.ErrCommandFailed.Wrap(err))
	} else {
		logger.Command(ctx, command, time.Since(start), nil)
	}

	if err != nil {
		r.out.Failure("Error during " + description + ":")
		r.out.Plain("Command: " + command)
		errText := res.Stderr
		if strings.TrimSpace(errText) == "" {
			errText = err.Error()
		}
		r.out.Plain("Error: " + errText)
		return "", false
	}

	r.out.Success(description + " completed successfully!")
	return res.Stdout, true
}
