package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"pgsetup/internal/ports"
)

// Executor implements ports.Executor by handing the command string to the
// platform shell.
type Executor struct{}

func NewExecutor() ports.Executor {
	return &Executor{}
}

func (e *Executor) Execute(ctx context.Context, command string) (ports.ExecResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := shellCommand(ctx, command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children of the shell may hold the output pipes after a cancelled
	// shell is killed.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	result := ports.ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s: %w", command, ctxErr)
		}
		return result, fmt.Errorf("%s: %w", command, err)
	}
	return result, nil
}
