package domain

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pgsetup/internal/ports"
	logger "pgsetup/internal/shared/log"
)

func TestCommandRunner_Success(t *testing.T) {
	out, buf := newPrinter()
	exec := &fakeExecutor{stdout: map[string]string{"--version": "psql (PostgreSQL) 16.2\n"}}

	stdout, ok := NewCommandRunner(exec, out, 0).Run(context.Background(), "psql --version", "Checking PostgreSQL client")

	assert.True(t, ok)
	assert.Equal(t, "psql (PostgreSQL) 16.2\n", stdout)
	assert.Contains(t, buf.String(), "[*] Checking PostgreSQL client...")
	assert.Contains(t, buf.String(), "[+] Checking PostgreSQL client completed successfully!")
}

func TestCommandRunner_FailureReturnsSentinel(t *testing.T) {
	out, buf := newPrinter()
	exec := &fakeExecutor{fail: map[string]string{"CREATE DATABASE": `ERROR:  database "brewtopia_db" already exists`}}

	stdout, ok := NewCommandRunner(exec, out, 0).Run(context.Background(), `psql -U postgres -c "CREATE DATABASE brewtopia_db;"`, "create")

	assert.False(t, ok)
	assert.Empty(t, stdout)
	assert.Contains(t, buf.String(), "[-] Error during create:")
	assert.Contains(t, buf.String(), `Command: psql -U postgres -c "CREATE DATABASE brewtopia_db;"`)
	assert.Contains(t, buf.String(), "already exists")
}

// deadlineExecutor reports whether the runner passed a deadline down.
type deadlineExecutor struct {
	hadDeadline bool
}

func (d *deadlineExecutor) Execute(ctx context.Context, _ string) (ports.ExecResult, error) {
	_, d.hadDeadline = ctx.Deadline()
	return ports.ExecResult{Stdout: "ok"}, nil
}

func TestCommandRunner_Timeout(t *testing.T) {
	out, _ := newPrinter()

	unbounded := &deadlineExecutor{}
	NewCommandRunner(unbounded, out, 0).Run(context.Background(), "x", "x")
	assert.False(t, unbounded.hadDeadline)

	bounded := &deadlineExecutor{}
	NewCommandRunner(bounded, out, time.Minute).Run(context.Background(), "x", "x")
	assert.True(t, bounded.hadDeadline)
}

func TestCommandRunner_LogsFailureWithCode(t *testing.T) {
	var logs bytes.Buffer
	logger.Init("warn", &logs)
	t.Cleanup(func() { logger.Init("warn", nil) })

	out, buf := newPrinter()
	exec := &fakeExecutor{fail: map[string]string{"GRANT": ""}}

	_, ok := NewCommandRunner(exec, out, 0).Run(context.Background(), `psql -U postgres -c "GRANT ALL PRIVILEGES ON DATABASE d TO u;"`, "grant")

	assert.False(t, ok)
	assert.Contains(t, logs.String(), "SETUP_1003")
	assert.NotContains(t, buf.String(), "SETUP_1003")
}
