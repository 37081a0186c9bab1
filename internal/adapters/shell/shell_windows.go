//go:build windows

package shell

import (
	"context"
	"os/exec"
	"syscall"
)

// shellCommand passes command to cmd.exe verbatim. cmd.exe does not follow
// the argv quoting exec applies, so the quotes psql needs around -c would
// arrive escaped.
func shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "cmd")
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: `/S /C "` + command + `"`}
	return cmd
}
