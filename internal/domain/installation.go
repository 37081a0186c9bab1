package domain

import (
	"context"
	"strings"

	"pgsetup/internal/shared/console"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

// InstallationChecker gates the setup on a working database client.
type InstallationChecker struct {
	runner   *CommandRunner
	out      *console.Printer
	psqlPath string
}

func NewInstallationChecker(runner *CommandRunner, out *console.Printer, psqlPath string) *InstallationChecker {
	return &InstallationChecker{runner: runner, out: out, psqlPath: psqlPath}
}

// Check reports whether "<psql> --version" produced any output.
func (c *InstallationChecker) Check(ctx context.Context) bool {
	c.out.Step("Checking PostgreSQL installation...")

	result, ok := c.runner.Run(ctx, shellPath(c.psqlPath)+" --version", "Checking PostgreSQL client")
	if !ok {
		logger.Error(ctx, appError.ErrClientNotFound, "Installation check failed")
		c.out.Blank()
		c.out.Failure(appError.ErrClientNotFound.Message + ".")
		c.out.Step("Please install PostgreSQL:")
		c.out.Bullets(appError.ErrClientNotFound.Hints)
		return false
	}

	c.out.Success("PostgreSQL found: " + strings.TrimSpace(result))
	return true
}
