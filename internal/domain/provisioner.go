package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"pgsetup/internal/ports"
	"pgsetup/internal/shared/console"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

// Target is the database, role and credential the provisioner creates.
type Target struct {
	Database string
	User     string
	Password string
}

type ProvisionConfig struct {
	DatabaseURL   string
	PsqlPath      string
	AdminUser     string
	Target        Target
	DeriveFromURL bool
	// Validate rejects targets derived from the URL that cannot be embedded
	// in the statements.
	Validate func(Target) error
}

// Step is one administrative statement and the shell command issuing it.
type Step struct {
	Name    string
	SQL     string
	Command string
}

type StepResult struct {
	Step   Step
	Output string
	OK     bool
}

// ProvisionReport aggregates one provisioning attempt. Step failures are
// recorded here, never propagated.
type ProvisionReport struct {
	Skipped  bool
	Err      error
	Target   Target
	Warnings []string
	Steps    []StepResult
}

// Completed reports whether the command sequence ran, regardless of how
// many commands failed.
func (r *ProvisionReport) Completed() bool {
	return !r.Skipped
}

func (r *ProvisionReport) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// Provisioner issues the create-database, create-user and grant statements
// in order. It never checks for existing objects and never rolls back.
type Provisioner struct {
	runner    *CommandRunner
	out       *console.Printer
	inspector ports.ConnectionInspector
	cfg       ProvisionConfig
}

func NewProvisioner(runner *CommandRunner, out *console.Printer, inspector ports.ConnectionInspector, cfg ProvisionConfig) *Provisioner {
	return &Provisioner{runner: runner, out: out, inspector: inspector, cfg: cfg}
}

// shellPath double-quotes path when the shell would otherwise split or
// interpret it. The path must already be validated.
func shellPath(path string) string {
	if strings.ContainsAny(path, " \t&|;<>()'*?[]#~!^") {
		return `"` + path + `"`
	}
	return path
}

// BuildSteps renders the statements for target. Identifiers are embedded
// unquoted and must already be validated.
func BuildSteps(psqlPath, adminUser string, target Target) []Step {
	statements := []struct{ name, sql string }{
		{"create database", fmt.Sprintf("CREATE DATABASE %s;", target.Database)},
		{"create user", fmt.Sprintf("CREATE USER %s WITH PASSWORD %s;", target.User, pq.QuoteLiteral(target.Password))},
		{"grant privileges", fmt.Sprintf("GRANT ALL PRIVILEGES ON DATABASE %s TO %s;", target.Database, target.User)},
	}

	steps := make([]Step, 0, len(statements))
	for _, s := range statements {
		steps = append(steps, Step{
			Name:    s.name,
			SQL:     s.sql,
			Command: fmt.Sprintf(`%s -U %s -c "%s"`, shellPath(psqlPath), adminUser, s.sql),
		})
	}
	return steps
}

// Plan resolves the target against DATABASE_URL and returns the steps that
// Provision would run, without running them.
func (p *Provisioner) Plan() (Target, []Step, []string, error) {
	target, warnings, err := p.resolveTarget()
	if err != nil {
		return Target{}, nil, warnings, err
	}
	return target, BuildSteps(p.cfg.PsqlPath, p.cfg.AdminUser, target), warnings, nil
}

func (p *Provisioner) resolveTarget() (Target, []string, error) {
	target := p.cfg.Target
	if p.cfg.DatabaseURL == "" || p.inspector == nil {
		return target, nil, nil
	}

	conn, err := p.inspector.Inspect(p.cfg.DatabaseURL)
	if err != nil {
		return target, []string{fmt.Sprintf("Could not parse DATABASE_URL (%v); provisioning %s for %s as configured", err, target.Database, target.User)}, nil
	}

	if p.cfg.DeriveFromURL {
		derived := Target{Database: conn.Database, User: conn.User, Password: conn.Password}
		if p.cfg.Validate != nil {
			if err := p.cfg.Validate(derived); err != nil {
				return target, nil, err
			}
		}
		return derived, nil, nil
	}

	var warnings []string
	if conn.Database != target.Database {
		warnings = append(warnings, fmt.Sprintf("DATABASE_URL points at database %q but provisioning creates %q", conn.Database, target.Database))
	}
	if conn.User != target.User {
		warnings = append(warnings, fmt.Sprintf("DATABASE_URL connects as %q but provisioning creates user %q", conn.User, target.User))
	}
	// A URL without a password relies on trust or .pgpass authentication.
	if conn.Password != "" && conn.Password != target.Password {
		warnings = append(warnings, fmt.Sprintf("DATABASE_URL password differs from the one provisioning sets for user %q", target.User))
	}
	if len(warnings) > 0 {
		warnings = append(warnings, "Set SETUP_DERIVE_FROM_URL=true to provision what DATABASE_URL names")
	}
	return target, warnings, nil
}

// Provision runs every step. Only a missing DATABASE_URL or an unusable
// derived target stop it early.
func (p *Provisioner) Provision(ctx context.Context) *ProvisionReport {
	report := &ProvisionReport{}

	if p.cfg.DatabaseURL == "" {
		logger.Warn(ctx, appError.ErrDatabaseURLMissing.Message)
		p.out.Failure(appError.ErrDatabaseURLMissing.Message)
		report.Skipped = true
		report.Err = appError.ErrDatabaseURLMissing
		return report
	}

	p.out.Step("Setting up database...")

	target, steps, warnings, err := p.Plan()
	report.Warnings = warnings
	for _, w := range warnings {
		logger.Warn(ctx, w)
		p.out.Warning(w)
	}
	if err != nil {
		logger.Error(ctx, err, "Cannot provision the target named by DATABASE_URL")
		p.out.Failure(fmt.Sprintf("Error setting up database: %v", err))
		report.Skipped = true
		report.Err = err
		return report
	}
	report.Target = target

	for _, step := range steps {
		output, ok := p.runner.Run(ctx, step.Command, "Running: "+step.Command)
		if !ok {
			logger.Warnf(ctx, "Step %q failed, continuing", step.Name)
			p.out.Warning("Command failed, but continuing...")
		}
		report.Steps = append(report.Steps, StepResult{Step: step, Output: output, OK: ok})
	}

	logger.Infof(ctx, "Provisioning finished: %d of %d statements failed", len(report.Failed()), len(report.Steps))
	p.out.Success("Database setup completed!")
	p.out.Step("Note: If you get authentication errors, you may need to:")
	p.out.Numbered([]string{
		"Set a password for the " + p.cfg.AdminUser + " user",
		"Or run this script as the " + p.cfg.AdminUser + " user: sudo -u " + p.cfg.AdminUser + " pgsetup",
		"Or use a different database URL in your .env file",
	})
	return report
}
