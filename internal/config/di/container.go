package di

import (
	"context"
	"fmt"
	"io"
	"os"

	"pgsetup/internal/adapters/orm"
	"pgsetup/internal/adapters/pgurl"
	"pgsetup/internal/adapters/shell"
	"pgsetup/internal/config"
	"pgsetup/internal/domain"
	"pgsetup/internal/ports"
	"pgsetup/internal/shared/console"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

type Options struct {
	EnvFile   string
	ColorMode string
	// LogLevel overrides LOG_LEVEL when set.
	LogLevel string
	Stdout   io.Writer
	Stderr   io.Writer

	// Executor and Application replace the real adapters when set.
	Executor    ports.Executor
	Application ports.Application
}

type Container struct {
	Config      *config.Config
	Out         *console.Printer
	Runner      *domain.CommandRunner
	Checker     *domain.InstallationChecker
	Provisioner *domain.Provisioner
	Prober      *domain.ConnectivityProber
	Setup       *domain.Setup
}

func InitContainer(ctx context.Context, opts Options) (*Container, error) {
	// Configuration problems are logged before LOG_LEVEL is known.
	logger.InitConsole(opts.LogLevel, stderrOf(opts))

	cfg, err := config.LoadConfig(ctx, opts.EnvFile)
	if err != nil {
		return nil, err
	}
	return NewContainer(ctx, cfg, opts), nil
}

// NewContainer wires every component from an already loaded cfg.
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) *Container {
	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger.InitConsole(level, stderrOf(opts))
	logger.Debugf(ctx, "Configuration loaded (psql=%s, admin=%s, derive_from_url=%t)", cfg.PsqlPath, cfg.AdminUser, cfg.DeriveFromURL)

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	out := console.New(stdout, opts.ColorMode)

	executor := opts.Executor
	if executor == nil {
		executor = shell.NewExecutor()
	}

	app := opts.Application
	if app == nil {
		app = orm.NewGormApplication(orm.AppConfig{
			DatabaseURL:   cfg.DatabaseURL,
			MigrationsDir: cfg.MigrationsDir,
		})
	}

	runner := domain.NewCommandRunner(executor, out, cfg.CommandTimeout)
	checker := domain.NewInstallationChecker(runner, out, cfg.PsqlPath)
	provisioner := domain.NewProvisioner(runner, out, pgurl.NewInspector(), domain.ProvisionConfig{
		DatabaseURL: cfg.DatabaseURL,
		PsqlPath:    cfg.PsqlPath,
		AdminUser:   cfg.AdminUser,
		Target: domain.Target{
			Database: cfg.DBName,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
		},
		DeriveFromURL: cfg.DeriveFromURL,
		Validate:      validateTarget,
	})
	prober := domain.NewConnectivityProber(app, out, cfg.ProbeTimeout)

	return &Container{
		Config:      cfg,
		Out:         out,
		Runner:      runner,
		Checker:     checker,
		Provisioner: provisioner,
		Prober:      prober,
		Setup: domain.NewSetup(checker, provisioner, prober, out, domain.AppInfo{
			Name:    cfg.AppName,
			RunHint: cfg.AppRunHint,
			URL:     cfg.AppURL,
		}),
	}
}

func stderrOf(opts Options) io.Writer {
	if opts.Stderr == nil {
		return os.Stderr
	}
	return opts.Stderr
}

// validateTarget applies the configuration rules to a target derived from
// DATABASE_URL.
func validateTarget(t domain.Target) error {
	switch {
	case !config.ValidIdentifier(t.Database):
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("database %q derived from DATABASE_URL is not a plain identifier", t.Database))
	case !config.ValidIdentifier(t.User):
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("user %q derived from DATABASE_URL is not a plain identifier", t.User))
	case !config.ValidPassword(t.Password):
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("password derived from DATABASE_URL contains a character that cannot be passed through the shell"))
	}
	return nil
}
