// pgsetup provisions a local PostgreSQL database for the application and
// checks that the application can reach it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pgsetup/internal/config"
	"pgsetup/internal/config/di"
	"pgsetup/internal/domain"
	"pgsetup/internal/shared/console"
	logger "pgsetup/internal/shared/log"
)

// Version metadata injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, di.Options{})
	stop()
	os.Exit(code)
}

// errExit signals a non-zero exit after the command already reported why.
var errExit = errors.New("exit")

// run executes the CLI. base carries injected adapters for tests.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, base di.Options) int {
	root := newRootCmd(stdout, stderr, base)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(logger.WithRunID(ctx)); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "pgsetup: %v\n", err) //nolint:errcheck // best-effort stderr
		}
		return domain.ExitFailed
	}
	return domain.ExitOK
}

type rootFlags struct {
	envFile  string
	color    string
	logLevel string
}

func newRootCmd(stdout, stderr io.Writer, base di.Options) *cobra.Command {
	flags := &rootFlags{}

	build := func(cmd *cobra.Command) (*di.Container, error) {
		opts := base
		opts.EnvFile = flags.envFile
		opts.ColorMode = flags.color
		opts.LogLevel = flags.logLevel
		opts.Stdout = stdout
		opts.Stderr = stderr
		return di.InitContainer(cmd.Context(), opts)
	}

	root := &cobra.Command{
		Use:   "pgsetup",
		Short: "Set up the local PostgreSQL database for the application",
		Long: `Check that the PostgreSQL client is installed, create the application's
database and role, and verify the application can create its schema.

Configuration is read from the environment and from the --env-file.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !console.ValidColorMode(flags.color) {
				return fmt.Errorf("invalid --color value %q: must be always, auto, or never", flags.color)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			if c.Setup.Run(cmd.Context()) != domain.ExitOK {
				return errExit
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "Environment file to load before reading the environment")
	root.PersistentFlags().StringVar(&flags.color, "color", "auto", "Color output: always, auto, never")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newCheckCmd(build),
		newProvisionCmd(build),
		newProbeCmd(build),
		newPlanCmd(build),
		newVersionCmd(stdout),
	)
	return root
}

type buildFunc func(cmd *cobra.Command) (*di.Container, error)

func newCheckCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the PostgreSQL client is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			if !c.Checker.Check(cmd.Context()) {
				return errExit
			}
			return nil
		},
	}
}

func newProvisionCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Create the database, the role and grant privileges",
		Long: `Issue CREATE DATABASE, CREATE USER and GRANT through psql as the admin role.

Failures of individual statements (for example "already exists") are
reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			c.Provisioner.Provision(cmd.Context())
			return nil
		},
	}
}

func newProbeCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Connect with DATABASE_URL and create the application schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			if err := c.Prober.Probe(cmd.Context()); err != nil {
				return errExit
			}
			return nil
		},
	}
}

func newPlanCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the administrative commands without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := build(cmd)
			if err != nil {
				return err
			}
			target, steps, warnings, err := c.Provisioner.Plan()
			for _, w := range warnings {
				c.Out.Warning(w)
			}
			if err != nil {
				return err
			}
			c.Out.Note(fmt.Sprintf("Provisioning database %s for user %s:", target.Database, target.User))
			for _, step := range steps {
				c.Out.Detail(step.Command)
			}
			return nil
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "pgsetup %s (commit %s, built %s)\n", version, commit, date) //nolint:errcheck
		},
	}
}
