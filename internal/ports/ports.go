package ports

import "context"

// ExecResult is the captured outcome of one shell command.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines a port for running a shell command string to completion
// (e.g. through sh -c). A non-zero exit status is reported as an error
// alongside the captured output.
type Executor interface {
	Execute(ctx context.Context, command string) (ExecResult, error)
}

// SchemaCreator is the database handle of the target application.
type SchemaCreator interface {
	// CreateAll creates whatever part of the schema is missing. It must be
	// safe to call against an already initialized database.
	CreateAll(ctx context.Context) error
}

// Application is the target application as seen by the connectivity probe.
type Application interface {
	// WithContext runs fn inside the application's execution context.
	WithContext(ctx context.Context, fn func(ctx context.Context) error) error
	Database() SchemaCreator
}

// ConnectionTarget is the part of a connection string the provisioner
// compares against its own targets.
type ConnectionTarget struct {
	Database string
	User     string
	Password string
}

// ConnectionInspector defines a port for decomposing a connection string.
type ConnectionInspector interface {
	Inspect(connString string) (ConnectionTarget, error)
}
