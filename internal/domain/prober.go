package domain

import (
	"context"
	"fmt"
	"time"

	"pgsetup/internal/ports"
	"pgsetup/internal/shared/console"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

// ConnectivityProber validates the whole connection path by asking the
// application to create its schema.
type ConnectivityProber struct {
	app     ports.Application
	out     *console.Printer
	timeout time.Duration
}

func NewConnectivityProber(app ports.Application, out *console.Printer, timeout time.Duration) *ConnectivityProber {
	return &ConnectivityProber{app: app, out: out, timeout: timeout}
}

// Probe returns nil when schema creation succeeded, otherwise an error
// wrapping appError.ErrConnectivity.
func (p *ConnectivityProber) Probe(ctx context.Context) (err error) {
	p.out.Step("Testing database connection...")

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = p.fail(ctx, fmt.Errorf("panic recovered in schema creation: %v", r))
		}
	}()

	err = p.app.WithContext(ctx, func(ctx context.Context) error {
		return p.app.Database().CreateAll(ctx)
	})
	if err != nil {
		return p.fail(ctx, err)
	}

	logger.Info(ctx, "Connectivity probe succeeded")
	p.out.Success("Database connection successful!")
	p.out.Success("Tables created successfully!")
	return nil
}

func (p *ConnectivityProber) fail(ctx context.Context, cause error) error {
	logger.Error(ctx, cause, "Connectivity probe failed")
	p.out.Failure(fmt.Sprintf("Database connection failed: %v", cause))
	p.out.Step("Troubleshooting:")
	p.out.Numbered(appError.ErrConnectivity.Hints)
	return appError.ErrConnectivity.Wrap(cause)
}
