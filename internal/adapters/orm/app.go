package orm

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"pgsetup/internal/ports"
	db "pgsetup/internal/shared/database"
	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

var errNoContext = errors.New("database handle used outside the application context")

type AppConfig struct {
	DatabaseURL   string
	MigrationsDir string
}

// OpenFunc opens the gorm connection when the application context is entered.
type OpenFunc func(databaseURL string) (*gorm.DB, error)

// GormApplication implements ports.Application on top of gorm. Entering its
// context opens the connection; leaving it closes the connection.
type GormApplication struct {
	cfg  AppConfig
	open OpenFunc

	mu   sync.Mutex
	conn *gorm.DB
}

func NewGormApplication(cfg AppConfig) *GormApplication {
	return &GormApplication{cfg: cfg, open: db.Init}
}

// WithOpener replaces how the connection is opened.
func (a *GormApplication) WithOpener(open OpenFunc) *GormApplication {
	a.open = open
	return a
}

func (a *GormApplication) WithContext(ctx context.Context, fn func(ctx context.Context) error) error {
	if a.cfg.DatabaseURL == "" {
		return appError.ErrDatabaseURLMissing
	}

	conn, err := a.open(a.cfg.DatabaseURL)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.conn = nil
		a.mu.Unlock()
		if closeErr := db.Close(conn); closeErr != nil {
			logger.Error(ctx, closeErr, "Failed to close database connection")
		}
	}()

	return fn(ctx)
}

func (a *GormApplication) Database() ports.SchemaCreator {
	return schemaCreator{app: a}
}

type schemaCreator struct {
	app *GormApplication
}

// CreateAll pings and applies pending migrations. Without a migrations
// directory the ping alone validates the connection.
func (s schemaCreator) CreateAll(ctx context.Context) error {
	s.app.mu.Lock()
	conn := s.app.conn
	s.app.mu.Unlock()
	if conn == nil {
		return errNoContext
	}

	if err := db.Ping(ctx, conn); err != nil {
		return err
	}

	if s.app.cfg.MigrationsDir != "" {
		logger.Infof(ctx, "Applying migrations from %s", s.app.cfg.MigrationsDir)
		if err := MigrateDB(ctx, conn, s.app.cfg.MigrationsDir); err != nil {
			return appError.ErrSchemaCreation.Wrap(err)
		}
	}
	return nil
}
