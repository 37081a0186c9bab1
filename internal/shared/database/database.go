// Package database opens and closes the gorm connection used by the
// connectivity probe.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appLog "pgsetup/internal/shared/log"
)

// gormLogger forwards gorm's messages to the zerolog logger.
type gormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger() logger.Interface {
	return &gormLogger{level: logger.Warn, slowThreshold: 200 * time.Millisecond}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.level = level
	return &newLogger
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		appLog.Infof(ctx, msg, data...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		appLog.Warnf(ctx, msg, data...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		appLog.Errorf(ctx, nil, msg, data...)
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sqlText, rows := fc()
	zl := appLog.Logger()

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		zl.Error().Err(err).Str("run_id", appLog.RunID(ctx)).Str("sql", sqlText).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm query error")
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		zl.Warn().Str("run_id", appLog.RunID(ctx)).Str("sql", sqlText).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm slow query")
	case l.level >= logger.Info:
		zl.Debug().Str("run_id", appLog.RunID(ctx)).Str("sql", sqlText).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm query")
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: newGormLogger(),
		// The probe pings explicitly so the failure is reported as part of it.
		DisableAutomaticPing: true,
	}
}

// Init opens databaseURL with the postgres driver. No connection is made
// until the first query or ping.
func Init(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// InitWithConn wraps an existing *sql.DB.
func InitWithConn(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Ping verifies the connection is usable.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
