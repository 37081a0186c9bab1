package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	appError "pgsetup/internal/shared/error"
	logger "pgsetup/internal/shared/log"
)

const DefaultEnvFile = ".env"

type Config struct {
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"warn"`
	PsqlPath       string        `envconfig:"PSQL_PATH" default:"psql"`
	AdminUser      string        `envconfig:"PG_ADMIN_USER" default:"postgres"`
	DBName         string        `envconfig:"SETUP_DB_NAME" default:"brewtopia_db"`
	DBUser         string        `envconfig:"SETUP_DB_USER" default:"brewtopia_user"`
	DBPassword     string        `envconfig:"SETUP_DB_PASSWORD" default:"your_password"`
	DeriveFromURL  bool          `envconfig:"SETUP_DERIVE_FROM_URL" default:"false"`
	CommandTimeout time.Duration `envconfig:"SETUP_COMMAND_TIMEOUT" default:"0s"`
	ProbeTimeout   time.Duration `envconfig:"SETUP_PROBE_TIMEOUT" default:"0s"`
	MigrationsDir  string        `envconfig:"MIGRATIONS_DIR"`
	AppName        string        `envconfig:"SETUP_APP_NAME" default:"Brewtopia"`
	AppRunHint     string        `envconfig:"SETUP_APP_RUN_HINT" default:"python app.py"`
	AppURL         string        `envconfig:"SETUP_APP_URL" default:"http://127.0.0.1:3000/"`
}

// LoadConfig reads envFile and then the process environment. Values already
// in the environment win over the file. A missing or unreadable envFile is
// logged, not returned.
func LoadConfig(ctx context.Context, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	err := godotenv.Load(envFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Infof(ctx, "No %s file, using the environment only", envFile)
	case err != nil:
		logger.Warnf(ctx, "Error loading %s file: %v", envFile, err)
	}

	config := &Config{}

	err = envconfig.Process("", config)
	if err != nil {
		return nil, fmt.Errorf("error processing envconfig: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidIdentifier reports whether name can be embedded unquoted in the
// administrative statements.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// ValidPassword reports whether password survives the double-quoted shell
// string the statements are wrapped in.
func ValidPassword(password string) bool {
	return !strings.ContainsAny(password, "\"\\$`\n\r")
}

// ValidPsqlPath reports whether path can be double-quoted for the shell
// without anything inside the quotes being expanded.
func ValidPsqlPath(path string) bool {
	return strings.TrimSpace(path) != "" && !strings.ContainsAny(path, "\"$`%\n\r")
}

func (c *Config) Validate() error {
	if !ValidPsqlPath(c.PsqlPath) {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("PSQL_PATH %q is empty or contains a shell expansion character", c.PsqlPath))
	}
	if !ValidIdentifier(c.AdminUser) {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("PG_ADMIN_USER %q is not a plain identifier", c.AdminUser))
	}
	if !ValidIdentifier(c.DBName) {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("SETUP_DB_NAME %q is not a plain identifier", c.DBName))
	}
	if !ValidIdentifier(c.DBUser) {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("SETUP_DB_USER %q is not a plain identifier", c.DBUser))
	}
	if !ValidPassword(c.DBPassword) {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("SETUP_DB_PASSWORD contains a character that cannot be passed through the shell"))
	}
	if c.CommandTimeout < 0 || c.ProbeTimeout < 0 {
		return appError.ErrInvalidConfig.Wrap(fmt.Errorf("timeouts must not be negative"))
	}
	return nil
}
