package pgurl

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"pgsetup/internal/ports"
)

// Inspector implements ports.ConnectionInspector with pgx's connection
// string parser, so both URL and key=value forms are accepted.
type Inspector struct{}

func NewInspector() ports.ConnectionInspector {
	return Inspector{}
}

func (Inspector) Inspect(connString string) (ports.ConnectionTarget, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return ports.ConnectionTarget{}, fmt.Errorf("failed to parse connection string: %w", err)
	}
	return ports.ConnectionTarget{
		Database: cfg.Database,
		User:     cfg.User,
		Password: cfg.Password,
	}, nil
}
