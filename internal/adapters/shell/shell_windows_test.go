//go:build windows

package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommand_KeepsQuotesVerbatim(t *testing.T) {
	cmd := shellCommand(context.Background(), `psql -U postgres -c "CREATE DATABASE brewtopia_db;"`)

	assert.Len(t, cmd.Args, 1)
	assert.Equal(t, `/S /C "psql -U postgres -c "CREATE DATABASE brewtopia_db;""`, cmd.SysProcAttr.CmdLine)
}

func TestExecutor_QuotedArgumentReachesCommand(t *testing.T) {
	res, err := NewExecutor().Execute(context.Background(), `echo -c "CREATE DATABASE brewtopia_db;"`)
	require.NoError(t, err)

	assert.Contains(t, res.Stdout, `-c "CREATE DATABASE brewtopia_db;"`)
	assert.NotContains(t, res.Stdout, `\"`)
}
