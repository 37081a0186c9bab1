package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(" info "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(""))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("loud"))
}

func TestRunIDIsAttached(t *testing.T) {
	var buf bytes.Buffer
	Init("info", &buf)
	t.Cleanup(func() { Init("warn", nil) })

	ctx := WithRunID(context.Background())
	require.NotEmpty(t, RunID(ctx))

	Info(ctx, "hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, RunID(ctx), line["run_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init("warn", &buf)
	t.Cleanup(func() { Init("warn", nil) })

	ctx := context.Background()
	Info(ctx, "dropped")
	Command(ctx, "psql --version", time.Millisecond, nil)
	assert.Empty(t, buf.String())

	Command(ctx, "psql -c 'x'", time.Millisecond, errors.New("exit status 1"))
	assert.Contains(t, buf.String(), "exit status 1")
	assert.Empty(t, RunID(ctx))
}
