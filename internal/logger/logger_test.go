package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := build(Config{Env: "production", Level: "info"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Debug().Msg("hidden")
	log.Info().Str("entity", "tag").Msg("cache refreshed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cache refreshed", line["message"])
	assert.Equal(t, "tag", line["entity"])
	assert.Contains(t, line, "time")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestBuild_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := build(Config{Env: "development", Level: "debug"}, &buf)
	require.NoError(t, err)

	log.Debug().Msg("starting")
	assert.Contains(t, buf.String(), "starting")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestBuild_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "catalogadmin.log")
	var buf bytes.Buffer
	log, closer, err := build(Config{Env: "production", File: path, MaxSizeMB: 1}, &buf)
	require.NoError(t, err)

	log.Warn().Msg("to both")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
