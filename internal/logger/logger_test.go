package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	log.Info("recipe created", "recipe_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "recipe created", entry["msg"])
	assert.EqualValues(t, 7, entry["recipe_id"])
}

func TestNew_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelDebug})

	log.Debug("tag resolved", "name", "vegan")

	out := buf.String()
	assert.Contains(t, out, `msg="tag resolved"`)
	assert.Contains(t, out, "name=vegan")
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: slog.LevelWarn})

	log.Info("quiet")
	assert.Empty(t, buf.String())

	log.Warn("loud")
	assert.True(t, strings.Contains(buf.String(), "loud"))
}

func TestNew_ShortensSourcePath(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", AddSource: true})

	log.Info("with source")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	source, ok := entry["source"].(map[string]any)
	require.True(t, ok, "expected source object, got %v", entry["source"])
	assert.Equal(t, "logger_test.go", source["file"])
}
