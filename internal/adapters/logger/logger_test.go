package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockmend/internal/adapters/logger"
	"go.trai.ch/lockmend/internal/ui/output"
	"go.trai.ch/zerr"
)

func newPlainLogger(buf *bytes.Buffer) *logger.Logger {
	l := logger.New()
	l.SetProfile(output.ColorProfileAscii)
	l.SetOutput(buf)
	return l
}

func TestLogger_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newPlainLogger(&buf)

	l.Debug("hidden at info level")
	l.Info("lockfile conflicts resolved")
	l.Warn("lodash@npm:4 is defined by more than one variant")
	l.Error(zerr.Wrap(zerr.With(zerr.New("Git returned an error when trying to access the lockfile content"), "commit", "abc123"), "autofix failed"))

	l.SetLevel(slog.LevelDebug)
	l.Debug("exec: git rev-parse MERGE_HEAD HEAD")

	g := goldie.New(t)
	g.Assert(t, "pretty_output", buf.Bytes())
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := newPlainLogger(&buf)
	l.SetJSON(true)

	l.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "hello", record["msg"])
}

func TestLogger_JSONError(t *testing.T) {
	var buf bytes.Buffer
	l := newPlainLogger(&buf)
	l.SetJSON(true)

	l.Error(zerr.With(zerr.New("boom"), "code", "AUTOMERGE_GIT_ERROR"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Contains(t, buf.String(), "AUTOMERGE_GIT_ERROR")
}

func TestLogger_LevelSurvivesModeSwitch(t *testing.T) {
	var buf bytes.Buffer
	l := newPlainLogger(&buf)
	l.SetLevel(slog.LevelDebug)
	l.SetJSON(true)
	l.SetJSON(false)

	l.Debug("visible")
	assert.Equal(t, "visible\n", buf.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	var buf bytes.Buffer
	l := newPlainLogger(&buf)

	l.Error(nil)
	assert.Empty(t, buf.String())
}
