package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/foxxcyber/kargolojik/internal/config"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.Logging{Level: "loud"})
	assert.Error(t, err)
}

func TestNewRejectsBadFormat(t *testing.T) {
	_, err := New(config.Logging{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kargo.log")

	l, err := New(config.Logging{Level: "debug", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("branch imported")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "branch imported")
}

func TestFileWriterCopiesSettings(t *testing.T) {
	w := FileWriter(config.Logging{File: "x.log", MaxSizeMB: 7, MaxBackups: 2, MaxAgeDays: 3, Compress: true})
	assert.Equal(t, "x.log", w.Filename)
	assert.Equal(t, 7, w.MaxSize)
	assert.Equal(t, 2, w.MaxBackups)
	assert.Equal(t, 3, w.MaxAge)
	assert.True(t, w.Compress)
}

func TestNewFileOnly(t *testing.T) {
	l, err := NewFileOnly(config.Logging{Level: "info"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel), "no file means no logging")

	path := filepath.Join(t.TempDir(), "tui.log")
	l, err = NewFileOnly(config.Logging{Level: "info", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("search started")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "search started")
	assert.NotContains(t, string(data), "hidden")
}
