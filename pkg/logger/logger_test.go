package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())

	return entries
}

func TestInit_CallerPointsAtCallSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init("debug", path))
	t.Cleanup(func() {
		Log = zap.NewNop()
		helpers = zap.NewNop()
	})

	Info("from helper", zap.String("kind", "helper"))
	Log.Info("from logger")
	Debug("debug enabled")
	Sync()

	entries := readEntries(t, path)
	require.Len(t, entries, 3)

	for _, entry := range entries {
		caller, _ := entry["caller"].(string)
		assert.True(t, strings.HasPrefix(caller, "logger/logger_test.go"), "caller %q", caller)
	}
	assert.Equal(t, "helper", entries[0]["kind"])
	assert.Equal(t, "DEBUG", entries[2]["level"])
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init("verbose", path))
	t.Cleanup(func() {
		Log = zap.NewNop()
		helpers = zap.NewNop()
	})

	Debug("dropped")
	Warn("kept")
	Sync()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
}

func TestHelpers_NoopBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("nothing configured")
		Sync()
	})
}
