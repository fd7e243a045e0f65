package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestInitWritesToFile(t *testing.T) {
	require.NoError(t, Close())
	defer Close()

	path := filepath.Join(t.TempDir(), "logs", "heap.log")
	require.NoError(t, Init(Config{Level: LevelDebug, OutputPath: path, Format: "json"}))
	assert.Error(t, Init(Config{}), "second Init must fail")

	WithPage(7, 3).WithField("dirty", true).Debug("page evicted")
	Info("flushed", "pages", 2)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"page_no":3`)
	assert.Contains(t, string(data), `"pages":2`)
}

func TestGetLoggerLazyInit(t *testing.T) {
	require.NoError(t, Close())
	assert.NotNil(t, GetLogger())
	require.NoError(t, Close())
}

func TestFieldsOddArgs(t *testing.T) {
	f := fields([]any{"a", 1, "dangling"})
	assert.Equal(t, 1, f["a"])
	assert.Equal(t, "dangling", f["!BADKEY"])
}
