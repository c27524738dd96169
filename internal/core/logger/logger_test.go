package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRotateWritesFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "app.log")

	l, cleanup := NewWithRotate("info", true, fn, 1, 1, 1, false)
	l.Info("rotate sink smoke")
	cleanup()

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b), "rotate sink smoke")
}
