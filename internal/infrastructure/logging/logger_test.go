package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoggerLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.now = func() time.Time { return time.Date(2024, 3, 7, 9, 5, 2, 0, time.Local) }

	l.Log("Processing file a.jpg")
	l.Logf("Detected %d faces", 2)

	require.Equal(t, "[2024-03-07 09:05:02] Processing file a.jpg\n[2024-03-07 09:05:02] Detected 2 faces\n", buf.String())
}

func TestLoggerOpenWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facecrop.log")
	l, err := Open(path)
	require.NoError(t, err)

	l.Log("hello")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "] hello\n"))
	require.True(t, strings.HasPrefix(string(data), "["))
}

func TestLoggerOpenFailsOnMissingDir(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "x.log"))
	require.Error(t, err)
}
