package pointstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSourceLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "signals.csv")
	require.NoError(t, os.WriteFile(path, []byte("lat,lng,date,time,day\n32.78,-97.38,2024-03-04,08:00,MON\n"), 0o600))

	ds, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds.Points, 1)
	require.NotEmpty(t, ds.Fingerprint)
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	require.Error(t, err)
}

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint("https://abc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "", sanitizeEndpoint(""))
}
