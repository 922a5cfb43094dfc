package cliutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	require.NoError(t, os.WriteFile(path, []byte("  my-secret-token\n  "), 0o600))

	token, err := ReadTokenFile(path)
	require.NoError(t, err)
	require.Equal(t, "my-secret-token", token)
}

func TestReadTokenFileMissing(t *testing.T) {
	_, err := ReadTokenFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestReadTokenFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := ReadTokenFile(path)
	require.Error(t, err)
}
