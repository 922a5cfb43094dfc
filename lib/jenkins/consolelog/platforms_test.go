package consolelog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPlatformTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "platforms.json5")
	err := os.WriteFile(path, []byte(`{
		// jdk21 linux builds
		"jdk21u-release-linux-x64-temurin": { "os": "linux", "arch": "x64", "jdk": "jdk21" },
	}`), 0o644)
	require.NoError(t, err)

	table, err := LoadPlatformTable(path)
	require.NoError(t, err)
	require.Equal(t, PlatformTable{
		"jdk21u-release-linux-x64-temurin": {OS: "linux", Arch: "x64", JDK: "jdk21"},
	}, table)
}

func TestLoadPlatformTableMissingFile(t *testing.T) {
	_, err := LoadPlatformTable(filepath.Join(t.TempDir(), "nope.json5"))
	require.Error(t, err)
}
