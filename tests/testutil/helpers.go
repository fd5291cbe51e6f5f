// Package testutil provides shared test helpers used across integration
// and e2e test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// SampleInventory is a device inventory with one sideloaded package, one
// store install, one package without an installer and one system app.
const SampleInventory = `device: emulator-5554
packages:
  - id: com.acme.beta
    label: Acme Beta
    installer: com.android.packageinstaller
  - id: com.spotify.music
    label: Spotify
    installer: com.android.vending
  - id: org.example.adbpush
    label: Pushed Tool
  - id: com.android.settings
    label: Settings
    installer: com.android.vending
    system: true
`

// WriteInventory writes SampleInventory into dir and returns its path.
func WriteInventory(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(SampleInventory), 0644))
	return path
}
