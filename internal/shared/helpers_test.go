package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePackageID(t *testing.T) {
	assert.Equal(t, "com.acme.App", NormalizePackageID("  com.acme.App\t"))
	assert.Equal(t, "", NormalizePackageID("   "))
}

func TestCommandError(t *testing.T) {
	base := errors.New("exit status 1")

	err := CommandError([]byte("  error: no devices/emulators found\n"), base)
	require.ErrorIs(t, err, base)
	assert.Equal(t, "error: no devices/emulators found: exit status 1", err.Error())

	err = CommandError(nil, base)
	assert.Equal(t, base, err)
}
