package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSystemctl(t *testing.T, err error) *[]string {
	t.Helper()
	var calls []string
	orig := systemctl
	systemctl = func(args ...string) error {
		calls = append(calls, strings.Join(args, " "))
		return err
	}
	t.Cleanup(func() { systemctl = orig })
	return &calls
}

func TestRenderUnit(t *testing.T) {
	unit := RenderUnit("/usr/local/bin/poweralertd", "/home/u/.config/poweralertd/config.toml")

	assert.Contains(t, unit, `ExecStart="/usr/local/bin/poweralertd" daemon --config "/home/u/.config/poweralertd/config.toml"`)
	assert.Contains(t, unit, "Restart=on-failure")
	assert.NotContains(t, unit, "/path/to/")
}

func TestInstallUnit(t *testing.T) {
	calls := fakeSystemctl(t, nil)
	unitPath := filepath.Join(t.TempDir(), "systemd", "user", unitName)

	require.NoError(t, installUnit(unitPath, "unit body"))

	b, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	assert.Equal(t, "unit body", string(b))
	assert.Equal(t, []string{"daemon-reload", "enable --now poweralertd.service"}, *calls)
}

func TestUninstallUnit(t *testing.T) {
	calls := fakeSystemctl(t, nil)
	unitPath := filepath.Join(t.TempDir(), unitName)
	require.NoError(t, os.WriteFile(unitPath, []byte("x"), 0644))

	require.NoError(t, uninstallUnit(unitPath))

	_, err := os.Stat(unitPath)
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{"disable --now poweralertd.service", "daemon-reload"}, *calls)
}

func TestUninstallUnitMissingFile(t *testing.T) {
	fakeSystemctl(t, nil)
	require.NoError(t, uninstallUnit(filepath.Join(t.TempDir(), unitName)))
}

func TestUninstallSystemctlFailure(t *testing.T) {
	fakeSystemctl(t, errors.New("unit not loaded"))
	err := uninstallUnit(filepath.Join(t.TempDir(), unitName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit not loaded")
}
