package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

const unitName = "poweralertd.service"

const unitTemplate = `[Unit]
Description=UPower battery notification daemon
PartOf=graphical-session.target
After=graphical-session.target

[Service]
ExecStart="/path/to/poweralertd" daemon --config "/path/to/config"
Restart=on-failure

[Install]
WantedBy=graphical-session.target
`

// UnitPath is where the systemd user unit is installed.
func UnitPath() string {
	return filepath.Join(xdg.ConfigHome, "systemd", "user", unitName)
}

// RenderUnit fills the unit template with the executable and config paths.
func RenderUnit(exePath, configPath string) string {
	return strings.NewReplacer(
		"/path/to/poweralertd", exePath,
		"/path/to/config", configPath,
	).Replace(unitTemplate)
}

// systemctl is replaced in tests.
var systemctl = func(args ...string) error {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func Install(configPath string) error {
	// Get the path to the current executable
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get the path to the current executable: %w", err)
	}
	exePath, err = filepath.Abs(exePath)
	if err != nil {
		return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
	}

	logrus.Infof("current executable path: %s", exePath)

	return installUnit(UnitPath(), RenderUnit(exePath, configPath))
}

func installUnit(unitPath, unit string) error {
	unitDir := filepath.Dir(unitPath)
	logrus.Infof("writing systemd user unit to %s", unitDir)

	// mkdir -p
	err := os.MkdirAll(unitDir, 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", unitDir, err)
	}

	// warn if the file already exists
	_, err = os.Stat(unitPath)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", unitPath)
	}

	err = os.WriteFile(unitPath, []byte(unit), 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", unitPath, err)
	}

	if err := systemctl("daemon-reload"); err != nil {
		return err
	}

	logrus.Infof("starting poweralertd")

	return systemctl("enable", "--now", unitName)
}
