package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/powerinfo"
	"github.com/poweralertd/poweralertd/pkg/utils/ptr"
)

func TestPrintStatus(t *testing.T) {
	color.NoColor = true

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	conf := config.NewFileFromConfig(&config.RawFileConfig{ExpireTimeoutMs: ptr.To(3000)}, "")
	printStatus(cmd, powerinfo.Properties{
		Percentage:   72.5,
		State:        powerinfo.Charging,
		WarningLevel: powerinfo.WarningNone,
	}, conf)

	out := buf.String()
	assert.Contains(t, out, "Current charge: 72.5%")
	assert.Contains(t, out, "State: charging")
	assert.Contains(t, out, "Warning level: none")
	assert.Contains(t, out, "Application name: poweralertd")
	assert.Contains(t, out, "Wait interval: 10s")
	assert.Contains(t, out, "Notification timeout: 3000 ms")
}

func TestNewCommandHasSubcommands(t *testing.T) {
	cmd := NewCommand()
	for _, name := range []string{"daemon", "status", "version", "install", "uninstall"} {
		c, _, err := cmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("subcommand %q not found", name)
		}
	}
}

func TestSetupLoggerRejectsBadLevel(t *testing.T) {
	orig := logLevel
	defer func() { logLevel = orig }()

	logLevel = "loud"
	if err := setupLogger(); err == nil {
		t.Errorf("setupLogger() error = nil, want error")
	}
}
