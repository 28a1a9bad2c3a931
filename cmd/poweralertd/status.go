package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/powerinfo"
	"github.com/poweralertd/poweralertd/pkg/upower"
)

// fetchStatusData reads the display device once over a fresh system bus connection.
func fetchStatusData() (powerinfo.Properties, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return powerinfo.Properties{}, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	defer conn.Close()

	return upower.NewDisplayDevice(conn).ReadProperties()
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Print the current display device state",
		Long:    `Read the UPower display device once and print its charge, state and warning level, along with the effective configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := fetchStatusData()
			if err != nil {
				return err
			}

			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			printStatus(cmd, props, conf)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, props powerinfo.Properties, conf config.Config) {
	cmd.Println(bold("Battery status:"))
	cmd.Printf("  Current charge: %s\n", bold("%v%%", props.Percentage))
	cmd.Printf("  State: %s\n", bold("%s", stateText(props.State)))
	cmd.Printf("  Warning level: %s\n", bold("%s", warningText(props.WarningLevel)))

	cmd.Println()

	cmd.Println(bold("Configuration:"))
	cmd.Printf("  Application name: %s\n", bold("%s", conf.AppName()))
	cmd.Printf("  Wait interval: %s\n", bold("%s", conf.WaitInterval()))
	if conf.ExpireTimeout() < 0 {
		cmd.Printf("  Notification timeout: %s\n", bold("server default"))
	} else {
		cmd.Printf("  Notification timeout: %s\n", bold("%d ms", conf.ExpireTimeout()))
	}
	cmd.Printf("  Ignore initial state: %s\n", bool2Text(conf.IgnoreInitial()))
}

func stateText(s powerinfo.BatteryState) string {
	switch s {
	case powerinfo.Charging, powerinfo.Full:
		return color.GreenString("%s", s.String())
	case powerinfo.Discharging:
		return color.YellowString("%s", s.String())
	case powerinfo.Empty, powerinfo.NotCharging:
		return color.RedString("%s", s.String())
	default:
		return s.String()
	}
}

func warningText(l powerinfo.WarningLevel) string {
	switch l {
	case powerinfo.WarningNone:
		return color.GreenString("%s", l.String())
	case powerinfo.WarningDischarging:
		return color.YellowString("%s", l.String())
	case powerinfo.WarningLow, powerinfo.WarningCritical, powerinfo.WarningAction:
		return color.RedString("%s", l.String())
	default:
		return l.String()
	}
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
