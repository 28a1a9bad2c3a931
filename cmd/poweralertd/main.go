package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/upower"
)

var (
	logLevel   = "info"
	configPath = config.DefaultPath()
)

var (
	gBasic        = "Basic:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch upower.ErrorName(err) {
	case "org.freedesktop.DBus.Error.ServiceUnknown", "org.freedesktop.DBus.Error.NameHasNoOwner":
		fmt.Fprintln(os.Stderr, "\nError: a required D-Bus service is not running")
		fmt.Fprintln(os.Stderr, "  - Is UPower installed and running on the system bus?")
		fmt.Fprintln(os.Stderr, "  - Is a notification daemon running in your session?")
	case "org.freedesktop.DBus.Error.AccessDenied":
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied by the bus policy")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poweralertd",
		Short: "poweralertd shows desktop notifications for battery state changes",
		Long: `poweralertd watches the UPower display device on the system bus and shows
a desktop notification whenever the battery state or warning level changes.

Running poweralertd without a subcommand starts the daemon in the foreground.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: runDaemon,
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
