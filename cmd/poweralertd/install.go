package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/poweralertd/poweralertd/pkg/config"
	daemonutils "github.com/poweralertd/poweralertd/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   "Install poweralertd as a systemd user service",
		GroupID: gInstallation,
		Long: `Install poweralertd as a systemd user service.

This makes poweralertd start with your graphical session. Do not run this command as root: the daemon must run inside your user session to reach your notification server.

If no config file exists yet, one with the default values is written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if os.Geteuid() == 0 {
				logrus.Warn("installing as root; the unit will be installed for the root user")
			}

			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := conf.Save(); err != nil {
					return pkgerrors.Wrapf(err, "failed to save config")
				}
				logrus.Infof("default config written to %s", configPath)
			}

			err = daemonutils.Install(configPath)
			if err != nil {
				return fmt.Errorf("failed to install daemon: %v", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``poweralertd install'' again.\n", exePath)

			return nil
		},
	}
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall the poweralertd systemd user service",
		GroupID: gInstallation,
		Long: `Stop poweralertd and remove its systemd user unit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			cmd.Println("successfully uninstalled")

			cmd.Printf("Your config is kept in %s, in case you want to use `poweralertd' again. If you want a complete uninstall, you can remove both config file and poweralertd itself manually.\n", configPath)

			return nil
		},
	}
}
