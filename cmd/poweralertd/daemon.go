package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/poweralertd/poweralertd/pkg/daemon"
	"github.com/poweralertd/poweralertd/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Short:   "Run poweralertd daemon in the foreground",
		GroupID: gBasic,
		RunE:    runDaemon,
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	logrus.WithFields(logrus.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("poweralertd daemon starting")
	return daemon.Run(configPath)
}
