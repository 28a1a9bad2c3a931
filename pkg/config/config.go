package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Config interface {
	// AppName is the application name passed to the notification server.
	AppName() string
	// WaitInterval bounds how long the main loop blocks waiting for events.
	WaitInterval() time.Duration
	// ExpireTimeout is the notification timeout in milliseconds, -1 for the server default.
	ExpireTimeout() int32
	// IgnoreInitial suppresses the state notification sent at startup.
	IgnoreInitial() bool

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
