package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/notify"
	"github.com/poweralertd/poweralertd/pkg/upower"
)

const signalBufferSize = 16

// Run connects to the system and session buses, reads the display device,
// and runs the main loop until SIGINT/SIGTERM or an unrecoverable error.
func Run(configPath string) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded")
		}
	}()

	// Sequential delivery keeps PropertiesChanged signals in bus order.
	systemConn, err := dbus.ConnectSystemBus(dbus.WithSignalHandler(dbus.NewSequentialSignalHandler()))
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to connect to system bus")
	}
	defer closeConn(systemConn, "system")

	sessionConn, err := dbus.ConnectSessionBus()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to connect to session bus")
	}
	defer closeConn(sessionConn, "session")

	props, err := upower.NewDisplayDevice(systemConn).ReadProperties()
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read display device")
	}

	signals := make(chan *dbus.Signal, signalBufferSize)
	if err := upower.Subscribe(systemConn, signals); err != nil {
		return err
	}
	defer func() {
		if err := upower.Unsubscribe(systemConn, signals); err != nil {
			logrus.Warnf("failed to remove display device match: %v", err)
		}
	}()

	loop := NewLoop(NewSnapshot(props), signals, NewDispatcher(notify.New(sessionConn), conf), conf)

	// Handle common process-killing signals, so we can gracefully shut down:
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.Debugln("main loop starts")
	if err := loop.Run(ctx); err != nil {
		return pkgerrors.Wrapf(err, "main loop exited")
	}

	logrus.Info("caught signal, shutting down")
	return nil
}

func closeConn(conn *dbus.Conn, name string) {
	logrus.Debugf("closing %s bus connection", name)
	if err := conn.Close(); err != nil {
		logrus.Errorf("failed to close %s bus connection: %v", name, err)
	}
}
