package daemon

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/upower"
)

// ErrConnectionLost is returned by Loop.Run when the system bus stops
// delivering signals.
var ErrConnectionLost = errors.New("system bus connection lost")

// Loop ingests display device signals and dispatches notifications. All
// snapshot access happens on the goroutine calling Run.
type Loop struct {
	snapshot   *Snapshot
	signals    <-chan *dbus.Signal
	dispatcher *Dispatcher
	conf       config.Config

	lastStatus    Snapshot
	lastPrintTime time.Time
}

func NewLoop(snapshot *Snapshot, signals <-chan *dbus.Signal, dispatcher *Dispatcher, conf config.Config) *Loop {
	return &Loop{
		snapshot:   snapshot,
		signals:    signals,
		dispatcher: dispatcher,
		conf:       conf,
	}
}

// Run dispatches the startup snapshot, unless the config asks to ignore
// the initial state, and then loops forever: block until a signal arrives
// or the wait interval elapses, then dispatch. It returns nil once ctx is
// done, and an error on a failed send or a lost connection.
func (l *Loop) Run(ctx context.Context) error {
	logrus.WithFields(l.snapshot.logrusFields()).Info("initial display device state")

	if l.conf.IgnoreInitial() {
		logrus.Debug("ignoring initial state")
		l.snapshot.StateDirty = false
	}

	if err := l.dispatch(); err != nil {
		return err
	}

	for {
		interval := l.conf.WaitInterval()
		timer := time.NewTimer(interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case sig, ok := <-l.signals:
			timer.Stop()
			if !ok {
				return ErrConnectionLost
			}
			l.ingest(sig)
			// Queued changes are folded into one pass; only the latest state per category is shown.
			if !l.drain() {
				return ErrConnectionLost
			}
		case <-timer.C:
			logrus.WithField("interval", interval.String()).Trace("wait interval elapsed")
		}

		if err := l.dispatch(); err != nil {
			return err
		}
	}
}

// drain ingests signals that are already queued so a burst of changes is
// announced once. It reports false if the channel was closed.
func (l *Loop) drain() bool {
	for {
		select {
		case sig, ok := <-l.signals:
			if !ok {
				return false
			}
			l.ingest(sig)
		default:
			return true
		}
	}
}

func (l *Loop) ingest(sig *dbus.Signal) {
	changed, ok := upower.ChangedProperties(sig)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"path": sig.Path,
			"name": sig.Name,
		}).Trace("ignoring signal")
		return
	}
	l.snapshot.ApplyChanges(changed)
}

func (l *Loop) dispatch() error {
	l.printStatus()
	return l.dispatcher.Dispatch(l.snapshot)
}

// printStatus logs the snapshot at debug level only when it changed or
// the last print is older than one loop interval.
func (l *Loop) printStatus() {
	current := *l.snapshot
	fields := current.logrusFields()

	defer func() { l.lastPrintTime = time.Now() }()

	if time.Since(l.lastPrintTime) < l.conf.WaitInterval()+time.Second && reflect.DeepEqual(l.lastStatus, current) {
		logrus.WithFields(fields).Trace("loop status")
		return
	}

	logrus.WithFields(fields).Debug("loop status")

	l.lastStatus = current
}
