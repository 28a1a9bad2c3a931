package daemon

import (
	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/powerinfo"
	"github.com/poweralertd/poweralertd/pkg/upower"
)

// Snapshot is the last known display device state plus a dirty flag for
// each notification category. It is owned by the main loop goroutine and
// must not be shared.
type Snapshot struct {
	// Percentage has no dirty flag; it only shows up in the body of the
	// next state notification.
	Percentage   float64
	State        powerinfo.BatteryState
	WarningLevel powerinfo.WarningLevel

	StateDirty bool
	WarnDirty  bool
}

// NewSnapshot builds the startup snapshot. The initial state is always
// announced once; the initial warning level is not.
func NewSnapshot(p powerinfo.Properties) *Snapshot {
	return &Snapshot{
		Percentage:   p.Percentage,
		State:        p.State,
		WarningLevel: p.WarningLevel,
		StateDirty:   true,
		WarnDirty:    false,
	}
}

// ApplyChanges folds a PropertiesChanged dictionary into the snapshot.
// Values of an unexpected type are dropped one by one; unknown keys are
// ignored.
func (s *Snapshot) ApplyChanges(changed map[string]dbus.Variant) {
	for key, value := range changed {
		switch key {
		case upower.PropState:
			v, ok := upower.DecodeUint(value)
			if !ok {
				logDropped(key, value)
				continue
			}
			s.State = powerinfo.BatteryStateFromUPower(v)
			s.StateDirty = true
			logrus.WithFields(logrus.Fields{
				"raw":   v,
				"state": s.State.String(),
			}).Debug("state changed")
		case upower.PropWarningLevel:
			v, ok := upower.DecodeUint(value)
			if !ok {
				logDropped(key, value)
				continue
			}
			s.WarningLevel = powerinfo.WarningLevelFromUPower(v)
			s.WarnDirty = true
			logrus.WithFields(logrus.Fields{
				"raw":          v,
				"warningLevel": s.WarningLevel.String(),
			}).Debug("warning level changed")
		case upower.PropPercentage:
			v, ok := upower.DecodeFloat(value)
			if !ok {
				logDropped(key, value)
				continue
			}
			s.Percentage = v
			logrus.WithField("percentage", v).Trace("percentage changed")
		}
	}
}

func logDropped(key string, value dbus.Variant) {
	logrus.WithFields(logrus.Fields{
		"property":  key,
		"signature": value.Signature().String(),
	}).Debug("dropping property change with unexpected type")
}

func (s *Snapshot) logrusFields() logrus.Fields {
	return logrus.Fields{
		"percentage":   s.Percentage,
		"state":        s.State.String(),
		"warningLevel": s.WarningLevel.String(),
		"stateDirty":   s.StateDirty,
		"warnDirty":    s.WarnDirty,
	}
}
