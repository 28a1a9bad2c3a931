package upower

import (
	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
)

const (
	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = "PropertiesChanged"

	signalPropertiesChanged = propertiesInterface + "." + propertiesChanged
)

func matchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(DisplayDevicePath),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember(propertiesChanged),
	}
}

// Subscribe registers a match rule for PropertiesChanged on the display
// device and routes the connection's signals to ch.
func Subscribe(conn *dbus.Conn, ch chan<- *dbus.Signal) error {
	if err := conn.AddMatchSignal(matchOptions()...); err != nil {
		return pkgerrors.Wrapf(err, "failed to add match for %s on %s", signalPropertiesChanged, DisplayDevicePath)
	}
	conn.Signal(ch)
	return nil
}

// Unsubscribe reverses Subscribe.
func Unsubscribe(conn *dbus.Conn, ch chan<- *dbus.Signal) error {
	conn.RemoveSignal(ch)
	return conn.RemoveMatchSignal(matchOptions()...)
}

// ChangedProperties extracts the changed-properties dictionary of a
// display device PropertiesChanged signal. The invalidated list is
// ignored. ok is false for any other signal.
func ChangedProperties(sig *dbus.Signal) (changed map[string]dbus.Variant, ok bool) {
	if sig == nil || sig.Path != DisplayDevicePath || sig.Name != signalPropertiesChanged {
		return nil, false
	}
	if len(sig.Body) < 2 {
		return nil, false
	}
	changed, ok = sig.Body[1].(map[string]dbus.Variant)
	return changed, ok
}
