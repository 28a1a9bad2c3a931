// Package notify sends desktop notifications through the freedesktop
// Notifications service on the session bus.
package notify

import (
	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
	callNotify          = dbusNotifyInterface + ".Notify"
)

// ID is a notification handle. Sending with a non-zero ReplacesID
// replaces the notification currently shown under that ID.
type ID uint32

// Urgency values as defined by the notification spec.
type Urgency byte

const (
	Low Urgency = iota
	Normal
	Critical
)

func (u Urgency) String() string {
	switch u {
	case Low:
		return "low"
	case Normal:
		return "normal"
	case Critical:
		return "critical"
	default:
		return "other"
	}
}

// ExpireServerDefault lets the server decide when a notification expires.
const ExpireServerDefault int32 = -1

// Notification holds the arguments of a Notify call.
type Notification struct {
	AppName string
	// Setting ReplacesID atomically replaces another notification with this ID.
	ReplacesID ID
	AppIcon    string
	Summary    string
	Body       string
	Urgency    Urgency
	// Category is sent as the "category" hint when set, e.g. "power.low".
	Category string
	// Milliseconds, ExpireServerDefault for the server default.
	ExpireTimeout int32
}

// Sender delivers notifications.
type Sender interface {
	Send(n *Notification) (ID, error)
}

// caller is the subset of dbus.BusObject used to issue the Notify call.
type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type dbusSender struct {
	obj caller
}

// New returns a Sender that talks to the notification server on conn.
func New(conn *dbus.Conn) Sender {
	return &dbusSender{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}
}

// Send issues org.freedesktop.Notifications.Notify and returns the id the
// server assigned.
func (s *dbusSender) Send(n *Notification) (ID, error) {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(n.Urgency)),
	}
	if n.Category != "" {
		hints["category"] = dbus.MakeVariant(n.Category)
	}

	logrus.WithFields(logrus.Fields{
		"replacesID": n.ReplacesID,
		"summary":    n.Summary,
		"urgency":    n.Urgency.String(),
	}).Trace("calling Notify")

	call := s.obj.Call(callNotify, 0,
		n.AppName,
		uint32(n.ReplacesID),
		n.AppIcon,
		n.Summary,
		n.Body,
		[]string{},
		hints,
		n.ExpireTimeout,
	)
	if call.Err != nil {
		return 0, pkgerrors.Wrapf(call.Err, "failed to send notification %q", n.Summary)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to decode Notify reply")
	}

	return ID(id), nil
}
