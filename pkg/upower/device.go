// Package upower reads and watches the UPower display device on the
// system bus.
package upower

import (
	"errors"

	"github.com/godbus/dbus/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/powerinfo"
)

const (
	Service           = "org.freedesktop.UPower"
	DisplayDevicePath = dbus.ObjectPath("/org/freedesktop/UPower/devices/DisplayDevice")
	DeviceInterface   = "org.freedesktop.UPower.Device"

	PropPercentage   = "Percentage"
	PropState        = "State"
	PropWarningLevel = "WarningLevel"
)

// ErrPropertyType is returned when a property read at startup has a type
// that cannot be decoded.
var ErrPropertyType = errors.New("unexpected property type")

type propertyGetter interface {
	GetProperty(p string) (dbus.Variant, error)
}

// Device is the aggregated UPower display device.
type Device struct {
	obj propertyGetter
}

// NewDisplayDevice returns the display device reachable over conn, which
// must be a system bus connection.
func NewDisplayDevice(conn *dbus.Conn) *Device {
	return &Device{obj: conn.Object(Service, DisplayDevicePath)}
}

// ReadProperties synchronously reads Percentage, State and WarningLevel.
func (d *Device) ReadProperties() (powerinfo.Properties, error) {
	var props powerinfo.Properties

	pct, err := d.get(PropPercentage)
	if err != nil {
		return props, err
	}
	p, ok := DecodeFloat(pct)
	if !ok {
		return props, pkgerrors.Wrapf(ErrPropertyType, "%s has signature %s", PropPercentage, pct.Signature())
	}

	state, err := d.get(PropState)
	if err != nil {
		return props, err
	}
	s, ok := DecodeUint(state)
	if !ok {
		return props, pkgerrors.Wrapf(ErrPropertyType, "%s has signature %s", PropState, state.Signature())
	}

	level, err := d.get(PropWarningLevel)
	if err != nil {
		return props, err
	}
	l, ok := DecodeUint(level)
	if !ok {
		return props, pkgerrors.Wrapf(ErrPropertyType, "%s has signature %s", PropWarningLevel, level.Signature())
	}

	props = powerinfo.Properties{
		Percentage:   p,
		State:        powerinfo.BatteryStateFromUPower(s),
		WarningLevel: powerinfo.WarningLevelFromUPower(l),
	}

	logrus.WithFields(logrus.Fields{
		"percentage":   props.Percentage,
		"state":        props.State.String(),
		"warningLevel": props.WarningLevel.String(),
	}).Debug("read display device properties")

	return props, nil
}

func (d *Device) get(name string) (dbus.Variant, error) {
	v, err := d.obj.GetProperty(DeviceInterface + "." + name)
	if err != nil {
		return v, pkgerrors.Wrapf(err, "failed to read %s of %s", name, DisplayDevicePath)
	}
	return v, nil
}

// DecodeUint decodes an integer-typed variant. Negative values are
// rejected.
func DecodeUint(v dbus.Variant) (uint64, bool) {
	switch x := v.Value().(type) {
	case byte:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int16:
		return uint64(x), x >= 0
	case int32:
		return uint64(x), x >= 0
	case int64:
		return uint64(x), x >= 0
	default:
		return 0, false
	}
}

// DecodeFloat decodes a numeric variant as float64.
func DecodeFloat(v dbus.Variant) (float64, bool) {
	switch x := v.Value().(type) {
	case float64:
		return x, true
	case byte:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

// ErrorName returns the D-Bus error name carried by err, or "".
func ErrorName(err error) string {
	var e dbus.Error
	if errors.As(err, &e) {
		return e.Name
	}
	var pe *dbus.Error
	if errors.As(err, &pe) && pe != nil {
		return pe.Name
	}
	return ""
}
