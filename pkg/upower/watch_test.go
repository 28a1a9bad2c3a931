package upower

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedProperties(t *testing.T) {
	sig := &dbus.Signal{
		Path: DisplayDevicePath,
		Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
		Body: []interface{}{
			DeviceInterface,
			map[string]dbus.Variant{
				"State":      dbus.MakeVariant(uint32(4)),
				"Percentage": dbus.MakeVariant(100.0),
			},
			[]string{},
		},
	}

	changed, ok := ChangedProperties(sig)
	require.True(t, ok)
	assert.Len(t, changed, 2)
	assert.Equal(t, uint32(4), changed["State"].Value())
}

func TestChangedPropertiesIgnoresOtherSignals(t *testing.T) {
	body := []interface{}{DeviceInterface, map[string]dbus.Variant{}, []string{}}

	tests := []struct {
		name string
		sig  *dbus.Signal
	}{
		{name: "nil", sig: nil},
		{name: "other path", sig: &dbus.Signal{
			Path: "/org/freedesktop/UPower/devices/battery_BAT0",
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: body,
		}},
		{name: "other member", sig: &dbus.Signal{
			Path: DisplayDevicePath,
			Name: "org.freedesktop.UPower.Device.Changed",
			Body: body,
		}},
		{name: "short body", sig: &dbus.Signal{
			Path: DisplayDevicePath,
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: []interface{}{DeviceInterface},
		}},
		{name: "wrong body type", sig: &dbus.Signal{
			Path: DisplayDevicePath,
			Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
			Body: []interface{}{DeviceInterface, "oops", []string{}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ChangedProperties(tt.sig); ok {
				t.Errorf("ChangedProperties() ok = true, want false")
			}
		})
	}
}
