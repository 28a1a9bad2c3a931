package daemon

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/poweralertd/poweralertd/pkg/powerinfo"
)

func TestNewSnapshotFlags(t *testing.T) {
	s := NewSnapshot(powerinfo.Properties{
		Percentage:   80,
		State:        powerinfo.Discharging,
		WarningLevel: powerinfo.WarningLow,
	})

	assert.True(t, s.StateDirty)
	assert.False(t, s.WarnDirty)
	assert.Equal(t, 80.0, s.Percentage)
}

func TestApplyChanges(t *testing.T) {
	tests := []struct {
		name    string
		before  Snapshot
		changed map[string]dbus.Variant
		want    Snapshot
	}{
		{
			name:    "state",
			before:  Snapshot{State: powerinfo.Discharging},
			changed: map[string]dbus.Variant{"State": dbus.MakeVariant(uint32(1))},
			want:    Snapshot{State: powerinfo.Charging, StateDirty: true},
		},
		{
			name:    "same state still marks dirty",
			before:  Snapshot{State: powerinfo.Charging},
			changed: map[string]dbus.Variant{"State": dbus.MakeVariant(uint32(1))},
			want:    Snapshot{State: powerinfo.Charging, StateDirty: true},
		},
		{
			name:    "warning level",
			before:  Snapshot{WarningLevel: powerinfo.WarningNone},
			changed: map[string]dbus.Variant{"WarningLevel": dbus.MakeVariant(uint32(3))},
			want:    Snapshot{WarningLevel: powerinfo.WarningLow, WarnDirty: true},
		},
		{
			name:    "percentage only",
			before:  Snapshot{Percentage: 50},
			changed: map[string]dbus.Variant{"Percentage": dbus.MakeVariant(49.5)},
			want:    Snapshot{Percentage: 49.5},
		},
		{
			name:   "malformed state",
			before: Snapshot{State: powerinfo.Full},
			changed: map[string]dbus.Variant{
				"State":      dbus.MakeVariant("charging"),
				"Percentage": dbus.MakeVariant(99.0),
			},
			want: Snapshot{State: powerinfo.Full, Percentage: 99},
		},
		{
			name:    "malformed warning level",
			before:  Snapshot{WarningLevel: powerinfo.WarningNone},
			changed: map[string]dbus.Variant{"WarningLevel": dbus.MakeVariant(-3.0)},
			want:    Snapshot{WarningLevel: powerinfo.WarningNone},
		},
		{
			name:    "malformed percentage",
			before:  Snapshot{Percentage: 12},
			changed: map[string]dbus.Variant{"Percentage": dbus.MakeVariant("13")},
			want:    Snapshot{Percentage: 12},
		},
		{
			name:   "unrelated keys",
			before: Snapshot{Percentage: 12},
			changed: map[string]dbus.Variant{
				"TimeToEmpty": dbus.MakeVariant(int64(3600)),
				"IconName":    dbus.MakeVariant("battery-good-symbolic"),
			},
			want: Snapshot{Percentage: 12},
		},
		{
			name:   "state and percentage together",
			before: Snapshot{State: powerinfo.Charging, Percentage: 97},
			changed: map[string]dbus.Variant{
				"State":      dbus.MakeVariant(uint32(4)),
				"Percentage": dbus.MakeVariant(100.0),
			},
			want: Snapshot{State: powerinfo.Full, Percentage: 100, StateDirty: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.before
			s.ApplyChanges(tt.changed)
			assert.Equal(t, tt.want, s)
		})
	}
}
