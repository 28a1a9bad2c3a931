package daemon

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/notify"
	"github.com/poweralertd/poweralertd/pkg/upower"
	"github.com/poweralertd/poweralertd/pkg/utils/ptr"
)

// fakeSender records every notification it is asked to send.
type fakeSender struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (f *fakeSender) Send(n *notify.Notification) (notify.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, *n)
	return notify.ID(len(f.sent)), nil
}

func (f *fakeSender) notifications() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]notify.Notification(nil), f.sent...)
}

func (f *fakeSender) byReplacesID(id notify.ID) []notify.Notification {
	var ret []notify.Notification
	for _, n := range f.notifications() {
		if n.ReplacesID == id {
			ret = append(ret, n)
		}
	}
	return ret
}

func testConfig() config.Config {
	return config.NewFileFromConfig(&config.RawFileConfig{
		WaitIntervalSeconds: ptr.To(1),
	}, "")
}

func propertiesChanged(changed map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Path: upower.DisplayDevicePath,
		Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
		Body: []interface{}{upower.DeviceInterface, changed, []string{}},
	}
}
