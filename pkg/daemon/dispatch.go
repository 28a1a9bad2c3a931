package daemon

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/poweralertd/poweralertd/pkg/config"
	"github.com/poweralertd/poweralertd/pkg/notify"
	"github.com/poweralertd/poweralertd/pkg/powerinfo"
)

// Each category owns one notification slot on the server, so a new
// message replaces the previous one of the same category.
const (
	StateReplaceID   notify.ID = 1
	WarningReplaceID notify.ID = 2
)

const (
	stateSummary   = "Power status"
	warningSummary = "Power warning"

	stateCategory = "power.update"
)

type message struct {
	summary  string
	body     string
	urgency  notify.Urgency
	category string
}

func formatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func stateMessage(state powerinfo.BatteryState, percentage float64) message {
	level := "\nCurrent level: " + formatPercentage(percentage) + "%"

	switch state {
	case powerinfo.Charging:
		return message{stateSummary, "Battery charging" + level, notify.Normal, stateCategory}
	case powerinfo.Discharging:
		return message{stateSummary, "Battery discharging" + level, notify.Normal, stateCategory}
	case powerinfo.NotCharging:
		return message{stateSummary, "Battery not charging" + level, notify.Critical, stateCategory}
	case powerinfo.Full:
		return message{stateSummary, "Battery full", notify.Normal, stateCategory}
	case powerinfo.Empty:
		return message{stateSummary, "Battery empty", notify.Critical, stateCategory}
	default:
		return message{stateSummary, "Unknown power state", notify.Critical, stateCategory}
	}
}

func warningMessage(level powerinfo.WarningLevel) message {
	switch level {
	case powerinfo.WarningNone:
		return message{warningSummary, "Power warning cleared", notify.Normal, "power.cleared"}
	case powerinfo.WarningDischarging:
		return message{warningSummary, "Warning: Battery discharging", notify.Normal, "power.discharging"}
	case powerinfo.WarningLow:
		return message{warningSummary, "Warning: Battery low", notify.Critical, "power.low"}
	case powerinfo.WarningCritical:
		return message{warningSummary, "Warning: Battery critical", notify.Critical, "power.critical"}
	case powerinfo.WarningAction:
		return message{warningSummary, "Warning: Battery action", notify.Critical, "power.action"}
	default:
		return message{warningSummary, "Warning: Unknown power warning", notify.Critical, "power.unknown"}
	}
}

// Dispatcher turns dirty snapshot categories into notifications.
type Dispatcher struct {
	sender notify.Sender
	conf   config.Config
}

func NewDispatcher(sender notify.Sender, conf config.Config) *Dispatcher {
	return &Dispatcher{sender: sender, conf: conf}
}

// Dispatch sends at most one state and one warning notification, state
// first, and clears the flags it handled. A send error is returned as is
// and leaves the corresponding flag set.
func (d *Dispatcher) Dispatch(s *Snapshot) error {
	if s.StateDirty {
		if err := d.send(StateReplaceID, stateMessage(s.State, s.Percentage)); err != nil {
			return err
		}
		s.StateDirty = false
	}

	if s.WarnDirty {
		if err := d.send(WarningReplaceID, warningMessage(s.WarningLevel)); err != nil {
			return err
		}
		s.WarnDirty = false
	}

	return nil
}

func (d *Dispatcher) send(replacesID notify.ID, m message) error {
	id, err := d.sender.Send(&notify.Notification{
		AppName:       d.conf.AppName(),
		ReplacesID:    replacesID,
		Summary:       m.summary,
		Body:          m.body,
		Urgency:       m.urgency,
		Category:      m.category,
		ExpireTimeout: d.conf.ExpireTimeout(),
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"replacesID": replacesID,
		"id":         id,
		"summary":    m.summary,
		"body":       m.body,
		"urgency":    m.urgency.String(),
		"category":   m.category,
	}).Info("notification sent")

	return nil
}
