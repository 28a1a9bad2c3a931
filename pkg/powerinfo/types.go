package powerinfo

// BatteryState represents the charging state of the display device.
type BatteryState int

const (
	// StateUnknown is reported for any value UPower does not define.
	StateUnknown BatteryState = iota
	// Charging indicates the battery is charging.
	Charging
	// Discharging indicates the battery is discharging.
	Discharging
	// Empty indicates the battery is empty.
	Empty
	// Full indicates the battery is full.
	Full
	// NotCharging indicates the battery is plugged in but held from charging.
	NotCharging
)

// BatteryStateFromUPower maps a raw UPower Device.State value. Both
// "discharging" (2) and "pending discharge" (6) map to Discharging.
func BatteryStateFromUPower(v uint64) BatteryState {
	switch v {
	case 1:
		return Charging
	case 2, 6:
		return Discharging
	case 3:
		return Empty
	case 4:
		return Full
	case 5:
		return NotCharging
	default:
		return StateUnknown
	}
}

func (s BatteryState) String() string {
	switch s {
	case Charging:
		return "charging"
	case Discharging:
		return "discharging"
	case Empty:
		return "empty"
	case Full:
		return "full"
	case NotCharging:
		return "not charging"
	default:
		return "unknown"
	}
}

// WarningLevel is the UPower warning level of the display device.
type WarningLevel int

const (
	WarningUnknown WarningLevel = iota
	WarningNone
	WarningDischarging
	WarningLow
	WarningCritical
	WarningAction
)

// WarningLevelFromUPower maps a raw UPower Device.WarningLevel value.
// 0 and anything above 5 are WarningUnknown.
func WarningLevelFromUPower(v uint64) WarningLevel {
	switch v {
	case 1:
		return WarningNone
	case 2:
		return WarningDischarging
	case 3:
		return WarningLow
	case 4:
		return WarningCritical
	case 5:
		return WarningAction
	default:
		return WarningUnknown
	}
}

func (l WarningLevel) String() string {
	switch l {
	case WarningNone:
		return "none"
	case WarningDischarging:
		return "discharging"
	case WarningLow:
		return "low"
	case WarningCritical:
		return "critical"
	case WarningAction:
		return "action"
	default:
		return "unknown"
	}
}

// Properties holds the three DisplayDevice properties this daemon tracks.
type Properties struct {
	Percentage   float64
	State        BatteryState
	WarningLevel WarningLevel
}
