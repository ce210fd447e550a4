package entities

import "time"

// Punishment thresholds for a single statistics period. Crossing either
// one arms the trigger exactly once per period.
const (
	LateCountThreshold   = 3
	LateMinutesThreshold = 10
)

type PunishmentPhase string

const (
	// PhaseAccumulating collects late events and evaluates the trigger
	// predicate on every append.
	PhaseAccumulating PunishmentPhase = "accumulating"
	// PhaseTriggered means the punishment campaign hand-off already fired
	// for this period; further late events only accumulate.
	PhaseTriggered PunishmentPhase = "triggered"
)

type LateRecord struct {
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
	Reason  string    `json:"reason"`
}

// AttendanceStatistics is one row per (employee, year, month). Rows are
// created lazily on the first late event of a period and never deleted.
type AttendanceStatistics struct {
	EmployeeID       string
	Year             int
	Month            int
	LateCount        int
	LateMinutesTotal int
	LateRecords      []LateRecord
	Phase            PunishmentPhase
	PunishmentCount  int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TriggerEligible reports whether the punishment predicate holds while the
// period is still accumulating. The check is edge-triggered: once the phase
// advances it stays false until the period is reset.
func (s AttendanceStatistics) TriggerEligible() bool {
	if s.Phase != PhaseAccumulating {
		return false
	}
	return s.LateCount > LateCountThreshold || s.LateMinutesTotal > LateMinutesThreshold
}

func ValidPeriod(year int, month int) bool {
	return year >= 2000 && year <= 2200 && month >= 1 && month <= 12
}
