package timerecord

import (
	"math"
	"time"
)

// ComputeHoursWorked turns the regular punches into worked hours.
// Missing time-in or time-out yields 0. Lunch is only deducted when both
// lunch punches are present; partial lunch data is ignored, not estimated.
// A time-out before time-in produces a negative result on purpose: the bad
// data stays visible instead of being clamped away.
func ComputeHoursWorked(timeIn, timeOut, lunchStart, lunchEnd *time.Time) float64 {
	if timeIn == nil || timeOut == nil {
		return 0
	}

	worked := timeOut.Sub(*timeIn).Minutes() / 60

	if lunchStart != nil && lunchEnd != nil {
		worked -= lunchEnd.Sub(*lunchStart).Minutes() / 60
	}

	return roundHours(worked)
}

// ComputeOvertimeHours turns the overtime punches into overtime hours.
// Either endpoint missing yields 0. No cap: overtime-only shifts are valid.
func ComputeOvertimeHours(overtimeStart, overtimeEnd *time.Time) float64 {
	if overtimeStart == nil || overtimeEnd == nil {
		return 0
	}

	return roundHours(overtimeEnd.Sub(*overtimeStart).Minutes() / 60)
}

// roundHours rounds to 2 decimals, half away from zero.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
