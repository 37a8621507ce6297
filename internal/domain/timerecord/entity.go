package timerecord

import (
	"time"
)

// Status enum
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusHalfDay Status = "HalfDay"
	StatusOnLeave Status = "OnLeave"
)

func ValidStatuses() []string {
	return []string{
		string(StatusPresent),
		string(StatusAbsent),
		string(StatusLate),
		string(StatusHalfDay),
		string(StatusOnLeave),
	}
}

// TimeRecord is one employee's attendance entry for one calendar date.
// EmployeeID is nullable: integrity repair clears it, leaving the record
// unattached but not deleted.
type TimeRecord struct {
	ID            string
	EmployeeID    *string
	Date          time.Time
	TimeIn        *time.Time
	TimeOut       *time.Time
	LunchStart    *time.Time
	LunchEnd      *time.Time
	OvertimeStart *time.Time
	OvertimeEnd   *time.Time
	Status        Status
	LeaveType     *string
	Remarks       *string
	HoursWorked   float64
	OvertimeHours float64
	IsPaid        bool
	PayPeriod     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// RecomputeHours refreshes the derived hour fields from the current punches.
// Must be called on every write that touches punches, before persistence.
func (r *TimeRecord) RecomputeHours() {
	r.HoursWorked = ComputeHoursWorked(r.TimeIn, r.TimeOut, r.LunchStart, r.LunchEnd)
	r.OvertimeHours = ComputeOvertimeHours(r.OvertimeStart, r.OvertimeEnd)
}

// HasDataQualityIssue reports whether the derived hours look wrong, e.g. a
// time-out punched before time-in. The value is persisted as-is and only
// flagged, never clamped.
func (r *TimeRecord) HasDataQualityIssue() bool {
	return r.HoursWorked < 0 || r.OvertimeHours < 0
}
