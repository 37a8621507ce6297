package timerecord

import (
	"time"

	"github.com/stclare-edu/dtr-backend-go/internal/pkg/validator"
)

// ========================================
// TIME RECORD DTOs
// ========================================

// UpsertTimeRecordRequest creates a new record or, when ID is set, updates an
// existing one. Punches are RFC3339 timestamps on the record's date.
type UpsertTimeRecordRequest struct {
	ID            *string `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	TimeIn        *string `json:"time_in"`
	TimeOut       *string `json:"time_out"`
	LunchStart    *string `json:"lunch_start"`
	LunchEnd      *string `json:"lunch_end"`
	OvertimeStart *string `json:"overtime_start"`
	OvertimeEnd   *string `json:"overtime_end"`
	Status        string  `json:"status"`
	LeaveType     *string `json:"leave_type"`
	Remarks       *string `json:"remarks"`
}

func (r *UpsertTimeRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Status, ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of Present, Absent, Late, HalfDay, OnLeave",
		})
	}

	if r.Status == string(StatusOnLeave) && (r.LeaveType == nil || validator.IsEmpty(*r.LeaveType)) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required when status is OnLeave",
		})
	}

	punches := map[string]*string{
		"time_in":        r.TimeIn,
		"time_out":       r.TimeOut,
		"lunch_start":    r.LunchStart,
		"lunch_end":      r.LunchEnd,
		"overtime_start": r.OvertimeStart,
		"overtime_end":   r.OvertimeEnd,
	}
	for field, value := range punches {
		if value == nil || validator.IsEmpty(*value) {
			continue
		}
		if _, ok := validator.IsValidDateTime(*value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeRecordResponse struct {
	ID            string   `json:"id"`
	EmployeeID    *string  `json:"employee_id"`
	EmployeeName  *string  `json:"employee_name,omitempty"`
	Date          string   `json:"date"`
	TimeIn        *string  `json:"time_in"`
	TimeOut       *string  `json:"time_out"`
	LunchStart    *string  `json:"lunch_start"`
	LunchEnd      *string  `json:"lunch_end"`
	OvertimeStart *string  `json:"overtime_start"`
	OvertimeEnd   *string  `json:"overtime_end"`
	Status        string   `json:"status"`
	LeaveType     *string  `json:"leave_type"`
	Remarks       *string  `json:"remarks"`
	HoursWorked   float64  `json:"hours_worked"`
	OvertimeHours float64  `json:"overtime_hours"`
	IsPaid        bool     `json:"is_paid"`
	PayPeriod     *string  `json:"pay_period"`
	DataQuality   []string `json:"data_quality,omitempty"`
}

// ListFilter narrows List queries. EndDate defaults to today when only
// StartDate is given, so open-ended ranges never include future entries.
type ListFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	IsPaid     *bool
	Page       int
	Limit      int
}

type ListTimeRecordResponse struct {
	Data       []TimeRecordResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

// ========================================
// SETTLEMENT DTOs
// ========================================

type MarkPaidRequest struct {
	RecordIDs []string `json:"record_ids"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "record_ids",
			Message: "record_ids must not be empty",
		})
	}
	for _, id := range r.RecordIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "record_ids",
				Message: "record_ids must not contain empty ids",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MarkPaidResponse reports which records flipped and which were skipped
// because they were missing or already paid. Re-running the same batch is
// safe: everything lands in Skipped the second time.
type MarkPaidResponse struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
}

// DataQualityFlags lists the report-level warnings for a record.
func DataQualityFlags(r TimeRecord) []string {
	var flags []string
	if r.HoursWorked < 0 {
		flags = append(flags, "negative_hours_worked")
	}
	if r.OvertimeHours < 0 {
		flags = append(flags, "negative_overtime_hours")
	}
	if r.TimeIn != nil && r.TimeOut != nil && r.TimeOut.Before(*r.TimeIn) {
		flags = append(flags, "time_out_before_time_in")
	}
	return flags
}

// FormatDate renders a calendar date the way the API exposes it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
