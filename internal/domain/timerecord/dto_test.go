package timerecord

import (
	"errors"
	"testing"

	"github.com/stclare-edu/dtr-backend-go/internal/pkg/validator"
)

const testEmployeeID = "0188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b"

func strPtr(s string) *string { return &s }

func validUpsertRequest() UpsertTimeRecordRequest {
	return UpsertTimeRecordRequest{
		EmployeeID: testEmployeeID,
		Date:       "2024-01-02",
		TimeIn:     strPtr("2024-01-02T08:00:00Z"),
		TimeOut:    strPtr("2024-01-02T17:00:00Z"),
		Status:     "Present",
	}
}

func TestUpsertTimeRecordRequestValidate(t *testing.T) {
	req := validUpsertRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestUpsertTimeRecordRequestValidateFailures(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*UpsertTimeRecordRequest)
		badField string
	}{
		{"missing employee id", func(r *UpsertTimeRecordRequest) { r.EmployeeID = "" }, "employee_id"},
		{"malformed employee id", func(r *UpsertTimeRecordRequest) { r.EmployeeID = "not-a-uuid" }, "employee_id"},
		{"missing date", func(r *UpsertTimeRecordRequest) { r.Date = "" }, "date"},
		{"malformed date", func(r *UpsertTimeRecordRequest) { r.Date = "01/02/2024" }, "date"},
		{"unknown status", func(r *UpsertTimeRecordRequest) { r.Status = "Vacation" }, "status"},
		{"status match is case-exact", func(r *UpsertTimeRecordRequest) { r.Status = "present" }, "status"},
		{"on leave without leave type", func(r *UpsertTimeRecordRequest) { r.Status = "OnLeave"; r.LeaveType = nil }, "leave_type"},
		{"malformed punch", func(r *UpsertTimeRecordRequest) { r.TimeIn = strPtr("08:00") }, "time_in"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := validUpsertRequest()
			c.mutate(&req)

			err := req.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var errs validator.ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if _, ok := errs.ToMap()[c.badField]; !ok {
				t.Errorf("expected error on field %q, got %v", c.badField, errs.ToMap())
			}
		})
	}
}

func TestUpsertTimeRecordRequestOnLeaveWithLeaveType(t *testing.T) {
	req := validUpsertRequest()
	req.Status = "OnLeave"
	req.LeaveType = strPtr("Sick")
	if err := req.Validate(); err != nil {
		t.Fatalf("OnLeave with leave_type rejected: %v", err)
	}
}

func TestMarkPaidRequestValidate(t *testing.T) {
	req := MarkPaidRequest{RecordIDs: []string{"a", "b"}}
	if err := req.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	empty := MarkPaidRequest{}
	if err := empty.Validate(); err == nil {
		t.Fatal("empty record_ids accepted")
	}

	blank := MarkPaidRequest{RecordIDs: []string{"a", " "}}
	if err := blank.Validate(); err == nil {
		t.Fatal("blank id accepted")
	}
}

func TestDataQualityFlags(t *testing.T) {
	in := "2024-01-02T17:00:00Z"
	out := "2024-01-02T08:00:00Z"

	rec := TimeRecord{HoursWorked: -9.0}
	ti, _ := validator.IsValidDateTime(in)
	to, _ := validator.IsValidDateTime(out)
	rec.TimeIn = &ti
	rec.TimeOut = &to

	flags := DataQualityFlags(rec)
	if len(flags) != 2 {
		t.Fatalf("flags = %v, want negative_hours_worked and time_out_before_time_in", flags)
	}

	clean := TimeRecord{HoursWorked: 8.0}
	if got := DataQualityFlags(clean); got != nil {
		t.Errorf("clean record flags = %v, want nil", got)
	}
}
