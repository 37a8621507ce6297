package timerecord

import (
	"context"
	"fmt"
	"time"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/clock"
)

type TimeRecordServiceImpl struct {
	recordRepo timerecord.Repository
	clock      clock.Clock
}

func NewTimeRecordService(recordRepo timerecord.Repository, clk clock.Clock) timerecord.Service {
	return &TimeRecordServiceImpl{
		recordRepo: recordRepo,
		clock:      clk,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// parsePunch converts an optional RFC3339 string (already validated) to a
// *time.Time.
func parsePunch(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// Upsert implements timerecord.Service. Derived hours are recomputed from
// the punches on every write, before persistence, so they are never stale.
func (s *TimeRecordServiceImpl) Upsert(ctx context.Context, req timerecord.UpsertTimeRecordRequest) (timerecord.TimeRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	var existing *timerecord.TimeRecord
	if req.ID != nil && *req.ID != "" {
		found, err := s.recordRepo.GetByID(ctx, *req.ID)
		if err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
		existing = &found
	} else {
		found, err := s.recordRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
		existing = found
	}

	// Paid records are append-only audit artifacts
	if existing != nil && existing.IsPaid {
		return timerecord.TimeRecordResponse{}, timerecord.ErrRecordLocked
	}

	employeeID := req.EmployeeID
	record := timerecord.TimeRecord{
		EmployeeID:    &employeeID,
		Date:          date,
		TimeIn:        parsePunch(req.TimeIn),
		TimeOut:       parsePunch(req.TimeOut),
		LunchStart:    parsePunch(req.LunchStart),
		LunchEnd:      parsePunch(req.LunchEnd),
		OvertimeStart: parsePunch(req.OvertimeStart),
		OvertimeEnd:   parsePunch(req.OvertimeEnd),
		Status:        timerecord.Status(req.Status),
		LeaveType:     req.LeaveType,
		Remarks:       req.Remarks,
	}
	record.RecomputeHours()

	if existing != nil {
		record.ID = existing.ID
		record.EmployeeID = existing.EmployeeID
		if err := s.recordRepo.Update(ctx, record); err != nil {
			return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to update time record: %w", err)
		}
		saved, err := s.recordRepo.GetByID(ctx, record.ID)
		if err != nil {
			return timerecord.TimeRecordResponse{}, err
		}
		return mapToResponse(saved), nil
	}

	created, err := s.recordRepo.Create(ctx, record)
	if err != nil {
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to create time record: %w", err)
	}

	return mapToResponse(created), nil
}

// Get implements timerecord.Service.
func (s *TimeRecordServiceImpl) Get(ctx context.Context, id string) (timerecord.TimeRecordResponse, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	return mapToResponse(record), nil
}

// List implements timerecord.Service. An open-ended range defaults its end
// to today so future-dated entries never leak into reports.
func (s *TimeRecordServiceImpl) List(ctx context.Context, filter timerecord.ListFilter) (timerecord.ListTimeRecordResponse, error) {
	if filter.StartDate != nil && (filter.EndDate == nil || *filter.EndDate == "") {
		today := timerecord.FormatDate(s.clock.Today())
		filter.EndDate = &today
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return timerecord.ListTimeRecordResponse{}, err
	}

	data := make([]timerecord.TimeRecordResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, mapToResponse(rec))
	}

	return timerecord.ListTimeRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// MarkPaid implements timerecord.Service. Idempotent: re-running a batch
// reports everything as skipped instead of failing.
func (s *TimeRecordServiceImpl) MarkPaid(ctx context.Context, req timerecord.MarkPaidRequest) (timerecord.MarkPaidResponse, error) {
	if err := req.Validate(); err != nil {
		return timerecord.MarkPaidResponse{}, err
	}

	updated, err := s.recordRepo.MarkPaid(ctx, req.RecordIDs, s.clock.Today())
	if err != nil {
		return timerecord.MarkPaidResponse{}, fmt.Errorf("failed to mark records paid: %w", err)
	}

	updatedSet := make(map[string]bool, len(updated))
	for _, id := range updated {
		updatedSet[id] = true
	}

	skipped := make([]string, 0)
	for _, id := range req.RecordIDs {
		if !updatedSet[id] {
			skipped = append(skipped, id)
		}
	}

	return timerecord.MarkPaidResponse{
		Updated: len(updated),
		Skipped: skipped,
	}, nil
}

func mapToResponse(r timerecord.TimeRecord) timerecord.TimeRecordResponse {
	var payPeriod *string
	if r.PayPeriod != nil {
		str := timerecord.FormatDate(*r.PayPeriod)
		payPeriod = &str
	}

	return timerecord.TimeRecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Date:          timerecord.FormatDate(r.Date),
		TimeIn:        timePtrToString(r.TimeIn),
		TimeOut:       timePtrToString(r.TimeOut),
		LunchStart:    timePtrToString(r.LunchStart),
		LunchEnd:      timePtrToString(r.LunchEnd),
		OvertimeStart: timePtrToString(r.OvertimeStart),
		OvertimeEnd:   timePtrToString(r.OvertimeEnd),
		Status:        string(r.Status),
		LeaveType:     r.LeaveType,
		Remarks:       r.Remarks,
		HoursWorked:   r.HoursWorked,
		OvertimeHours: r.OvertimeHours,
		IsPaid:        r.IsPaid,
		PayPeriod:     payPeriod,
		DataQuality:   timerecord.DataQualityFlags(r),
	}
}
