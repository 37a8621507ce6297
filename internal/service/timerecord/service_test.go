package timerecord

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/clock"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/validator"
	"github.com/stclare-edu/dtr-backend-go/internal/repository/memory"
)

const testEmployeeID = "0188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b"

var testClock = clock.Fixed(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))

func strPtr(s string) *string { return &s }

func newTestService(store *memory.Store) timerecord.Service {
	store.AddEmployee(employee.Employee{ID: testEmployeeID, FullName: "Maria Santos", IsActive: true})
	return NewTimeRecordService(store.TimeRecords(), testClock)
}

func upsertRequest() timerecord.UpsertTimeRecordRequest {
	return timerecord.UpsertTimeRecordRequest{
		EmployeeID: testEmployeeID,
		Date:       "2024-01-02",
		TimeIn:     strPtr("2024-01-02T08:00:00Z"),
		TimeOut:    strPtr("2024-01-02T17:00:00Z"),
		LunchStart: strPtr("2024-01-02T12:00:00Z"),
		LunchEnd:   strPtr("2024-01-02T13:00:00Z"),
		Status:     "Present",
	}
}

func TestTimeRecordService_UpsertComputesHours(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewStore())

	req := upsertRequest()
	req.OvertimeStart = strPtr("2024-01-02T17:00:00Z")
	req.OvertimeEnd = strPtr("2024-01-02T19:00:00Z")

	resp, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 8.00, resp.HoursWorked)
	assert.Equal(t, 2.00, resp.OvertimeHours)
	assert.False(t, resp.IsPaid)
	assert.Nil(t, resp.PayPeriod)
	assert.Empty(t, resp.DataQuality)
}

func TestTimeRecordService_UpsertSameDateUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewStore())

	first, err := svc.Upsert(ctx, upsertRequest())
	require.NoError(t, err)

	// second write for the same employee/date edits the existing record
	req := upsertRequest()
	req.TimeOut = strPtr("2024-01-02T13:00:00Z")
	req.LunchStart = nil
	req.LunchEnd = nil
	req.Status = "HalfDay"
	second, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5.00, second.HoursWorked)
	assert.Equal(t, "HalfDay", second.Status)
}

func TestTimeRecordService_UpsertFlagsNegativeHours(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewStore())

	req := upsertRequest()
	req.TimeIn = strPtr("2024-01-02T17:00:00Z")
	req.TimeOut = strPtr("2024-01-02T08:00:00Z")
	req.LunchStart = nil
	req.LunchEnd = nil

	resp, err := svc.Upsert(ctx, req)
	require.NoError(t, err)

	// persisted as-is, surfaced as a data quality warning, never clamped
	assert.Equal(t, -9.00, resp.HoursWorked)
	assert.Contains(t, resp.DataQuality, "negative_hours_worked")
	assert.Contains(t, resp.DataQuality, "time_out_before_time_in")
}

func TestTimeRecordService_PaidRecordIsLocked(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTestService(store)

	created, err := svc.Upsert(ctx, upsertRequest())
	require.NoError(t, err)

	result, err := svc.MarkPaid(ctx, timerecord.MarkPaidRequest{RecordIDs: []string{created.ID}})
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)

	req := upsertRequest()
	req.TimeOut = strPtr("2024-01-02T18:00:00Z")
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, timerecord.ErrRecordLocked)

	// also locked when addressed by id
	req = upsertRequest()
	req.ID = &created.ID
	_, err = svc.Upsert(ctx, req)
	assert.ErrorIs(t, err, timerecord.ErrRecordLocked)
}

func TestTimeRecordService_MarkPaidIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(memory.NewStore())

	a, err := svc.Upsert(ctx, upsertRequest())
	require.NoError(t, err)
	reqB := upsertRequest()
	reqB.Date = "2024-01-03"
	reqB.TimeIn = strPtr("2024-01-03T08:00:00Z")
	reqB.TimeOut = strPtr("2024-01-03T17:00:00Z")
	reqB.LunchStart = nil
	reqB.LunchEnd = nil
	b, err := svc.Upsert(ctx, reqB)
	require.NoError(t, err)

	ids := []string{a.ID, b.ID, "does-not-exist"}

	first, err := svc.MarkPaid(ctx, timerecord.MarkPaidRequest{RecordIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Updated)
	assert.Equal(t, []string{"does-not-exist"}, first.Skipped)

	// second call with the same set: nothing to do, never an error
	second, err := svc.MarkPaid(ctx, timerecord.MarkPaidRequest{RecordIDs: ids})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Updated)
	assert.ElementsMatch(t, ids, second.Skipped)

	// paid state identical to after the first call
	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PayPeriod)
	assert.Equal(t, "2024-01-20", *got.PayPeriod)
}

func TestTimeRecordService_MarkPaidValidation(t *testing.T) {
	svc := newTestService(memory.NewStore())

	_, err := svc.MarkPaid(context.Background(), timerecord.MarkPaidRequest{})
	var errs validator.ValidationErrors
	assert.ErrorAs(t, err, &errs)
}

func TestTimeRecordService_ListDefaultsEndDateToToday(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newTestService(store)

	_, err := svc.Upsert(ctx, upsertRequest())
	require.NoError(t, err)

	// future-dated entry must not leak into an open-ended range
	future := upsertRequest()
	future.Date = "2024-02-01"
	future.TimeIn = strPtr("2024-02-01T08:00:00Z")
	future.TimeOut = strPtr("2024-02-01T17:00:00Z")
	_, err = svc.Upsert(ctx, future)
	require.NoError(t, err)

	start := "2024-01-01"
	resp, err := svc.List(ctx, timerecord.ListFilter{StartDate: &start})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "2024-01-02", resp.Data[0].Date)
}
