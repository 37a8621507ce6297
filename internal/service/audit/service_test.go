package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/repository/memory"
)

const (
	keptEmployeeID    = "0188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b"
	deletedEmployeeID = "0188d0f2-7b8c-4b4a-8a2b-111111111111"
)

func seed(t *testing.T, store *memory.Store, employeeID *string, date string, isPaid bool) timerecord.TimeRecord {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	rec, err := store.TimeRecords().Create(context.Background(), timerecord.TimeRecord{
		EmployeeID:    employeeID,
		Date:          d,
		Status:        timerecord.StatusPresent,
		HoursWorked:   8.00,
		OvertimeHours: 2.00,
	})
	require.NoError(t, err)

	if isPaid {
		_, err = store.TimeRecords().MarkPaid(context.Background(), []string{rec.ID}, d)
		require.NoError(t, err)
	}
	return rec
}

func TestAuditService_FindOrphans(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.AddEmployee(employee.Employee{ID: keptEmployeeID, FullName: "Maria Santos", IsActive: true})
	store.AddEmployee(employee.Employee{ID: deletedEmployeeID, FullName: "Jose Cruz", IsActive: true})

	kept := keptEmployeeID
	deleted := deletedEmployeeID
	seed(t, store, &kept, "2024-01-02", false)
	orphan := seed(t, store, &deleted, "2024-01-03", false)
	seed(t, store, nil, "2024-01-04", false) // intentionally unattached

	store.RemoveEmployee(deletedEmployeeID)

	svc := NewAuditService(store.TimeRecords())

	orphans, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, orphan.ID, orphans[0].ID)
	assert.Equal(t, deletedEmployeeID, orphans[0].EmployeeID)
	assert.Equal(t, "2024-01-03", orphans[0].Date)
}

// repairOrphans(findOrphans()) leaves no orphans and alters nothing but the
// employee reference.
func TestAuditService_RepairRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	deleted := deletedEmployeeID
	unpaidOrphan := seed(t, store, &deleted, "2024-01-03", false)
	store.AddEmployee(employee.Employee{ID: deletedEmployeeID})
	paidOrphan := seed(t, store, &deleted, "2024-01-05", true)
	store.RemoveEmployee(deletedEmployeeID)

	svc := NewAuditService(store.TimeRecords())

	orphans, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 2)

	result, err := svc.Repair(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Repaired)

	after, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, after)

	// punches, hours and paid state survive the repair
	for _, id := range []string{unpaidOrphan.ID, paidOrphan.ID} {
		rec, err := store.TimeRecords().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, rec.EmployeeID)
		assert.Equal(t, 8.00, rec.HoursWorked)
		assert.Equal(t, 2.00, rec.OvertimeHours)
	}
	paid, err := store.TimeRecords().GetByID(ctx, paidOrphan.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
}

func TestAuditService_RepairSpecificIDs(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	deleted := deletedEmployeeID
	first := seed(t, store, &deleted, "2024-01-03", false)
	second := seed(t, store, &deleted, "2024-01-04", false)

	svc := NewAuditService(store.TimeRecords())

	result, err := svc.Repair(ctx, []string{first.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Repaired)

	remaining, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)
}

func TestAuditService_NoOrphans(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	svc := NewAuditService(store.TimeRecords())

	orphans, err := svc.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	result, err := svc.Repair(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Repaired)
}
