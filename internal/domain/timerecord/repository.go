package timerecord

import (
	"context"
	"time"
)

// Repository defines data access methods for time records.
// Settlement methods are atomic: MarkPaid either flips its whole eligible
// subset or nothing.
type Repository interface {
	// Create creates a new time record
	Create(ctx context.Context, record TimeRecord) (TimeRecord, error)

	// GetByID retrieves a time record by ID
	GetByID(ctx context.Context, id string) (TimeRecord, error)

	// GetByEmployeeAndDate retrieves the record for one employee on one date,
	// nil when none exists. Used by the upsert path.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*TimeRecord, error)

	// Update updates an existing time record
	Update(ctx context.Context, record TimeRecord) error

	// List retrieves time records with filters and pagination
	List(ctx context.Context, filter ListFilter) ([]TimeRecord, int64, error)

	// ListUnpaid retrieves the unpaid records for an employee in an inclusive
	// date range, ordered by date.
	ListUnpaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]TimeRecord, error)

	// MarkPaid atomically flips is_paid on every given record that exists and
	// is still unpaid, stamping payPeriod. Returns the ids actually flipped.
	MarkPaid(ctx context.Context, ids []string, payPeriod time.Time) ([]string, error)

	// FindOrphans returns every record whose employee_id is non-null but does
	// not resolve in the employee directory. Records with a null employee_id
	// are intentionally unattached and are never reported.
	FindOrphans(ctx context.Context) ([]TimeRecord, error)

	// ClearEmployee nulls the employee reference on one record, leaving
	// punches, derived hours and is_paid untouched.
	ClearEmployee(ctx context.Context, id string) error
}
