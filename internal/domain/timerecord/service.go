package timerecord

import (
	"context"
)

// Service defines business logic for time record operations
type Service interface {
	// Upsert creates or updates a record, recomputing derived hours from the
	// punches before persistence. Rejects paid records with ErrRecordLocked.
	Upsert(ctx context.Context, req UpsertTimeRecordRequest) (TimeRecordResponse, error)

	// Get retrieves a single time record by ID
	Get(ctx context.Context, id string) (TimeRecordResponse, error)

	// List retrieves time records with filters
	List(ctx context.Context, filter ListFilter) (ListTimeRecordResponse, error)

	// MarkPaid runs the bulk settlement operation. Idempotent: already-paid
	// and unknown ids are skipped, never errors.
	MarkPaid(ctx context.Context, req MarkPaidRequest) (MarkPaidResponse, error)
}
