package payroll

import (
	"context"
	"time"
)

// Repository defines data access methods for payroll line items.
type Repository interface {
	// CreateWithSettlement persists the payroll row and, in the same
	// transaction, flips is_paid and stamps pay_period on every covered
	// record. The covered set is re-validated inside the transaction: if any
	// id is missing or no longer unpaid, nothing is persisted and
	// ErrConcurrentSettlement is returned so the caller can reselect.
	CreateWithSettlement(ctx context.Context, record Payroll, coveredIDs []string, payPeriod time.Time) (Payroll, error)

	// GetByID retrieves a payroll record by ID
	GetByID(ctx context.Context, id string) (Payroll, error)

	// List retrieves payroll records with filters and pagination
	List(ctx context.Context, filter Filter) ([]Payroll, int64, error)

	// Update rewrites the mutable fields of a pending record
	Update(ctx context.Context, record Payroll) error

	// MarkPaid transitions pending -> paid, setting paid_at. Returns
	// ErrPayrollAlreadyPaid / ErrPayrollAlreadyCancelled when the record is
	// not pending.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error

	// Cancel transitions pending -> cancelled. The covered time records stay
	// settled; reversing them is a manual correction workflow.
	Cancel(ctx context.Context, id string) error
}
