package payroll

import "errors"

var (
	ErrPayrollNotFound = errors.New("payroll record not found")

	// ErrUnknownEmployee rejects aggregation against a non-resolving
	// employee. Unlike time records, payroll never tolerates a dangling
	// reference.
	ErrUnknownEmployee = errors.New("employee does not exist")

	ErrPayrollAlreadyPaid      = errors.New("payroll record already paid, cannot modify")
	ErrPayrollAlreadyCancelled = errors.New("payroll record is cancelled")

	// ErrConcurrentSettlement means a covered record changed between
	// selection and settlement. The caller retries against a fresh
	// selection; nothing was persisted.
	ErrConcurrentSettlement = errors.New("covered records changed during settlement")
)
