package payroll

import (
	"context"
)

// Service defines business logic for payroll operations
type Service interface {
	// Generate runs the aggregation: selects the employee's unpaid time
	// records in the period, computes the line item, persists it and settles
	// the covered set atomically. An empty covered set yields a zero-value
	// payroll, not an error.
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)

	// Get retrieves a single payroll record by ID
	Get(ctx context.Context, id string) (PayrollResponse, error)

	// List retrieves payroll records with filters
	List(ctx context.Context, filter Filter) (ListPayrollResponse, error)

	// Update adjusts a pending record's allowances, deductions, payment
	// method or remarks, recomputing tax and net salary
	Update(ctx context.Context, req UpdatePayrollRequest) (PayrollResponse, error)

	// MarkPaid finalizes a pending record
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)

	// Cancel cancels a pending record
	Cancel(ctx context.Context, id string) (PayrollResponse, error)
}
