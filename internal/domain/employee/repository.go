package employee

import "context"

// Repository is the employee directory lookup consumed by the payroll
// aggregator's hard-error check and the integrity auditor.
type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
}
