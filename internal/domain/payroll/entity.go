package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// Payroll is one line item for one employee over an inclusive date range.
// It owns the unpaid time records it settled at generation time; that
// ownership is frozen by flipping is_paid on the covered set, not stored as
// a link table.
type Payroll struct {
	ID            string
	EmployeeID    string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	RegularHours  float64
	OvertimeHours float64
	BasicSalary   decimal.Decimal
	OvertimePay   decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
	Tax           decimal.Decimal
	NetSalary     decimal.Decimal
	PaymentMethod *string
	Status        Status
	Remarks       *string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// GrossPay is basicSalary + overtimePay + allowances.
func (p Payroll) GrossPay() decimal.Decimal {
	return p.BasicSalary.Add(p.OvertimePay).Add(p.Allowances)
}
