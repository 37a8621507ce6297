package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/stclare-edu/dtr-backend-go/internal/pkg/validator"
)

// ========================================
// PAYROLL DTOs
// ========================================

type GeneratePayrollRequest struct {
	EmployeeID    string          `json:"employee_id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	OvertimeRate  decimal.Decimal `json:"overtime_rate"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	PaymentMethod *string         `json:"payment_method"`
	Remarks       *string         `json:"remarks"`
}

func (r *GeneratePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must not be before period_start",
		})
	}

	if r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hourly_rate",
			Message: "hourly_rate must not be negative",
		})
	}
	if r.OvertimeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_rate",
			Message: "overtime_rate must not be negative",
		})
	}
	if r.Allowances.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "allowances",
			Message: "allowances must not be negative",
		})
	}
	if r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "deductions",
			Message: "deductions must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdatePayrollRequest adjusts a pending line item. Net salary is recomputed
// from the updated amounts; paid and cancelled records are immutable.
type UpdatePayrollRequest struct {
	ID            string           `json:"-"`
	Allowances    *decimal.Decimal `json:"allowances"`
	Deductions    *decimal.Decimal `json:"deductions"`
	PaymentMethod *string          `json:"payment_method"`
	Remarks       *string          `json:"remarks"`
}

func (r *UpdatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Allowances != nil && r.Allowances.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "allowances",
			Message: "allowances must not be negative",
		})
	}
	if r.Deductions != nil && r.Deductions.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "deductions",
			Message: "deductions must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PayrollResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	RegularHours  float64         `json:"regular_hours"`
	OvertimeHours float64         `json:"overtime_hours"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	Tax           decimal.Decimal `json:"tax"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	PaymentMethod *string         `json:"payment_method"`
	Status        string          `json:"status"`
	Remarks       *string         `json:"remarks"`
	PaidAt        *string         `json:"paid_at"`
	CoveredCount  int             `json:"covered_count"`
	// NegativeNet marks a reportable (not fatal) condition: deductions
	// exceeded gross pay.
	NegativeNet bool `json:"negative_net,omitempty"`
}

type Filter struct {
	EmployeeID  *string
	Status      *string
	PeriodStart *string
	PeriodEnd   *string
	Page        int
	Limit       int
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
