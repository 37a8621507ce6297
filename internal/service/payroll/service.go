package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/clock"
)

// settlementRetries bounds the reselect loop when a concurrent run settles
// part of the covered set between selection and commit.
const settlementRetries = 3

type PayrollServiceImpl struct {
	payrollRepo  payroll.Repository
	recordRepo   timerecord.Repository
	employeeRepo employee.Repository
	taxPolicy    payroll.TaxPolicy
	clock        clock.Clock
}

func NewPayrollService(
	payrollRepo payroll.Repository,
	recordRepo timerecord.Repository,
	employeeRepo employee.Repository,
	taxPolicy payroll.TaxPolicy,
	clk clock.Clock,
) payroll.Service {
	if taxPolicy == nil {
		taxPolicy = payroll.FlatRate(payroll.DefaultTaxRate)
	}
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
		taxPolicy:    taxPolicy,
		clock:        clk,
	}
}

// Generate implements payroll.Service.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	// Payroll is never generated against a non-resolving employee, unlike
	// time records which tolerate a dangling reference.
	exists, err := s.employeeRepo.Exists(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to check employee: %w", err)
	}
	if !exists {
		return payroll.PayrollResponse{}, payroll.ErrUnknownEmployee
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to parse period_start: %w", err)
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return payroll.PayrollResponse{}, fmt.Errorf("failed to parse period_end: %w", err)
	}

	var created payroll.Payroll
	var coveredCount int
	for attempt := 0; ; attempt++ {
		covered, err := s.recordRepo.ListUnpaid(ctx, req.EmployeeID, periodStart, periodEnd)
		if err != nil {
			return payroll.PayrollResponse{}, fmt.Errorf("failed to select covered records: %w", err)
		}

		var regularHours, overtimeHours float64
		coveredIDs := make([]string, 0, len(covered))
		for _, rec := range covered {
			regularHours += rec.HoursWorked
			overtimeHours += rec.OvertimeHours
			coveredIDs = append(coveredIDs, rec.ID)
		}

		basicSalary := req.HourlyRate.Mul(decimal.NewFromFloat(regularHours)).Round(2)
		overtimePay := req.OvertimeRate.Mul(decimal.NewFromFloat(overtimeHours)).Round(2)
		grossPay := basicSalary.Add(overtimePay).Add(req.Allowances)
		tax := s.taxPolicy(grossPay)
		netSalary := grossPay.Sub(req.Deductions).Sub(tax)

		record := payroll.Payroll{
			EmployeeID:    req.EmployeeID,
			PeriodStart:   periodStart,
			PeriodEnd:     periodEnd,
			RegularHours:  regularHours,
			OvertimeHours: overtimeHours,
			BasicSalary:   basicSalary,
			OvertimePay:   overtimePay,
			Allowances:    req.Allowances,
			Deductions:    req.Deductions,
			Tax:           tax,
			NetSalary:     netSalary,
			PaymentMethod: req.PaymentMethod,
			Status:        payroll.StatusPending,
			Remarks:       req.Remarks,
		}

		created, err = s.payrollRepo.CreateWithSettlement(ctx, record, coveredIDs, periodEnd)
		if err != nil {
			if errors.Is(err, payroll.ErrConcurrentSettlement) && attempt < settlementRetries {
				continue
			}
			return payroll.PayrollResponse{}, err
		}
		coveredCount = len(coveredIDs)
		break
	}

	resp := mapToResponse(created)
	resp.CoveredCount = coveredCount
	return resp, nil
}

// Get implements payroll.Service.
func (s *PayrollServiceImpl) Get(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	return mapToResponse(record), nil
}

// List implements payroll.Service.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.Filter) (payroll.ListPayrollResponse, error) {
	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollResponse{}, err
	}

	data := make([]payroll.PayrollResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, mapToResponse(rec))
	}

	return payroll.ListPayrollResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements payroll.Service. Tax and net salary are recomputed from
// the adjusted amounts; settled hours are frozen.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRequest) (payroll.PayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResponse{}, err
	}

	record, err := s.payrollRepo.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.PayrollResponse{}, err
	}

	if req.Allowances != nil {
		record.Allowances = *req.Allowances
	}
	if req.Deductions != nil {
		record.Deductions = *req.Deductions
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = req.PaymentMethod
	}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}

	grossPay := record.GrossPay()
	record.Tax = s.taxPolicy(grossPay)
	record.NetSalary = grossPay.Sub(record.Deductions).Sub(record.Tax)

	if err := s.payrollRepo.Update(ctx, record); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, req.ID)
}

// MarkPaid implements payroll.Service.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if err := s.payrollRepo.MarkPaid(ctx, id, s.clock.Now()); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, id)
}

// Cancel implements payroll.Service. Cancelling does not un-settle the
// covered time records; reversing a settlement is a manual correction
// workflow.
func (s *PayrollServiceImpl) Cancel(ctx context.Context, id string) (payroll.PayrollResponse, error) {
	if err := s.payrollRepo.Cancel(ctx, id); err != nil {
		return payroll.PayrollResponse{}, err
	}

	return s.Get(ctx, id)
}

func mapToResponse(r payroll.Payroll) payroll.PayrollResponse {
	var paidAt *string
	if r.PaidAt != nil {
		str := r.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	return payroll.PayrollResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		PeriodStart:   r.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     r.PeriodEnd.Format("2006-01-02"),
		RegularHours:  r.RegularHours,
		OvertimeHours: r.OvertimeHours,
		BasicSalary:   r.BasicSalary,
		OvertimePay:   r.OvertimePay,
		Allowances:    r.Allowances,
		Deductions:    r.Deductions,
		GrossPay:      r.GrossPay(),
		Tax:           r.Tax,
		NetSalary:     r.NetSalary,
		PaymentMethod: r.PaymentMethod,
		Status:        string(r.Status),
		Remarks:       r.Remarks,
		PaidAt:        paidAt,
		NegativeNet:   r.NetSalary.IsNegative(),
	}
}
