// Package audit implements the integrity auditor: detection and repair of
// time records whose employee reference no longer resolves. Detection and
// repair are separate calls so an operator can review the report before
// committing to the repair.
package audit

import (
	"context"
	"fmt"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
)

// OrphanedRecord is one report row: a time record pointing at an employee
// the directory no longer knows.
type OrphanedRecord struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	HoursWorked   float64 `json:"hours_worked"`
	OvertimeHours float64 `json:"overtime_hours"`
	IsPaid        bool    `json:"is_paid"`
}

type RepairResult struct {
	Repaired int `json:"repaired"`
}

type Service interface {
	// FindOrphans reports every record whose non-null employee reference
	// fails to resolve. Intentionally unattached records (null employee_id)
	// are not orphans and never appear here.
	FindOrphans(ctx context.Context) ([]OrphanedRecord, error)

	// Repair nulls the employee reference on the given records, touching
	// nothing else. An empty id list repairs every current orphan.
	Repair(ctx context.Context, ids []string) (RepairResult, error)
}

type AuditServiceImpl struct {
	recordRepo timerecord.Repository
}

func NewAuditService(recordRepo timerecord.Repository) Service {
	return &AuditServiceImpl{recordRepo: recordRepo}
}

// FindOrphans implements Service. Read-only, lock-free.
func (s *AuditServiceImpl) FindOrphans(ctx context.Context) ([]OrphanedRecord, error) {
	records, err := s.recordRepo.FindOrphans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find orphaned records: %w", err)
	}

	report := make([]OrphanedRecord, 0, len(records))
	for _, rec := range records {
		employeeID := ""
		if rec.EmployeeID != nil {
			employeeID = *rec.EmployeeID
		}
		report = append(report, OrphanedRecord{
			ID:            rec.ID,
			EmployeeID:    employeeID,
			Date:          rec.Date.Format("2006-01-02"),
			Status:        string(rec.Status),
			HoursWorked:   rec.HoursWorked,
			OvertimeHours: rec.OvertimeHours,
			IsPaid:        rec.IsPaid,
		})
	}

	return report, nil
}

// Repair implements Service. Each record is repaired with its own atomic
// update; repairs only touch employee_id, a field payroll never mutates, so
// they can run alongside payroll operations.
func (s *AuditServiceImpl) Repair(ctx context.Context, ids []string) (RepairResult, error) {
	if len(ids) == 0 {
		orphans, err := s.FindOrphans(ctx)
		if err != nil {
			return RepairResult{}, err
		}
		for _, o := range orphans {
			ids = append(ids, o.ID)
		}
	}

	repaired := 0
	for _, id := range ids {
		if err := s.recordRepo.ClearEmployee(ctx, id); err != nil {
			return RepairResult{Repaired: repaired}, fmt.Errorf("failed to repair record %s: %w", id, err)
		}
		repaired++
	}

	return RepairResult{Repaired: repaired}, nil
}
