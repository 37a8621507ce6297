// Package memory provides in-memory repository implementations
// (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
)

// Store holds all entities behind one mutex so cross-entity operations
// (settlement) stay atomic, mirroring the database transaction.
type Store struct {
	mu        sync.RWMutex
	records   map[string]timerecord.TimeRecord
	payrolls  map[string]payroll.Payroll
	employees map[string]employee.Employee
}

func NewStore() *Store {
	return &Store{
		records:   make(map[string]timerecord.TimeRecord),
		payrolls:  make(map[string]payroll.Payroll),
		employees: make(map[string]employee.Employee),
	}
}

func (s *Store) TimeRecords() timerecord.Repository {
	return &timeRecordStore{s: s}
}

func (s *Store) Payrolls() payroll.Repository {
	return &payrollStore{s: s}
}

func (s *Store) Employees() employee.Repository {
	return &employeeStore{s: s}
}

// AddEmployee seeds a directory entry.
func (s *Store) AddEmployee(emp employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	s.employees[emp.ID] = emp
}

// RemoveEmployee deletes a directory entry, leaving any time records that
// reference it dangling.
func (s *Store) RemoveEmployee(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.employees, id)
}

// ========================================
// TIME RECORDS
// ========================================

type timeRecordStore struct {
	s *Store
}

func (t *timeRecordStore) Create(_ context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	t.s.records[record.ID] = record
	return record, nil
}

func (t *timeRecordStore) GetByID(_ context.Context, id string) (timerecord.TimeRecord, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	rec, ok := t.s.records[id]
	if !ok {
		return timerecord.TimeRecord{}, timerecord.ErrRecordNotFound
	}
	return rec, nil
}

func (t *timeRecordStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*timerecord.TimeRecord, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, rec := range t.s.records {
		if rec.EmployeeID != nil && *rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (t *timeRecordStore) Update(_ context.Context, record timerecord.TimeRecord) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	existing, ok := t.s.records[record.ID]
	if !ok {
		return timerecord.ErrRecordNotFound
	}
	if existing.IsPaid {
		return timerecord.ErrRecordLocked
	}
	record.CreatedAt = existing.CreatedAt
	record.IsPaid = existing.IsPaid
	record.PayPeriod = existing.PayPeriod
	record.UpdatedAt = time.Now().UTC()
	t.s.records[record.ID] = record
	return nil
}

func (t *timeRecordStore) List(_ context.Context, filter timerecord.ListFilter) ([]timerecord.TimeRecord, int64, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var matched []timerecord.TimeRecord
	for _, rec := range t.s.records {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" {
			if rec.EmployeeID == nil || *rec.EmployeeID != *filter.EmployeeID {
				continue
			}
		}
		if filter.StartDate != nil && *filter.StartDate != "" {
			if timerecord.FormatDate(rec.Date) < *filter.StartDate {
				continue
			}
		}
		if filter.EndDate != nil && *filter.EndDate != "" {
			if timerecord.FormatDate(rec.Date) > *filter.EndDate {
				continue
			}
		}
		if filter.Status != nil && *filter.Status != "" && string(rec.Status) != *filter.Status {
			continue
		}
		if filter.IsPaid != nil && rec.IsPaid != *filter.IsPaid {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	total := int64(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (t *timeRecordStore) ListUnpaid(_ context.Context, employeeID string, periodStart, periodEnd time.Time) ([]timerecord.TimeRecord, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var matched []timerecord.TimeRecord
	for _, rec := range t.s.records {
		if rec.IsPaid || rec.EmployeeID == nil || *rec.EmployeeID != employeeID {
			continue
		}
		if rec.Date.Before(periodStart) || rec.Date.After(periodEnd) {
			continue
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched, nil
}

func (t *timeRecordStore) MarkPaid(_ context.Context, ids []string, payPeriod time.Time) ([]string, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.markPaidLocked(ids, payPeriod), nil
}

func (t *timeRecordStore) FindOrphans(_ context.Context) ([]timerecord.TimeRecord, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	var orphans []timerecord.TimeRecord
	for _, rec := range t.s.records {
		if rec.EmployeeID == nil {
			continue
		}
		if _, ok := t.s.employees[*rec.EmployeeID]; !ok {
			orphans = append(orphans, rec)
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].Date.Before(orphans[j].Date)
	})
	return orphans, nil
}

func (t *timeRecordStore) ClearEmployee(_ context.Context, id string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	rec, ok := t.s.records[id]
	if !ok {
		return timerecord.ErrRecordNotFound
	}
	rec.EmployeeID = nil
	rec.UpdatedAt = time.Now().UTC()
	t.s.records[id] = rec
	return nil
}

// markPaidLocked flips every still-unpaid id. Caller holds the write lock.
func (s *Store) markPaidLocked(ids []string, payPeriod time.Time) []string {
	var updated []string
	for _, id := range ids {
		rec, ok := s.records[id]
		if !ok || rec.IsPaid {
			continue
		}
		rec.IsPaid = true
		stamp := payPeriod
		rec.PayPeriod = &stamp
		rec.UpdatedAt = time.Now().UTC()
		s.records[id] = rec
		updated = append(updated, id)
	}
	return updated
}

// ========================================
// PAYROLLS
// ========================================

type payrollStore struct {
	s *Store
}

func (p *payrollStore) CreateWithSettlement(_ context.Context, record payroll.Payroll, coveredIDs []string, payPeriod time.Time) (payroll.Payroll, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	// Re-validate the covered set before writing anything (atomic check)
	for _, id := range coveredIDs {
		rec, ok := p.s.records[id]
		if !ok || rec.IsPaid {
			return payroll.Payroll{}, payroll.ErrConcurrentSettlement
		}
	}

	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()
	record.UpdatedAt = record.CreatedAt
	p.s.payrolls[record.ID] = record
	p.s.markPaidLocked(coveredIDs, payPeriod)
	return record, nil
}

func (p *payrollStore) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	rec, ok := p.s.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return rec, nil
}

func (p *payrollStore) List(_ context.Context, filter payroll.Filter) ([]payroll.Payroll, int64, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var matched []payroll.Payroll
	for _, rec := range p.s.payrolls {
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && *filter.Status != "" && string(rec.Status) != *filter.Status {
			continue
		}
		// period filters match any payroll whose range overlaps the query range
		if filter.PeriodStart != nil && *filter.PeriodStart != "" {
			if timerecord.FormatDate(rec.PeriodEnd) < *filter.PeriodStart {
				continue
			}
		}
		if filter.PeriodEnd != nil && *filter.PeriodEnd != "" {
			if timerecord.FormatDate(rec.PeriodStart) > *filter.PeriodEnd {
				continue
			}
		}
		matched = append(matched, rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PeriodStart.After(matched[j].PeriodStart)
	})

	total := int64(len(matched))
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (p *payrollStore) Update(_ context.Context, record payroll.Payroll) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	existing, ok := p.s.payrolls[record.ID]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if err := pendingOnly(existing); err != nil {
		return err
	}
	existing.Allowances = record.Allowances
	existing.Deductions = record.Deductions
	existing.Tax = record.Tax
	existing.NetSalary = record.NetSalary
	existing.PaymentMethod = record.PaymentMethod
	existing.Remarks = record.Remarks
	existing.UpdatedAt = time.Now().UTC()
	p.s.payrolls[record.ID] = existing
	return nil
}

func (p *payrollStore) MarkPaid(_ context.Context, id string, paidAt time.Time) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	rec, ok := p.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if err := pendingOnly(rec); err != nil {
		return err
	}
	rec.Status = payroll.StatusPaid
	rec.PaidAt = &paidAt
	rec.UpdatedAt = time.Now().UTC()
	p.s.payrolls[id] = rec
	return nil
}

func (p *payrollStore) Cancel(_ context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	rec, ok := p.s.payrolls[id]
	if !ok {
		return payroll.ErrPayrollNotFound
	}
	if err := pendingOnly(rec); err != nil {
		return err
	}
	rec.Status = payroll.StatusCancelled
	rec.UpdatedAt = time.Now().UTC()
	p.s.payrolls[id] = rec
	return nil
}

func pendingOnly(rec payroll.Payroll) error {
	switch rec.Status {
	case payroll.StatusPaid:
		return payroll.ErrPayrollAlreadyPaid
	case payroll.StatusCancelled:
		return payroll.ErrPayrollAlreadyCancelled
	default:
		return nil
	}
}

// ========================================
// EMPLOYEES
// ========================================

type employeeStore struct {
	s *Store
}

func (e *employeeStore) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	emp, ok := e.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (e *employeeStore) Exists(_ context.Context, id string) (bool, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()

	_, ok := e.s.employees[id]
	return ok, nil
}
