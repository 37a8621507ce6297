package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/database"
)

type timeRecordRepository struct {
	db *database.DB
}

func NewTimeRecordRepository(db *database.DB) timerecord.Repository {
	return &timeRecordRepository{db: db}
}

const timeRecordColumns = `
	tr.id, tr.employee_id, tr.date,
	tr.time_in, tr.time_out, tr.lunch_start, tr.lunch_end,
	tr.overtime_start, tr.overtime_end,
	tr.status, tr.leave_type, tr.remarks,
	tr.hours_worked, tr.overtime_hours,
	tr.is_paid, tr.pay_period,
	tr.created_at, tr.updated_at`

func scanTimeRecord(row pgx.Row, withEmployeeName bool) (timerecord.TimeRecord, error) {
	var rec timerecord.TimeRecord
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.Date,
		&rec.TimeIn, &rec.TimeOut, &rec.LunchStart, &rec.LunchEnd,
		&rec.OvertimeStart, &rec.OvertimeEnd,
		&rec.Status, &rec.LeaveType, &rec.Remarks,
		&rec.HoursWorked, &rec.OvertimeHours,
		&rec.IsPaid, &rec.PayPeriod,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &rec.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		return timerecord.TimeRecord{}, err
	}
	return rec, nil
}

// Create implements timerecord.Repository.
func (r *timeRecordRepository) Create(ctx context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	record.ID = uuid.NewString()
	query := `
		INSERT INTO time_records (
			id, employee_id, date,
			time_in, time_out, lunch_start, lunch_end,
			overtime_start, overtime_end,
			status, leave_type, remarks,
			hours_worked, overtime_hours, is_paid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, false
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.TimeIn,
		record.TimeOut,
		record.LunchStart,
		record.LunchEnd,
		record.OvertimeStart,
		record.OvertimeEnd,
		record.Status,
		record.LeaveType,
		record.Remarks,
		record.HoursWorked,
		record.OvertimeHours,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return timerecord.TimeRecord{}, fmt.Errorf("failed to create time record: %w", err)
	}

	return record, nil
}

// GetByID implements timerecord.Repository.
func (r *timeRecordRepository) GetByID(ctx context.Context, id string) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeRecordColumns + `,
			   e.full_name AS employee_name
		FROM time_records tr
		LEFT JOIN employees e ON e.id = tr.employee_id
		WHERE tr.id = $1
	`

	rec, err := scanTimeRecord(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timerecord.TimeRecord{}, timerecord.ErrRecordNotFound
		}
		return timerecord.TimeRecord{}, fmt.Errorf("failed to get time record by ID: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements timerecord.Repository.
func (r *timeRecordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeRecordColumns + `
		FROM time_records tr
		WHERE tr.employee_id = $1
		  AND tr.date = $2
		LIMIT 1
	`

	rec, err := scanTimeRecord(q.QueryRow(ctx, query, employeeID, date), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get time record by employee and date: %w", err)
	}

	return &rec, nil
}

// Update implements timerecord.Repository. The is_paid guard lives in the
// statement itself so a settlement landing after the service's read still
// cannot rewrite a settled record.
func (r *timeRecordRepository) Update(ctx context.Context, record timerecord.TimeRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_records
		SET time_in = $2, time_out = $3, lunch_start = $4, lunch_end = $5,
			overtime_start = $6, overtime_end = $7,
			status = $8, leave_type = $9, remarks = $10,
			hours_worked = $11, overtime_hours = $12,
			updated_at = NOW()
		WHERE id = $1
		  AND is_paid = false
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.TimeIn,
		record.TimeOut,
		record.LunchStart,
		record.LunchEnd,
		record.OvertimeStart,
		record.OvertimeEnd,
		record.Status,
		record.LeaveType,
		record.Remarks,
		record.HoursWorked,
		record.OvertimeHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update time record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, record.ID)
		if err != nil {
			return err
		}
		if existing.IsPaid {
			return timerecord.ErrRecordLocked
		}
		return timerecord.ErrRecordNotFound
	}

	return nil
}

// List implements timerecord.Repository.
func (r *timeRecordRepository) List(ctx context.Context, filter timerecord.ListFilter) ([]timerecord.TimeRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND tr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND tr.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND tr.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND tr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsPaid != nil {
		baseWhere += fmt.Sprintf(" AND tr.is_paid = $%d", argIdx)
		args = append(args, *filter.IsPaid)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM time_records tr WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count time records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT ` + timeRecordColumns + `,
			   e.full_name AS employee_name
		FROM time_records tr
		LEFT JOIN employees e ON e.id = tr.employee_id
		WHERE ` + baseWhere + `
		ORDER BY tr.date DESC, tr.created_at DESC
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list time records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan time record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read time records: %w", err)
	}

	return records, total, nil
}

// ListUnpaid implements timerecord.Repository.
func (r *timeRecordRepository) ListUnpaid(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) ([]timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeRecordColumns + `
		FROM time_records tr
		WHERE tr.employee_id = $1
		  AND tr.date BETWEEN $2 AND $3
		  AND tr.is_paid = false
		ORDER BY tr.date
	`

	rows, err := q.Query(ctx, query, employeeID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid time records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unpaid time record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read unpaid time records: %w", err)
	}

	return records, nil
}

// MarkPaid implements timerecord.Repository. A single UPDATE keeps the check
// and the flip atomic: rows already paid or missing simply fall out of the
// affected set.
func (r *timeRecordRepository) MarkPaid(ctx context.Context, ids []string, payPeriod time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_records
		SET is_paid = true, pay_period = $2, updated_at = NOW()
		WHERE id = ANY($1)
		  AND is_paid = false
		RETURNING id
	`

	rows, err := q.Query(ctx, query, ids, payPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to mark time records paid: %w", err)
	}
	defer rows.Close()

	var updated []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan settled id: %w", err)
		}
		updated = append(updated, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settled ids: %w", err)
	}

	return updated, nil
}

// FindOrphans implements timerecord.Repository. Records with a null
// employee_id are intentionally unattached and excluded.
func (r *timeRecordRepository) FindOrphans(ctx context.Context) ([]timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeRecordColumns + `
		FROM time_records tr
		LEFT JOIN employees e ON e.id = tr.employee_id
		WHERE tr.employee_id IS NOT NULL
		  AND e.id IS NULL
		ORDER BY tr.date
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find orphaned time records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		rec, err := scanTimeRecord(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan orphaned time record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orphaned time records: %w", err)
	}

	return records, nil
}

// ClearEmployee implements timerecord.Repository.
func (r *timeRecordRepository) ClearEmployee(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_records
		SET employee_id = NULL, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear employee reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timerecord.ErrRecordNotFound
	}

	return nil
}
