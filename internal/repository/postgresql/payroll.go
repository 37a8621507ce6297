package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	p.id, p.employee_id, p.period_start, p.period_end,
	p.regular_hours, p.overtime_hours,
	p.basic_salary, p.overtime_pay, p.allowances, p.deductions,
	p.tax, p.net_salary,
	p.payment_method, p.status, p.remarks, p.paid_at,
	p.created_at, p.updated_at`

func scanPayroll(row pgx.Row, withEmployeeName bool) (payroll.Payroll, error) {
	var rec payroll.Payroll
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.PeriodStart, &rec.PeriodEnd,
		&rec.RegularHours, &rec.OvertimeHours,
		&rec.BasicSalary, &rec.OvertimePay, &rec.Allowances, &rec.Deductions,
		&rec.Tax, &rec.NetSalary,
		&rec.PaymentMethod, &rec.Status, &rec.Remarks, &rec.PaidAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployeeName {
		dest = append(dest, &rec.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		return payroll.Payroll{}, err
	}
	return rec, nil
}

// CreateWithSettlement implements payroll.Repository. Selection is
// re-validated under FOR UPDATE inside the transaction, closing the race
// between a concurrent run observing the same unpaid rows.
func (r *payrollRepository) CreateWithSettlement(ctx context.Context, record payroll.Payroll, coveredIDs []string, payPeriod time.Time) (payroll.Payroll, error) {
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if len(coveredIDs) > 0 {
			// Postgres rejects FOR UPDATE on aggregates, so lock the rows
			// by id and count what came back.
			rows, err := q.Query(txCtx, `
				SELECT id
				FROM time_records
				WHERE id = ANY($1)
				  AND is_paid = false
				FOR UPDATE
			`, coveredIDs)
			if err != nil {
				return fmt.Errorf("failed to lock covered records: %w", err)
			}
			var stillUnpaid int
			for rows.Next() {
				var id string
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return fmt.Errorf("failed to lock covered records: %w", err)
				}
				stillUnpaid++
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return fmt.Errorf("failed to lock covered records: %w", err)
			}
			if stillUnpaid != len(coveredIDs) {
				return payroll.ErrConcurrentSettlement
			}
		}

		record.ID = uuid.NewString()
		err := q.QueryRow(txCtx, `
			INSERT INTO payrolls (
				id, employee_id, period_start, period_end,
				regular_hours, overtime_hours,
				basic_salary, overtime_pay, allowances, deductions,
				tax, net_salary,
				payment_method, status, remarks
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
			) RETURNING created_at, updated_at
		`,
			record.ID, record.EmployeeID, record.PeriodStart, record.PeriodEnd,
			record.RegularHours, record.OvertimeHours,
			record.BasicSalary, record.OvertimePay, record.Allowances, record.Deductions,
			record.Tax, record.NetSalary,
			record.PaymentMethod, record.Status, record.Remarks,
		).Scan(&record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create payroll record: %w", err)
		}

		if len(coveredIDs) > 0 {
			tag, err := q.Exec(txCtx, `
				UPDATE time_records
				SET is_paid = true, pay_period = $2, updated_at = NOW()
				WHERE id = ANY($1)
			`, coveredIDs, payPeriod)
			if err != nil {
				return fmt.Errorf("failed to settle covered records: %w", err)
			}
			if int(tag.RowsAffected()) != len(coveredIDs) {
				return payroll.ErrConcurrentSettlement
			}
		}

		return nil
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	return record, nil
}

// GetByID implements payroll.Repository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `,
			   e.full_name AS employee_name
		FROM payrolls p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	rec, err := scanPayroll(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll record by ID: %w", err)
	}

	return rec, nil
}

// List implements payroll.Repository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodStart != nil && *filter.PeriodStart != "" {
		baseWhere += fmt.Sprintf(" AND p.period_end >= $%d", argIdx)
		args = append(args, *filter.PeriodStart)
		argIdx++
	}
	if filter.PeriodEnd != nil && *filter.PeriodEnd != "" {
		baseWhere += fmt.Sprintf(" AND p.period_start <= $%d", argIdx)
		args = append(args, *filter.PeriodEnd)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM payrolls p WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
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
		SELECT ` + payrollColumns + `,
			   e.full_name AS employee_name
		FROM payrolls p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE ` + baseWhere + `
		ORDER BY p.period_start DESC, p.created_at DESC
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Payroll
	for rows.Next() {
		rec, err := scanPayroll(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read payroll records: %w", err)
	}

	return records, total, nil
}

// Update implements payroll.Repository. Only pending records are mutable.
func (r *payrollRepository) Update(ctx context.Context, record payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET allowances = $2, deductions = $3, tax = $4, net_salary = $5,
			payment_method = $6, remarks = $7, updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.Allowances,
		record.Deductions,
		record.Tax,
		record.NetSalary,
		record.PaymentMethod,
		record.Remarks,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.statusError(ctx, record.ID)
	}

	return nil
}

// MarkPaid implements payroll.Repository.
func (r *payrollRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payrolls
		SET status = 'paid', paid_at = $2, updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`, id, paidAt)
	if err != nil {
		return fmt.Errorf("failed to mark payroll record paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.statusError(ctx, id)
	}

	return nil
}

// Cancel implements payroll.Repository.
func (r *payrollRepository) Cancel(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payrolls
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to cancel payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.statusError(ctx, id)
	}

	return nil
}

// statusError explains why a pending-only write affected no rows.
func (r *payrollRepository) statusError(ctx context.Context, id string) error {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch rec.Status {
	case payroll.StatusPaid:
		return payroll.ErrPayrollAlreadyPaid
	case payroll.StatusCancelled:
		return payroll.ErrPayrollAlreadyCancelled
	default:
		return payroll.ErrPayrollNotFound
	}
}
