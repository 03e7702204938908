package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/payroll"
)

type Service struct {
	DB *pgxpool.Pool
	// Defaults seeded into a fresh salary record's leave allocation.
	PaidLeaveDays int
	SickLeaveDays int
}

func NewService(pool *pgxpool.Pool, paidLeaveDays, sickLeaveDays int) *Service {
	return &Service{DB: pool, PaidLeaveDays: paidLeaveDays, SickLeaveDays: sickLeaveDays}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Service) Create(ctx context.Context, emp Employee) (Employee, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, department, designation, joining_date)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, is_active, created_at
  `, emp.FirstName, emp.LastName, emp.Email, emp.Department, emp.Designation, emp.JoiningDate).
		Scan(&emp.ID, &emp.IsActive, &emp.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Employee{}, ErrDuplicateEmail
		}
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.first_name, e.last_name, e.email,
           COALESCE(e.department, ''), COALESCE(e.designation, ''), e.joining_date,
           e.is_active, COALESCE(si.wage, 0), e.created_at
    FROM employees e
    LEFT JOIN salary_info si ON si.employee_id = e.id
    WHERE e.id = $1
  `, id).Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Department, &emp.Designation, &emp.JoiningDate,
		&emp.IsActive, &emp.Wage, &emp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name, e.last_name, e.email,
           COALESCE(e.department, ''), COALESCE(e.designation, ''), e.joining_date,
           e.is_active, COALESCE(si.wage, 0), e.created_at
    FROM employees e
    LEFT JOIN salary_info si ON si.employee_id = e.id
    WHERE e.is_active = TRUE
    ORDER BY e.first_name, e.last_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email,
			&emp.Department, &emp.Designation, &emp.JoiningDate,
			&emp.IsActive, &emp.Wage, &emp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET is_active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetWage upserts the employee's salary record and rebuilds the stored
// component set for the new wage in one transaction. A fresh record seeds the
// annual leave allocation; changing the wage later never resets it.
func (s *Service) SetWage(ctx context.Context, employeeID string, wage float64) error {
	components, err := payroll.BuildSalaryComponents(wage)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var salaryInfoID string
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_info (employee_id, wage, paid_days_remaining, sick_days_remaining)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (employee_id) DO UPDATE SET wage = EXCLUDED.wage, updated_at = now()
    RETURNING id
  `, employeeID, wage, s.PaidLeaveDays, s.SickLeaveDays).Scan(&salaryInfoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("salary upsert: %w", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM salary_components WHERE salary_info_id = $1", salaryInfoID); err != nil {
		return err
	}
	for _, comp := range components {
		if _, err := tx.Exec(ctx, `
      INSERT INTO salary_components (salary_info_id, name, component_type, percentage, amount, description)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, salaryInfoID, comp.Name, comp.Kind, comp.Percentage, comp.Amount, comp.Description); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ResetLeaveAllocations restores every employee's leave balance to the
// configured annual allocation, typically at the start of a leave year.
func (s *Service) ResetLeaveAllocations(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_info SET paid_days_remaining = $1, sick_days_remaining = $2, updated_at = now()
  `, s.PaidLeaveDays, s.SickLeaveDays)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
