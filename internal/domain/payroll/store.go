package payroll

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreatePayrun(ctx context.Context, month, year int, generatedBy string) (Payrun, error) {
	run := Payrun{Month: month, Year: year, Status: RunStatusDraft, GeneratedBy: generatedBy}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payruns (month, year, generated_by)
    VALUES ($1,$2,$3)
    RETURNING id, created_at
  `, month, year, nullIfEmpty(generatedBy)).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Payrun{}, ErrDuplicateRun
		}
		return Payrun{}, err
	}
	return run, nil
}

func (s *Store) PayrunByID(ctx context.Context, id string) (Payrun, error) {
	var run Payrun
	var validatedBy *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, year, status, gross, net, employer_cost, failed_employees,
           COALESCE(generated_by::text, ''), validated_by::text, validated_at, created_at
    FROM payruns
    WHERE id = $1
  `, id).Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.Gross, &run.Net,
		&run.EmployerCost, &run.FailedEmployees, &run.GeneratedBy, &validatedBy, &run.ValidatedAt, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payrun{}, ErrRunNotFound
		}
		return Payrun{}, err
	}
	if validatedBy != nil {
		run.ValidatedBy = *validatedBy
	}
	return run, nil
}

func (s *Store) ListPayruns(ctx context.Context, limit int) ([]Payrun, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, month, year, status, gross, net, employer_cost, failed_employees,
           COALESCE(generated_by::text, ''), created_at
    FROM payruns
    ORDER BY year DESC, month DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Payrun
	for rows.Next() {
		var run Payrun
		if err := rows.Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.Gross, &run.Net,
			&run.EmployerCost, &run.FailedEmployees, &run.GeneratedBy, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *Store) FinishComputation(ctx context.Context, runID string, gross, net, employerCost float64, failed []string) error {
	if failed == nil {
		failed = []string{}
	}
	_, err := s.DB.Exec(ctx, `
    UPDATE payruns
    SET gross = $1, net = $2, employer_cost = $3, failed_employees = $4, status = $5
    WHERE id = $6
  `, gross, net, employerCost, failed, RunStatusComputed, runID)
	return err
}

func (s *Store) SetRunStatus(ctx context.Context, runID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payruns SET status = $1 WHERE id = $2", status, runID)
	return err
}

func (s *Store) MarkRunDone(ctx context.Context, runID, validatedBy string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payruns
    SET status = $1, validated_by = $2, validated_at = now()
    WHERE id = $3
  `, RunStatusDone, nullIfEmpty(validatedBy), runID)
	return err
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]ActiveEmployee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name, e.last_name, e.email, COALESCE(si.wage, 0)
    FROM employees e
    LEFT JOIN salary_info si ON si.employee_id = e.id
    WHERE e.is_active = TRUE
    ORDER BY e.first_name, e.last_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveEmployee
	for rows.Next() {
		var emp ActiveEmployee
		if err := rows.Scan(&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Wage); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, nil
}

func (s *Store) SalaryComponents(ctx context.Context, employeeID string) ([]SalaryComponent, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT name, component_type, percentage, amount, COALESCE(description, '')
    FROM salary_components
    WHERE salary_info_id = (SELECT id FROM salary_info WHERE employee_id = $1)
    ORDER BY name
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []SalaryComponent
	for rows.Next() {
		var comp SalaryComponent
		if err := rows.Scan(&comp.Name, &comp.Kind, &comp.Percentage, &comp.Amount, &comp.Description); err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	return components, nil
}

func (s *Store) PresentDays(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM attendance
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3 AND status = 'Present'
  `, employeeID, start, end).Scan(&count)
	return count, err
}

func (s *Store) ApprovedLeaveRanges(ctx context.Context, employeeID string, types []string, start, end time.Time) ([]DateRange, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT start_date, end_date
    FROM time_offs
    WHERE employee_id = $1
      AND status = 'Approved'
      AND time_off_type = ANY($2)
      AND start_date <= $4
      AND end_date >= $3
  `, employeeID, types, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranges []DateRange
	for rows.Next() {
		var r DateRange
		if err := rows.Scan(&r.Start, &r.End); err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func (s *Store) InsertPayslip(ctx context.Context, slip Payslip) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO payslips (
      payrun_id, employee_id, pay_period_start, pay_period_end,
      attendance_days, paid_time_off_days, unpaid_leave_days, total_payable_days,
      basic_wage, gross_wage, total_deductions, net_wage, employer_cost,
      status, generated_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
    RETURNING id
  `, slip.PayrunID, slip.EmployeeID, slip.PayPeriodStart, slip.PayPeriodEnd,
		slip.AttendanceDays, slip.PaidTimeOffDays, slip.UnpaidLeaveDays, slip.TotalPayableDays,
		slip.BasicWage, slip.GrossWage, slip.TotalDeductions, slip.NetWage, slip.EmployerCost,
		slip.Status, nullIfEmpty(slip.GeneratedBy)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrPayslipExists
		}
		return "", err
	}

	for _, earning := range slip.Earnings {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payslip_earnings (payslip_id, component, percentage, amount)
      VALUES ($1,$2,$3,$4)
    `, id, earning.Component, earning.Percentage, earning.Amount); err != nil {
			return "", err
		}
	}
	for _, deduction := range slip.Deductions {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payslip_deductions (payslip_id, component, percentage, amount)
      VALUES ($1,$2,$3,$4)
    `, id, deduction.Component, deduction.Percentage, deduction.Amount); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) PayslipByID(ctx context.Context, id string) (Payslip, error) {
	var slip Payslip
	err := s.DB.QueryRow(ctx, `
    SELECT p.id, p.payrun_id, p.employee_id, e.first_name || ' ' || e.last_name,
           p.pay_period_start, p.pay_period_end,
           p.attendance_days, p.paid_time_off_days, p.unpaid_leave_days, p.total_payable_days,
           p.basic_wage, p.gross_wage, p.total_deductions, p.net_wage, p.employer_cost,
           p.status, COALESCE(p.generated_by::text, ''), p.created_at
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.id = $1
  `, id).Scan(&slip.ID, &slip.PayrunID, &slip.EmployeeID, &slip.EmployeeName,
		&slip.PayPeriodStart, &slip.PayPeriodEnd,
		&slip.AttendanceDays, &slip.PaidTimeOffDays, &slip.UnpaidLeaveDays, &slip.TotalPayableDays,
		&slip.BasicWage, &slip.GrossWage, &slip.TotalDeductions, &slip.NetWage, &slip.EmployerCost,
		&slip.Status, &slip.GeneratedBy, &slip.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payslip{}, ErrPayslipNotFound
		}
		return Payslip{}, err
	}

	slip.Earnings, err = s.payslipLines(ctx, "payslip_earnings", id)
	if err != nil {
		return Payslip{}, err
	}
	slip.Deductions, err = s.payslipLines(ctx, "payslip_deductions", id)
	if err != nil {
		return Payslip{}, err
	}
	return slip, nil
}

func (s *Store) payslipLines(ctx context.Context, table, payslipID string) ([]ComponentResult, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT component, percentage, amount FROM "+table+" WHERE payslip_id = $1 ORDER BY component",
		payslipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []ComponentResult
	for rows.Next() {
		var line ComponentResult
		if err := rows.Scan(&line.Component, &line.Percentage, &line.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *Store) ListPayslipsByRun(ctx context.Context, runID string) ([]PayslipSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.employee_id, e.first_name, e.email, p.net_wage
    FROM payslips p
    JOIN employees e ON p.employee_id = e.id
    WHERE p.payrun_id = $1
    ORDER BY e.first_name, e.last_name
  `, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []PayslipSummary
	for rows.Next() {
		var slip PayslipSummary
		if err := rows.Scan(&slip.ID, &slip.EmployeeID, &slip.FirstName, &slip.Email, &slip.NetWage); err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, nil
}

func (s *Store) ListPayslipsByEmployee(ctx context.Context, employeeID string, limit int) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.payrun_id, p.employee_id, p.pay_period_start, p.pay_period_end,
           p.attendance_days, p.paid_time_off_days, p.unpaid_leave_days, p.total_payable_days,
           p.basic_wage, p.gross_wage, p.total_deductions, p.net_wage, p.employer_cost,
           p.status, p.created_at
    FROM payslips p
    JOIN payruns r ON p.payrun_id = r.id
    WHERE p.employee_id = $1
    ORDER BY r.year DESC, r.month DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []Payslip
	for rows.Next() {
		var slip Payslip
		if err := rows.Scan(&slip.ID, &slip.PayrunID, &slip.EmployeeID, &slip.PayPeriodStart, &slip.PayPeriodEnd,
			&slip.AttendanceDays, &slip.PaidTimeOffDays, &slip.UnpaidLeaveDays, &slip.TotalPayableDays,
			&slip.BasicWage, &slip.GrossWage, &slip.TotalDeductions, &slip.NetWage, &slip.EmployerCost,
			&slip.Status, &slip.CreatedAt); err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, nil
}

func (s *Store) SetPayslipStatus(ctx context.Context, payslipID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payslips SET status = $1 WHERE id = $2", status, payslipID)
	return err
}

func (s *Store) SetPayslipStatusByRun(ctx context.Context, runID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payslips SET status = $1 WHERE payrun_id = $2", status, runID)
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
