package timeoff

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) InsertRequest(ctx context.Context, req Request) (Request, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_offs (employee_id, time_off_type, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, req.EmployeeID, req.Type, req.StartDate, req.EndDate, req.Days, req.Reason, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) RequestByID(ctx context.Context, id string) (Request, error) {
	var req Request
	var approvedBy *string
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.employee_id, e.first_name || ' ' || e.last_name, e.email,
           t.time_off_type, t.start_date, t.end_date, t.days,
           COALESCE(t.reason, ''), t.status, t.approved_by::text, t.approval_date,
           COALESCE(t.rejection_reason, ''), t.created_at
    FROM time_offs t
    JOIN employees e ON t.employee_id = e.id
    WHERE t.id = $1
  `, id).Scan(&req.ID, &req.EmployeeID, &req.EmployeeName, &req.EmployeeEmail,
		&req.Type, &req.StartDate, &req.EndDate, &req.Days,
		&req.Reason, &req.Status, &approvedBy, &req.ApprovalDate,
		&req.RejectionReason, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	if approvedBy != nil {
		req.ApprovedBy = *approvedBy
	}
	return req, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.employee_id, t.time_off_type, t.start_date, t.end_date, t.days,
           COALESCE(t.reason, ''), t.status, COALESCE(t.rejection_reason, ''), t.created_at
    FROM time_offs t
    WHERE t.employee_id = $1
    ORDER BY t.created_at DESC
    LIMIT $2
  `, employeeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows, false)
}

func (s *Store) ListByStatus(ctx context.Context, status string, limit int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.employee_id, e.first_name || ' ' || e.last_name,
           t.time_off_type, t.start_date, t.end_date, t.days,
           COALESCE(t.reason, ''), t.status, COALESCE(t.rejection_reason, ''), t.created_at
    FROM time_offs t
    JOIN employees e ON t.employee_id = e.id
    WHERE t.status = $1
    ORDER BY t.created_at
    LIMIT $2
  `, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows, true)
}

func scanRequests(rows pgx.Rows, withName bool) ([]Request, error) {
	var out []Request
	for rows.Next() {
		var req Request
		var err error
		if withName {
			err = rows.Scan(&req.ID, &req.EmployeeID, &req.EmployeeName,
				&req.Type, &req.StartDate, &req.EndDate, &req.Days,
				&req.Reason, &req.Status, &req.RejectionReason, &req.CreatedAt)
		} else {
			err = rows.Scan(&req.ID, &req.EmployeeID,
				&req.Type, &req.StartDate, &req.EndDate, &req.Days,
				&req.Reason, &req.Status, &req.RejectionReason, &req.CreatedAt)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (s *Store) DeletePending(ctx context.Context, id, employeeID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM time_offs
    WHERE id = $1 AND employee_id = $2 AND status = $3
  `, id, employeeID, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkApproved(ctx context.Context, id, approvedBy string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_offs
    SET status = $1, approved_by = $2, approval_date = now()
    WHERE id = $3 AND status = $4
  `, StatusApproved, approvedBy, id, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (s *Store) MarkRejected(ctx context.Context, id, rejectedBy, reason string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE time_offs
    SET status = $1, approved_by = $2, approval_date = now(), rejection_reason = $3
    WHERE id = $4 AND status = $5
  `, StatusRejected, rejectedBy, reason, id, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyProcessed
	}
	return nil
}

func (s *Store) Allocation(ctx context.Context, employeeID string) (Allocation, error) {
	var allocation Allocation
	err := s.DB.QueryRow(ctx, `
    SELECT paid_days_remaining, sick_days_remaining
    FROM salary_info
    WHERE employee_id = $1
  `, employeeID).Scan(&allocation.PaidDaysRemaining, &allocation.SickDaysRemaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Allocation{}, ErrNoAllocation
		}
		return Allocation{}, err
	}
	return allocation, nil
}

func balanceColumn(typ string) string {
	if typ == TypeSick {
		return "sick_days_remaining"
	}
	return "paid_days_remaining"
}

func (s *Store) DeductBalance(ctx context.Context, employeeID, typ string, days int) error {
	column := balanceColumn(typ)
	tag, err := s.DB.Exec(ctx, `
    UPDATE salary_info
    SET `+column+` = `+column+` - $1, updated_at = now()
    WHERE employee_id = $2 AND `+column+` >= $1
  `, days, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing salary record from an overdrawn ledger.
		if _, err := s.Allocation(ctx, employeeID); err != nil {
			return err
		}
		return ErrInsufficientBalance
	}
	return nil
}

func (s *Store) RestoreBalance(ctx context.Context, employeeID, typ string, days int) error {
	column := balanceColumn(typ)
	_, err := s.DB.Exec(ctx, `
    UPDATE salary_info
    SET `+column+` = `+column+` + $1, updated_at = now()
    WHERE employee_id = $2
  `, days, employeeID)
	return err
}

func (s *Store) MarkLeaveDays(ctx context.Context, employeeID string, dates []time.Time) error {
	for _, date := range dates {
		_, err := s.DB.Exec(ctx, `
      INSERT INTO attendance (employee_id, date, status)
      VALUES ($1, $2, 'On Leave')
      ON CONFLICT (employee_id, date) DO UPDATE SET status = 'On Leave'
    `, employeeID, date)
		if err != nil {
			return err
		}
	}
	return nil
}
