package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	DB *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{DB: pool}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// workHours is the check-in to check-out span in hours, rounded to two
// decimals the way it is stored.
func workHours(in, out time.Time) float64 {
	hours := out.Sub(in).Hours()
	if hours < 0 {
		return 0
	}
	return float64(int(hours*100+0.5)) / 100
}

// CheckIn opens today's attendance record. One record per employee per day;
// a second check-in the same day is rejected.
func (s *Service) CheckIn(ctx context.Context, employeeID string, now time.Time) (Record, error) {
	day := dayOf(now)

	var existing string
	err := s.DB.QueryRow(ctx, `
    SELECT id FROM attendance WHERE employee_id = $1 AND date = $2
  `, employeeID, day).Scan(&existing)
	if err == nil {
		return Record{}, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Record{}, err
	}

	rec := Record{EmployeeID: employeeID, Date: day, Status: StatusPresent, CheckIn: &now}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, status, check_in)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, employeeID, day, StatusPresent, now).Scan(&rec.ID)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// CheckOut closes today's record and stores the worked hours. It requires an
// open check-in and refuses a second check-out.
func (s *Service) CheckOut(ctx context.Context, employeeID string, now time.Time) (Record, error) {
	day := dayOf(now)

	var rec Record
	err := s.DB.QueryRow(ctx, `
    SELECT id, check_in, check_out
    FROM attendance
    WHERE employee_id = $1 AND date = $2
  `, employeeID, day).Scan(&rec.ID, &rec.CheckIn, &rec.CheckOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotCheckedIn
		}
		return Record{}, err
	}
	if rec.CheckIn == nil {
		return Record{}, ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return Record{}, ErrAlreadyCheckedOut
	}

	hours := workHours(*rec.CheckIn, now)
	_, err = s.DB.Exec(ctx, `
    UPDATE attendance SET check_out = $1, work_hours = $2 WHERE id = $3
  `, now, hours, rec.ID)
	if err != nil {
		return Record{}, err
	}

	rec.EmployeeID = employeeID
	rec.Date = day
	rec.Status = StatusPresent
	rec.CheckOut = &now
	rec.WorkHours = hours
	return rec, nil
}

// MonthlyRecords lists an employee's attendance for one month, oldest first.
func (s *Service) MonthlyRecords(ctx context.Context, employeeID string, month, year int) ([]Record, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, date, status, check_in, check_out, COALESCE(work_hours, 0)
    FROM attendance
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3
    ORDER BY date
  `, employeeID, first, last)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.Status,
			&rec.CheckIn, &rec.CheckOut, &rec.WorkHours); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// MonthlyStats aggregates present days, leave days and total worked hours for
// one employee-month.
func (s *Service) MonthlyStats(ctx context.Context, employeeID string, month, year int) (MonthlyStats, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var stats MonthlyStats
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FILTER (WHERE status = $4),
           COUNT(1) FILTER (WHERE status = $5),
           COALESCE(SUM(work_hours), 0)
    FROM attendance
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3
  `, employeeID, first, last, StatusPresent, StatusLeave).
		Scan(&stats.PresentDays, &stats.LeaveDays, &stats.TotalWorkHours)
	return stats, err
}
