package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	EmployeeID   string
}

type Service struct {
	DB       *pgxpool.Pool
	Secret   string
	TokenTTL time.Duration
}

func NewService(pool *pgxpool.Pool, secret string, tokenTTL time.Duration) *Service {
	return &Service{DB: pool, Secret: secret, TokenTTL: tokenTTL}
}

// Login verifies the credentials and issues a signed token. A missing user and
// a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
	}, s.TokenTTL)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// Register creates a login for an existing employee record.
func (s *Service) Register(ctx context.Context, email, password, role, employeeID string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	user := User{Email: email, Role: role, EmployeeID: employeeID}
	var empID any
	if employeeID != "" {
		empID = employeeID
	}
	err = s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, email, hash, role, empID).Scan(&user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (User, error) {
	var user User
	var employeeID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, role, employee_id::text
    FROM users
    WHERE email = $1
  `, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &employeeID)
	if err != nil {
		return User{}, err
	}
	if employeeID != nil {
		user.EmployeeID = *employeeID
	}
	return user, nil
}
