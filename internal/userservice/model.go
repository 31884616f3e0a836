package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("a user with this email address already exists")
)

const emailUniqueConstraint = "users_email_key"

// userStore is the persistence boundary of UserService.
type userStore interface {
	insert(ctx context.Context, u *User) error
	getByEmail(ctx context.Context, email string) (*User, error)
	getByID(ctx context.Context, id int) (*User, error)
}

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	args := []any{
		u.FirstName,
		u.LastName,
		u.Email,
		u.Password.hash,
		u.CreatedAt,
		u.UpdatedAt,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID)
	if err != nil {
		switch {
		case common.UniqueViolation(err, emailUniqueConstraint):
			return ErrDuplicateEmail
		default:
			return fmt.Errorf("insert user: %w", err)
		}
	}

	return nil
}

func (m *DBModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	return m.get(ctx, query, email)
}

func (m *DBModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	return m.get(ctx, query, id)
}

func (m *DBModel) get(ctx context.Context, query string, arg any) (*User, error) {
	var u User

	err := m.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password.hash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
