package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/bitswalk/userd/src/common/errors"
	"github.com/bitswalk/userd/src/userd/users"
	"github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// UserRepository handles user record database operations
type UserRepository struct {
	q querier
}

// NewUserRepository creates a repository on the database connection
func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{q: db.DB()}
}

func newUserRepository(q querier) *UserRepository {
	return &UserRepository{q: q}
}

var _ users.Store = (*UserRepository)(nil)

const userColumns = `id, name, email, phone, active, created_at, updated_at`

// FindByID retrieves a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*users.Record, bool, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanOptional(row)
}

// FindByEmail retrieves a user by exact email match
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*users.Record, bool, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanOptional(row)
}

// FindAll retrieves every user ordered by ID
func (r *UserRepository) FindAll(ctx context.Context) ([]users.Record, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// FindByActive retrieves users with the given active flag ordered by ID
func (r *UserRepository) FindByActive(ctx context.Context, active bool) ([]users.Record, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE active = ? ORDER BY id ASC`, active)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// ExistsByID reports whether a user with the given ID exists
func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, errors.ErrDatabaseQuery.WithCause(err)
	}
	return exists, nil
}

// Save inserts a record with ID 0 and updates any other. The returned copy
// carries the assigned ID and timestamps.
func (r *UserRepository) Save(ctx context.Context, rec *users.Record) (*users.Record, error) {
	saved := *rec
	now := time.Now().UnixMilli()

	if saved.ID == 0 {
		saved.CreatedAt = now
		saved.UpdatedAt = now

		res, err := r.q.ExecContext(ctx, `
			INSERT INTO users (name, email, phone, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, saved.Name, saved.Email, saved.Phone, saved.Active, saved.CreatedAt, saved.UpdatedAt)
		if err != nil {
			return nil, translateWriteError(err, saved.Email)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}
		saved.ID = id
		return &saved, nil
	}

	saved.UpdatedAt = now
	res, err := r.q.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, phone = ?, active = ?, updated_at = ?
		WHERE id = ?
	`, saved.Name, saved.Email, saved.Phone, saved.Active, saved.UpdatedAt, saved.ID)
	if err != nil {
		return nil, translateWriteError(err, saved.Email)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	if affected == 0 {
		return nil, users.UserNotFound(saved.ID)
	}

	// created_at is owned by the row, not the caller
	if err := r.q.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, saved.ID).Scan(&saved.CreatedAt); err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	return &saved, nil
}

// DeleteByID removes a user. Deleting a missing ID is not an error here.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}
	return nil
}

// Count returns the number of stored users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, errors.ErrDatabaseQuery.WithCause(err)
	}
	return n, nil
}

// translateWriteError maps the email UNIQUE constraint to a duplicate email error
func translateWriteError(err error, email string) error {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return users.DuplicateEmail(email)
	}
	return errors.ErrDatabaseQuery.WithCause(err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*users.Record, error) {
	var rec users.Record
	if err := s.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Phone, &rec.Active, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanOptional(row *sql.Row) (*users.Record, bool, error) {
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.ErrDatabaseQuery.WithCause(err)
	}
	return rec, true, nil
}

func scanAll(rows *sql.Rows) ([]users.Record, error) {
	out := []users.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return out, nil
}
