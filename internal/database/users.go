package database

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, full_name, hashed_password, role,
	is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, email, full_name, hashed_password, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username       string
	Email          string
	FullName       string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.FullName,
		arg.HashedPassword,
		arg.Role,
	)
	return scanUser(row)
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users WHERE is_active ORDER BY full_name ASC`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	return scanUser(row)
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	return scanUser(row)
}

const updateUser = `-- name: UpdateUser :one
UPDATE users SET
	username = $2,
	email = $3,
	full_name = $4,
	role = $5,
	updated_at = now()
WHERE id = $1 AND is_active
RETURNING ` + userColumns

type UpdateUserParams struct {
	ID       uuid.UUID
	Username string
	Email    string
	FullName string
	Role     string
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUser,
		arg.ID,
		arg.Username,
		arg.Email,
		arg.FullName,
		arg.Role,
	)
	return scanUser(row)
}

const updateUserPassword = `-- name: UpdateUserPassword :one
UPDATE users SET hashed_password = $2, updated_at = now()
WHERE id = $1 AND is_active
RETURNING ` + userColumns

type UpdateUserPasswordParams struct {
	ID             uuid.UUID
	HashedPassword string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserPassword, arg.ID, arg.HashedPassword)
	return scanUser(row)
}

const softDeleteUser = `-- name: SoftDeleteUser :one
UPDATE users SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active
RETURNING id`

func (q *Queries) SoftDeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteUser, id).Scan(&out)
	return out, err
}
