package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/royalcarriage/platform/internal/shared"
)

// Repository is the persistence contract for account management.
type Repository interface {
	List(ctx context.Context, organizationID string) ([]User, error)
	Get(ctx context.Context, id string) (*User, error)
	UpdateRole(ctx context.Context, id, role string) (*User, error)
	SetActive(ctx context.Context, id string, active bool) (*User, error)
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, email, COALESCE(display_name, ''), role, organization_id, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.OrganizationID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns users, restricted to one organization unless
// organizationID is empty.
func (r *PGRepository) List(ctx context.Context, organizationID string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email`
	args := []any{}
	if organizationID != "" {
		query = `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY email`
		args = append(args, organizationID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Get loads one user.
func (r *PGRepository) Get(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateRole changes a user's role.
func (r *PGRepository) UpdateRole(ctx context.Context, id, role string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, role)
	return scanUser(row)
}

// SetActive activates or deactivates a user.
func (r *PGRepository) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, active)
	return scanUser(row)
}
