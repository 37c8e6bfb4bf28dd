package repository

import (
	"context"
	"errors"

	"github.com/inhousecost/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRoleCategoryRepository is the PostgreSQL implementation of RoleCategoryRepository.
type PgRoleCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewPgRoleCategoryRepository creates a PgRoleCategoryRepository backed by the given pool.
func NewPgRoleCategoryRepository(pool *pgxpool.Pool) *PgRoleCategoryRepository {
	return &PgRoleCategoryRepository{pool: pool}
}

var _ RoleCategoryRepository = (*PgRoleCategoryRepository)(nil)

// List returns all role categories ordered by name.
func (r *PgRoleCategoryRepository) List(ctx context.Context) ([]*model.RoleCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, monthly_cost FROM role_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoleCategory
	for rows.Next() {
		var c model.RoleCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.MonthlyCost); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// GetByID fetches one role category.
func (r *PgRoleCategoryRepository) GetByID(ctx context.Context, id int) (*model.RoleCategory, error) {
	var c model.RoleCategory
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, monthly_cost FROM role_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.MonthlyCost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// NameExists checks for a case-insensitive name clash with any other category.
func (r *PgRoleCategoryRepository) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM role_categories WHERE lower(trim(name)) = lower(trim($1)) AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create inserts c and sets its id.
func (r *PgRoleCategoryRepository) Create(ctx context.Context, c *model.RoleCategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO role_categories (name, description, monthly_cost) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.Description, c.MonthlyCost,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Update overwrites name, description and monthly cost.
func (r *PgRoleCategoryRepository) Update(ctx context.Context, c *model.RoleCategory) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE role_categories SET name=$1, description=$2, monthly_cost=$3 WHERE id=$4`,
		c.Name, c.Description, c.MonthlyCost, c.ID,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a role category. Leads referencing it keep their
// denormalized name; the foreign key is set to NULL by the database.
func (r *PgRoleCategoryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM role_categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
