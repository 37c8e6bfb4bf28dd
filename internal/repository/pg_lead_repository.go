package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/inhousecost/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgLeadRepository is the PostgreSQL implementation of LeadRepository.
type PgLeadRepository struct {
	pool *pgxpool.Pool
}

// NewPgLeadRepository creates a PgLeadRepository backed by the given pool.
func NewPgLeadRepository(pool *pgxpool.Pool) *PgLeadRepository {
	return &PgLeadRepository{pool: pool}
}

var _ LeadRepository = (*PgLeadRepository)(nil)

// Create inserts lead. lead.ID must already be set. A role category that was
// deleted in the meantime yields ErrReferenceMissing.
func (r *PgLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	inclusions, err := json.Marshal(lead.Inclusions)
	if err != nil {
		return fmt.Errorf("encode inclusions: %w", err)
	}
	breakdown, err := json.Marshal(lead.CostBreakdown)
	if err != nil {
		return fmt.Errorf("encode cost breakdown: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO leads (id, company_name, email, state, base_salary, fte_count,
		   role_category_id, role_category_name, total_employer_load, employer_extras,
		   in_house_total_cost, lsg_cost, annual_savings_percentage, inclusions, cost_breakdown,
		   created_at, email_sent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, FALSE)`,
		lead.ID, lead.CompanyName, lead.Email, lead.State, lead.BaseSalary, lead.FTECount,
		lead.RoleCategoryID, lead.RoleCategoryName, lead.TotalEmployerLoad, lead.EmployerExtras,
		lead.InHouseTotalCost, lead.LSGCost, lead.AnnualSavingsPercentage, inclusions, breakdown,
		lead.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return ErrReferenceMissing
	}
	return err
}

// MarkEmailSent records a successful notification.
func (r *PgLeadRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE leads SET email_sent=TRUE, email_sent_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all leads, newest first.
func (r *PgLeadRepository) List(ctx context.Context) ([]*model.Lead, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_name, email, state, base_salary, fte_count, role_category_id,
		   role_category_name, total_employer_load, employer_extras, in_house_total_cost, lsg_cost,
		   annual_savings_percentage, inclusions, cost_breakdown, created_at, email_sent, email_sent_at
		 FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*model.Lead
	for rows.Next() {
		var (
			l                     model.Lead
			inclusions, breakdown []byte
		)
		if err := rows.Scan(&l.ID, &l.CompanyName, &l.Email, &l.State, &l.BaseSalary, &l.FTECount,
			&l.RoleCategoryID, &l.RoleCategoryName, &l.TotalEmployerLoad, &l.EmployerExtras,
			&l.InHouseTotalCost, &l.LSGCost, &l.AnnualSavingsPercentage, &inclusions, &breakdown,
			&l.CreatedAt, &l.EmailSent, &l.EmailSentAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(inclusions, &l.Inclusions); err != nil {
			return nil, fmt.Errorf("decode inclusions for lead %s: %w", l.ID, err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &l.CostBreakdown); err != nil {
				return nil, fmt.Errorf("decode cost breakdown for lead %s: %w", l.ID, err)
			}
		}
		leads = append(leads, &l)
	}
	return leads, rows.Err()
}

// DeleteUser removes every lead that shares the email of lead id.
func (r *PgLeadRepository) DeleteUser(ctx context.Context, id string) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var email string
	err = tx.QueryRow(ctx, `SELECT email FROM leads WHERE id=$1`, id).Scan(&email)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM leads WHERE email=$1`, email)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
