package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/inhousecost/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgCostRateRepository is the PostgreSQL implementation of CostRateRepository.
type PgCostRateRepository struct {
	pool *pgxpool.Pool
}

// NewPgCostRateRepository creates a PgCostRateRepository backed by the given pool.
func NewPgCostRateRepository(pool *pgxpool.Pool) *PgCostRateRepository {
	return &PgCostRateRepository{pool: pool}
}

var _ CostRateRepository = (*PgCostRateRepository)(nil)

const costRateColumns = `id, state, category, item, rate_percent, employer_cost_usd, notes, source, created_at, updated_at`

func scanCostRate(row pgx.Row) (*model.CostRate, error) {
	var c model.CostRate
	err := row.Scan(&c.ID, &c.State, &c.Category, &c.Item, &c.RatePercent, &c.EmployerCostUSD,
		&c.Notes, &c.Source, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgCostRateRepository) query(ctx context.Context, sql string, args ...any) ([]*model.CostRate, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*model.CostRate
	for rows.Next() {
		c, err := scanCostRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, c)
	}
	return rates, rows.Err()
}

// List returns all cost rates ordered by state, category, item.
func (r *PgCostRateRepository) List(ctx context.Context) ([]*model.CostRate, error) {
	return r.query(ctx, `SELECT `+costRateColumns+` FROM cost_rates ORDER BY state, category, item`)
}

// ListByState returns the cost rates for one state.
func (r *PgCostRateRepository) ListByState(ctx context.Context, state string) ([]*model.CostRate, error) {
	return r.query(ctx, `SELECT `+costRateColumns+` FROM cost_rates WHERE state = $1 ORDER BY category, item`, state)
}

// GetByID fetches a single cost rate.
func (r *PgCostRateRepository) GetByID(ctx context.Context, id string) (*model.CostRate, error) {
	c, err := scanCostRate(r.pool.QueryRow(ctx, `SELECT `+costRateColumns+` FROM cost_rates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Create inserts rate and fills in its id and timestamps.
func (r *PgCostRateRepository) Create(ctx context.Context, rate *model.CostRate) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO cost_rates (state, category, item, rate_percent, employer_cost_usd, notes, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		rate.State, rate.Category, rate.Item, rate.RatePercent, rate.EmployerCostUSD, rate.Notes, rate.Source,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
}

// Update overwrites every writable column of rate.
func (r *PgCostRateRepository) Update(ctx context.Context, rate *model.CostRate) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE cost_rates
		 SET state=$1, category=$2, item=$3, rate_percent=$4, employer_cost_usd=$5, notes=$6, source=$7, updated_at=NOW()
		 WHERE id=$8
		 RETURNING created_at, updated_at`,
		rate.State, rate.Category, rate.Item, rate.RatePercent, rate.EmployerCostUSD, rate.Notes, rate.Source, rate.ID,
	).Scan(&rate.CreatedAt, &rate.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a cost rate.
func (r *PgCostRateRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_rates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpsert matches rows on (state, category, item): existing rows get new
// rate, cost, notes and source; the rest are inserted. Each row runs in its
// own savepoint so a failure rolls back only that row.
func (r *PgCostRateRepository) BulkUpsert(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	summary := &model.UpsertSummary{TotalRows: len(rows)}
	for _, row := range rows {
		created, err := upsertCostRate(ctx, tx, row)
		if err != nil {
			summary.Errors = append(summary.Errors,
				fmt.Sprintf("Failed to process row: %s - %s - %s", row.State, row.Category, row.Item))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

func upsertCostRate(ctx context.Context, tx pgx.Tx, row model.CostRateInput) (created bool, err error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer sp.Rollback(ctx)

	var id string
	err = sp.QueryRow(ctx,
		`SELECT id FROM cost_rates WHERE state=$1 AND category=$2 AND item=$3 ORDER BY created_at LIMIT 1`,
		row.State, row.Category, row.Item,
	).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = sp.Exec(ctx,
			`INSERT INTO cost_rates (state, category, item, rate_percent, employer_cost_usd, notes, source)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.State, row.Category, row.Item, row.RatePercent, row.EmployerCostUSD, row.Notes, row.Source,
		)
		created = true
	case err == nil:
		_, err = sp.Exec(ctx,
			`UPDATE cost_rates SET rate_percent=$1, employer_cost_usd=$2, notes=$3, source=$4, updated_at=NOW()
			 WHERE id=$5`,
			row.RatePercent, row.EmployerCostUSD, row.Notes, row.Source, id,
		)
	}
	if err != nil {
		return false, err
	}
	return created, sp.Commit(ctx)
}
