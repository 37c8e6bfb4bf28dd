package repository

import (
	"context"
	"time"

	"github.com/inhousecost/backend/internal/model"
)

// DB is the liveness check used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// CostRateRepository persists per-state employer cost rates.
type CostRateRepository interface {
	// List returns every row ordered by state, category, item.
	List(ctx context.Context) ([]*model.CostRate, error)
	// ListByState returns the rows whose state matches exactly.
	ListByState(ctx context.Context, state string) ([]*model.CostRate, error)
	GetByID(ctx context.Context, id string) (*model.CostRate, error)
	Create(ctx context.Context, rate *model.CostRate) error
	Update(ctx context.Context, rate *model.CostRate) error
	Delete(ctx context.Context, id string) error
	// BulkUpsert writes rows keyed by (state, category, item) inside one
	// transaction. A failing row is recorded in the summary and does not stop
	// the remaining rows.
	BulkUpsert(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error)
}

// RoleCategoryRepository persists role categories.
type RoleCategoryRepository interface {
	List(ctx context.Context) ([]*model.RoleCategory, error)
	GetByID(ctx context.Context, id int) (*model.RoleCategory, error)
	// NameExists reports whether another category (id != excludeID) has the
	// same name, compared case-insensitively after trimming.
	NameExists(ctx context.Context, name string, excludeID int) (bool, error)
	Create(ctx context.Context, c *model.RoleCategory) error
	Update(ctx context.Context, c *model.RoleCategory) error
	Delete(ctx context.Context, id int) error
}

// LeadRepository persists calculator leads.
type LeadRepository interface {
	// Create returns ErrReferenceMissing when lead.RoleCategoryID no longer exists.
	Create(ctx context.Context, lead *model.Lead) error
	MarkEmailSent(ctx context.Context, id string, at time.Time) error
	// List returns all leads, newest first.
	List(ctx context.Context) ([]*model.Lead, error)
	// DeleteUser removes the lead with id and every other lead sharing its
	// email. It returns the number of rows removed.
	DeleteUser(ctx context.Context, id string) (int, error)
}
