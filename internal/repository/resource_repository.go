package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/access-control-api/internal/domain"
)

// ResourceRepository defines persistence access for protected resources.
type ResourceRepository interface {
	ListByTier(ctx context.Context, tier domain.ResourceTier) ([]domain.Resource, error)
}

type resourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository returns a Postgres-backed implementation.
func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

func (r *resourceRepository) ListByTier(ctx context.Context, tier domain.ResourceTier) ([]domain.Resource, error) {
	const query = `
        SELECT id, name, description, tier, created_at
        FROM resources WHERE tier=$1
        ORDER BY name`

	rows, err := r.pool.Query(ctx, query, tier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.Description, &res.Tier, &res.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}
