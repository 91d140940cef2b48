// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Repository interface {
	MarketplaceStats(ctx context.Context) (*MarketplaceStats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

type countRow struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

func (r *repository) MarketplaceStats(ctx context.Context) (*MarketplaceStats, error) {
	stats := &MarketplaceStats{
		ProductsByStatus: map[string]int64{},
		UsersByRole:      map[string]int64{},
	}

	var byStatus []countRow
	err := r.db.SelectContext(ctx, &byStatus,
		`SELECT status AS key, COUNT(*) AS count FROM products GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	for _, row := range byStatus {
		stats.ProductsByStatus[row.Key] = row.Count
		stats.Products += row.Count
	}

	var byRole []countRow
	err = r.db.SelectContext(ctx, &byRole,
		`SELECT role AS key, COUNT(*) AS count FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	for _, row := range byRole {
		stats.UsersByRole[row.Key] = row.Count
		stats.Users += row.Count
	}

	if err := r.db.GetContext(ctx, &stats.Businesses,
		`SELECT COUNT(*) FROM businesses`); err != nil {
		return nil, fmt.Errorf("count businesses: %w", err)
	}

	if err := r.db.GetContext(ctx, &stats.ChatMessages,
		`SELECT COUNT(*) FROM chat_messages`); err != nil {
		return nil, fmt.Errorf("count chat messages: %w", err)
	}

	query := `
		SELECT b.id, b.name, COUNT(p.id) AS products,
		       COUNT(p.id) FILTER (WHERE p.status = 'approved') AS approved
		FROM businesses b
		LEFT JOIN products p ON p.business_id = b.id
		GROUP BY b.id, b.name
		ORDER BY products DESC, b.name
		LIMIT 10`

	stats.TopBusinesses = []BusinessStats{}
	if err := r.db.SelectContext(ctx, &stats.TopBusinesses, query); err != nil {
		return nil, fmt.Errorf("top businesses: %w", err)
	}

	return stats, nil
}
