// AngelaMos | 2026
// repository.go

package business

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/marketplace-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id string) (*Business, error)
	List(ctx context.Context) ([]Business, error)
	Update(ctx context.Context, b *Business) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Business) error {
	query := `
		INSERT INTO businesses (id, name)
		VALUES ($1, $2)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &b.CreatedAt, query, b.ID, b.Name); err != nil {
		return core.StorageError("create business", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Business, error) {
	query := `SELECT id, name, created_at FROM businesses WHERE id = $1`

	var b Business
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get business: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	return &b, nil
}

func (r *repository) List(ctx context.Context) ([]Business, error) {
	query := `SELECT id, name, created_at FROM businesses ORDER BY created_at DESC`

	var businesses []Business
	if err := r.db.SelectContext(ctx, &businesses, query); err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	return businesses, nil
}

func (r *repository) Update(ctx context.Context, b *Business) error {
	query := `UPDATE businesses SET name = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, b.ID, b.Name)
	if err != nil {
		return core.StorageError("update business", err)
	}

	return core.RequireRow(result, "update business")
}

// Delete removes the business. Users and products go with it through the
// ON DELETE CASCADE foreign keys.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	return core.RequireRow(result, "delete business")
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM businesses WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check business exists: %w", err)
	}
	return exists, nil
}
