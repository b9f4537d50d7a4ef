package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"salondesk/backend/internal/domain"
	"salondesk/backend/internal/store"
)

type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) GetShop(ctx context.Context, shopID string) (domain.Shop, error) {
	var shop domain.Shop
	err := r.db.NewSelect().
		Model(&shop).
		Where("id = ?", shopID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Shop{}, store.ErrNotFound
		}
		return domain.Shop{}, err
	}
	return shop, nil
}

func (r *CatalogRepo) ListTeamMembers(ctx context.Context, shopID string) ([]domain.TeamMember, error) {
	var rows []domain.TeamMember
	err := r.db.NewSelect().
		Model(&rows).
		Where("shop_id = ?", shopID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context, shopID string) ([]domain.Service, error) {
	var rows []domain.Service
	err := r.db.NewSelect().
		Model(&rows).
		Where("shop_id = ?", shopID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CatalogRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
