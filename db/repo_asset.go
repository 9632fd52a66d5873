// db/repo_asset.go
package db

import (
	"context"

	"Gin_postgres_redis_asset_lending/models"
)

func (r *Repo) FindAsset(ctx context.Context, id string) (*models.Asset, error) {
	if err := checkID("asset", id); err != nil {
		return nil, err
	}
	var a models.Asset
	if err := r.forUpdate(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "asset", id)
	}
	return &a, nil
}

func (r *Repo) SaveAsset(ctx context.Context, a *models.Asset) error {
	return save(ctx, r.DB, &a.ID, a)
}

func (r *Repo) ListAssets(ctx context.Context, f models.AssetFilter) ([]models.Asset, error) {
	q := r.DB.WithContext(ctx).Model(&models.Asset{}).Order("created_at DESC")
	if f.Search != "" {
		pat := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", pat, pat)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	var out []models.Asset
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteAsset(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, &models.Asset{}, "asset", id)
}
