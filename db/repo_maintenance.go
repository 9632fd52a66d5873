package db

import (
	"context"

	"Gin_postgres_redis_asset_lending/models"
)

func (r *Repo) FindMaintenance(ctx context.Context, id string) (*models.Maintenance, error) {
	if err := checkID("maintenance", id); err != nil {
		return nil, err
	}
	var m models.Maintenance
	if err := r.forUpdate(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "maintenance", id)
	}
	return &m, nil
}

func (r *Repo) SaveMaintenance(ctx context.Context, m *models.Maintenance) error {
	return save(ctx, r.DB, &m.ID, m)
}

func (r *Repo) ListMaintenance(ctx context.Context, f models.MaintenanceFilter) ([]models.Maintenance, error) {
	if checkID("asset", orNil(f.AssetID)) != nil {
		return []models.Maintenance{}, nil
	}
	q := r.DB.WithContext(ctx).Model(&models.Maintenance{}).Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.AssetID != "" {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	var out []models.Maintenance
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteMaintenance(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, &models.Maintenance{}, "maintenance", id)
}
