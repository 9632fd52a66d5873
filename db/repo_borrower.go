package db

import (
	"context"

	"Gin_postgres_redis_asset_lending/models"
)

func (r *Repo) FindBorrower(ctx context.Context, id string) (*models.Borrower, error) {
	if err := checkID("borrower", id); err != nil {
		return nil, err
	}
	var b models.Borrower
	if err := r.forUpdate(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "borrower", id)
	}
	return &b, nil
}

func (r *Repo) SaveBorrower(ctx context.Context, b *models.Borrower) error {
	return save(ctx, r.DB, &b.ID, b)
}

func (r *Repo) ListBorrowers(ctx context.Context, f models.BorrowerFilter) ([]models.Borrower, error) {
	q := r.DB.WithContext(ctx).Model(&models.Borrower{}).Order("created_at DESC")
	if f.Search != "" {
		pat := likePattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(class, '')) LIKE ?", pat, pat)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	var out []models.Borrower
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DeleteBorrower(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, &models.Borrower{}, "borrower", id)
}
