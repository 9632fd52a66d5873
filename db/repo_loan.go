package db

import (
	"context"

	"Gin_postgres_redis_asset_lending/models"
)

// FindLoan 在事务内会 SELECT ... FOR UPDATE，防止并发重复归还
func (r *Repo) FindLoan(ctx context.Context, id string) (*models.Loan, error) {
	if err := checkID("loan", id); err != nil {
		return nil, err
	}
	var l models.Loan
	if err := r.forUpdate(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "loan", id)
	}
	return &l, nil
}

func (r *Repo) SaveLoan(ctx context.Context, l *models.Loan) error {
	return save(ctx, r.DB, &l.ID, l)
}

func (r *Repo) ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error) {
	if checkID("borrower", orNil(f.BorrowerID)) != nil || checkID("asset", orNil(f.AssetID)) != nil {
		return []models.Loan{}, nil // 不可能匹配任何行
	}
	q := r.DB.WithContext(ctx).Model(&models.Loan{}).Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ActiveOnly {
		q = q.Where("status IN ?", []models.LoanStatus{models.LoanBorrowed, models.LoanLate})
	}
	if f.BorrowerID != "" {
		q = q.Where("borrower_id = ?", f.BorrowerID)
	}
	if f.AssetID != "" {
		q = q.Where("asset_id = ?", f.AssetID)
	}
	var ls []models.Loan
	if err := q.Find(&ls).Error; err != nil {
		return nil, err
	}
	return ls, nil
}
