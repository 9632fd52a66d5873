package localstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

// txStore works directly on one dataset; Store decides which dataset and when it is kept.
type txStore struct {
	d   *dataset
	now func() time.Time
}

func (tx *txStore) Atomically(ctx context.Context, fn func(tx ledger.Store) error) error {
	return fn(tx)
}

func (tx *txStore) stamp(id *string, createdAt, updatedAt *time.Time) bool {
	now := tx.now().UTC()
	created := false
	if *id == "" {
		*id = uuid.NewString()
		created = true
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
	return created
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// ---- assets ----

func (tx *txStore) assetIndex(id string) int {
	for i := range tx.d.Assets {
		if tx.d.Assets[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *txStore) FindAsset(_ context.Context, id string) (*models.Asset, error) {
	i := tx.assetIndex(id)
	if i < 0 {
		return nil, &ledger.NotFoundError{Entity: "asset", ID: id}
	}
	a := tx.d.Assets[i]
	return &a, nil
}

func (tx *txStore) SaveAsset(_ context.Context, a *models.Asset) error {
	if tx.stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt) {
		tx.d.Assets = append(tx.d.Assets, *a)
		return nil
	}
	if i := tx.assetIndex(a.ID); i >= 0 {
		tx.d.Assets[i] = *a
		return nil
	}
	tx.d.Assets = append(tx.d.Assets, *a)
	return nil
}

func (tx *txStore) ListAssets(_ context.Context, f models.AssetFilter) ([]models.Asset, error) {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Asset
	for _, a := range tx.d.Assets {
		if q != "" && !contains(a.Name, q) && !contains(a.Brand, q) {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		out = append(out, a)
	}
	return newestFirst(out, func(a models.Asset) time.Time { return a.CreatedAt }), nil
}

func (tx *txStore) DeleteAsset(_ context.Context, id string) error {
	i := tx.assetIndex(id)
	if i < 0 {
		return &ledger.NotFoundError{Entity: "asset", ID: id}
	}
	tx.d.Assets = append(tx.d.Assets[:i], tx.d.Assets[i+1:]...)
	return nil
}

// ---- borrowers ----

func (tx *txStore) borrowerIndex(id string) int {
	for i := range tx.d.Borrowers {
		if tx.d.Borrowers[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *txStore) FindBorrower(_ context.Context, id string) (*models.Borrower, error) {
	i := tx.borrowerIndex(id)
	if i < 0 {
		return nil, &ledger.NotFoundError{Entity: "borrower", ID: id}
	}
	b := tx.d.Borrowers[i]
	return &b, nil
}

func (tx *txStore) DeleteBorrower(_ context.Context, id string) error {
	i := tx.borrowerIndex(id)
	if i < 0 {
		return &ledger.NotFoundError{Entity: "borrower", ID: id}
	}
	tx.d.Borrowers = append(tx.d.Borrowers[:i], tx.d.Borrowers[i+1:]...)
	return nil
}

func (tx *txStore) saveBorrower(b *models.Borrower) {
	if tx.stamp(&b.ID, &b.CreatedAt, &b.UpdatedAt) {
		tx.d.Borrowers = append(tx.d.Borrowers, *b)
		return
	}
	if i := tx.borrowerIndex(b.ID); i >= 0 {
		tx.d.Borrowers[i] = *b
		return
	}
	tx.d.Borrowers = append(tx.d.Borrowers, *b)
}

func (tx *txStore) listBorrowers(f models.BorrowerFilter) []models.Borrower {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Borrower
	for _, b := range tx.d.Borrowers {
		if q != "" {
			class := ""
			if b.Class != nil {
				class = *b.Class
			}
			if !contains(b.Name, q) && !contains(class, q) {
				continue
			}
		}
		if f.Role != "" && b.Role != f.Role {
			continue
		}
		out = append(out, b)
	}
	return newestFirst(out, func(b models.Borrower) time.Time { return b.CreatedAt })
}

// ---- loans ----

func (tx *txStore) loanIndex(id string) int {
	for i := range tx.d.Loans {
		if tx.d.Loans[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *txStore) FindLoan(_ context.Context, id string) (*models.Loan, error) {
	i := tx.loanIndex(id)
	if i < 0 {
		return nil, &ledger.NotFoundError{Entity: "loan", ID: id}
	}
	l := tx.d.Loans[i]
	return &l, nil
}

func (tx *txStore) SaveLoan(_ context.Context, l *models.Loan) error {
	if tx.stamp(&l.ID, &l.CreatedAt, &l.UpdatedAt) {
		tx.d.Loans = append(tx.d.Loans, *l)
		return nil
	}
	if i := tx.loanIndex(l.ID); i >= 0 {
		tx.d.Loans[i] = *l
		return nil
	}
	tx.d.Loans = append(tx.d.Loans, *l)
	return nil
}

func (tx *txStore) ListLoans(_ context.Context, f models.LoanFilter) ([]models.Loan, error) {
	var out []models.Loan
	for _, l := range tx.d.Loans {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.ActiveOnly && !l.Status.Open() {
			continue
		}
		if f.BorrowerID != "" && l.BorrowerID != f.BorrowerID {
			continue
		}
		if f.AssetID != "" && l.AssetID != f.AssetID {
			continue
		}
		out = append(out, l)
	}
	return newestFirst(out, func(l models.Loan) time.Time { return l.CreatedAt }), nil
}

// ---- maintenance ----

func (tx *txStore) maintenanceIndex(id string) int {
	for i := range tx.d.Maintenance {
		if tx.d.Maintenance[i].ID == id {
			return i
		}
	}
	return -1
}

func (tx *txStore) FindMaintenance(_ context.Context, id string) (*models.Maintenance, error) {
	i := tx.maintenanceIndex(id)
	if i < 0 {
		return nil, &ledger.NotFoundError{Entity: "maintenance", ID: id}
	}
	m := tx.d.Maintenance[i]
	return &m, nil
}

func (tx *txStore) SaveMaintenance(_ context.Context, m *models.Maintenance) error {
	if tx.stamp(&m.ID, &m.CreatedAt, &m.UpdatedAt) {
		tx.d.Maintenance = append(tx.d.Maintenance, *m)
		return nil
	}
	if i := tx.maintenanceIndex(m.ID); i >= 0 {
		tx.d.Maintenance[i] = *m
		return nil
	}
	tx.d.Maintenance = append(tx.d.Maintenance, *m)
	return nil
}

func (tx *txStore) ListMaintenance(_ context.Context, f models.MaintenanceFilter) ([]models.Maintenance, error) {
	var out []models.Maintenance
	for _, m := range tx.d.Maintenance {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.AssetID != "" && m.AssetID != f.AssetID {
			continue
		}
		out = append(out, m)
	}
	return newestFirst(out, func(m models.Maintenance) time.Time { return m.CreatedAt }), nil
}

// ---- users ----

func (tx *txStore) userIndex(match func(u *models.User) bool) int {
	for i := range tx.d.Users {
		if match(&tx.d.Users[i].User) {
			return i
		}
	}
	return -1
}
