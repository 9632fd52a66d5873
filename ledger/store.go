package ledger

import (
	"context"

	"Gin_postgres_redis_asset_lending/models"
)

// Store is the persistence collaborator the ledger works through.
//
// Find* return a *NotFoundError when the record does not exist. Save* create the
// record (assigning a new ID) when its ID is empty and overwrite it otherwise.
// Listings are ordered newest first. Any other error is returned to the caller as-is.
type Store interface {
	FindAsset(ctx context.Context, id string) (*models.Asset, error)
	SaveAsset(ctx context.Context, a *models.Asset) error
	ListAssets(ctx context.Context, f models.AssetFilter) ([]models.Asset, error)
	DeleteAsset(ctx context.Context, id string) error

	FindBorrower(ctx context.Context, id string) (*models.Borrower, error)
	DeleteBorrower(ctx context.Context, id string) error

	FindLoan(ctx context.Context, id string) (*models.Loan, error)
	ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error)
	SaveLoan(ctx context.Context, l *models.Loan) error

	FindMaintenance(ctx context.Context, id string) (*models.Maintenance, error)
	ListMaintenance(ctx context.Context, f models.MaintenanceFilter) ([]models.Maintenance, error)
	SaveMaintenance(ctx context.Context, m *models.Maintenance) error

	// Atomically runs fn against a store view whose reads and writes commit together.
	// Reads of assets, borrowers and loans inside fn hold the record until fn returns.
	Atomically(ctx context.Context, fn func(tx Store) error) error
}
