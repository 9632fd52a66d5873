package ledger

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/models"
)

func validateAsset(a *models.Asset) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return invalid("name", "is required")
	}
	if !a.Category.Valid() {
		return invalid("category", "must be one of Studio, IT, ATK, Furniture")
	}
	if a.Condition == "" {
		a.Condition = models.ConditionGood
	}
	if !a.Condition.Valid() {
		return invalid("condition", "must be Good or Damaged")
	}
	if a.Status == "" {
		a.Status = models.AssetActive
	}
	if !a.Status.Valid() {
		return invalid("status", "must be Active or Inactive")
	}
	if a.TotalQuantity < 0 {
		return invalid("totalQuantity", "must not be negative")
	}
	if a.PurchasePrice.IsNegative() {
		return invalid("purchasePrice", "must not be negative")
	}
	return nil
}

// RegisterAsset takes a new asset into inventory with every unit available.
func (l *Ledger) RegisterAsset(ctx context.Context, a *models.Asset) error {
	if err := validateAsset(a); err != nil {
		return err
	}
	a.ID = ""
	a.AvailableQuantity = a.TotalQuantity
	if err := l.store.SaveAsset(ctx, a); err != nil {
		return err
	}
	l.logger.Info("asset registered", zap.String("asset_id", a.ID), zap.Int("total", a.TotalQuantity))
	return nil
}

// UpdateAsset edits an asset. Units currently on loan stay on loan: when the total
// changes the available count is recomputed from the outstanding units, and a
// total below the outstanding units is rejected.
func (l *Ledger) UpdateAsset(ctx context.Context, a *models.Asset) error {
	if err := validateAsset(a); err != nil {
		return err
	}
	return l.store.Atomically(ctx, func(tx Store) error {
		cur, err := tx.FindAsset(ctx, a.ID)
		if err != nil {
			return err
		}
		outstanding := cur.Outstanding()
		if a.TotalQuantity < outstanding {
			return invalid("totalQuantity", "is below the units currently on loan")
		}
		a.AvailableQuantity = a.TotalQuantity - outstanding
		a.CreatedAt = cur.CreatedAt
		return tx.SaveAsset(ctx, a)
	})
}

// DeleteAsset removes an asset that no open loan references.
func (l *Ledger) DeleteAsset(ctx context.Context, id string) error {
	return l.store.Atomically(ctx, func(tx Store) error {
		a, err := tx.FindAsset(ctx, id)
		if err != nil {
			return err
		}
		open, err := tx.ListLoans(ctx, models.LoanFilter{AssetID: id, ActiveOnly: true})
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return &StateError{Entity: "asset", ID: a.ID, Status: "on loan", Op: "delete"}
		}
		return tx.DeleteAsset(ctx, id)
	})
}
