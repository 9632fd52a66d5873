package ledger

import (
	"context"
	"strings"

	"Gin_postgres_redis_asset_lending/models"
)

func validateMaintenance(m *models.Maintenance) error {
	if strings.TrimSpace(m.AssetID) == "" {
		return invalid("assetId", "is required")
	}
	if m.MaintenanceDate.IsZero() {
		return invalid("maintenanceDate", "is required")
	}
	if m.Status == "" {
		m.Status = models.MaintenanceInProgress
	}
	if !m.Status.Valid() {
		return invalid("status", "must be In Progress or Completed")
	}
	if m.EstimatedCost.IsNegative() {
		return invalid("estimatedCost", "must not be negative")
	}
	m.MaintenanceDate = DateOf(m.MaintenanceDate)
	return nil
}

// RecordMaintenance creates a manual maintenance record for an existing asset.
func (l *Ledger) RecordMaintenance(ctx context.Context, m *models.Maintenance) error {
	if err := validateMaintenance(m); err != nil {
		return err
	}
	if _, err := l.store.FindAsset(ctx, m.AssetID); err != nil {
		return err
	}
	m.ID = ""
	return l.store.SaveMaintenance(ctx, m)
}

// UpdateMaintenance edits a maintenance record. A Completed record cannot be
// moved back to In Progress, and the asset and originating loan never change.
// An empty status keeps the current one.
func (l *Ledger) UpdateMaintenance(ctx context.Context, m *models.Maintenance) error {
	return l.store.Atomically(ctx, func(tx Store) error {
		cur, err := tx.FindMaintenance(ctx, m.ID)
		if err != nil {
			return err
		}
		m.AssetID = cur.AssetID
		m.LoanID = cur.LoanID
		m.CreatedAt = cur.CreatedAt
		if m.Status == "" {
			m.Status = cur.Status
		}
		if err := validateMaintenance(m); err != nil {
			return err
		}
		if cur.Status == models.MaintenanceCompleted && m.Status != models.MaintenanceCompleted {
			return &StateError{Entity: "maintenance", ID: cur.ID, Status: string(cur.Status), Op: "reopen"}
		}
		return tx.SaveMaintenance(ctx, m)
	})
}
