package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

func Test_Ledger_UpdateMaintenance_CannotReopen(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	m := &models.Maintenance{AssetID: f.asset.ID, MaintenanceDate: day("2025-03-10"), Technician: "Pak Budi"}
	require.NoError(t, f.ledger.RecordMaintenance(f.ctx, m))
	_, err := f.ledger.CompleteMaintenance(f.ctx, m.ID)
	require.NoError(t, err)

	// act
	err = f.ledger.UpdateMaintenance(f.ctx, &models.Maintenance{
		ID: m.ID, MaintenanceDate: day("2025-03-11"), Status: models.MaintenanceInProgress,
	})

	// assert
	assert.ErrorIs(t, err, ledger.ErrState)
}

func Test_Ledger_UpdateMaintenance_KeepsAssetAndStatus(t *testing.T) {
	f := newFixture(t, 5)
	m := &models.Maintenance{AssetID: f.asset.ID, MaintenanceDate: day("2025-03-10")}
	require.NoError(t, f.ledger.RecordMaintenance(f.ctx, m))

	upd := &models.Maintenance{ID: m.ID, AssetID: "other", MaintenanceDate: day("2025-03-12"), Technician: "Bu Sri"}
	require.NoError(t, f.ledger.UpdateMaintenance(f.ctx, upd))

	got, err := f.store.FindMaintenance(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, f.asset.ID, got.AssetID)
	assert.Equal(t, models.MaintenanceInProgress, got.Status)
	assert.Equal(t, "Bu Sri", got.Technician)
}

func Test_Ledger_RecordMaintenance_UnknownAsset(t *testing.T) {
	f := newFixture(t, 5)

	err := f.ledger.RecordMaintenance(f.ctx, &models.Maintenance{AssetID: "missing", MaintenanceDate: day("2025-03-10")})

	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
