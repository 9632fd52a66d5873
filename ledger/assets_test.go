package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

func Test_Ledger_UpdateAsset_KeepsOutstandingUnits(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	_, err := f.issue(t, 3, "2025-03-10", "2025-03-11")
	require.NoError(t, err)

	// act
	f.asset.TotalQuantity = 2
	errShrink := f.ledger.UpdateAsset(f.ctx, f.asset)
	f.asset.TotalQuantity = 8
	errGrow := f.ledger.UpdateAsset(f.ctx, f.asset)

	// assert
	assert.ErrorIs(t, errShrink, ledger.ErrValidation)
	require.NoError(t, errGrow)
	assert.Equal(t, 5, f.available(t))
	f.assertConserved(t)
}

func Test_Ledger_RegisterAsset_Validation(t *testing.T) {
	f := newFixture(t, 1)

	err := f.ledger.RegisterAsset(f.ctx, &models.Asset{Name: " ", Category: models.CategoryIT})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	err = f.ledger.RegisterAsset(f.ctx, &models.Asset{Name: "Kursi", Category: "Garden"})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	err = f.ledger.RegisterAsset(f.ctx, &models.Asset{Name: "Kursi", Category: models.CategoryFurniture, TotalQuantity: -1})
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func Test_Ledger_DeleteAsset_WithOpenLoans(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 1, "2025-03-10", "2025-03-11")
	require.NoError(t, err)

	// act + assert
	assert.ErrorIs(t, f.ledger.DeleteAsset(f.ctx, f.asset.ID), ledger.ErrState)

	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-10"), models.ConditionGood)
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteAsset(f.ctx, f.asset.ID))
	_, err = f.store.FindAsset(f.ctx, f.asset.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
