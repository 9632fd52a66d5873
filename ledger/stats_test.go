package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

func Test_Ledger_Stats(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	tripods := &models.Asset{Name: "Tripod", Category: models.CategoryStudio, TotalQuantity: 10}
	require.NoError(t, f.ledger.RegisterAsset(f.ctx, tripods))
	desks := &models.Asset{Name: "Meja Gambar A2", Category: models.CategoryFurniture, TotalQuantity: 3}
	require.NoError(t, f.ledger.RegisterAsset(f.ctx, desks))

	_, err := f.issue(t, 2, "2025-03-01", "2025-03-05") // late
	require.NoError(t, err)
	old, err := f.issue(t, 1, "2024-12-20", "2024-12-21")
	require.NoError(t, err)
	_, err = f.ledger.ReturnLoan(f.ctx, old.ID, day("2024-12-21"), models.ConditionDamaged)
	require.NoError(t, err)
	require.NoError(t, f.ledger.RecordMaintenance(f.ctx, &models.Maintenance{
		AssetID: desks.ID, MaintenanceDate: day("2025-03-10"), EstimatedCost: decimal.RequireFromString("150000.50"),
	}))

	// act
	st, err := f.ledger.Stats(f.ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 18, st.TotalUnits)
	assert.Equal(t, 16, st.AvailableUnits)
	assert.Equal(t, 2, st.BorrowedUnits)
	assert.Equal(t, 1, st.ActiveLoans)
	assert.Equal(t, 1, st.LateLoans)
	assert.Equal(t, 2, st.ActiveMaintenance)
	assert.True(t, decimal.RequireFromString("150000.50").Equal(st.ActiveMaintenanceCost))

	require.Len(t, st.Categories, len(models.Categories))
	assert.Equal(t, ledger.CategoryTotal{Category: models.CategoryStudio, Units: 15}, st.Categories[0])
	assert.Equal(t, ledger.CategoryTotal{Category: models.CategoryFurniture, Units: 3}, st.Categories[3])

	require.Len(t, st.Monthly, 6)
	assert.Equal(t, "2024-10", st.Monthly[0].Month)
	assert.Equal(t, ledger.MonthlyLoans{Month: "2024-12", Loans: 1}, st.Monthly[2])
	assert.Equal(t, ledger.MonthlyLoans{Month: "2025-03", Loans: 1}, st.Monthly[5])
}

func Test_Ledger_LoanReport(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	march, err := f.issue(t, 1, "2025-03-02", "2025-03-20")
	require.NoError(t, err)
	_, err = f.issue(t, 1, "2025-02-10", "2025-02-11")
	require.NoError(t, err)

	// act
	rows, err := f.ledger.LoanReport(f.ctx, day("2025-03-01"), day("2025-03-31"))

	// assert
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, march.ID, rows[0].ID)
	assert.Equal(t, "Budi Santoso", rows[0].BorrowerName)
	assert.Equal(t, "XII DKV 1", rows[0].BorrowerClass)
	assert.Equal(t, "Canon EOS 80D", rows[0].AssetName)

	all, err := f.ledger.LoanReport(f.ctx, day("2025-03-01").AddDate(0, -3, 0), day("2025-03-01").AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.ledger.LoanReport(f.ctx, day("2025-03-31"), day("2025-03-01"))
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func Test_Ledger_LoanReport_MissingBorrower(t *testing.T) {
	f := newFixture(t, 5)
	_, err := f.issue(t, 1, "2025-03-02", "2025-03-20")
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteBorrower(f.ctx, f.borrower.ID))

	rows, err := f.ledger.LoanReport(f.ctx, day("2025-03-01"), day("2025-03-02"))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "-", rows[0].BorrowerName)
	assert.Equal(t, "Canon EOS 80D", rows[0].AssetName)
}
