package ledger_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/localstore"
	"Gin_postgres_redis_asset_lending/models"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	ctx      context.Context
	store    *localstore.Store
	ledger   *ledger.Ledger
	asset    *models.Asset
	borrower *models.Borrower
}

func newFixture(t *testing.T, total int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := localstore.New()
	l := ledger.New(store, nil,
		ledger.WithClock(func() time.Time { return fixedNow }),
		ledger.WithLocation(time.UTC))

	a := &models.Asset{Name: "Canon EOS 80D", Category: models.CategoryStudio, TotalQuantity: total}
	require.NoError(t, l.RegisterAsset(ctx, a))

	class := "XII DKV 1"
	b := &models.Borrower{Name: "Budi Santoso", Role: models.BorrowerStudent, Class: &class}
	require.NoError(t, store.SaveBorrower(ctx, b))

	return &fixture{ctx: ctx, store: store, ledger: l, asset: a, borrower: b}
}

func (f *fixture) issue(t *testing.T, qty int, loanDate, planned string) (*models.Loan, error) {
	t.Helper()
	return f.ledger.IssueLoan(f.ctx, ledger.IssueLoanInput{
		BorrowerID:        f.borrower.ID,
		AssetID:           f.asset.ID,
		Quantity:          qty,
		LoanDate:          day(loanDate),
		PlannedReturnDate: day(planned),
	})
}

func (f *fixture) available(t *testing.T) int {
	t.Helper()
	a, err := f.store.FindAsset(f.ctx, f.asset.ID)
	require.NoError(t, err)
	return a.AvailableQuantity
}

// assertConserved checks available + open loan units = total and 0 <= available <= total.
func (f *fixture) assertConserved(t *testing.T) {
	t.Helper()
	a, err := f.store.FindAsset(f.ctx, f.asset.ID)
	require.NoError(t, err)
	open, err := f.store.ListLoans(f.ctx, models.LoanFilter{AssetID: a.ID, ActiveOnly: true})
	require.NoError(t, err)

	outstanding := 0
	for _, ln := range open {
		outstanding += ln.Quantity
	}
	assert.GreaterOrEqual(t, a.AvailableQuantity, 0)
	assert.LessOrEqual(t, a.AvailableQuantity, a.TotalQuantity)
	assert.Equal(t, a.TotalQuantity, a.AvailableQuantity+outstanding)
}

func Test_Ledger_RegisterAsset_AllUnitsAvailable(t *testing.T) {
	f := newFixture(t, 5)

	assert.NotEmpty(t, f.asset.ID)
	assert.Equal(t, 5, f.available(t))
	assert.Equal(t, models.AssetActive, f.asset.Status)
	assert.Equal(t, models.ConditionGood, f.asset.Condition)
}

func Test_Ledger_IssueLoan_TakesUnitsOut(t *testing.T) {
	// arrange
	f := newFixture(t, 5)

	// act
	loan, err := f.issue(t, 3, "2025-03-10", "2025-03-17")

	// assert
	require.NoError(t, err)
	assert.Equal(t, models.LoanBorrowed, loan.Status)
	assert.Equal(t, models.ConditionGood, loan.ConditionOnLoan)
	assert.Nil(t, loan.ActualReturnDate)
	assert.Equal(t, 2, f.available(t))
	f.assertConserved(t)
}

func Test_Ledger_IssueLoan_QuantityAboveAvailable(t *testing.T) {
	// arrange
	f := newFixture(t, 5)

	// act
	_, err := f.issue(t, 6, "2025-03-10", "2025-03-17")

	// assert
	require.ErrorIs(t, err, ledger.ErrValidation)
	assert.Equal(t, 5, f.available(t))
	loans, err := f.store.ListLoans(f.ctx, models.LoanFilter{})
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func Test_Ledger_IssueLoan_RejectsBadInput(t *testing.T) {
	f := newFixture(t, 5)

	cases := map[string]ledger.IssueLoanInput{
		"zero quantity": {
			BorrowerID: f.borrower.ID, AssetID: f.asset.ID, Quantity: 0,
			LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-11"),
		},
		"planned before loan date": {
			BorrowerID: f.borrower.ID, AssetID: f.asset.ID, Quantity: 1,
			LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-09"),
		},
		"missing borrower id": {
			AssetID: f.asset.ID, Quantity: 1,
			LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-11"),
		},
		"unknown condition": {
			BorrowerID: f.borrower.ID, AssetID: f.asset.ID, Quantity: 1,
			LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-11"),
			ConditionOnLoan: "Broken",
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.IssueLoan(f.ctx, in)

			assert.ErrorIs(t, err, ledger.ErrValidation)
			assert.Equal(t, 5, f.available(t))
		})
	}
}

func Test_Ledger_IssueLoan_UnknownRecords(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.ledger.IssueLoan(f.ctx, ledger.IssueLoanInput{
		BorrowerID: "nobody", AssetID: f.asset.ID, Quantity: 1,
		LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-11"),
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = f.ledger.IssueLoan(f.ctx, ledger.IssueLoanInput{
		BorrowerID: f.borrower.ID, AssetID: "nothing", Quantity: 1,
		LoanDate: day("2025-03-10"), PlannedReturnDate: day("2025-03-11"),
	})
	var nf *ledger.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "asset", nf.Entity)
}

func Test_Ledger_IssueLoan_InactiveAsset(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	f.asset.Status = models.AssetInactive
	require.NoError(t, f.ledger.UpdateAsset(f.ctx, f.asset))

	// act
	_, err := f.issue(t, 1, "2025-03-10", "2025-03-11")

	// assert
	assert.ErrorIs(t, err, ledger.ErrState)
	assert.Equal(t, 5, f.available(t))
}

func Test_Ledger_ReturnLoan_Good(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 3, "2025-03-10", "2025-03-17")
	require.NoError(t, err)

	// act
	returned, err := f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-12"), models.ConditionGood)

	// assert
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
	require.NotNil(t, returned.ActualReturnDate)
	assert.Equal(t, day("2025-03-12"), *returned.ActualReturnDate)
	require.NotNil(t, returned.ConditionOnReturn)
	assert.Equal(t, models.ConditionGood, *returned.ConditionOnReturn)
	assert.Equal(t, 5, f.available(t))

	ms, err := f.store.ListMaintenance(f.ctx, models.MaintenanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, ms)
	f.assertConserved(t)
}

func Test_Ledger_ReturnLoan_DamagedOpensMaintenance(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 2, "2025-03-10", "2025-03-17")
	require.NoError(t, err)

	// act
	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-11"), models.ConditionDamaged)

	// assert
	require.NoError(t, err)
	ms, err := f.store.ListMaintenance(f.ctx, models.MaintenanceFilter{})
	require.NoError(t, err)
	require.Len(t, ms, 1)
	m := ms[0]
	assert.Equal(t, f.asset.ID, m.AssetID)
	require.NotNil(t, m.LoanID)
	assert.Equal(t, loan.ID, *m.LoanID)
	assert.Equal(t, models.MaintenanceInProgress, m.Status)
	assert.Equal(t, day("2025-03-11"), m.MaintenanceDate)
	assert.Equal(t, 5, f.available(t))
}

func Test_Ledger_ReturnLoan_Twice(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 3, "2025-03-10", "2025-03-17")
	require.NoError(t, err)
	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-11"), models.ConditionDamaged)
	require.NoError(t, err)

	// act
	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-12"), models.ConditionDamaged)

	// assert
	assert.ErrorIs(t, err, ledger.ErrState)
	assert.Equal(t, 5, f.available(t))
	ms, err := f.store.ListMaintenance(f.ctx, models.MaintenanceFilter{})
	require.NoError(t, err)
	assert.Len(t, ms, 1)
}

func Test_Ledger_ReturnLoan_DateChecks(t *testing.T) {
	f := newFixture(t, 5)
	loan, err := f.issue(t, 1, "2025-03-08", "2025-03-20")
	require.NoError(t, err)

	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-07"), models.ConditionGood)
	assert.ErrorIs(t, err, ledger.ErrValidation)

	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, time.Time{}, "Lost")
	assert.ErrorIs(t, err, ledger.ErrValidation)

	returned, err := f.ledger.ReturnLoan(f.ctx, loan.ID, time.Time{}, models.ConditionGood)
	require.NoError(t, err)
	assert.Equal(t, day("2025-03-10"), *returned.ActualReturnDate)
}

func Test_Ledger_ReturnLoan_UnknownLoan(t *testing.T) {
	f := newFixture(t, 5)

	_, err := f.ledger.ReturnLoan(f.ctx, "missing", day("2025-03-10"), models.ConditionGood)

	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func Test_Ledger_ReturnLoan_AssetGone(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 2, "2025-03-10", "2025-03-17")
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteAsset(f.ctx, f.asset.ID))

	// act
	returned, err := f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-10"), models.ConditionGood)

	// assert
	require.NoError(t, err)
	assert.Equal(t, models.LoanReturned, returned.Status)
}

func Test_Ledger_ReturnLoan_ClampsAndWarnsOnDrift(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	core, logs := observer.New(zap.WarnLevel)
	l := ledger.New(f.store, zap.New(core),
		ledger.WithClock(func() time.Time { return fixedNow }),
		ledger.WithLocation(time.UTC))
	loan, err := f.issue(t, 2, "2025-03-10", "2025-03-17")
	require.NoError(t, err)
	a, err := f.store.FindAsset(f.ctx, f.asset.ID)
	require.NoError(t, err)
	a.AvailableQuantity = a.TotalQuantity
	require.NoError(t, f.store.SaveAsset(f.ctx, a))

	// act
	_, err = l.ReturnLoan(f.ctx, loan.ID, day("2025-03-11"), models.ConditionGood)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, f.available(t))
	warns := logs.FilterMessage("available quantity exceeds total on return, clamping").All()
	require.Len(t, warns, 1)
	fields := warns[0].ContextMap()
	assert.Equal(t, f.asset.ID, fields["asset_id"])
	assert.EqualValues(t, 7, fields["available"])
	assert.EqualValues(t, 5, fields["total"])
}

func Test_Ledger_LoanLifecycle_ConservesUnits(t *testing.T) {
	// arrange
	f := newFixture(t, 7)
	rng := rand.New(rand.NewSource(42))
	var open []string

	// act + assert after every step
	for i := 0; i < 200; i++ {
		if len(open) > 0 && rng.Intn(2) == 0 {
			k := rng.Intn(len(open))
			cond := models.ConditionGood
			if rng.Intn(3) == 0 {
				cond = models.ConditionDamaged
			}
			_, err := f.ledger.ReturnLoan(f.ctx, open[k], day("2025-03-10"), cond)
			require.NoError(t, err)
			open = append(open[:k], open[k+1:]...)
		} else {
			loan, err := f.issue(t, 1+rng.Intn(4), "2025-03-10", "2025-03-12")
			if err != nil {
				require.ErrorIs(t, err, ledger.ErrValidation)
			} else {
				open = append(open, loan.ID)
			}
		}
		f.assertConserved(t)
	}
}

func Test_Ledger_IssueLoan_ConcurrentRequestsNeverOverbook(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)

	// act
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.issue(t, 1, "2025-03-10", "2025-03-11"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, 5, ok)
	assert.Equal(t, 0, f.available(t))
	f.assertConserved(t)
}

func Test_Ledger_CompleteMaintenance(t *testing.T) {
	// arrange
	f := newFixture(t, 5)
	loan, err := f.issue(t, 1, "2025-03-10", "2025-03-11")
	require.NoError(t, err)
	_, err = f.ledger.ReturnLoan(f.ctx, loan.ID, day("2025-03-10"), models.ConditionDamaged)
	require.NoError(t, err)
	ms, err := f.store.ListMaintenance(f.ctx, models.MaintenanceFilter{})
	require.NoError(t, err)
	require.Len(t, ms, 1)

	// act
	done, err := f.ledger.CompleteMaintenance(f.ctx, ms[0].ID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCompleted, done.Status)
	assert.Equal(t, 5, f.available(t))

	_, err = f.ledger.CompleteMaintenance(f.ctx, ms[0].ID)
	assert.ErrorIs(t, err, ledger.ErrState)

	_, err = f.ledger.CompleteMaintenance(f.ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
