package localstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/localstore"
	"Gin_postgres_redis_asset_lending/models"
)

func Test_Store_Open_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dkv.json")

	s, err := localstore.Open(path, nil)

	require.NoError(t, err)
	assets, err := s.ListAssets(context.Background(), models.AssetFilter{})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func Test_Store_PersistsAcrossReopen(t *testing.T) {
	// arrange
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dkv.json")
	s, err := localstore.Open(path, nil)
	require.NoError(t, err)

	a := &models.Asset{Name: "Wacom Intuos Pro", Category: models.CategoryIT, TotalQuantity: 8, AvailableQuantity: 8}
	require.NoError(t, s.SaveAsset(ctx, a))
	u := &models.User{Username: "admin", DisplayName: "Admin", PasswordHash: "hash", Role: models.RoleAdmin}
	require.NoError(t, s.SaveUser(ctx, u))

	// act
	reopened, err := localstore.Open(path, nil)
	require.NoError(t, err)

	// assert
	got, err := reopened.FindAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wacom Intuos Pro", got.Name)
	assert.Equal(t, 8, got.AvailableQuantity)

	gotUser, err := reopened.FindUserByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "hash", gotUser.PasswordHash)
	assert.Equal(t, u.ID, gotUser.ID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"dkv_assets"`)
}

func Test_Store_Open_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dkv.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := localstore.Open(path, nil)

	assert.Error(t, err)
}

func Test_Store_Atomically_RollsBackOnError(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := localstore.New()
	a := &models.Asset{Name: "Tripod", Category: models.CategoryStudio, TotalQuantity: 4, AvailableQuantity: 4}
	require.NoError(t, s.SaveAsset(ctx, a))
	boom := errors.New("boom")

	// act
	err := s.Atomically(ctx, func(tx ledger.Store) error {
		cur, err := tx.FindAsset(ctx, a.ID)
		if err != nil {
			return err
		}
		cur.AvailableQuantity = 0
		if err := tx.SaveAsset(ctx, cur); err != nil {
			return err
		}
		if err := tx.SaveLoan(ctx, &models.Loan{AssetID: a.ID, Quantity: 4, Status: models.LoanBorrowed}); err != nil {
			return err
		}
		return boom
	})

	// assert
	assert.ErrorIs(t, err, boom)
	got, err := s.FindAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AvailableQuantity)
	loans, err := s.ListLoans(ctx, models.LoanFilter{})
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func Test_Store_Find_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := localstore.New()
	a := &models.Asset{Name: "Gunting", Category: models.CategoryATK, TotalQuantity: 20, AvailableQuantity: 20}
	require.NoError(t, s.SaveAsset(ctx, a))

	got, err := s.FindAsset(ctx, a.ID)
	require.NoError(t, err)
	got.AvailableQuantity = 1

	again, err := s.FindAsset(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, again.AvailableQuantity)
}

func Test_Store_Filters(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := localstore.New()
	require.NoError(t, s.SaveAsset(ctx, &models.Asset{Name: "Canon EOS 80D", Brand: "Canon", Category: models.CategoryStudio}))
	require.NoError(t, s.SaveAsset(ctx, &models.Asset{Name: "MacBook Pro", Brand: "Apple", Category: models.CategoryIT}))
	class := "XI DKV 2"
	require.NoError(t, s.SaveBorrower(ctx, &models.Borrower{Name: "Siti Nurhaliza", Role: models.BorrowerStudent, Class: &class}))
	require.NoError(t, s.SaveBorrower(ctx, &models.Borrower{Name: "Bu Sri Mulyani", Role: models.BorrowerTeacher}))
	require.NoError(t, s.SaveLoan(ctx, &models.Loan{AssetID: "a1", BorrowerID: "b1", Quantity: 1, Status: models.LoanBorrowed}))
	require.NoError(t, s.SaveLoan(ctx, &models.Loan{AssetID: "a1", BorrowerID: "b2", Quantity: 1, Status: models.LoanReturned}))
	require.NoError(t, s.SaveLoan(ctx, &models.Loan{AssetID: "a2", BorrowerID: "b1", Quantity: 1, Status: models.LoanLate}))

	// act + assert
	byBrand, err := s.ListAssets(ctx, models.AssetFilter{Search: "apple"})
	require.NoError(t, err)
	require.Len(t, byBrand, 1)
	assert.Equal(t, "MacBook Pro", byBrand[0].Name)

	studio, err := s.ListAssets(ctx, models.AssetFilter{Category: models.CategoryStudio})
	require.NoError(t, err)
	assert.Len(t, studio, 1)

	teachers, err := s.ListBorrowers(ctx, models.BorrowerFilter{Role: models.BorrowerTeacher})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Bu Sri Mulyani", teachers[0].Name)

	byClass, err := s.ListBorrowers(ctx, models.BorrowerFilter{Search: "xi dkv"})
	require.NoError(t, err)
	assert.Len(t, byClass, 1)

	open, err := s.ListLoans(ctx, models.LoanFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	forA1, err := s.ListLoans(ctx, models.LoanFilter{AssetID: "a1", BorrowerID: "b1"})
	require.NoError(t, err)
	assert.Len(t, forA1, 1)
}

func Test_Store_Delete_Unknown(t *testing.T) {
	ctx := context.Background()
	s := localstore.New()

	assert.ErrorIs(t, s.DeleteAsset(ctx, "x"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteBorrower(ctx, "x"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteMaintenance(ctx, "x"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, "x"), ledger.ErrNotFound)
}

func Test_Store_Users_PageAndTouch(t *testing.T) {
	// arrange
	ctx := context.Background()
	s := localstore.New()
	for _, name := range []string{"alice", "bob", "carol"} {
		require.NoError(t, s.SaveUser(ctx, &models.User{Username: name, DisplayName: name, Role: models.RoleStudent}))
	}
	bob, err := s.FindUserByUsername(ctx, "bob")
	require.NoError(t, err)

	// act
	page, err := s.ListUsers(ctx, "", 1, 2)
	require.NoError(t, err)
	filtered, err := s.ListUsers(ctx, "CAR", 1, 20)
	require.NoError(t, err)
	require.NoError(t, s.TouchUserLogin(ctx, bob.ID, "10.0.0.1", "test"))

	// assert
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Users, 2)
	require.Len(t, filtered.Users, 1)
	assert.Equal(t, "carol", filtered.Users[0].Username)

	touched, err := s.FindUserByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), touched.LoginCount)
	assert.NotNil(t, touched.LastLoginAt)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
