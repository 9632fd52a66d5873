package localstore

import (
	"context"
	"strings"
	"time"

	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

// Assets

func (s *Store) FindAsset(ctx context.Context, id string) (a *models.Asset, err error) {
	err = s.read(func(tx *txStore) error { a, err = tx.FindAsset(ctx, id); return err })
	return a, err
}

func (s *Store) SaveAsset(ctx context.Context, a *models.Asset) error {
	return s.write(func(tx *txStore) error { return tx.SaveAsset(ctx, a) })
}

func (s *Store) ListAssets(ctx context.Context, f models.AssetFilter) (out []models.Asset, err error) {
	err = s.read(func(tx *txStore) error { out, err = tx.ListAssets(ctx, f); return err })
	return out, err
}

func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	return s.write(func(tx *txStore) error { return tx.DeleteAsset(ctx, id) })
}

// Borrowers

func (s *Store) FindBorrower(ctx context.Context, id string) (b *models.Borrower, err error) {
	err = s.read(func(tx *txStore) error { b, err = tx.FindBorrower(ctx, id); return err })
	return b, err
}

func (s *Store) SaveBorrower(_ context.Context, b *models.Borrower) error {
	return s.write(func(tx *txStore) error { tx.saveBorrower(b); return nil })
}

func (s *Store) ListBorrowers(_ context.Context, f models.BorrowerFilter) (out []models.Borrower, err error) {
	err = s.read(func(tx *txStore) error { out = tx.listBorrowers(f); return nil })
	return out, err
}

func (s *Store) DeleteBorrower(ctx context.Context, id string) error {
	return s.write(func(tx *txStore) error { return tx.DeleteBorrower(ctx, id) })
}

// Loans

func (s *Store) FindLoan(ctx context.Context, id string) (l *models.Loan, err error) {
	err = s.read(func(tx *txStore) error { l, err = tx.FindLoan(ctx, id); return err })
	return l, err
}

func (s *Store) SaveLoan(ctx context.Context, l *models.Loan) error {
	return s.write(func(tx *txStore) error { return tx.SaveLoan(ctx, l) })
}

func (s *Store) ListLoans(ctx context.Context, f models.LoanFilter) (out []models.Loan, err error) {
	err = s.read(func(tx *txStore) error { out, err = tx.ListLoans(ctx, f); return err })
	return out, err
}

// Maintenance

func (s *Store) FindMaintenance(ctx context.Context, id string) (m *models.Maintenance, err error) {
	err = s.read(func(tx *txStore) error { m, err = tx.FindMaintenance(ctx, id); return err })
	return m, err
}

func (s *Store) SaveMaintenance(ctx context.Context, m *models.Maintenance) error {
	return s.write(func(tx *txStore) error { return tx.SaveMaintenance(ctx, m) })
}

func (s *Store) ListMaintenance(ctx context.Context, f models.MaintenanceFilter) (out []models.Maintenance, err error) {
	err = s.read(func(tx *txStore) error { out, err = tx.ListMaintenance(ctx, f); return err })
	return out, err
}

func (s *Store) DeleteMaintenance(_ context.Context, id string) error {
	return s.write(func(tx *txStore) error {
		i := tx.maintenanceIndex(id)
		if i < 0 {
			return &ledger.NotFoundError{Entity: "maintenance", ID: id}
		}
		tx.d.Maintenance = append(tx.d.Maintenance[:i], tx.d.Maintenance[i+1:]...)
		return nil
	})
}

// Users

func (s *Store) FindUserByID(_ context.Context, id string) (u *models.User, err error) {
	err = s.read(func(tx *txStore) error {
		i := tx.userIndex(func(x *models.User) bool { return x.ID == id })
		if i < 0 {
			return &ledger.NotFoundError{Entity: "user", ID: id}
		}
		cp := tx.d.Users[i].User
		u = &cp
		return nil
	})
	return u, err
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (u *models.User, err error) {
	err = s.read(func(tx *txStore) error {
		i := tx.userIndex(func(x *models.User) bool { return strings.EqualFold(x.Username, username) })
		if i < 0 {
			return &ledger.NotFoundError{Entity: "user", ID: username}
		}
		cp := tx.d.Users[i].User
		u = &cp
		return nil
	})
	return u, err
}

func (s *Store) SaveUser(_ context.Context, u *models.User) error {
	return s.write(func(tx *txStore) error {
		su := storedUser{User: *u, PasswordHash: u.PasswordHash}
		created := tx.stamp(&su.ID, &su.CreatedAt, &su.UpdatedAt)
		i := -1
		if !created {
			i = tx.userIndex(func(x *models.User) bool { return x.ID == su.ID })
		}
		if i >= 0 {
			tx.d.Users[i] = su
		} else {
			tx.d.Users = append(tx.d.Users, su)
		}
		*u = su.User
		return nil
	})
}

func (s *Store) ListUsers(_ context.Context, q string, page, size int) (res models.UserPage, err error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	q = strings.ToLower(strings.TrimSpace(q))
	err = s.read(func(tx *txStore) error {
		var all []models.User
		for _, su := range tx.d.Users {
			if q != "" && !contains(su.Username, q) && !contains(su.DisplayName, q) {
				continue
			}
			all = append(all, su.User)
		}
		all = newestFirst(all, func(u models.User) time.Time { return u.CreatedAt })
		res.Total = int64(len(all))
		start := (page - 1) * size
		if start > len(all) {
			start = len(all)
		}
		end := start + size
		if end > len(all) {
			end = len(all)
		}
		res.Users = all[start:end]
		return nil
	})
	return res, err
}

func (s *Store) CountUsers(_ context.Context) (n int64, err error) {
	err = s.read(func(tx *txStore) error { n = int64(len(tx.d.Users)); return nil })
	return n, err
}

func (s *Store) DeleteUser(_ context.Context, id string) error {
	return s.write(func(tx *txStore) error {
		i := tx.userIndex(func(x *models.User) bool { return x.ID == id })
		if i < 0 {
			return &ledger.NotFoundError{Entity: "user", ID: id}
		}
		tx.d.Users = append(tx.d.Users[:i], tx.d.Users[i+1:]...)
		return nil
	})
}

func (s *Store) TouchUserLogin(_ context.Context, id, ip, ua string) error {
	return s.write(func(tx *txStore) error {
		i := tx.userIndex(func(x *models.User) bool { return x.ID == id })
		if i < 0 {
			return &ledger.NotFoundError{Entity: "user", ID: id}
		}
		now := tx.now().UTC()
		u := &tx.d.Users[i].User
		u.LastLoginAt = &now
		u.LastSeenAt = &now
		u.LoginCount++
		u.LastLoginIP = ip
		u.LastLoginUA = ua
		return nil
	})
}

func (s *Store) TouchUserSeen(_ context.Context, id string) error {
	return s.write(func(tx *txStore) error {
		i := tx.userIndex(func(x *models.User) bool { return x.ID == id })
		if i < 0 {
			return &ledger.NotFoundError{Entity: "user", ID: id}
		}
		now := tx.now().UTC()
		tx.d.Users[i].User.LastSeenAt = &now
		return nil
	})
}
