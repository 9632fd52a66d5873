package ledger

import (
	"context"
	"strings"

	"Gin_postgres_redis_asset_lending/models"
)

// ValidateBorrower normalizes b in place. Only students carry a class.
func ValidateBorrower(b *models.Borrower) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return invalid("name", "is required")
	}
	if !b.Role.Valid() {
		return invalid("role", "must be Student or Teacher")
	}
	if b.Role == models.BorrowerTeacher {
		b.Class = nil
	} else if b.Class != nil {
		c := strings.TrimSpace(*b.Class)
		if c == "" {
			b.Class = nil
		} else {
			b.Class = &c
		}
	}
	b.Phone = strings.TrimSpace(b.Phone)
	return nil
}

// DeleteBorrower removes a borrower that holds no open loan.
func (l *Ledger) DeleteBorrower(ctx context.Context, id string) error {
	return l.store.Atomically(ctx, func(tx Store) error {
		b, err := tx.FindBorrower(ctx, id)
		if err != nil {
			return err
		}
		open, err := tx.ListLoans(ctx, models.LoanFilter{BorrowerID: id, ActiveOnly: true})
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return &StateError{Entity: "borrower", ID: b.ID, Status: "holding loans", Op: "delete"}
		}
		return tx.DeleteBorrower(ctx, id)
	})
}
