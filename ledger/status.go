package ledger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/models"
)

// EffectiveStatus is the status a loan has on the given day: a Borrowed loan whose
// planned return date lies before today is Late. Late and Returned are kept as stored.
func EffectiveStatus(l models.Loan, today time.Time) models.LoanStatus {
	if l.Status == models.LoanBorrowed && DateOf(l.PlannedReturnDate).Before(DateOf(today)) {
		return models.LoanLate
	}
	return l.Status
}

// RecomputeLateStatus returns copies of loans with their effective status applied.
// The input slice is not modified.
func RecomputeLateStatus(loans []models.Loan, today time.Time) []models.Loan {
	out := make([]models.Loan, len(loans))
	for i, l := range loans {
		l.Status = EffectiveStatus(l, today)
		out[i] = l
	}
	return out
}

// ListLoans reads loans with late status projected onto every record before the
// status filter is applied. Nothing is written.
func (l *Ledger) ListLoans(ctx context.Context, f models.LoanFilter) ([]models.Loan, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "must be Borrowed, Late or Returned")
	}

	// Borrowed 与 Late 在投影后可能互换，先取出全部未归还再按有效状态过滤
	query := f
	if f.Status == models.LoanBorrowed || f.Status == models.LoanLate {
		query.Status = ""
		query.ActiveOnly = true
	}
	loans, err := l.store.ListLoans(ctx, query)
	if err != nil {
		return nil, err
	}

	projected := RecomputeLateStatus(loans, l.Today())
	if f.Status == "" && !f.ActiveOnly {
		return projected, nil
	}
	out := projected[:0]
	for _, ln := range projected {
		if f.Status != "" && ln.Status != f.Status {
			continue
		}
		if f.ActiveOnly && !ln.Status.Open() {
			continue
		}
		out = append(out, ln)
	}
	return out, nil
}

// GetLoan reads a single loan with its effective status.
func (l *Ledger) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	ln, err := l.store.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	ln.Status = EffectiveStatus(*ln, l.Today())
	return ln, nil
}

// ReconcileLate persists Late for every Borrowed loan that is past its planned
// return date and reports how many loans were updated. Reads never depend on it;
// it keeps the stored status in line for consumers that query storage directly.
func (l *Ledger) ReconcileLate(ctx context.Context) (int, error) {
	today := l.Today()
	stored, err := l.store.ListLoans(ctx, models.LoanFilter{Status: models.LoanBorrowed})
	if err != nil {
		return 0, err
	}

	n := 0
	for _, candidate := range stored {
		if EffectiveStatus(candidate, today) != models.LoanLate {
			continue
		}
		err := l.store.Atomically(ctx, func(tx Store) error {
			ln, err := tx.FindLoan(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// 期间可能已被归还
			if EffectiveStatus(*ln, today) != models.LoanLate || ln.Status == models.LoanLate {
				return nil
			}
			ln.Status = models.LoanLate
			if err := tx.SaveLoan(ctx, ln); err != nil {
				return err
			}
			n++
			return nil
		})
		if err != nil {
			return n, err
		}
	}
	if n > 0 {
		l.logger.Info("late loans reconciled", zap.Int("count", n))
	}
	return n, nil
}
