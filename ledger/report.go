package ledger

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_asset_lending/models"
)

// LoanReportRow is a loan joined with the names a printed report needs.
type LoanReportRow struct {
	models.Loan
	BorrowerName  string              `json:"borrowerName"`
	BorrowerRole  models.BorrowerRole `json:"borrowerRole,omitempty"`
	BorrowerClass string              `json:"borrowerClass,omitempty"`
	AssetName     string              `json:"assetName"`
	AssetCategory models.Category     `json:"assetCategory,omitempty"`
}

// LoanReport lists loans whose loan date lies within [from, to]; a zero bound is
// open. Records that no longer exist are reported as "-".
func (l *Ledger) LoanReport(ctx context.Context, from, to time.Time) ([]LoanReportRow, error) {
	if !from.IsZero() && !to.IsZero() && DateOf(to).Before(DateOf(from)) {
		return nil, invalid("to", "must not be before from")
	}
	loans, err := l.ListLoans(ctx, models.LoanFilter{})
	if err != nil {
		return nil, err
	}

	borrowers := map[string]*models.Borrower{}
	assets := map[string]*models.Asset{}
	rows := make([]LoanReportRow, 0, len(loans))
	for _, ln := range loans {
		day := DateOf(ln.LoanDate)
		if !from.IsZero() && day.Before(DateOf(from)) {
			continue
		}
		if !to.IsZero() && day.After(DateOf(to)) {
			continue
		}

		row := LoanReportRow{Loan: ln, BorrowerName: "-", AssetName: "-"}

		b, ok := borrowers[ln.BorrowerID]
		if !ok {
			b, err = l.store.FindBorrower(ctx, ln.BorrowerID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			borrowers[ln.BorrowerID] = b
		}
		if b != nil {
			row.BorrowerName = b.Name
			row.BorrowerRole = b.Role
			if b.Class != nil {
				row.BorrowerClass = *b.Class
			}
		}

		a, ok := assets[ln.AssetID]
		if !ok {
			a, err = l.store.FindAsset(ctx, ln.AssetID)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			assets[ln.AssetID] = a
		}
		if a != nil {
			row.AssetName = a.Name
			row.AssetCategory = a.Category
		}
		rows = append(rows, row)
	}
	return rows, nil
}
