// Package ledger owns asset quantity bookkeeping and the loan and maintenance lifecycles.
//
// Every asset satisfies available + Σ(quantity of open loans) = total, with
// 0 ≤ available ≤ total. Only IssueLoan and ReturnLoan move units between
// available and outstanding, and both do their check-then-write inside
// Store.Atomically.
package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"Gin_postgres_redis_asset_lending/models"
)

const damageNote = "damage detected on return"

type Ledger struct {
	store  Store
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

type Option func(*Ledger)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the time zone in which "today" is evaluated.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func New(store Store, logger *zap.Logger, opts ...Option) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Ledger{store: store, now: time.Now, loc: time.Local, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current calendar day in the ledger's time zone.
func (l *Ledger) Today() time.Time { return DateOf(l.now().In(l.loc)) }

// DateOf drops the clock part of t, keeping the calendar day t has in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type IssueLoanInput struct {
	BorrowerID        string
	AssetID           string
	Quantity          int
	LoanDate          time.Time
	PlannedReturnDate time.Time
	ConditionOnLoan   models.Condition
}

func (in *IssueLoanInput) validate() error {
	if strings.TrimSpace(in.BorrowerID) == "" {
		return invalid("borrowerId", "is required")
	}
	if strings.TrimSpace(in.AssetID) == "" {
		return invalid("assetId", "is required")
	}
	if in.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	if in.LoanDate.IsZero() {
		return invalid("loanDate", "is required")
	}
	if in.PlannedReturnDate.IsZero() {
		return invalid("plannedReturnDate", "is required")
	}
	if DateOf(in.PlannedReturnDate).Before(DateOf(in.LoanDate)) {
		return invalid("plannedReturnDate", "must not be before the loan date")
	}
	if in.ConditionOnLoan == "" {
		in.ConditionOnLoan = models.ConditionGood
	}
	if !in.ConditionOnLoan.Valid() {
		return invalid("conditionOnLoan", "must be Good or Damaged")
	}
	return nil
}

// IssueLoan lends Quantity units of an active asset to a borrower and takes them
// out of the asset's available count.
func (l *Ledger) IssueLoan(ctx context.Context, in IssueLoanInput) (*models.Loan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var loan *models.Loan
	err := l.store.Atomically(ctx, func(tx Store) error {
		// 1) 借用人、物品必须存在
		if _, err := tx.FindBorrower(ctx, in.BorrowerID); err != nil {
			return err
		}
		asset, err := tx.FindAsset(ctx, in.AssetID)
		if err != nil {
			return err
		}
		// 2) 状态与库存校验，全部在写入之前
		if asset.Status != models.AssetActive {
			return &StateError{Entity: "asset", ID: asset.ID, Status: string(asset.Status), Op: "lend"}
		}
		if in.Quantity > asset.AvailableQuantity {
			return &ValidationError{
				Field:  "quantity",
				Reason: "exceeds available quantity",
			}
		}
		// 3) 新建 Loan，再扣减可用数量
		nl := &models.Loan{
			BorrowerID:        in.BorrowerID,
			AssetID:           asset.ID,
			Quantity:          in.Quantity,
			LoanDate:          DateOf(in.LoanDate),
			PlannedReturnDate: DateOf(in.PlannedReturnDate),
			ConditionOnLoan:   in.ConditionOnLoan,
			Status:            models.LoanBorrowed,
		}
		if err := tx.SaveLoan(ctx, nl); err != nil {
			return err
		}
		asset.AvailableQuantity -= in.Quantity
		if err := tx.SaveAsset(ctx, asset); err != nil {
			return err
		}
		loan = nl
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("loan issued",
		zap.String("loan_id", loan.ID),
		zap.String("asset_id", loan.AssetID),
		zap.String("borrower_id", loan.BorrowerID),
		zap.Int("quantity", loan.Quantity))
	return loan, nil
}

// ReturnLoan closes an open loan, puts its units back and opens a maintenance
// record when the units come back damaged. A zero returnDate means today.
func (l *Ledger) ReturnLoan(ctx context.Context, loanID string, returnDate time.Time, condition models.Condition) (*models.Loan, error) {
	if strings.TrimSpace(loanID) == "" {
		return nil, invalid("loanId", "is required")
	}
	if !condition.Valid() {
		return nil, invalid("conditionOnReturn", "must be Good or Damaged")
	}
	if returnDate.IsZero() {
		returnDate = l.Today()
	}
	returnDate = DateOf(returnDate)

	var (
		loan        *models.Loan
		maintenance *models.Maintenance
	)
	err := l.store.Atomically(ctx, func(tx Store) error {
		// 1) 锁住 loan 并检查状态
		ln, err := tx.FindLoan(ctx, loanID)
		if err != nil {
			return err
		}
		if !ln.Status.Open() {
			return &StateError{Entity: "loan", ID: ln.ID, Status: string(ln.Status), Op: "return"}
		}
		if returnDate.Before(DateOf(ln.LoanDate)) {
			return invalid("returnDate", "must not be before the loan date")
		}
		// 2) 物品可能已被删除：照常关闭借用，只是不再回补库存
		asset, err := tx.FindAsset(ctx, ln.AssetID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		// 3) 完成 loan
		cond := condition
		ln.ActualReturnDate = &returnDate
		ln.ConditionOnReturn = &cond
		ln.Status = models.LoanReturned
		if err := tx.SaveLoan(ctx, ln); err != nil {
			return err
		}

		// 4) 回补可用数量
		if asset != nil {
			asset.AvailableQuantity += ln.Quantity
			if asset.AvailableQuantity > asset.TotalQuantity {
				l.logger.Warn("available quantity exceeds total on return, clamping",
					zap.String("asset_id", asset.ID),
					zap.String("loan_id", ln.ID),
					zap.Int("available", asset.AvailableQuantity),
					zap.Int("total", asset.TotalQuantity))
				asset.AvailableQuantity = asset.TotalQuantity
			}
			if err := tx.SaveAsset(ctx, asset); err != nil {
				return err
			}
		}

		// 5) 损坏归还 → 自动生成维修记录
		if condition == models.ConditionDamaged {
			loanRef := ln.ID
			m := &models.Maintenance{
				AssetID:         ln.AssetID,
				LoanID:          &loanRef,
				MaintenanceDate: returnDate,
				Status:          models.MaintenanceInProgress,
				Notes:           damageNote,
			}
			if err := tx.SaveMaintenance(ctx, m); err != nil {
				return err
			}
			maintenance = m
		}
		loan = ln
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("loan_id", loan.ID),
		zap.String("asset_id", loan.AssetID),
		zap.String("condition", string(condition)),
	}
	if maintenance != nil {
		fields = append(fields, zap.String("maintenance_id", maintenance.ID))
	}
	l.logger.Info("loan returned", fields...)
	return loan, nil
}

// CompleteMaintenance closes an in-progress maintenance record. Asset
// availability is untouched; the units were put back when the loan was returned.
func (l *Ledger) CompleteMaintenance(ctx context.Context, id string) (*models.Maintenance, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("maintenanceId", "is required")
	}
	var out *models.Maintenance
	err := l.store.Atomically(ctx, func(tx Store) error {
		m, err := tx.FindMaintenance(ctx, id)
		if err != nil {
			return err
		}
		if m.Status == models.MaintenanceCompleted {
			return &StateError{Entity: "maintenance", ID: m.ID, Status: string(m.Status), Op: "complete"}
		}
		m.Status = models.MaintenanceCompleted
		if err := tx.SaveMaintenance(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("maintenance completed", zap.String("maintenance_id", out.ID), zap.String("asset_id", out.AssetID))
	return out, nil
}
