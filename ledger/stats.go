package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"Gin_postgres_redis_asset_lending/models"
)

const statsMonths = 6

type CategoryTotal struct {
	Category models.Category `json:"category"`
	Units    int             `json:"units"`
}

type MonthlyLoans struct {
	Month string `json:"month"` // YYYY-MM
	Loans int    `json:"loans"`
}

// Stats 仪表盘汇总
type Stats struct {
	TotalUnits            int             `json:"totalUnits"`
	AvailableUnits        int             `json:"availableUnits"`
	BorrowedUnits         int             `json:"borrowedUnits"`
	ActiveLoans           int             `json:"activeLoans"`
	LateLoans             int             `json:"lateLoans"`
	ActiveMaintenance     int             `json:"activeMaintenance"`
	ActiveMaintenanceCost decimal.Decimal `json:"activeMaintenanceCost"`
	Categories            []CategoryTotal `json:"categories"`
	Monthly               []MonthlyLoans  `json:"monthly"`
}

func (l *Ledger) Stats(ctx context.Context) (*Stats, error) {
	assets, err := l.store.ListAssets(ctx, models.AssetFilter{})
	if err != nil {
		return nil, err
	}
	loans, err := l.ListLoans(ctx, models.LoanFilter{})
	if err != nil {
		return nil, err
	}
	active, err := l.store.ListMaintenance(ctx, models.MaintenanceFilter{Status: models.MaintenanceInProgress})
	if err != nil {
		return nil, err
	}

	st := &Stats{ActiveMaintenanceCost: decimal.Zero}

	perCategory := make(map[models.Category]int, len(models.Categories))
	for _, a := range assets {
		st.TotalUnits += a.TotalQuantity
		st.AvailableUnits += a.AvailableQuantity
		perCategory[a.Category] += a.TotalQuantity
	}
	for _, c := range models.Categories {
		st.Categories = append(st.Categories, CategoryTotal{Category: c, Units: perCategory[c]})
	}

	// 最近 6 个月（含本月），从早到晚
	today := l.Today()
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	index := make(map[string]int, statsMonths)
	for i := statsMonths - 1; i >= 0; i-- {
		key := firstOfMonth.AddDate(0, -i, 0).Format("2006-01")
		index[key] = len(st.Monthly)
		st.Monthly = append(st.Monthly, MonthlyLoans{Month: key})
	}

	for _, ln := range loans {
		if ln.Status.Open() {
			st.ActiveLoans++
			st.BorrowedUnits += ln.Quantity
		}
		if ln.Status == models.LoanLate {
			st.LateLoans++
		}
		if i, ok := index[ln.LoanDate.Format("2006-01")]; ok {
			st.Monthly[i].Loans++
		}
	}

	st.ActiveMaintenance = len(active)
	for _, m := range active {
		st.ActiveMaintenanceCost = st.ActiveMaintenanceCost.Add(m.EstimatedCost)
	}
	return st, nil
}
