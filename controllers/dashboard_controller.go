package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Gin_postgres_redis_asset_lending/app"
)

type DashboardController struct{ *Srv }

func NewDashboardController(s *Srv) *DashboardController { return &DashboardController{Srv: s} }

// GET /api/dashboard/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	st, err := dc.Ledger.Stats(c.Request.Context())
	if err != nil {
		dc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /api/reports/loans?from=YYYY-MM-DD&to=YYYY-MM-DD
func (dc *DashboardController) LoanReport(c *gin.Context) {
	from, err := parseDate("from", c.Query("from"))
	if err != nil {
		dc.writeError(c, err)
		return
	}
	to, err := parseDate("to", c.Query("to"))
	if err != nil {
		dc.writeError(c, err)
		return
	}
	rows, err := dc.Ledger.LoanReport(c.Request.Context(), from, to)
	if err != nil {
		dc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows, "total": len(rows)})
}
