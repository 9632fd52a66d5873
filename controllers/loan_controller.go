// controllers/loan_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

type IssueLoanReq struct {
	BorrowerID        string           `json:"borrowerId" binding:"required"`
	AssetID           string           `json:"assetId" binding:"required"`
	Quantity          int              `json:"quantity" binding:"required"`
	LoanDate          string           `json:"loanDate"`
	PlannedReturnDate string           `json:"plannedReturnDate" binding:"required"`
	ConditionOnLoan   models.Condition `json:"conditionOnLoan"`
}

// 借出；loanDate 缺省为今天
func (lc *LoanController) IssueLoan(c *gin.Context) {
	var req IssueLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	loanDate, err := parseDate("loanDate", req.LoanDate)
	if err != nil {
		lc.writeError(c, err)
		return
	}
	if loanDate.IsZero() {
		loanDate = lc.Ledger.Today()
	}
	planned, err := parseDate("plannedReturnDate", req.PlannedReturnDate)
	if err != nil {
		lc.writeError(c, err)
		return
	}

	loan, err := lc.Ledger.IssueLoan(c.Request.Context(), ledger.IssueLoanInput{
		BorrowerID:        req.BorrowerID,
		AssetID:           req.AssetID,
		Quantity:          req.Quantity,
		LoanDate:          loanDate,
		PlannedReturnDate: planned,
		ConditionOnLoan:   req.ConditionOnLoan,
	})
	if err != nil {
		lc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loan)
}

type ReturnLoanReq struct {
	ReturnDate        string           `json:"returnDate"`
	ConditionOnReturn models.Condition `json:"conditionOnReturn" binding:"required"`
}

// 归还；returnDate 缺省为今天
func (lc *LoanController) ReturnLoan(c *gin.Context) {
	var req ReturnLoanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	returned, err := parseDate("returnDate", req.ReturnDate)
	if err != nil {
		lc.writeError(c, err)
		return
	}
	loan, err := lc.Ledger.ReturnLoan(c.Request.Context(), c.Param("id"), returned, req.ConditionOnReturn)
	if err != nil {
		lc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// 借还记录 ?status=Borrowed|Late|Returned&active=true&borrowerId=&assetId=
func (lc *LoanController) ListLoans(c *gin.Context) {
	f := models.LoanFilter{
		Status:     models.LoanStatus(c.Query("status")),
		BorrowerID: c.Query("borrowerId"),
		AssetID:    c.Query("assetId"),
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			lc.writeError(c, &ledger.ValidationError{Field: "active", Reason: "must be true or false"})
			return
		}
		f.ActiveOnly = active
	}
	ls, err := lc.Ledger.ListLoans(c.Request.Context(), f)
	if err != nil {
		lc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ls})
}

func (lc *LoanController) GetLoan(c *gin.Context) {
	ln, err := lc.Ledger.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		lc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ln)
}
