package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/ledger"
	"Gin_postgres_redis_asset_lending/models"
)

type BorrowerController struct{ *Srv }

func NewBorrowerController(s *Srv) *BorrowerController { return &BorrowerController{Srv: s} }

type borrowerInput struct {
	Name  string              `json:"name" binding:"required"`
	Role  models.BorrowerRole `json:"role" binding:"required"`
	Class *string             `json:"class"`
	Phone string              `json:"phone"`
}

func (in *borrowerInput) toModel() *models.Borrower {
	return &models.Borrower{Name: in.Name, Role: in.Role, Class: in.Class, Phone: in.Phone}
}

// GET /api/borrowers?search=&role=
func (bc *BorrowerController) ListBorrowers(c *gin.Context) {
	bs, err := bc.Backend.ListBorrowers(c.Request.Context(), models.BorrowerFilter{
		Search: c.Query("search"),
		Role:   models.BorrowerRole(c.Query("role")),
	})
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": bs})
}

func (bc *BorrowerController) GetBorrower(c *gin.Context) {
	b, err := bc.Backend.FindBorrower(c.Request.Context(), c.Param("id"))
	if err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BorrowerController) CreateBorrower(c *gin.Context) {
	var in borrowerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b := in.toModel()
	if err := ledger.ValidateBorrower(b); err != nil {
		bc.writeError(c, err)
		return
	}
	if err := bc.Backend.SaveBorrower(c.Request.Context(), b); err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (bc *BorrowerController) UpdateBorrower(c *gin.Context) {
	var in borrowerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	cur, err := bc.Backend.FindBorrower(ctx, c.Param("id"))
	if err != nil {
		bc.writeError(c, err)
		return
	}
	b := in.toModel()
	b.ID, b.CreatedAt = cur.ID, cur.CreatedAt
	if err := ledger.ValidateBorrower(b); err != nil {
		bc.writeError(c, err)
		return
	}
	if err := bc.Backend.SaveBorrower(ctx, b); err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// 仍有未归还借用时不允许删除
func (bc *BorrowerController) DeleteBorrower(c *gin.Context) {
	if err := bc.Ledger.DeleteBorrower(c.Request.Context(), c.Param("id")); err != nil {
		bc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
