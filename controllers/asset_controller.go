// controllers/asset_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/models"
)

type AssetController struct{ *Srv }

func NewAssetController(s *Srv) *AssetController { return &AssetController{Srv: s} }

type assetInput struct {
	Name          string             `json:"name" binding:"required"`
	Category      models.Category    `json:"category" binding:"required"`
	Brand         string             `json:"brand"`
	PurchaseDate  *string            `json:"purchaseDate"`
	PurchasePrice decimal.Decimal    `json:"purchasePrice"`
	PhotoURL      string             `json:"photoUrl"`
	Notes         string             `json:"notes"`
	TotalQuantity int                `json:"totalQuantity"`
	Condition     models.Condition   `json:"condition"`
	Status        models.AssetStatus `json:"status"`
}

func (in *assetInput) toModel() (*models.Asset, error) {
	bought, err := parseOptionalDate("purchaseDate", in.PurchaseDate)
	if err != nil {
		return nil, err
	}
	return &models.Asset{
		Name:          in.Name,
		Category:      in.Category,
		Brand:         in.Brand,
		PurchaseDate:  bought,
		PurchasePrice: in.PurchasePrice,
		PhotoURL:      in.PhotoURL,
		Notes:         in.Notes,
		TotalQuantity: in.TotalQuantity,
		Condition:     in.Condition,
		Status:        in.Status,
	}, nil
}

// GET /api/assets?search=&category=
func (ac *AssetController) ListAssets(c *gin.Context) {
	assets, err := ac.Backend.ListAssets(c.Request.Context(), models.AssetFilter{
		Search:   c.Query("search"),
		Category: models.Category(c.Query("category")),
	})
	if err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": assets})
}

func (ac *AssetController) GetAsset(c *gin.Context) {
	a, err := ac.Backend.FindAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// 管理员登记物品，全部件数可借
func (ac *AssetController) CreateAsset(c *gin.Context) {
	var in assetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := in.toModel()
	if err != nil {
		ac.writeError(c, err)
		return
	}
	if err := ac.Ledger.RegisterAsset(c.Request.Context(), a); err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (ac *AssetController) UpdateAsset(c *gin.Context) {
	var in assetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := in.toModel()
	if err != nil {
		ac.writeError(c, err)
		return
	}
	a.ID = c.Param("id")
	if err := ac.Ledger.UpdateAsset(c.Request.Context(), a); err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ac *AssetController) DeleteAsset(c *gin.Context) {
	if err := ac.Ledger.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		ac.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
