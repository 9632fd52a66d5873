package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"Gin_postgres_redis_asset_lending/app"
	"Gin_postgres_redis_asset_lending/models"
)

type MaintenanceController struct{ *Srv }

func NewMaintenanceController(s *Srv) *MaintenanceController {
	return &MaintenanceController{Srv: s}
}

type maintenanceInput struct {
	AssetID         string                   `json:"assetId"`
	MaintenanceDate string                   `json:"maintenanceDate" binding:"required"`
	Technician      string                   `json:"technician"`
	EstimatedCost   decimal.Decimal          `json:"estimatedCost"`
	Status          models.MaintenanceStatus `json:"status"`
	Notes           string                   `json:"notes"`
}

func (in *maintenanceInput) toModel() (*models.Maintenance, error) {
	day, err := parseDate("maintenanceDate", in.MaintenanceDate)
	if err != nil {
		return nil, err
	}
	return &models.Maintenance{
		AssetID:         in.AssetID,
		MaintenanceDate: day,
		Technician:      in.Technician,
		EstimatedCost:   in.EstimatedCost,
		Status:          in.Status,
		Notes:           in.Notes,
	}, nil
}

// GET /api/maintenance?status=&assetId=
func (mc *MaintenanceController) ListMaintenance(c *gin.Context) {
	ms, err := mc.Backend.ListMaintenance(c.Request.Context(), models.MaintenanceFilter{
		Status:  models.MaintenanceStatus(c.Query("status")),
		AssetID: c.Query("assetId"),
	})
	if err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ms})
}

func (mc *MaintenanceController) GetMaintenance(c *gin.Context) {
	m, err := mc.Backend.FindMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MaintenanceController) CreateMaintenance(c *gin.Context) {
	var in maintenanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m, err := in.toModel()
	if err != nil {
		mc.writeError(c, err)
		return
	}
	if err := mc.Ledger.RecordMaintenance(c.Request.Context(), m); err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// 更新时 assetId、loanId 保持原记录
func (mc *MaintenanceController) UpdateMaintenance(c *gin.Context) {
	var in maintenanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	m, err := in.toModel()
	if err != nil {
		mc.writeError(c, err)
		return
	}
	m.ID = c.Param("id")
	if err := mc.Ledger.UpdateMaintenance(c.Request.Context(), m); err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MaintenanceController) CompleteMaintenance(c *gin.Context) {
	m, err := mc.Ledger.CompleteMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MaintenanceController) DeleteMaintenance(c *gin.Context) {
	if err := mc.Backend.DeleteMaintenance(c.Request.Context(), c.Param("id")); err != nil {
		mc.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
