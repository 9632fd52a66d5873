package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const MaintenanceTable = "dkv_maintenance"

type MaintenanceStatus string

const (
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
)

func (s MaintenanceStatus) Valid() bool {
	return s == MaintenanceInProgress || s == MaintenanceCompleted
}

// Maintenance 维修记录；由损坏归还自动生成时带 LoanID
type Maintenance struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID         string            `gorm:"type:uuid;index;not null" json:"assetId"`
	LoanID          *string           `gorm:"type:uuid;index" json:"loanId,omitempty"`
	MaintenanceDate time.Time         `gorm:"type:date;not null" json:"maintenanceDate"`
	Technician      string            `gorm:"size:120" json:"technician,omitempty"`
	EstimatedCost   decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"estimatedCost"`
	Status          MaintenanceStatus `gorm:"size:20;index;not null;default:'In Progress'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (Maintenance) TableName() string { return MaintenanceTable }
