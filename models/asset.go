// models/asset.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const AssetTable = "dkv_assets"

type Category string

const (
	CategoryStudio    Category = "Studio"
	CategoryIT        Category = "IT"
	CategoryATK       Category = "ATK"
	CategoryFurniture Category = "Furniture"
)

// Categories lists every category in dashboard order.
var Categories = []Category{CategoryStudio, CategoryIT, CategoryATK, CategoryFurniture}

func (c Category) Valid() bool {
	switch c {
	case CategoryStudio, CategoryIT, CategoryATK, CategoryFurniture:
		return true
	}
	return false
}

type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionDamaged Condition = "Damaged"
)

func (c Condition) Valid() bool { return c == ConditionGood || c == ConditionDamaged }

type AssetStatus string

const (
	AssetActive   AssetStatus = "Active"
	AssetInactive AssetStatus = "Inactive"
)

func (s AssetStatus) Valid() bool { return s == AssetActive || s == AssetInactive }

// Asset 一种可借出的库存物品，按件数管理
type Asset struct {
	ID                string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string          `gorm:"size:200;not null" json:"name"`
	Category          Category        `gorm:"size:20;index;not null" json:"category"`
	Brand             string          `gorm:"size:120" json:"brand,omitempty"`
	PurchaseDate      *time.Time      `gorm:"type:date" json:"purchaseDate,omitempty"`
	PurchasePrice     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"purchasePrice"`
	PhotoURL          string          `gorm:"size:500" json:"photoUrl,omitempty"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	TotalQuantity     int             `gorm:"not null;default:0;check:chk_assets_total,total_quantity >= 0" json:"totalQuantity"`
	AvailableQuantity int             `gorm:"not null;default:0;check:chk_assets_available,available_quantity >= 0 AND available_quantity <= total_quantity" json:"availableQuantity"`
	Condition         Condition       `gorm:"size:20;not null;default:'Good'" json:"condition"`
	Status            AssetStatus     `gorm:"size:20;not null;default:'Active'" json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Outstanding 当前借出未还的件数
func (a *Asset) Outstanding() int { return a.TotalQuantity - a.AvailableQuantity }

func (Asset) TableName() string { return AssetTable }
