package models

// AssetFilter 模糊搜索匹配 name/brand
type AssetFilter struct {
	Search   string
	Category Category
}

type BorrowerFilter struct {
	Search string // name or class
	Role   BorrowerRole
}

// LoanFilter 空字段表示不过滤
type LoanFilter struct {
	Status     LoanStatus
	ActiveOnly bool
	BorrowerID string
	AssetID    string
}

type MaintenanceFilter struct {
	Status  MaintenanceStatus
	AssetID string
}
