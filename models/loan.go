// models/loan.go
package models

import "time"

const LoanTable = "dkv_loans"

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "Borrowed"
	LoanLate     LoanStatus = "Late"
	LoanReturned LoanStatus = "Returned"
)

func (s LoanStatus) Valid() bool {
	return s == LoanBorrowed || s == LoanLate || s == LoanReturned
}

// Open 未归还（Borrowed 或 Late）
func (s LoanStatus) Open() bool { return s == LoanBorrowed || s == LoanLate }

type Loan struct {
	ID                string     `gorm:"type:uuid;primaryKey" json:"id"`
	BorrowerID        string     `gorm:"type:uuid;index;not null" json:"borrowerId"`
	AssetID           string     `gorm:"type:uuid;index;not null" json:"assetId"`
	Quantity          int        `gorm:"not null;check:chk_loans_quantity,quantity > 0" json:"quantity"`
	LoanDate          time.Time  `gorm:"type:date;index;not null" json:"loanDate"`
	PlannedReturnDate time.Time  `gorm:"type:date;not null" json:"plannedReturnDate"`
	ActualReturnDate  *time.Time `gorm:"type:date" json:"actualReturnDate"`
	ConditionOnLoan   Condition  `gorm:"size:20;not null;default:'Good'" json:"conditionOnLoan"`
	ConditionOnReturn *Condition `gorm:"size:20" json:"conditionOnReturn"`
	Status            LoanStatus `gorm:"size:20;index;not null;default:'Borrowed'" json:"status"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (Loan) TableName() string { return LoanTable }
