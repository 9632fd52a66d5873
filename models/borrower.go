package models

import "time"

const BorrowerTable = "dkv_borrowers"

type BorrowerRole string

const (
	BorrowerStudent BorrowerRole = "Student"
	BorrowerTeacher BorrowerRole = "Teacher"
)

func (r BorrowerRole) Valid() bool { return r == BorrowerStudent || r == BorrowerTeacher }

type Borrower struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string       `gorm:"size:200;not null" json:"name"`
	Role      BorrowerRole `gorm:"size:20;index;not null" json:"role"`
	Class     *string      `gorm:"size:60" json:"class,omitempty"` // only students have a class
	Phone     string       `gorm:"size:40" json:"phone,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Borrower) TableName() string { return BorrowerTable }
