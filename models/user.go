package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

func (r UserRole) Valid() bool { return r == RoleAdmin || r == RoleStudent }

// User 登录账号（管理员 / 学生），与 Borrower 无关联
type User struct {
	ID           string   `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string   `gorm:"uniqueIndex;size:255;not null" json:"username"`
	DisplayName  string   `gorm:"size:255;not null" json:"displayName"`
	PasswordHash string   `gorm:"size:100;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;default:'student'" json:"role"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (User) TableName() string {
	return "dkv_users"
}

// UserPage 分页结果
type UserPage struct {
	Users []User `json:"users"`
	Total int64  `json:"total"`
}
