package model

import "time"

// Role 用户角色.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid 判断角色是否为已知取值.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User 用户模型，注册后不可变.
type User struct {
	ID           uint      `gorm:"primaryKey"                        json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null"     json:"username"`
	PasswordHash string    `gorm:"size:255;not null"                 json:"-"`
	Role         Role      `gorm:"size:16;not null;default:'USER'"   json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
