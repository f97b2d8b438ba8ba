package model

import "time"

// Folder 文件夹模型，只有一层，名称允许重复.
type Folder struct {
	ID        uint      `gorm:"primaryKey"             json:"id"`
	Name      string    `gorm:"size:255;not null"      json:"name"`
	OwnerID   uint      `gorm:"not null;index"         json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
