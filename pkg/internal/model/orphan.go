package model

import "time"

// OrphanBlob 元数据已删除但对象删除失败的记录，供后台重试清理.
type OrphanBlob struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	StoredID  string    `gorm:"size:512;not null;uniqueIndex"  json:"stored_id"`
	OwnerID   uint      `gorm:"index"                     json:"owner_id"`
	FileID    uint      `json:"file_id"`
	Reason    string    `gorm:"size:64"                   json:"reason"`
	Attempts  int       `gorm:"not null;default:0;index"  json:"attempts"`
	LastError string    `gorm:"type:text"                 json:"last_error"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// 孤儿对象产生原因.
const (
	OrphanReasonFileDelete   = "file_delete"
	OrphanReasonFolderDelete = "folder_delete"
	OrphanReasonRollback     = "upload_rollback"
)
