package model

import "time"

// File 文件元数据，内容存放在对象存储中.
type File struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// StoredID 对象存储中的键，只在服务端使用
	StoredID    string `gorm:"size:512;not null;index"  json:"-"`
	DisplayName string `gorm:"size:512;not null"        json:"display_name"`
	Size        int64  `json:"size"`
	ContentType string `gorm:"size:255"                 json:"content_type"`
	// Checksum xxhash64 十六进制
	Checksum string `gorm:"size:32" json:"checksum"`
	OwnerID  uint   `gorm:"not null;index"           json:"owner_id"`
	// FolderID 为空表示位于根目录
	FolderID *uint `gorm:"index" json:"folder_id"`
	// Folder 只用于生成外键，文件夹存在文件时不能被直接删除
	Folder    *Folder   `gorm:"foreignKey:FolderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	URL       string    `gorm:"size:2048"     json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// InRoot 是否位于根目录.
func (f *File) InRoot() bool {
	return f.FolderID == nil
}
