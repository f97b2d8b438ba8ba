package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// FileStoredPayload 文件上传完成.
type FileStoredPayload struct {
	FileID      uint   `json:"file_id"`
	OwnerID     uint   `json:"owner_id"`
	FolderID    *uint  `json:"folder_id,omitempty"`
	StoredID    string `json:"stored_id"`
	DisplayName string `json:"display_name"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// FileDeletedPayload 文件删除完成.
type FileDeletedPayload struct {
	FileID      uint   `json:"file_id"`
	OwnerID     uint   `json:"owner_id"`
	StoredID    string `json:"stored_id"`
	BlobDeleted bool   `json:"blob_deleted"`
}

// FolderDeletedPayload 文件夹级联删除完成.
type FolderDeletedPayload struct {
	FolderID  uint   `json:"folder_id"`
	OwnerID   uint   `json:"owner_id"`
	FileIDs   []uint `json:"file_ids"`
	Attempted int    `json:"attempted"`
	Failed    int    `json:"failed"`
	Pending   bool   `json:"pending,omitempty"`
}

// BlobOrphanedPayload 对象删除失败.
type BlobOrphanedPayload struct {
	StoredID string `json:"stored_id"`
	OwnerID  uint   `json:"owner_id"`
	FileID   uint   `json:"file_id"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}
