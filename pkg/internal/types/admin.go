package types

import "github.com/yeisme/filevault/pkg/internal/model"

// OrphanQuery 孤儿对象列表查询.
type OrphanQuery struct {
	Limit int `form:"limit" rule:"omitempty,min=1,max=1000"`
}

// OrphanListResponse 待清理孤儿对象.
type OrphanListResponse struct {
	Orphans []model.OrphanBlob `json:"orphans"`
}
