// Package model 定义持久化到关系型数据库的 gorm 模型.
// files.folder_id 带有指向 folders 的外键（ON DELETE RESTRICT），级联删除由仓储在事务内显式完成.
package model

// All 返回需要自动迁移的全部模型.
func All() []any {
	return []any{
		&User{},
		&Folder{},
		&File{},
		&OrphanBlob{},
	}
}
