// Package service 实现文件库的所有权与级联引擎，以及账号、会话与孤儿对象清理.
//
// 引擎只依赖本文件定义的存储接口，具体实现由调用方注入：
//
//	vault := service.NewVault(dbStore, s3Client,
//		service.WithBlobTimeout(30*time.Second),
//		service.WithOrphanStore(dbStore),
//	)
//	listing, err := vault.ListRootFiles(ctx, service.Identity{UserID: 1, Role: model.RoleUser})
package service

import (
	"context"
	"io"

	"github.com/yeisme/filevault/pkg/internal/model"
)

// MetadataStore 文件与文件夹元数据存储.
// 所有按 owner 限定的方法都必须在同一条语句中同时匹配 id 与 owner_id；
// 未命中时返回 ErrNotFound.
type MetadataStore interface {
	ListFolders(ctx context.Context, ownerID uint) ([]model.Folder, error)
	ListRootFiles(ctx context.Context, ownerID uint) ([]model.File, error)
	// FolderExists 文件夹是否存在，不区分所有者，只用于区分 ErrNotFound 与 ErrForbidden.
	FolderExists(ctx context.Context, folderID uint) (bool, error)
	// ListFolderFiles 列出 ownerID 名下文件夹内的文件，文件夹不属于 ownerID 时返回 ErrNotFound.
	ListFolderFiles(ctx context.Context, ownerID, folderID uint) ([]model.File, error)
	CreateFolder(ctx context.Context, folder *model.Folder) error
	RenameFolder(ctx context.Context, ownerID, folderID uint, name string) (*model.Folder, error)
	// DeleteFolderCascade 在一个事务中锁定文件夹、删除其中属于 ownerID 的文件行并删除文件夹，
	// 返回被删除的文件.
	DeleteFolderCascade(ctx context.Context, ownerID, folderID uint) ([]model.File, error)
	// CreateFile 指定文件夹时，文件夹的归属检查与插入必须是原子的；
	// 文件夹不存在或不属于 file.OwnerID 时返回 ErrForbidden 且不写入任何行.
	CreateFile(ctx context.Context, file *model.File) error
	// DeleteFile 按 owner 删除文件行并返回被删除的记录，是否成功只由影响行数决定.
	DeleteFile(ctx context.Context, ownerID, fileID uint) (*model.File, error)
	FindFile(ctx context.Context, ownerID, fileID uint) (*model.File, error)
}

// UserStore 账号存储.
type UserStore interface {
	// CreateUser 用户名冲突时返回包装了 ErrDuplicate 的错误.
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByID(ctx context.Context, id uint) (*model.User, error)
}

// OrphanStore 孤儿对象清理日志.
type OrphanStore interface {
	RecordOrphans(ctx context.Context, orphans []model.OrphanBlob) error
	PendingOrphans(ctx context.Context, limit, maxAttempts int) ([]model.OrphanBlob, error)
	ListOrphans(ctx context.Context, limit int) ([]model.OrphanBlob, error)
	ResolveOrphan(ctx context.Context, id uint) error
	MarkOrphanAttempt(ctx context.Context, id uint, lastErr string) error
	CountPendingOrphans(ctx context.Context, maxAttempts int) (int64, error)
}

// BlobUpload 上传到对象存储的内容.
type BlobUpload struct {
	Body        io.Reader
	Size        int64 // 未知时为 -1
	HintName    string
	ContentType string
	OwnerID     uint
}

// BlobObject 对象存储返回的结果.
type BlobObject struct {
	ID       string
	URL      string
	Size     int64
	Checksum string
}

// BlobStore 远程对象存储.
type BlobStore interface {
	Upload(ctx context.Context, in BlobUpload) (BlobObject, error)
	// Delete 删除对象，对象不存在不视为错误.
	Delete(ctx context.Context, storedID string) error
}

// Identity 已认证的调用方身份，由会话层解析后显式传入.
type Identity struct {
	UserID   uint       `json:"user_id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Valid 身份是否完整.
func (i Identity) Valid() bool {
	return i.UserID != 0
}

// IsAdmin 是否为管理员.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}
