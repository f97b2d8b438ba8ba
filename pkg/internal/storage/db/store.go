package db

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
)

// Store 基于 gorm 的仓储，实现 service.MetadataStore、service.UserStore 与 service.OrphanStore.
// 所有按用户限定的查询都在同一条 SQL 中带上 owner_id 条件.
type Store struct {
	db *gorm.DB
}

var (
	_ service.MetadataStore = (*Store)(nil)
	_ service.UserStore     = (*Store)(nil)
	_ service.OrphanStore   = (*Store)(nil)
)

// NewStore 创建仓储.
func NewStore(c *Client) *Store {
	return &Store{db: c.DB}
}

const (
	ownedByID     = "id = ? AND owner_id = ?"
	inOwnedFolder = "folder_id = ? AND owner_id = ?"
)

// ListFolders 列出用户的全部文件夹.
func (s *Store) ListFolders(ctx context.Context, ownerID uint) ([]model.Folder, error) {
	var folders []model.Folder

	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&folders).Error

	return folders, translate(err)
}

// ListRootFiles 列出用户根目录下的文件.
func (s *Store) ListRootFiles(ctx context.Context, ownerID uint) ([]model.File, error) {
	var files []model.File

	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND folder_id IS NULL", ownerID).
		Order("id").
		Find(&files).Error

	return files, translate(err)
}

// FolderExists 文件夹是否存在，不区分所有者.
func (s *Store) FolderExists(ctx context.Context, folderID uint) (bool, error) {
	var n int64

	err := s.db.WithContext(ctx).Model(&model.Folder{}).Where("id = ?", folderID).Count(&n).Error

	return n > 0, translate(err)
}

// ListFolderFiles 列出 ownerID 文件夹内的文件，文件夹与文件都按 owner 过滤.
func (s *Store) ListFolderFiles(ctx context.Context, ownerID, folderID uint) ([]model.File, error) {
	var files []model.File

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Folder{}).Where(ownedByID, folderID, ownerID).Count(&n).Error; err != nil {
			return err
		}

		if n == 0 {
			return service.ErrNotFound
		}

		return tx.Where(inOwnedFolder, folderID, ownerID).Order("id").Find(&files).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return files, nil
}

// CreateFolder 新建文件夹.
func (s *Store) CreateFolder(ctx context.Context, folder *model.Folder) error {
	return translate(s.db.WithContext(ctx).Create(folder).Error)
}

// RenameFolder 按 owner 更新文件夹名称，未命中返回 ErrNotFound.
func (s *Store) RenameFolder(ctx context.Context, ownerID, folderID uint, name string) (*model.Folder, error) {
	var folder model.Folder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Folder{}).Where(ownedByID, folderID, ownerID).Update("name", name)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return service.ErrNotFound
		}

		return tx.Where(ownedByID, folderID, ownerID).Take(&folder).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	return &folder, nil
}

// lockFolder 按 owner 触碰文件夹行以取得行锁，直到事务结束；未命中返回 false.
func lockFolder(tx *gorm.DB, ownerID, folderID uint) (bool, error) {
	res := tx.Model(&model.Folder{}).Where(ownedByID, folderID, ownerID).Update("updated_at", time.Now())

	return res.RowsAffected > 0, res.Error
}

// DeleteFolderCascade 在一个事务中锁定文件夹、删除其中的文件行并删除文件夹，返回被删除的文件.
// 锁定后并发的 CreateFile 会等待本事务结束，之后因文件夹不存在而失败.
func (s *Store) DeleteFolderCascade(ctx context.Context, ownerID, folderID uint) ([]model.File, error) {
	var files []model.File

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := lockFolder(tx, ownerID, folderID)
		if err != nil {
			return err
		}

		if !ok {
			return service.ErrNotFound
		}

		if err := tx.Where(inOwnedFolder, folderID, ownerID).Order("id").Find(&files).Error; err != nil {
			return err
		}

		if err := tx.Where(inOwnedFolder, folderID, ownerID).Delete(&model.File{}).Error; err != nil {
			return err
		}

		res := tx.Where(ownedByID, folderID, ownerID).Delete(&model.Folder{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return service.ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	return files, nil
}

// CreateFile 新建文件元数据.
// 指定文件夹时，在同一事务中锁定 owner 的文件夹后再插入；文件夹不存在或属于他人返回 service.ErrForbidden.
func (s *Store) CreateFile(ctx context.Context, file *model.File) error {
	if file.FolderID == nil {
		return translate(s.db.WithContext(ctx).Create(file).Error)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := lockFolder(tx, file.OwnerID, *file.FolderID)
		if err != nil {
			return err
		}

		if !ok {
			return service.ErrForbidden
		}

		return tx.Create(file).Error
	})

	return translate(err)
}

// DeleteFile 按 owner 删除文件行，并发删除时只有影响行数为 1 的调用成功.
// postgres 使用 DELETE ... RETURNING 一条语句完成；其他方言在事务内先锁定再删除.
func (s *Store) DeleteFile(ctx context.Context, ownerID, fileID uint) (*model.File, error) {
	var file model.File

	db := s.db.WithContext(ctx)

	if db.Dialector.Name() == "postgres" {
		res := db.Clauses(clause.Returning{}).Where(ownedByID, fileID, ownerID).Delete(&file)
		if res.Error != nil {
			return nil, translate(res.Error)
		}

		if res.RowsAffected == 0 {
			return nil, service.ErrNotFound
		}

		return &file, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
		}

		if err := q.Where(ownedByID, fileID, ownerID).Take(&file).Error; err != nil {
			return err
		}

		res := tx.Where(ownedByID, fileID, ownerID).Delete(&model.File{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return service.ErrNotFound
		}

		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	return &file, nil
}

// FindFile 按 owner 查找文件.
func (s *Store) FindFile(ctx context.Context, ownerID, fileID uint) (*model.File, error) {
	var file model.File

	if err := s.db.WithContext(ctx).Where(ownedByID, fileID, ownerID).Take(&file).Error; err != nil {
		return nil, translate(err)
	}

	return &file, nil
}

// CreateUser 新建用户，用户名冲突时返回包装了 service.ErrDuplicate 的错误.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// FindUserByUsername 按用户名查找.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User

	if err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// FindUserByID 按 ID 查找.
func (s *Store) FindUserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// RecordOrphans 写入孤儿对象记录，同一对象重复写入时刷新原因与错误信息.
func (s *Store) RecordOrphans(ctx context.Context, orphans []model.OrphanBlob) error {
	if len(orphans) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stored_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reason", "last_error", "updated_at"}),
	}).Create(&orphans).Error

	return translate(err)
}

// PendingOrphans 返回尝试次数未超过上限的记录.
func (s *Store) PendingOrphans(ctx context.Context, limit, maxAttempts int) ([]model.OrphanBlob, error) {
	var orphans []model.OrphanBlob

	err := s.db.WithContext(ctx).
		Where("attempts < ?", maxAttempts).
		Order("id").
		Limit(limit).
		Find(&orphans).Error

	return orphans, translate(err)
}

// ListOrphans 返回全部孤儿记录.
func (s *Store) ListOrphans(ctx context.Context, limit int) ([]model.OrphanBlob, error) {
	var orphans []model.OrphanBlob

	err := s.db.WithContext(ctx).Order("id").Limit(limit).Find(&orphans).Error

	return orphans, translate(err)
}

// ResolveOrphan 对象已删除，移除记录.
func (s *Store) ResolveOrphan(ctx context.Context, id uint) error {
	return translate(s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.OrphanBlob{}).Error)
}

// MarkOrphanAttempt 记录一次失败的重试.
func (s *Store) MarkOrphanAttempt(ctx context.Context, id uint, lastErr string) error {
	err := s.db.WithContext(ctx).Model(&model.OrphanBlob{}).Where("id = ?", id).Updates(map[string]any{
		"attempts":   gorm.Expr("attempts + ?", 1),
		"last_error": lastErr,
	}).Error

	return translate(err)
}

// CountPendingOrphans 统计仍会自动重试的记录数.
func (s *Store) CountPendingOrphans(ctx context.Context, maxAttempts int) (int64, error) {
	var n int64

	err := s.db.WithContext(ctx).Model(&model.OrphanBlob{}).Where("attempts < ?", maxAttempts).Count(&n).Error

	return n, translate(err)
}
