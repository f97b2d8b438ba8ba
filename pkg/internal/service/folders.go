package service

import (
	"context"
	"errors"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/queue"
	"github.com/yeisme/filevault/pkg/tracing"
)

// RootListing 根目录视图：用户的全部文件夹与根目录下的文件.
type RootListing struct {
	Folders []model.Folder `json:"folders"`
	Files   []model.File   `json:"files"`
}

// ListRootFiles 列出根目录.
func (v *Vault) ListRootFiles(ctx context.Context, id Identity) (listing *RootListing, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.ListRootFiles")
	defer func() {
		v.observe("list_root", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	folders, err := v.meta.ListFolders(ctx, id.UserID)
	if err != nil {
		return nil, storeErr("list folders", err)
	}

	files, err := v.meta.ListRootFiles(ctx, id.UserID)
	if err != nil {
		return nil, storeErr("list root files", err)
	}

	if folders == nil {
		folders = []model.Folder{}
	}

	if files == nil {
		files = []model.File{}
	}

	return &RootListing{Folders: folders, Files: files}, nil
}

// ListFolderFiles 列出文件夹内的文件.
// 文件夹不存在返回 ErrNotFound，属于他人返回 ErrForbidden.
func (v *Vault) ListFolderFiles(ctx context.Context, id Identity, folderID uint) (files []model.File, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.ListFolderFiles")
	defer func() {
		v.observe("list_folder", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	files, err = v.meta.ListFolderFiles(ctx, id.UserID, folderID)
	if errors.Is(err, ErrNotFound) {
		exists, eerr := v.meta.FolderExists(ctx, folderID)
		if eerr != nil {
			return nil, storeErr("find folder", eerr)
		}

		if exists {
			return nil, ErrForbidden
		}

		return nil, ErrNotFound
	}

	if err != nil {
		return nil, storeErr("list folder files", err)
	}

	if files == nil {
		files = []model.File{}
	}

	return files, nil
}

// CreateFolder 新建文件夹，允许重名.
func (v *Vault) CreateFolder(ctx context.Context, id Identity, name string) (folder *model.Folder, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.CreateFolder")
	defer func() {
		v.observe("create_folder", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, storeErr("create folder", ErrInvalidInput)
	}

	folder = &model.Folder{Name: name, OwnerID: id.UserID}
	if err = v.meta.CreateFolder(ctx, folder); err != nil {
		return nil, storeErr("create folder", err)
	}

	return folder, nil
}

// RenameFolder 重命名文件夹，同名重命名视为成功.
func (v *Vault) RenameFolder(ctx context.Context, id Identity, folderID uint, name string) (folder *model.Folder, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.RenameFolder")
	defer func() {
		v.observe("rename_folder", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, storeErr("rename folder", ErrInvalidInput)
	}

	folder, err = v.meta.RenameFolder(ctx, id.UserID, folderID, name)
	if err != nil {
		return nil, storeErr("rename folder", err)
	}

	return folder, nil
}

// DeleteFolder 删除文件夹及其中的文件.
// 元数据在一个事务内删除，提交后为每个文件删除一次对象；对象删除失败不会回滚元数据.
func (v *Vault) DeleteFolder(ctx context.Context, id Identity, folderID uint) (result *DeleteResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.DeleteFolder")
	defer func() {
		v.observe("delete_folder", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	files, err := v.meta.DeleteFolderCascade(ctx, id.UserID, folderID)
	if err != nil {
		return nil, storeErr("delete folder", err)
	}

	if v.async && len(files) > 0 {
		v.wg.Add(1)

		go func() {
			defer v.wg.Done()

			report := v.cleanupBlobs(ctx, id.UserID, files, model.OrphanReasonFolderDelete)
			v.publishFolderDeleted(ctx, id.UserID, folderID, files, report)
		}()

		return &DeleteResult{Report: CleanupReport{Attempted: len(files), Failed: []BlobFailure{}, Pending: true}}, nil
	}

	report := v.cleanupBlobs(ctx, id.UserID, files, model.OrphanReasonFolderDelete)
	v.publishFolderDeleted(ctx, id.UserID, folderID, files, report)

	return &DeleteResult{Report: report}, nil
}

func (v *Vault) publishFolderDeleted(ctx context.Context, ownerID, folderID uint, files []model.File, report CleanupReport) {
	ids := make([]uint, len(files))
	for i := range files {
		ids[i] = files[i].ID
	}

	publishEvent(ctx, v, queue.TopicFolderDeleted, queue.FolderDeletedPayload{
		FolderID:  folderID,
		OwnerID:   ownerID,
		FileIDs:   ids,
		Attempted: report.Attempted,
		Failed:    len(report.Failed),
	})
}
