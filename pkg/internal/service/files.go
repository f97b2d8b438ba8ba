package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/queue"
	"github.com/yeisme/filevault/pkg/tracing"
)

// UploadInput 上传参数.
type UploadInput struct {
	FolderID     *uint
	Body         io.Reader
	Size         int64
	OriginalName string
	DisplayName  string
	ContentType  string
}

// DownloadTarget 下载地址与展示名，不包含对象存储键.
type DownloadTarget struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}

// UploadFile 先写对象再写元数据，文件夹归属检查与元数据插入在存储层原子完成.
// 对象写入失败返回 StorageUnavailableError 且不写元数据；之后的任何失败都会尽力删除已写入的对象.
func (v *Vault) UploadFile(ctx context.Context, id Identity, in UploadInput) (file *model.File, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.UploadFile")
	defer func() {
		v.observe("upload_file", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	if in.Body == nil {
		return nil, storeErr("upload file", ErrInvalidInput)
	}

	obj, err := v.blob.upload(ctx, BlobUpload{
		Body:        in.Body,
		Size:        in.Size,
		HintName:    in.OriginalName,
		ContentType: in.ContentType,
		OwnerID:     id.UserID,
	})
	if err != nil {
		return nil, storageErr("upload file", err)
	}

	display := strings.TrimSpace(in.DisplayName)
	if display == "" {
		display = path.Base(obj.ID)
	}

	size := obj.Size
	if size <= 0 {
		size = in.Size
	}

	file = &model.File{
		StoredID:    obj.ID,
		DisplayName: display,
		Size:        size,
		ContentType: in.ContentType,
		Checksum:    obj.Checksum,
		OwnerID:     id.UserID,
		FolderID:    in.FolderID,
		URL:         obj.URL,
	}

	if err = v.meta.CreateFile(ctx, file); err != nil {
		v.rollbackBlob(ctx, id.UserID, obj)

		if errors.Is(err, ErrForbidden) {
			return nil, ErrForbidden
		}

		return nil, storeErr("create file", err)
	}

	publishEvent(ctx, v, queue.TopicFileStored, queue.FileStoredPayload{
		FileID:      file.ID,
		OwnerID:     file.OwnerID,
		FolderID:    file.FolderID,
		StoredID:    file.StoredID,
		DisplayName: file.DisplayName,
		Size:        file.Size,
		Checksum:    file.Checksum,
		ContentType: file.ContentType,
	})

	return file, nil
}

// rollbackBlob 撤销已写入的对象，失败只记录.
func (v *Vault) rollbackBlob(ctx context.Context, ownerID uint, obj BlobObject) {
	ctx = context.WithoutCancel(ctx)

	if err := v.blob.delete(ctx, obj.ID); err != nil {
		v.recordOrphans(ctx, ownerID, model.OrphanReasonRollback, []BlobFailure{{
			StoredID: obj.ID,
			Error:    err.Error(),
		}})
	}
}

// DeleteFile 删除文件.
// 元数据删除成功后才删除对象，对象删除失败记入报告与孤儿日志，不影响结果.
func (v *Vault) DeleteFile(ctx context.Context, id Identity, fileID uint) (result *DeleteResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.DeleteFile")
	defer func() {
		v.observe("delete_file", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	file, err := v.meta.DeleteFile(ctx, id.UserID, fileID)
	if err != nil {
		return nil, storeErr("delete file", err)
	}

	report := v.cleanupBlobs(ctx, id.UserID, []model.File{*file}, model.OrphanReasonFileDelete)

	publishEvent(ctx, v, queue.TopicFileDeleted, queue.FileDeletedPayload{
		FileID:      file.ID,
		OwnerID:     file.OwnerID,
		StoredID:    file.StoredID,
		BlobDeleted: len(report.Failed) == 0,
	})

	return &DeleteResult{Report: report}, nil
}

// GetDownloadTarget 返回文件的下载地址.
func (v *Vault) GetDownloadTarget(ctx context.Context, id Identity, fileID uint) (target *DownloadTarget, err error) {
	ctx, span := tracing.StartSpan(ctx, "vault.GetDownloadTarget")
	defer func() {
		v.observe("download_target", err)
		tracing.EndSpan(span, err)
	}()

	if err = v.authorize(id); err != nil {
		return nil, err
	}

	file, err := v.meta.FindFile(ctx, id.UserID, fileID)
	if err != nil {
		return nil, storeErr("find file", err)
	}

	return &DownloadTarget{URL: file.URL, DisplayName: file.DisplayName}, nil
}
