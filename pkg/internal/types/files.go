package types

import "github.com/yeisme/filevault/pkg/internal/model"

// UploadFileForm 上传表单，文件字段为 myfile.
type UploadFileForm struct {
	FolderID    *uint  `form:"folder_id"    rule:"omitempty,gt=0"`
	DisplayName string `form:"display_name" rule:"omitempty,max=512"`
}

// RootListingResponse 根目录列表.
type RootListingResponse struct {
	Folders []model.Folder `json:"folders"`
	Files   []model.File   `json:"files"`
}

// FolderFilesResponse 文件夹内文件列表.
type FolderFilesResponse struct {
	FolderID uint         `json:"folder_id"`
	Files    []model.File `json:"files"`
}

// DownloadResponse 下载目标.
type DownloadResponse struct {
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}
