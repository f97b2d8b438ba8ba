package types

// FolderRequest 创建或重命名文件夹.
type FolderRequest struct {
	Name string `json:"name" rule:"required,notblank,max=255"`
}

// FolderMessages 文件夹请求的错误信息.
var FolderMessages = map[string]string{
	"name.required": "Folder name cannot be empty.",
	"name.notblank": "Folder name cannot be empty.",
	"name.max":      "Folder name is too long.",
}
