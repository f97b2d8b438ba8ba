package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件操作相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup, h *handle.Handlers) {
	filesRoutes := g.Group("/files")
	{
		// 根目录列表与上传
		filesRoutes.GET("", h.ListRootFiles)
		filesRoutes.POST("", h.UploadFile)

		// 单个文件操作
		singleGroup := filesRoutes.Group("/:id")
		{
			singleGroup.GET("", h.GetFile)
			singleGroup.GET("/download", h.DownloadFile)
			singleGroup.DELETE("", h.DeleteFile)
		}
	}
}

// RegisterFoldersRoutes 注册文件夹相关路由.
func RegisterFoldersRoutes(g *gin.RouterGroup, h *handle.Handlers) {
	folderRoutes := g.Group("/folders")
	{
		folderRoutes.POST("", h.CreateFolder)
		folderRoutes.GET("/:id/files", h.ListFolderFiles)
		folderRoutes.PUT("/:id", h.RenameFolder)
		folderRoutes.DELETE("/:id", h.DeleteFolder)
	}
}
