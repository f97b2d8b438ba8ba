package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/types"
)

// CreateFolder 创建文件夹.
//
//	@Summary	创建文件夹
//	@Tags		文件夹
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.FolderRequest	true	"名称"
//	@Success	201		{object}	model.Folder
//	@Failure	400		{object}	types.ValidationResponse
//	@Router		/api/v1/folders [post]
func (h *Handlers) CreateFolder(c *gin.Context) {
	var req types.FolderRequest
	if !bindJSON(c, &req, types.FolderMessages) {
		return
	}

	folder, err := h.Vault.CreateFolder(c.Request.Context(), identity(c), req.Name)
	if err != nil {
		fail(c, "create folder", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusCreated, folder)
}

// ListFolderFiles 文件夹内的文件.
//
//	@Summary	文件夹内容
//	@Tags		文件夹
//	@Produce	json
//	@Param		id	path		int	true	"文件夹 ID"
//	@Success	200	{object}	types.FolderFilesResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/folders/{id}/files [get]
func (h *Handlers) ListFolderFiles(c *gin.Context) {
	folderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	files, err := h.Vault.ListFolderFiles(c.Request.Context(), identity(c), folderID)
	if err != nil {
		fail(c, "list folder", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, types.FolderFilesResponse{FolderID: folderID, Files: files})
}

// RenameFolder 重命名文件夹.
//
//	@Summary	重命名文件夹
//	@Tags		文件夹
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"文件夹 ID"
//	@Param		body	body		types.FolderRequest	true	"新名称"
//	@Success	200		{object}	model.Folder
//	@Failure	404		{object}	types.ErrorResponse
//	@Router		/api/v1/folders/{id} [put]
func (h *Handlers) RenameFolder(c *gin.Context) {
	folderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req types.FolderRequest
	if !bindJSON(c, &req, types.FolderMessages) {
		return
	}

	folder, err := h.Vault.RenameFolder(c.Request.Context(), identity(c), folderID, req.Name)
	if err != nil {
		fail(c, "rename folder", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, folder)
}

// DeleteFolder 删除文件夹及其中的文件.
//
//	@Summary	删除文件夹
//	@Tags		文件夹
//	@Produce	json
//	@Param		id	path		int	true	"文件夹 ID"
//	@Success	200	{object}	service.DeleteResult
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/folders/{id} [delete]
func (h *Handlers) DeleteFolder(c *gin.Context) {
	folderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.Vault.DeleteFolder(c.Request.Context(), identity(c), folderID)
	if err != nil {
		fail(c, "delete folder", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, result)
}
