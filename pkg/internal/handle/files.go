package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/rule"
)

// UploadField 上传表单中的文件字段名.
const UploadField = "myfile"

// ListRootFiles 根目录下的文件夹与文件.
//
//	@Summary	根目录列表
//	@Tags		文件
//	@Produce	json
//	@Success	200	{object}	types.RootListingResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/files [get]
func (h *Handlers) ListRootFiles(c *gin.Context) {
	listing, err := h.Vault.ListRootFiles(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, "list root", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, types.RootListingResponse{Folders: listing.Folders, Files: listing.Files})
}

// UploadFile 上传文件，可选 folder_id 与 display_name.
//
//	@Summary	上传文件
//	@Tags		文件
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		myfile			formData	file	true	"文件"
//	@Param		folder_id		formData	int		false	"目标文件夹"
//	@Param		display_name	formData	string	false	"展示名"
//	@Success	201				{object}	model.File
//	@Failure	400				{object}	types.ErrorResponse
//	@Failure	503				{object}	types.ErrorResponse
//	@Router		/api/v1/files [post]
func (h *Handlers) UploadFile(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: MsgFileTooLarge})

			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	// 表单绑定会先读取整个 multipart 请求体，超限错误可能在这里出现
	var form types.UploadFileForm
	if err := c.ShouldBind(&form); err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: MsgFileTooLarge})

			return
		}

		badRequest(c, err, nil)

		return
	}

	if err := rule.ValidateStruct(&form); err != nil {
		badRequest(c, err, nil)

		return
	}

	header, err := c.FormFile(UploadField)
	if err != nil {
		if isTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: MsgFileTooLarge})

			return
		}

		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: MsgNoFile})

		return
	}

	body, err := header.Open()
	if err != nil {
		fail(c, "open upload", err, MsgDuplicate)

		return
	}
	defer body.Close()

	file, err := h.Vault.UploadFile(c.Request.Context(), identity(c), service.UploadInput{
		FolderID:     form.FolderID,
		Body:         body,
		Size:         header.Size,
		OriginalName: header.Filename,
		DisplayName:  form.DisplayName,
		ContentType:  header.Header.Get("Content-Type"),
	})
	if err != nil {
		fail(c, "upload file", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusCreated, file)
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError

	return errors.As(err, &tooLarge)
}

// GetFile 返回文件的下载地址.
//
//	@Summary	下载地址
//	@Tags		文件
//	@Produce	json
//	@Param		id	path		int	true	"文件 ID"
//	@Success	200	{object}	types.DownloadResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/files/{id} [get]
func (h *Handlers) GetFile(c *gin.Context) {
	target, ok := h.downloadTarget(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, types.DownloadResponse{URL: target.URL, DisplayName: target.DisplayName})
}

// DownloadFile 重定向到文件下载地址.
//
//	@Summary	下载文件
//	@Tags		文件
//	@Param		id	path	int	true	"文件 ID"
//	@Success	302
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/files/{id}/download [get]
func (h *Handlers) DownloadFile(c *gin.Context) {
	target, ok := h.downloadTarget(c)
	if !ok {
		return
	}

	c.Redirect(http.StatusFound, target.URL)
}

func (h *Handlers) downloadTarget(c *gin.Context) (*service.DownloadTarget, bool) {
	fileID, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	target, err := h.Vault.GetDownloadTarget(c.Request.Context(), identity(c), fileID)
	if err != nil {
		fail(c, "download target", err, MsgDuplicate)

		return nil, false
	}

	return target, true
}

// DeleteFile 删除文件，对象删除失败仅体现在报告中.
//
//	@Summary	删除文件
//	@Tags		文件
//	@Produce	json
//	@Param		id	path		int	true	"文件 ID"
//	@Success	200	{object}	service.DeleteResult
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/v1/files/{id} [delete]
func (h *Handlers) DeleteFile(c *gin.Context) {
	fileID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.Vault.DeleteFile(c.Request.Context(), identity(c), fileID)
	if err != nil {
		fail(c, "delete file", err, MsgDuplicate)

		return
	}

	c.JSON(http.StatusOK, result)
}
