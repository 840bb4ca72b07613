package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/storage/object"
)

type UploadHandler struct {
	uploader    object.Uploader
	maxFileSize int64
}

func NewUploadHandler(uploader object.Uploader, maxFileSize int64) *UploadHandler {
	return &UploadHandler{uploader: uploader, maxFileSize: maxFileSize}
}

// Upload handles POST /api/uploads. The stored URL is returned for the
// client to attach to a profile, group, event or post.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		response.BadRequestError(c, "File exceeds the size limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.uploader.Upload(c.Request.Context(), file, header.Size, contentType, header.Filename)
	if err != nil {
		if errors.Is(err, object.ErrUnsupportedType) {
			response.BadRequestError(c, "File type not allowed")
			return
		}
		response.InternalServerError(c, "Failed to store file")
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "File uploaded", gin.H{"url": url})
}
