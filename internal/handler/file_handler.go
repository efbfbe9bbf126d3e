package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/VanshChitransh/ConsultabidV1/internal/dto"
	"github.com/VanshChitransh/ConsultabidV1/internal/service"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	svc *service.FileService
}

func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// Upload POST /api/v1/files/upload
// Accepts multipart "files" (repeatable) with "file" as a fallback.
func (h *FileHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No files provided"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No files provided"})
		return
	}

	userID := c.GetUint("userID")

	items := make([]dto.UploadItem, 0, len(files))
	for _, fh := range files {
		item, err := h.svc.Upload(c.Request.Context(), userID, fh)
		if err != nil {
			status := http.StatusBadRequest
			if !errors.Is(err, service.ErrInvalidFile) && !errors.Is(err, service.ErrFileTooLarge) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"success": false, "error": err.Error()})
			return
		}
		items = append(items, *item)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// List GET /api/v1/files
func (h *FileHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// Download GET /api/v1/files/:id/download
func (h *FileHandler) Download(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid file id"})
		return
	}

	obj, upload, size, err := h.svc.Download(c.Request.Context(), c.GetUint("userID"), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch file"})
		return
	}
	defer obj.Close()

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", upload.FileName))
	c.Header("Content-Length", strconv.FormatInt(size, 10))
	c.Header("Content-Type", upload.MimeType)

	io.Copy(c.Writer, obj)
}

// Delete DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid file id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.GetUint("userID"), uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
