package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/assets"
)

const maxUploadSize = 10 << 20

type UploadHandler struct {
	Uploader assets.Uploader
}

type UploadResponse struct {
	SecureURL string `json:"secureUrl"`
}

// POST /api/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to open file"})
		return
	}
	defer f.Close()

	url, err := h.Uploader.Upload(c.Request.Context(), file.Filename, f)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, assets.ErrNotConfigured) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{SecureURL: url})
}
