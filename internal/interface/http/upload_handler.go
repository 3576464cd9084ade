package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/response"
)

type UploadHandler struct {
	Svc    *application.UploadService
	Logger logrus.FieldLogger
}

func NewUploadHandler(svc *application.UploadService, logger logrus.FieldLogger) *UploadHandler {
	return &UploadHandler{Svc: svc, Logger: logger}
}

type uploadRequest struct {
	Image string `json:"image"`
}

// UploadImage takes a data URI, base64 payload or remote URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.UploadImage(c.Request.Context(), req.Image)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Image uploaded", nil)
}

// UploadFile takes a multipart form with the file in field "image".
func (h *UploadHandler) UploadFile(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		writeError(c, h.Logger, apperror.Validation("Image required"))
		return
	}
	if fh.Size > application.MaxUploadBytes {
		writeError(c, h.Logger, apperror.Validation("File too large"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, apperror.Upload("Upload failed", err))
		return
	}
	defer func() { _ = f.Close() }()

	res, err := h.Svc.UploadFile(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "Image uploaded", nil)
}
