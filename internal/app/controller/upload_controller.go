package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mivitrina/mivitrina-backend/internal/errors"
	"github.com/mivitrina/mivitrina-backend/internal/middleware"
	"github.com/mivitrina/mivitrina-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// maxUploadSize caps image uploads at 5MB. Storefront photos come from
// phone cameras and anything larger is almost always a mistake.
const maxUploadSize = 5 * 1024 * 1024

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size"`
	Folder      string `json:"folder"` // defaults to "products"
}

// GeneratePresignedURL issues a presigned S3 upload URL for product and
// store imagery
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos del archivo no son válidos")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Solo se permiten imágenes JPEG, PNG o WEBP")
		return
	}

	if req.FileSize > 0 {
		if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
			log.Warn("File too large", map[string]interface{}{
				"file_size": req.FileSize,
			})
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "La imagen no puede superar los 5MB")
			return
		}
	}

	folder := req.Folder
	if folder == "" {
		folder = storage.FolderProducts
	}

	response, err := ctrl.storage.GeneratePresignedURLWithFolder(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "No se pudo preparar la subida del archivo")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
