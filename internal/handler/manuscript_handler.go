package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peerflow/internal/service"
)

// ManuscriptHandler handles manuscript artifact endpoints.
type ManuscriptHandler struct {
	manuscriptService service.ManuscriptService
}

// NewManuscriptHandler creates a new ManuscriptHandler.
func NewManuscriptHandler(manuscriptService service.ManuscriptService) *ManuscriptHandler {
	return &ManuscriptHandler{manuscriptService: manuscriptService}
}

// Upload handles POST /api/v1/manuscripts/upload
// @Summary Upload a manuscript file
// @Description Upload a manuscript artifact (PDF, DOC, DOCX, TeX, or ZIP) and receive its storage key
// @Tags manuscripts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Manuscript file"
// @Success 201 {object} APIResponse{data=service.ManuscriptArtifact} "File uploaded"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 500 {object} APIResponse "Upload failed"
// @Security BearerAuth
// @Router /manuscripts/upload [post]
func (h *ManuscriptHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	artifact, err := h.manuscriptService.Upload(c.Request.Context(), service.ManuscriptUploadInput{
		UploadedBy: userID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, artifact)
}

// DownloadURL handles GET /api/v1/manuscripts/download?key=...
// @Summary Get a manuscript download URL
// @Description Resolve a manuscript storage key to a time-limited download URL
// @Tags manuscripts
// @Produce json
// @Param key query string true "Manuscript storage key"
// @Success 200 {object} APIResponse "Presigned URL"
// @Failure 400 {object} APIResponse "Missing key"
// @Failure 404 {object} APIResponse "Unknown key"
// @Security BearerAuth
// @Router /manuscripts/download [get]
func (h *ManuscriptHandler) DownloadURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "key query parameter is required")
		return
	}

	url, err := h.manuscriptService.GetDownloadURL(c.Request.Context(), key)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
