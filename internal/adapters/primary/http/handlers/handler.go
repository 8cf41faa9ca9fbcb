package handlers

import (
	"artifact-proxy/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	artifactSvc *services.ArtifactService
	downloadSvc *services.DownloadService
}

func New(artifactSvc *services.ArtifactService, downloadSvc *services.DownloadService) *Handler {
	return &Handler{
		artifactSvc: artifactSvc,
		downloadSvc: downloadSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Artifacts
	r.GET("/artifacts", h.ListArtifacts)

	// Downloads
	r.GET("/download/:id", h.DownloadArtifact)
}
