package handlers

import (
	"errors"
	"net/http"

	"artifact-proxy/internal/adapters/primary/http/dto"
	"artifact-proxy/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const msgListFailed = "Failed to fetch artifacts"

func (h *Handler) ListArtifacts(c *gin.Context) {
	items, err := h.artifactSvc.List(c.Request.Context())
	if err != nil {
		logUpstreamFailure(err, "list artifacts failed")
		mapDomainError(c, err, msgListFailed)
		return
	}

	c.JSON(http.StatusOK, dto.ToListArtifactsResponse(items))
}

func logUpstreamFailure(err error, msg string) {
	entry := log.WithError(err)

	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		entry = entry.WithFields(log.Fields{
			"operation":       upErr.Operation,
			"upstream_url":    upErr.URL,
			"upstream_status": upErr.StatusCode,
			"upstream_body":   string(upErr.Body),
		})
	}
	entry.Error(msg)

	if upErr != nil && upErr.StatusCode == http.StatusNotFound {
		log.Warn("upstream returned 404: check REPO_OWNER and REPO_NAME, and that GITHUB_TOKEN is valid and has access to the repository (repo scope for private repositories)")
	}
}
