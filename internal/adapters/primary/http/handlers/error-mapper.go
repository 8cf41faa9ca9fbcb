package handlers

import (
	"errors"
	"net/http"

	"artifact-proxy/internal/adapters/primary/http/dto"
	"artifact-proxy/internal/core/domain"

	"github.com/gin-gonic/gin"
)

// mapDomainError writes the error response for err. message is the
// operation-level text shown to the client; upstream failures keep their
// status code and body.
func mapDomainError(c *gin.Context, err error, message string) {
	var upErr *domain.UpstreamError

	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidArtifactID):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})

	// Upstream contract violations
	case errors.Is(err, domain.ErrNoRedirectLocation):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: message})

	// Upstream errors
	case errors.As(err, &upErr):
		c.JSON(upstreamStatus(upErr), dto.ErrorResponse{
			Error:   message,
			Details: dto.UpstreamDetails(upErr.Body),
		})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: message})
	}
}

func upstreamStatus(err *domain.UpstreamError) int {
	if err.StatusCode >= http.StatusBadRequest {
		return err.StatusCode
	}
	return http.StatusInternalServerError
}
