package ports

import (
	"context"
	"io"

	"artifact-proxy/internal/core/domain"
)

// GitHubClient defines the contract for the upstream workflow artifact API,
// scoped to the configured repository.
type GitHubClient interface {
	// ListArtifacts returns up to perPage completed artifacts, newest first
	ListArtifacts(ctx context.Context, perPage int) ([]domain.Artifact, error)

	// ListWorkflowRuns returns up to perPage runs currently in the given status
	ListWorkflowRuns(ctx context.Context, status domain.RunStatus, perPage int) ([]domain.WorkflowRun, error)

	// GetArtifact fetches metadata (name, size) of a single artifact
	GetArtifact(ctx context.Context, id int64) (*domain.Artifact, error)

	// GetDownloadURL asks for the archive without following redirects and
	// returns the signed URL from the Location header
	GetDownloadURL(ctx context.Context, id int64) (string, error)

	// OpenArchive streams the zip archive, following redirects. The caller closes the body.
	OpenArchive(ctx context.Context, id int64) (*ArchiveStream, error)
}

// ArchiveStream is an open upstream archive response
type ArchiveStream struct {
	Body          io.ReadCloser
	ContentLength int64 // -1 when upstream did not send one
}
