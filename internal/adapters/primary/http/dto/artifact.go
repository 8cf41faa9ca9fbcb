package dto

import (
	"encoding/json"
	"time"

	"artifact-proxy/internal/core/domain"
)

// ============================================================================
// Response DTOs
// ============================================================================

// ArtifactResponse is one list entry. ID is a number for completed artifacts
// and a "run-<id>" string for pending runs, which is what the UI expects.
type ArtifactResponse struct {
	ID                 interface{}          `json:"id"`
	Name               string               `json:"name"`
	SizeInBytes        int64                `json:"size_in_bytes"`
	ArchiveDownloadURL string               `json:"archive_download_url,omitempty"`
	Expired            bool                 `json:"expired"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          *time.Time           `json:"updated_at,omitempty"`
	ExpiresAt          *time.Time           `json:"expires_at,omitempty"`
	IsPending          bool                 `json:"is_pending,omitempty"`
	WorkflowRun        *WorkflowRunResponse `json:"workflow_run,omitempty"`
}

type WorkflowRunResponse struct {
	ID         int64  `json:"id"`
	HeadBranch string `json:"head_branch,omitempty"`
	HeadSHA    string `json:"head_sha,omitempty"`
}

type ListArtifactsResponse struct {
	Artifacts []ArtifactResponse `json:"artifacts"`
}

// ErrorResponse is the body of every failed /api call.
type ErrorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

func ToArtifactResponse(a domain.ListedArtifact) ArtifactResponse {
	resp := ArtifactResponse{
		Name:               a.Name,
		SizeInBytes:        a.SizeInBytes,
		ArchiveDownloadURL: a.ArchiveDownloadURL,
		Expired:            a.Expired,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		ExpiresAt:          a.ExpiresAt,
		IsPending:          a.IsPending,
	}
	if a.IsPending {
		resp.ID = a.ID
	} else {
		resp.ID = a.ArtifactID
	}
	if a.WorkflowRun != nil {
		resp.WorkflowRun = &WorkflowRunResponse{
			ID:         a.WorkflowRun.ID,
			HeadBranch: a.WorkflowRun.HeadBranch,
			HeadSHA:    a.WorkflowRun.HeadSHA,
		}
	}
	return resp
}

func ToListArtifactsResponse(items []domain.ListedArtifact) ListArtifactsResponse {
	out := make([]ArtifactResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToArtifactResponse(it))
	}
	return ListArtifactsResponse{Artifacts: out}
}

// UpstreamDetails returns body as raw JSON when it is valid JSON, otherwise as
// a JSON string. Empty bodies yield nil.
func UpstreamDetails(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}
