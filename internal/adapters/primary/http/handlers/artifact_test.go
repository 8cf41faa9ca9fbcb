package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artifact-proxy/internal/core/domain"
	"artifact-proxy/internal/core/services"
	"artifact-proxy/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, mode domain.DownloadMode) (*testutil.MockGitHubClient, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := new(testutil.MockGitHubClient)

	artifactSvc := services.NewArtifactService(client, services.ArtifactListOptions{
		Limit:           10,
		RunLimit:        5,
		PendingStatuses: []domain.RunStatus{domain.RunStatusInProgress},
	})
	downloadSvc, err := services.NewDownloadService(client, mode)
	require.NoError(t, err)

	h := New(artifactSvc, downloadSvc)
	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)

	return client, r
}

func TestListArtifacts(t *testing.T) {
	client, r := setupRouter(t, domain.DownloadModeRedirect)

	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	client.On("ListArtifacts", mock.Anything, 10).Return([]domain.Artifact{
		{ID: 1, Name: "a1", SizeInBytes: 100, CreatedAt: t0.Add(-time.Hour)},
		{ID: 2, Name: "a2", SizeInBytes: 200, CreatedAt: t0.Add(-2 * time.Hour)},
		{ID: 3, Name: "a3", SizeInBytes: 300, CreatedAt: t0.Add(-3 * time.Hour)},
	}, nil)
	client.On("ListWorkflowRuns", mock.Anything, domain.RunStatusInProgress, 5).Return([]domain.WorkflowRun{
		{ID: 55, Name: "CI", Status: domain.RunStatusInProgress, CreatedAt: t0},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/artifacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Artifacts []map[string]interface{} `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Artifacts, 4)

	assert.Equal(t, "run-55", resp.Artifacts[0]["id"])
	assert.Equal(t, true, resp.Artifacts[0]["is_pending"])
	assert.Equal(t, float64(0), resp.Artifacts[0]["size_in_bytes"])
	assert.Equal(t, float64(1), resp.Artifacts[1]["id"])
	assert.Equal(t, float64(2), resp.Artifacts[2]["id"])
	assert.Equal(t, float64(3), resp.Artifacts[3]["id"])
	_, pending := resp.Artifacts[1]["is_pending"]
	assert.False(t, pending)
}

func TestListArtifacts_UpstreamStatusPropagated(t *testing.T) {
	client, r := setupRouter(t, domain.DownloadModeRedirect)

	client.On("ListArtifacts", mock.Anything, 10).Return(nil, &domain.UpstreamError{
		Operation:  "list_artifacts",
		URL:        "https://api.github.com/repos/acme/widgets/actions/artifacts?per_page=10",
		StatusCode: http.StatusNotFound,
		Body:       []byte(`{"message":"Not Found"}`),
	})
	client.On("ListWorkflowRuns", mock.Anything, domain.RunStatusInProgress, 5).Return([]domain.WorkflowRun{}, nil)

	req, _ := http.NewRequest("GET", "/api/artifacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch artifacts","details":{"message":"Not Found"}}`, w.Body.String())
}

func TestListArtifacts_UnreachableDefaultsTo500(t *testing.T) {
	client, r := setupRouter(t, domain.DownloadModeRedirect)

	client.On("ListArtifacts", mock.Anything, 10).Return([]domain.Artifact{}, nil)
	client.On("ListWorkflowRuns", mock.Anything, domain.RunStatusInProgress, 5).Return(nil, &domain.UpstreamError{
		Operation: "list_workflow_runs",
		Err:       assert.AnError,
	})

	req, _ := http.NewRequest("GET", "/api/artifacts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch artifacts"}`, w.Body.String())
}
