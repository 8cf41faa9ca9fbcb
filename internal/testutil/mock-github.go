package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"artifact-proxy/internal/core/domain"
	ports "artifact-proxy/internal/core/ports/output"
)

// MockGitHubClient is a mock of GitHubClient.
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) ListArtifacts(ctx context.Context, perPage int) ([]domain.Artifact, error) {
	args := m.Called(ctx, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Artifact), args.Error(1)
}

func (m *MockGitHubClient) ListWorkflowRuns(ctx context.Context, status domain.RunStatus, perPage int) ([]domain.WorkflowRun, error) {
	args := m.Called(ctx, status, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkflowRun), args.Error(1)
}

func (m *MockGitHubClient) GetArtifact(ctx context.Context, id int64) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockGitHubClient) GetDownloadURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockGitHubClient) OpenArchive(ctx context.Context, id int64) (*ports.ArchiveStream, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ArchiveStream), args.Error(1)
}
