package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"artifact-proxy/internal/core/domain"
	ports "artifact-proxy/internal/core/ports/output"
)

type ArtifactListOptions struct {
	Limit           int
	RunLimit        int
	PendingStatuses []domain.RunStatus
}

type ArtifactService struct {
	github ports.GitHubClient
	opts   ArtifactListOptions
}

func NewArtifactService(github ports.GitHubClient, opts ArtifactListOptions) *ArtifactService {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.RunLimit < 0 {
		opts.RunLimit = 0
	}
	return &ArtifactService{github: github, opts: opts}
}

// List returns completed artifacts and pending runs, newest first. Every
// upstream call has to succeed; the first failure cancels the others and is
// the only error returned.
func (s *ArtifactService) List(ctx context.Context) ([]domain.ListedArtifact, error) {
	g, gctx := errgroup.WithContext(ctx)

	var artifacts []domain.Artifact
	g.Go(func() error {
		res, err := s.github.ListArtifacts(gctx, s.opts.Limit)
		if err != nil {
			return fmt.Errorf("list artifacts: %w", err)
		}
		artifacts = res
		return nil
	})

	var runsByStatus [][]domain.WorkflowRun
	if s.opts.RunLimit > 0 {
		runsByStatus = make([][]domain.WorkflowRun, len(s.opts.PendingStatuses))
		for i, status := range s.opts.PendingStatuses {
			i, status := i, status
			g.Go(func() error {
				res, err := s.github.ListWorkflowRuns(gctx, status, s.opts.RunLimit)
				if err != nil {
					return fmt.Errorf("list %s workflow runs: %w", status, err)
				}
				runsByStatus[i] = res
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var runs []domain.WorkflowRun
	for _, r := range runsByStatus {
		runs = append(runs, r...)
	}
	runs = domain.NewestRuns(runs, s.opts.RunLimit)

	return domain.MergeArtifacts(artifacts, runs, s.opts.Limit), nil
}
