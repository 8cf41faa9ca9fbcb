package services

import (
	"context"
	"fmt"

	"artifact-proxy/internal/core/domain"
	ports "artifact-proxy/internal/core/ports/output"
)

// downloadStrategy is implemented once per domain.DownloadMode.
type downloadStrategy interface {
	download(ctx context.Context, id int64) (*domain.Download, error)
}

type DownloadService struct {
	mode     domain.DownloadMode
	strategy downloadStrategy
}

func NewDownloadService(github ports.GitHubClient, mode domain.DownloadMode) (*DownloadService, error) {
	var strategy downloadStrategy
	switch mode {
	case domain.DownloadModeRedirect:
		strategy = redirectStrategy{github: github}
	case domain.DownloadModeProxy:
		strategy = proxyStrategy{github: github}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDownloadMode, mode)
	}
	return &DownloadService{mode: mode, strategy: strategy}, nil
}

func (s *DownloadService) Mode() domain.DownloadMode {
	return s.mode
}

// Download resolves rawID to either a signed redirect URL or an open
// archive stream, depending on the configured mode.
func (s *DownloadService) Download(ctx context.Context, rawID string) (*domain.Download, error) {
	id, err := domain.ParseArtifactID(rawID)
	if err != nil {
		return nil, err
	}
	return s.strategy.download(ctx, id)
}

type redirectStrategy struct {
	github ports.GitHubClient
}

func (r redirectStrategy) download(ctx context.Context, id int64) (*domain.Download, error) {
	signedURL, err := r.github.GetDownloadURL(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve download url: %w", err)
	}
	if signedURL == "" {
		return nil, domain.ErrNoRedirectLocation
	}
	return &domain.Download{RedirectURL: signedURL}, nil
}

type proxyStrategy struct {
	github ports.GitHubClient
}

func (p proxyStrategy) download(ctx context.Context, id int64) (*domain.Download, error) {
	artifact, err := p.github.GetArtifact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get artifact metadata: %w", err)
	}

	stream, err := p.github.OpenArchive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	size := artifact.SizeInBytes
	if size <= 0 && stream.ContentLength > 0 {
		size = stream.ContentLength
	}

	return &domain.Download{
		Archive: &domain.Archive{
			Body:     stream.Body,
			FileName: artifact.ArchiveName(),
			Size:     size,
		},
	}, nil
}
