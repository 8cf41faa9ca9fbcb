package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"artifact-proxy/internal/config"
	"artifact-proxy/internal/core/domain"
	ports "artifact-proxy/internal/core/ports/output"
)

const (
	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"
	userAgent    = "artifact-proxy"

	maxRedirects = 5
	maxErrorBody = 64 << 10
)

type githubClient struct {
	baseURL string
	token   string
	owner   string
	repo    string

	api        *http.Client // JSON calls
	noRedirect *http.Client // signed URL lookup
	stream     *http.Client // archive relay
}

// NewGitHubClient creates a new GitHub Actions client adapter
func NewGitHubClient(cfg *config.GitHubConfig) ports.GitHubClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &githubClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		token:   cfg.Token,
		owner:   cfg.Owner,
		repo:    cfg.Repo,
		api: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		noRedirect: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		// Timeout covers the whole body read.
		stream: &http.Client{
			Transport: transport,
			Timeout:   cfg.DownloadTimeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Upstream API response structures
type artifactsResponse struct {
	TotalCount int               `json:"total_count"`
	Artifacts  []domain.Artifact `json:"artifacts"`
}

type workflowRunsResponse struct {
	TotalCount   int                  `json:"total_count"`
	WorkflowRuns []domain.WorkflowRun `json:"workflow_runs"`
}

func (c *githubClient) repoURL(path string, query url.Values) string {
	u := fmt.Sprintf("%s/repos/%s/%s/actions/%s",
		c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *githubClient) newRequest(ctx context.Context, reqURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// do sends a GET and returns the response when its status is below 400.
// Anything else is turned into a *domain.UpstreamError.
func (c *githubClient) do(ctx context.Context, client *http.Client, op, reqURL string) (*http.Response, error) {
	req, err := c.newRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"operation": op,
		"url":       reqURL,
	}).Debug("calling upstream")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observeUpstreamCall(op, 0, time.Since(start))
		return nil, &domain.UpstreamError{Operation: op, URL: reqURL, Err: err}
	}
	observeUpstreamCall(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &domain.UpstreamError{
			Operation:  op,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	return resp, nil
}

func (c *githubClient) getJSON(ctx context.Context, op, reqURL string, out interface{}) error {
	resp, err := c.do(ctx, c.api, op, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.UpstreamError{
			Operation:  op,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

func (c *githubClient) ListArtifacts(ctx context.Context, perPage int) ([]domain.Artifact, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))

	var resp artifactsResponse
	if err := c.getJSON(ctx, "list_artifacts", c.repoURL("artifacts", q), &resp); err != nil {
		return nil, err
	}
	return resp.Artifacts, nil
}

func (c *githubClient) ListWorkflowRuns(ctx context.Context, status domain.RunStatus, perPage int) ([]domain.WorkflowRun, error) {
	q := url.Values{}
	q.Set("status", string(status))
	q.Set("per_page", strconv.Itoa(perPage))

	var resp workflowRunsResponse
	if err := c.getJSON(ctx, "list_workflow_runs", c.repoURL("runs", q), &resp); err != nil {
		return nil, err
	}
	return resp.WorkflowRuns, nil
}

func (c *githubClient) GetArtifact(ctx context.Context, id int64) (*domain.Artifact, error) {
	var artifact domain.Artifact
	path := fmt.Sprintf("artifacts/%d", id)
	if err := c.getJSON(ctx, "get_artifact", c.repoURL(path, nil), &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

func (c *githubClient) GetDownloadURL(ctx context.Context, id int64) (string, error) {
	reqURL := c.repoURL(fmt.Sprintf("artifacts/%d/zip", id), nil)

	resp, err := c.do(ctx, c.noRedirect, "download_url", reqURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("artifact %d: status %d: %w", id, resp.StatusCode, domain.ErrNoRedirectLocation)
	}
	return location, nil
}

func (c *githubClient) OpenArchive(ctx context.Context, id int64) (*ports.ArchiveStream, error) {
	reqURL := c.repoURL(fmt.Sprintf("artifacts/%d/zip", id), nil)

	resp, err := c.do(ctx, c.stream, "download_archive", reqURL)
	if err != nil {
		return nil, err
	}

	return &ports.ArchiveStream{
		Body:          &countingBody{ReadCloser: resp.Body},
		ContentLength: resp.ContentLength,
	}, nil
}

// countingBody reports relayed bytes to the metrics collector when closed.
type countingBody struct {
	io.ReadCloser
	n int64
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	return n, err
}

func (b *countingBody) Close() error {
	observeRelayedBytes(b.n)
	return b.ReadCloser.Close()
}
