package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusWaiting    RunStatus = "waiting"
	RunStatusRequested  RunStatus = "requested"
	RunStatusPending    RunStatus = "pending"
)

// IsUnfinished reports whether s is a run status GitHub uses for runs that
// have not completed yet.
func (s RunStatus) IsUnfinished() bool {
	switch s {
	case RunStatusQueued, RunStatusInProgress, RunStatusWaiting, RunStatusRequested, RunStatusPending:
		return true
	}
	return false
}

// ParseRunStatuses parses a comma separated status list, skipping blanks and duplicates.
func ParseRunStatuses(raw string) []RunStatus {
	var out []RunStatus
	for _, part := range strings.Split(raw, ",") {
		s := RunStatus(strings.TrimSpace(strings.ToLower(part)))
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// WorkflowRunRef is the subset of a workflow run embedded in an artifact.
type WorkflowRunRef struct {
	ID         int64  `json:"id"`
	HeadBranch string `json:"head_branch,omitempty"`
	HeadSHA    string `json:"head_sha,omitempty"`
}

type Artifact struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	SizeInBytes        int64           `json:"size_in_bytes"`
	ArchiveDownloadURL string          `json:"archive_download_url"`
	Expired            bool            `json:"expired"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          *time.Time      `json:"updated_at"`
	ExpiresAt          *time.Time      `json:"expires_at"`
	WorkflowRun        *WorkflowRunRef `json:"workflow_run"`
}

// ArchiveName is the file name offered to clients for the zipped artifact.
func (a *Artifact) ArchiveName() string {
	return a.Name + ".zip"
}

type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     RunStatus `json:"status"`
	HeadBranch string    `json:"head_branch"`
	HTMLURL    string    `json:"html_url"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	pendingIDPrefix    = "run-"
	pendingDefaultName = "Building..."
)

// ListedArtifact is one entry of the merged artifact list. Completed
// artifacts and placeholders for unfinished runs share this shape so they can
// be ordered by a single key.
type ListedArtifact struct {
	ID                 string
	ArtifactID         int64
	Name               string
	SizeInBytes        int64
	ArchiveDownloadURL string
	Expired            bool
	IsPending          bool
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	ExpiresAt          *time.Time
	WorkflowRun        *WorkflowRunRef
}

func ListedFromArtifact(a Artifact) ListedArtifact {
	return ListedArtifact{
		ID:                 strconv.FormatInt(a.ID, 10),
		ArtifactID:         a.ID,
		Name:               a.Name,
		SizeInBytes:        a.SizeInBytes,
		ArchiveDownloadURL: a.ArchiveDownloadURL,
		Expired:            a.Expired,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
		ExpiresAt:          a.ExpiresAt,
		WorkflowRun:        a.WorkflowRun,
	}
}

// PendingFromRun builds the placeholder shown while a run has not produced artifacts yet.
func PendingFromRun(run WorkflowRun) ListedArtifact {
	name := run.Name
	if name == "" {
		name = pendingDefaultName
	}
	return ListedArtifact{
		ID:          PendingID(run.ID),
		Name:        name,
		IsPending:   true,
		CreatedAt:   run.CreatedAt,
		WorkflowRun: &WorkflowRunRef{ID: run.ID, HeadBranch: run.HeadBranch},
	}
}

func PendingID(runID int64) string {
	return fmt.Sprintf("%s%d", pendingIDPrefix, runID)
}

// MergeArtifacts interleaves pending runs and completed artifacts newest
// first and truncates the result to limit. Pending entries are placed before
// completed ones so equal timestamps favour the run.
func MergeArtifacts(artifacts []Artifact, runs []WorkflowRun, limit int) []ListedArtifact {
	items := make([]ListedArtifact, 0, len(artifacts)+len(runs))
	for _, r := range runs {
		items = append(items, PendingFromRun(r))
	}
	for _, a := range artifacts {
		items = append(items, ListedFromArtifact(a))
	}

	slices.SortStableFunc(items, func(a, b ListedArtifact) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// NewestRuns drops duplicate run ids and keeps the limit most recent runs.
func NewestRuns(runs []WorkflowRun, limit int) []WorkflowRun {
	seen := make(map[int64]struct{}, len(runs))
	out := make([]WorkflowRun, 0, len(runs))
	for _, r := range runs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b WorkflowRun) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ParseArtifactID accepts only positive numeric ids; pending ids are rejected.
func ParseArtifactID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidArtifactID, raw)
	}
	return id, nil
}
