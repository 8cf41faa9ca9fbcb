package domain

import (
	"io"
	"strings"
)

type DownloadMode string

const (
	DownloadModeRedirect DownloadMode = "redirect"
	DownloadModeProxy    DownloadMode = "proxy"
)

func ParseDownloadMode(raw string) (DownloadMode, error) {
	switch m := DownloadMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return DownloadModeRedirect, nil
	case DownloadModeRedirect, DownloadModeProxy:
		return m, nil
	default:
		return "", ErrUnknownDownloadMode
	}
}

// Download is the outcome of a download request. Exactly one of RedirectURL
// or Archive is set.
type Download struct {
	RedirectURL string
	Archive     *Archive
}

// Archive is an open artifact zip stream. The receiver must close Body.
type Archive struct {
	Body     io.ReadCloser
	FileName string
	// Size is the artifact size reported by upstream, 0 when unknown.
	Size int64
}
