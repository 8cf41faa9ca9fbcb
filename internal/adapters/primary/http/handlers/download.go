package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"artifact-proxy/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const msgDownloadFailed = "Failed to retrieve download link"

func (h *Handler) DownloadArtifact(c *gin.Context) {
	id := c.Param("id")

	dl, err := h.downloadSvc.Download(c.Request.Context(), id)
	if err != nil {
		logUpstreamFailure(err, fmt.Sprintf("download artifact %s failed (mode: %s)", id, h.downloadSvc.Mode()))
		mapDomainError(c, err, msgDownloadFailed)
		return
	}

	if dl.Archive == nil {
		c.Redirect(http.StatusFound, dl.RedirectURL)
		return
	}

	h.relayArchive(c, id, dl.Archive)
}

// relayArchive streams the archive to the client as it arrives. The upstream
// request shares the inbound context, so a client disconnect aborts the read
// and releases the upstream connection.
func (h *Handler) relayArchive(c *gin.Context, id string, archive *domain.Archive) {
	defer archive.Body.Close()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", contentDisposition(archive.FileName))
	if archive.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(archive.Size, 10))
	}
	c.Status(http.StatusOK)

	n, err := io.Copy(c.Writer, archive.Body)
	if err == nil {
		return
	}

	fields := log.Fields{
		"artifact_id":   id,
		"bytes_relayed": n,
		"size":          archive.Size,
	}
	if c.Request.Context().Err() != nil {
		log.WithFields(fields).WithError(fmt.Errorf("%w: %v", domain.ErrClientDisconnected, err)).Info("archive relay stopped")
	} else {
		log.WithFields(fields).WithError(err).Error("archive relay failed")
	}
	c.Abort()
}

// contentDisposition builds an attachment header carrying both a plain ASCII
// filename and the RFC 5987 UTF-8 form.
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, asciiFilename(name), encodeRFC5987(name))
}

func asciiFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func encodeRFC5987(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isAttrChar(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0f])
	}
	return b.String()
}

// isAttrChar reports bytes that RFC 5987 allows unescaped in an ext-value.
func isAttrChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	switch ch {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
