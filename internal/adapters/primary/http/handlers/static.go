package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFiles serves the browser UI from dir for routes no API handler
// matched. Dotfiles such as .env are never served.
func StaticFiles(dir string) gin.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) ||
			strings.HasPrefix(p, "/api/") || hasDotSegment(p) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		fs.ServeHTTP(c.Writer, c.Request)
	}
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
