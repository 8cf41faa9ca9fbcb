package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>artifacts</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=secret"), 0o600))

	r := gin.New()
	r.NoRoute(StaticFiles(dir))

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "index", method: "GET", path: "/", wantCode: http.StatusOK, wantBody: "<h1>artifacts</h1>"},
		{name: "dotfile hidden", method: "GET", path: "/.env", wantCode: http.StatusNotFound},
		{name: "unknown api route", method: "GET", path: "/api/nope", wantCode: http.StatusNotFound},
		{name: "post rejected", method: "POST", path: "/index.html", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}
