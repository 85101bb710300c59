package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/awantoch/sitefn/constants"
	sitehttp "github.com/awantoch/sitefn/http"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Express(t *testing.T) {
	sitehttp.ResetServerless()
	t.Cleanup(sitehttp.ResetServerless)

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pages", "index.html"), []byte("home"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvSiteDir, dir)
	t.Setenv(constants.EnvAppEnv, constants.EnvProduction)

	req := httptest.NewRequest(http.MethodPost, "/express?from=vercel", nil)
	rec := httptest.NewRecorder()
	Handler(rec, req)

	// The platform SDK may not find credentials here; either way the
	// response must never be empty.
	if rec.Code == http.StatusOK {
		assert.Equal(t, constants.ExpressResponse, rec.Body.String())
	} else {
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, constants.InternalError+"\n", rec.Body.String())
	}
}

func TestHandler_BadConfigFile(t *testing.T) {
	sitehttp.ResetServerless()
	t.Cleanup(sitehttp.ResetServerless)

	path := filepath.Join(t.TempDir(), "sitefn.config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(constants.EnvConfigPath, path)

	rec := httptest.NewRecorder()
	Handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
