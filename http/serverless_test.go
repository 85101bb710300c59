package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"testing/fstest"

	firebase "firebase.google.com/go/v4"
	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/core"
	"github.com/stretchr/testify/assert"
)

func testSite() fstest.MapFS {
	return fstest.MapFS{
		"pages/index.html":  {Data: []byte("<h1>Home</h1>")},
		"public/robots.txt": {Data: []byte("User-agent: *\n")},
	}
}

func useBootstrap(t *testing.T, opts ...core.Option) {
	t.Helper()
	t.Setenv(constants.EnvAppEnv, constants.EnvProduction)
	t.Setenv(constants.EnvTracingExporter, constants.TracingExporterNone)
	ResetServerless()
	prev := bootstrapOptions
	bootstrapOptions = opts
	t.Cleanup(func() {
		bootstrapOptions = prev
		ResetServerless()
	})
}

func countingInit(n *atomic.Int32, err error) core.Option {
	return core.WithPlatformInit(func(ctx context.Context, cfg config.PlatformConfig) (*firebase.App, error) {
		n.Add(1)
		return nil, err
	})
}

func TestServerlessHandler_InitializesOnce(t *testing.T) {
	var inits atomic.Int32
	useBootstrap(t, countingInit(&inits, nil), core.WithSiteFS(testSite()))

	rec := httptest.NewRecorder()
	ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/express", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constants.ExpressResponse, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(constants.HeaderRequestID))

	rec = httptest.NewRecorder()
	ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>Home</h1>", rec.Body.String())

	rec = httptest.NewRecorder()
	ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User-agent: *\n", rec.Body.String())

	rec = httptest.NewRecorder()
	ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/nonexistent-page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, int32(1), inits.Load())
}

func TestServerlessHandler_BootstrapFailure(t *testing.T) {
	var inits atomic.Int32
	useBootstrap(t, countingInit(&inits, errors.New("no credentials")), core.WithSiteFS(testSite()))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/express", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, constants.InternalError+"\n", rec.Body.String())
	}
	assert.Equal(t, int32(1), inits.Load())
}

func TestServerlessHandler_ConfigFailure(t *testing.T) {
	var inits atomic.Int32
	useBootstrap(t, countingInit(&inits, nil), core.WithSiteFS(testSite()))
	t.Setenv(constants.EnvConfigPath, "/nonexistent/sitefn.config.json")

	rec := httptest.NewRecorder()
	ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, int32(0), inits.Load())
}

func TestServerlessHandler_BrokenSite(t *testing.T) {
	var inits atomic.Int32
	useBootstrap(t, countingInit(&inits, nil), core.WithSiteFS(fstest.MapFS{
		"pages/index.html": {Data: []byte("{% if %}")},
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		ServerlessHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}
}

func TestResetServerless(t *testing.T) {
	var inits atomic.Int32
	useBootstrap(t, countingInit(&inits, nil), core.WithSiteFS(testSite()))

	ServerlessHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/express", nil))
	ResetServerless()
	ServerlessHandler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/express", nil))
	assert.Equal(t, int32(2), inits.Load())
}
