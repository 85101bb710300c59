package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(constants.HeaderRequestID)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, seen)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderRequestID, "upstream-1")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-1", rec.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, "upstream-1", seen)
}

func TestRequestID_KeptOnErrorResponses(t *testing.T) {
	h := RequestID(NewDispatcher(&fakeApp{prepareErr: errors.New("templates broken")}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderRequestID, "req-123")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get(constants.HeaderRequestID))
	assert.Equal(t, constants.ContentTypeText, rec.Header().Get(constants.HeaderContentType))
}
