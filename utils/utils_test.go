package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/awantoch/sitefn/constants"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

// ============================================================================
// LOGGER TESTS
// ============================================================================

func TestLoggerOutputs(t *testing.T) {
	var userBuf bytes.Buffer
	SetUserOutput(&userBuf)
	User("test user output")
	if !strings.Contains(userBuf.String(), "test user output") {
		t.Error("User output not captured correctly")
	}

	var internalBuf bytes.Buffer
	SetInternalOutput(&internalBuf)
	Info("test internal output")
	Debug("test debug output")
	if !strings.Contains(internalBuf.String(), "test internal output") {
		t.Error("Internal output not captured correctly")
	}
	if !strings.Contains(internalBuf.String(), "test debug output") {
		t.Error("Debug output should be captured by SetInternalOutput")
	}

	SetUserOutput(os.Stdout)
	SetInternalOutput(os.Stderr)
}

func TestLoggerWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := &LoggerWriter{
		Fn: func(format string, v ...any) {
			buf.WriteString(fmt.Sprintf(format, v...) + "\n")
		},
		Prefix: "[TEST] ",
	}

	n, err := writer.Write([]byte("line1\n\nline2"))
	if err != nil {
		t.Errorf("LoggerWriter.Write failed: %v", err)
	}
	if n != len("line1\n\nline2") {
		t.Errorf("expected %d bytes written, got %d", len("line1\n\nline2"), n)
	}
	assert.Equal(t, "[TEST] line1\n[TEST] line2\n", buf.String())
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	SetInternalOutput(&buf)
	defer SetInternalOutput(os.Stderr)

	ctx := WithRequestID(context.Background(), "req-123")
	requestID, ok := RequestIDFromContext(ctx)
	if !ok || requestID != "req-123" {
		t.Errorf("expected request ID 'req-123', got %q (ok=%v)", requestID, ok)
	}

	InfoCtx(ctx, "serving page", "path", "/about")
	out := buf.String()
	assert.Contains(t, out, "serving page")
	assert.Contains(t, out, "req-123")
	assert.Contains(t, out, "/about")

	_, ok = RequestIDFromContext(context.Background())
	if ok {
		t.Error("RequestIDFromContext should return false for context without request ID")
	}
}

func TestLoggerModes(t *testing.T) {
	defer SetMode("production")

	SetMode("debug")
	assert.True(t, internalLogger.Desugar().Core().Enabled(zapcore.DebugLevel))

	if os.Getenv(constants.EnvDebug) == "" {
		SetMode("production")
		assert.False(t, internalLogger.Desugar().Core().Enabled(zapcore.DebugLevel))
	}
}

func TestErrorfWithNilLogger(t *testing.T) {
	original := internalLogger
	internalLogger = nil
	defer func() { internalLogger = original }()

	Info("dropped")
	err := Errorf("wrapped: %w", os.ErrNotExist)
	if err == nil {
		t.Fatal("Errorf should return error even with nil logger")
	}
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// ============================================================================
// HELPER TESTS
// ============================================================================

func TestErrorWrapper(t *testing.T) {
	w := NewErrorWrapper("bootstrap")
	assert.Nil(t, w.Wrapf(nil, "ignored"))

	err := w.Wrapf(os.ErrNotExist, "load %s", "site.config.yaml")
	assert.EqualError(t, err, "bootstrap: load site.config.yaml: "+os.ErrNotExist.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.EqualError(t, w.Failf("bad driver %q", "ftp"), `bootstrap: bad driver "ftp"`)
}

func TestWriteHTTPError(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	rec.Header().Set(constants.HeaderRequestID, "abc")
	rec.Header().Set("Cache-Control", "max-age=60")

	WriteHTTPError(rec, constants.InternalError, http.StatusInternalServerError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, constants.ContentTypeText, rec.Header().Get(constants.HeaderContentType))
	assert.Equal(t, "abc", rec.Header().Get(constants.HeaderRequestID))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Equal(t, constants.InternalError+"\n", rec.Body.String())
}

func TestWriteHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteHTML(rec, http.StatusNotFound, []byte("<h1>gone</h1>"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, constants.ContentTypeHTML, rec.Header().Get(constants.HeaderContentType))
	assert.Equal(t, "<h1>gone</h1>", rec.Body.String())
}

func TestContextValue(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, 42)

	v, ok := ContextValue[int](ctx, key{})
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = ContextValue[string](ctx, key{})
	assert.False(t, ok)
}
