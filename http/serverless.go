package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/core"
	"github.com/awantoch/sitefn/telemetry"
	"github.com/awantoch/sitefn/utils"
)

const flushTimeout = 2 * time.Second

var (
	initServerless    sync.Once
	initErr           error
	serverlessHandler http.Handler
	handlerMutex      sync.RWMutex

	// bootstrapOptions are passed to core.Bootstrap by ServerlessHandler.
	bootstrapOptions []core.Option
)

// NewHandler builds the runtime's dispatcher and wraps it with request IDs and
// telemetry.
func NewHandler(rt *core.Runtime) http.Handler {
	d := NewDispatcher(rt.App)
	return RequestID(telemetry.WrapHandler(constants.FunctionName, d))
}

// ServerlessHandler is the function entry shared by every host. The first
// invocation loads configuration from the environment and bootstraps the
// runtime; later invocations reuse it.
func ServerlessHandler(w http.ResponseWriter, r *http.Request) {
	initServerless.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.FromEnv()
		if initErr != nil {
			utils.Error("load config: %v", initErr)
			return
		}
		if cfg.Log.Level == "debug" {
			utils.SetMode("debug")
		}
		if _, err := telemetry.Init(cfg); err != nil {
			utils.Warn("telemetry disabled: %v", err)
		}
		var rt *core.Runtime
		rt, initErr = core.Bootstrap(context.Background(), cfg, bootstrapOptions...)
		if initErr != nil {
			utils.Error("bootstrap failed: %v", initErr)
			return
		}
		handlerMutex.Lock()
		serverlessHandler = NewHandler(rt)
		handlerMutex.Unlock()
	})

	if initErr != nil {
		utils.WriteHTTPError(w, constants.InternalError, http.StatusInternalServerError)
		return
	}

	handlerMutex.RLock()
	h := serverlessHandler
	handlerMutex.RUnlock()

	if h == nil {
		utils.WriteHTTPError(w, constants.InternalError, http.StatusInternalServerError)
		return
	}
	h.ServeHTTP(w, r)

	fctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), flushTimeout)
	defer cancel()
	if err := telemetry.Flush(fctx); err != nil {
		utils.WarnCtx(r.Context(), "flush spans", "error", err)
	}
}

// ResetServerless discards the cached runtime (for testing).
func ResetServerless() {
	handlerMutex.Lock()
	defer handlerMutex.Unlock()

	initServerless = sync.Once{}
	initErr = nil
	serverlessHandler = nil
}
