package http

import (
	"net/http"

	"github.com/awantoch/sitefn/constants"
	"github.com/awantoch/sitefn/utils"
	"github.com/google/uuid"
)

// RequestID tags each request with an ID, reusing the caller's X-Request-ID
// when present, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(utils.WithRequestID(r.Context(), id)))
	})
}
