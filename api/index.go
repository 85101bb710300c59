package handler

import (
	"net/http"

	sitehttp "github.com/awantoch/sitefn/http"
)

// Handler is the entry point for Vercel serverless functions.
func Handler(w http.ResponseWriter, r *http.Request) {
	sitehttp.ServerlessHandler(w, r)
}
