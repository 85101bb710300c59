// Package sitefn registers the site dispatcher as a Google Cloud Function.
package sitefn

import (
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/awantoch/sitefn/constants"
	sitehttp "github.com/awantoch/sitefn/http"
)

func init() {
	functions.HTTP(constants.FunctionName, sitehttp.ServerlessHandler)
}
