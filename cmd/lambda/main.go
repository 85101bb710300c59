// Command lambda serves the site dispatcher from AWS Lambda behind an API
// Gateway HTTP API.
package main

import (
	"net/http"

	sitehttp "github.com/awantoch/sitefn/http"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	lambda.Start(httpadapter.NewV2(http.HandlerFunc(sitehttp.ServerlessHandler)).ProxyWithContext)
}
