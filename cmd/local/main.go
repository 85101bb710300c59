// Command local runs the Cloud Function under the Functions Framework.
package main

import (
	"log"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	_ "github.com/awantoch/sitefn"
	"github.com/awantoch/sitefn/constants"
)

func main() {
	port := constants.DefaultPort
	if envPort := os.Getenv(constants.EnvPort); envPort != "" {
		port = envPort
	}
	// Serve the registered function at the root path.
	if os.Getenv("FUNCTION_TARGET") == "" {
		os.Setenv("FUNCTION_TARGET", constants.FunctionName)
	}
	if err := funcframework.Start(port); err != nil {
		log.Fatalf("funcframework.Start: %v\n", err)
	}
}
