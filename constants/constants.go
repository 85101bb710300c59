package constants

// ============================================================================
// CONFIGURATION
// ============================================================================

// Configuration Files
const (
	ConfigFileName     = "sitefn.config.json"
	SiteConfigFileName = "site.config.yaml"
	SiteSchemaFile     = "site.schema.json"
)

// Site Layout
const (
	DefaultSiteDir   = "."
	DefaultPagesDir  = "pages"
	DefaultPublicDir = "public"
	PageExtension    = ".html"
	NotFoundPage     = "404.html"
)

// Environment Variables
const (
	EnvAppEnv          = "APP_ENV"
	EnvConfigPath      = "SITEFN_CONFIG"
	EnvDebug           = "SITEFN_DEBUG"
	EnvSiteDir         = "SITE_DIR"
	EnvAssetsDriver    = "SITEFN_ASSETS_DRIVER"
	EnvAssetsBucket    = "SITEFN_ASSETS_BUCKET"
	EnvAssetsRegion    = "SITEFN_ASSETS_REGION"
	EnvAssetsPrefix    = "SITEFN_ASSETS_PREFIX"
	EnvFirebaseProject = "FIREBASE_PROJECT_ID"
	EnvCredentials     = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvFirebaseDB      = "FIREBASE_DATABASE_URL"
	EnvFirebaseBucket  = "FIREBASE_STORAGE_BUCKET"
	EnvTracingExporter = "SITEFN_TRACING_EXPORTER"
	EnvOTLPEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvPort            = "PORT"
)

// Environments
const (
	EnvProduction = "production"
)

// Asset Drivers
const (
	AssetsDriverFilesystem = "filesystem"
	AssetsDriverS3         = "s3"
)

// Tracing Exporters
const (
	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
	TracingExporterOTLP   = "otlp"
)

// ============================================================================
// DISPATCH
// ============================================================================

// Function names, one per host.
const (
	FunctionName = "server"
	ServiceName  = "sitefn"
)

// Routes
const (
	RouteRoot     = "/"
	RouteExpress  = "/express"
	RouteCatchAll = "*"
)

// Fixed responses
const (
	ExpressResponse  = "Response from Express Server."
	NotFoundResponse = "404: This page could not be found."
	InternalError    = "Internal server error"
)

// ============================================================================
// HTTP
// ============================================================================

// Content Types
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// HTTP Headers
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	HeaderPoweredBy   = "X-Powered-By"
)

// Defaults
const (
	DefaultPort    = "8080"
	PoweredByValue = "sitefn"
)
