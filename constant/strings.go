package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID = "X-Request-ID"
)

// Function/Context names
const (
	// Domain context names
	CtxGenerator = "generator"
	CtxGenerate  = "Generate"
	CtxPreview   = "Preview"
	CtxHistory   = "History"

	// Infrastructure context names
	CtxDB         = "db"
	CtxStore      = "Store"
	CtxListRecent = "ListRecent"
	CtxClose      = "Close"
	CtxRender     = "Render"
	CtxOverlay    = "OverlayLogo"
	CtxSave       = "Save"
	CtxConfig     = "Config"
	CtxAPI        = "api"

	// General context names
	CtxRouter        = "Router"
	CtxMain          = "Main"
	CtxRenderQRCode  = "RenderQRCode"
	CtxFormatPayload = "FormatPayload"
	CtxListHistory   = "ListHistory"
)

// Data field keys
const (
	// Generator data fields
	DataService     = "service"
	DataKind        = "kind"
	DataStage       = "stage"
	DataFailedStage = "failed_stage"
	DataPreview     = "payload_preview"
	DataPayloadLen  = "payload_length"
	DataOutputPath  = "output_path"
	DataLogoPath    = "logo_path"
	DataFormat      = "format"
	DataVersion     = "version"
	DataLevel       = "error_correction"
	DataModuleSize  = "module_size"
	DataBorder      = "border"
	DataWidth       = "width"
	DataLimit       = "limit"
	DataCacheHit    = "cache_hit"

	// Database data fields
	DataPath         = "path"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// API data fields
	DataMethod     = "method"
	DataStatus     = "status"
	DataLatency    = "latency"
	DataSize       = "size"
	DataRemoteAddr = "remote_addr"
	DataUserAgent  = "user_agent"
	DataPort       = "port"
	DataConfigDir  = "config_dir"
	DataConfigKey  = "config_key"
	DataDBPath     = "db_path"
)

// Error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types
const (
	ErrTypeDomain = "domain"
	ErrTypeAPI    = "api"
	ErrTypeApp    = "application"
)

// API routes
const (
	RouteRenderQRCode  = "/api/qr/{kind}"
	RouteFormatPayload = "/api/qr/{kind}/payload"
	RouteHistory       = "/api/history"
	RouteHealthcheck   = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStderr    = "stderr"
	LogFilePrefix      = "qr-utils_"
	LogFileDateLayout  = "20060102"
)

// Message constants for application
const (
	MsgApplicationStarting  = "Application starting"
	MsgDefaultConfigWritten = "Default configuration written"
	MsgFailedToInitDB       = "Failed to initialize history database"
	MsgServerStarting       = "Server starting"
	MsgServerFailedToStart  = "Server failed to start"
	MsgServerShuttingDown   = "Server shutting down"
	MsgServerShutdownError  = "Error during server shutdown"
	MsgServerStopped        = "Server stopped"
	MsgRequestReceived      = "Request received"
	MsgSettingUpRoutes      = "Setting up API routes"
	MsgHealthcheckRequest   = "Handling healthcheck request"
	MsgHealthy              = "Healthy"
	MsgRequestCompleted     = "Request completed"
)

// Output naming
const (
	DefaultFilePrefix      = "qr_"
	DefaultFileTimeLayout  = "20060102_150405"
	PayloadPreviewMaxRunes = 50
)

// Cache Namespace prefix, suffixed with the payload kind
const (
	ImageNamespace = "IMG"
)
