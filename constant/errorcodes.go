package constant

// Payload error codes
const (
	// Formatter validation errors (1xx)
	ErrCodeInvalidPayload = "QR101"
	ErrCodeUnknownKind    = "QR102"

	// Render errors (2xx)
	ErrCodeCapacity      = "QR202"
	ErrCodeRenderFailure = "QR203"

	// Resource errors (3xx)
	ErrCodeLogo   = "QR301"
	ErrCodeConfig = "QR302"

	// Persistence errors (4xx)
	ErrCodePersist = "QR401"

	// History errors (5xx)
	ErrCodeHistoryRecord = "QR501"
	ErrCodeHistoryList   = "QR502"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Store operation errors (1xx)
	ErrCodeDBInsert = "DB102"

	// ListRecent operation errors (2xx)
	ErrCodeDBLookup = "DB201"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation  = "validation"
	ErrTypeCapacity    = "capacity"
	ErrTypeResource    = "resource"
	ErrTypePersistence = "persistence"
	ErrTypeHistory     = "history"

	// Infrastructure error types
	ErrTypeDB = "db"
)
