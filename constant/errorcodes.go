package constant

// Domain service error codes
const (
	// Catalog service - Validation errors
	ErrCodeEmptyProductCode = "SVC001"
	ErrCodeEmptyProductName = "SVC002"

	// Catalog service - Retrieval errors
	ErrCodeProductNotFound = "SVC003"

	// Asset service - Generation errors
	ErrCodeQRGenerate     = "AST001"
	ErrCodeLabelRender    = "AST002"
	ErrCodeAssetPersist   = "AST003"
	ErrCodeStaleDelete    = "AST004"
	ErrCodeAssetNotFound  = "AST005"
	ErrCodeBarcodeEncode  = "AST006"

	// Export service errors
	ErrCodeExportSelection = "EXP001"
	ErrCodeExportMode      = "EXP002"
	ErrCodeExportArchive   = "EXP003"
	ErrCodeExportItem      = "EXP004"
	ErrCodeReportBuild     = "EXP005"
)

// Database error codes
const (
	ErrCodeDBGeneral = "DB500"

	// Connection errors
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Write operation errors
	ErrCodeDBInsert = "DB101"
	ErrCodeDBUpsert = "DB102"

	// Read operation errors
	ErrCodeDBLookup   = "DB201"
	ErrCodeDBScanRows = "DB202"

	// Close operation errors
	ErrCodeDBClose = "DB401"
)

// Storage error codes
const (
	ErrCodeStoragePut    = "STG001"
	ErrCodeStorageGet    = "STG002"
	ErrCodeStorageDelete = "STG003"
)

// API error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
	ErrCodeAppStorageInit    = "APP004"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation  = "validation"
	ErrTypeRender      = "render"
	ErrTypePersistence = "persistence"
	ErrTypeRetrieval   = "retrieval"
	ErrTypeExport      = "export"

	// Infrastructure error types
	ErrTypeDB      = "db"
	ErrTypeStorage = "storage"
	ErrTypeAPI     = "api"
	ErrTypeApp     = "application"
)
