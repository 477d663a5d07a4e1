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
	CtxDomain          = "domain"
	CtxCreateProduct   = "CreateProduct"
	CtxGetProduct      = "GetProduct"
	CtxListProducts    = "ListProducts"
	CtxAddLocation     = "AddLocation"
	CtxResolveLocation = "ResolveLocation"
	CtxGenerateQR      = "GenerateQR"
	CtxGenerateLabel   = "GenerateLabel"
	CtxPreviewLabel    = "PreviewLabel"
	CtxBulkExport      = "BulkExport"
	CtxCatalogReport   = "CatalogReport"

	// Infrastructure context names
	CtxDB            = "db"
	CtxStoreProduct  = "StoreProduct"
	CtxFindProduct   = "FindProduct"
	CtxStoreLocation = "StoreLocation"
	CtxUpsertAsset   = "UpsertAsset"
	CtxStorage       = "storage"
	CtxRender        = "render"
	CtxAPI           = "api"

	// General context names
	CtxRouter = "Router"
	CtxMain   = "Main"
)

// Data field keys
const (
	// Service data fields
	DataService    = "service"
	DataProductID  = "product_id"
	DataProductIDs = "product_ids"
	DataCode       = "code"
	DataName       = "name"
	DataPayload    = "payload"
	DataConfigHash = "config_hash"
	DataLocationID = "location_id"
	DataMode       = "mode"
	DataTotal      = "total"
	DataDone       = "done"
	DataWarnings   = "warnings"
	DataFilename   = "filename"
	DataOldPath    = "old_path"
	DataNewPath    = "new_path"
	DataBytes      = "bytes"

	// Database data fields
	DataPath         = "path"
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// Storage data fields
	DataBackend = "backend"
	DataBucket  = "bucket"

	// API data fields
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataSize        = "size"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
)

// Error message constants
const (
	ErrEmptyProductCode  = "product code cannot be empty"
	ErrProductCodeExists = "product code already exists"
	ErrEmptyProductName  = "product name cannot be empty"
	ErrProductNotFound   = "product not found"
	ErrEmptySelection    = "product selection cannot be empty"
	ErrInvalidExportMode = "invalid export mode"
	ErrInvalidDPI        = "dpi must be one of 203, 300 or 600"
	ErrInvalidDimensions = "label dimensions must be positive"
	ErrEmptyBarcode      = "product has no barcode value"
	ErrRenderDecodeImage = "failed to decode embedded image"
	ErrBlobNotFound      = "stored object not found"
	ErrArchiveWrite      = "failed to write archive entry"
)

// API routes
const (
	RouteProducts      = "/api/products"
	RouteProductByID   = "/api/products/{productID}"
	RouteLocations     = "/api/products/{productID}/locations"
	RouteProductQR     = "/api/products/{productID}/qr"
	RouteProductLabel  = "/api/products/{productID}/label"
	RouteLabelPreview  = "/api/products/{productID}/label/preview"
	RouteBarcode       = "/api/products/{productID}/barcode"
	RouteBulkExport    = "/api/export"
	RouteCatalogReport = "/api/export/report"
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
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Message constants for application
const (
	MsgApplicationStarting  = "Application starting"
	MsgFailedToInitDB       = "Failed to initialize database"
	MsgFailedToInitStorage  = "Failed to initialize blob storage"
	MsgServerStarting       = "Server starting"
	MsgServerFailedToStart  = "Server failed to start"
	MsgServerShuttingDown   = "Server shutting down"
	MsgServerShutdownError  = "Error during server shutdown"
	MsgServerStopped        = "Server stopped"
	MsgRequestReceived      = "Request received"
	MsgSettingUpRoutes      = "Setting up API routes"
	MsgHealthcheckRequest   = "Handling healthcheck request"
	MsgHealthy              = "Healthy"
	MsgStaleAssetNotDeleted = "Stale asset file could not be deleted"
	MsgExportItemSkipped    = "Export item skipped"
	MsgExportPersistFailed  = "Label persistence failed during export"
	MsgExportCompleted      = "Bulk export completed"
	MsgReportFailed         = "Catalog report failed"
	MsgReportCompleted      = "Catalog report completed"

	MsgReportAssetLookupFailed = "Asset lookup failed while building report"
)

// Export file naming contract. Downstream tooling parses these names;
// do not change them.
const (
	QRFilePrefix    = "QR-"
	LabelFilePrefix = "ET-"
	QRFolder        = "qr/"
	LabelFolder     = "labels/"
	ArchiveNameBase = "etiquetas_qr_"
	ReportNameBase  = "productos_"
)

// Cache namespaces
const (
	ProductNamespace = "PRODUCT"
	PayloadNamespace = "PAYLOAD"
)
