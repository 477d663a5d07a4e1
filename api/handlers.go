package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/domain/export"
	"github.com/prasetyowira/etiqueta/domain/label"
	"github.com/prasetyowira/etiqueta/domain/report"
	appLogger "github.com/prasetyowira/etiqueta/infrastructure/logger"
)

// Handler contains service dependencies for API handlers
type Handler struct {
	catalog  *catalog.Service
	assets   *assets.Service
	exporter *export.Exporter
	reports  *report.Service
}

// CreateProductRequest is the request object for the CreateProduct endpoint
type CreateProductRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Warehouse string `json:"warehouse"`
	Aisle     string `json:"aisle"`
	Shelf     string `json:"shelf"`
}

// AddLocationRequest is the request object for the AddLocation endpoint
type AddLocationRequest struct {
	Warehouse string `json:"warehouse"`
	Aisle     string `json:"aisle"`
	Shelf     string `json:"shelf"`
	IsPrimary bool   `json:"is_primary"`
}

// LabelRequest carries an optional label configuration; absent fields
// fall back to the default configuration.
type LabelRequest struct {
	Config *label.Config `json:"config"`
}

// ExportRequest is the request object for the bulk export endpoint
type ExportRequest struct {
	ProductIDs []uint        `json:"product_ids"`
	Mode       string        `json:"mode"`
	Config     *label.Config `json:"config"`
}

// QRAssetResponse is the response for QR generation
type QRAssetResponse struct {
	ProductID uint   `json:"product_id"`
	Payload   string `json:"payload"`
	Path      string `json:"path"`
}

// LabelAssetResponse is the response for label generation
type LabelAssetResponse struct {
	ProductID  uint   `json:"product_id"`
	Path       string `json:"path"`
	ConfigHash string `json:"config_hash"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler
func NewHandler(catalogSvc *catalog.Service, assetSvc *assets.Service, exporter *export.Exporter, reports *report.Service) *Handler {
	return &Handler{
		catalog:  catalogSvc,
		assets:   assetSvc,
		exporter: exporter,
		reports:  reports,
	}
}

// productID extracts and parses the productID URL parameter.
func productID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// labelConfig resolves the request's configuration, defaulting absent ones.
func labelConfig(cfg *label.Config) label.Config {
	if cfg == nil {
		return label.DefaultConfig()
	}
	return *cfg
}

// CreateProduct handles product creation
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logDecodeError(ctx, constant.CtxCreateProduct, err)
		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	p := &catalog.Product{
		Code:      req.Code,
		Name:      req.Name,
		Barcode:   req.Barcode,
		Warehouse: req.Warehouse,
		Aisle:     req.Aisle,
		Shelf:     req.Shelf,
	}

	if err := h.catalog.CreateProduct(ctx, p); err != nil {
		switch err.Error() {
		case constant.ErrEmptyProductCode, constant.ErrEmptyProductName:
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case constant.ErrProductCodeExists:
			WriteJSONError(w, err.Error(), http.StatusConflict)
		default:
			h.logServiceError(ctx, constant.CtxCreateProduct, err)
			WriteJSONError(w, "Failed to create product", http.StatusInternalServerError)
		}
		return
	}

	WriteJSON(w, p, http.StatusCreated)
}

// ListProducts handles listing the full catalog
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.logServiceError(ctx, constant.CtxListProducts, err)
		WriteJSONError(w, "Failed to list products", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, products, http.StatusOK)
}

// GetProduct handles retrieving one product
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		if err.Error() == constant.ErrProductNotFound {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logServiceError(ctx, constant.CtxGetProduct, err)
		WriteJSONError(w, "Failed to retrieve product", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, p, http.StatusOK)
}

// AddLocation handles adding a location to a product
func (h *Handler) AddLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req AddLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logDecodeError(ctx, constant.CtxAddLocation, err)
		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	loc := &catalog.ProductLocation{
		ProductID: id,
		Warehouse: req.Warehouse,
		Aisle:     req.Aisle,
		Shelf:     req.Shelf,
		IsPrimary: req.IsPrimary,
	}

	if err := h.catalog.AddLocation(ctx, loc); err != nil {
		if err.Error() == constant.ErrProductNotFound {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logServiceError(ctx, constant.CtxAddLocation, err)
		WriteJSONError(w, "Failed to add location", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, loc, http.StatusCreated)
}

// ListLocations handles listing a product's locations
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	locations, err := h.catalog.LocationsForProduct(ctx, id)
	if err != nil {
		h.logServiceError(ctx, constant.CtxAddLocation, err)
		WriteJSONError(w, "Failed to list locations", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, locations, http.StatusOK)
}

// GenerateQR handles single-product QR asset generation
func (h *Handler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	asset, err := h.assets.GenerateQR(ctx, id)
	if err != nil {
		if err.Error() == constant.ErrProductNotFound {
			WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logServiceError(ctx, constant.CtxGenerateQR, err)
		WriteJSONError(w, "Failed to generate QR asset", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, QRAssetResponse{
		ProductID: asset.ProductID,
		Payload:   asset.Payload,
		Path:      asset.Path,
	}, http.StatusCreated)
}

// GenerateLabel handles single-product label asset generation
func (h *Handler) GenerateLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req LabelRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logDecodeError(ctx, constant.CtxGenerateLabel, err)
			WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
			return
		}
	}

	asset, err := h.assets.GenerateLabel(ctx, id, labelConfig(req.Config))
	if err != nil {
		switch err.Error() {
		case constant.ErrProductNotFound:
			WriteJSONError(w, err.Error(), http.StatusNotFound)
		case constant.ErrInvalidDPI, constant.ErrInvalidDimensions:
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logServiceError(ctx, constant.CtxGenerateLabel, err)
			WriteJSONError(w, "Failed to generate label asset", http.StatusInternalServerError)
		}
		return
	}

	WriteJSON(w, LabelAssetResponse{
		ProductID:  asset.ProductID,
		Path:       asset.Path,
		ConfigHash: asset.ConfigHash,
	}, http.StatusCreated)
}

// PreviewLabel handles label preview rendering without persistence
func (h *Handler) PreviewLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req LabelRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logDecodeError(ctx, constant.CtxPreviewLabel, err)
			WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
			return
		}
	}

	svg, err := h.assets.PreviewSVG(ctx, id, labelConfig(req.Config))
	if err != nil {
		switch err.Error() {
		case constant.ErrProductNotFound:
			WriteJSONError(w, err.Error(), http.StatusNotFound)
		case constant.ErrInvalidDPI, constant.ErrInvalidDimensions:
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logServiceError(ctx, constant.CtxPreviewLabel, err)
			WriteJSONError(w, "Failed to render preview", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

// GetBarcode handles code128 barcode rendering
func (h *Handler) GetBarcode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := productID(r)
	if !ok {
		WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	data, err := h.assets.BarcodePNG(ctx, id)
	if err != nil {
		switch err.Error() {
		case constant.ErrProductNotFound:
			WriteJSONError(w, err.Error(), http.StatusNotFound)
		case constant.ErrEmptyBarcode:
			WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			h.logServiceError(ctx, constant.CtxAPI, err)
			WriteJSONError(w, "Failed to render barcode", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// BulkExport handles bulk ZIP export of QR and label assets
func (h *Handler) BulkExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logDecodeError(ctx, constant.CtxBulkExport, err)
		WriteJSONError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	result, err := h.exporter.Export(ctx, req.ProductIDs, export.Mode(req.Mode), labelConfig(req.Config), nil)
	if err != nil {
		switch err.Error() {
		case constant.ErrEmptySelection, constant.ErrInvalidExportMode,
			constant.ErrInvalidDPI, constant.ErrInvalidDimensions:
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logServiceError(ctx, constant.CtxBulkExport, err)
			WriteJSONError(w, "Export failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Archive)
}

// CatalogReport handles the Excel catalog report download
func (h *Handler) CatalogReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	f, filename, err := h.reports.BuildCatalogReport(ctx)
	if err != nil {
		h.logServiceError(ctx, constant.CtxCatalogReport, err)
		WriteJSONError(w, "Report generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if err := f.Write(w); err != nil {
		appLogger.CtxError(ctx, "Failed to stream report", appLogger.LoggerInfo{
			ContextFunction: constant.CtxCatalogReport,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeReportBuild,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}
}

func (h *Handler) logDecodeError(ctx context.Context, fn string, err error) {
	appLogger.CtxError(ctx, "Error decoding request body", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIDecodeRequest,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
	})
}

func (h *Handler) logServiceError(ctx context.Context, fn string, err error) {
	appLogger.CtxError(ctx, "Service call failed", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIServiceError,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}
