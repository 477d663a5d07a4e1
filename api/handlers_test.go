package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/domain/export"
	"github.com/prasetyowira/etiqueta/domain/report"
	"github.com/prasetyowira/etiqueta/infrastructure/barcode"
	"github.com/prasetyowira/etiqueta/infrastructure/cache"
	"github.com/prasetyowira/etiqueta/infrastructure/qrcode"
	"github.com/prasetyowira/etiqueta/infrastructure/render"
	"github.com/prasetyowira/etiqueta/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser = "admin"
	testPass = "secret"
)

// memRepo is an in-memory implementation of the catalog and asset
// repositories for endpoint tests.
type memRepo struct {
	mu        sync.Mutex
	products  map[uint]catalog.Product
	locations []catalog.ProductLocation
	qrs       map[uint]assets.QRAsset
	labels    map[uint]assets.LabelAsset
	nextID    uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: map[uint]catalog.Product{},
		qrs:      map[uint]assets.QRAsset{},
		labels:   map[uint]assets.LabelAsset{},
	}
}

func (m *memRepo) StoreProduct(ctx context.Context, p *catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.products {
		if existing.Code == p.Code {
			return errors.New(constant.ErrProductCodeExists)
		}
	}
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = *p
	return nil
}

func (m *memRepo) FindProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, errors.New(constant.ErrProductNotFound)
	}
	return &p, nil
}

func (m *memRepo) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) FindProductsByIDs(ctx context.Context, ids []uint) ([]catalog.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) StoreLocation(ctx context.Context, loc *catalog.ProductLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	loc.ID = m.nextID
	m.locations = append(m.locations, *loc)
	return nil
}

func (m *memRepo) FindLocationsByProductIDs(ctx context.Context, ids []uint) ([]catalog.ProductLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.ProductLocation
	for _, loc := range m.locations {
		for _, id := range ids {
			if loc.ProductID == id {
				out = append(out, loc)
			}
		}
	}
	return out, nil
}

func (m *memRepo) UpsertQR(ctx context.Context, asset *assets.QRAsset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := ""
	if existing, ok := m.qrs[asset.ProductID]; ok {
		old = existing.Path
		asset.ID = existing.ID
	} else {
		m.nextID++
		asset.ID = m.nextID
	}
	m.qrs[asset.ProductID] = *asset
	return old, nil
}

func (m *memRepo) FindQRByProductIDs(ctx context.Context, ids []uint) ([]assets.QRAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []assets.QRAsset
	for _, id := range ids {
		if a, ok := m.qrs[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) UpsertLabel(ctx context.Context, asset *assets.LabelAsset) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := ""
	if existing, ok := m.labels[asset.ProductID]; ok {
		old = existing.Path
		asset.ID = existing.ID
	} else {
		m.nextID++
		asset.ID = m.nextID
	}
	m.labels[asset.ProductID] = *asset
	return old, nil
}

func (m *memRepo) FindLabelByProductIDs(ctx context.Context, ids []uint) ([]assets.LabelAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []assets.LabelAsset
	for _, id := range ids {
		if a, ok := m.labels[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// newTestRouter wires the full stack on in-memory persistence.
func newTestRouter(t *testing.T) (*Router, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	catalogSvc := catalog.NewService(repo, cache.NewNamespaceLRU(100))

	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	raster, err := render.NewPNGRasterizer()
	require.NoError(t, err)

	qr := qrcode.NewGenerator()
	assetSvc := assets.NewService(catalogSvc, repo, blobs, qr, barcode.NewGenerator(), raster, render.NewSVGRenderer())
	exporter := export.NewExporter(catalogSvc, repo, blobs, qr, assetSvc, assetSvc, cache.NewNamespaceLRU(100))
	reports := report.NewService(catalogSvc, repo)

	router := NewRouter(NewHandler(catalogSvc, assetSvc, exporter, reports), testUser, testPass)
	router.SetupRoutes()

	return router, repo
}

func authPost(target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.SetBasicAuth(testUser, testPass)
	return req
}

func createProduct(t *testing.T, router *Router, code, name, barcodeValue string) uint {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products", CreateProductRequest{
		Code:    code,
		Name:    name,
		Barcode: barcodeValue,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var created catalog.Product
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	return created.ID
}

func TestCreateProduct(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(t)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products", CreateProductRequest{Code: "A001", Name: "Widget"}))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var created catalog.Product
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "A001", created.Code)
}

func TestCreateProduct_EmptyCode(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products", CreateProductRequest{Name: "Widget"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, constant.ErrEmptyProductCode, resp.Error)
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "DUP", "First", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products", CreateProductRequest{Code: "DUP", Name: "Second"}))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddLocation(t *testing.T) {
	// Arrange
	router, repo := newTestRouter(t)
	id := createProduct(t, router, "A001", "Widget", "")

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products/1/locations", AddLocationRequest{
		Warehouse: "Central", Aisle: "A1", Shelf: "S3", IsPrimary: true,
	}))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	locations, err := repo.FindLocationsByProductIDs(context.Background(), []uint{id})
	assert.NoError(t, err)
	assert.Len(t, locations, 1)
	assert.True(t, locations[0].IsPrimary)
}

func TestGenerateQR(t *testing.T) {
	// Arrange
	router, repo := newTestRouter(t)
	id := createProduct(t, router, "A001", "Widget", "")

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products/1/qr", nil))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp QRAssetResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, id, resp.ProductID)
	assert.Equal(t, "A001|Widget", resp.Payload)
	assert.NotEmpty(t, resp.Path)

	rows, err := repo.FindQRByProductIDs(context.Background(), []uint{id})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGenerateLabel_DefaultConfig(t *testing.T) {
	router, repo := newTestRouter(t)
	id := createProduct(t, router, "A001", "Widget", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products/1/label", nil))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp LabelAssetResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ConfigHash)

	rows, err := repo.FindLabelByProductIDs(context.Background(), []uint{id})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGenerateLabel_InvalidDPI(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")

	body := map[string]interface{}{
		"config": map[string]interface{}{
			"width_mm": 50.0, "height_mm": 30.0, "dpi": 72,
		},
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products/1/label", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPreviewLabel(t *testing.T) {
	router, repo := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/products/1/label/preview", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")

	// Preview never persists
	rows, err := repo.FindLabelByProductIDs(context.Background(), []uint{1})
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetBarcode(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "7791234567890")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/1/barcode", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestGetBarcode_NoValue(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/1/barcode", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBulkExport(t *testing.T) {
	// Arrange
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")
	createProduct(t, router, "B002", "Gadget", "")

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/export", ExportRequest{
		ProductIDs: []uint{1, 2},
		Mode:       "both",
	}))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "etiquetas_qr_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), time.Now().Format("2006-01-02"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestBulkExport_InvalidMode(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/export", ExportRequest{ProductIDs: []uint{1}, Mode: "pdf"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkExport_EmptySelection(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authPost("/api/export", ExportRequest{Mode: "qr"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogReport(t *testing.T) {
	router, _ := newTestRouter(t)
	createProduct(t, router, "A001", "Widget", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/export/report", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "productos_")
	assert.NotEmpty(t, w.Body.Bytes())
}
