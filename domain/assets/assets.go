package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/domain/label"
	"github.com/prasetyowira/etiqueta/infrastructure/barcode"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
	"github.com/prasetyowira/etiqueta/infrastructure/qrcode"
	"github.com/prasetyowira/etiqueta/infrastructure/render"
	"github.com/prasetyowira/etiqueta/infrastructure/storage"
)

// QRAsset is the current persisted QR image of one product.
type QRAsset struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	Payload   string    `json:"payload"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// LabelAsset is the current persisted label image of one product,
// fingerprinted by its rendering configuration.
type LabelAsset struct {
	ID         uint      `json:"id"`
	ProductID  uint      `json:"product_id"`
	Path       string    `json:"path"`
	ConfigHash string    `json:"config_hash"`
	ConfigJSON string    `json:"config_json"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository defines the interface for asset metadata persistence. Upserts
// replace the product's current row and return the path of the replaced
// stored file, if any.
type Repository interface {
	UpsertQR(ctx context.Context, asset *QRAsset) (oldPath string, err error)
	FindQRByProductIDs(ctx context.Context, ids []uint) ([]QRAsset, error)
	UpsertLabel(ctx context.Context, asset *LabelAsset) (oldPath string, err error)
	FindLabelByProductIDs(ctx context.Context, ids []uint) ([]LabelAsset, error)
}

// configSnapshot is the full configuration stored with a label asset,
// including which location was selected.
type configSnapshot struct {
	Config      label.Config `json:"config"`
	LocationKey string       `json:"location_key"`
}

// Service generates QR and label assets and persists them with
// replace-on-regenerate semantics.
type Service struct {
	catalog *catalog.Service
	repo    Repository
	blobs   storage.BlobStore
	qr      *qrcode.Generator
	bars    *barcode.Generator
	raster  render.Rasterizer
	svg     *render.SVGRenderer
}

// NewService creates a new asset service
func NewService(
	catalogSvc *catalog.Service,
	repo Repository,
	blobs storage.BlobStore,
	qr *qrcode.Generator,
	bars *barcode.Generator,
	raster render.Rasterizer,
	svg *render.SVGRenderer,
) *Service {
	logger.Debug("Creating asset service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "assets",
		},
	})

	return &Service{
		catalog: catalogSvc,
		repo:    repo,
		blobs:   blobs,
		qr:      qr,
		bars:    bars,
		raster:  raster,
		svg:     svg,
	}
}

// GenerateQR renders and persists a product's QR asset, replacing the
// previous one. The old stored file is deleted only after the new one is
// confirmed written, and that delete is best-effort.
func (s *Service) GenerateQR(ctx context.Context, productID uint) (*QRAsset, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	payload := label.EncodePayload(p.Code, p.Name)
	data, err := s.qr.Generate(payload, qrcode.DefaultSizePx)
	if err != nil {
		logger.CtxError(ctx, "Failed to generate QR image", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerateQR,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeQRGenerate,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataProductID: productID,
			},
		})
		return nil, err
	}

	path := fmt.Sprintf("qr/%d/%s.png", p.ID, uuid.New().String())
	if err := s.blobs.Put(ctx, path, data, storage.ContentTypePNG); err != nil {
		return nil, err
	}

	asset := &QRAsset{
		ProductID: p.ID,
		Payload:   payload,
		Path:      path,
		CreatedAt: time.Now(),
	}

	oldPath, err := s.repo.UpsertQR(ctx, asset)
	if err != nil {
		return nil, err
	}
	s.deleteStale(ctx, oldPath, path)

	logger.CtxInfo(ctx, "QR asset generated", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerateQR,
		Data: map[string]interface{}{
			constant.DataProductID: p.ID,
			constant.DataPayload:   payload,
			constant.DataPath:      path,
		},
	})

	return asset, nil
}

// RenderLabel produces the label PNG for a product without persisting
// anything. It returns the image bytes, the config hash and the config
// snapshot JSON.
func (s *Service) RenderLabel(ctx context.Context, p catalog.Product, locations []catalog.ProductLocation, cfg label.Config) ([]byte, string, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", "", err
	}

	resolved := catalog.ResolveLocation(p, locations)
	hash := label.HashConfig(cfg, resolved.LocationKey)

	doc, err := s.buildDocument(p, resolved, cfg)
	if err != nil {
		return nil, "", "", err
	}

	data, err := s.raster.Render(doc, cfg.ScaleFactor())
	if err != nil {
		logger.CtxError(ctx, "Failed to rasterize label", logger.LoggerInfo{
			ContextFunction: constant.CtxGenerateLabel,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeLabelRender,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataProductID:  p.ID,
				constant.DataConfigHash: hash,
			},
		})
		return nil, "", "", err
	}

	snapshot, err := json.Marshal(configSnapshot{Config: cfg, LocationKey: resolved.LocationKey})
	if err != nil {
		return nil, "", "", err
	}

	return data, hash, string(snapshot), nil
}

// PersistLabel stores rendered label bytes as the product's current label
// asset: write new, upsert metadata, then best-effort delete of the old
// stored file. Never delete-before-write.
func (s *Service) PersistLabel(ctx context.Context, productID uint, data []byte, configHash, configJSON string) (*LabelAsset, error) {
	path := fmt.Sprintf("labels/%d/%s.png", productID, uuid.New().String())
	if err := s.blobs.Put(ctx, path, data, storage.ContentTypePNG); err != nil {
		return nil, err
	}

	asset := &LabelAsset{
		ProductID:  productID,
		Path:       path,
		ConfigHash: configHash,
		ConfigJSON: configJSON,
		CreatedAt:  time.Now(),
	}

	oldPath, err := s.repo.UpsertLabel(ctx, asset)
	if err != nil {
		return nil, err
	}
	s.deleteStale(ctx, oldPath, path)

	logger.CtxInfo(ctx, "Label asset persisted", logger.LoggerInfo{
		ContextFunction: constant.CtxGenerateLabel,
		Data: map[string]interface{}{
			constant.DataProductID:  productID,
			constant.DataConfigHash: configHash,
			constant.DataPath:       path,
		},
	})

	return asset, nil
}

// GenerateLabel renders and persists a product's label in one step.
func (s *Service) GenerateLabel(ctx context.Context, productID uint, cfg label.Config) (*LabelAsset, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	locations, err := s.catalog.LocationsForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	data, hash, snapshot, err := s.RenderLabel(ctx, *p, locations, cfg)
	if err != nil {
		return nil, err
	}

	return s.PersistLabel(ctx, productID, data, hash, snapshot)
}

// PreviewSVG renders a product's label as SVG markup without persisting.
func (s *Service) PreviewSVG(ctx context.Context, productID uint, cfg label.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	locations, err := s.catalog.LocationsForProduct(ctx, productID)
	if err != nil {
		return "", err
	}

	doc, err := s.buildDocument(*p, catalog.ResolveLocation(*p, locations), cfg)
	if err != nil {
		return "", err
	}

	return s.svg.RenderSVG(doc), nil
}

// BarcodePNG renders a Code128 strip for the product's barcode value.
func (s *Service) BarcodePNG(ctx context.Context, productID uint) ([]byte, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Barcode == "" {
		return nil, errors.New(constant.ErrEmptyBarcode)
	}

	data, err := s.bars.GenerateCode128(p.Barcode, 0, 0)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode barcode", logger.LoggerInfo{
			ContextFunction: constant.CtxDomain,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeBarcodeEncode,
				Message: err.Error(),
				Type:    constant.ErrTypeRender,
			},
			Data: map[string]interface{}{
				constant.DataProductID: productID,
			},
		})
		return nil, err
	}

	return data, nil
}

// buildDocument assembles the declarative layout for one product,
// synthesizing the embedded QR image when the config shows it.
func (s *Service) buildDocument(p catalog.Product, resolved catalog.Resolved, cfg label.Config) (*label.Document, error) {
	var qrPNG []byte
	if cfg.ShowQR {
		size := label.PxFromMm(cfg.QRSizeMm, cfg.DPI)
		data, err := s.qr.Generate(label.EncodePayload(p.Code, p.Name), size)
		if err != nil {
			return nil, err
		}
		qrPNG = data
	}

	subject := label.Subject{
		Code:      p.Code,
		Name:      p.Name,
		Barcode:   p.Barcode,
		Warehouse: resolved.Warehouse,
		Aisle:     resolved.Aisle,
		Shelf:     resolved.Shelf,
	}

	return label.BuildDocument(subject, qrPNG, cfg), nil
}

// deleteStale removes a replaced stored file. Failure only warns; an
// orphaned object is preferable to a window with no asset at all.
func (s *Service) deleteStale(ctx context.Context, oldPath, newPath string) {
	if oldPath == "" || oldPath == newPath {
		return
	}

	if err := s.blobs.Delete(ctx, oldPath); err != nil {
		logger.CtxWarn(ctx, constant.MsgStaleAssetNotDeleted, logger.LoggerInfo{
			ContextFunction: constant.CtxDomain,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeStaleDelete,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
			Data: map[string]interface{}{
				constant.DataOldPath: oldPath,
				constant.DataNewPath: newPath,
			},
		})
	}
}
