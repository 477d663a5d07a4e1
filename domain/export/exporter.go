package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/domain/label"
	"github.com/prasetyowira/etiqueta/infrastructure/cache"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
	"github.com/prasetyowira/etiqueta/infrastructure/qrcode"
	"github.com/prasetyowira/etiqueta/infrastructure/storage"
)

// Mode selects which asset types a bulk export produces.
type Mode string

const (
	ModeQR     Mode = "qr"
	ModeLabels Mode = "labels"
	ModeBoth   Mode = "both"
)

// poolSize caps simultaneous in-flight item processing during a bulk run.
const poolSize = 6

// ProgressFunc receives (done, total) after each product finishes,
// regardless of whether its sub-steps succeeded.
type ProgressFunc func(done, total int)

// Result is a finished bulk export: the archive bytes, the download
// filename, and per-item accounting.
type Result struct {
	Archive  []byte
	Filename string
	Total    int
	Done     int
	Warnings int
}

// ProductSource batch-loads the products to export.
type ProductSource interface {
	ProductsWithLocations(ctx context.Context, ids []uint) ([]catalog.Product, map[uint][]catalog.ProductLocation, error)
}

// QRSource looks up already persisted QR assets.
type QRSource interface {
	FindQRByProductIDs(ctx context.Context, ids []uint) ([]assets.QRAsset, error)
}

// QRGenerator synthesizes QR PNGs on the fly.
type QRGenerator interface {
	Generate(payload string, sizePx int) ([]byte, error)
}

// LabelPersister stores a rendered label as the product's current asset.
type LabelPersister interface {
	PersistLabel(ctx context.Context, productID uint, data []byte, configHash, configJSON string) (*assets.LabelAsset, error)
}

// LabelRenderer produces label PNG bytes plus the config hash/snapshot
// without persisting.
type LabelRenderer interface {
	RenderLabel(ctx context.Context, p catalog.Product, locations []catalog.ProductLocation, cfg label.Config) ([]byte, string, string, error)
}

// Exporter drives bulk QR/label archive generation.
type Exporter struct {
	products  ProductSource
	qrAssets  QRSource
	blobs     storage.BlobStore
	qr        QRGenerator
	renderer  LabelRenderer
	persister LabelPersister
	dedup     *cache.NamespaceLRU
}

// NewExporter creates a new bulk exporter
func NewExporter(
	products ProductSource,
	qrAssets QRSource,
	blobs storage.BlobStore,
	qr QRGenerator,
	renderer LabelRenderer,
	persister LabelPersister,
	dedup *cache.NamespaceLRU,
) *Exporter {
	return &Exporter{
		products:  products,
		qrAssets:  qrAssets,
		blobs:     blobs,
		qr:        qr,
		renderer:  renderer,
		persister: persister,
		dedup:     dedup,
	}
}

// ValidMode reports whether m names a supported export mode.
func ValidMode(m Mode) bool {
	return m == ModeQR || m == ModeLabels || m == ModeBoth
}

type archiveEntry struct {
	name string
	data []byte
}

// Export generates the archive for a product selection. Per-product
// render and persistence failures degrade to warnings and skipped files;
// only archive-level failures (or an invalid request) are fatal.
func (e *Exporter) Export(ctx context.Context, ids []uint, mode Mode, cfg label.Config, progress ProgressFunc) (*Result, error) {
	if len(ids) == 0 {
		return nil, errors.New(constant.ErrEmptySelection)
	}
	if !ValidMode(mode) {
		return nil, errors.New(constant.ErrInvalidExportMode)
	}
	if mode != ModeQR {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	products, locations, err := e.products.ProductsWithLocations(ctx, ids)
	if err != nil {
		return nil, err
	}

	existingQR := map[uint]string{}
	if mode != ModeLabels {
		known, err := e.qrAssets.FindQRByProductIDs(ctx, ids)
		if err != nil {
			// Missing lookup data never blocks an export; every QR is
			// synthesized fresh instead.
			logger.CtxWarn(ctx, "QR asset lookup failed, regenerating all", logger.LoggerInfo{
				ContextFunction: constant.CtxBulkExport,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeExportItem,
					Message: err.Error(),
					Type:    constant.ErrTypeRetrieval,
				},
			})
		} else {
			for _, asset := range known {
				existingQR[asset.ProductID] = asset.Path
			}
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var mu sync.Mutex
	var archiveErr error
	total := len(products)
	done := 0
	warnings := 0

	forEach(ctx, total, poolSize, func(i int) {
		p := products[i]
		entries, warned := e.processProduct(ctx, p, locations[p.ID], mode, cfg, existingQR[p.ID])

		mu.Lock()
		if archiveErr == nil {
			for _, entry := range entries {
				w, err := zw.Create(entry.name)
				if err == nil {
					_, err = w.Write(entry.data)
				}
				if err != nil {
					archiveErr = errors.New(constant.ErrArchiveWrite)
					break
				}
			}
		}
		done++
		warnings += warned
		d := done
		mu.Unlock()

		if progress != nil {
			progress(d, total)
		}
	})

	if archiveErr != nil {
		logger.CtxError(ctx, "Archive assembly failed", logger.LoggerInfo{
			ContextFunction: constant.CtxBulkExport,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeExportArchive,
				Message: archiveErr.Error(),
				Type:    constant.ErrTypeExport,
			},
		})
		return nil, archiveErr
	}

	if err := zw.Close(); err != nil {
		return nil, errors.New(constant.ErrArchiveWrite)
	}

	result := &Result{
		Archive:  buf.Bytes(),
		Filename: constant.ArchiveNameBase + time.Now().Format("2006-01-02") + ".zip",
		Total:    total,
		Done:     done,
		Warnings: warnings,
	}

	logger.CtxInfo(ctx, constant.MsgExportCompleted, logger.LoggerInfo{
		ContextFunction: constant.CtxBulkExport,
		Data: map[string]interface{}{
			constant.DataMode:     string(mode),
			constant.DataTotal:    total,
			constant.DataWarnings: warnings,
			constant.DataFilename: result.Filename,
			constant.DataBytes:    len(result.Archive),
		},
	})

	return result, nil
}

// processProduct produces the archive entries for one product and the
// number of warnings it accumulated. It never returns an error: a failed
// sub-step drops that product's file and warns.
func (e *Exporter) processProduct(ctx context.Context, p catalog.Product, locations []catalog.ProductLocation, mode Mode, cfg label.Config, qrPath string) ([]archiveEntry, int) {
	var entries []archiveEntry
	warnings := 0

	if mode == ModeQR || mode == ModeBoth {
		data, err := e.qrBytes(ctx, p, qrPath)
		if err != nil {
			warnings++
			e.warnSkipped(ctx, p.ID, err)
		} else {
			entries = append(entries, archiveEntry{
				name: entryName(mode, constant.QRFolder, constant.QRFilePrefix, p.Code),
				data: data,
			})
		}
	}

	if mode == ModeLabels || mode == ModeBoth {
		data, hash, snapshot, err := e.renderer.RenderLabel(ctx, p, locations, cfg)
		if err != nil {
			warnings++
			e.warnSkipped(ctx, p.ID, err)
		} else {
			entries = append(entries, archiveEntry{
				name: entryName(mode, constant.LabelFolder, constant.LabelFilePrefix, p.Code),
				data: data,
			})

			// Persistence failure never costs the archive its entry.
			if _, err := e.persister.PersistLabel(ctx, p.ID, data, hash, snapshot); err != nil {
				warnings++
				logger.CtxWarn(ctx, constant.MsgExportPersistFailed, logger.LoggerInfo{
					ContextFunction: constant.CtxBulkExport,
					Error: &logger.CustomError{
						Code:    constant.ErrCodeAssetPersist,
						Message: err.Error(),
						Type:    constant.ErrTypePersistence,
					},
					Data: map[string]interface{}{
						constant.DataProductID: p.ID,
					},
				})
			}
		}
	}

	return entries, warnings
}

// qrBytes resolves the QR image for one product: the persisted asset
// when available, else a fresh synthesis deduplicated by payload within
// this run. Bulk export never persists synthesized QRs; only the
// explicit single-product generate does.
func (e *Exporter) qrBytes(ctx context.Context, p catalog.Product, qrPath string) ([]byte, error) {
	if qrPath != "" {
		data, err := e.blobs.Get(ctx, qrPath)
		if err == nil {
			return data, nil
		}
		// A bad stored asset degrades to regeneration, never aborts.
		logger.CtxWarn(ctx, "Persisted QR unreadable, regenerating", logger.LoggerInfo{
			ContextFunction: constant.CtxBulkExport,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeAssetNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataProductID: p.ID,
				constant.DataPath:      qrPath,
			},
		})
	}

	payload := label.EncodePayload(p.Code, p.Name)
	key := payload + "@" + strconv.Itoa(qrcode.DefaultSizePx)

	if cached, found := e.dedup.Get(constant.PayloadNamespace, key); found {
		if data, ok := cached.([]byte); ok {
			return data, nil
		}
	}

	data, err := e.qr.Generate(payload, qrcode.DefaultSizePx)
	if err != nil {
		return nil, err
	}

	e.dedup.Set(constant.PayloadNamespace, key, data)
	return data, nil
}

func (e *Exporter) warnSkipped(ctx context.Context, productID uint, err error) {
	logger.CtxWarn(ctx, constant.MsgExportItemSkipped, logger.LoggerInfo{
		ContextFunction: constant.CtxBulkExport,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeExportItem,
			Message: err.Error(),
			Type:    constant.ErrTypeExport,
		},
		Data: map[string]interface{}{
			constant.DataProductID: productID,
		},
	})
}

// entryName applies the file naming contract: flat names for a single
// asset type, per-type folders when both are requested.
func entryName(mode Mode, folder, prefix, code string) string {
	name := prefix + code + ".png"
	if mode == ModeBoth {
		return folder + name
	}
	return name
}
