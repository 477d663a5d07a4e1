package db

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	appLogger "github.com/prasetyowira/etiqueta/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements catalog.Repository and assets.Repository
// on a single SQLite database.
type SQLiteRepository struct {
	db *gorm.DB
}

// ProductModel is the GORM model for a catalog product
type ProductModel struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	Barcode   string
	Warehouse string
	Aisle     string
	Shelf     string
	CreatedAt time.Time
}

// ProductLocationModel is the GORM model for a product location
type ProductLocationModel struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Warehouse string
	Aisle     string
	Shelf     string
	IsPrimary bool
}

// QRAssetModel is the GORM model for a product's current QR asset
type QRAssetModel struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"uniqueIndex;not null"`
	Payload   string
	Path      string `gorm:"not null"`
	CreatedAt time.Time
}

// LabelAssetModel is the GORM model for a product's current label asset
type LabelAssetModel struct {
	ID         uint `gorm:"primaryKey"`
	ProductID  uint `gorm:"uniqueIndex;not null"`
	Path       string `gorm:"not null"`
	ConfigHash string `gorm:"index"`
	ConfigJSON string
	CreatedAt  time.Time
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	ctx := appLogger.NewRequestContext()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	// Auto-migrate the schema
	if err := gdb.AutoMigrate(&ProductModel{}, &ProductLocationModel{}, &QRAssetModel{}, &LabelAssetModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteRepository{db: gdb}, nil
}

// StoreProduct persists a new product. Product codes are unique.
func (r *SQLiteRepository) StoreProduct(ctx context.Context, p *catalog.Product) error {
	var count int64
	err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM product_models WHERE code = ?`, p.Code).Count(&count).Error
	if err != nil {
		appLogger.CtxError(ctx, "Error checking for existing product code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStoreProduct,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataCode: p.Code,
			},
		})
		return err
	}

	if count > 0 {
		appLogger.CtxWarn(ctx, "Product code already exists", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStoreProduct,
			Data: map[string]interface{}{
				constant.DataCode: p.Code,
			},
		})
		return errors.New(constant.ErrProductCodeExists)
	}

	model := ProductModel{
		Code:      p.Code,
		Name:      p.Name,
		Barcode:   p.Barcode,
		Warehouse: p.Warehouse,
		Aisle:     p.Aisle,
		Shelf:     p.Shelf,
		CreatedAt: p.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to insert product", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStoreProduct,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataCode: p.Code,
			},
		})
		return err
	}

	p.ID = model.ID

	appLogger.CtxInfo(ctx, "Product stored successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxStoreProduct,
		Data: map[string]interface{}{
			constant.DataProductID: p.ID,
			constant.DataCode:      p.Code,
		},
	})

	return nil
}

// FindProduct retrieves one product by ID.
func (r *SQLiteRepository) FindProduct(ctx context.Context, id uint) (*catalog.Product, error) {
	var model ProductModel
	result := r.db.WithContext(ctx).Raw(`SELECT * FROM product_models WHERE id = ? LIMIT 1`, id).Scan(&model)
	if result.Error != nil {
		appLogger.CtxError(ctx, "Database error while looking up product", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindProduct,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: result.Error.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataProductID: id,
			},
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New(constant.ErrProductNotFound)
	}

	p := productFromModel(model)
	return &p, nil
}

// ListProducts returns the full catalog ordered by code.
func (r *SQLiteRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var models []ProductModel
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM product_models ORDER BY code`).Scan(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Database error while listing products", appLogger.LoggerInfo{
			ContextFunction: constant.CtxListProducts,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	products := make([]catalog.Product, len(models))
	for i, m := range models {
		products[i] = productFromModel(m)
	}
	return products, nil
}

// FindProductsByIDs returns the products matching ids, in code order.
// Unknown ids are silently skipped.
func (r *SQLiteRepository) FindProductsByIDs(ctx context.Context, ids []uint) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []ProductModel
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM product_models WHERE id IN ? ORDER BY code`, ids).Scan(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Database error while batch loading products", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindProduct,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataProductIDs: ids,
			},
		})
		return nil, err
	}

	products := make([]catalog.Product, len(models))
	for i, m := range models {
		products[i] = productFromModel(m)
	}
	return products, nil
}

// StoreLocation persists a new location row. A primary location demotes
// any previous primary of the same product.
func (r *SQLiteRepository) StoreLocation(ctx context.Context, loc *catalog.ProductLocation) error {
	if loc.IsPrimary {
		result := r.db.WithContext(ctx).Exec(`UPDATE product_location_models SET is_primary = 0 WHERE product_id = ?`, loc.ProductID)
		if result.Error != nil {
			appLogger.CtxError(ctx, "Failed to demote previous primary location", appLogger.LoggerInfo{
				ContextFunction: constant.CtxStoreLocation,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeDBUpsert,
					Message: result.Error.Error(),
					Type:    constant.ErrTypeDB,
				},
				Data: map[string]interface{}{
					constant.DataProductID: loc.ProductID,
				},
			})
			return result.Error
		}
	}

	model := ProductLocationModel{
		ProductID: loc.ProductID,
		Warehouse: loc.Warehouse,
		Aisle:     loc.Aisle,
		Shelf:     loc.Shelf,
		IsPrimary: loc.IsPrimary,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to insert location", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStoreLocation,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataProductID: loc.ProductID,
			},
		})
		return err
	}

	loc.ID = model.ID
	return nil
}

// FindLocationsByProductIDs returns all location rows for the products,
// primary rows first.
func (r *SQLiteRepository) FindLocationsByProductIDs(ctx context.Context, ids []uint) ([]catalog.ProductLocation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []ProductLocationModel
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM product_location_models WHERE product_id IN ? ORDER BY is_primary DESC, id`, ids).Scan(&models).Error
	if err != nil {
		appLogger.CtxError(ctx, "Database error while loading locations", appLogger.LoggerInfo{
			ContextFunction: constant.CtxStoreLocation,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataProductIDs: ids,
			},
		})
		return nil, err
	}

	locations := make([]catalog.ProductLocation, len(models))
	for i, m := range models {
		locations[i] = catalog.ProductLocation{
			ID:        m.ID,
			ProductID: m.ProductID,
			Warehouse: m.Warehouse,
			Aisle:     m.Aisle,
			Shelf:     m.Shelf,
			IsPrimary: m.IsPrimary,
		}
	}
	return locations, nil
}

// UpsertQR replaces the product's current QR asset row and returns the
// path of the replaced stored file, if any.
func (r *SQLiteRepository) UpsertQR(ctx context.Context, asset *assets.QRAsset) (string, error) {
	var existing QRAssetModel
	lookup := r.db.WithContext(ctx).Raw(`SELECT * FROM qr_asset_models WHERE product_id = ? LIMIT 1`, asset.ProductID).Scan(&existing)
	if lookup.Error != nil {
		return "", r.upsertLookupError(ctx, asset.ProductID, lookup.Error)
	}

	if lookup.RowsAffected > 0 {
		oldPath := existing.Path
		result := r.db.WithContext(ctx).Exec(
			`UPDATE qr_asset_models SET payload = ?, path = ?, created_at = ? WHERE id = ?`,
			asset.Payload, asset.Path, asset.CreatedAt, existing.ID)
		if result.Error != nil {
			return "", r.upsertWriteError(ctx, asset.ProductID, result.Error)
		}
		asset.ID = existing.ID
		return oldPath, nil
	}

	model := QRAssetModel{
		ProductID: asset.ProductID,
		Payload:   asset.Payload,
		Path:      asset.Path,
		CreatedAt: asset.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return "", r.upsertWriteError(ctx, asset.ProductID, err)
	}
	asset.ID = model.ID
	return "", nil
}

// FindQRByProductIDs returns the current QR asset rows for the products.
func (r *SQLiteRepository) FindQRByProductIDs(ctx context.Context, ids []uint) ([]assets.QRAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []QRAssetModel
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM qr_asset_models WHERE product_id IN ?`, ids).Scan(&models).Error
	if err != nil {
		return nil, r.upsertLookupError(ctx, 0, err)
	}

	result := make([]assets.QRAsset, len(models))
	for i, m := range models {
		result[i] = assets.QRAsset{
			ID:        m.ID,
			ProductID: m.ProductID,
			Payload:   m.Payload,
			Path:      m.Path,
			CreatedAt: m.CreatedAt,
		}
	}
	return result, nil
}

// UpsertLabel replaces the product's current label asset row and returns
// the path of the replaced stored file, if any.
func (r *SQLiteRepository) UpsertLabel(ctx context.Context, asset *assets.LabelAsset) (string, error) {
	var existing LabelAssetModel
	lookup := r.db.WithContext(ctx).Raw(`SELECT * FROM label_asset_models WHERE product_id = ? LIMIT 1`, asset.ProductID).Scan(&existing)
	if lookup.Error != nil {
		return "", r.upsertLookupError(ctx, asset.ProductID, lookup.Error)
	}

	if lookup.RowsAffected > 0 {
		oldPath := existing.Path
		result := r.db.WithContext(ctx).Exec(
			`UPDATE label_asset_models SET path = ?, config_hash = ?, config_json = ?, created_at = ? WHERE id = ?`,
			asset.Path, asset.ConfigHash, asset.ConfigJSON, asset.CreatedAt, existing.ID)
		if result.Error != nil {
			return "", r.upsertWriteError(ctx, asset.ProductID, result.Error)
		}
		asset.ID = existing.ID
		return oldPath, nil
	}

	model := LabelAssetModel{
		ProductID:  asset.ProductID,
		Path:       asset.Path,
		ConfigHash: asset.ConfigHash,
		ConfigJSON: asset.ConfigJSON,
		CreatedAt:  asset.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return "", r.upsertWriteError(ctx, asset.ProductID, err)
	}
	asset.ID = model.ID
	return "", nil
}

// FindLabelByProductIDs returns the current label asset rows for the products.
func (r *SQLiteRepository) FindLabelByProductIDs(ctx context.Context, ids []uint) ([]assets.LabelAsset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []LabelAssetModel
	err := r.db.WithContext(ctx).Raw(`SELECT * FROM label_asset_models WHERE product_id IN ?`, ids).Scan(&models).Error
	if err != nil {
		return nil, r.upsertLookupError(ctx, 0, err)
	}

	result := make([]assets.LabelAsset, len(models))
	for i, m := range models {
		result[i] = assets.LabelAsset{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Path:       m.Path,
			ConfigHash: m.ConfigHash,
			ConfigJSON: m.ConfigJSON,
			CreatedAt:  m.CreatedAt,
		}
	}
	return result, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
	})

	return sqlDB.Close()
}

func productFromModel(m ProductModel) catalog.Product {
	return catalog.Product{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Barcode:   m.Barcode,
		Warehouse: m.Warehouse,
		Aisle:     m.Aisle,
		Shelf:     m.Shelf,
		CreatedAt: m.CreatedAt,
	}
}

func (r *SQLiteRepository) upsertLookupError(ctx context.Context, productID uint, err error) error {
	info := appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpsertAsset,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBLookup,
			Message: err.Error(),
			Type:    constant.ErrTypeDB,
		},
	}
	if productID != 0 {
		info.Data = map[string]interface{}{
			constant.DataProductID: productID,
		}
	}
	appLogger.CtxError(ctx, "Database error while looking up asset row", info)
	return err
}

func (r *SQLiteRepository) upsertWriteError(ctx context.Context, productID uint, err error) error {
	appLogger.CtxError(ctx, "Failed to write asset row", appLogger.LoggerInfo{
		ContextFunction: constant.CtxUpsertAsset,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBUpsert,
			Message: err.Error(),
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataProductID: productID,
		},
	})
	return err
}
