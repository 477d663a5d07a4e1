package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/infrastructure/cache"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
)

// Product is a catalog entry. The warehouse/aisle/shelf fields are the
// legacy location, used only when a product has no location rows.
type Product struct {
	ID        uint      `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Barcode   string    `json:"barcode"`
	Warehouse string    `json:"warehouse"`
	Aisle     string    `json:"aisle"`
	Shelf     string    `json:"shelf"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductLocation is one physical placement of a product. A product may
// have zero or many locations; at most one is primary.
type ProductLocation struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Warehouse string `json:"warehouse"`
	Aisle     string `json:"aisle"`
	Shelf     string `json:"shelf"`
	IsPrimary bool   `json:"is_primary"`
}

// Resolved is the location actually printed on a label, plus the key
// that feeds the label config hash.
type Resolved struct {
	LocationKey string
	Warehouse   string
	Aisle       string
	Shelf       string
}

// legacyLocationKey marks a resolution that fell back to the product's
// legacy fields.
const legacyLocationKey = "legacy"

// Repository defines the interface for catalog persistence operations
type Repository interface {
	StoreProduct(ctx context.Context, p *Product) error
	FindProduct(ctx context.Context, id uint) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	FindProductsByIDs(ctx context.Context, ids []uint) ([]Product, error)
	StoreLocation(ctx context.Context, loc *ProductLocation) error
	FindLocationsByProductIDs(ctx context.Context, ids []uint) ([]ProductLocation, error)
}

// Service represents the domain service for the product catalog
type Service struct {
	repo  Repository
	cache *cache.NamespaceLRU
}

// NewService creates a new catalog service
func NewService(repo Repository, lru *cache.NamespaceLRU) *Service {
	logger.Debug("Creating catalog service", logger.LoggerInfo{
		ContextFunction: constant.CtxDomain,
		Data: map[string]interface{}{
			constant.DataService: "catalog",
		},
	})

	return &Service{
		repo:  repo,
		cache: lru,
	}
}

// CreateProduct validates and stores a new product
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if p.Code == "" {
		logger.CtxWarn(ctx, "Product code cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxCreateProduct,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptyProductCode,
				Message: constant.ErrEmptyProductCode,
				Type:    constant.ErrTypeValidation,
			},
		})
		return errors.New(constant.ErrEmptyProductCode)
	}
	if p.Name == "" {
		logger.CtxWarn(ctx, "Product name cannot be empty", logger.LoggerInfo{
			ContextFunction: constant.CtxCreateProduct,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeEmptyProductName,
				Message: constant.ErrEmptyProductName,
				Type:    constant.ErrTypeValidation,
			},
		})
		return errors.New(constant.ErrEmptyProductName)
	}

	p.CreatedAt = time.Now()
	if err := s.repo.StoreProduct(ctx, p); err != nil {
		logger.CtxError(ctx, "Failed to store product", logger.LoggerInfo{
			ContextFunction: constant.CtxCreateProduct,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
			Data: map[string]interface{}{
				constant.DataCode: p.Code,
			},
		})
		return err
	}

	s.cache.Set(constant.ProductNamespace, cacheKey(p.ID), p)

	logger.CtxInfo(ctx, "Product created", logger.LoggerInfo{
		ContextFunction: constant.CtxCreateProduct,
		Data: map[string]interface{}{
			constant.DataProductID: p.ID,
			constant.DataCode:      p.Code,
		},
	})

	return nil
}

// GetProduct retrieves a single product, cache first
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	if val, found := s.cache.Get(constant.ProductNamespace, cacheKey(id)); found {
		if p, ok := val.(*Product); ok {
			return p, nil
		}
	}

	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to find product", logger.LoggerInfo{
			ContextFunction: constant.CtxGetProduct,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeProductNotFound,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
			Data: map[string]interface{}{
				constant.DataProductID: id,
			},
		})
		return nil, err
	}

	s.cache.Set(constant.ProductNamespace, cacheKey(id), p)
	return p, nil
}

// ListProducts returns the full catalog
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// AddLocation stores a location row for a product
func (s *Service) AddLocation(ctx context.Context, loc *ProductLocation) error {
	if _, err := s.GetProduct(ctx, loc.ProductID); err != nil {
		return err
	}

	if err := s.repo.StoreLocation(ctx, loc); err != nil {
		logger.CtxError(ctx, "Failed to store location", logger.LoggerInfo{
			ContextFunction: constant.CtxAddLocation,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypePersistence,
			},
			Data: map[string]interface{}{
				constant.DataProductID: loc.ProductID,
			},
		})
		return err
	}

	logger.CtxInfo(ctx, "Location added", logger.LoggerInfo{
		ContextFunction: constant.CtxAddLocation,
		Data: map[string]interface{}{
			constant.DataProductID:  loc.ProductID,
			constant.DataLocationID: loc.ID,
		},
	})

	return nil
}

// LocationsForProduct returns the location rows of one product
func (s *Service) LocationsForProduct(ctx context.Context, id uint) ([]ProductLocation, error) {
	return s.repo.FindLocationsByProductIDs(ctx, []uint{id})
}

// ProductsWithLocations batch-loads products and their location rows,
// grouped by product ID. Products that do not exist are silently absent
// from the result.
func (s *Service) ProductsWithLocations(ctx context.Context, ids []uint) ([]Product, map[uint][]ProductLocation, error) {
	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	locations, err := s.repo.FindLocationsByProductIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	grouped := make(map[uint][]ProductLocation, len(ids))
	for _, loc := range locations {
		grouped[loc.ProductID] = append(grouped[loc.ProductID], loc)
	}

	return products, grouped, nil
}

// ResolveLocation picks the location printed on a product's label:
// the primary row, else the first row, else the product's legacy fields.
func ResolveLocation(p Product, locations []ProductLocation) Resolved {
	for _, loc := range locations {
		if loc.IsPrimary {
			return resolvedFrom(loc)
		}
	}
	if len(locations) > 0 {
		return resolvedFrom(locations[0])
	}

	return Resolved{
		LocationKey: legacyLocationKey,
		Warehouse:   p.Warehouse,
		Aisle:       p.Aisle,
		Shelf:       p.Shelf,
	}
}

func resolvedFrom(loc ProductLocation) Resolved {
	return Resolved{
		LocationKey: strconv.FormatUint(uint64(loc.ID), 10),
		Warehouse:   loc.Warehouse,
		Aisle:       loc.Aisle,
		Shelf:       loc.Shelf,
	}
}

func cacheKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
