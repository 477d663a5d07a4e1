// Package report builds spreadsheet exports of the product catalog.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/assets"
	"github.com/prasetyowira/etiqueta/domain/catalog"
	"github.com/prasetyowira/etiqueta/infrastructure/logger"
	"github.com/xuri/excelize/v2"
)

const catalogSheet = "Catalog"

var catalogHeaders = []string{
	"Code", "Name", "Barcode",
	"Warehouse", "Aisle", "Shelf",
	"QR Asset", "Label Asset",
}

var catalogColWidths = map[string]float64{
	"A": 16, "B": 36, "C": 18,
	"D": 14, "E": 10, "F": 10,
	"G": 30, "H": 30,
}

// CatalogSource lists the catalog rows a report covers.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ProductsWithLocations(ctx context.Context, ids []uint) ([]catalog.Product, map[uint][]catalog.ProductLocation, error)
}

// AssetSource looks up the persisted asset rows per product.
type AssetSource interface {
	FindQRByProductIDs(ctx context.Context, ids []uint) ([]assets.QRAsset, error)
	FindLabelByProductIDs(ctx context.Context, ids []uint) ([]assets.LabelAsset, error)
}

// Service produces the Excel catalog report.
type Service struct {
	catalog CatalogSource
	assets  AssetSource
}

// NewService creates a new report service
func NewService(catalog CatalogSource, assets AssetSource) *Service {
	return &Service{catalog: catalog, assets: assets}
}

// BuildCatalogReport renders the full catalog with resolved locations
// and current asset paths into a workbook, returning it together with
// the download filename.
func (s *Service) BuildCatalogReport(ctx context.Context) (*excelize.File, string, error) {
	listed, err := s.catalog.ListProducts(ctx)
	if err != nil {
		logger.CtxError(ctx, constant.MsgReportFailed, logger.LoggerInfo{
			ContextFunction: constant.CtxCatalogReport,
			Error: &logger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeRetrieval,
			},
		})
		return nil, "", err
	}

	ids := make([]uint, len(listed))
	for i, p := range listed {
		ids[i] = p.ID
	}

	products := listed
	locations := map[uint][]catalog.ProductLocation{}
	if len(ids) > 0 {
		products, locations, err = s.catalog.ProductsWithLocations(ctx, ids)
		if err != nil {
			return nil, "", err
		}
	}

	qrPaths, labelPaths := s.assetPaths(ctx, ids)

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", catalogSheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range catalogHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(catalogSheet, cell, h)
		f.SetCellStyle(catalogSheet, cell, cell, boldStyle)
	}

	for rowIdx, p := range products {
		row := rowIdx + 2
		resolved := catalog.ResolveLocation(p, locations[p.ID])

		f.SetCellValue(catalogSheet, fmt.Sprintf("A%d", row), p.Code)
		f.SetCellValue(catalogSheet, fmt.Sprintf("B%d", row), p.Name)
		f.SetCellValue(catalogSheet, fmt.Sprintf("C%d", row), p.Barcode)
		f.SetCellValue(catalogSheet, fmt.Sprintf("D%d", row), resolved.Warehouse)
		f.SetCellValue(catalogSheet, fmt.Sprintf("E%d", row), resolved.Aisle)
		f.SetCellValue(catalogSheet, fmt.Sprintf("F%d", row), resolved.Shelf)
		f.SetCellValue(catalogSheet, fmt.Sprintf("G%d", row), qrPaths[p.ID])
		f.SetCellValue(catalogSheet, fmt.Sprintf("H%d", row), labelPaths[p.ID])
	}

	for col, w := range catalogColWidths {
		f.SetColWidth(catalogSheet, col, col, w)
	}

	filename := constant.ReportNameBase + time.Now().Format("2006-01-02") + ".xlsx"

	logger.CtxInfo(ctx, constant.MsgReportCompleted, logger.LoggerInfo{
		ContextFunction: constant.CtxCatalogReport,
		Data: map[string]interface{}{
			constant.DataTotal:    len(products),
			constant.DataFilename: filename,
		},
	})

	return f, filename, nil
}

// assetPaths loads the current asset path per product. A lookup failure
// leaves the corresponding columns blank rather than failing the report.
func (s *Service) assetPaths(ctx context.Context, ids []uint) (map[uint]string, map[uint]string) {
	qrPaths := map[uint]string{}
	labelPaths := map[uint]string{}
	if len(ids) == 0 {
		return qrPaths, labelPaths
	}

	qrs, err := s.assets.FindQRByProductIDs(ctx, ids)
	if err != nil {
		s.warnLookup(ctx, err)
	} else {
		for _, a := range qrs {
			qrPaths[a.ProductID] = a.Path
		}
	}

	labels, err := s.assets.FindLabelByProductIDs(ctx, ids)
	if err != nil {
		s.warnLookup(ctx, err)
	} else {
		for _, a := range labels {
			labelPaths[a.ProductID] = a.Path
		}
	}

	return qrPaths, labelPaths
}

func (s *Service) warnLookup(ctx context.Context, err error) {
	logger.CtxWarn(ctx, constant.MsgReportAssetLookupFailed, logger.LoggerInfo{
		ContextFunction: constant.CtxCatalogReport,
		Error: &logger.CustomError{
			Code:    constant.ErrCodeAssetNotFound,
			Message: err.Error(),
			Type:    constant.ErrTypeRetrieval,
		},
	})
}
