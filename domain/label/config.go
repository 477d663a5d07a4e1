package label

import (
	"errors"

	"github.com/prasetyowira/etiqueta/constant"
)

// Quality selects the rasterization scale factor for label rendering.
type Quality string

const (
	QualityAuto    Quality = "auto"
	QualityDefault Quality = "default"
	QualityBetter  Quality = "better"
	QualityMax     Quality = "max"
)

// OffsetMm is a per-field (x, y) offset in millimeters.
type OffsetMm struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config describes how a label is rendered. It is an immutable value
// object; a new Config is derived when the user edits settings, never
// mutated in place.
type Config struct {
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
	DPI      int     `json:"dpi"`

	ShowQR        bool `json:"show_qr"`
	ShowCode      bool `json:"show_code"`
	ShowBarcode   bool `json:"show_barcode"`
	ShowName      bool `json:"show_name"`
	ShowLocation  bool `json:"show_location"`
	ShowWarehouse bool `json:"show_warehouse"`

	// Font sizes are pixel sizes at the config's DPI. The code line is
	// always bold.
	CodeFontPx      int  `json:"code_font_px"`
	BarcodeFontPx   int  `json:"barcode_font_px"`
	NameFontPx      int  `json:"name_font_px"`
	LocationFontPx  int  `json:"location_font_px"`
	WarehouseFontPx int  `json:"warehouse_font_px"`
	BarcodeBold     bool `json:"barcode_bold"`
	NameBold        bool `json:"name_bold"`

	QROffset        OffsetMm `json:"qr_offset"`
	CodeOffset      OffsetMm `json:"code_offset"`
	BarcodeOffset   OffsetMm `json:"barcode_offset"`
	NameOffset      OffsetMm `json:"name_offset"`
	LocationOffset  OffsetMm `json:"location_offset"`
	WarehouseOffset OffsetMm `json:"warehouse_offset"`

	QRSizeMm     float64 `json:"qr_size_mm"`
	PaddingMm    float64 `json:"padding_mm"`
	NameMaxLines int     `json:"name_max_lines"`

	Quality Quality `json:"quality"`
}

// DefaultConfig returns the stock 50x30mm thermal label configuration.
func DefaultConfig() Config {
	return Config{
		WidthMm:  50,
		HeightMm: 30,
		DPI:      203,

		ShowQR:        true,
		ShowCode:      true,
		ShowBarcode:   true,
		ShowName:      true,
		ShowLocation:  true,
		ShowWarehouse: true,

		CodeFontPx:      13,
		BarcodeFontPx:   11,
		NameFontPx:      11,
		LocationFontPx:  11,
		WarehouseFontPx: 10,
		BarcodeBold:     false,
		NameBold:        true,

		QRSizeMm:     18,
		PaddingMm:    2,
		NameMaxLines: 2,

		Quality: QualityAuto,
	}
}

// ScaleFactor maps the quality setting to a rasterization scale. Auto
// compensates for low print resolution by scaling 2x at 203 DPI.
func (c Config) ScaleFactor() float64 {
	switch c.Quality {
	case QualityAuto:
		if c.DPI <= 203 {
			return 2
		}
		return 1
	case QualityBetter:
		return 2
	case QualityMax:
		return 3
	default:
		return 1
	}
}

// Validate checks the physical parameters of the config.
func (c Config) Validate() error {
	if c.WidthMm <= 0 || c.HeightMm <= 0 {
		return errors.New(constant.ErrInvalidDimensions)
	}
	if !ValidDPI(c.DPI) {
		return errors.New(constant.ErrInvalidDPI)
	}
	return nil
}
