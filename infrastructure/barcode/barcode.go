package barcode

import (
	"bytes"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Default dimensions for on-demand barcode strips.
const (
	DefaultWidthPx  = 400
	DefaultHeightPx = 120
)

// Generator renders Code128 barcode PNGs for product barcode values.
type Generator struct{}

// NewGenerator creates a new barcode generator
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateCode128 encodes a value as a Code128 barcode scaled to the
// given pixel dimensions
func (g *Generator) GenerateCode128(value string, widthPx, heightPx int) ([]byte, error) {
	if widthPx <= 0 {
		widthPx = DefaultWidthPx
	}
	if heightPx <= 0 {
		heightPx = DefaultHeightPx
	}

	bc, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(bc, widthPx, heightPx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
