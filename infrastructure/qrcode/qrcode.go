package qrcode

import (
	"github.com/skip2/go-qrcode"
)

// DefaultSizePx is the pixel size used for standalone QR assets.
const DefaultSizePx = 512

// Generator handles QR code generation
type Generator struct{}

// NewGenerator creates a new QR code generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate encodes a payload string into a PNG QR image of the given
// pixel size
func (g *Generator) Generate(payload string, sizePx int) ([]byte, error) {
	if sizePx <= 0 {
		sizePx = DefaultSizePx
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, sizePx)
	if err != nil {
		return nil, err
	}

	return png, nil
}
