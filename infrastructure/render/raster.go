package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/prasetyowira/etiqueta/constant"
	"github.com/prasetyowira/etiqueta/domain/label"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Rasterizer renders a label document to PNG bytes at a quality scale.
type Rasterizer interface {
	Render(doc *label.Document, scale float64) ([]byte, error)
}

// PNGRasterizer draws label documents onto an RGBA canvas using the Go
// font family for text and nearest-neighbor scaling for the QR block.
type PNGRasterizer struct {
	regular *sfnt.Font
	bold    *sfnt.Font
}

// NewPNGRasterizer parses the embedded fonts once, up front
func NewPNGRasterizer() (*PNGRasterizer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}

	return &PNGRasterizer{regular: regular, bold: bold}, nil
}

// Render rasterizes a document at the given scale factor. A failed image
// decode aborts the whole render; a partial canvas is never returned.
func (r *PNGRasterizer) Render(doc *label.Document, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}

	width := scaled(doc.WidthPx, scale)
	height := scaled(doc.HeightPx, scale)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	// Labels print on white stock; transparency comes out black on some
	// printers, so the background fill is unconditional.
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)

	for _, el := range doc.Elements {
		switch el.Kind {
		case label.KindImage:
			if err := drawImage(dst, el, scale); err != nil {
				return nil, err
			}
		case label.KindText:
			if err := r.drawText(dst, el, scale); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func drawImage(dst *image.RGBA, el label.Element, scale float64) error {
	img, err := png.Decode(bytes.NewReader(el.PNG))
	if err != nil {
		return errors.New(constant.ErrRenderDecodeImage)
	}

	x := scaled(el.X, scale)
	y := scaled(el.Y, scale)
	size := scaled(el.SizePx, scale)

	// Nearest-neighbor keeps QR modules crisp at any scale.
	rect := image.Rect(x, y, x+size, y+size)
	xdraw.NearestNeighbor.Scale(dst, rect, img, img.Bounds(), xdraw.Src, nil)

	return nil
}

func (r *PNGRasterizer) drawText(dst *image.RGBA, el label.Element, scale float64) error {
	fnt := r.regular
	if el.Bold {
		fnt = r.bold
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(el.FontPx) * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	drawer := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	metrics := face.Metrics()

	x := scaled(el.X, scale)
	y := scaled(el.Y, scale) + metrics.Ascent.Ceil()

	lines := []string{el.Text}
	if el.MaxLines > 0 && el.MaxWidthPx > 0 {
		lines = clampLines(drawer, el.Text, scaled(el.MaxWidthPx, scale), el.MaxLines)
	}

	for _, line := range lines {
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(line)
		y += metrics.Height.Ceil()
	}

	return nil
}

// clampLines word-wraps text to maxWidth and clamps it to maxLines,
// ellipsizing the last retained line when content overflows.
func clampLines(d *font.Drawer, text string, maxWidth, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if d.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	lines = append(lines, current)

	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := lines[maxLines-1]
	for d.MeasureString(last+"…").Ceil() > maxWidth && len([]rune(last)) > 1 {
		runes := []rune(last)
		last = string(runes[:len(runes)-1])
	}
	lines[maxLines-1] = last + "…"

	return lines
}

func scaled(v int, scale float64) int {
	return int(math.Round(float64(v) * scale))
}
