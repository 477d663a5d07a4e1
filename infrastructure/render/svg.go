package render

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/prasetyowira/etiqueta/domain/label"
)

// SVGRenderer serializes a label document to a self-contained SVG string
// for the interactive preview path. Geometry matches the PNG rasterizer;
// text shaping is delegated to the viewer.
type SVGRenderer struct{}

// NewSVGRenderer creates a new SVG renderer
func NewSVGRenderer() *SVGRenderer {
	return &SVGRenderer{}
}

var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// RenderSVG produces the SVG markup for a document
func (r *SVGRenderer) RenderSVG(doc *label.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		doc.WidthPx, doc.HeightPx, doc.WidthPx, doc.HeightPx,
	)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#fff"/>`, doc.WidthPx, doc.HeightPx)

	for _, el := range doc.Elements {
		switch el.Kind {
		case label.KindImage:
			fmt.Fprintf(&sb,
				`<image x="%d" y="%d" width="%d" height="%d" href="data:image/png;base64,%s"/>`,
				el.X, el.Y, el.SizePx, el.SizePx,
				base64.StdEncoding.EncodeToString(el.PNG),
			)
		case label.KindText:
			weight := "normal"
			if el.Bold {
				weight = "bold"
			}
			// Text baseline sits one font size below the block's top edge.
			fmt.Fprintf(&sb,
				`<text x="%d" y="%d" font-family="sans-serif" font-size="%d" font-weight="%s" fill="#000">%s</text>`,
				el.X, el.Y+el.FontPx, el.FontPx, weight,
				svgEscaper.Replace(el.Text),
			)
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}
