package label

// Subject is the product data printed on a label, with the warehouse,
// aisle and shelf fields already resolved to the selected location.
type Subject struct {
	Code      string
	Name      string
	Barcode   string
	Warehouse string
	Aisle     string
	Shelf     string
}

// ElementKind discriminates document element types.
type ElementKind int

const (
	KindImage ElementKind = iota
	KindText
)

// Element is one absolutely positioned block in a label document.
// Positions and sizes are pixels at the document's DPI, before any
// rasterization scale is applied.
type Element struct {
	Kind ElementKind
	X    int
	Y    int

	// Image element fields
	PNG    []byte
	SizePx int

	// Text element fields
	Text       string
	FontPx     int
	Bold       bool
	MaxLines   int
	MaxWidthPx int
}

// Document is the declarative visual layout of one label, ready for a
// renderer. The same document feeds both the PNG rasterizer and the SVG
// preview so the two paths look the same to the user.
type Document struct {
	WidthPx  int
	HeightPx int
	DPI      int
	Elements []Element
}

// textGapMm separates the QR block from the text column.
const textGapMm = 2.0

// lineHeight is the vertical advance for one stacked text line.
func lineHeight(fontPx int) int {
	return fontPx + fontPx/4
}

// BuildDocument composes the label layout for a product and config. The
// QR image is optional; when absent (or hidden by config) the text column
// starts at the padding edge. A resolved warehouse value of "" omits the
// warehouse line entirely, even when the config shows it.
func BuildDocument(subject Subject, qrPNG []byte, cfg Config) *Document {
	doc := &Document{
		WidthPx:  PxFromMm(cfg.WidthMm, cfg.DPI),
		HeightPx: PxFromMm(cfg.HeightMm, cfg.DPI),
		DPI:      cfg.DPI,
	}

	pad := PxFromMm(cfg.PaddingMm, cfg.DPI)
	off := func(o OffsetMm) (int, int) {
		return PxFromMm(o.X, cfg.DPI), PxFromMm(o.Y, cfg.DPI)
	}

	textX := pad
	if cfg.ShowQR && len(qrPNG) > 0 {
		qrSize := PxFromMm(cfg.QRSizeMm, cfg.DPI)
		ox, oy := off(cfg.QROffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:   KindImage,
			X:      pad + ox,
			Y:      pad + oy,
			PNG:    qrPNG,
			SizePx: qrSize,
		})
		textX = pad + qrSize + PxFromMm(textGapMm, cfg.DPI)
	}

	// The code, barcode, location and warehouse lines occupy fixed
	// stacked slots; a hidden line still reserves its slot so offsets
	// stay stable across config edits.
	y := pad
	if cfg.ShowCode && subject.Code != "" {
		ox, oy := off(cfg.CodeOffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:   KindText,
			X:      textX + ox,
			Y:      y + oy,
			Text:   subject.Code,
			FontPx: cfg.CodeFontPx,
			Bold:   true,
		})
	}
	y += lineHeight(cfg.CodeFontPx)

	if cfg.ShowBarcode && subject.Barcode != "" {
		ox, oy := off(cfg.BarcodeOffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:   KindText,
			X:      textX + ox,
			Y:      y + oy,
			Text:   subject.Barcode,
			FontPx: cfg.BarcodeFontPx,
			Bold:   cfg.BarcodeBold,
		})
	}
	y += lineHeight(cfg.BarcodeFontPx)

	if cfg.ShowLocation && (subject.Aisle != "" || subject.Shelf != "") {
		ox, oy := off(cfg.LocationOffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:   KindText,
			X:      textX + ox,
			Y:      y + oy,
			Text:   subject.Aisle + "-" + subject.Shelf,
			FontPx: cfg.LocationFontPx,
			Bold:   false,
		})
	}
	y += lineHeight(cfg.LocationFontPx)

	if cfg.ShowWarehouse && subject.Warehouse != "" {
		ox, oy := off(cfg.WarehouseOffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:   KindText,
			X:      textX + ox,
			Y:      y + oy,
			Text:   subject.Warehouse,
			FontPx: cfg.WarehouseFontPx,
			Bold:   false,
		})
	}

	if cfg.ShowName && subject.Name != "" {
		ox, oy := off(cfg.NameOffset)
		doc.Elements = append(doc.Elements, Element{
			Kind:       KindText,
			X:          pad + ox,
			Y:          doc.HeightPx - pad - cfg.NameFontPx + oy,
			Text:       subject.Name,
			FontPx:     cfg.NameFontPx,
			Bold:       cfg.NameBold,
			MaxLines:   cfg.NameMaxLines,
			MaxWidthPx: doc.WidthPx - 2*pad,
		})
	}

	return doc
}
