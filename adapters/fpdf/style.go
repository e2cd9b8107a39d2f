package docfpdf

import "github.com/goliatone/go-docflow/document"

type rgb struct {
	R, G, B int
}

var (
	colorText     = rgb{0x2c, 0x3e, 0x50}
	colorAccent   = rgb{0x34, 0x49, 0x5e}
	colorMuted    = rgb{0x7f, 0x8c, 0x8d}
	colorWhite    = rgb{0xff, 0xff, 0xff}
	colorStripe   = rgb{0xf8, 0xf9, 0xfa}
	colorGrid     = rgb{0xde, 0xe2, 0xe6}
	colorTotalRow = rgb{0xe9, 0xec, 0xef}
)

// textStyle is the typography of one paragraph or heading kind.
type textStyle struct {
	Size        float64
	Leading     float64
	Bold        bool
	Align       string
	Color       rgb
	SpaceBefore float64
	SpaceAfter  float64
}

var headingStyles = map[int]textStyle{
	document.LevelTitle:   {Size: 24, Leading: 29, Bold: true, Align: "C", Color: colorText, SpaceAfter: 10},
	document.LevelCompany: {Size: 16, Leading: 19, Bold: true, Align: "C", Color: colorAccent, SpaceAfter: 5},
	document.LevelSection: {Size: 13, Leading: 16, Bold: true, Align: "L", Color: colorAccent, SpaceBefore: 10, SpaceAfter: 8},
}

var paragraphStyles = map[document.ParagraphStyle]textStyle{
	document.StyleNormal:  {Size: 11, Leading: 14, Align: "L", Color: colorText},
	document.StyleContact: {Size: 10, Leading: 12, Align: "C", Color: colorMuted},
	document.StyleDate:    {Size: 10, Leading: 12, Align: "R", Color: colorMuted},
}

func headingStyle(level int) textStyle {
	if style, ok := headingStyles[level]; ok {
		return style
	}
	return headingStyles[document.LevelSection]
}

func paragraphStyle(style document.ParagraphStyle) textStyle {
	if s, ok := paragraphStyles[style]; ok {
		return s
	}
	return paragraphStyles[document.StyleNormal]
}

const inch = 72.0

// Column widths in points, tuned per document type.
var (
	priceListWidths = []float64{0.5 * inch, 2 * inch, 2 * inch, 0.8 * inch, 1 * inch, 1.2 * inch}
	invoiceWidths   = []float64{0.5 * inch, 2.5 * inch, 0.8 * inch, 0.8 * inch, 1 * inch, 1.2 * inch}
	signatureWidths = []float64{3 * inch, 3 * inch}
)

func columnWidths(docType document.DocumentType, table document.Table) []float64 {
	var widths []float64
	switch {
	case table.Role == document.TableSignatures:
		widths = signatureWidths
	case docType == document.TypeInvoice:
		widths = invoiceWidths
	default:
		widths = priceListWidths
	}
	cols := table.Columns()
	if len(widths) == cols {
		return append([]float64(nil), widths...)
	}
	out := make([]float64, cols)
	for i := range out {
		out[i] = inch
	}
	return out
}

// tableStyle holds the table painter settings for one table role.
type tableStyle struct {
	HeaderFill   rgb
	HeaderText   rgb
	HeaderSize   float64
	BodyText     rgb
	BodySize     float64
	Stripes      []rgb
	FooterFill   rgb
	Border       bool
	BorderColor  rgb
	BorderWidth  float64
	PaddingX     float64
	PaddingY     float64
	RowPaddingY  map[int]float64
	LineSpacing  float64
	HeaderPadY   float64
	RepeatHeader bool
}

var itemTableStyle = tableStyle{
	HeaderFill:   colorAccent,
	HeaderText:   colorWhite,
	HeaderSize:   11,
	BodyText:     colorText,
	BodySize:     10,
	Stripes:      []rgb{colorWhite, colorStripe},
	FooterFill:   colorTotalRow,
	Border:       true,
	BorderColor:  colorGrid,
	BorderWidth:  1,
	PaddingX:     4,
	PaddingY:     8,
	LineSpacing:  1.2,
	HeaderPadY:   12,
	RepeatHeader: true,
}

var signatureTableStyle = tableStyle{
	BodyText:    colorText,
	BodySize:    10,
	PaddingX:    4,
	PaddingY:    4,
	RowPaddingY: map[int]float64{1: 20},
	LineSpacing: 1.2,
}

func styleForTable(table document.Table) tableStyle {
	if table.Role == document.TableSignatures {
		return signatureTableStyle
	}
	return itemTableStyle
}
