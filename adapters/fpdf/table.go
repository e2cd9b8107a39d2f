package docfpdf

import (
	"github.com/goliatone/go-docflow/document"
)

type tableRow struct {
	cells  []string
	header bool
	footer bool
	index  int
}

// table draws a block table. Header rows repeat on every page the body spans.
func (p *painter) table(docType document.DocumentType, t document.Table) {
	style := styleForTable(t)
	widths := p.fitWidths(columnWidths(docType, t))
	if len(widths) == 0 {
		return
	}

	var total float64
	for _, w := range widths {
		total += w
	}
	pageW, pageH := p.pdf.GetPageSize()
	_, _, _, bMargin := p.pdf.GetMargins()
	startX := (pageW - total) / 2

	var header *tableRow
	if len(t.Headers) > 0 {
		header = &tableRow{cells: t.Headers, header: true, index: -1}
	}
	rows := make([]tableRow, 0, t.RowCount())
	for idx, cells := range t.Rows {
		rows = append(rows, tableRow{cells: cells, index: idx})
	}
	if len(t.Footer) > 0 {
		rows = append(rows, tableRow{cells: t.Footer, footer: true, index: len(t.Rows)})
	}

	if header != nil {
		// Keep the header with the first body row.
		need := p.rowHeight(style, *header, widths)
		if len(rows) > 0 {
			need += p.rowHeight(style, rows[0], widths)
		}
		if p.pdf.GetY()+need > pageH-bMargin {
			p.pdf.AddPage()
		}
		p.row(t, style, *header, widths, startX)
	}
	for _, r := range rows {
		rowH := p.rowHeight(style, r, widths)
		if p.pdf.GetY()+rowH > pageH-bMargin {
			p.pdf.AddPage()
			if header != nil && style.RepeatHeader {
				p.row(t, style, *header, widths, startX)
			}
		}
		p.row(t, style, r, widths, startX)
	}

	p.setDrawColor(rgb{})
	p.setFillColor(rgb{})
	p.setTextColor(rgb{})
	p.pdf.SetX(p.leftMargin())
}

func (p *painter) leftMargin() float64 {
	left, _, _, _ := p.pdf.GetMargins()
	return left
}

// fitWidths scales the widths down proportionally to the content width.
func (p *painter) fitWidths(widths []float64) []float64 {
	pageW, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	avail := pageW - left - right

	var total float64
	for _, w := range widths {
		total += w
	}
	if total <= avail || total == 0 {
		return widths
	}
	scale := avail / total
	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = w * scale
	}
	return out
}

func (p *painter) rowStyle(style tableStyle, r tableRow) (font float64, bold bool, padY float64) {
	switch {
	case r.header:
		return style.HeaderSize, true, style.HeaderPadY
	case r.footer:
		return style.BodySize, true, style.PaddingY
	}
	padY = style.PaddingY
	if extra, ok := style.RowPaddingY[r.index]; ok {
		padY = extra
	}
	return style.BodySize, false, padY
}

func (p *painter) rowHeight(style tableStyle, r tableRow, widths []float64) float64 {
	size, bold, padY := p.rowStyle(style, r)
	p.setFont(bold, size)
	lineH := size * style.LineSpacing

	maxLines := 1
	for i, w := range widths {
		lines := p.split(p.text(cellAt(r.cells, i)), w-2*style.PaddingX)
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	return float64(maxLines)*lineH + 2*padY
}

func (p *painter) row(t document.Table, style tableStyle, r tableRow, widths []float64, startX float64) {
	rowH := p.rowHeight(style, r, widths)
	size, bold, padY := p.rowStyle(style, r)
	lineH := size * style.LineSpacing
	y := p.pdf.GetY()
	x := startX

	fill, filled := p.rowFill(style, r)
	textColor := style.BodyText
	if r.header {
		textColor = style.HeaderText
	}

	for i, w := range widths {
		if filled {
			p.setFillColor(fill)
			p.pdf.Rect(x, y, w, rowH, "F")
		}
		if style.Border {
			p.setDrawColor(style.BorderColor)
			p.pdf.SetLineWidth(style.BorderWidth)
			p.pdf.Rect(x, y, w, rowH, "D")
		}

		align := t.ColumnAlign(i)
		if r.header {
			align = document.AlignCenter
		}
		if r.footer && i == len(widths)-2 {
			align = document.AlignRight
		}

		p.setFont(bold, size)
		p.setTextColor(textColor)
		lines := p.split(p.text(cellAt(r.cells, i)), w-2*style.PaddingX)
		for n, line := range lines {
			p.pdf.SetXY(x+style.PaddingX, y+padY+float64(n)*lineH)
			p.pdf.CellFormat(w-2*style.PaddingX, lineH, line, "", 0, align, false, 0, "")
		}
		x += w
	}
	p.pdf.SetXY(startX, y+rowH)
}

func (p *painter) rowFill(style tableStyle, r tableRow) (rgb, bool) {
	switch {
	case r.header:
		return style.HeaderFill, style.HeaderFill != (rgb{})
	case r.footer:
		return style.FooterFill, style.FooterFill != (rgb{})
	case len(style.Stripes) > 0:
		return style.Stripes[r.index%len(style.Stripes)], true
	}
	return rgb{}, false
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
