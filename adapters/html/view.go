package dochtml

import (
	"github.com/goliatone/go-docflow/document"
)

// blockView is the template-facing shape of a content block. Every value is
// preformatted so templates never deal with floats or pointers.
type blockView struct {
	Kind      string
	Text      string
	Lead      string
	Level     int
	CSS       string
	Lines     []string
	Height    string
	HasHeader bool
	Headers   []string
	Rows      []rowView
	HasFooter bool
	Footer    footerView
}

type rowView struct {
	Background string
	Cells      []cellView
}

type cellView struct {
	Text string
	CSS  string
}

type footerView struct {
	Span  int
	Label string
	Total string
}

const (
	colorWhite  = "#ffffff"
	colorStripe = "#f8f9fa"
)

var paragraphCSS = map[document.ParagraphStyle]string{
	document.StyleNormal:  "margin: 0 0 6px 0; font-size: 11px; color: #2c3e50;",
	document.StyleContact: "margin: 0 0 4px 0; text-align: center; font-size: 10px; color: #7f8c8d;",
	document.StyleDate:    "margin: 0 0 4px 0; text-align: right; font-size: 10px; color: #7f8c8d;",
}

const (
	itemTableCSS      = "width: 100%; border-collapse: collapse; margin: 0 0 20px 0;"
	signatureTableCSS = "width: 100%; border-collapse: collapse; margin-top: 20px;"
)

func styleCSS(style document.ParagraphStyle) string {
	if css, ok := paragraphCSS[style]; ok {
		return css
	}
	return paragraphCSS[document.StyleNormal]
}

func blockViews(blocks []document.ContentBlock) []blockView {
	out := make([]blockView, 0, len(blocks))
	for _, block := range blocks {
		view := blockView{Kind: string(block.Kind())}
		switch b := block.(type) {
		case document.Heading:
			view.Text = b.Text
			view.Level = b.Level
		case document.Paragraph:
			view.Lead = b.Lead
			view.Text = b.Text
			view.CSS = styleCSS(b.Style)
		case document.KeyValueList:
			view.Lines = b.Lines
			view.CSS = styleCSS(b.Style)
		case document.Spacer:
			view.Height = formatPx(b.Height)
		case document.Table:
			tableView(&view, b)
		default:
			continue
		}
		out = append(out, view)
	}
	return out
}

func tableView(view *blockView, t document.Table) {
	if t.Role == document.TableSignatures {
		view.CSS = signatureTableCSS
		view.Rows = signatureRows(t)
		return
	}

	view.CSS = itemTableCSS
	view.HasHeader = len(t.Headers) > 0
	view.Headers = t.Headers
	cols := t.Columns()
	view.Rows = make([]rowView, 0, len(t.Rows))
	for idx, row := range t.Rows {
		background := colorWhite
		if idx%2 == 1 {
			background = colorStripe
		}
		cells := make([]cellView, 0, cols)
		for col := 0; col < cols; col++ {
			cells = append(cells, cellView{Text: cellAt(row, col), CSS: bodyCellCSS(t.ColumnAlign(col))})
		}
		view.Rows = append(view.Rows, rowView{Background: background, Cells: cells})
	}

	if len(t.Footer) < 2 {
		return
	}
	view.HasFooter = true
	view.Footer = footerView{
		Span:  len(t.Footer) - 1,
		Label: t.Footer[len(t.Footer)-2],
		Total: t.Footer[len(t.Footer)-1],
	}
}

func signatureRows(t document.Table) []rowView {
	rows := make([]rowView, 0, len(t.Rows))
	for idx, row := range t.Rows {
		css := "width: 50%; text-align: center; color: #2c3e50; font-size: 11px;"
		if idx == 1 {
			css += " padding-bottom: 20px;"
		}
		cells := make([]cellView, 0, len(row))
		for _, text := range row {
			cells = append(cells, cellView{Text: text, CSS: css})
		}
		rows = append(rows, rowView{Background: "transparent", Cells: cells})
	}
	return rows
}

func bodyCellCSS(align string) string {
	return "border: 1px solid #dee2e6; padding: 10px 4px; text-align: " + cssAlign(align) + "; color: #2c3e50; font-size: 10px;"
}

func cssAlign(align string) string {
	switch align {
	case document.AlignLeft:
		return "left"
	case document.AlignRight:
		return "right"
	default:
		return "center"
	}
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
