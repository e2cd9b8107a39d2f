package document

import "time"

// BlockKind tags a ContentBlock variant.
type BlockKind string

const (
	BlockHeading      BlockKind = "heading"
	BlockParagraph    BlockKind = "paragraph"
	BlockKeyValueList BlockKind = "key_value_list"
	BlockTable        BlockKind = "table"
	BlockSpacer       BlockKind = "spacer"
)

// ContentBlock is one unit of document structure, independent of the output
// format. Implementations are Heading, Paragraph, KeyValueList, Table and
// Spacer.
type ContentBlock interface {
	Kind() BlockKind
	contentBlock()
}

// Heading levels.
const (
	LevelTitle   = 1
	LevelCompany = 2
	LevelSection = 3
)

// Heading is a title or section heading.
type Heading struct {
	Text  string
	Level int
}

func (Heading) Kind() BlockKind { return BlockHeading }
func (Heading) contentBlock()   {}

// ParagraphStyle selects paragraph typography.
type ParagraphStyle string

const (
	StyleNormal  ParagraphStyle = "normal"
	StyleContact ParagraphStyle = "contact"
	StyleDate    ParagraphStyle = "date"
)

// Paragraph is a flowing text paragraph. Lead, when set, is rendered bold
// before Text.
type Paragraph struct {
	Lead  string
	Text  string
	Style ParagraphStyle
}

func (Paragraph) Kind() BlockKind { return BlockParagraph }
func (Paragraph) contentBlock()   {}

// KeyValueList is a group of lines rendered with line breaks between them.
type KeyValueList struct {
	Lines []string
	Style ParagraphStyle
}

func (KeyValueList) Kind() BlockKind { return BlockKeyValueList }
func (KeyValueList) contentBlock()   {}

// TableRole distinguishes item tables from layout tables.
type TableRole string

const (
	TableItems      TableRole = "items"
	TableSignatures TableRole = "signatures"
)

// Column alignments.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Table is a repeating tabular block. Footer is an optional emphasized row.
// Align holds one alignment per column.
type Table struct {
	Role    TableRole
	Headers []string
	Align   []string
	Rows    [][]string
	Footer  []string
}

// ColumnAlign returns the alignment of column idx.
func (t Table) ColumnAlign(idx int) string {
	if idx < 0 || idx >= len(t.Align) || t.Align[idx] == "" {
		return AlignCenter
	}
	return t.Align[idx]
}

// Columns returns the table width in columns.
func (t Table) Columns() int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func (Table) Kind() BlockKind { return BlockTable }
func (Table) contentBlock()   {}

// RowCount returns the number of body rows plus the footer row.
func (t Table) RowCount() int {
	n := len(t.Rows)
	if len(t.Footer) > 0 {
		n++
	}
	return n
}

// Spacer forces vertical space, in points.
type Spacer struct {
	Height float64
}

func (Spacer) Kind() BlockKind { return BlockSpacer }
func (Spacer) contentBlock()   {}

// Model is the canonical intermediate representation consumed by every
// renderer.
type Model struct {
	Type        DocumentType
	Title       string
	Number      string
	Currency    string
	Blocks      []ContentBlock
	ItemCount   int
	Totals      Totals
	GeneratedAt time.Time
	Footer      string
}

// Sections returns the heading texts in block order.
func (m Model) Sections() []string {
	out := []string{}
	for _, block := range m.Blocks {
		if h, ok := block.(Heading); ok {
			out = append(out, h.Text)
		}
	}
	return out
}

// ItemTable returns the item table block, if any.
func (m Model) ItemTable() (Table, bool) {
	for _, block := range m.Blocks {
		if t, ok := block.(Table); ok && t.Role == TableItems {
			return t, true
		}
	}
	return Table{}, false
}
