package docfpdf

import (
	"strings"

	"golang.org/x/image/font/sfnt"
)

const (
	// fallbackGlyph replaces runes the face cannot draw, as the builtin
	// cp1252 translator does.
	fallbackGlyph = '.'
	// gofpdf keeps UTF-8 glyph widths for the Basic Multilingual Plane only.
	maxWidthRune = 0xFFFF
)

// glyphFilter drops runes the embedded face has no glyph for. Runes above
// the BMP are always replaced since the engine cannot measure them.
type glyphFilter struct {
	font  *sfnt.Font
	buf   sfnt.Buffer
	known map[rune]bool
}

func newGlyphFilter(data []byte) *glyphFilter {
	g := &glyphFilter{known: make(map[rune]bool)}
	if f, err := sfnt.Parse(data); err == nil {
		g.font = f
	}
	return g
}

func (g *glyphFilter) filter(s string) string {
	clean := true
	for _, r := range s {
		if !g.drawable(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if g.drawable(r) {
			return r
		}
		return fallbackGlyph
	}, s)
}

func (g *glyphFilter) drawable(r rune) bool {
	if r > maxWidthRune {
		return false
	}
	if r < 0x20 || g.font == nil {
		return true
	}
	if ok, seen := g.known[r]; seen {
		return ok
	}
	idx, err := g.font.GlyphIndex(&g.buf, r)
	ok := err == nil && idx != 0
	g.known[r] = ok
	return ok
}
