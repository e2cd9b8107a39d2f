// Package docfpdf renders document models into paginated PDF files with
// github.com/jung-kurt/gofpdf.
//
// Page geometry is fixed to A4 portrait in points with 72pt side and top
// margins. Item tables use per-type column widths, scaled down to the content
// width when they do not fit. Faces come from a document.FontResolver; when
// only the builtin face is available text is transliterated to cp1252 and
// unsupported glyphs degrade to placeholders rather than failing the render.
package docfpdf
