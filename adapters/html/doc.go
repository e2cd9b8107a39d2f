// Package dochtml renders document models as self-contained HTML with
// pongo2 templates. Fragments carry inline styles only, so they can be
// embedded in a preview pane or wrapped into a full page for conversion.
package dochtml
