// Package docpdf converts complete HTML pages into PDF files. It backs the
// middle tier of the document backend selector.
//
// Two engines are provided: a shared headless Chromium driven through
// chromedp, and the wkhtmltopdf binary over stdin/stdout. Both render on A4
// portrait with the same margins as the layout renderer unless overridden.
package docpdf
