package document

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"
)

// DefaultFilenameTemplate names artifacts after their type, number and
// generation time.
const DefaultFilenameTemplate = "{{.Type}}{{if .Numbered}}_{{.Number}}{{end}}_{{.Timestamp}}"

const filenameTimestamp = "20060102_150405"

type filenameData struct {
	Type      string
	Number    string
	Numbered  bool
	Timestamp string
	Date      string
	Format    string
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// RenderFilename renders the suggested download name for a model. Invoices
// and contracts carry their number, or "unknown" when absent.
func RenderFilename(pattern string, model Model, format Format, now time.Time) (string, error) {
	if pattern == "" {
		pattern = DefaultFilenameTemplate
	}

	data := filenameData{
		Type:      string(model.Type),
		Numbered:  model.Type == TypeInvoice || model.Type == TypeContract,
		Timestamp: now.Format(filenameTimestamp),
		Date:      now.Format("20060102"),
		Format:    string(format),
	}
	if data.Numbered {
		data.Number = "unknown"
		if number := sanitizeFilename(model.Number); number != "" {
			data.Number = number
		}
	}

	tmpl, err := template.New("filename").Parse(pattern)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	result := strings.TrimSpace(buf.String())
	if result == "" {
		return "", fmt.Errorf("empty filename")
	}

	ext := "pdf"
	if format == FormatHTML {
		ext = "html"
	}
	if !strings.HasSuffix(strings.ToLower(result), "."+ext) {
		result = result + "." + ext
	}
	return result, nil
}

func sanitizeFilename(value string) string {
	value = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(value), "-")
	return strings.Trim(value, "-.")
}
