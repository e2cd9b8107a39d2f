package document

import (
	"context"
	"time"
)

// DocumentType selects the section set and table columns of a document.
type DocumentType string

const (
	TypePriceList DocumentType = "pricelist"
	TypeInvoice   DocumentType = "invoice"
	TypeContract  DocumentType = "contract"
)

// Format is the output format of a rendered artifact.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeHTML = "text/html; charset=utf-8"
)

// DefaultCurrency is appended to monetary values when the request carries none.
const DefaultCurrency = "RUB"

// FormData holds the optional named fields of a request. Absent fields omit
// their line or section.
type FormData struct {
	CompanyName string `json:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Currency    string `json:"currency,omitempty"`

	InvoiceNumber       string `json:"invoiceNumber,omitempty"`
	InvoiceDate         string `json:"invoiceDate,omitempty"`
	PaymentDue          string `json:"paymentDue,omitempty"`
	SupplierINN         string `json:"supplierInn,omitempty"`
	SupplierKPP         string `json:"supplierKpp,omitempty"`
	SupplierBankDetails string `json:"supplierBankDetails,omitempty"`
	CustomerName        string `json:"customerName,omitempty"`
	CustomerINN         string `json:"customerInn,omitempty"`
	CustomerKPP         string `json:"customerKpp,omitempty"`
	CustomerAddress     string `json:"customerAddress,omitempty"`

	ContractNumber         string `json:"contractNumber,omitempty"`
	ContractDate           string `json:"contractDate,omitempty"`
	ContractPlace          string `json:"contractPlace,omitempty"`
	ContractSubject        string `json:"contractSubject,omitempty"`
	ExecutionPeriod        string `json:"executionPeriod,omitempty"`
	PaymentTerms           string `json:"paymentTerms,omitempty"`
	AdditionalTerms        string `json:"additionalTerms,omitempty"`
	CustomerRepresentative string `json:"customerRepresentative,omitempty"`
	SupplierRepresentative string `json:"supplierRepresentative,omitempty"`
}

// CurrencyOrDefault returns the request currency or DefaultCurrency.
func (f FormData) CurrencyOrDefault() string {
	if f.Currency == "" {
		return DefaultCurrency
	}
	return f.Currency
}

// LineItem is one row of the item table.
type LineItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Category    string   `json:"category,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Price       float64  `json:"price"`
}

// Qty returns the item quantity, defaulting to 1.
func (i LineItem) Qty() float64 {
	if i.Quantity == nil {
		return 1
	}
	return *i.Quantity
}

// DocumentRequest is the immutable input of a single render.
type DocumentRequest struct {
	Type  DocumentType `json:"type"`
	Form  FormData     `json:"formData"`
	Items []LineItem   `json:"items"`
}

// RenderedArtifact is the result of a render call. MediaType is authoritative
// for the content of Bytes.
type RenderedArtifact struct {
	Bytes             []byte
	MediaType         string
	SuggestedFilename string
	Format            Format
	Tier              Tier
}

// PreviewResult is returned by preview calls.
type PreviewResult struct {
	Type       DocumentType
	HTML       string
	ItemsCount int
	Total      float64
	TotalText  string
}

// Actor identifies the requesting principal.
type Actor struct {
	ID       string
	Username string
	Details  map[string]any
}

// ActorProvider extracts the actor from context.
type ActorProvider interface {
	FromContext(ctx context.Context) (Actor, error)
}

// Guard gates access to render and preview calls.
type Guard interface {
	AuthorizeRender(ctx context.Context, actor Actor, req DocumentRequest) error
}

// GuardFunc adapts a function to a Guard.
type GuardFunc func(ctx context.Context, actor Actor, req DocumentRequest) error

func (f GuardFunc) AuthorizeRender(ctx context.Context, actor Actor, req DocumentRequest) error {
	if f == nil {
		return nil
	}
	return f(ctx, actor, req)
}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Clock returns the current time.
type Clock func() time.Time
