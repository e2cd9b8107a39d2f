package document

import (
	"math"
	"strconv"
	"strings"
)

// Totals is the aggregate of an item table.
type Totals struct {
	Amount   float64
	Currency string
	Computed bool
}

// Text formats the total with its currency suffix.
func (t Totals) Text() string {
	if !t.Computed {
		return ""
	}
	return FormatMoney(t.Amount, t.Currency)
}

var (
	priceListHeaders = []string{"№", "Наименование", "Описание", "Ед.изм.", "Цена", "Категория"}
	invoiceHeaders   = []string{"№", "Наименование", "Кол-во", "Ед.изм.", "Цена", "Сумма"}
)

var (
	priceListAlign = []string{AlignCenter, AlignLeft, AlignLeft, AlignCenter, AlignCenter, AlignLeft}
	invoiceAlign   = []string{AlignCenter, AlignLeft, AlignCenter, AlignCenter, AlignCenter, AlignCenter}
)

const totalLabel = "ИТОГО:"

// TableHeaders returns the item table columns for a document type.
func TableHeaders(docType DocumentType) []string {
	if docType == TypeInvoice {
		return append([]string(nil), invoiceHeaders...)
	}
	return append([]string(nil), priceListHeaders...)
}

// TableAlign returns the item table column alignments for a document type.
func TableAlign(docType DocumentType) []string {
	if docType == TypeInvoice {
		return append([]string(nil), invoiceAlign...)
	}
	return append([]string(nil), priceListAlign...)
}

// ComputeRows builds the item table body for docType. Invoices get line
// totals and an aggregate; price lists are rendered as-is.
func ComputeRows(items []LineItem, docType DocumentType, currency string) ([][]string, Totals) {
	if currency == "" {
		currency = DefaultCurrency
	}
	rows := make([][]string, 0, len(items))
	totals := Totals{Currency: currency}

	switch docType {
	case TypeInvoice:
		var sum float64
		for idx, item := range items {
			lineTotal := item.Qty() * item.Price
			sum += lineTotal
			rows = append(rows, []string{
				strconv.Itoa(idx + 1),
				item.Name,
				FormatQuantity(item.Qty()),
				item.Unit,
				FormatAmount(item.Price),
				FormatAmount(lineTotal),
			})
		}
		totals.Amount = RoundAmount(sum)
		totals.Computed = true
	default:
		for idx, item := range items {
			rows = append(rows, []string{
				strconv.Itoa(idx + 1),
				item.Name,
				item.Description,
				item.Unit,
				FormatMoney(item.Price, currency),
				item.Category,
			})
		}
	}
	return rows, totals
}

// TotalRow returns the footer row for an invoice table with the given width.
func TotalRow(totals Totals, columns int) []string {
	if !totals.Computed || columns < 2 {
		return nil
	}
	row := make([]string, columns)
	row[columns-2] = totalLabel
	row[columns-1] = totals.Text()
	return row
}

// RoundAmount rounds to two decimals, half away from zero.
func RoundAmount(value float64) float64 {
	return math.Round(value*100) / 100
}

// FormatAmount formats a monetary value with two fractional digits and a
// decimal point, independent of locale.
func FormatAmount(value float64) string {
	return strconv.FormatFloat(RoundAmount(value), 'f', 2, 64)
}

// FormatMoney appends the currency as a literal suffix.
func FormatMoney(value float64, currency string) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return FormatAmount(value) + " " + currency
}

// FormatQuantity prints quantities without trailing zeros.
func FormatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
