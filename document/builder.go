package document

import (
	"strings"
	"time"
)

const (
	titlePriceList = "ПРАЙС-ЛИСТ"
	titleInvoice   = "СЧЕТ НА ОПЛАТУ"
	titleContract  = "ДОГОВОР"

	sectionItems      = "ТОВАРЫ И УСЛУГИ"
	sectionSupplier   = "ПОСТАВЩИК:"
	sectionCustomer   = "ПОКУПАТЕЛЬ:"
	sectionBank       = "БАНКОВСКИЕ РЕКВИЗИТЫ:"
	sectionParties    = "СТОРОНЫ ДОГОВОРА:"
	sectionSubject    = "ПРЕДМЕТ ДОГОВОРА:"
	sectionConditions = "УСЛОВИЯ:"
	sectionAdditional = "ДОПОЛНИТЕЛЬНЫЕ УСЛОВИЯ:"
	sectionSignatures = "ПОДПИСИ СТОРОН:"

	signatureLine = "_________________"
)

// BuildOptions carries the inputs of Build that do not come from the request.
type BuildOptions struct {
	GeneratedAt time.Time
	Footer      string
}

// Build converts a validated request into its content model. It has no side
// effects; identical input yields identical block order.
func Build(req DocumentRequest, opts BuildOptions) Model {
	currency := req.Form.CurrencyOrDefault()
	model := Model{
		Type:        req.Type,
		Title:       Title(req.Type, req.Form),
		Number:      Number(req.Type, req.Form),
		Currency:    currency,
		ItemCount:   len(req.Items),
		GeneratedAt: opts.GeneratedAt,
		Footer:      strings.TrimSpace(opts.Footer),
	}

	b := &blockList{}
	switch req.Type {
	case TypePriceList:
		buildPriceList(b, model.Title, req, opts.GeneratedAt)
	case TypeInvoice:
		buildInvoice(b, model.Title, req)
	case TypeContract:
		buildContract(b, model.Title, req.Form)
	}
	model.Blocks = b.blocks

	if req.Type == TypeInvoice {
		_, model.Totals = ComputeRows(req.Items, req.Type, currency)
	}
	return model
}

// Title returns the document title, including the identifying number when
// present.
func Title(docType DocumentType, form FormData) string {
	switch docType {
	case TypeInvoice:
		return numbered(titleInvoice, form.InvoiceNumber)
	case TypeContract:
		return numbered(titleContract, form.ContractNumber)
	default:
		return titlePriceList
	}
}

// Number returns the identifying number of invoices and contracts.
func Number(docType DocumentType, form FormData) string {
	switch docType {
	case TypeInvoice:
		return strings.TrimSpace(form.InvoiceNumber)
	case TypeContract:
		return strings.TrimSpace(form.ContractNumber)
	default:
		return ""
	}
}

func numbered(title, number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return title
	}
	return title + " № " + number
}

func buildPriceList(b *blockList, title string, req DocumentRequest, generated time.Time) {
	form := req.Form
	b.heading(title, LevelTitle).space(30)

	if form.CompanyName != "" {
		b.heading(form.CompanyName, LevelCompany).space(20)
	}

	contacts := presentLines(
		labeled("Тел.: ", form.Phone),
		labeled("Email: ", form.Email),
		labeled("Адрес: ", form.Address),
	)
	if len(contacts) > 0 {
		b.lines(contacts, StyleContact).space(30)
	}

	b.paragraph("", "Дата составления: "+generated.Format("02.01.2006"), StyleDate).space(30)

	if len(req.Items) > 0 {
		rows, _ := ComputeRows(req.Items, TypePriceList, form.CurrencyOrDefault())
		b.heading(sectionItems, LevelSection).space(15)
		b.add(Table{
			Role:    TableItems,
			Headers: TableHeaders(TypePriceList),
			Align:   TableAlign(TypePriceList),
			Rows:    rows,
		})
		b.space(30)
	}
}

func buildInvoice(b *blockList, title string, req DocumentRequest) {
	form := req.Form
	b.heading(title, LevelTitle).space(30)

	dateLine := strings.Join(presentLines(
		labeled("от ", form.InvoiceDate),
		labeled("к оплате до ", form.PaymentDue),
	), ", ")
	if dateLine != "" {
		b.paragraph("", dateLine, StyleDate).space(30)
	}

	supplier := presentLines(
		form.CompanyName,
		labeled("ИНН: ", form.SupplierINN),
		labeled("КПП: ", form.SupplierKPP),
		labeled("Адрес: ", form.Address),
	)
	if len(supplier) > 0 {
		b.heading(sectionSupplier, LevelSection)
		b.lines(supplier, StyleNormal).space(15)
	}

	customer := presentLines(
		form.CustomerName,
		labeled("ИНН: ", form.CustomerINN),
		labeled("КПП: ", form.CustomerKPP),
		labeled("Адрес: ", form.CustomerAddress),
	)
	if len(customer) > 0 {
		b.heading(sectionCustomer, LevelSection)
		b.lines(customer, StyleNormal).space(20)
	}

	if len(req.Items) > 0 {
		headers := TableHeaders(TypeInvoice)
		rows, totals := ComputeRows(req.Items, TypeInvoice, form.CurrencyOrDefault())
		b.add(Table{
			Role:    TableItems,
			Headers: headers,
			Align:   TableAlign(TypeInvoice),
			Rows:    rows,
			Footer:  TotalRow(totals, len(headers)),
		})
	}

	if bank := splitLines(form.SupplierBankDetails); len(bank) > 0 {
		b.space(20)
		b.heading(sectionBank, LevelSection)
		b.lines(bank, StyleNormal)
	}
}

func buildContract(b *blockList, title string, form FormData) {
	b.heading(title, LevelTitle).space(20)

	if datePlace := strings.Join(presentLines(form.ContractPlace, form.ContractDate), " "); datePlace != "" {
		b.paragraph("", datePlace, StyleNormal).space(20)
	}

	customerParty := party("Заказчик:", form.CustomerName, form.CustomerRepresentative)
	supplierParty := party("Исполнитель:", form.CompanyName, form.SupplierRepresentative)
	if len(customerParty) > 0 || len(supplierParty) > 0 {
		b.heading(sectionParties, LevelSection)
		if len(customerParty) > 0 {
			b.add(customerParty...)
			b.space(10)
		}
		if len(supplierParty) > 0 {
			b.add(supplierParty...)
		}
		b.space(20)
	}

	if form.ContractSubject != "" {
		b.heading(sectionSubject, LevelSection)
		b.paragraph("", form.ContractSubject, StyleNormal).space(15)
	}

	conditions := presentLines(
		labeled("Сроки выполнения: ", form.ExecutionPeriod),
		labeled("Условия оплаты: ", form.PaymentTerms),
	)
	if len(conditions) > 0 {
		b.heading(sectionConditions, LevelSection)
		b.lines(conditions, StyleNormal).space(15)
	}

	if form.AdditionalTerms != "" {
		b.heading(sectionAdditional, LevelSection)
		b.paragraph("", form.AdditionalTerms, StyleNormal).space(20)
	}

	b.heading(sectionSignatures, LevelSection)
	b.add(Table{
		Role:  TableSignatures,
		Align: []string{AlignCenter, AlignCenter},
		Rows: [][]string{
			{"Заказчик:", "Исполнитель:"},
			{signatureLine, signatureLine},
			{form.CustomerRepresentative, form.SupplierRepresentative},
		},
	})
}

func party(lead, name, representative string) []ContentBlock {
	if name == "" && representative == "" {
		return nil
	}
	out := []ContentBlock{Paragraph{Lead: lead, Text: name, Style: StyleNormal}}
	if representative != "" {
		out = append(out, Paragraph{Text: "в лице " + representative, Style: StyleNormal})
	}
	return out
}

func labeled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + value
}

func presentLines(lines ...string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return presentLines(strings.Split(text, "\n")...)
}

type blockList struct {
	blocks []ContentBlock
}

func (b *blockList) add(blocks ...ContentBlock) *blockList {
	b.blocks = append(b.blocks, blocks...)
	return b
}

func (b *blockList) heading(text string, level int) *blockList {
	return b.add(Heading{Text: text, Level: level})
}

func (b *blockList) paragraph(lead, text string, style ParagraphStyle) *blockList {
	return b.add(Paragraph{Lead: lead, Text: text, Style: style})
}

func (b *blockList) lines(lines []string, style ParagraphStyle) *blockList {
	return b.add(KeyValueList{Lines: lines, Style: style})
}

func (b *blockList) space(height float64) *blockList {
	return b.add(Spacer{Height: height})
}
