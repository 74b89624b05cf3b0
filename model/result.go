package model

import "encoding/json"

// LineItem is one reconstructed table row. Numeric fields are kept as
// thousands-grouped decimal strings; an empty string means the field was not
// resolved. A line item survives extraction only if it has a non-empty
// description, or an amount, or a coherent unit-price plus quantity pair.
type LineItem struct {
	Description string
	UnitPrice   string
	Quantity    string
	Unit        string
	Amount      string
}

// HeaderFields holds the scalar header fields of the document. Each field is
// resolved independently; an empty string means the field was not resolved.
type HeaderFields struct {
	InvoiceNumber string
	InvoiceDate   string
	DueDate       string
	VendorName    string
	TotalAmount   string
	BankName      string
	BranchName    string
	AccountType   string
	AccountNumber string
	AccountHolder string
}

// ExtractionResult is the sole output artifact of an extraction call. It owns
// copies of all derived strings and holds no reference back to the tokens it
// was built from.
type ExtractionResult struct {
	Header    HeaderFields
	LineItems []LineItem
}

// NewExtractionResult creates an empty result with a non-nil line item slice,
// so the wire representation is [] rather than null.
func NewExtractionResult() *ExtractionResult {
	return &ExtractionResult{LineItems: []LineItem{}}
}

// The JSON shape below is the wire contract with downstream consumers and
// must remain stable under internal refactors: unresolved scalars serialize
// as null, an absent table as an empty array.

type lineItemJSON struct {
	Description string  `json:"description"`
	UnitPrice   *string `json:"unit_price"`
	Quantity    *string `json:"quantity"`
	Unit        *string `json:"unit"`
	Amount      *string `json:"amount"`
}

type resultJSON struct {
	InvoiceNumber *string        `json:"invoice_number"`
	InvoiceDate   *string        `json:"invoice_date"`
	DueDate       *string        `json:"due_date"`
	VendorName    *string        `json:"vendor_name"`
	TotalAmount   *string        `json:"total_amount"`
	BankName      *string        `json:"bank_name"`
	BranchName    *string        `json:"branch_name"`
	AccountType   *string        `json:"account_type"`
	AccountNumber *string        `json:"account_number"`
	AccountHolder *string        `json:"account_holder"`
	LineItems     []lineItemJSON `json:"line_items"`
}

// nullable maps an unresolved (empty) field to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON implements json.Marshaler.
func (r *ExtractionResult) MarshalJSON() ([]byte, error) {
	items := make([]lineItemJSON, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		items = append(items, lineItemJSON{
			Description: li.Description,
			UnitPrice:   nullable(li.UnitPrice),
			Quantity:    nullable(li.Quantity),
			Unit:        nullable(li.Unit),
			Amount:      nullable(li.Amount),
		})
	}

	return json.Marshal(resultJSON{
		InvoiceNumber: nullable(r.Header.InvoiceNumber),
		InvoiceDate:   nullable(r.Header.InvoiceDate),
		DueDate:       nullable(r.Header.DueDate),
		VendorName:    nullable(r.Header.VendorName),
		TotalAmount:   nullable(r.Header.TotalAmount),
		BankName:      nullable(r.Header.BankName),
		BranchName:    nullable(r.Header.BranchName),
		AccountType:   nullable(r.Header.AccountType),
		AccountNumber: nullable(r.Header.AccountNumber),
		AccountHolder: nullable(r.Header.AccountHolder),
		LineItems:     items,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ExtractionResult) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	r.Header = HeaderFields{
		InvoiceNumber: deref(raw.InvoiceNumber),
		InvoiceDate:   deref(raw.InvoiceDate),
		DueDate:       deref(raw.DueDate),
		VendorName:    deref(raw.VendorName),
		TotalAmount:   deref(raw.TotalAmount),
		BankName:      deref(raw.BankName),
		BranchName:    deref(raw.BranchName),
		AccountType:   deref(raw.AccountType),
		AccountNumber: deref(raw.AccountNumber),
		AccountHolder: deref(raw.AccountHolder),
	}

	r.LineItems = make([]LineItem, 0, len(raw.LineItems))
	for _, li := range raw.LineItems {
		r.LineItems = append(r.LineItems, LineItem{
			Description: li.Description,
			UnitPrice:   deref(li.UnitPrice),
			Quantity:    deref(li.Quantity),
			Unit:        deref(li.Unit),
			Amount:      deref(li.Amount),
		})
	}

	return nil
}
