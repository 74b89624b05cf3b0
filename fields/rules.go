package fields

import (
	"regexp"
	"strings"

	"github.com/tsawler/meisai/amount"
)

// Canonical header field names. They match the JSON wire contract.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldDueDate       = "due_date"
	FieldVendorName    = "vendor_name"
	FieldTotalAmount   = "total_amount"
	FieldBankName      = "bank_name"
	FieldBranchName    = "branch_name"
	FieldAccountType   = "account_type"
	FieldAccountNumber = "account_number"
	FieldAccountHolder = "account_holder"
)

// fieldOrder fixes the evaluation order of header fields.
var fieldOrder = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldDueDate,
	FieldVendorName,
	FieldTotalAmount,
	FieldBankName,
	FieldBranchName,
	FieldAccountType,
	FieldAccountNumber,
	FieldAccountHolder,
}

// rule couples a header field with its ordered candidate patterns and the
// normalizer applied to a successful match. Patterns are tried in order and
// the first match wins: specific, anchored patterns come before generic ones,
// trading recall for precision. The extracted value is always capture
// group 1, so alternations inside patterns must be non-capturing.
type rule struct {
	field     string
	patterns  []*regexp.Regexp
	normalize func(string) string
}

// DefaultPatterns returns the candidate pattern sources per field, most
// specific first. The map shape matches the YAML configuration so rule sets
// can be replaced without touching control flow.
func DefaultPatterns() map[string][]string {
	return map[string][]string{
		FieldInvoiceNumber: {
			`(\d{8}-\d+)`,
			`(?:請求書|INVOICE)\s*No\.?[:：]?\s*([A-Za-z0-9\-]+)`,
			`請求\s*書\s*番号[:：]?\s*([A-Za-z0-9\-]+)`,
		},
		FieldInvoiceDate: {
			`(?:請求日|発行日)[:：]?\s*(\d{4}[/\-年]\d{1,2}[/\-月]?\d{1,2}日?)`,
			`(\d{4}/\d{1,2}/\d{1,2})`,
		},
		FieldDueDate: {
			`(?:お?支払期限|支払期日)[:：]?\s*(\d{4}[/\-年]\d{1,2}[/\-月]?\d{1,2}日?)`,
		},
		FieldVendorName: {
			`([^\s]+株式会社)`,
			`([^\s]+合同会社)`,
			`([^\s]+会社)`,
			`([^\s]+\s?Corp\.?)`,
			`([^\s]+\s?Co\.,?\s?Ltd\.?)`,
			`([^\s]+\s?Ltd\.?)`,
			`([^\s]+サービス)`,
		},
		FieldTotalAmount: {
			`(?:合計|ご請求金額|総額)[:：]?\s*[¥￥半#]?\s*([\d,]+(?:\.\d{1,2})?)`,
			`小計\s*[\d,]+(?:\.\d{1,2})?\s*消費税\s*[\d,]+(?:\.\d{1,2})?\s*合計\s*([\d,]+(?:\.\d{1,2})?)`,
		},
		FieldBankName: {
			`([^\s]*銀行)`,
		},
		FieldBranchName: {
			`([^\s]*支店)`,
		},
		FieldAccountType: {
			`(普通|当座)`,
		},
		FieldAccountNumber: {
			`口座番号[:：]?\s*(\d{5,8})`,
			`(?:普通|当座)(?:口座)?[:：]?\s*(\d{5,8})`,
		},
		FieldAccountHolder: {
			`口座名義[:：]?\s*([^\s]+)`,
		},
	}
}

// compileRules builds the ordered rule list from pattern sources, attaching
// the per-field normalizer. Invalid pattern sources and patterns without a
// capture group are skipped so a bad configuration entry degrades to fewer
// candidates rather than a failure.
func compileRules(patterns map[string][]string) []rule {
	rules := make([]rule, 0, len(fieldOrder))
	for _, field := range fieldOrder {
		r := rule{field: field, normalize: normalizerFor(field)}
		for _, src := range patterns[field] {
			re, err := regexp.Compile(src)
			if err != nil || re.NumSubexp() == 0 {
				continue
			}
			r.patterns = append(r.patterns, re)
		}
		rules = append(rules, r)
	}
	return rules
}

// normalizerFor returns the post-match normalizer for a field.
func normalizerFor(field string) func(string) string {
	switch field {
	case FieldInvoiceDate, FieldDueDate:
		return NormalizeDate
	case FieldVendorName:
		return normalizeVendor
	case FieldTotalAmount:
		return amount.Reformat
	default:
		return strings.TrimSpace
	}
}

// NormalizeDate canonicalizes date separators: 年 and 月 become slashes, a
// trailing 日 is dropped, and dashes become slashes. 2024年5月1日, 2024-5-1,
// and 2024/5/1 all normalize to 2024/5/1.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "日")
	s = strings.ReplaceAll(s, "年", "/")
	s = strings.ReplaceAll(s, "月", "/")
	s = strings.ReplaceAll(s, "-", "/")
	return strings.TrimSuffix(s, "/")
}

// trailingHonorifics are addressee suffixes OCR sometimes glues onto the
// vendor name.
var trailingHonorifics = []string{"御中", "様"}

// vendorCutoffs are boilerplate markers that follow the vendor name on one
// line; the name is truncated at the first occurrence.
var vendorCutoffs = []string{"TEL", "〒", "住所"}

// normalizeVendor trims trailing honorific duplicates and truncates the name
// at known trailing boilerplate.
func normalizeVendor(s string) string {
	s = strings.TrimSpace(s)

	for _, cut := range vendorCutoffs {
		if i := strings.Index(s, cut); i > 0 {
			s = s[:i]
		}
	}

	for {
		trimmed := s
		for _, h := range trailingHonorifics {
			trimmed = strings.TrimSuffix(trimmed, h)
		}
		if trimmed == s {
			break
		}
		s = trimmed
	}

	return strings.TrimSpace(s)
}
