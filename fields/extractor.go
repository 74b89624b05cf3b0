// Package fields extracts the scalar header fields of a document: pattern
// matching over the concatenated text first, spatial search near anchor
// keywords when patterns fail.
//
// Each field owns an ordered list of (pattern, normalizer) candidates
// evaluated short-circuit; the first successful match wins. Pattern misses
// never produce errors. The field is simply left unset, since a document
// without, say, a due date is a valid input.
package fields

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/tsawler/meisai/model"
)

// Config holds configuration for header field extraction.
type Config struct {
	// Patterns overrides the candidate patterns per field; fields absent
	// from the map keep their defaults.
	Patterns map[string][]string `yaml:"patterns"`

	// Total configures the spatial total-amount resolution.
	Total TotalConfig `yaml:"total"`

	// Account configures the account-holder spatial fallback.
	Account AccountConfig `yaml:"account"`
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		Patterns: DefaultPatterns(),
		Total:    DefaultTotalConfig(),
		Account:  DefaultAccountConfig(),
	}
}

// Extractor resolves the scalar header fields of a document.
type Extractor struct {
	config Config
	rules  []rule
	total  *TotalResolver
	holder *AccountHolderResolver
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(DefaultConfig())
}

// NewExtractorWithConfig creates an extractor with custom configuration.
// Pattern overrides are merged over the defaults per field.
func NewExtractorWithConfig(config Config) *Extractor {
	patterns := DefaultPatterns()
	for field, srcs := range config.Patterns {
		patterns[field] = srcs
	}
	return &Extractor{
		config: config,
		rules:  compileRules(patterns),
		total:  NewTotalResolverWithConfig(config.Total),
		holder: NewAccountHolderResolverWithConfig(config.Account),
	}
}

// Extract resolves all header fields from the joined reading-order text and
// the full token set. Pattern matching runs first; the total amount and
// account holder fall back to spatial search when their patterns fail, and
// unresolved dates fall back to a corpus-wide date scan.
func (e *Extractor) Extract(joined string, toks []model.Token) model.HeaderFields {
	joined = width.Fold.String(joined)

	var header model.HeaderFields
	for _, r := range e.rules {
		for _, re := range r.patterns {
			m := re.FindStringSubmatch(joined)
			if m == nil {
				continue
			}
			setField(&header, r.field, r.normalize(m[1]))
			break
		}
	}

	if header.InvoiceDate == "" || header.DueDate == "" {
		e.fallbackDates(joined, &header)
	}

	if header.TotalAmount == "" {
		header.TotalAmount = e.total.Resolve(toks, joined)
	}

	if header.AccountHolder == "" && header.AccountNumber != "" {
		header.AccountHolder = e.holder.Resolve(toks, header.AccountNumber)
	}

	return header
}

// dateScan matches date-like substrings anywhere in the corpus.
var dateScan = regexp.MustCompile(`\d{4}[/\-年]\d{1,2}[/\-月]?\d{1,2}日?`)

// fallbackDates collects all date-like substrings, deduplicates and sorts
// them ascending, then assigns the earliest as the invoice date and the
// latest as the due date. Best effort, not a correctness guarantee: the due
// date is only assigned when at least two distinct dates were found.
func (e *Extractor) fallbackDates(joined string, header *model.HeaderFields) {
	seen := make(map[string]bool)
	var dates []time.Time

	for _, m := range dateScan.FindAllString(joined, -1) {
		norm := NormalizeDate(m)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		t, err := time.Parse("2006/1/2", norm)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}

	if len(dates) == 0 {
		return
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	format := func(t time.Time) string {
		return NormalizeDate(t.Format("2006/1/2"))
	}

	if header.InvoiceDate == "" {
		header.InvoiceDate = format(dates[0])
	}
	if header.DueDate == "" && len(dates) > 1 {
		header.DueDate = format(dates[len(dates)-1])
	}
}

// setField assigns a resolved value to its header field. Empty normalized
// values are treated as misses.
func setField(header *model.HeaderFields, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch field {
	case FieldInvoiceNumber:
		header.InvoiceNumber = value
	case FieldInvoiceDate:
		header.InvoiceDate = value
	case FieldDueDate:
		header.DueDate = value
	case FieldVendorName:
		header.VendorName = value
	case FieldTotalAmount:
		header.TotalAmount = value
	case FieldBankName:
		header.BankName = value
	case FieldBranchName:
		header.BranchName = value
	case FieldAccountType:
		header.AccountType = value
	case FieldAccountNumber:
		header.AccountNumber = value
	case FieldAccountHolder:
		header.AccountHolder = value
	}
}
