package meisai

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/meisai/model"
)

// invoiceTokens builds the token set of a small but complete Japanese
// invoice: vendor line, labelled header fields, a five-column item table,
// subtotal and total rows, and a bank transfer block.
func invoiceTokens() []model.Token {
	return []model.Token{
		model.NewToken("テスト株式会社", 100, 10, 200, 30, 0.9),

		model.NewToken("請求書番号", 80, 40, 160, 60, 0.9),
		model.NewToken("INV-2024-001", 200, 40, 300, 60, 0.9),

		model.NewToken("請求日", 80, 70, 130, 90, 0.9),
		model.NewToken("2024/05/01", 200, 70, 290, 90, 0.9),

		model.NewToken("お支払期限", 80, 100, 160, 120, 0.9),
		model.NewToken("2024/05/31", 200, 100, 290, 120, 0.9),

		model.NewToken("品目名", 70, 130, 130, 150, 0.9),
		model.NewToken("単価", 220, 130, 280, 150, 0.9),
		model.NewToken("数量", 320, 130, 380, 150, 0.9),
		model.NewToken("単位", 390, 130, 450, 150, 0.9),
		model.NewToken("金額", 470, 130, 530, 150, 0.9),

		model.NewToken("リンゴ", 70, 160, 130, 180, 0.9),
		model.NewToken("100", 220, 160, 280, 180, 0.9),
		model.NewToken("10", 320, 160, 380, 180, 0.9),
		model.NewToken("個", 390, 160, 450, 180, 0.9),
		model.NewToken("1,000", 470, 160, 530, 180, 0.9),

		model.NewToken("バナナ", 70, 190, 130, 210, 0.9),
		model.NewToken("200", 220, 190, 280, 210, 0.9),
		model.NewToken("5", 320, 190, 380, 210, 0.9),

		model.NewToken("小計", 270, 220, 330, 240, 0.9),
		model.NewToken("2,000", 470, 220, 530, 240, 0.9),

		model.NewToken("合計", 270, 250, 330, 270, 0.9),
		model.NewToken("¥3,000", 460, 250, 540, 270, 0.9),

		model.NewToken("振込先:", 70, 280, 130, 300, 0.9),
		model.NewToken("りそな銀行", 160, 280, 240, 300, 0.9),
		model.NewToken("秋葉原支店", 260, 280, 340, 300, 0.9),
		model.NewToken("普通", 370, 280, 410, 300, 0.9),
		model.NewToken("1234567", 425, 280, 475, 300, 0.9),
		model.NewToken("タナカ", 490, 280, 550, 300, 0.9),
	}
}

func TestExtractTokensFullInvoice(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	result := engine.ExtractTokens(invoiceTokens())

	header := result.Header
	if header.InvoiceNumber != "INV-2024-001" {
		t.Errorf("InvoiceNumber = %q, want INV-2024-001", header.InvoiceNumber)
	}
	if header.InvoiceDate != "2024/05/01" {
		t.Errorf("InvoiceDate = %q, want 2024/05/01", header.InvoiceDate)
	}
	if header.DueDate != "2024/05/31" {
		t.Errorf("DueDate = %q, want 2024/05/31", header.DueDate)
	}
	if header.VendorName != "テスト株式会社" {
		t.Errorf("VendorName = %q, want テスト株式会社", header.VendorName)
	}
	if header.TotalAmount != "3,000" {
		t.Errorf("TotalAmount = %q, want 3,000", header.TotalAmount)
	}
	if header.BankName != "りそな銀行" {
		t.Errorf("BankName = %q, want りそな銀行", header.BankName)
	}
	if header.BranchName != "秋葉原支店" {
		t.Errorf("BranchName = %q, want 秋葉原支店", header.BranchName)
	}
	if header.AccountType != "普通" {
		t.Errorf("AccountType = %q, want 普通", header.AccountType)
	}
	if header.AccountNumber != "1234567" {
		t.Errorf("AccountNumber = %q, want 1234567", header.AccountNumber)
	}
	if header.AccountHolder != "タナカ" {
		t.Errorf("AccountHolder = %q, want タナカ", header.AccountHolder)
	}

	if len(result.LineItems) != 2 {
		t.Fatalf("LineItems = %d, want 2 (summary and bank rows excluded)", len(result.LineItems))
	}

	want0 := model.LineItem{
		Description: "リンゴ", UnitPrice: "100", Quantity: "10", Unit: "個", Amount: "1,000",
	}
	if result.LineItems[0] != want0 {
		t.Errorf("item 0 = %+v, want %+v", result.LineItems[0], want0)
	}

	// The second row has no amount token; it is derived from quantity and
	// unit price.
	want1 := model.LineItem{
		Description: "バナナ", UnitPrice: "200", Quantity: "5", Amount: "1,000",
	}
	if result.LineItems[1] != want1 {
		t.Errorf("item 1 = %+v, want %+v", result.LineItems[1], want1)
	}
}

func TestExtractTokensEmpty(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	result := engine.ExtractTokens(nil)
	if result == nil {
		t.Fatal("ExtractTokens(nil) = nil, want empty result")
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"invoice_number":null`) {
		t.Errorf("empty result JSON missing null fields: %s", s)
	}
	if !strings.Contains(s, `"line_items":[]`) {
		t.Errorf("empty result JSON line_items not []: %s", s)
	}
}

func TestExtractTokensNoTable(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	// Header fields only, no column header row anywhere.
	toks := []model.Token{
		model.NewToken("請求書番号", 80, 40, 160, 60, 0.9),
		model.NewToken("INV-2024-002", 200, 40, 300, 60, 0.9),
	}

	result := engine.ExtractTokens(toks)
	if result.Header.InvoiceNumber != "INV-2024-002" {
		t.Errorf("InvoiceNumber = %q, want INV-2024-002", result.Header.InvoiceNumber)
	}
	if len(result.LineItems) != 0 {
		t.Errorf("LineItems = %d, want 0 without a table", len(result.LineItems))
	}
}

func TestExtractTokensLowConfidenceHeaderRow(t *testing.T) {
	engine := NewEngine()
	defer engine.Close()

	// Column labels below the header confidence floor: no anchors, no
	// items, and no error.
	toks := []model.Token{
		model.NewToken("品目名", 70, 130, 130, 150, 0.3),
		model.NewToken("金額", 470, 130, 530, 150, 0.3),
		model.NewToken("リンゴ", 70, 160, 130, 180, 0.9),
		model.NewToken("1,000", 470, 160, 530, 180, 0.9),
	}

	result := engine.ExtractTokens(toks)
	if len(result.LineItems) != 0 {
		t.Errorf("LineItems = %d, want 0 with a low-confidence header", len(result.LineItems))
	}
}

func TestOpenChainIsImmutable(t *testing.T) {
	base := Open("invoice.pdf")
	forked := base.Page(3).DPI(300).MinConfidence(0.7).Languages("jpn")

	if base.config.Raster.Page != 1 {
		t.Errorf("base Page = %d, want 1 after fork", base.config.Raster.Page)
	}
	if base.config.Raster.DPI != 180 {
		t.Errorf("base DPI = %d, want 180 after fork", base.config.Raster.DPI)
	}
	if forked.config.Raster.Page != 3 ||
		forked.config.Raster.DPI != 300 ||
		forked.config.MinConfidence != 0.7 {
		t.Errorf("forked config = %+v, want overrides applied", forked.config)
	}
	if len(forked.config.Languages) != 1 || forked.config.Languages[0] != "jpn" {
		t.Errorf("forked Languages = %v, want [jpn]", forked.config.Languages)
	}
}

func TestMust(t *testing.T) {
	if got := Must("value", nil); got != "value" {
		t.Errorf("Must = %q, want value", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("Must did not panic on error")
		}
	}()
	Must(0, errors.New("extraction failed"))
}
