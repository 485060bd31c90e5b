package extract

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags which document family a record was extracted as.
type Kind int

const (
	KindDocument Kind = iota
	KindReceipt
)

// Record is one extracted document, ready to be summarized for the user and
// flattened into a sheet row.
type Record interface {
	Kind() Kind
	// Summary returns the human-readable confirmation lines for the reply.
	Summary() string
	// Fields returns the flat field map persisted to the sheet.
	Fields() map[string]string
}

// Document is a generic labeled form.
type Document struct {
	Date      string
	DocNumber string
	Name      string
	Detail    string
	Remark    string
	Raw       string
	Timestamp time.Time
}

// Kind returns KindDocument
func (d *Document) Kind() Kind {
	return KindDocument
}

// Summary returns the confirmation lines for a generic form
func (d *Document) Summary() string {
	return fmt.Sprintf("📄 เลขที่: %s\n📅 วันที่: %s", orDash(d.DocNumber), orDash(d.Date))
}

// Fields returns the sheet row for a generic form
func (d *Document) Fields() map[string]string {
	return map[string]string{
		"type":      "document",
		"date":      d.Date,
		"docNumber": d.DocNumber,
		"name":      d.Name,
		"detail":    d.Detail,
		"remark":    d.Remark,
		"raw":       d.Raw,
		"timestamp": d.Timestamp.Format(time.RFC3339),
	}
}

// ReceiptItem is one description/amount pair on an itemized receipt.
type ReceiptItem struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// Receipt is an itemized clinic receipt.
type Receipt struct {
	Identifier  string
	SecondaryID string
	DateRaw     string
	TimeRaw     string
	PatientName string
	PaymentType string
	VAT         string
	Total       string
	Items       []ReceiptItem
	Raw         string
	Timestamp   time.Time
}

// Kind returns KindReceipt
func (r *Receipt) Kind() Kind {
	return KindReceipt
}

// Summary returns the confirmation lines for a receipt
func (r *Receipt) Summary() string {
	return fmt.Sprintf("🧾 BN: %s\n👤 ชื่อ: %s\n📅 วันที่: %s\n💰 รวม: %s",
		orDash(r.Identifier), orDash(r.PatientName), orDash(r.DateRaw), orDash(r.Total))
}

// Fields returns the sheet row for a receipt
func (r *Receipt) Fields() map[string]string {
	items, err := json.Marshal(r.Items)
	if err != nil {
		items = []byte("[]")
	}
	return map[string]string{
		"type":        "receipt",
		"identifier":  r.Identifier,
		"secondaryId": r.SecondaryID,
		"date":        r.DateRaw,
		"time":        r.TimeRaw,
		"name":        r.PatientName,
		"paymentType": r.PaymentType,
		"vat":         r.VAT,
		"total":       r.Total,
		"items":       string(items),
		"raw":         r.Raw,
		"timestamp":   r.Timestamp.Format(time.RFC3339),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
