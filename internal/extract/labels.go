package extract

// Canonical generic-form field names, in extraction order.
const (
	FieldDate      = "date"
	FieldDocNumber = "docNumber"
	FieldName      = "name"
	FieldDetail    = "detail"
	FieldRemark    = "remark"
)

// FieldLabels maps one canonical field to its accepted label synonyms, in
// match priority order.
type FieldLabels struct {
	Field    string
	Synonyms []string
}

// ReceiptMarkers holds the marker tokens used by the receipt strategy and the
// receipt shape check.
type ReceiptMarkers struct {
	// Mandatory tokens must all be present for text to qualify as a receipt.
	Mandatory []string

	Identifier  []string
	SecondaryID []string
	Date        []string
	Time        []string
	Name        []string
	Honorifics  []string
	Payment     []string
	Total       []string
	VAT         []string
	// Ignore marks signature/cashier/page/change lines that never carry a
	// total or a line item.
	Ignore []string
}

// Dictionary is the static label and marker configuration shared by the
// extraction strategies and the document-shape checks. It is never mutated
// at runtime.
type Dictionary struct {
	Fields  []FieldLabels
	Receipt ReceiptMarkers
}

// DefaultDictionary returns the labels and markers for the documents the
// field teams photograph (Thai forms and clinic receipts, with the English
// variants the OCR sometimes produces).
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		Fields: []FieldLabels{
			{Field: FieldDate, Synonyms: []string{"วันที่", "Date"}},
			{Field: FieldDocNumber, Synonyms: []string{"เลขเอกสาร", "เลขที่เอกสาร", "เลขที่", "Doc No", "Document No"}},
			{Field: FieldName, Synonyms: []string{"ชื่อ-สกุล", "ชื่อ", "Name"}},
			{Field: FieldDetail, Synonyms: []string{"รายละเอียด", "รายการ", "Detail"}},
			{Field: FieldRemark, Synonyms: []string{"หมายเหตุ", "Remark"}},
		},
		Receipt: ReceiptMarkers{
			Mandatory:   []string{"ใบเสร็จ", "คลินิก"},
			Identifier:  []string{"BN.", "BN"},
			SecondaryID: []string{"HN.", "HN"},
			Date:        []string{"วันที่", "Date"},
			Time:        []string{"เวลา", "Time"},
			Name:        []string{"ชื่อ", "Name"},
			Honorifics:  []string{"คุณ", "นาย", "นาง", "น.ส", "นส", "ด.ช", "ด.ญ"},
			Payment:     []string{"ชำระโดย", "ประเภทการชำระ", "Payment"},
			Total:       []string{"รวมทั้งสิ้น", "รวมเงิน", "รวม", "Total"},
			VAT:         []string{"ภาษีมูลค่าเพิ่ม", "VAT"},
			Ignore:      []string{"ลงชื่อ", "ลายเซ็น", "แคชเชียร์", "Cashier", "หน้า", "Page", "เงินทอน", "รับเงิน"},
		},
	}
}
