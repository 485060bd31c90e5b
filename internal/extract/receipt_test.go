package extract

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("receipt extraction", func() {
	var engine *Engine

	extract := func(raw string) *Receipt {
		rec := engine.Extract(KindReceipt, raw, testNow)
		receipt, ok := rec.(*Receipt)
		Expect(ok).To(BeTrue())
		return receipt
	}

	BeforeEach(func() {
		engine = NewEngine(nil)
	})

	Describe("a full clinic receipt", func() {
		raw := strings.Join([]string{
			"คลินิกหมอสมศรี",
			"ใบเสร็จรับเงิน",
			"BN. L69-01-003-761",
			"HN. 12345",
			"วันที่ 01/02/2026 เวลา 10:30:45",
			"ชื่อ",
			"คุณ",
			"สมชาย ใจดี",
			"ชำระโดย : เงินสด",
			"Anti-aging Cream 1,200.00",
			"Vitamin C 350.00",
			"ภาษีมูลค่าเพิ่ม 108.50",
			"รวมทั้งสิ้น 1,658.50",
			"ลงชื่อ ................",
		}, "\n")

		It("should capture the identifier after the BN marker", func() {
			Expect(extract(raw).Identifier).To(Equal("L69-01-003-761"))
		})

		It("should capture the secondary identifier after the HN marker", func() {
			Expect(extract(raw).SecondaryID).To(Equal("12345"))
		})

		It("should split date and time sharing one line", func() {
			receipt := extract(raw)
			Expect(receipt.DateRaw).To(Equal("01/02/2026"))
			Expect(receipt.TimeRaw).To(Equal("10:30:45"))
		})

		It("should read the name past the honorific line", func() {
			Expect(extract(raw).PatientName).To(Equal("สมชาย ใจดี"))
		})

		It("should capture the payment type after its separator", func() {
			Expect(extract(raw).PaymentType).To(Equal("เงินสด"))
		})

		It("should take the total from the total line", func() {
			Expect(extract(raw).Total).To(Equal("1,658.50"))
		})

		It("should take the VAT from the VAT line", func() {
			Expect(extract(raw).VAT).To(Equal("108.50"))
		})

		It("should pair item descriptions with their amounts", func() {
			Expect(extract(raw).Items).To(Equal([]ReceiptItem{
				{Description: "Anti-aging Cream", Amount: "1,200.00"},
				{Description: "Vitamin C", Amount: "350.00"},
			}))
		})

		It("should be pure across repeated runs", func() {
			Expect(extract(raw)).To(Equal(extract(raw)))
		})
	})

	Describe("identifier capture", func() {
		It("should find the run on a prefixed line", func() {
			receipt := extract("ใบเสร็จ\nเลขที่ BN. A12-345\nรวม 10.00")
			Expect(receipt.Identifier).To(Equal("A12-345"))
		})

		It("should default to empty when no marker exists", func() {
			receipt := extract("ใบเสร็จ\nรวม 10.00")
			Expect(receipt.Identifier).To(BeEmpty())
		})
	})

	Describe("date and time on separate lines", func() {
		It("should capture each from its own line", func() {
			receipt := extract("วันที่ 01/02/2026\nเวลา 10:30:45")
			Expect(receipt.DateRaw).To(Equal("01/02/2026"))
			Expect(receipt.TimeRaw).To(Equal("10:30:45"))
		})
	})

	Describe("patient name", func() {
		It("should use the remainder of the marker line when present", func() {
			Expect(extract("ชื่อ สมหญิง รักเรียน").PatientName).To(Equal("สมหญิง รักเรียน"))
		})

		It("should use the next line when the marker line is bare", func() {
			Expect(extract("ชื่อ\nสมหญิง รักเรียน").PatientName).To(Equal("สมหญิง รักเรียน"))
		})

		It("should recognize a dotted honorific", func() {
			Expect(extract("ชื่อ\nน.ส.\nสมหญิง รักเรียน").PatientName).To(Equal("สมหญิง รักเรียน"))
		})
	})

	Describe("totals", func() {
		It("should prefer the grand total over a subtotal", func() {
			receipt := extract("รวมเงิน 100.00\nภาษีมูลค่าเพิ่ม 7.00\nรวมทั้งสิ้น 107.00")
			Expect(receipt.Total).To(Equal("107.00"))
		})

		It("should fall back to the last amount in the text", func() {
			receipt := extract("Item A 100.00\nItem B 200.00")
			Expect(receipt.Total).To(Equal("200.00"))
		})

		It("should ignore amounts on signature and cashier lines", func() {
			receipt := extract("รวม 50.00\nแคชเชียร์ รวมรับ 999.99")
			Expect(receipt.Total).To(Equal("50.00"))
		})
	})

	Describe("line items", func() {
		It("should look back for a description when the amount stands alone", func() {
			receipt := extract("ยาแก้ปวด\n120.00")
			Expect(receipt.Items).To(Equal([]ReceiptItem{
				{Description: "ยาแก้ปวด", Amount: "120.00"},
			}))
		})

		It("should not look back further than three lines", func() {
			receipt := extract("ยาแก้ปวด\n.\n.\n.\n120.00")
			Expect(receipt.Items).To(BeEmpty())
		})

		It("should deduplicate identical pairs", func() {
			receipt := extract("Vitamin C 350.00\nVitamin C 350.00")
			Expect(receipt.Items).To(HaveLen(1))
		})

		It("should cap the item list", func() {
			var b strings.Builder
			for i := 0; i < 40; i++ {
				b.WriteString("Item ")
				b.WriteString(strings.Repeat("x", i+1))
				b.WriteString(" 10.00\n")
			}
			Expect(extract(b.String()).Items).To(HaveLen(maxReceiptItems))
		})
	})

	It("should never fail on empty or malformed input", func() {
		receipt := extract("")
		Expect(receipt.Identifier).To(BeEmpty())
		Expect(receipt.Items).To(BeEmpty())
		Expect(receipt.Raw).To(BeEmpty())
		Expect(receipt.Timestamp).To(Equal(testNow))
	})
})
