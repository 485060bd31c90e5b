package validate

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestValidate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validate Suite")
}

var _ = Describe("EmployeeCode", func() {
	When("the code is well formed", func() {
		It("should accept and canonicalize", func() {
			code, ok := EmployeeCode("A0123")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal("A0123"))
		})

		It("should uppercase lowercase input", func() {
			code, ok := EmployeeCode("a0042")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal("A0042"))
		})

		It("should ignore internal whitespace", func() {
			code, ok := EmployeeCode("A 00 42")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal("A0042"))
		})

		It("should be idempotent on its own canonical output", func() {
			first, ok := EmployeeCode("a 2000")
			Expect(ok).To(BeTrue())
			second, ok := EmployeeCode(first)
			Expect(ok).To(BeTrue())
			Expect(second).To(Equal(first))
		})

		It("should give identical results for case and whitespace variants", func() {
			a, okA := EmployeeCode("A0500")
			b, okB := EmployeeCode(" a 0500 ")
			Expect(okA).To(Equal(okB))
			Expect(a).To(Equal(b))
		})

		It("should accept both range boundaries", func() {
			code, ok := EmployeeCode("A0001")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal("A0001"))

			code, ok = EmployeeCode("A2000")
			Expect(ok).To(BeTrue())
			Expect(code).To(Equal("A2000"))
		})
	})

	When("the code is malformed", func() {
		It("should reject the wrong digit count", func() {
			_, ok := EmployeeCode("A123")
			Expect(ok).To(BeFalse())

			_, ok = EmployeeCode("A01234")
			Expect(ok).To(BeFalse())
		})

		It("should reject values outside the range", func() {
			_, ok := EmployeeCode("A0000")
			Expect(ok).To(BeFalse())

			_, ok = EmployeeCode("A2001")
			Expect(ok).To(BeFalse())

			_, ok = EmployeeCode("A9999")
			Expect(ok).To(BeFalse())
		})

		It("should reject the wrong letter", func() {
			_, ok := EmployeeCode("B0123")
			Expect(ok).To(BeFalse())
		})

		It("should reject non-code text", func() {
			_, ok := EmployeeCode("hello")
			Expect(ok).To(BeFalse())

			_, ok = EmployeeCode("")
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("DateDMY", func() {
	It("should accept day/month/year dates", func() {
		Expect(DateDMY("31/01/2026")).To(BeTrue())
		Expect(DateDMY("1/2/2026")).To(BeTrue())
	})

	It("should reject out-of-range day or month", func() {
		Expect(DateDMY("32/01/2026")).To(BeFalse())
		Expect(DateDMY("01/13/2026")).To(BeFalse())
		Expect(DateDMY("00/01/2026")).To(BeFalse())
	})

	It("should reject other shapes", func() {
		Expect(DateDMY("2026-01-31")).To(BeFalse())
		Expect(DateDMY("31/01/26")).To(BeFalse())
		Expect(DateDMY("tomorrow")).To(BeFalse())
		Expect(DateDMY("")).To(BeFalse())
	})
})
