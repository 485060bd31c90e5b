package journal_test

import (
	"path/filepath"
	"testing"
	"time"

	"docline/internal/journal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestJournal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Journal Suite")
}

var _ = Describe("Bolt", func() {
	var b *journal.Bolt

	BeforeEach(func() {
		var err error
		b, err = journal.NewBolt(filepath.Join(GinkgoT().TempDir(), "journal.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(b.Close()).To(Succeed())
	})

	It("should start empty", func() {
		entries, err := b.List(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(BeEmpty())
	})

	It("should assign increasing sequence numbers", func() {
		now := time.Now().UTC()
		Expect(b.Record(journal.Entry{Time: now, UserID: "U1", Error: "first"})).To(Succeed())
		Expect(b.Record(journal.Entry{Time: now, UserID: "U1", Error: "second"})).To(Succeed())

		entries, err := b.List(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Seq).To(BeNumerically(">", entries[1].Seq))
	})

	It("should list newest first", func() {
		for _, msg := range []string{"a", "b", "c"} {
			Expect(b.Record(journal.Entry{Time: time.Now(), UserID: "U1", Error: msg})).To(Succeed())
		}

		entries, err := b.List(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries[0].Error).To(Equal("c"))
		Expect(entries[1].Error).To(Equal("b"))
		Expect(entries[2].Error).To(Equal("a"))
	})

	It("should honor the limit", func() {
		for _, msg := range []string{"a", "b", "c"} {
			Expect(b.Record(journal.Entry{Time: time.Now(), UserID: "U1", Error: msg})).To(Succeed())
		}

		entries, err := b.List(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Error).To(Equal("c"))
	})

	It("should round-trip the entry fields", func() {
		now := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
		Expect(b.Record(journal.Entry{Time: now, UserID: "U1234", Error: "sheet unavailable"})).To(Succeed())

		entries, err := b.List(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries[0].UserID).To(Equal("U1234"))
		Expect(entries[0].Error).To(Equal("sheet unavailable"))
		Expect(entries[0].Time.Equal(now)).To(BeTrue())
	})
})
