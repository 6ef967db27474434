package issue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mokita-j/tainted-storage/issue"
)

var _ = Describe("Level", func() {
	It("renders Medium as the default zero-adjacent case", func() {
		Expect(issue.Medium.String()).To(Equal("Medium"))
	})

	It("renders Low and High distinctly", func() {
		Expect(issue.Low.String()).To(Equal("Low"))
		Expect(issue.High.String()).To(Equal("High"))
	})

	It("marshals to its string form in JSON", func() {
		raw, err := issue.Medium.MarshalJSON()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(raw)).To(Equal(`"Medium"`))
	})
})

var _ = Describe("FormatSlotHex", func() {
	It("zero-pads a small non-negative slot to 64 hex digits", func() {
		hex := issue.FormatSlotHex(1)
		Expect(hex).To(HaveLen(66))
		Expect(hex).To(HavePrefix("0x"))
		Expect(hex).To(HaveSuffix("001"))
	})

	It("renders slot 0 as all zeros", func() {
		Expect(issue.FormatSlotHex(0)).To(Equal("0x" + repeatZero(64)))
	})

	It("renders a layout-miss slot (-1) as a 66-character all-f string", func() {
		hex := issue.FormatSlotHex(-1)
		Expect(hex).To(HaveLen(66))
		Expect(hex).To(Equal("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
	})
})

var _ = Describe("BuildElements", func() {
	It("joins into the spec's pretty-printed sentence", func() {
		elements := issue.BuildElements("C.v", "gasleft()", "C.f()", "v = gasleft()", 0, 0)
		joined := ""
		for _, e := range elements {
			joined += e
		}
		Expect(joined).To(ContainSubstring("C.v"))
		Expect(joined).To(ContainSubstring("(slot: 0, offset: 0) is tainted by"))
		Expect(joined).To(ContainSubstring("gasleft()"))
		Expect(joined).To(ContainSubstring("C.f()"))
	})
})

func repeatZero(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}
