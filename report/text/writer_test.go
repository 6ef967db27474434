package text_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mokita-j/tainted-storage/issue"
	"github.com/mokita-j/tainted-storage/report/text"
)

func TestText(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Text Writer Suite")
}

func sampleFinding() issue.Finding {
	return issue.Finding{
		Variable:    "Example.gasSnapshot",
		Contract:    "Example",
		Function:   "Example.save()",
		TaintSource: "gasleft()",
		Slot:        0,
		SlotHex:     issue.FormatSlotHex(0),
		Offset:      0,
		Impact:      issue.Medium,
		Confidence:  issue.Medium,
		Elements: issue.BuildElements("Example.gasSnapshot", "gasleft()", "Example.save()", "gasSnapshot = gasleft()", 0, 0),
	}
}

var _ = Describe("Text Writer", func() {
	Context("when writing findings", func() {
		It("should write findings in text format", func() {
			buf := new(bytes.Buffer)
			err := text.WriteReport(buf, []issue.Finding{sampleFinding()}, false)
			Expect(err).ShouldNot(HaveOccurred())

			result := buf.String()
			Expect(result).To(ContainSubstring("Example.gasSnapshot"))
			Expect(result).To(ContainSubstring("gasleft()"))
			Expect(result).To(ContainSubstring("Example"))
		})

		It("should handle an empty findings list", func() {
			buf := new(bytes.Buffer)
			err := text.WriteReport(buf, nil, false)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("Summary:"))
		})

		It("should support color output when enabled", func() {
			buf := new(bytes.Buffer)
			err := text.WriteReport(buf, []issue.Finding{sampleFinding()}, true)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).ToNot(BeEmpty())
		})

		It("should display impact and confidence levels", func() {
			buf := new(bytes.Buffer)
			err := text.WriteReport(buf, []issue.Finding{sampleFinding()}, false)
			Expect(err).ShouldNot(HaveOccurred())

			result := buf.String()
			Expect(result).To(ContainSubstring("Impact"))
			Expect(result).To(ContainSubstring("Confidence"))
		})
	})
})
