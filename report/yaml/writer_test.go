package yaml_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mokita-j/tainted-storage/issue"
	"github.com/mokita-j/tainted-storage/report/yaml"
)

func TestYAML(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "YAML Writer Suite")
}

var _ = Describe("YAML Writer", func() {
	Context("when writing findings", func() {
		It("should write findings in YAML format", func() {
			findings := []issue.Finding{
				{
					Variable:    "Example.gasSnapshot",
					Contract:    "Example",
					Function:   "Example.save()",
					TaintSource: "gasleft()",
					Slot:        0,
					SlotHex:     issue.FormatSlotHex(0),
					Impact:      issue.Medium,
					Confidence:  issue.Medium,
				},
			}

			buf := new(bytes.Buffer)
			err := yaml.WriteReport(buf, findings)
			Expect(err).ShouldNot(HaveOccurred())

			result := buf.String()
			Expect(result).To(ContainSubstring("variable: Example.gasSnapshot"))
			Expect(result).To(ContainSubstring("taint_source: gasleft()"))
			Expect(result).To(ContainSubstring("impact: Medium"))
		})

		It("should handle an empty findings list", func() {
			buf := new(bytes.Buffer)
			err := yaml.WriteReport(buf, []issue.Finding{})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buf.String()).To(Equal("[]\n"))
		})
	})
})
