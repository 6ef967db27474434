package json_test

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mokita-j/tainted-storage/issue"
	jsonreport "github.com/mokita-j/tainted-storage/report/json"
)

func TestJSON(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "JSON Writer Suite")
}

var _ = Describe("JSON Writer", func() {
	Context("when writing findings", func() {
		It("should write findings in JSON format", func() {
			findings := []issue.Finding{
				{
					Variable:    "Example.gasSnapshot",
					Contract:    "Example",
					Slot:        0,
					SlotHex:     issue.FormatSlotHex(0),
					Offset:      0,
					TaintSource: "gasleft()",
					Function:   "Example.save()",
					Impact:     issue.Medium,
					Confidence: issue.Medium,
				},
			}

			buf := new(bytes.Buffer)
			err := jsonreport.WriteReport(buf, findings)
			Expect(err).ShouldNot(HaveOccurred())

			var result []map[string]interface{}
			err = json.Unmarshal(buf.Bytes(), &result)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(result).To(HaveLen(1))

			first := result[0]
			Expect(first["variable"]).To(Equal("Example.gasSnapshot"))
			Expect(first["taint_source"]).To(Equal("gasleft()"))
			Expect(first["impact"]).To(Equal("Medium"))
		})

		It("should handle an empty findings list", func() {
			buf := new(bytes.Buffer)
			err := jsonreport.WriteReport(buf, []issue.Finding{})
			Expect(err).ShouldNot(HaveOccurred())

			var result []interface{}
			err = json.Unmarshal(buf.Bytes(), &result)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(result).To(HaveLen(0))
		})

		It("should render slot_hex as a zero-padded 256-bit hex string", func() {
			findings := []issue.Finding{
				{Variable: "C.v", Contract: "C", Slot: 1, SlotHex: issue.FormatSlotHex(1), Function: "C.f()"},
			}

			buf := new(bytes.Buffer)
			Expect(jsonreport.WriteReport(buf, findings)).To(Succeed())

			var result []map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &result)).To(Succeed())
			Expect(result[0]["slot_hex"]).To(Equal(issue.FormatSlotHex(1)))
			Expect(result[0]["slot_hex"]).To(HaveLen(66))
		})
	})
})
