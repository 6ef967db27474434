package detectors_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mokita-j/tainted-storage/detectors"
	"github.com/mokita-j/tainted-storage/ir"
	"github.com/mokita-j/tainted-storage/ir/fixtures"
	"github.com/mokita-j/tainted-storage/issue"
	"github.com/mokita-j/tainted-storage/storage"
)

var _ = Describe("Register", func() {
	It("returns a detector carrying the tainted-storage identity", func() {
		d := detectors.Register(storage.NewOracle(), detectors.DefaultConfig())

		Expect(d.Definition.ID).To(Equal("tainted-storage"))
		Expect(d.Definition.Impact).To(Equal(issue.Medium))
		Expect(d.Definition.Confidence).To(Equal(issue.Medium))
		Expect(d.Definition.Wiki).To(ContainSubstring("tainted-storage"))
		Expect(d.Definition.WikiExploitScenario).To(ContainSubstring("gasleft"))
	})

	It("recognizes an extra configured gas global as a source", func() {
		cfg := detectors.Config{ExtraGasGlobals: []string{"block.prevrandao"}}
		d := detectors.Register(storage.NewOracle(), cfg)

		Expect(ir.GasComposedSources).To(HaveKeyWithValue("block.prevrandao", "block.prevrandao"))
		Expect(d).ToNot(BeNil())
	})
})

var _ = Describe("Detector.Detect", func() {
	It("finds the gasleft-tainted write in a minimal compilation unit", func() {
		c, _, storedGas := fixtures.GasleftDirect()
		unit := &ir.CompilationUnit{ContractsDerived: []*ir.Contract{c}}

		d := detectors.Register(storage.NewOracle(), detectors.DefaultConfig())
		findings, err := d.Detect(unit)
		Expect(err).ToNot(HaveOccurred())

		Expect(findings).To(HaveLen(1))
		Expect(findings[0].Variable).To(Equal(storedGas.CanonicalName()))
		Expect(findings[0].TaintSource).To(Equal("gasleft()"))
	})

	It("finds nothing in a clean token contract", func() {
		c, _ := fixtures.CleanToken()
		unit := &ir.CompilationUnit{ContractsDerived: []*ir.Contract{c}}

		d := detectors.Register(storage.NewOracle(), detectors.DefaultConfig())
		findings, err := d.Detect(unit)
		Expect(err).ToNot(HaveOccurred())
		Expect(findings).To(BeEmpty())
	})

	It("swallows a storage-layout miss into a (-1, -1) finding by default", func() {
		c, _, storedGas := fixtures.GasleftDirect()
		unit := &ir.CompilationUnit{ContractsDerived: []*ir.Contract{c}}

		d := detectors.Register(nil, detectors.DefaultConfig())
		findings, err := d.Detect(unit)
		Expect(err).ToNot(HaveOccurred())

		Expect(findings).To(HaveLen(1))
		Expect(findings[0].Variable).To(Equal(storedGas.CanonicalName()))
		Expect(findings[0].Slot).To(Equal(-1))
	})

	It("fails on a storage-layout miss when Strict is set", func() {
		c, _, _ := fixtures.GasleftDirect()
		unit := &ir.CompilationUnit{ContractsDerived: []*ir.Contract{c}}

		d := detectors.Register(nil, detectors.Config{Strict: true})
		findings, err := d.Detect(unit)

		Expect(err).To(HaveOccurred())
		Expect(findings).To(BeNil())
	})
})
