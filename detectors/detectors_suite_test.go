package detectors_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDetectors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Detectors Suite")
}
