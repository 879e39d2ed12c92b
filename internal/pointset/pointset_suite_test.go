package pointset_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPointSetLaws(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Point set laws")
}
