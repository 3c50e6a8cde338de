//go:build live

package suites

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Apurer/petstore-contract-tests/internal/contract"
)

var (
	client *contract.Client
	ctx    context.Context
	config *contract.Config
)

var _ = BeforeEach(func() {
	var err error
	config, err = contract.LoadConfig("../../../.env")
	Expect(err).NotTo(HaveOccurred())
	client, err = contract.NewClientFromConfig(config, nil)
	Expect(err).NotTo(HaveOccurred())
	ctx = context.Background()
})

func TestSuites(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pet Store Contract Suites")
}
