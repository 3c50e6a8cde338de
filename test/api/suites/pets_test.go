//go:build live

package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Apurer/petstore-contract-tests/internal/contract"
	"github.com/Apurer/petstore-contract-tests/internal/contract/petstore"
)

var _ = Describe("Pet endpoints", func() {
	for _, group := range petstore.Groups() {
		Describe(group.Name, func() {
			var fixture contract.Fixture

			BeforeEach(func() {
				var err error
				fixture, err = group.Prepare(ctx, client)
				Expect(err).NotTo(HaveOccurred())
				if fixture.PetID != 0 {
					GinkgoWriter.Printf("created pet %d\n", fixture.PetID)
				}
			})

			for _, c := range group.Cases {
				It(c.Name, func() {
					resp := contract.Verify(ctx, GinkgoT(), client, fixture, c)
					Expect(resp.RequestID).NotTo(BeEmpty())
				})
			}
		})
	}
})
