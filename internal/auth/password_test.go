package auth_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Credential verifier", func() {
	It("round-trips a secret", func() {
		hash, err := auth.HashPassword("s3cret!", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(auth.VerifyPassword("s3cret!", hash)).To(BeTrue())
		Expect(auth.VerifyPassword("other", hash)).To(BeFalse())
	})

	It("produces a self-describing hash", func() {
		hash, err := auth.HashPassword("s3cret!", 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.HasPrefix(hash, "$2a$10$")).To(BeTrue())
	})

	It("raises a low cost to the minimum", func() {
		hash, err := auth.HashPassword("s3cret!", 4)
		Expect(err).NotTo(HaveOccurred())
		cost, err := bcrypt.Cost([]byte(hash))
		Expect(err).NotTo(HaveOccurred())
		Expect(cost).To(Equal(auth.MinBcryptCost))
	})

	It("rejects an empty secret", func() {
		_, err := auth.HashPassword("", 10)
		Expect(err).To(MatchError(auth.ErrEmptySecret))
	})

	DescribeTable("fails closed on bad hashes",
		func(hash string) {
			Expect(func() { auth.VerifyPassword("anything", hash) }).NotTo(Panic())
			Expect(auth.VerifyPassword("anything", hash)).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("garbage", "not-a-hash"),
		Entry("truncated", "$2a$10$abc"),
		Entry("plaintext equal to secret", "anything"),
	)
})
