package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
)

var _ = Describe("JWTTokenGenerator", func() {
	var (
		gen      *auth.JWTTokenGenerator
		identity auth.Identity
	)

	BeforeEach(func() {
		gen = auth.NewJWTTokenGenerator(accessSecret, refreshSecret, time.Minute, time.Hour)
		identity = auth.Identity{ID: "u-1", Email: "a@example.org", Role: access.RoleUser}
	})

	It("issues tokens that validate with their own type", func() {
		token, claims, err := gen.Generate(identity, auth.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.ID).NotTo(BeEmpty())

		parsed, err := gen.Validate(token, auth.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.UserID).To(Equal("u-1"))
		Expect(parsed.Role).To(Equal("Usuario"))
	})

	It("gives every token a distinct id", func() {
		_, a, _ := gen.Generate(identity, auth.AccessToken)
		_, b, _ := gen.Generate(identity, auth.AccessToken)
		Expect(a.ID).NotTo(Equal(b.ID))
	})

	It("refuses a refresh token where an access token is expected", func() {
		token, _, err := gen.Generate(identity, auth.RefreshToken)
		Expect(err).NotTo(HaveOccurred())
		_, err = gen.Validate(token, auth.AccessToken)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})

	It("reports expiry", func() {
		expired := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, time.Nanosecond, time.Hour)
		token, _, err := expired.Generate(identity, auth.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		time.Sleep(1100 * time.Millisecond)
		_, err = expired.Validate(token, auth.AccessToken)
		Expect(err).To(MatchError(internal.ErrTokenExpired))
	})

	It("rejects tampered tokens", func() {
		token, _, _ := gen.Generate(identity, auth.AccessToken)
		_, err := gen.Validate(token+"x", auth.AccessToken)
		Expect(err).To(MatchError(internal.ErrInvalidToken))
	})
})
