package auth_test

import (
	"context"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
)

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		mr      *miniredis.Miniredis
		service *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		mr = miniredis.RunT(GinkgoT())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)

		tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
		service = auth.NewService(repo, tokens, auth.NewRedisRevoker(client), quietLogger)
	})

	Describe("Login", func() {
		It("returns identity, permissions and tokens on success", func() {
			result, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User).To(Equal(auth.Identity{ID: "u-ana", Email: "ana@example.org", Role: access.RoleUser}))
			Expect(result.Permissions).To(HaveLen(1))
			Expect(result.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(result.Tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("trims surrounding whitespace from the email", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "  admin@example.org ", Password: "admin-secret"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports an unknown email as identity not found", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ghost@example.org", Password: "x"})
			Expect(err).To(MatchError(internal.ErrIdentityNotFound))
		})

		It("reports a wrong secret as invalid credential", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "wrong"})
			Expect(err).To(MatchError(internal.ErrInvalidCredential))
		})

		It("gives both failures the same public message", func() {
			_, notFound := service.Login(ctx, auth.LoginDTO{Email: "ghost@example.org", Password: "x"})
			_, wrong := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "wrong"})
			a, _ := internal.IsAppError(notFound)
			b, _ := internal.IsAppError(wrong)
			Expect(a.Message).To(Equal(b.Message))
			Expect(a.StatusCode).To(Equal(b.StatusCode))
		})

		It("rejects malformed input before touching the store", func() {
			repo.SetLookupShouldFail()
			_, err := service.Login(ctx, auth.LoginDTO{Email: "not-an-email", Password: ""})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("maps store failures to backend unavailable", func() {
			repo.SetLookupShouldFail()
			_, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(err).To(MatchError(internal.ErrBackendUnavailable))
		})

		It("keeps the login when permissions cannot be loaded", func() {
			repo.SetPermissionsShouldFail()
			result, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Permissions).To(BeEmpty())
			Expect(result.User.Role).To(Equal(access.RoleUser))
		})
	})

	Describe("Authenticate", func() {
		It("resolves a principal with fresh permissions", func() {
			result, err := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(err).NotTo(HaveOccurred())

			repo.perms["u-ana"] = nil
			p, err := service.Authenticate(ctx, result.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal("u-ana"))
			Expect(p.Can(access.Incapacidades, access.Read)).To(BeFalse())
		})

		It("rejects tokens of deleted identities", func() {
			result, _ := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			delete(repo.creds, "ana@example.org")
			_, err := service.Authenticate(ctx, result.Tokens.AccessToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})
	})

	Describe("Logout and Refresh", func() {
		It("revokes the access token", func() {
			result, _ := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(service.Logout(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken)).To(Succeed())

			_, err := service.Authenticate(ctx, result.Tokens.AccessToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))

			_, err = service.Refresh(ctx, result.Tokens.RefreshToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("rotates refresh tokens once", func() {
			result, _ := service.Login(ctx, auth.LoginDTO{Email: "admin@example.org", Password: "admin-secret"})
			tokens, err := service.Refresh(ctx, result.Tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())

			_, err = service.Refresh(ctx, result.Tokens.RefreshToken)
			Expect(err).To(MatchError(internal.ErrInvalidToken))
		})

		It("keeps serving access tokens when the revocation store is down", func() {
			result, _ := service.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			mr.Close()

			principal, err := service.Authenticate(ctx, result.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(principal.Email).To(Equal("ana@example.org"))

			_, err = service.Refresh(ctx, result.Tokens.RefreshToken)
			Expect(err).To(MatchError(internal.ErrBackendUnavailable))
		})

		It("works without a revocation store", func() {
			tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
			plain := auth.NewService(repo, tokens, nil, quietLogger)

			result, err := plain.Login(ctx, auth.LoginDTO{Email: "ana@example.org", Password: "user-secret"})
			Expect(err).NotTo(HaveOccurred())
			Expect(plain.Logout(ctx, result.Tokens.AccessToken, result.Tokens.RefreshToken)).To(Succeed())
			_, err = plain.Authenticate(ctx, result.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
