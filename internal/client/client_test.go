package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal/client"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
)

var _ = Describe("Client", func() {
	var (
		ctx context.Context
		mux *http.ServeMux
	)

	BeforeEach(func() {
		ctx = context.Background()
		mux = http.NewServeMux()
	})

	Describe("Login", func() {
		It("keeps the tokens and returns the identity", func() {
			var (
				mu        sync.Mutex
				email     string
				sessAuthz string
			)
			mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				mu.Lock()
				email = body["email"]
				mu.Unlock()
				_, _ = w.Write([]byte(loginBody))
			})
			mux.HandleFunc("GET /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				sessAuthz = r.Header.Get("Authorization")
				mu.Unlock()
				_, _ = w.Write([]byte(sessionBody))
			})
			c := serve(mux)

			user, err := c.Login(ctx, "ana@upca.edu", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(*user).To(Equal(session.User{ID: "u-1", Email: "ana@upca.edu", Role: access.RoleUser}))

			perms, err := c.Permissions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(HaveLen(1))
			Expect(perms[0].Module).To(Equal(access.Incapacidades))
			Expect(perms[0].Create).To(BeTrue())
			Expect(perms[0].Delete).To(BeFalse())

			mu.Lock()
			defer mu.Unlock()
			Expect(email).To(Equal("ana@upca.edu"))
			Expect(sessAuthz).To(Equal("Bearer access-1"))
		})

		It("maps 401 to an invalid credential", func() {
			mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"type":"UNAUTHORIZED","code":"INVALID_CREDENTIAL","message":"Invalid email or password"}}`))
			})
			c := serve(mux)

			_, err := c.Login(ctx, "ana@upca.edu", "wrong")
			Expect(err).To(MatchError(session.ErrInvalidCredential))
		})

		It("maps server errors to backend unavailable", func() {
			mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":{"type":"BACKEND_UNAVAILABLE","code":"BACKEND_UNAVAILABLE","message":"Service temporarily unavailable"}}`))
			})
			c := serve(mux)

			_, err := c.Login(ctx, "ana@upca.edu", "secret")
			Expect(err).To(MatchError(session.ErrBackendUnavailable))
			Expect(err.Error()).To(ContainSubstring("BACKEND_UNAVAILABLE"))
		})

		It("treats an unreachable server as backend unavailable", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			srv.Close()
			c := client.New(srv.URL, time.Second, quietLogger)

			_, err := c.Login(ctx, "ana@upca.edu", "secret")
			Expect(err).To(MatchError(session.ErrBackendUnavailable))
		})
	})

	Describe("Permissions", func() {
		It("requires a login first", func() {
			c := client.New("http://127.0.0.1:1", time.Second, quietLogger)
			_, err := c.Permissions(ctx)
			Expect(err).To(MatchError(session.ErrNotAuthenticated))
		})

		It("refreshes an expired access token once", func() {
			var refreshed atomic.Bool
			mux.HandleFunc("POST /api/v1/auth/login", writeBody(loginBody))
			mux.HandleFunc("POST /api/v1/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
				refreshed.Store(true)
				_, _ = w.Write([]byte(`{"access_token":"access-2","refresh_token":"refresh-2","expires_at":"2030-01-01T00:00:00Z"}`))
			})
			mux.HandleFunc("GET /api/v1/auth/session", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer access-2" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				_, _ = w.Write([]byte(sessionBody))
			})
			c := serve(mux)

			_, err := c.Login(ctx, "ana@upca.edu", "secret")
			Expect(err).NotTo(HaveOccurred())
			perms, err := c.Permissions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.Load()).To(BeTrue())
			Expect(perms).To(HaveLen(1))
		})
	})

	Describe("Logout", func() {
		It("revokes and forgets the tokens", func() {
			var (
				mu      sync.Mutex
				authz   string
				refresh string
			)
			mux.HandleFunc("POST /api/v1/auth/login", writeBody(loginBody))
			mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
				var body map[string]string
				_ = json.NewDecoder(r.Body).Decode(&body)
				mu.Lock()
				authz, refresh = r.Header.Get("Authorization"), body["refresh_token"]
				mu.Unlock()
				w.WriteHeader(http.StatusNoContent)
			})
			c := serve(mux)

			_, err := c.Login(ctx, "ana@upca.edu", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Logout(ctx)).To(Succeed())

			mu.Lock()
			Expect(authz).To(Equal("Bearer access-1"))
			Expect(refresh).To(Equal("refresh-1"))
			mu.Unlock()

			_, err = c.Permissions(ctx)
			Expect(err).To(MatchError(session.ErrNotAuthenticated))
			Expect(c.Logout(ctx)).To(Succeed())
		})
	})

	It("drives the session manager and guard over HTTP", func() {
		mux.HandleFunc("POST /api/v1/auth/login", writeBody(loginBody))
		mux.HandleFunc("GET /api/v1/auth/session", writeBody(sessionBody))
		mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		c := serve(mux)

		m := session.NewManager(c, session.NewMemoryStore(), session.NotifierFunc(func(session.Level, string) {}), quietLogger)
		Expect(m.Login(ctx, "ana@upca.edu", "secret")).To(Succeed())
		Expect(session.GuardScreen(m, "/incapacidades")).To(Equal(session.Render))
		Expect(session.GuardScreen(m, "/usuarios")).To(Equal(session.AccessDenied))
		Expect(m.Can(access.Incapacidades, access.Delete)).To(BeFalse())

		Expect(m.Logout(ctx)).To(Succeed())
		Expect(session.GuardScreen(m, "/incapacidades")).To(Equal(session.RedirectLogin))
	})
})
