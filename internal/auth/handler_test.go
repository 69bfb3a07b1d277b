package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/auth"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/transport"
)

var _ = Describe("Handler", func() {
	var (
		repo    *mockRepository
		handler *auth.Handler
		guard   *auth.RBACAuthorization
		router  chi.Router
	)

	login := func(email, password string) *httptest.ResponseRecorder {
		body := `{"email":"` + email + `","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	tokenFor := func(email, password string) string {
		rec := login(email, password)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result auth.LoginResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		return result.Tokens.AccessToken
	}

	BeforeEach(func() {
		repo = newMockRepository()
		tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, 15*time.Minute, time.Hour)
		handler = &auth.Handler{
			BaseHandler: &transport.BaseHandler{Logger: quietLogger},
			Service:     auth.NewService(repo, tokens, nil, quietLogger),
		}
		guard = auth.NewRBACAuthorization(quietLogger)

		ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
		router = chi.NewRouter()
		router.Post("/login", handler.Login)
		router.Group(func(pr chi.Router) {
			pr.Use(handler.AuthMiddleware)
			pr.Get("/session", handler.Session)
			pr.Post("/logout", handler.Logout)
			pr.With(guard.RequirePermission(access.Incapacidades, access.Create)).Post("/incapacidades", ok)
			pr.With(guard.RequirePermission(access.Incapacidades, access.Delete)).Delete("/incapacidades/1", ok)
			pr.With(guard.RequirePermission(access.Dashboard, access.Read)).Get("/dashboard", ok)
			pr.With(guard.RequireAdmin()).Get("/admin", ok)
		})
	})

	Describe("Login", func() {
		It("returns tokens, identity and permissions", func() {
			rec := login("ana@example.org", "user-secret")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"role":"Usuario"`))
			Expect(rec.Body.String()).To(ContainSubstring(`"module":"incapacidades"`))
			Expect(rec.Body.String()).NotTo(ContainSubstring("password"))
		})

		It("answers unknown email and wrong password identically", func() {
			unknown := login("ghost@example.org", "x")
			wrong := login("ana@example.org", "wrong")
			Expect(unknown.Code).To(Equal(http.StatusUnauthorized))
			Expect(wrong.Code).To(Equal(http.StatusUnauthorized))
			Expect(unknown.Body.String()).To(Equal(wrong.Body.String()))
		})

		It("rejects malformed bodies", func() {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports store failures as 503", func() {
			repo.SetLookupShouldFail()
			Expect(login("ana@example.org", "user-secret").Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Guard", func() {
		do := func(method, path, token string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			return rec
		}

		It("answers 401 without a token", func() {
			Expect(do(http.MethodPost, "/incapacidades", "").Code).To(Equal(http.StatusUnauthorized))
		})

		It("lets a Usuario use granted actions", func() {
			token := tokenFor("ana@example.org", "user-secret")
			Expect(do(http.MethodPost, "/incapacidades", token).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/dashboard", token).Code).To(Equal(http.StatusOK))
		})

		It("denies ungranted actions with a JSON body", func() {
			token := tokenFor("ana@example.org", "user-secret")
			rec := do(http.MethodDelete, "/incapacidades/1", token)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

			var raw map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &raw)).To(Succeed())
			Expect(raw["error"]["code"]).To(Equal(string(internal.ErrCodeAccessDenied)))
		})

		It("sees permission changes on the next request", func() {
			token := tokenFor("ana@example.org", "user-secret")
			repo.perms["u-ana"] = nil
			Expect(do(http.MethodPost, "/incapacidades", token).Code).To(Equal(http.StatusForbidden))
		})

		It("lets Admin through everything", func() {
			token := tokenFor("admin@example.org", "admin-secret")
			Expect(do(http.MethodDelete, "/incapacidades/1", token).Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/admin", token).Code).To(Equal(http.StatusOK))
		})

		It("keeps Usuario out of admin routes", func() {
			token := tokenFor("ana@example.org", "user-secret")
			Expect(do(http.MethodGet, "/admin", token).Code).To(Equal(http.StatusForbidden))
		})

		It("returns the session of the caller", func() {
			token := tokenFor("ana@example.org", "user-secret")
			rec := do(http.MethodGet, "/session", token)
			Expect(rec.Code).To(Equal(http.StatusOK))
			var p internal.Principal
			Expect(json.Unmarshal(rec.Body.Bytes(), &p)).To(Succeed())
			Expect(p.Email).To(Equal("ana@example.org"))
			Expect(p.Permissions).To(HaveLen(1))
		})

		It("logs out with 204", func() {
			token := tokenFor("ana@example.org", "user-secret")
			Expect(do(http.MethodPost, "/logout", token).Code).To(Equal(http.StatusNoContent))
		})
	})
})
