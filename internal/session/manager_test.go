package session_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
)

var _ = Describe("Manager", func() {
	var (
		ctx      context.Context
		backend  *fakeBackend
		store    *session.MemoryStore
		notifier *recordingNotifier
		manager  *session.Manager
	)

	usuario := session.User{ID: "u-1", Email: "ana@upca.edu", Role: access.RoleUser}
	incapacidadesCR := []access.Record{
		{Module: access.Incapacidades, Grants: access.Grants{Create: true, Read: true}},
	}

	BeforeEach(func() {
		ctx = context.Background()
		backend = &fakeBackend{user: &usuario, perms: incapacidadesCR}
		store = session.NewMemoryStore()
		notifier = &recordingNotifier{}
		manager = session.NewManager(backend, store, notifier, quietLogger)
	})

	Describe("Login", func() {
		It("authenticates, loads permissions and persists the identity", func() {
			Expect(manager.Login(ctx, "ana@upca.edu", "secret")).To(Succeed())
			Expect(manager.State()).To(Equal(session.Authenticated))

			s, ok := manager.Current()
			Expect(ok).To(BeTrue())
			Expect(s.User).To(Equal(usuario))
			Expect(s.Permissions).To(Equal(incapacidadesCR))

			stored, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored).To(Equal(usuario))
			Expect(notifier.Last().Level).To(Equal(session.LevelSuccess))

			id, ok := manager.ActorID()
			Expect(ok).To(BeTrue())
			Expect(id).To(Equal("u-1"))
		})

		It("reports the same failure for unknown email and wrong password", func() {
			backend.loginErr = session.ErrInvalidCredential
			err := manager.Login(ctx, "nobody@upca.edu", "x")
			Expect(err).To(MatchError(session.ErrInvalidCredential))
			Expect(manager.State()).To(Equal(session.Anonymous))
			Expect(notifier.Last()).To(Equal(notification{session.LevelError, "Invalid email or password"}))

			stored, _ := store.Load()
			Expect(stored).To(BeNil())
		})

		It("surfaces backend failures distinctly", func() {
			backend.loginErr = session.ErrBackendUnavailable
			Expect(manager.Login(ctx, "ana@upca.edu", "secret")).To(MatchError(session.ErrBackendUnavailable))
			Expect(notifier.Last().Message).To(Equal("The service is unavailable, try again later"))
		})

		It("keeps the login when permissions fail to load", func() {
			backend.permsErr = session.ErrBackendUnavailable
			Expect(manager.Login(ctx, "ana@upca.edu", "secret")).To(Succeed())

			s, ok := manager.Current()
			Expect(ok).To(BeTrue())
			Expect(s.User.Role).To(Equal(access.RoleUser))
			Expect(s.Permissions).To(BeEmpty())
			Expect(notifier.All()).To(ContainElement(notification{session.LevelError, "Could not load your permissions"}))
		})

		It("rejects a second login while one is in flight", func() {
			backend.loginGate = make(chan struct{})
			first := make(chan error, 1)
			go func() { first <- manager.Login(ctx, "ana@upca.edu", "secret") }()

			Eventually(manager.State).Should(Equal(session.Authenticating))
			Expect(manager.Login(ctx, "ana@upca.edu", "secret")).To(MatchError(session.ErrLoginInProgress))

			close(backend.loginGate)
			Eventually(first).Should(Receive(BeNil()))
			Expect(manager.State()).To(Equal(session.Authenticated))
		})
	})

	Describe("Logout", func() {
		It("clears memory and storage and denies every screen", func() {
			Expect(manager.Login(ctx, "ana@upca.edu", "secret")).To(Succeed())
			Expect(manager.Logout(ctx)).To(Succeed())

			Expect(manager.State()).To(Equal(session.Anonymous))
			_, ok := manager.Current()
			Expect(ok).To(BeFalse())
			stored, _ := store.Load()
			Expect(stored).To(BeNil())
			Expect(backend.logoutCalls).To(Equal(1))

			Expect(session.GuardScreen(manager, "/incapacidades")).To(Equal(session.RedirectLogin))
			Expect(session.GuardScreen(manager, "/")).To(Equal(session.RedirectLogin))
		})

		It("is a no-op when already anonymous", func() {
			Expect(manager.Logout(ctx)).To(Succeed())
			Expect(manager.Logout(ctx)).To(Succeed())
			Expect(backend.logoutCalls).To(Equal(0))
			Expect(notifier.All()).To(BeEmpty())
		})
	})

	Describe("Restore", func() {
		It("does nothing without a stored session", func() {
			restored, done := manager.RestoreAndRefresh(ctx)
			Expect(restored).To(BeFalse())
			Eventually(done).Should(BeClosed())
			Expect(manager.State()).To(Equal(session.Anonymous))
		})

		It("rebuilds the identity synchronously and then loads permissions", func() {
			Expect(store.Save(usuario)).To(Succeed())

			restored, done := manager.RestoreAndRefresh(ctx)
			Expect(restored).To(BeTrue())
			Expect(manager.State()).To(Equal(session.Authenticated))

			Eventually(done).Should(Receive(BeNil()))
			Expect(manager.Can(access.Incapacidades, access.Create)).To(BeTrue())
			Expect(manager.Can(access.Incapacidades, access.Delete)).To(BeFalse())
		})

		It("keeps the role with empty permissions when the refresh fails", func() {
			Expect(store.Save(usuario)).To(Succeed())
			backend.setPermsErr(session.ErrBackendUnavailable)

			restored, done := manager.RestoreAndRefresh(ctx)
			Expect(restored).To(BeTrue())
			Eventually(done).Should(Receive(MatchError(session.ErrBackendUnavailable)))

			s, ok := manager.Current()
			Expect(ok).To(BeTrue())
			Expect(s.User.Role).To(Equal(access.RoleUser))
			Expect(s.Permissions).To(BeEmpty())
			Expect(session.GuardScreen(manager, "/")).To(Equal(session.Render))
			Expect(session.GuardScreen(manager, "/incapacidades")).To(Equal(session.AccessDenied))

			backend.setPermsErr(nil)
			Expect(manager.RefreshPermissions(ctx)).To(Succeed())
			Expect(session.GuardScreen(manager, "/incapacidades")).To(Equal(session.Render))
		})

		It("discards a marker without an identity", func() {
			store.Set(session.TokenKey, "authenticated")
			Expect(manager.Restore(ctx)).To(BeFalse())
		})

		It("discards a corrupt identity", func() {
			store.Set(session.TokenKey, "authenticated")
			store.Set(session.UserKey, `{"id":"u-1","email":"a@b.co","role":"Root"}`)
			Expect(manager.Restore(ctx)).To(BeFalse())
			stored, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeNil())
			Expect(notifier.Last()).To(Equal(notification{session.LevelError, "The saved session was unreadable, sign in again"}))
		})
	})
})
