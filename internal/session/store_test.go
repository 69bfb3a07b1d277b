package session_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
)

var _ = Describe("FileStore", func() {
	var (
		path  string
		store *session.FileStore
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "upca", "session.json")
		store = session.NewFileStore(path)
	})

	It("returns nothing before the first save", func() {
		u, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(u).To(BeNil())
	})

	It("round trips the identity under two keys", func() {
		u := session.User{ID: "u-1", Email: "ana@upca.edu", Role: access.RoleAdmin}
		Expect(store.Save(u)).To(Succeed())

		raw, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"upca_token"`))
		Expect(string(raw)).To(ContainSubstring(`"upca_user"`))
		Expect(string(raw)).To(ContainSubstring("authenticated"))

		loaded, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(*loaded).To(Equal(u))
	})

	It("clears idempotently", func() {
		Expect(store.Save(session.User{ID: "u-1", Email: "a@b.co", Role: access.RoleUser})).To(Succeed())
		Expect(store.Clear()).To(Succeed())
		Expect(store.Clear()).To(Succeed())
		u, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(u).To(BeNil())
	})
})
