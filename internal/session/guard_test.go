package session_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/upca/personnel-console/internal/core/access"
	"github.com/upca/personnel-console/internal/session"
)

type staticSource struct {
	s  session.Session
	ok bool
}

func (s staticSource) Current() (session.Session, bool) { return s.s, s.ok }

var _ = Describe("Guard", func() {
	admin := staticSource{ok: true, s: session.Session{User: session.User{ID: "a", Role: access.RoleAdmin}}}
	usuario := staticSource{ok: true, s: session.Session{
		User: session.User{ID: "u", Role: access.RoleUser},
		Permissions: []access.Record{
			{Module: access.Enfermeria, Grants: access.Grants{Read: true}},
		},
	}}

	DescribeTable("screen decisions",
		func(src staticSource, path string, want session.Decision) {
			Expect(session.GuardScreen(src, path)).To(Equal(want))
		},
		Entry("anonymous is sent to login", staticSource{}, "/enfermeria", session.RedirectLogin),
		Entry("admin sees users", admin, "/usuarios", session.Render),
		Entry("admin sees configuration", admin, "/configuracion", session.Render),
		Entry("usuario always sees the dashboard", usuario, "/", session.Render),
		Entry("usuario with read sees its module", usuario, "/enfermeria", session.Render),
		Entry("usuario without a record is denied", usuario, "/novedades", session.AccessDenied),
		Entry("usuario never sees users", usuario, "/usuarios", session.AccessDenied),
		Entry("unknown paths fall back to the dashboard", usuario, "/nope", session.Render),
	)

	It("evaluates against the latest permissions", func() {
		src := usuario
		Expect(session.Guard(src, session.Requirement{Module: access.Enfermeria, Action: access.Update})).To(Equal(session.AccessDenied))
		src.s.Permissions = []access.Record{{Module: access.Enfermeria, Grants: access.Grants{Read: true, Update: true}}}
		Expect(session.Guard(src, session.Requirement{Module: access.Enfermeria, Action: access.Update})).To(Equal(session.Render))
	})
})
