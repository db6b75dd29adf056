package auth

import (
	"net/http"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("CSRFStore", func() {
	var store *CSRFStore

	ginkgo.BeforeEach(func() {
		store = NewCSRFStore(time.Hour)
	})

	ginkgo.It("should accept the token it issued for the same session", func() {
		token, err := store.Issue("session-a")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(token).To(gomega.HaveLen(64))

		gomega.Expect(store.Check("session-a", token)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject a token issued for a different session", func() {
		tokenA, err := store.Issue("session-a")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		_, err = store.Issue("session-b")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(store.Check("session-b", tokenA)).To(gomega.BeFalse())
	})

	ginkgo.It("should reject empty inputs", func() {
		token, _ := store.Issue("session-a")
		gomega.Expect(store.Check("", token)).To(gomega.BeFalse())
		gomega.Expect(store.Check("session-a", "")).To(gomega.BeFalse())
	})

	ginkgo.It("should replace the binding on re-issue", func() {
		first, _ := store.Issue("session-a")
		second, _ := store.Issue("session-a")

		gomega.Expect(store.Check("session-a", first)).To(gomega.BeFalse())
		gomega.Expect(store.Check("session-a", second)).To(gomega.BeTrue())
	})

	ginkgo.It("should reject after revocation", func() {
		token, _ := store.Issue("session-a")
		store.Revoke("session-a")
		gomega.Expect(store.Check("session-a", token)).To(gomega.BeFalse())
	})

	ginkgo.It("should reject an expired binding", func() {
		token, _ := store.Issue("session-a")

		store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		gomega.Expect(store.Check("session-a", token)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("mutatingMethod", func() {
	ginkgo.It("should classify the safe verbs as non-mutating", func() {
		for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace} {
			gomega.Expect(mutatingMethod(m)).To(gomega.BeFalse(), m)
		}
	})

	ginkgo.It("should classify the write verbs as mutating", func() {
		for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			gomega.Expect(mutatingMethod(m)).To(gomega.BeTrue(), m)
		}
	})
})
