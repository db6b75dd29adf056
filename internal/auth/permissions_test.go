package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ParsePermissions", func() {
	ginkgo.It("should parse a JSON array", func() {
		set, err := ParsePermissions(`["users.read","posts.create"]`)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(set.List()).To(gomega.Equal([]string{"posts.create", "users.read"}))
	})

	ginkgo.It("should parse a comma-delimited legacy value to the same set", func() {
		fromJSON, err := ParsePermissions(`["users.read","posts.create"]`)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		fromCSV, err := ParsePermissions("users.read, posts.create")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(fromCSV).To(gomega.Equal(fromJSON))
	})

	ginkgo.It("should trim, drop empties, and de-duplicate", func() {
		set, err := ParsePermissions(" users.read ,, users.read , ")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(set.List()).To(gomega.Equal([]string{"users.read"}))
	})

	ginkgo.It("should yield an empty set for an empty value", func() {
		set, err := ParsePermissions("")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(set).To(gomega.BeEmpty())
	})

	ginkgo.It("should fail closed on malformed JSON", func() {
		set, err := ParsePermissions(`["unterminated`)
		gomega.Expect(err).To(gomega.MatchError(ErrMalformedPermissionData))
		gomega.Expect(set).To(gomega.BeEmpty())
		gomega.Expect(set.Has("users.read")).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("PermissionSet", func() {
	ginkgo.It("should deny everything when empty", func() {
		set := PermissionSet{}
		gomega.Expect(set.Has("users.read")).To(gomega.BeFalse())
		gomega.Expect(set.HasAny([]string{"users.read", "posts.read"})).To(gomega.BeFalse())
		gomega.Expect(set.HasAll([]string{"users.read"})).To(gomega.BeFalse())
	})

	ginkgo.It("should deny an empty permission string", func() {
		set := NormalizePermissions([]string{"users.read"})
		gomega.Expect(set.Has("")).To(gomega.BeFalse())
	})

	ginkgo.It("should grant everything through the wildcard", func() {
		set := NormalizePermissions([]string{PermissionWildcard})
		gomega.Expect(set.Has("users.read")).To(gomega.BeTrue())
		gomega.Expect(set.HasAll([]string{"roles.delete", "activity_logs.read"})).To(gomega.BeTrue())
	})

	ginkgo.It("should preserve unknown strings without matching anything else", func() {
		set := NormalizePermissions([]string{"not.a.known.permission"})
		gomega.Expect(set.Has("not.a.known.permission")).To(gomega.BeTrue())
		gomega.Expect(set.Has("users.read")).To(gomega.BeFalse())
	})

	ginkgo.It("should marshal to a sorted JSON array", func() {
		set := NormalizePermissions([]string{"b.x", "a.y"})
		gomega.Expect(set.Marshal()).To(gomega.Equal(`["a.y","b.x"]`))
	})
})

var _ = ginkgo.Describe("Requirement", func() {
	set := NormalizePermissions([]string{"users.read", "posts.read"})

	ginkgo.It("should evaluate a single permission", func() {
		gomega.Expect(Permit("users.read").SatisfiedBy(set)).To(gomega.BeTrue())
		gomega.Expect(Permit("users.create").SatisfiedBy(set)).To(gomega.BeFalse())
	})

	ginkgo.It("should evaluate any-of", func() {
		gomega.Expect(AnyOf("users.create", "posts.read").SatisfiedBy(set)).To(gomega.BeTrue())
		gomega.Expect(AnyOf("users.create", "roles.read").SatisfiedBy(set)).To(gomega.BeFalse())
	})

	ginkgo.It("should evaluate all-of", func() {
		gomega.Expect(AllOf("users.read", "posts.read").SatisfiedBy(set)).To(gomega.BeTrue())
		gomega.Expect(AllOf("users.read", "roles.read").SatisfiedBy(set)).To(gomega.BeFalse())
	})

	ginkgo.It("should deny an empty requirement", func() {
		gomega.Expect(AnyOf().SatisfiedBy(set)).To(gomega.BeFalse())
		gomega.Expect(AllOf().SatisfiedBy(set)).To(gomega.BeFalse())
	})
})
