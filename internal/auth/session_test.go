package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

var _ = ginkgo.Describe("LegacyCodec", func() {
	var codec *LegacyCodec

	ginkgo.BeforeEach(func() {
		codec = NewLegacyCodec()
	})

	ginkgo.It("should round-trip the identity triple", func() {
		token, err := codec.Issue("user-1", "admin@alhamla.org", "ADMIN")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		identity, err := codec.Validate(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(identity.UserID).To(gomega.Equal("user-1"))
		gomega.Expect(identity.Email).To(gomega.Equal("admin@alhamla.org"))
		gomega.Expect(identity.RoleName).To(gomega.Equal("ADMIN"))
	})

	ginkgo.It("should use the legacy JSON field names on the wire", func() {
		token, err := codec.Issue("user-1", "admin@alhamla.org", "ADMIN")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		raw, err := base64.StdEncoding.DecodeString(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(string(raw)).To(gomega.ContainSubstring(`"userId"`))
		gomega.Expect(string(raw)).To(gomega.ContainSubstring(`"role"`))
	})

	ginkgo.It("should reject tokens that are not base64", func() {
		_, err := codec.Validate("%%%not-base64%%%")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should reject base64 that is not the expected JSON shape", func() {
		token := base64.StdEncoding.EncodeToString([]byte("not json"))
		_, err := codec.Validate(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should reject a payload missing the user id", func() {
		token := base64.StdEncoding.EncodeToString([]byte(`{"email":"a@b.c","role":"USER"}`))
		_, err := codec.Validate(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})
})

var _ = ginkgo.Describe("SignedCodec", func() {
	const secret = "0123456789abcdef0123456789abcdef"

	var codec *SignedCodec

	ginkgo.BeforeEach(func() {
		var err error
		codec, err = NewSignedCodec(secret, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should refuse a secret shorter than 32 bytes", func() {
		_, err := NewSignedCodec("short", time.Hour)
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should round-trip the identity triple", func() {
		token, err := codec.Issue("user-2", "member@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		identity, err := codec.Validate(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(identity.UserID).To(gomega.Equal("user-2"))
		gomega.Expect(identity.RoleName).To(gomega.Equal("USER"))
	})

	ginkgo.It("should reject a tampered token", func() {
		token, err := codec.Issue("user-2", "member@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		tampered := token[:len(token)-2] + "xx"
		_, err = codec.Validate(tampered)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should reject a token signed with a different secret", func() {
		other, err := NewSignedCodec("ffffffffffffffffffffffffffffffff", time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		token, err := other.Issue("user-2", "member@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Validate(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})

	ginkgo.It("should reject an expired token as expired, not merely invalid", func() {
		past := time.Now().Add(-time.Hour)
		claims := &SessionClaims{
			UserID: "user-2",
			Email:  "member@alhamla.org",
			Role:   "USER",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-2",
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Validate(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
	})
})

var _ = ginkgo.Describe("MigratingCodec", func() {
	const secret = "0123456789abcdef0123456789abcdef"

	var codec *MigratingCodec

	ginkgo.BeforeEach(func() {
		signed, err := NewSignedCodec(secret, time.Hour)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		codec = NewMigratingCodec(signed)
	})

	ginkgo.It("should issue signed tokens", func() {
		token, err := codec.Issue("user-3", "x@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		// three JWT segments
		gomega.Expect(token).To(gomega.MatchRegexp(`^[^.]+\.[^.]+\.[^.]+$`))
	})

	ginkgo.It("should still accept a legacy cookie", func() {
		legacy, err := NewLegacyCodec().Issue("user-3", "x@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		identity, err := codec.Validate(legacy)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(identity.UserID).To(gomega.Equal("user-3"))
	})

	ginkgo.It("should not fall back to legacy decoding for a bad signed token", func() {
		token, err := codec.Issue("user-3", "x@alhamla.org", "USER")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = codec.Validate(token[:len(token)-2] + "xx")
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})
