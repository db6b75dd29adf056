package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Logger Suite")
}

var _ = ginkgo.Describe("parseLevel", func() {
	ginkgo.It("should accept the usual spellings", func() {
		for in, want := range map[string]slog.Level{
			"debug":    slog.LevelDebug,
			"INFO":     slog.LevelInfo,
			" warn ":   slog.LevelWarn,
			"warning":  slog.LevelWarn,
			"error":    slog.LevelError,
		} {
			got, ok := parseLevel(in)
			gomega.Expect(ok).To(gomega.BeTrue(), in)
			gomega.Expect(got).To(gomega.Equal(want), in)
		}
	})

	ginkgo.It("should reject unknown values", func() {
		_, ok := parseLevel("verbose")
		gomega.Expect(ok).To(gomega.BeFalse())
		_, ok = parseLevel("")
		gomega.Expect(ok).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("From", func() {
	ginkgo.It("should fall back to the process logger on a bare context", func() {
		gomega.Expect(From(context.Background())).ToNot(gomega.BeNil())
	})

	ginkgo.It("should return the logger attached by With", func() {
		ctx := With(context.Background(), "traceID", "t-1")
		gomega.Expect(From(ctx)).ToNot(gomega.BeIdenticalTo(LoggerWrapper()))
	})
})
