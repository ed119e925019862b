package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/health-check/pkg/logger"
)

var _ = Describe("Logger", func() {
	var (
		buf *bytes.Buffer
		ctx context.Context
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		ctx = context.Background()
	})

	Describe("New", func() {
		It("should default to info for invalid level", func() {
			log := logger.New(buf, "invalid", false, "dev")

			Expect(log.Enabled(ctx, slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(ctx, slog.LevelDebug)).To(BeFalse())
		})

		It("should respect debug level", func() {
			log := logger.New(buf, "debug", false, "dev")

			Expect(log.Enabled(ctx, slog.LevelDebug)).To(BeTrue())
			Expect(log.Enabled(ctx, slog.LevelInfo)).To(BeTrue())
		})

		It("should respect warn level", func() {
			log := logger.New(buf, "warn", false, "dev")

			Expect(log.Enabled(ctx, slog.LevelInfo)).To(BeFalse())
			Expect(log.Enabled(ctx, slog.LevelWarn)).To(BeTrue())
		})

		It("should respect error level", func() {
			log := logger.New(buf, "ERROR", false, "dev")

			Expect(log.Enabled(ctx, slog.LevelWarn)).To(BeFalse())
			Expect(log.Enabled(ctx, slog.LevelError)).To(BeTrue())
		})

		It("should write text records outside prod", func() {
			log := logger.New(buf, "info", false, "dev")
			log.Info("Endpoint healthy", slog.String("url", "https://example.com"))

			Expect(buf.String()).To(ContainSubstring("msg=\"Endpoint healthy\""))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
			Expect(buf.String()).To(ContainSubstring("url=https://example.com"))
		})

		It("should write JSON records in prod", func() {
			log := logger.New(buf, "info", false, "prod")
			log.Info("Endpoint healthy")

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record).To(HaveKeyWithValue("msg", "Endpoint healthy"))
			Expect(record).To(HaveKeyWithValue("environment", "prod"))
		})

		It("should support addSource option", func() {
			log := logger.New(buf, "info", true, "prod")
			log.Info("with source")

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record).To(HaveKey("source"))
		})
	})
})
