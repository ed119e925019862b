package report_test

import (
	"bytes"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/health-check/internal/endpoint"
	"github.com/angeloszaimis/health-check/internal/healthcheck"
	"github.com/angeloszaimis/health-check/internal/report"
)

var _ = Describe("Report", func() {
	var results []healthcheck.Result

	BeforeEach(func() {
		results = []healthcheck.Result{
			{
				Endpoint:         endpoint.MustNew("https://example.com", 200),
				Healthy:          true,
				ActualStatusCode: 200,
			},
			{
				Endpoint:         endpoint.MustNew("https://example.com/missing", 200),
				ActualStatusCode: 404,
			},
			{
				Endpoint: endpoint.MustNew("https://nonexistent.invalid", 200),
				Err:      &healthcheck.TransportError{URL: "https://nonexistent.invalid", Err: errors.New("no such host")},
			},
		}
	})

	Describe("ParseFormat", func() {
		It("should accept known formats case-insensitively", func() {
			f, err := report.ParseFormat("JSON")
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(report.FormatJSON))
		})

		It("should reject unknown formats", func() {
			_, err := report.ParseFormat("xml")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Build", func() {
		It("should keep one entry per result in order", func() {
			r := report.Build(results, nil)

			Expect(r.Completed).To(BeTrue())
			Expect(r.AllHealthy).To(BeFalse())
			Expect(r.Endpoints).To(HaveLen(3))
			Expect(r.Endpoints[0]).To(Equal(report.Entry{URL: "https://example.com", Healthy: true, Expected: 200, Actual: 200}))
			Expect(r.Endpoints[1].Actual).To(Equal(uint16(404)))
			Expect(r.Endpoints[1].Error).To(BeEmpty())
			Expect(r.Endpoints[2].Actual).To(Equal(uint16(0)))
			Expect(r.Endpoints[2].Error).To(Equal("no such host"))
		})

		It("should summarize the batch", func() {
			r := report.Build(results, []error{errors.New("invalid endpoint \"not a url\"")})

			Expect(r.Summary).To(Equal(report.Summary{
				Total:             3,
				Healthy:           1,
				Unhealthy:         2,
				TransportFailures: 1,
				Invalid:           1,
			}))
			Expect(r.Invalid).To(ConsistOf(`invalid endpoint "not a url"`))
		})

		It("should not be all healthy when descriptors were rejected", func() {
			r := report.Build(results[:1], []error{errors.New("bad")})

			Expect(r.Summary.Unhealthy).To(BeZero())
			Expect(r.AllHealthy).To(BeFalse())
		})
	})

	Describe("Write", func() {
		var buf *bytes.Buffer

		BeforeEach(func() {
			buf = &bytes.Buffer{}
		})

		It("should render one text line per endpoint and a summary", func() {
			Expect(report.Write(buf, report.Build(results, nil), report.FormatText)).To(Succeed())

			Expect(buf.String()).To(Equal(
				"endpoint: https://example.com, healthy: true, expected: 200, actual: 200\n" +
					"endpoint: https://example.com/missing, healthy: false, expected: 200, actual: 404\n" +
					"endpoint: https://nonexistent.invalid, healthy: false, expected: 200, actual: error: no such host\n" +
					"summary: 1/3 healthy, 1 unreachable\n"))
		})

		It("should list rejected descriptors in text output", func() {
			Expect(report.Write(buf, report.Build(nil, []error{errors.New("bad url")}), report.FormatText)).To(Succeed())

			Expect(buf.String()).To(ContainSubstring("invalid: bad url\n"))
			Expect(buf.String()).To(HaveSuffix("summary: 0/0 healthy, 1 invalid\n"))
		})

		It("should render JSON", func() {
			Expect(report.Write(buf, report.Build(results, nil), report.FormatJSON)).To(Succeed())

			var decoded report.Report
			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded.Completed).To(BeTrue())
			Expect(decoded.Endpoints).To(HaveLen(3))
			Expect(decoded.Endpoints[2].Error).To(Equal("no such host"))
		})

		It("should render YAML", func() {
			Expect(report.Write(buf, report.Build(results, nil), report.FormatYAML)).To(Succeed())

			var decoded report.Report
			Expect(yaml.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded.Summary.Total).To(Equal(3))
			Expect(decoded.Endpoints[1].Actual).To(Equal(uint16(404)))
		})

		It("should reject unknown formats", func() {
			Expect(report.Write(buf, report.Build(results, nil), report.Format("xml"))).NotTo(Succeed())
		})
	})
})
