package polaris

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
)

// ErrNoFetcher is reported for every artifact when no fetcher is configured.
var ErrNoFetcher = errors.New("no artifact fetcher configured")

// ProgressFunc is called after each artifact fetch completes.
type ProgressFunc func(completed, total int)

// EvidenceExtractor resolves the request/response artifacts of DAST
// evidence into variants. Fetches run concurrently; results keep source order.
type EvidenceExtractor struct {
	fetcher      ports.ArtifactFetcher
	maxFetches   int
	fetchTimeout time.Duration
	progress     ProgressFunc
}

// ExtractorOption is a functional option for EvidenceExtractor.
type ExtractorOption func(*EvidenceExtractor)

// WithMaxFetches sets the maximum number of concurrent fetches.
func WithMaxFetches(n int) ExtractorOption {
	return func(e *EvidenceExtractor) {
		if n > 0 {
			e.maxFetches = n
		}
	}
}

// WithFetchTimeout bounds each individual fetch.
func WithFetchTimeout(d time.Duration) ExtractorOption {
	return func(e *EvidenceExtractor) {
		if d > 0 {
			e.fetchTimeout = d
		}
	}
}

// WithProgress sets a progress callback.
func WithProgress(fn ProgressFunc) ExtractorOption {
	return func(e *EvidenceExtractor) { e.progress = fn }
}

// NewEvidenceExtractor creates an extractor. fetcher may be nil, in which
// case every artifact is reported unavailable.
func NewEvidenceExtractor(fetcher ports.ArtifactFetcher, opts ...ExtractorOption) *EvidenceExtractor {
	e := &EvidenceExtractor{
		fetcher:      fetcher,
		maxFetches:   ports.DefaultFetchConcurrency,
		fetchTimeout: ports.DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// fetchJob is one artifact to retrieve. data and err are written by exactly
// one goroutine.
type fetchJob struct {
	record   int
	evidence int
	link     Link
	data     []byte
	err      error
}

// Extract builds the variants of every record. locs holds the resolved
// location of each record, index aligned with recs. The returned slice is
// index aligned with recs as well; evidence that yields neither a request
// nor a response produces no variant. Failed fetches never abort the run; each
// is reported as a *report.ArtifactFetchError.
func (e *EvidenceExtractor) Extract(ctx context.Context, recs []Record, locs []finding.Location) ([][]finding.Variant, report.Diagnostics) {
	// jobs[r][ev] lists the artifact fetches of one evidence entry in link order.
	jobs := make([][][]*fetchJob, len(recs))
	var all []*fetchJob
	for r, rec := range recs {
		jobs[r] = make([][]*fetchJob, len(rec.Evidence))
		for ev, evidence := range rec.Evidence {
			for _, link := range evidence.Links {
				if link.Rel != RelRequest && link.Rel != RelResponse {
					continue
				}
				job := &fetchJob{record: rec.Index, evidence: ev, link: link}
				jobs[r][ev] = append(jobs[r][ev], job)
				all = append(all, job)
			}
		}
	}

	e.fetchAll(ctx, all)

	var diags report.Diagnostics
	variants := make([][]finding.Variant, len(recs))
	for r, rec := range recs {
		for ev, evidence := range rec.Evidence {
			v, errs := buildVariant(rec.Index, evidence, locs[r], jobs[r][ev])
			for _, err := range errs {
				diags.Add(err)
			}
			if !v.IsEmpty() {
				variants[r] = append(variants[r], v)
			}
		}
	}
	return variants, diags
}

// fetchAll runs the fetches with bounded concurrency. The group never
// cancels: a failed fetch is recorded on its job.
func (e *EvidenceExtractor) fetchAll(ctx context.Context, jobs []*fetchJob) {
	if len(jobs) == 0 {
		return
	}

	var completed atomic.Int64
	total := len(jobs)

	var g errgroup.Group
	g.SetLimit(e.maxFetches)
	for _, job := range jobs {
		g.Go(func() error {
			job.data, job.err = e.fetch(ctx, job.link.Href)
			if e.progress != nil {
				e.progress(int(completed.Add(1)), total)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (e *EvidenceExtractor) fetch(ctx context.Context, href string) ([]byte, error) {
	if e.fetcher == nil {
		return nil, ErrNoFetcher
	}
	if href == "" {
		return nil, errors.New("link has no href")
	}
	ctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()
	return e.fetcher.FetchArtifact(ctx, href)
}

// buildVariant assembles one variant from the fetched artifacts. The first
// link of each relation wins. A request whose headers could not be fetched
// keeps its in-hand body; a response that could not be fetched is omitted.
func buildVariant(record int, ev Evidence, loc finding.Location, jobs []*fetchJob) (finding.Variant, []error) {
	var v finding.Variant
	var errs []error

	fetchErr := func(job *fetchJob, err error) error {
		return &report.ArtifactFetchError{
			Record:   record,
			Evidence: job.evidence,
			Relation: job.link.Rel,
			URL:      job.link.Href,
			Err:      err,
		}
	}

	for _, job := range jobs {
		switch job.link.Rel {
		case RelRequest:
			if v.Request != nil {
				continue
			}
			req := &finding.Request{
				Method: job.link.Method,
				Path:   loc.Path(),
				Query:  loc.Query(),
				Body:   finding.NewBody([]byte(ev.Payload)),
			}
			if job.err != nil {
				errs = append(errs, fetchErr(job, job.err))
			} else {
				req.Headers = artifactText(job.data)
			}
			v.Request = req

		case RelResponse:
			if v.Response != nil {
				continue
			}
			if job.err != nil {
				errs = append(errs, fetchErr(job, job.err))
				continue
			}
			resp, err := parseResponse(job.data)
			if err != nil {
				errs = append(errs, &report.FieldExtractionError{
					Record: record,
					Field:  fmt.Sprintf("evidence[%d].response", job.evidence),
					Err:    err,
				})
			}
			v.Response = resp
		}
	}
	return v, errs
}

// parseResponse splits a raw HTTP response at the first blank line. The
// status code is the second token of the first line; when it is missing the
// response is still returned, without a code, together with an error.
func parseResponse(raw []byte) (*finding.Response, error) {
	head, body := splitMessage(raw)
	headers := artifactText(head)

	resp := &finding.Response{
		Headers: headers,
		Body:    finding.NewBody(body),
	}

	statusLine, _, _ := strings.Cut(headers, "\n")
	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		return resp, fmt.Errorf("malformed status line %q", strings.TrimSpace(statusLine))
	}
	resp.Code = fields[1]
	return resp, nil
}

// splitMessage separates the header block from the body at whichever of
// CRLF CRLF or LF LF comes first. Without a blank line everything is header.
func splitMessage(raw []byte) (head, body []byte) {
	crlf := bytes.Index(raw, []byte("\r\n\r\n"))
	lf := bytes.Index(raw, []byte("\n\n"))

	switch {
	case crlf >= 0 && (lf < 0 || crlf < lf):
		return raw[:crlf], raw[crlf+4:]
	case lf >= 0:
		return raw[:lf], raw[lf+2:]
	default:
		return raw, nil
	}
}

// artifactText renders artifact bytes as UTF-8 text, replacing invalid sequences.
func artifactText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
