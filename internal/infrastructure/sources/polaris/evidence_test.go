package polaris

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/srmbridge/internal/domain/finding"
	"github.com/felixgeelhaar/srmbridge/internal/domain/report"
	"github.com/felixgeelhaar/srmbridge/internal/testing/mocks"
)

const (
	reqURL  = "https://polaris.example/artifacts/req-1"
	respURL = "https://polaris.example/artifacts/resp-1"
)

func evidenceRecord(payload string) Record {
	return Record{
		Evidence: []Evidence{{
			Payload: payload,
			Links: []Link{
				{Rel: RelRequest, Method: "POST", Href: reqURL},
				{Rel: RelResponse, Href: respURL},
			},
		}},
	}
}

func TestEvidenceExtractor_Extract(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher().
		WithArtifact(reqURL, []byte("POST /login HTTP/1.1\r\nHost: app")).
		WithArtifact(respURL, []byte("HTTP/1.1 500 Internal Server Error\r\nServer: x\r\n\r\nboom"))

	e := NewEvidenceExtractor(fetcher)
	loc := finding.NewURLLocation("/login", "next=1")

	variants, diags := e.Extract(context.Background(), []Record{evidenceRecord("' OR 1=1")}, []finding.Location{loc})

	assert.True(t, diags.Empty())
	require.Len(t, variants, 1)
	require.Len(t, variants[0], 1)

	v := variants[0][0]
	require.NotNil(t, v.Request)
	assert.Equal(t, "POST", v.Request.Method)
	assert.Equal(t, "/login", v.Request.Path)
	assert.Equal(t, "next=1", v.Request.Query)
	assert.Equal(t, "POST /login HTTP/1.1\r\nHost: app", v.Request.Headers)
	assert.Equal(t, "JyBPUiAxPTE=", v.Request.Body.Content)
	assert.Equal(t, 8, v.Request.Body.OriginalLength)
	assert.Equal(t, 12, v.Request.Body.Length)
	assert.False(t, v.Request.Body.Truncated)

	require.NotNil(t, v.Response)
	assert.Equal(t, "500", v.Response.Code)
	assert.Equal(t, "HTTP/1.1 500 Internal Server Error\r\nServer: x", v.Response.Headers)
	raw, err := v.Response.Body.Decode()
	require.NoError(t, err)
	assert.Equal(t, "boom", string(raw))
	assert.Equal(t, 4, v.Response.Body.OriginalLength)
}

func TestEvidenceExtractor_Extract_RequestFetchFails(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher().
		WithError(reqURL, errors.New("status 403")).
		WithArtifact(respURL, []byte("HTTP/1.1 200 OK\n\nok"))

	variants, diags := NewEvidenceExtractor(fetcher).Extract(
		context.Background(),
		[]Record{evidenceRecord("x")},
		[]finding.Location{finding.NewURLLocation("/p", "")},
	)

	require.Len(t, variants[0], 1)
	v := variants[0][0]
	require.NotNil(t, v.Request)
	assert.Empty(t, v.Request.Headers)
	assert.Equal(t, "eA==", v.Request.Body.Content)
	require.NotNil(t, v.Response)
	assert.Equal(t, "200", v.Response.Code)

	failures := diags.FetchFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, RelRequest, failures[0].Relation)
	assert.Equal(t, reqURL, failures[0].URL)
}

func TestEvidenceExtractor_Extract_ResponseFetchFails(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher().
		WithArtifact(reqURL, []byte("GET / HTTP/1.1"))

	variants, diags := NewEvidenceExtractor(fetcher).Extract(
		context.Background(),
		[]Record{evidenceRecord("x")},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	require.Len(t, variants[0], 1)
	assert.NotNil(t, variants[0][0].Request)
	assert.Nil(t, variants[0][0].Response)

	failures := diags.FetchFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, RelResponse, failures[0].Relation)
}

func TestEvidenceExtractor_Extract_NilFetcher(t *testing.T) {
	variants, diags := NewEvidenceExtractor(nil).Extract(
		context.Background(),
		[]Record{evidenceRecord("x")},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	require.Len(t, variants[0], 1)
	assert.NotNil(t, variants[0][0].Request)
	assert.Nil(t, variants[0][0].Response)
	assert.Equal(t, 2, diags.Len())
	for _, f := range diags.FetchFailures() {
		assert.ErrorIs(t, f, ErrNoFetcher)
	}
}

func TestEvidenceExtractor_Extract_IgnoresOtherRelations(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher()
	rec := Record{Evidence: []Evidence{{
		Payload: "x",
		Links:   []Link{{Rel: "self", Href: "https://polaris.example/self"}},
	}}}

	variants, diags := NewEvidenceExtractor(fetcher).Extract(
		context.Background(),
		[]Record{rec},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	assert.True(t, diags.Empty())
	assert.Empty(t, variants[0])
	assert.Zero(t, fetcher.TotalCalls())
}

func TestEvidenceExtractor_Extract_FirstLinkWins(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher().
		WithArtifact("https://p/r1", []byte("first")).
		WithArtifact("https://p/r2", []byte("second"))
	rec := Record{Evidence: []Evidence{{Links: []Link{
		{Rel: RelRequest, Method: "GET", Href: "https://p/r1"},
		{Rel: RelRequest, Method: "PUT", Href: "https://p/r2"},
	}}}}

	variants, _ := NewEvidenceExtractor(fetcher).Extract(
		context.Background(),
		[]Record{rec},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	require.Len(t, variants[0], 1)
	assert.Equal(t, "GET", variants[0][0].Request.Method)
	assert.Equal(t, "first", variants[0][0].Request.Headers)
}

func TestEvidenceExtractor_Extract_MalformedStatusLine(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher().
		WithArtifact(reqURL, []byte("GET / HTTP/1.1")).
		WithArtifact(respURL, []byte("garbage"))

	variants, diags := NewEvidenceExtractor(fetcher).Extract(
		context.Background(),
		[]Record{evidenceRecord("x")},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	require.NotNil(t, variants[0][0].Response)
	assert.Empty(t, variants[0][0].Response.Code)
	assert.Equal(t, "garbage", variants[0][0].Response.Headers)

	require.Equal(t, 1, diags.Len())
	var fieldErr *report.FieldExtractionError
	require.ErrorAs(t, diags.Errors()[0], &fieldErr)
	assert.Equal(t, "evidence[0].response", fieldErr.Field)
}

func TestEvidenceExtractor_Extract_StableOrderUnderConcurrency(t *testing.T) {
	const n = 20
	fetcher := mocks.NewMockArtifactFetcher()
	fetcher.FetchFunc = func(ctx context.Context, url string) ([]byte, error) {
		// Later artifacts finish first.
		var idx int
		_, _ = fmt.Sscanf(url, "https://p/%d", &idx)
		time.Sleep(time.Duration(n-idx) * time.Millisecond)
		return []byte(url), nil
	}

	rec := Record{}
	for i := 0; i < n; i++ {
		rec.Evidence = append(rec.Evidence, Evidence{Links: []Link{
			{Rel: RelRequest, Method: "GET", Href: fmt.Sprintf("https://p/%d", i)},
		}})
	}

	var calls atomic.Int64
	e := NewEvidenceExtractor(fetcher, WithMaxFetches(8), WithProgress(func(completed, total int) {
		calls.Add(1)
		assert.Equal(t, n, total)
	}))

	variants, diags := e.Extract(context.Background(), []Record{rec}, []finding.Location{finding.NewURLLocation("/", "")})

	assert.True(t, diags.Empty())
	require.Len(t, variants[0], n)
	for i, v := range variants[0] {
		assert.Equal(t, fmt.Sprintf("https://p/%d", i), v.Request.Headers)
	}
	assert.Equal(t, int64(n), calls.Load())
}

func TestEvidenceExtractor_Extract_BoundedConcurrency(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	fetcher := mocks.NewMockArtifactFetcher()
	fetcher.FetchFunc = func(ctx context.Context, url string) ([]byte, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	}

	rec := Record{}
	for i := 0; i < 12; i++ {
		rec.Evidence = append(rec.Evidence, Evidence{Links: []Link{
			{Rel: RelResponse, Href: fmt.Sprintf("https://p/%d", i)},
		}})
	}

	_, _ = NewEvidenceExtractor(fetcher, WithMaxFetches(3)).Extract(
		context.Background(), []Record{rec}, []finding.Location{finding.NewURLLocation("/", "")})

	assert.LessOrEqual(t, peak, 3)
	assert.Equal(t, 12, fetcher.TotalCalls())
}

func TestEvidenceExtractor_Extract_FetchTimeout(t *testing.T) {
	fetcher := mocks.NewMockArtifactFetcher()
	fetcher.FetchFunc = func(ctx context.Context, url string) ([]byte, error) {
		if url == reqURL {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []byte("HTTP/1.1 204 No Content"), nil
	}

	variants, diags := NewEvidenceExtractor(fetcher, WithFetchTimeout(10*time.Millisecond)).Extract(
		context.Background(),
		[]Record{evidenceRecord("x")},
		[]finding.Location{finding.NewURLLocation("/", "")},
	)

	failures := diags.FetchFailures()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], context.DeadlineExceeded)
	require.NotNil(t, variants[0][0].Response)
	assert.Equal(t, "204", variants[0][0].Response.Code)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		head string
		body string
	}{
		{"crlf", "HTTP/1.1 200 OK\r\nA: b\r\n\r\nbody", "HTTP/1.1 200 OK\r\nA: b", "body"},
		{"lf", "HTTP/1.1 200 OK\nA: b\n\nbody", "HTTP/1.1 200 OK\nA: b", "body"},
		{"lf before crlf", "HTTP/1.1 200 OK\n\nbody\r\n\r\nmore", "HTTP/1.1 200 OK", "body\r\n\r\nmore"},
		{"no blank line", "HTTP/1.1 200 OK\r\nA: b", "HTTP/1.1 200 OK\r\nA: b", ""},
		{"empty body", "HTTP/1.1 204 No Content\r\n\r\n", "HTTP/1.1 204 No Content", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, body := splitMessage([]byte(tt.raw))
			assert.Equal(t, tt.head, string(head))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestParseResponse_InvalidUTF8Headers(t *testing.T) {
	resp, err := parseResponse([]byte("HTTP/1.1 200 OK\r\nX: \xff\r\n\r\n\xff"))

	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nX: \uFFFD", resp.Headers)
	assert.Equal(t, 1, resp.Body.OriginalLength)
}
