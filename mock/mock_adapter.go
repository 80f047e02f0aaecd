package mock

import (
	"bytes"
	"context"
	"io"
	"net/http"

	flickrbridge "github.com/opengovern/flickr-bridge"
)

// Canned envelopes.
const (
	OKBody = `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="ok">
<method>flickr.test.echo</method>
</rsp>`

	NotFoundBody = `<?xml version="1.0" encoding="utf-8" ?>
<rsp stat="fail">
	<err code="1" msg="Not found" />
</rsp>`
)

// Response is one canned reply of a MockTransport.
type Response struct {
	StatusCode int // 200 when zero
	Headers    http.Header
	Body       string
	Err        error
}

// MockTransport replays Responses in order and records every request. When
// the queue runs dry it answers with OKBody.
type MockTransport struct {
	Responses []Response
	Requests  []*flickrbridge.WireRequest

	// ChunkSize, when > 0, makes the body return at most that many bytes
	// per Read.
	ChunkSize int

	Closed bool
}

func (m *MockTransport) Do(ctx context.Context, req *flickrbridge.WireRequest) (*flickrbridge.WireResponse, error) {
	m.Requests = append(m.Requests, req)

	resp := Response{Body: OKBody}
	if len(m.Responses) > 0 {
		resp = m.Responses[0]
		m.Responses = m.Responses[1:]
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	if resp.Headers == nil {
		resp.Headers = http.Header{}
	}

	var body io.Reader = bytes.NewBufferString(resp.Body)
	if m.ChunkSize > 0 {
		body = &chunkReader{r: body, n: m.ChunkSize}
	}
	return &flickrbridge.WireResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       io.NopCloser(body),
	}, nil
}

// LastRequest returns the most recent request, or nil.
func (m *MockTransport) LastRequest() *flickrbridge.WireRequest {
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

func (m *MockTransport) Close() error {
	m.Closed = true
	return nil
}

type chunkReader struct {
	r io.Reader
	n int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(p) > c.n {
		p = p[:c.n]
	}
	return c.r.Read(p)
}
