package flickrbridge

import (
	"io"
	"net/http"

	"github.com/beevik/etree"
)

// WireRequest is the fully signed request handed to a Transport.
type WireRequest struct {
	Method string // GET or POST
	URL    string

	// Body and ContentType are set for POST requests only.
	Body        []byte
	ContentType string
}

// WireResponse is what a Transport returns. Body is streamed.
type WireResponse struct {
	StatusCode int
	Headers    http.Header
	Body       io.ReadCloser
}

// SignatureContext holds the state of one signing operation.
type SignatureContext struct {
	HTTPMethod string
	BaseURI    string
	Params     []Param // sorted, absent params removed

	// BaseString is the exact byte string hashed or checksummed.
	BaseString string
	Signature  string
}

// Status is the envelope status of an invocation.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "fail"
}

// InvocationResult is the outcome of Session.Invoke. Exactly one of Document
// and Raw is set on success; both are nil on failure.
type InvocationResult struct {
	Document *etree.Document
	Raw      []byte

	Status     Status
	Code       int
	Message    string
	HTTPStatus int
}

// Root returns the document's root element, or nil.
func (r *InvocationResult) Root() *etree.Element {
	if r == nil || r.Document == nil {
		return nil
	}
	return r.Document.Root()
}
