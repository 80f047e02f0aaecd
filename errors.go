// errors.go
// ---------
// Error taxonomy for the signing and invocation pipeline. Every failure the
// Session produces is an *Error carrying a Kind; protocol failures also carry
// the numeric code and message Flickr returned. The same values are mirrored
// in the Session's failure latch.
package flickrbridge

import (
	"fmt"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindMissingMethod
	KindMissingCredential
	KindSignatureComputationFailed
	KindTransportFailure
	KindMalformedResponse
	KindProtocolFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingMethod:
		return "missing_method"
	case KindMissingCredential:
		return "missing_credential"
	case KindSignatureComputationFailed:
		return "signature_failed"
	case KindTransportFailure:
		return "transport_failure"
	case KindMalformedResponse:
		return "malformed_response"
	case KindProtocolFailure:
		return "protocol_failure"
	default:
		return "internal"
	}
}

// Error is the single error type returned by Session operations.
type Error struct {
	Kind ErrorKind

	// Code and Message come from the response envelope or the
	// X-FlickrErrCode / X-FlickrErrMessage headers.
	Code    int
	Message string

	// HTTPStatus is zero when no response was received.
	HTTPStatus int

	Err error
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrInternal                   = &Error{Kind: KindInternal}
	ErrMissingMethod              = &Error{Kind: KindMissingMethod}
	ErrMissingCredential          = &Error{Kind: KindMissingCredential}
	ErrSignatureComputationFailed = &Error{Kind: KindSignatureComputationFailed}
	ErrTransportFailure           = &Error{Kind: KindTransportFailure}
	ErrMalformedResponse          = &Error{Kind: KindMalformedResponse}
	ErrProtocolFailure            = &Error{Kind: KindProtocolFailure}
)

func (e *Error) Error() string {
	switch {
	case e.Kind == KindProtocolFailure:
		return fmt.Sprintf("flickr error code %d: %s", e.Code, e.Message)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
