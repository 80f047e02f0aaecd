package flickrbridge

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

// RequestExecutor paces a built request through the RateLimiter, sends it
// through the Transport and decodes the reply. Nothing is retried.
type RequestExecutor struct {
	session *Session
}

func NewRequestExecutor(session *Session) *RequestExecutor {
	return &RequestExecutor{session: session}
}

// Execute runs one exchange. raw selects buffering the body instead of
// parsing it as an XML envelope.
func (re *RequestExecutor) Execute(ctx context.Context, req *WireRequest, raw bool) (*InvocationResult, *Error) {
	s := re.session
	scheme := s.signer.Scheme()

	waited, err := s.rateLimiter.AwaitNextSlot(ctx)
	pacingWait.Observe(waited.Seconds())
	if err != nil {
		return nil, newError(KindTransportFailure, "waiting for request slot", err)
	}
	if waited > 0 {
		s.debugf("waited %v for the next request slot", waited)
	}

	start := time.Now()
	s.debugf("sending %s request (raw=%t)", req.Method, raw)
	resp, err := s.transport.Do(ctx, req)
	if err != nil {
		recordRequest(scheme, "transport_error", time.Since(start).Seconds())
		return nil, newError(KindTransportFailure, "", errors.Wrap(err, req.Method+" request failed"))
	}
	defer resp.Body.Close()
	s.lastStatus = resp.StatusCode

	if !isSuccessStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		recordRequest(scheme, "http_error", time.Since(start).Seconds())
		return nil, statusFailure(resp)
	}

	res := &InvocationResult{Status: StatusOK, HTTPStatus: resp.StatusCode}
	if raw {
		data, e := readRaw(resp.Body)
		if e != nil {
			recordRequest(scheme, "transport_error", time.Since(start).Seconds())
			e.HTTPStatus = resp.StatusCode
			return nil, e
		}
		res.Raw = data
	} else {
		doc, e := decodeEnvelope(resp.Body, resp.Headers)
		if e != nil {
			recordRequest(scheme, e.Kind.String(), time.Since(start).Seconds())
			e.HTTPStatus = resp.StatusCode
			return nil, e
		}
		res.Document = doc
	}

	recordRequest(scheme, "ok", time.Since(start).Seconds())
	s.debugf("request succeeded in %v", time.Since(start))
	return res, nil
}
