// sdk.go
// ------
// The sdk.go file contains the Session type, the long-lived handle callers
// create once and reuse for every API call. This is the main entry point of
// the library.
//
// Every call follows the same sequence:
//   - Begin(isWrite) resets the parameters and the failure latch
//   - Add / AddOptional / AddList append call parameters
//   - Finish seals the parameter list
//   - BuildAndSign(method) appends credentials, signs and serialises
//   - Invoke(ctx) paces, sends and decodes the response envelope
//
// A Session is not safe for concurrent use; callers sharing one must
// serialise their calls.
package flickrbridge

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type Session struct {
	cfg         *Config
	creds       Credentials
	signer      Signer
	transport   Transport
	rateLimiter *RateLimiter
	executor    *RequestExecutor
	clock       Clock
	logger      logrus.FieldLogger

	// per-call state, reset by Begin
	params   *ParameterSet
	isWrite  bool
	buildErr *Error
	request  *WireRequest
	sigCtx   *SignatureContext

	// failure latch
	failed     bool
	lastErr    *Error
	lastStatus int

	errorHandler func(*Error)

	Debug bool // If true, log debug info
}

// Option customises a Session at construction.
type Option func(*Session)

// WithClock replaces the wall clock used for pacing and OAuth timestamps.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger replaces the default logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession validates cfg and returns a Session sending through transport.
// The signer is chosen from cfg.Credentials.
func NewSession(cfg *Config, transport Transport, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, newError(KindInternal, "transport is required", nil)
	}

	s := &Session{
		cfg:       cfg,
		creds:     cfg.Credentials,
		transport: transport,
		clock:     systemClock{},
		params:    NewParameterSet(),
		Debug:     cfg.Debug,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		l := logrus.New()
		if cfg.Debug {
			l.SetLevel(logrus.DebugLevel)
		}
		s.logger = l
	}

	s.signer = newSigner(s.creds, cfg, s.clock)
	s.rateLimiter = NewRateLimiter(cfg.RequestDelay, cfg.HourlyQuota, s.clock)
	s.executor = NewRequestExecutor(s)

	s.debugf("session created (scheme=%s, delay=%v)", s.signer.Scheme(), cfg.RequestDelay)
	return s, nil
}

// SetDebug enables or disables debug logging for the Session.
func (s *Session) SetDebug(enabled bool) {
	s.Debug = enabled
}

// SetCredentials replaces the credentials and reselects the signer.
func (s *Session) SetCredentials(creds Credentials) {
	s.creds = creds
	s.signer = newSigner(creds, s.cfg, s.clock)
	s.debugf("credentials replaced (scheme=%s)", s.signer.Scheme())
}

// Credentials returns the active credentials.
func (s *Session) Credentials() Credentials {
	return s.creds
}

// Signer returns the signer selected for this Session.
func (s *Session) Signer() Signer {
	return s.signer
}

// SetErrorHandler registers fn to be called with every latched failure.
func (s *Session) SetErrorHandler(fn func(*Error)) {
	s.errorHandler = fn
}

// SetRequestDelay changes the minimum delay between request starts.
func (s *Session) SetRequestDelay(d time.Duration) {
	s.cfg.RequestDelay = d
	s.rateLimiter.SetMinDelay(d)
}

// RateLimitInfo returns the pacing state of this Session.
func (s *Session) RateLimitInfo() RateLimitInfo {
	return s.rateLimiter.Info()
}

// Failed reports whether the current call has failed.
func (s *Session) Failed() bool {
	return s.failed
}

// LastError returns the latched failure of the current call, or nil.
func (s *Session) LastError() *Error {
	return s.lastErr
}

// LastHTTPStatus returns the HTTP status of the last response, 0 if none.
func (s *Session) LastHTTPStatus() int {
	return s.lastStatus
}

// Request returns the request built by BuildAndSign, or nil.
func (s *Session) Request() *WireRequest {
	return s.request
}

// SignatureContext returns the canonical string and signature of the last
// build, or nil.
func (s *Session) SignatureContext() *SignatureContext {
	return s.sigCtx
}

// Call runs the whole begin/add/finish/build/invoke sequence for one method.
func (s *Session) Call(ctx context.Context, method string, isWrite bool, params ...Param) (*InvocationResult, error) {
	s.Begin(isWrite)
	for _, p := range params {
		if p.Absent {
			s.AddOptional(p.Key, "")
		} else {
			s.Add(p.Key, p.Value)
		}
	}
	s.Finish()
	if err := s.BuildAndSign(method); err != nil {
		return nil, err
	}
	return s.Invoke(ctx)
}

// Invoke sends the built request and decodes the XML envelope.
func (s *Session) Invoke(ctx context.Context) (*InvocationResult, error) {
	return s.invoke(ctx, false)
}

// InvokeRaw sends the built request and returns the body unparsed, for
// replies that are not XML.
func (s *Session) InvokeRaw(ctx context.Context) ([]byte, error) {
	res, err := s.invoke(ctx, true)
	if err != nil {
		return nil, err
	}
	return res.Raw, nil
}

func (s *Session) invoke(ctx context.Context, raw bool) (*InvocationResult, error) {
	if s.failed {
		return nil, s.lastErr
	}
	if s.request == nil {
		return nil, s.fail(newError(KindInternal, "invoke called before BuildAndSign", nil))
	}
	res, e := s.executor.Execute(ctx, s.request, raw)
	if e != nil {
		return nil, s.fail(e)
	}
	return res, nil
}

// Close releases the transport's idle connections.
func (s *Session) Close() error {
	if c, ok := s.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fail latches e, logs it and hands it to the error handler.
func (s *Session) fail(e *Error) error {
	s.failed = true
	s.lastErr = e
	if e.HTTPStatus != 0 {
		s.lastStatus = e.HTTPStatus
	}
	recordFailure(e.Kind)
	s.logger.WithFields(logrus.Fields{
		"kind": e.Kind.String(),
		"code": e.Code,
	}).Warn(e.Error())
	if s.errorHandler != nil {
		s.errorHandler(e)
	}
	return e
}

// debugf logs debug messages if Debug mode is enabled.
func (s *Session) debugf(format string, args ...interface{}) {
	if s.Debug {
		s.logger.Debugf(format, args...)
	}
}
