package flickrbridge

import (
	"errors"
	"strings"
)

const formContentType = "application/x-www-form-urlencoded"

// Begin starts a new call. It drops the previous call's parameters, built
// request and failure latch. isWrite selects a POST with a form body.
func (s *Session) Begin(isWrite bool) {
	s.params = NewParameterSet()
	s.isWrite = isWrite
	s.buildErr = nil
	s.request = nil
	s.sigCtx = nil
	s.failed = false
	s.lastErr = nil
	s.lastStatus = 0
}

// Add appends a call parameter.
func (s *Session) Add(key, value string) {
	s.keepBuildErr(s.params.Add(key, value))
}

// AddOptional appends key with value, or an absent marker when value is
// empty. Absent params are neither signed nor sent.
func (s *Session) AddOptional(key, value string) {
	if value == "" {
		s.keepBuildErr(s.params.AddAbsent(key))
		return
	}
	s.keepBuildErr(s.params.Add(key, value))
}

// AddList appends values joined by commas, the form Flickr expects for list
// arguments. An empty list adds an absent marker.
func (s *Session) AddList(key string, values []string) {
	s.AddOptional(key, strings.Join(values, ","))
}

// Finish seals the parameter list.
func (s *Session) Finish() {
	s.params.Finish()
}

func (s *Session) keepBuildErr(err error) {
	if err == nil || s.buildErr != nil {
		return
	}
	s.buildErr = asError(err)
}

// BuildAndSign appends method and the credentials, signs the parameter set
// and serialises it against the REST service URI. It performs no I/O.
func (s *Session) BuildAndSign(method string) error {
	if method == "" {
		return s.fail(newError(KindMissingMethod, "method name is required", nil))
	}
	return s.build(method, s.cfg.ServiceURI)
}

// BuildAndSignURI signs the parameter set against uri without a method
// param, for endpoints outside the REST service such as OAuth's
// request_token.
func (s *Session) BuildAndSignURI(uri string) error {
	if uri == "" {
		return s.fail(newError(KindInternal, "endpoint uri is required", nil))
	}
	return s.build("", uri)
}

func (s *Session) build(method, baseURI string) error {
	if s.buildErr != nil {
		return s.fail(s.buildErr)
	}
	if s.request != nil {
		return s.fail(newError(KindInternal, "request already built; call Begin first", nil))
	}
	if err := s.signer.Validate(); err != nil {
		return s.fail(asError(err))
	}

	s.params.Finish()
	if method != "" {
		s.params.appendBuilt("method", method)
	}
	if err := s.signer.AppendCredentials(s.params); err != nil {
		return s.fail(asError(err))
	}

	httpMethod := "GET"
	if s.isWrite {
		httpMethod = "POST"
	}
	sc := &SignatureContext{
		HTTPMethod: httpMethod,
		BaseURI:    baseURI,
		Params:     s.params.Sorted(),
	}
	sig, err := s.signer.Sign(sc)
	if err != nil {
		return s.fail(asError(err))
	}
	if err := s.params.appendSignature(s.signer.SignatureKey(), sig); err != nil {
		return s.fail(asError(err))
	}
	s.sigCtx = sc

	s.request = serialize(httpMethod, baseURI, s.params)
	s.debugf("built %s %s (scheme=%s, params=%d)", httpMethod, method, s.signer.Scheme(), s.params.Len())
	return nil
}

// serialize renders the signed set as a query string (GET) or a form body
// (POST).
func serialize(httpMethod, baseURI string, params *ParameterSet) *WireRequest {
	encoded := params.Encode()
	if httpMethod == "POST" {
		return &WireRequest{
			Method:      httpMethod,
			URL:         baseURI,
			Body:        []byte(encoded),
			ContentType: formContentType,
		}
	}
	sep := "?"
	if strings.Contains(baseURI, "?") {
		sep = "&"
	}
	return &WireRequest{Method: httpMethod, URL: baseURI + sep + encoded}
}

// asError converts err to *Error, wrapping foreign errors as internal.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(KindInternal, "", err)
}
