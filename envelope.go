package flickrbridge

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Headers that mirror the envelope's error element.
const (
	HeaderErrCode    = "X-FlickrErrCode"
	HeaderErrMessage = "X-FlickrErrMessage"
)

// headerFailure reads the error headers. ok is false when neither is set.
func headerFailure(h http.Header) (code int, msg string, ok bool) {
	rawCode := h.Get(HeaderErrCode)
	msg = h.Get(HeaderErrMessage)
	if rawCode == "" && msg == "" {
		return 0, "", false
	}
	code, _ = strconv.Atoi(rawCode)
	return code, msg, true
}

// decodeEnvelope parses body as it is read and checks the root element's
// stat attribute. On failure the document is dropped and an *Error is
// returned carrying the envelope's code and message.
func decodeEnvelope(body io.Reader, h http.Header) (*etree.Document, *Error) {
	hdrCode, hdrMsg, hdrOK := headerFailure(h)

	malformed := func(msg string, err error) *Error {
		e := newError(KindMalformedResponse, msg, err)
		if hdrOK {
			e.Code, e.Message = hdrCode, hdrMsg
		}
		return e
	}

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, malformed("xml parse failed", errors.Wrap(err, "read response body"))
	}

	root := doc.Root()
	if root == nil {
		return nil, malformed("response has no root element", nil)
	}

	stat := root.SelectAttrValue("stat", "")
	if stat == "ok" {
		return doc, nil
	}

	fail := &Error{Kind: KindProtocolFailure}
	if errEl := findErrorElement(root); errEl != nil {
		fail.Code, _ = strconv.Atoi(errEl.SelectAttrValue("code", ""))
		fail.Message = errEl.SelectAttrValue("msg", "")
	} else if hdrOK {
		fail.Code, fail.Message = hdrCode, hdrMsg
	} else {
		fail.Message = fmt.Sprintf("request failed with stat=%q", stat)
	}
	return nil, fail
}

// findErrorElement returns <err>, or else the first child carrying a code.
func findErrorElement(root *etree.Element) *etree.Element {
	if el := root.SelectElement("err"); el != nil {
		return el
	}
	for _, child := range root.ChildElements() {
		if child.SelectAttr("code") != nil {
			return child
		}
	}
	return nil
}

// readRaw collects the body into a growable buffer.
func readRaw(body io.Reader) ([]byte, *Error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, newError(KindTransportFailure, "read response body", err)
	}
	return buf.Bytes(), nil
}

// statusFailure builds the TransportFailure for a non-2xx reply.
func statusFailure(resp *WireResponse) *Error {
	e := &Error{
		Kind:       KindTransportFailure,
		HTTPStatus: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
	}
	if code, msg, ok := headerFailure(resp.Headers); ok {
		e.Code, e.Message = code, msg
	}
	return e
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}
