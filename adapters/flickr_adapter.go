// flickr_adapter.go
// -----------------
// This adapter performs the HTTP exchange for a flickrbridge.Session. It sends
// the signed request as a GET (query string) or a POST (form body), attaches
// the configured User-Agent and Accept headers, honours the proxy and
// timeout settings, and hands the response body back unread so the Session
// can parse it while it streams in.
//
// Key Points:
// - Flickr reports API failures inside a 200 response; non-2xx statuses are
//   left to the Session to classify.
// - Request URLs are logged with signatures, tokens and keys redacted.
package adapters

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	flickrbridge "github.com/opengovern/flickr-bridge"
)

type FlickrAdapter struct {
	client    *http.Client
	userAgent string
	accept    string
	logger    logrus.FieldLogger
}

// NewFlickrAdapter builds an adapter from the HTTP settings of cfg. A nil
// logger uses the logrus standard logger.
func NewFlickrAdapter(cfg *flickrbridge.Config, logger logrus.FieldLogger) (*FlickrAdapter, error) {
	if cfg == nil {
		cfg = flickrbridge.DefaultConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		Proxy:                 http.ProxyFromEnvironment,
	}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid proxy url")
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &FlickrAdapter{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
		accept:    cfg.HTTPAccept,
		logger:    logger,
	}, nil
}

// NewFlickrAdapterWithClient wraps an existing client, e.g. one from
// httptest.
func NewFlickrAdapterWithClient(client *http.Client, userAgent, accept string, logger logrus.FieldLogger) *FlickrAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FlickrAdapter{client: client, userAgent: userAgent, accept: accept, logger: logger}
}

func (f *FlickrAdapter) Do(ctx context.Context, req *flickrbridge.WireRequest) (*flickrbridge.WireResponse, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if f.userAgent != "" {
		httpReq.Header.Set("User-Agent", f.userAgent)
	}
	if f.accept != "" {
		httpReq.Header.Set("Accept", f.accept)
	}

	start := time.Now()
	resp, err := f.client.Do(httpReq)
	fields := logrus.Fields{
		"method":      req.Method,
		"url":         sanitizeURL(httpReq.URL),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		f.logger.WithFields(fields).WithError(err).Warn("http request failed")
		return nil, err
	}
	fields["status"] = resp.StatusCode
	if resp.StatusCode >= 400 {
		f.logger.WithFields(fields).Warn("http request")
	} else {
		f.logger.WithFields(fields).Debug("http request")
	}

	return &flickrbridge.WireResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       resp.Body,
	}, nil
}

// Close releases idle connections.
func (f *FlickrAdapter) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
