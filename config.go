// config.go
// ----------
// This file defines the Config structure shared by the Session and the HTTP
// adapter: credentials, request pacing, endpoints and the HTTP settings
// (proxy, user agent, Accept header, timeout).
//
// Config files are YAML. request_delay accepts milliseconds (1000) or a
// duration string ("1s").
package flickrbridge

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/opengovern/flickr-bridge/internal"
)

const (
	DefaultServiceURI = "https://api.flickr.com/services/rest/"
	DefaultOAuthURI   = "https://www.flickr.com/services/oauth/"
	DefaultUserAgent  = "flickr-bridge/1.0"
	DefaultAccept     = "text/xml"
)

// Config carries every setting a Session and its Transport consume.
type Config struct {
	Credentials Credentials `yaml:",inline"`

	// RequestDelay is the minimum time between the starts of two requests.
	RequestDelay time.Duration `yaml:"-"`

	// HourlyQuota caps requests per rolling hour. 0 disables the cap.
	HourlyQuota int `yaml:"hourly_quota,omitempty"`

	// SignatureKey names the legacy signature param. Default: api_sig.
	SignatureKey string `yaml:"sig_key,omitempty"`

	ServiceURI string `yaml:"service_uri,omitempty"`
	OAuthURI   string `yaml:"oauth_uri,omitempty"`

	ProxyURL   string        `yaml:"proxy,omitempty"`
	UserAgent  string        `yaml:"user_agent,omitempty"`
	HTTPAccept string        `yaml:"http_accept,omitempty"`
	Timeout    time.Duration `yaml:"-"`

	Debug bool `yaml:"debug,omitempty"`
}

// fileConfig mirrors Config for the fields whose YAML form needs parsing.
type fileConfig struct {
	Config       `yaml:",inline"`
	RequestDelay string `yaml:"request_delay,omitempty"`
	Timeout      string `yaml:"timeout,omitempty"`
}

// DefaultConfig returns a Config with Flickr's endpoints, a one second
// request delay and a 30 second timeout. Credentials are empty.
func DefaultConfig() *Config {
	return &Config{
		RequestDelay: time.Second,
		SignatureKey: DefaultSignatureKey,
		ServiceURI:   DefaultServiceURI,
		OAuthURI:     DefaultOAuthURI,
		UserAgent:    DefaultUserAgent,
		HTTPAccept:   DefaultAccept,
		Timeout:      30 * time.Second,
	}
}

// Validate checks the configuration. Missing credentials are not a
// configuration error; they fail the first call with ErrMissingCredential.
func (c *Config) Validate() error {
	if c.RequestDelay < 0 {
		return fmt.Errorf("request_delay must be >= 0, got %v", c.RequestDelay)
	}
	if c.HourlyQuota < 0 {
		return fmt.Errorf("hourly_quota must be >= 0, got %d", c.HourlyQuota)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	if _, err := url.ParseRequestURI(c.ServiceURI); err != nil {
		return errors.Wrap(err, "invalid service_uri")
	}
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return errors.Wrap(err, "invalid proxy")
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user_agent is required and must be non-empty")
	}
	return nil
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	fc := fileConfig{Config: *DefaultConfig()}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	cfg := fc.Config
	if fc.RequestDelay != "" {
		d, err := internal.ParseDelay(fc.RequestDelay)
		if err != nil {
			return nil, errors.WithMessage(err, "request_delay")
		}
		cfg.RequestDelay = d
	}
	if fc.Timeout != "" {
		d, err := internal.ParseDelay(fc.Timeout)
		if err != nil {
			return nil, errors.WithMessage(err, "timeout")
		}
		cfg.Timeout = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
