package flickrbridge

// LegacyCredentials drive the MD5 checksum scheme.
type LegacyCredentials struct {
	APIKey       string `yaml:"api_key"`
	SharedSecret string `yaml:"shared_secret"`
	AuthToken    string `yaml:"auth_token,omitempty"`
}

// OAuthCredentials drive the HMAC-SHA1 scheme.
type OAuthCredentials struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	Token          string `yaml:"token,omitempty"`
	TokenSecret    string `yaml:"token_secret,omitempty"`
	Verifier       string `yaml:"verifier,omitempty"`
	Callback       string `yaml:"callback,omitempty"`
}

// Credentials holds either or both credential sets. A non-empty OAuth
// consumer key takes precedence over the legacy set.
type Credentials struct {
	Legacy *LegacyCredentials `yaml:"legacy,omitempty"`
	OAuth  *OAuthCredentials  `yaml:"oauth,omitempty"`
}

// Scheme reports which scheme these credentials select.
func (c Credentials) Scheme() Scheme {
	if c.OAuth != nil && c.OAuth.ConsumerKey != "" {
		return SchemeOAuth
	}
	return SchemeLegacy
}

// newSigner selects the signer once for a Session.
func newSigner(creds Credentials, cfg *Config, clock Clock) Signer {
	if creds.Scheme() == SchemeOAuth {
		return NewOAuthSigner(*creds.OAuth, clock)
	}
	var legacy LegacyCredentials
	if creds.Legacy != nil {
		legacy = *creds.Legacy
	}
	return NewLegacySigner(legacy, cfg.SignatureKey)
}
