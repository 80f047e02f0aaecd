package flickrbridge

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	OAuthSignatureKey    = "oauth_signature"
	oauthSignatureMethod = "HMAC-SHA1"
	oauthVersion         = "1.0"
)

// OAuthSigner signs with HMAC-SHA1 over the OAuth 1.0a base string.
//
// Nonce and Timestamp may be fixed for reproducible signatures; when empty
// they are drawn per call from NonceFunc and the clock.
type OAuthSigner struct {
	creds OAuthCredentials
	clock Clock

	Nonce     string
	Timestamp int64
	NonceFunc func() string
}

// NewOAuthSigner returns a signer for creds. A nil clock uses the wall clock.
func NewOAuthSigner(creds OAuthCredentials, clock Clock) *OAuthSigner {
	if clock == nil {
		clock = systemClock{}
	}
	return &OAuthSigner{creds: creds, clock: clock, NonceFunc: randomNonce}
}

func randomNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *OAuthSigner) Scheme() Scheme { return SchemeOAuth }

func (s *OAuthSigner) SignatureKey() string { return OAuthSignatureKey }

func (s *OAuthSigner) Validate() error {
	if s.creds.ConsumerKey == "" {
		return newError(KindMissingCredential, "oauth consumer key is not configured", nil)
	}
	if s.creds.ConsumerSecret == "" {
		return newError(KindMissingCredential, "oauth consumer secret is not configured", nil)
	}
	return nil
}

// AppendCredentials adds the oauth_* params that are signed.
func (s *OAuthSigner) AppendCredentials(params *ParameterSet) error {
	nonce := s.Nonce
	if nonce == "" {
		nonce = s.NonceFunc()
	}
	ts := s.Timestamp
	if ts == 0 {
		ts = s.clock.Now().Unix()
	}

	params.appendBuilt("oauth_consumer_key", s.creds.ConsumerKey)
	params.appendBuilt("oauth_nonce", nonce)
	params.appendBuilt("oauth_signature_method", oauthSignatureMethod)
	params.appendBuilt("oauth_timestamp", strconv.FormatInt(ts, 10))
	params.appendBuilt("oauth_version", oauthVersion)
	if s.creds.Token != "" {
		params.appendBuilt("oauth_token", s.creds.Token)
	}
	if s.creds.Verifier != "" {
		params.appendBuilt("oauth_verifier", s.creds.Verifier)
	}
	if s.creds.Callback != "" {
		params.appendBuilt("oauth_callback", s.creds.Callback)
	}
	return nil
}

func (s *OAuthSigner) Sign(sc *SignatureContext) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	sc.BaseString = oauthBaseString(sc.HTTPMethod, sc.BaseURI, sc.Params)
	sig, err := HMACSignature(s.creds.ConsumerSecret, s.creds.TokenSecret, sc.BaseString)
	if err != nil {
		return "", err
	}
	sc.Signature = sig
	return sig, nil
}

// oauthBaseString builds METHOD&escape(uri)&escape(k=escape(v)&...).
// The parameter string is escaped once per value and again as a whole.
func oauthBaseString(httpMethod, baseURI string, sorted []Param) string {
	var ps strings.Builder
	for i, p := range sorted {
		if i > 0 {
			ps.WriteByte('&')
		}
		ps.WriteString(p.Key)
		ps.WriteByte('=')
		ps.WriteString(Escape(p.Value))
	}
	return Escape(httpMethod) + "&" + Escape(baseURI) + "&" + Escape(ps.String())
}

// HMACSignature signs base with the key escape(consumerSecret)&escape(tokenSecret)
// and returns the base64 (standard, padded) digest.
func HMACSignature(consumerSecret, tokenSecret, base string) (string, error) {
	key := Escape(consumerSecret) + "&" + Escape(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	if _, err := mac.Write([]byte(base)); err != nil {
		return "", newError(KindSignatureComputationFailed, "hmac-sha1", err)
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
