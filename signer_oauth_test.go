package flickrbridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestTokenURI = "https://www.flickr.com/services/oauth/request_token"

func flickrExampleParams() []Param {
	ps := NewParameterSet()
	ps.Finish()
	ps.appendBuilt("oauth_nonce", "95613465")
	ps.appendBuilt("oauth_timestamp", "1305586162")
	ps.appendBuilt("oauth_consumer_key", "653e7a6ecc1d528c516cc8f92cf98611")
	ps.appendBuilt("oauth_signature_method", "HMAC-SHA1")
	ps.appendBuilt("oauth_version", "1.0")
	ps.appendBuilt("oauth_callback", "http://www.example.com")
	return ps.Sorted()
}

func TestOAuthBaseStringDoubleEscapes(t *testing.T) {
	base := oauthBaseString("GET", requestTokenURI, flickrExampleParams())
	assert.Equal(t,
		"GET&https%3A%2F%2Fwww.flickr.com%2Fservices%2Foauth%2Frequest_token&"+
			"oauth_callback%3Dhttp%253A%252F%252Fwww.example.com%26"+
			"oauth_consumer_key%3D653e7a6ecc1d528c516cc8f92cf98611%26"+
			"oauth_nonce%3D95613465%26"+
			"oauth_signature_method%3DHMAC-SHA1%26"+
			"oauth_timestamp%3D1305586162%26"+
			"oauth_version%3D1.0",
		base)
}

func TestHMACSignatureFlickrExample(t *testing.T) {
	base := oauthBaseString("GET", requestTokenURI, flickrExampleParams())
	sig, err := HMACSignature("a9567d986a7539fe", "", base)
	require.NoError(t, err)
	assert.Equal(t, "2zL7aYEzEEY0IvEgQjT7IqB518U=", sig)
	assert.Equal(t, "2zL7aYEzEEY0IvEgQjT7IqB518U%3D", Escape(sig))
}

func TestOAuthSignerSign(t *testing.T) {
	s := NewOAuthSigner(OAuthCredentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Token:          "tk",
		TokenSecret:    "ts",
	}, nil)
	s.Nonce = "n1"
	s.Timestamp = 1700000000
	require.NoError(t, s.Validate())
	assert.Equal(t, "oauth_signature", s.SignatureKey())

	ps := NewParameterSet()
	require.NoError(t, ps.Add("foo", "a b"))
	ps.Finish()
	ps.appendBuilt("method", "flickr.test.echo")
	require.NoError(t, s.AppendCredentials(ps))

	tests := []struct {
		httpMethod string
		want       string
	}{
		{"GET", "CLeDbi6P1vjuJzhCuruDQPeJ8NA="},
		{"POST", "EeGfvbrWdgTGwQXt8owfbG//ktM="},
	}
	for _, tt := range tests {
		sc := &SignatureContext{
			HTTPMethod: tt.httpMethod,
			BaseURI:    DefaultServiceURI,
			Params:     ps.Sorted(),
		}
		sig, err := s.Sign(sc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, sig, tt.httpMethod)
		assert.Equal(t, sig, sc.Signature)
	}
}

func TestOAuthSignerAppendCredentials(t *testing.T) {
	s := NewOAuthSigner(OAuthCredentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		Verifier:       "v",
	}, nil)
	s.NonceFunc = func() string { return "fixed" }

	ps := NewParameterSet()
	ps.Finish()
	require.NoError(t, s.AppendCredentials(ps))

	keys := make([]string, 0, ps.Len())
	for _, p := range ps.Params() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{
		"oauth_consumer_key",
		"oauth_nonce",
		"oauth_signature_method",
		"oauth_timestamp",
		"oauth_version",
		"oauth_verifier",
	}, keys)

	nonce, _ := ps.Get("oauth_nonce")
	assert.Equal(t, "fixed", nonce)
	ts, _ := ps.Get("oauth_timestamp")
	assert.NotEmpty(t, ts)
	assert.False(t, ps.Has("oauth_token"))
}

func TestRandomNonce(t *testing.T) {
	a, b := randomNonce(), randomNonce()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestOAuthSignerMissingCredential(t *testing.T) {
	s := NewOAuthSigner(OAuthCredentials{ConsumerKey: "ck"}, nil)
	assert.True(t, errors.Is(s.Validate(), ErrMissingCredential))

	_, err := s.Sign(&SignatureContext{HTTPMethod: "GET"})
	assert.True(t, errors.Is(err, ErrMissingCredential))
}

func TestCredentialsScheme(t *testing.T) {
	both := Credentials{
		Legacy: &LegacyCredentials{APIKey: "k", SharedSecret: "s"},
		OAuth:  &OAuthCredentials{ConsumerKey: "ck", ConsumerSecret: "cs"},
	}
	assert.Equal(t, SchemeOAuth, both.Scheme())
	assert.Equal(t, SchemeOAuth, newSigner(both, DefaultConfig(), nil).Scheme())

	emptyOAuth := Credentials{
		Legacy: &LegacyCredentials{APIKey: "k", SharedSecret: "s"},
		OAuth:  &OAuthCredentials{},
	}
	assert.Equal(t, SchemeLegacy, emptyOAuth.Scheme())
	assert.Equal(t, SchemeLegacy, Credentials{}.Scheme())
}
