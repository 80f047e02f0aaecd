package adapters

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeURL(t *testing.T) {
	u, err := url.Parse("https://api.flickr.com/services/rest/?method=flickr.test.echo&api_key=k&auth_token=t&api_sig=s&per_page=10")
	require.NoError(t, err)

	got, err := url.Parse(sanitizeURL(u))
	require.NoError(t, err)
	q := got.Query()
	assert.Equal(t, "flickr.test.echo", q.Get("method"))
	assert.Equal(t, "10", q.Get("per_page"))
	for _, key := range []string{"api_key", "auth_token", "api_sig"} {
		assert.Equal(t, "[REDACTED]", q.Get(key), key)
	}
	assert.Equal(t, "/services/rest/", got.Path)
}

func TestSanitizeURLOAuth(t *testing.T) {
	u, err := url.Parse("https://www.flickr.com/services/oauth/access_token?oauth_token=t&oauth_verifier=v&oauth_signature=x%3D&oauth_nonce=n")
	require.NoError(t, err)

	q := mustQuery(t, sanitizeURL(u))
	assert.Equal(t, "[REDACTED]", q.Get("oauth_token"))
	assert.Equal(t, "[REDACTED]", q.Get("oauth_verifier"))
	assert.Equal(t, "[REDACTED]", q.Get("oauth_signature"))
	assert.Equal(t, "n", q.Get("oauth_nonce"))
}

func TestSanitizeURLNil(t *testing.T) {
	assert.Empty(t, sanitizeURL(nil))
}

func TestIsSensitiveParam(t *testing.T) {
	assert.True(t, isSensitiveParam("API_SIG"))
	assert.True(t, isSensitiveParam("oauth_token_secret"))
	assert.False(t, isSensitiveParam("photo_id"))
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}
