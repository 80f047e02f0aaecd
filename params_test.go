package flickrbridge

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSetSorted(t *testing.T) {
	ps := NewParameterSet()
	require.NoError(t, ps.Add("per_page", "10"))
	require.NoError(t, ps.AddAbsent("extras"))
	require.NoError(t, ps.Add("api_key", "k"))
	require.NoError(t, ps.Add("tag", "b"))
	require.NoError(t, ps.Add("tag", "a"))
	require.NoError(t, ps.Add("Zeta", "z"))

	want := []Param{
		{Key: "Zeta", Value: "z"},
		{Key: "api_key", Value: "k"},
		{Key: "per_page", Value: "10"},
		{Key: "tag", Value: "a"},
		{Key: "tag", Value: "b"},
	}
	if diff := cmp.Diff(want, ps.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}

	// insertion order is untouched
	assert.Equal(t, "per_page", ps.Params()[0].Key)
	assert.Equal(t, 6, ps.Len())
}

func TestParameterSetEncode(t *testing.T) {
	ps := NewParameterSet()
	require.NoError(t, ps.Add("text", "a b&c"))
	require.NoError(t, ps.AddAbsent("skipped"))
	ps.Finish()
	ps.appendBuilt("method", "flickr.photos.search")
	ps.appendBuilt("api_key", "key/1")

	encoded := ps.Encode()
	assert.Equal(t, "text=a%20b%26c&method=flickr.photos.search&api_key=key%2F1", encoded)

	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	assert.Equal(t, "a b&c", values.Get("text"))
	assert.Equal(t, "key/1", values.Get("api_key"))
	assert.False(t, values.Has("skipped"))
}

func TestParameterSetSealed(t *testing.T) {
	ps := NewParameterSet()
	require.NoError(t, ps.Add("a", "1"))
	ps.Finish()
	assert.True(t, ps.Sealed())

	err := ps.Add("b", "2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Error(t, ps.AddAbsent("c"))
	assert.Equal(t, 1, ps.Len())
}

func TestParameterSetSignatureOnce(t *testing.T) {
	ps := NewParameterSet()
	ps.Finish()
	require.NoError(t, ps.appendSignature("api_sig", "abc"))
	assert.Error(t, ps.appendSignature("api_sig", "def"))

	v, ok := ps.Get("api_sig")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestParameterSetSignatureRejectsCallerValue(t *testing.T) {
	ps := NewParameterSet()
	require.NoError(t, ps.Add("oauth_signature", "forged"))
	ps.Finish()
	assert.Error(t, ps.appendSignature("oauth_signature", "real"))
}
