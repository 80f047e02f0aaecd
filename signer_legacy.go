package flickrbridge

import (
	"crypto/md5"
	"encoding/hex"
)

// DefaultSignatureKey is the legacy scheme's signature param name.
const DefaultSignatureKey = "api_sig"

// LegacySigner signs with an MD5 checksum of the shared secret followed by
// the sorted key/value pairs.
type LegacySigner struct {
	creds  LegacyCredentials
	sigKey string
}

// NewLegacySigner returns a signer writing its signature under sigKey
// (api_sig when empty).
func NewLegacySigner(creds LegacyCredentials, sigKey string) *LegacySigner {
	if sigKey == "" {
		sigKey = DefaultSignatureKey
	}
	return &LegacySigner{creds: creds, sigKey: sigKey}
}

func (s *LegacySigner) Scheme() Scheme { return SchemeLegacy }

func (s *LegacySigner) SignatureKey() string { return s.sigKey }

func (s *LegacySigner) Validate() error {
	if s.creds.APIKey == "" {
		return newError(KindMissingCredential, "api_key is not configured", nil)
	}
	if s.creds.SharedSecret == "" {
		return newError(KindMissingCredential, "shared secret is not configured", nil)
	}
	return nil
}

// AppendCredentials adds api_key and, when set, auth_token.
func (s *LegacySigner) AppendCredentials(params *ParameterSet) error {
	params.appendBuilt("api_key", s.creds.APIKey)
	if s.creds.AuthToken != "" {
		params.appendBuilt("auth_token", s.creds.AuthToken)
	}
	return nil
}

func (s *LegacySigner) Sign(sc *SignatureContext) (string, error) {
	if s.creds.SharedSecret == "" {
		return "", newError(KindMissingCredential, "shared secret is not configured", nil)
	}
	sc.BaseString = checksumInput(s.creds.SharedSecret, sc.Params)
	sum := md5.Sum([]byte(sc.BaseString))
	sc.Signature = hex.EncodeToString(sum[:])
	return sc.Signature, nil
}

// ChecksumSignature returns the legacy signature of params under secret.
// params need not be sorted.
func ChecksumSignature(secret string, params []Param) string {
	ps := &ParameterSet{params: params}
	sum := md5.Sum([]byte(checksumInput(secret, ps.Sorted())))
	return hex.EncodeToString(sum[:])
}

func checksumInput(secret string, sorted []Param) string {
	n := len(secret)
	for _, p := range sorted {
		n += len(p.Key) + len(p.Value)
	}
	buf := make([]byte, 0, n)
	buf = append(buf, secret...)
	for _, p := range sorted {
		buf = append(buf, p.Key...)
		buf = append(buf, p.Value...)
	}
	return string(buf)
}
