package flickrbridge

import "context"

// Scheme names an authentication scheme.
type Scheme string

const (
	SchemeLegacy Scheme = "legacy"
	SchemeOAuth  Scheme = "oauth"
)

// Signer is implemented by LegacySigner and OAuthSigner. A Session selects
// one from its credentials and uses it for every call.
type Signer interface {
	Scheme() Scheme

	// Validate fails with ErrMissingCredential when the credentials the
	// scheme needs are not configured.
	Validate() error

	// AppendCredentials adds the scheme's unsigned credential params.
	AppendCredentials(params *ParameterSet) error

	// SignatureKey is the name of the param carrying the signature.
	SignatureKey() string

	// Sign computes the signature over sc.Params and records the canonical
	// string and result in sc.
	Sign(sc *SignatureContext) (string, error)
}

// Transport performs one HTTP exchange. Implementations live in the adapters
// package; the returned body is read by the Session and closed by it.
type Transport interface {
	Do(ctx context.Context, req *WireRequest) (*WireResponse, error)
}
