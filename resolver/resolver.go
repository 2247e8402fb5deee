// Package resolver resolves did:key and did:web verification methods to the
// public JWK a witness verifies Ed25519 signatures with.
package resolver

import (
	"context"
	"strings"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/pkg/errors"
)

// DID method prefixes understood by the resolvers.
const (
	MethodKey = "did:key:"
	MethodWeb = "did:web:"
)

var (
	// ErrUnsupportedMethod is returned for DIDs other than did:key and did:web.
	ErrUnsupportedMethod = errors.New("unsupported did method")
	// ErrKeyNotFound is returned when the DID document has no matching verification method.
	ErrKeyNotFound = errors.New("verification method not found")
	// ErrInvalidDID is returned for malformed identifiers.
	ErrInvalidDID = errors.New("invalid did")
)

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks Resolver

// Resolver resolves a DID URL (did#fragment) to the public key it names.
type Resolver interface {
	Resolve(ctx context.Context, didURL string) (*jose.JSONWebKey, error)
}

// Multi dispatches to a resolver per DID method.
type Multi struct {
	key Resolver
	web Resolver
}

// New returns a resolver for did:key (local) and did:web (HTTPS).
func New(opts ...WebOption) *Multi {
	return &Multi{
		key: NewKeyResolver(),
		web: NewWebResolver(opts...),
	}
}

// NewMulti builds a Multi from explicit method resolvers. A nil resolver disables the method.
func NewMulti(key, web Resolver) *Multi {
	return &Multi{key: key, web: web}
}

// Resolve implements Resolver.
func (m *Multi) Resolve(ctx context.Context, didURL string) (*jose.JSONWebKey, error) {
	switch {
	case strings.HasPrefix(didURL, MethodKey) && m.key != nil:
		return m.key.Resolve(ctx, didURL)
	case strings.HasPrefix(didURL, MethodWeb) && m.web != nil:
		return m.web.Resolve(ctx, didURL)
	default:
		return nil, errors.Wrapf(ErrUnsupportedMethod, "resolve %s", didURL)
	}
}

// SplitDIDURL splits "did#fragment" into its parts.
func SplitDIDURL(didURL string) (did, fragment string, err error) {
	did, fragment, _ = strings.Cut(didURL, "#")
	if !strings.HasPrefix(did, "did:") || len(strings.SplitN(did, ":", 3)) != 3 {
		return "", "", errors.Wrapf(ErrInvalidDID, "%q", didURL)
	}

	return did, fragment, nil
}
