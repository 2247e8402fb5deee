package subject

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/resolver"
)

const (
	didWebPrefix = resolver.MethodWeb
	didKeyPrefix = resolver.MethodKey
)

// ErrResolve marks a failure to fetch a subject's key, as opposed to a key
// or signature that was fetched and found wrong.
var ErrResolve = errors.New("could not resolve verification method")

// DefaultResolver resolves Ed25519 subject keys when a subject has no resolver of its own.
var DefaultResolver resolver.Resolver = resolver.New()

// Ed25519 is an Ed25519 key published in a did:web or did:key document.
type Ed25519 struct {
	Identifier string `json:"did"`
	KeyName    string `json:"key_name"`

	resolver resolver.Resolver
}

// NewEd25519 returns an Ed25519 DID subject. A nil resolver falls back to DefaultResolver.
func NewEd25519(did, keyName string, r resolver.Resolver) (*Ed25519, error) {
	s := &Ed25519{Identifier: did, KeyName: keyName, resolver: r}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithResolver returns a copy of s that resolves its key with r.
func (s *Ed25519) WithResolver(r resolver.Resolver) *Ed25519 {
	c := *s
	c.resolver = r
	return &c
}

// Validate checks the DID method.
func (s *Ed25519) Validate() error {
	if !strings.HasPrefix(s.Identifier, didWebPrefix) && !strings.HasPrefix(s.Identifier, didKeyPrefix) {
		return validationError(fmt.Sprintf("only did:web and did:key ed25519 keys are supported, got %q", s.Identifier), nil)
	}
	if s.KeyName == "" {
		return validationError("missing key name", nil)
	}
	return nil
}

func (s *Ed25519) DID() string {
	return s.Identifier
}

func (s *Ed25519) DisplayID() string {
	return strings.TrimPrefix(s.Identifier, didWebPrefix)
}

func (s *Ed25519) VerificationMethod() string {
	return s.Identifier + "#" + s.KeyName
}

func (s *Ed25519) StatementTitle() string {
	if strings.HasPrefix(s.Identifier, didWebPrefix) {
		return "Ed25519 Web Key"
	}
	return "DID ID"
}

// PublicKey resolves the subject's verification method.
func (s *Ed25519) PublicKey(ctx context.Context) (ed25519.PublicKey, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := s.resolver
	if r == nil {
		r = DefaultResolver
	}

	jwk, err := r.Resolve(ctx, s.VerificationMethod())
	if err != nil {
		return nil, validationError("could not build JWK from DID", fmt.Errorf("%w: %w", ErrResolve, err))
	}

	pub, ok := jwk.Key.(ed25519.PublicKey)
	if !ok {
		return nil, validationError(fmt.Sprintf("resolved key is %T, not ed25519", jwk.Key), nil)
	}

	return pub, nil
}

// ValidSignature verifies a hex Ed25519 signature over the raw statement.
func (s *Ed25519) ValidSignature(ctx context.Context, statement, signature string) error {
	pub, err := s.PublicKey(ctx)
	if err != nil {
		return err
	}
	if err := crypto.Ed25519Verify(pub, []byte(statement), signature); err != nil {
		return validationError("invalid ed25519 signature", err)
	}
	return nil
}
