package resolver

import (
	"context"
	"crypto/ed25519"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
)

// ed25519-pub multicodec varint prefix.
var ed25519Multicodec = []byte{0xed, 0x01}

// KeyResolver resolves did:key identifiers locally.
type KeyResolver struct{}

// NewKeyResolver returns a did:key resolver.
func NewKeyResolver() *KeyResolver {
	return &KeyResolver{}
}

// Resolve implements Resolver. The fragment, when present, must equal the
// method-specific id, which is the only verification method of a did:key document.
func (r *KeyResolver) Resolve(_ context.Context, didURL string) (*jose.JSONWebKey, error) {
	did, fragment, err := SplitDIDURL(didURL)
	if err != nil {
		return nil, err
	}
	if len(did) <= len(MethodKey) || did[:len(MethodKey)] != MethodKey {
		return nil, errors.Wrapf(ErrUnsupportedMethod, "not a did:key: %s", did)
	}

	msid := did[len(MethodKey):]
	if fragment != "" && fragment != msid {
		return nil, errors.Wrapf(ErrKeyNotFound, "%s", didURL)
	}

	pub, err := DecodeMultibaseEd25519(msid)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", did)
	}

	return &jose.JSONWebKey{
		Key:       pub,
		KeyID:     did + "#" + msid,
		Algorithm: "EdDSA",
		Use:       "sig",
	}, nil
}

// DecodeMultibaseEd25519 decodes a multibase, multicodec-prefixed Ed25519 public key.
func DecodeMultibaseEd25519(value string) (ed25519.PublicKey, error) {
	_, raw, err := multibase.Decode(value)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidDID, err.Error())
	}
	if len(raw) != len(ed25519Multicodec)+ed25519.PublicKeySize ||
		raw[0] != ed25519Multicodec[0] || raw[1] != ed25519Multicodec[1] {
		return nil, errors.Wrap(ErrInvalidDID, "not an ed25519 multicodec key")
	}

	return ed25519.PublicKey(raw[len(ed25519Multicodec):]), nil
}

// EncodeMultibaseEd25519 encodes pub as a base58btc multicodec key ("z6Mk...").
func EncodeMultibaseEd25519(pub ed25519.PublicKey) (string, error) {
	raw := append(append([]byte{}, ed25519Multicodec...), pub...)
	return multibase.Encode(multibase.Base58BTC, raw)
}
