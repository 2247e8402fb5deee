package issuer

import (
	"context"
	"crypto/ed25519"

	jose "github.com/go-jose/go-jose/v3"
	"github.com/pkg/errors"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/common/jwt"
	"github.com/pilacorp/go-witness-sdk/credential/common/model"
	"github.com/pilacorp/go-witness-sdk/resolver"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// DID document contexts published by Document.
const (
	DIDContext     = "https://www.w3.org/ns/did/v1"
	JWS2020Context = "https://w3id.org/security/suites/jws-2020/v1"
)

// Ed25519 issues credentials with an Ed25519 key named by a did:web or did:key
// verification method.
type Ed25519 struct {
	*subject.Ed25519
	priv ed25519.PrivateKey
	jwt  *jwt.JWTSigner
}

var (
	_ Issuer            = (*Ed25519)(nil)
	_ resolver.Resolver = (*Ed25519)(nil)
)

// NewEd25519 returns an issuer for did#keyName signing with priv.
func NewEd25519(did, keyName string, priv ed25519.PrivateKey) (*Ed25519, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, &Error{Reason: "invalid ed25519 private key"}
	}

	i := &Ed25519{priv: priv}
	subj, err := subject.NewEd25519(did, keyName, i)
	if err != nil {
		return nil, &Error{Reason: "invalid issuer identity", Err: err}
	}
	i.Ed25519 = subj
	i.jwt = jwt.NewJWTSigner(priv, did, subj.VerificationMethod())

	return i, nil
}

// NewEd25519FromSeed is like NewEd25519 with a hex encoded 32 byte seed.
func NewEd25519FromSeed(did, keyName, seedHex string) (*Ed25519, error) {
	priv, err := crypto.Ed25519KeyFromSeed(seedHex)
	if err != nil {
		return nil, &Error{Reason: "invalid issuer seed", Err: err}
	}
	return NewEd25519(did, keyName, priv)
}

// PublicKey returns the issuer's public key without resolving its DID.
func (i *Ed25519) PublicKey(context.Context) (ed25519.PublicKey, error) {
	return i.priv.Public().(ed25519.PublicKey), nil
}

// ValidSignature verifies against the issuer's own key.
func (i *Ed25519) ValidSignature(_ context.Context, statement, signature string) error {
	if err := crypto.Ed25519Verify(i.priv.Public().(ed25519.PublicKey), []byte(statement), signature); err != nil {
		return &subject.Error{Reason: "invalid issuer signature", Err: err}
	}
	return nil
}

// Sign returns a hex Ed25519 signature over plainText.
func (i *Ed25519) Sign(_ context.Context, plainText string) (string, error) {
	sig, err := crypto.Ed25519Sign(i.priv, []byte(plainText))
	if err != nil {
		return "", &Error{Reason: "failed to sign", Err: err}
	}
	return sig, nil
}

// SignVC attaches an eddsa-rdfc-2022 Data Integrity proof.
func (i *Ed25519) SignVC(_ context.Context, vc jsonmap.JSONMap, opts ...jsonmap.ProofOpt) error {
	if err := vc.AddEd25519Proof(i.priv, i.VerificationMethod(), opts...); err != nil {
		return &Error{Reason: "failed to generate proof", Err: err}
	}
	return nil
}

// GenerateJWT encodes vc as an EdDSA JWT with the verification method as kid.
func (i *Ed25519) GenerateJWT(_ context.Context, vc jsonmap.JSONMap) (string, error) {
	token, err := i.jwt.SignDocument(vc, jwt.ClaimVC)
	if err != nil {
		return "", &Error{Reason: "failed to generate jwt", Err: err}
	}
	return token, nil
}

// JWK returns the issuer's public key as a JWK.
func (i *Ed25519) JWK() *jose.JSONWebKey {
	return &jose.JSONWebKey{
		Key:       i.priv.Public().(ed25519.PublicKey),
		KeyID:     i.VerificationMethod(),
		Algorithm: "EdDSA",
		Use:       "sig",
	}
}

// Resolve answers for the issuer's own DID so its credentials can be verified offline.
func (i *Ed25519) Resolve(_ context.Context, didURL string) (*jose.JSONWebKey, error) {
	if didURL != i.DID() && didURL != i.VerificationMethod() {
		return nil, errors.Wrapf(resolver.ErrKeyNotFound, "%s", didURL)
	}
	return i.JWK(), nil
}

// Document is the DID document to publish at the did:web location.
func (i *Ed25519) Document() *model.DIDDocument {
	vm := i.VerificationMethod()
	pub := i.JWK()
	pub.KeyID = ""
	pub.Use = ""

	return &model.DIDDocument{
		Context: []string{DIDContext, JWS2020Context},
		ID:      i.DID(),
		VerificationMethod: []model.VerificationMethodEntry{{
			ID:           vm,
			Type:         "JsonWebKey2020",
			Controller:   i.DID(),
			PublicKeyJwk: pub,
		}},
		Authentication:  []string{vm},
		AssertionMethod: []string{vm},
	}
}
