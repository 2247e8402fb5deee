package vc

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/resolver"
)

// Credential returns c as a credential issued and signed by iss, with an
// eddsa-rdfc-2022 Data Integrity proof.
func Credential(ctx context.Context, c content.Content, iss issuer.Issuer, opts ...CredentialOpt) (jsonmap.JSONMap, error) {
	if iss == nil {
		return nil, fmt.Errorf("issuer is nil")
	}

	m, err := Unsigned(c, iss.DID(), opts...)
	if err != nil {
		return nil, err
	}

	if err := iss.SignVC(ctx, m, getOptions(opts...).proofOpts()...); err != nil {
		return nil, fmt.Errorf("failed to sign credential: %w", err)
	}

	return m, nil
}

// Verify checks the Data Integrity proof of cred against the issuer's key.
// Only WithDocumentLoader applies.
func Verify(ctx context.Context, cred jsonmap.JSONMap, r resolver.Resolver, opts ...CredentialOpt) error {
	if r == nil {
		return fmt.Errorf("resolver is nil")
	}

	proof, err := cred.Proof()
	if err != nil {
		return fmt.Errorf("failed to get proof: %w", err)
	}

	issuerDID, _ := cred["issuer"].(string)
	if issuerDID == "" {
		return fmt.Errorf("credential has no issuer")
	}
	if !strings.HasPrefix(proof.VerificationMethod, issuerDID+"#") {
		return fmt.Errorf("verification method %s does not belong to issuer %s", proof.VerificationMethod, issuerDID)
	}

	jwk, err := r.Resolve(ctx, proof.VerificationMethod)
	if err != nil {
		return fmt.Errorf("failed to resolve verification method: %w", err)
	}
	pub, ok := jwk.Key.(ed25519.PublicKey)
	if !ok {
		return fmt.Errorf("unsupported public key type %T", jwk.Key)
	}

	if err := cred.VerifyEd25519Proof(pub, getOptions(opts...).proofOpts()...); err != nil {
		return fmt.Errorf("failed to verify proof: %w", err)
	}

	return nil
}
