package flow

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/recap"
	"github.com/pilacorp/go-witness-sdk/resolver"
	"github.com/pilacorp/go-witness-sdk/statement"
	"github.com/pilacorp/go-witness-sdk/subject"
)

var (
	_ Flow[statement.AttestationStatement, *proof.Attestation, *content.Attestation]          = (*Attestation)(nil)
	_ Flow[statement.AttestationStatement, *proof.DelegatedAttestation, *content.Attestation] = (*DelegatedAttestation)(nil)
)

// Attestation issues self-signed attestations.
type Attestation struct {
	Now Clock `json:"-"`
}

func (f *Attestation) Statement(_ context.Context, s statement.AttestationStatement, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

func (f *Attestation) ValidateProof(ctx context.Context, p *proof.Attestation, _ issuer.Issuer) (*content.Attestation, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(ctx, p.Statement.StatementSubject(), stmt, p.Signature); err != nil {
		return nil, err
	}
	return toContent[*content.Attestation](p, stmt, p.Signature, f.Now.now())
}

// DelegatedAttestation issues attestations signed by a delegate key that the
// subject authorized for this witness through a SIWE ReCap.
type DelegatedAttestation struct {
	// ServiceKey names this witness in ReCap resources.
	ServiceKey string `json:"service_key"`

	// Resolver resolves delegate keys. Nil uses subject.DefaultResolver.
	Resolver resolver.Resolver `json:"-"`
	Now      Clock             `json:"-"`
}

func (f *DelegatedAttestation) Statement(_ context.Context, s statement.AttestationStatement, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

// ValidateProof checks, in order: the capability granted to ServiceKey, the
// SIWE signature, the validity window, the requested type, the subject
// address and finally the delegate's signature over the attestation.
func (f *DelegatedAttestation) ValidateProof(ctx context.Context, p *proof.DelegatedAttestation, _ issuer.Issuer) (*content.Attestation, error) {
	if f.ServiceKey == "" {
		return nil, validation("no service key configured", nil)
	}
	if p.ServiceKey != f.ServiceKey {
		return nil, validation("proof is for another witness",
			fmt.Errorf("%w: %q", recap.ErrNoCapability, p.ServiceKey))
	}

	parsed, err := recap.Parse(p.SiweMessage, f.ServiceKey)
	if err != nil {
		return nil, validation("failed to parse recap", err)
	}
	if err := parsed.Message.VerifySignature(p.SiweSignature); err != nil {
		return nil, validation("siwe message is not signed by its address", err)
	}
	if err := parsed.Message.CheckTime(f.Now.now()); err != nil {
		return nil, validation("capability is not valid at this time", err)
	}

	t, err := p.Attestation.Type()
	if err != nil {
		return nil, validation("unknown attestation", err)
	}
	if !parsed.Authorizes(t) {
		return nil, validation("recap does not authorize this attestation",
			fmt.Errorf("%w: %s", recap.ErrUnauthorizedType, t.Action()))
	}

	s := p.Attestation.StatementSubject()
	if s.Eip155 == nil || !s.Eip155.SameAddress(parsed.Subject.Address) {
		return nil, validation("attestation subject is not the siwe signer",
			fmt.Errorf("%w: %s is not %s", recap.ErrAddressMismatch, s.DisplayID(), parsed.Subject.Address))
	}

	did, keyName, err := parsed.DelegateKey()
	if err != nil {
		return nil, validation("unusable delegate", err)
	}
	delegate, err := subject.NewEd25519(did, keyName, f.Resolver)
	if err != nil {
		return nil, validation("unusable delegate", fmt.Errorf("%w: %w", recap.ErrMalformedDelegate, err))
	}
	pub, err := delegate.PublicKey(ctx)
	if err != nil {
		return nil, lookupFailed("could not resolve delegate key", err)
	}

	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	if err := crypto.Ed25519Verify(pub, []byte(stmt), p.AttestationSignature); err != nil {
		return nil, validation("delegate signature does not match attestation",
			fmt.Errorf("%w: %w", recap.ErrDelegateSignature, err))
	}

	return toContent[*content.Attestation](p, stmt, p.AttestationSignature, f.Now.now())
}
