package flow

import (
	"context"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var (
	_ Flow[*statement.NFTOwnershipVerification, *proof.NFTOwnershipVerification, *content.NFTOwnershipVerification]    = (*NFTOwnership)(nil)
	_ Flow[*statement.POAPOwnershipVerification, *proof.POAPOwnershipVerification, *content.POAPOwnershipVerification] = (*POAPOwnership)(nil)
)

// window bounds the issued_at time of an ownership statement.
type window struct {
	maxElapsedMinutes int64
	now               Clock
}

func (w window) check(issuedAt string) error {
	if w.maxElapsedMinutes <= 0 {
		return validation("max elapsed minutes must be greater than 0", nil)
	}
	then, err := statement.ParseIssuedAt(issuedAt)
	if err != nil {
		return validation("malformed issued_at", err)
	}
	now := w.now.now()
	if then.After(now) {
		return validation("issued_at is in the future", nil)
	}
	if now.Add(-time.Duration(w.maxElapsedMinutes) * time.Minute).After(then) {
		return validation("validation window has expired", nil)
	}
	return nil
}

// challenge binds stmt to this witness: stmt{delimiter}issuer signature.
// Ed25519 signatures are deterministic, so the witness recomputes it when
// the proof comes back.
func challenge(ctx context.Context, iss issuer.Issuer, stmt, delimiter string) (string, error) {
	sig, err := iss.Sign(ctx, stmt)
	if err != nil {
		return "", validation("failed to sign challenge", err)
	}
	return stmt + delimiter + sig, nil
}

// NFTOwnership witnesses that an Ethereum account holds a token from a contract.
type NFTOwnership struct {
	APIKey             string `json:"api_key"`
	ChallengeDelimiter string `json:"challenge_delimiter"`
	MaxElapsedMinutes  int64  `json:"max_elapsed_minutes"`

	// Locator checks ownership. Nil uses Alchemy with APIKey.
	Locator locator.NFTLocator `json:"-"`
	Now     Clock              `json:"-"`
}

func (f *NFTOwnership) locator() locator.NFTLocator {
	if f.Locator == nil {
		return locator.NewAlchemy(f.APIKey)
	}
	return f.Locator
}

func (f *NFTOwnership) window() window {
	return window{maxElapsedMinutes: f.MaxElapsedMinutes, now: f.Now}
}

// Statement returns the statement followed by the witness's own signature;
// the subject signs the whole text.
func (f *NFTOwnership) Statement(ctx context.Context, s *statement.NFTOwnershipVerification, iss issuer.Issuer) (*StatementResponse, error) {
	if err := f.window().check(s.IssuedAt); err != nil {
		return nil, err
	}
	if _, err := requireEip155(s.Subject); err != nil {
		return nil, err
	}
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	text, err := challenge(ctx, iss, stmt, f.ChallengeDelimiter)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: text}, nil
}

func (f *NFTOwnership) ValidateProof(ctx context.Context, p *proof.NFTOwnershipVerification, iss issuer.Issuer) (*content.NFTOwnershipVerification, error) {
	if err := f.window().check(p.Statement.IssuedAt); err != nil {
		return nil, err
	}
	owner, err := requireEip155(p.Statement.Subject)
	if err != nil {
		return nil, err
	}
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	text, err := challenge(ctx, iss, stmt, f.ChallengeDelimiter)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(ctx, p.Statement.Subject, text, p.Signature); err != nil {
		return nil, err
	}

	owns, err := f.locator().OwnsContract(ctx, string(p.Statement.Network), owner.Address, p.Statement.ContractAddress)
	if err != nil {
		return nil, lookupFailed("failed to look up owned assets", err)
	}
	if !owns {
		return nil, lookupFailed("found no owned assets from contract "+p.Statement.ContractAddress, locator.ErrNotFound)
	}

	return toContent[*content.NFTOwnershipVerification](p, stmt, p.Signature, f.Now.now())
}

// POAPOwnership witnesses that an Ethereum account holds a POAP for an event.
type POAPOwnership struct {
	APIKey             string `json:"api_key"`
	ChallengeDelimiter string `json:"challenge_delimiter"`
	MaxElapsedMinutes  int64  `json:"max_elapsed_minutes"`

	// Locator checks attendance. Nil uses the POAP API with APIKey.
	Locator locator.POAPLocator `json:"-"`
	Now     Clock               `json:"-"`
}

func (f *POAPOwnership) locator() locator.POAPLocator {
	if f.Locator == nil {
		return locator.NewPOAP(f.APIKey)
	}
	return f.Locator
}

func (f *POAPOwnership) window() window {
	return window{maxElapsedMinutes: f.MaxElapsedMinutes, now: f.Now}
}

func (f *POAPOwnership) Statement(ctx context.Context, s *statement.POAPOwnershipVerification, iss issuer.Issuer) (*StatementResponse, error) {
	if err := f.window().check(s.IssuedAt); err != nil {
		return nil, err
	}
	if _, err := requireEip155(s.Subject); err != nil {
		return nil, err
	}
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	text, err := challenge(ctx, iss, stmt, f.ChallengeDelimiter)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: text}, nil
}

func (f *POAPOwnership) ValidateProof(ctx context.Context, p *proof.POAPOwnershipVerification, iss issuer.Issuer) (*content.POAPOwnershipVerification, error) {
	if err := f.window().check(p.Statement.IssuedAt); err != nil {
		return nil, err
	}
	owner, err := requireEip155(p.Statement.Subject)
	if err != nil {
		return nil, err
	}
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	text, err := challenge(ctx, iss, stmt, f.ChallengeDelimiter)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(ctx, p.Statement.Subject, text, p.Signature); err != nil {
		return nil, err
	}

	has, err := f.locator().HasEvent(ctx, owner.Address, p.Statement.EventID)
	if err != nil {
		return nil, lookupFailed("failed to look up poaps", err)
	}
	if !has {
		return nil, lookupFailed("found no poap for the event", locator.ErrNotFound)
	}

	return toContent[*content.POAPOwnershipVerification](p, stmt, p.Signature, f.Now.now())
}
