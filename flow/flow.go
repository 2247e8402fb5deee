// Package flow drives witnessing: it issues the statement a subject signs,
// validates the returned proof and turns it into a credential.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/vc"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// Kind classifies a flow failure.
type Kind int

const (
	// Validation failures are permanent for the submitted proof.
	Validation Kind = iota
	// BadLookup failures come from an external source and may succeed on retry.
	BadLookup
)

func (k Kind) String() string {
	switch k {
	case BadLookup:
		return "bad_lookup"
	default:
		return "validation"
	}
}

// Error is returned by every flow operation.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("flow: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("flow: %s: %s: %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsBadLookup reports whether err is a flow lookup failure.
func IsBadLookup(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == BadLookup
}

// IsValidation reports whether err is a flow validation failure.
func IsValidation(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == Validation
}

func validation(reason string, err error) error {
	return &Error{Kind: Validation, Reason: reason, Err: err}
}

// lookupFailed wraps any failure of an external source, including an
// expired or cancelled context.
func lookupFailed(reason string, err error) error {
	return &Error{Kind: BadLookup, Reason: reason, Err: err}
}

// StatementResponse is the text the subject must sign, and the delimiter
// that separates statement and signature when the pair is posted publicly.
type StatementResponse struct {
	Statement string `json:"statement"`
	Delimiter string `json:"delimiter,omitempty"`
}

// Flow is one way of witnessing a claim.
type Flow[S statement.Statement, P proof.Proof[C], C content.Content] interface {
	// Statement returns the text the subject signs for s.
	Statement(ctx context.Context, s S, iss issuer.Issuer) (*StatementResponse, error)
	Validator[P, C]
}

// Validator checks proofs and builds their content.
type Validator[P any, C content.Content] interface {
	// ValidateProof checks p against a statement regenerated from p itself.
	ValidateProof(ctx context.Context, p P, iss issuer.Issuer) (C, error)
}

// Credential validates p and issues a credential with a Data Integrity proof.
func Credential[P any, C content.Content](
	ctx context.Context, v Validator[P, C], p P, iss issuer.Issuer, opts ...vc.CredentialOpt,
) (jsonmap.JSONMap, error) {
	c, err := v.ValidateProof(ctx, p, iss)
	if err != nil {
		return nil, err
	}
	cred, err := vc.Credential(ctx, c, iss, opts...)
	if err != nil {
		return nil, validation("failed to issue credential", err)
	}
	return cred, nil
}

// JWT validates p and issues the credential as a compact JWT.
func JWT[P any, C content.Content](
	ctx context.Context, v Validator[P, C], p P, iss issuer.Issuer, opts ...vc.CredentialOpt,
) (string, error) {
	c, err := v.ValidateProof(ctx, p, iss)
	if err != nil {
		return "", err
	}
	token, err := vc.JWT(ctx, c, iss, opts...)
	if err != nil {
		return "", validation("failed to issue jwt", err)
	}
	return token, nil
}

// Clock returns the current time. A nil Clock is time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func generate(s statement.Statement) (string, error) {
	stmt, err := s.GenerateStatement()
	if err != nil {
		return "", validation("failed to generate statement", err)
	}
	return stmt, nil
}

func checkSignature(ctx context.Context, s subject.Subject, stmt, sig string) error {
	if err := s.ValidSignature(ctx, stmt, sig); err != nil {
		if errors.Is(err, subject.ErrResolve) {
			return lookupFailed("could not resolve subject key", err)
		}
		return validation("signature does not match statement", err)
	}
	return nil
}

// locate asks l for evidence and returns the first signature that the
// subject made over stmt. Statement text found alongside the signature is
// ignored: only the regenerated statement is checked.
func locate(ctx context.Context, l locator.EvidenceLocator, q locator.Query, s subject.Subject, stmt string) (string, error) {
	found, err := l.LocateEvidence(ctx, q)
	if err != nil {
		return "", lookupFailed("failed to locate evidence", err)
	}

	var last error
	for _, e := range found {
		sig := strings.TrimSpace(e.Signature)
		if err := s.ValidSignature(ctx, stmt, sig); err != nil {
			if errors.Is(err, subject.ErrResolve) {
				return "", lookupFailed("could not resolve subject key", err)
			}
			last = err
			continue
		}
		return sig, nil
	}
	if last == nil {
		last = locator.ErrNotFound
	}
	return "", validation("no located signature matches statement", last)
}

func toContent[C content.Content](p proof.Proof[C], stmt, sig string, at time.Time) (C, error) {
	c, err := p.ToContent(stmt, sig, at)
	if err != nil {
		var zero C
		return zero, validation("failed to build content", err)
	}
	return c, nil
}

func requireEip155(s subject.Subjects) (*subject.Eip155, error) {
	if s.Eip155 == nil {
		return nil, validation("only ethereum subjects are supported", nil)
	}
	return s.Eip155, nil
}
