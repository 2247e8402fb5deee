// Package issuer holds the witness's own signing identity.
package issuer

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// Issuer is a Subject that also holds private key material.
type Issuer interface {
	subject.Subject
	// Sign returns a signature over plainText that ValidSignature accepts.
	Sign(ctx context.Context, plainText string) (string, error)
	// SignVC attaches a linked data proof to the credential.
	SignVC(ctx context.Context, vc jsonmap.JSONMap, opts ...jsonmap.ProofOpt) error
	// GenerateJWT encodes the credential as a signed JWT.
	GenerateJWT(ctx context.Context, vc jsonmap.JSONMap) (string, error)
}

// Error is returned when signing or credential encoding fails.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "issuer: " + e.Reason
	}
	return fmt.Sprintf("issuer: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
