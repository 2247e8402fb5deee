// Package subject models the identities a witness attests for and verifies
// their signatures: Ethereum (EIP-191), Solana (Ed25519) and Ed25519 keys
// published as did:web or did:key.
package subject

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pilacorp/go-witness-sdk/resolver"
)

// Subject is a verifiable identity reference.
type Subject interface {
	// DID is the subject's decentralized identifier.
	DID() string
	// DisplayID is the human readable identity used in statements.
	DisplayID() string
	// VerificationMethod identifies the key that signs for the subject.
	VerificationMethod() string
	// StatementTitle names the kind of identity in statements.
	StatementTitle() string
	// ValidSignature checks that signature is the subject's signature over statement.
	ValidSignature(ctx context.Context, statement, signature string) error
}

// Error is returned for malformed identities and failed signature checks.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "subject: " + e.Reason
	}
	return fmt.Sprintf("subject: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(reason string, err error) error {
	return &Error{Reason: reason, Err: err}
}

// Subjects is the tagged JSON envelope around one concrete subject:
//
//	{"pkh":{"eip155":{"address":"0x..","chain_id":"1"}}}
//	{"pkh":{"solana":{"address":".."}}}
//	{"web":{"ed25519":{"did":"did:web:..","key_name":"controller"}}}
//	{"key":{"ed25519":{"did":"did:key:..","key_name":".."}}}
type Subjects struct {
	Eip155  *Eip155
	Solana  *Solana
	Ed25519 *Ed25519
}

// Of wraps a concrete subject in its envelope.
func Of(s Subject) (Subjects, error) {
	switch v := s.(type) {
	case *Eip155:
		return Subjects{Eip155: v}, nil
	case *Solana:
		return Subjects{Solana: v}, nil
	case *Ed25519:
		return Subjects{Ed25519: v}, nil
	case Subjects:
		return v, nil
	case *Subjects:
		return *v, nil
	default:
		return Subjects{}, validationError(fmt.Sprintf("unsupported subject %T", s), nil)
	}
}

// Inner returns the wrapped subject, or nil for an empty envelope.
func (s Subjects) Inner() Subject {
	switch {
	case s.Eip155 != nil:
		return s.Eip155
	case s.Solana != nil:
		return s.Solana
	case s.Ed25519 != nil:
		return s.Ed25519
	default:
		return nil
	}
}

func (s Subjects) DID() string {
	if in := s.Inner(); in != nil {
		return in.DID()
	}
	return ""
}

func (s Subjects) DisplayID() string {
	if in := s.Inner(); in != nil {
		return in.DisplayID()
	}
	return ""
}

func (s Subjects) VerificationMethod() string {
	if in := s.Inner(); in != nil {
		return in.VerificationMethod()
	}
	return ""
}

func (s Subjects) StatementTitle() string {
	if in := s.Inner(); in != nil {
		return in.StatementTitle()
	}
	return ""
}

func (s Subjects) ValidSignature(ctx context.Context, statement, signature string) error {
	in := s.Inner()
	if in == nil {
		return validationError("empty subject", nil)
	}
	return in.ValidSignature(ctx, statement, signature)
}

// MarshalJSON emits the tagged envelope.
func (s Subjects) MarshalJSON() ([]byte, error) {
	var outer, inner string
	var value interface{}
	switch {
	case s.Eip155 != nil:
		outer, inner, value = "pkh", "eip155", s.Eip155
	case s.Solana != nil:
		outer, inner, value = "pkh", "solana", s.Solana
	case s.Ed25519 != nil:
		outer, inner, value = "web", "ed25519", s.Ed25519
		if strings.HasPrefix(s.Ed25519.Identifier, didKeyPrefix) {
			outer = "key"
		}
	default:
		return nil, validationError("empty subject", nil)
	}

	return json.Marshal(map[string]map[string]interface{}{outer: {inner: value}})
}

// UnmarshalJSON parses the tagged envelope and validates the subject.
func (s *Subjects) UnmarshalJSON(data []byte) error {
	outer, raw, err := singleKey(data)
	if err != nil {
		return err
	}
	inner, body, err := singleKey(raw)
	if err != nil {
		return err
	}

	*s = Subjects{}
	switch outer + "/" + inner {
	case "pkh/eip155":
		var v Eip155
		if err := strictUnmarshal(body, &v); err != nil {
			return err
		}
		if err := v.Validate(); err != nil {
			return err
		}
		s.Eip155 = &v
	case "pkh/solana":
		var v Solana
		if err := strictUnmarshal(body, &v); err != nil {
			return err
		}
		if err := v.Validate(); err != nil {
			return err
		}
		s.Solana = &v
	case "web/ed25519", "key/ed25519":
		var v Ed25519
		if err := strictUnmarshal(body, &v); err != nil {
			return err
		}
		if err := v.Validate(); err != nil {
			return err
		}
		s.Ed25519 = &v
	default:
		return validationError(fmt.Sprintf("unknown subject kind %s/%s", outer, inner), nil)
	}

	return nil
}

func singleKey(data []byte) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, validationError("malformed subject", err)
	}
	if len(m) != 1 {
		return "", nil, validationError(fmt.Sprintf("expected exactly one subject tag, got %d", len(m)), nil)
	}
	for k, v := range m {
		return k, v, nil
	}
	return "", nil, nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return validationError("malformed subject", err)
	}
	return nil
}

// WithResolver returns s with any Ed25519 subject bound to r.
func (s Subjects) WithResolver(r resolver.Resolver) Subjects {
	if s.Ed25519 != nil && r != nil {
		s.Ed25519 = s.Ed25519.WithResolver(r)
	}
	return s
}
