// Package vc turns validated content into witness credentials.
package vc

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/piprate/json-gold/ld"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/resolver"
)

// CredentialContents represents the structured contents of a witness credential.
type CredentialContents struct {
	Context      []interface{}      // JSON-LD contexts
	ID           string             // Credential identifier
	Types        []string           // Credential types
	Issuer       string             // Issuer DID
	IssuanceDate time.Time          // Issuance date
	Subject      Subject            // Credential subject
	Evidence     []content.Evidence // Evidence entries, if any
}

// Subject represents the credentialSubject field.
type Subject struct {
	ID           string                 // Subject identifier
	CustomFields map[string]interface{} // Additional subject data
}

// CredentialOpt configures credential processing options.
type CredentialOpt func(*credentialOptions)

// credentialOptions holds configuration for credential processing.
type credentialOptions struct {
	id               string
	now              func() time.Time
	isValidateSchema bool
	loader           ld.DocumentLoader
}

// WithID sets the credential id instead of a random urn:uuid.
func WithID(id string) CredentialOpt {
	return func(c *credentialOptions) {
		c.id = id
	}
}

// WithClock sets the clock used for issuanceDate and proof.created.
func WithClock(now func() time.Time) CredentialOpt {
	return func(c *credentialOptions) {
		c.now = now
	}
}

// WithSchemaValidation validates the unsigned credential before it is returned.
func WithSchemaValidation() CredentialOpt {
	return func(c *credentialOptions) {
		c.isValidateSchema = true
	}
}

// WithDocumentLoader sets the loader for the JSON-LD contexts of Data
// Integrity proofs.
func WithDocumentLoader(loader ld.DocumentLoader) CredentialOpt {
	return func(c *credentialOptions) {
		c.loader = loader
	}
}

func (c *credentialOptions) proofOpts() []jsonmap.ProofOpt {
	return []jsonmap.ProofOpt{jsonmap.WithProofClock(c.now), jsonmap.WithDocumentLoader(c.loader)}
}

func getOptions(opts ...CredentialOpt) *credentialOptions {
	options := &credentialOptions{now: time.Now}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// NewCredentialContents assembles the contents of a credential for c issued by issuerDID.
func NewCredentialContents(c content.Content, issuerDID string, opts ...CredentialOpt) (*CredentialContents, error) {
	if c == nil {
		return nil, fmt.Errorf("content is nil")
	}
	if issuerDID == "" {
		return nil, fmt.Errorf("issuer is required")
	}

	options := getOptions(opts...)

	subj, err := c.CredentialSubject()
	if err != nil {
		return nil, fmt.Errorf("failed to build credential subject: %w", err)
	}
	evidence, err := c.Evidence()
	if err != nil {
		return nil, fmt.Errorf("failed to build evidence: %w", err)
	}

	id := options.id
	if id == "" {
		id = newCredentialID()
	}

	return &CredentialContents{
		Context:      c.Context(),
		ID:           id,
		Types:        c.Types(),
		Issuer:       issuerDID,
		IssuanceDate: options.now(),
		Subject:      SubjectFromJSON(subj),
		Evidence:     evidence,
	}, nil
}

// Unsigned returns the credential for c without a proof.
func Unsigned(c content.Content, issuerDID string, opts ...CredentialOpt) (jsonmap.JSONMap, error) {
	vcc, err := NewCredentialContents(c, issuerDID, opts...)
	if err != nil {
		return nil, err
	}

	m, err := serializeCredentialContents(vcc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize credential contents: %w", err)
	}

	if getOptions(opts...).isValidateSchema {
		if err := validateCredential(m); err != nil {
			return nil, fmt.Errorf("failed to validate credential: %w", err)
		}
	}

	return m, nil
}

// ParseCredential verifies a credential given either as JSON with a Data
// Integrity proof or as a JWT, and returns it.
func ParseCredential(ctx context.Context, rawCredential []byte, r resolver.Resolver, opts ...CredentialOpt) (jsonmap.JSONMap, error) {
	if len(rawCredential) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	if isJSONCredential(rawCredential) {
		// A JSON string holding a JWT.
		var token string
		if err := json.Unmarshal(rawCredential, &token); err == nil {
			if !isJWTCredential(token) {
				return nil, fmt.Errorf("failed to parse credential: not a valid JWT")
			}
			return VerifyJWT(ctx, token, r)
		}

		var m jsonmap.JSONMap
		if err := json.Unmarshal(rawCredential, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
		}
		if err := Verify(ctx, m, r, opts...); err != nil {
			return nil, err
		}
		return m, nil
	}

	valStr := strings.TrimSpace(string(rawCredential))
	if isJWTCredential(valStr) {
		return VerifyJWT(ctx, valStr, r)
	}

	return nil, fmt.Errorf("failed to parse credential: not a valid JWT or embedded credential")
}

func isJSONCredential(rawCredential []byte) bool {
	return json.Valid(rawCredential)
}

var jwtRegexp = regexp.MustCompile(`^[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+$`)

func isJWTCredential(valStr string) bool {
	return jwtRegexp.MatchString(valStr)
}
