package model

import (
	"strings"

	jose "github.com/go-jose/go-jose/v3"
)

// DIDDocument is the subset of a DID document the witness reads and publishes.
type DIDDocument struct {
	Context            interface{}               `json:"@context"`
	ID                 string                    `json:"id"`
	VerificationMethod []VerificationMethodEntry `json:"verificationMethod"`
	Authentication     []string                  `json:"authentication,omitempty"`
	AssertionMethod    []string                  `json:"assertionMethod,omitempty"`
}

// VerificationMethodEntry represents a single verification method in a DID Document.
type VerificationMethodEntry struct {
	ID                 string           `json:"id"`
	Type               string           `json:"type"`
	Controller         string           `json:"controller"`
	PublicKeyJwk       *jose.JSONWebKey `json:"publicKeyJwk,omitempty"`
	PublicKeyMultibase string           `json:"publicKeyMultibase,omitempty"`
}

// FindVerificationMethod returns the entry whose id matches methodID. Relative ids
// ("#key") are resolved against the document id.
func (d *DIDDocument) FindVerificationMethod(methodID string) (*VerificationMethodEntry, bool) {
	for i := range d.VerificationMethod {
		id := d.VerificationMethod[i].ID
		if strings.HasPrefix(id, "#") {
			id = d.ID + id
		}
		if id == methodID {
			return &d.VerificationMethod[i], true
		}
	}

	return nil, false
}
