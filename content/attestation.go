package content

import (
	"fmt"

	"github.com/pilacorp/go-witness-sdk/statement"
)

// Attestation is a self-issued attestation, or one issued on the subject's
// behalf by a delegate when Delegate is set.
type Attestation struct {
	Type     statement.AttestationType
	Fields   map[string]interface{}
	Delegate string
}

// NewAttestation builds the content of a self-issued attestation.
func NewAttestation(a statement.Attestation) (*Attestation, error) {
	t, fields, err := a.ToStatement()
	if err != nil {
		return nil, err
	}
	if err := t.Validate(fields); err != nil {
		return nil, err
	}
	return &Attestation{Type: t, Fields: fields}, nil
}

// NewDelegatedAttestation builds the content of an attestation issued by delegate.
func NewDelegatedAttestation(a statement.Attestation, delegate string) (*Attestation, error) {
	if delegate == "" {
		return nil, fmt.Errorf("content: missing delegate")
	}
	c, err := NewAttestation(a)
	if err != nil {
		return nil, err
	}
	c.Delegate = delegate
	return c, nil
}

func (a *Attestation) typeName() string {
	if a.Delegate != "" {
		return a.Type.Delegated()
	}
	return string(a.Type)
}

func (a *Attestation) Context() []interface{} { return DefaultContext() }

func (a *Attestation) Types() []string { return types(a.typeName()) }

func (a *Attestation) CredentialSubject() (map[string]interface{}, error) {
	if _, ok := a.Fields["id"]; !ok {
		return nil, ErrMissingSubject
	}

	m := make(map[string]interface{}, len(a.Fields)+2)
	for k, v := range a.Fields {
		m[k] = v
	}
	m["type"] = []interface{}{a.typeName()}
	if a.Delegate != "" {
		m["delegate"] = a.Delegate
	}
	return m, nil
}

func (a *Attestation) Evidence() ([]Evidence, error) { return nil, nil }
