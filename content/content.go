// Package content holds the credential fragments produced from validated proofs.
package content

import (
	"errors"
	"time"

	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// VerifiableCredential is the base type of every witness credential.
const VerifiableCredential = "VerifiableCredential"

// TimestampFormat is RFC 3339 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// ErrMissingSubject is returned when a content has no subject to describe.
var ErrMissingSubject = errors.New("content: missing subject")

// Content is the @context, type, credentialSubject and evidence of a credential.
type Content interface {
	Context() []interface{}
	Types() []string
	CredentialSubject() (map[string]interface{}, error)
	// Evidence returns nil when the credential carries none.
	Evidence() ([]Evidence, error)
}

// Evidence is a single typed evidence entry.
type Evidence struct {
	Type       string
	Properties map[string]interface{}
}

// ToMap renders the entry as a JSON object.
func (e Evidence) ToMap() map[string]interface{} {
	m := make(map[string]interface{}, len(e.Properties)+1)
	for k, v := range e.Properties {
		m[k] = v
	}
	m["type"] = []interface{}{e.Type}
	return m
}

// DefaultContext is the JSON-LD context shared by witness credentials.
func DefaultContext() []interface{} {
	return []interface{}{schema.CredentialsV1Context, schema.RebaseV1Context, schema.SchemaOrgContext}
}

// Timestamp formats t for evidence entries.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

func types(t string) []string {
	return []string{VerifiableCredential, t}
}

func subjectID(s subject.Subjects) (string, error) {
	if s.Inner() == nil {
		return "", ErrMissingSubject
	}
	return s.DID(), nil
}

func single(e Evidence) ([]Evidence, error) {
	return []Evidence{e}, nil
}
