// Package locator fetches the externally hosted evidence a witness checks a
// proof against: DNS TXT records, gists, tweets, profile descriptions and
// token ownership records.
package locator

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the source answered but held no matching evidence.
var ErrNotFound = errors.New("expected evidence not found")

//go:generate mockgen -source=locator.go -destination=mocks/mocks.go -package=mocks EvidenceLocator,NFTLocator,POAPLocator,Mailer

// Query names where a subject published evidence.
type Query struct {
	// Handle is the account, domain or permalink the evidence is published under.
	Handle string
	// Ref points at a single published item: a gist id or a tweet id.
	Ref string
	// Prefix marks the evidence inside a DNS TXT record.
	Prefix string
	// Delimiter separates the statement from the signature in posted text.
	Delimiter string
}

// Evidence is a candidate statement and signature found at the source.
// Statement is empty for sources that publish only a signature.
type Evidence struct {
	Statement string
	Signature string
}

// EvidenceLocator finds published evidence for a query.
type EvidenceLocator interface {
	LocateEvidence(ctx context.Context, q Query) ([]Evidence, error)
}

// NFTLocator reports whether an account holds a token from a contract.
type NFTLocator interface {
	OwnsContract(ctx context.Context, network, owner, contract string) (bool, error)
}

// POAPLocator reports whether an account holds a POAP for an event.
type POAPLocator interface {
	HasEvent(ctx context.Context, owner string, eventID int64) (bool, error)
}

// Mail is a plain text message sent by the witness.
type Mail struct {
	To       string
	Subject  string
	Body     string
	From     string
	FromName string
}

// Mailer delivers challenge mails.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// LocatorFunc adapts a function to EvidenceLocator.
type LocatorFunc func(ctx context.Context, q Query) ([]Evidence, error)

// LocateEvidence implements EvidenceLocator.
func (f LocatorFunc) LocateEvidence(ctx context.Context, q Query) ([]Evidence, error) {
	return f(ctx, q)
}
