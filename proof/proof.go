// Package proof holds what a subject submits to be witnessed: a statement,
// its signature and any hints for locating external evidence.
package proof

import (
	"fmt"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/statement"
)

// Proof is a statement together with the material that proves it.
type Proof[C content.Content] interface {
	statement.Statement
	// ToContent builds the credential content once statement and signature
	// have been checked. at is the witnessing time recorded in evidence.
	ToContent(statement, signature string, at time.Time) (C, error)
}

// Error is returned when a proof cannot be turned into content.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "proof: " + e.Reason
	}
	return fmt.Sprintf("proof: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func contentError(reason string, err error) error {
	return &Error{Reason: reason, Err: err}
}
