package statement

import (
	"encoding/json"

	"github.com/pilacorp/go-witness-sdk/credential/common/util"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// AttestationStatement holds exactly one attestation and encodes as
// {"<AttestationType>": {...}}.
type AttestationStatement struct {
	Attestation
}

var attestationFactories = map[AttestationType]func() Attestation{
	BasicImageAttestation:       func() Attestation { return &BasicImageAttestationStatement{} },
	BasicPostAttestation:        func() Attestation { return &BasicPostAttestationStatement{} },
	BasicProfileAttestation:     func() Attestation { return &BasicProfileAttestationStatement{} },
	BasicTagAttestation:         func() Attestation { return &BasicTagAttestationStatement{} },
	BookReviewAttestation:       func() Attestation { return &BookReviewAttestationStatement{} },
	DappPreferencesAttestation:  func() Attestation { return &DappPreferencesAttestationStatement{} },
	FollowAttestation:           func() Attestation { return &FollowAttestationStatement{} },
	LikeAttestation:             func() Attestation { return &LikeAttestationStatement{} },
	ProgressBookLinkAttestation: func() Attestation { return &ProgressBookLinkAttestationStatement{} },
}

// Type returns the attestation type of the held statement.
func (a AttestationStatement) Type() (AttestationType, error) {
	if a.Attestation == nil {
		return "", statementError("empty attestation")
	}
	t, _, err := a.Attestation.ToStatement()
	return t, err
}

func (a AttestationStatement) GenerateStatement() (string, error) {
	if a.Attestation == nil {
		return "", statementError("empty attestation")
	}
	return a.Attestation.GenerateStatement()
}

func (a AttestationStatement) StatementSubject() subject.Subjects {
	if a.Attestation == nil {
		return subject.Subjects{}
	}
	return a.Attestation.StatementSubject()
}

func (a AttestationStatement) MarshalJSON() ([]byte, error) {
	t, err := a.Type()
	if err != nil {
		return nil, err
	}
	return util.MarshalTagged(string(t), a.Attestation)
}

func (a *AttestationStatement) UnmarshalJSON(data []byte) error {
	tag, body, err := util.UnmarshalTagged(data)
	if err != nil {
		return &Error{Reason: "malformed attestation", Err: err}
	}

	factory, ok := attestationFactories[AttestationType(tag)]
	if !ok {
		return statementError("unknown attestation type %q", tag)
	}

	inner := factory()
	if err := json.Unmarshal(body, inner); err != nil {
		return &Error{Reason: "malformed " + tag, Err: err}
	}
	a.Attestation = inner

	return nil
}

func (a AttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	if a.Attestation == nil {
		return "", nil, statementError("empty attestation")
	}
	return a.Attestation.ToStatement()
}
