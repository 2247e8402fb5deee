package proof

import (
	"encoding/json"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/util"
	"github.com/pilacorp/go-witness-sdk/recap"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var (
	_ Proof[*content.Attestation] = (*Attestation)(nil)
	_ Proof[*content.Attestation] = (*DelegatedAttestation)(nil)
)

// Attestation is a self-issued attestation signed by its subject. It encodes
// as {"<AttestationType>": {"statement": {...}, "signature": "..."}}.
type Attestation struct {
	Statement statement.AttestationStatement
	Signature string
}

type attestationBody struct {
	Statement json.RawMessage `json:"statement"`
	Signature string          `json:"signature"`
}

func (p *Attestation) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *Attestation) ToContent(_, _ string, _ time.Time) (*content.Attestation, error) {
	if p.Statement.Attestation == nil {
		return nil, contentError("empty attestation", nil)
	}
	c, err := content.NewAttestation(p.Statement.Attestation)
	if err != nil {
		return nil, contentError("failed to build attestation content", err)
	}
	return c, nil
}

func (p Attestation) MarshalJSON() ([]byte, error) {
	t, err := p.Statement.Type()
	if err != nil {
		return nil, err
	}
	inner, err := json.Marshal(p.Statement.Attestation)
	if err != nil {
		return nil, err
	}
	return util.MarshalTagged(string(t), attestationBody{Statement: inner, Signature: p.Signature})
}

func (p *Attestation) UnmarshalJSON(data []byte) error {
	tag, raw, err := util.UnmarshalTagged(data)
	if err != nil {
		return contentError("malformed attestation proof", err)
	}

	var body attestationBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return contentError("malformed "+tag+" proof", err)
	}
	if len(body.Statement) == 0 {
		return contentError("missing statement in "+tag+" proof", nil)
	}

	tagged, err := util.MarshalTagged(tag, body.Statement)
	if err != nil {
		return contentError("malformed "+tag+" proof", err)
	}
	if err := json.Unmarshal(tagged, &p.Statement); err != nil {
		return err
	}
	p.Signature = body.Signature

	return nil
}

// DelegatedAttestation is an attestation signed by a delegate key that a
// SIWE message with a ReCap resource authorized on the subject's behalf.
type DelegatedAttestation struct {
	Attestation          statement.AttestationStatement `json:"attestation"`
	AttestationSignature string                         `json:"attestation_signature"`
	ServiceKey           string                         `json:"service_key"`
	SiweMessage          string                         `json:"siwe_message"`
	SiweSignature        string                         `json:"siwe_signature"`
}

func (p *DelegatedAttestation) GenerateStatement() (string, error) {
	return p.Attestation.GenerateStatement()
}

// ParseReCap reads the delegation the SIWE message grants to the proof's service key.
func (p *DelegatedAttestation) ParseReCap() (*recap.ParsedReCap, error) {
	r, err := recap.Parse(p.SiweMessage, p.ServiceKey)
	if err != nil {
		return nil, contentError("failed to parse recap", err)
	}
	return r, nil
}

func (p *DelegatedAttestation) ToContent(_, _ string, _ time.Time) (*content.Attestation, error) {
	if p.Attestation.Attestation == nil {
		return nil, contentError("empty attestation", nil)
	}
	r, err := p.ParseReCap()
	if err != nil {
		return nil, err
	}
	c, err := content.NewDelegatedAttestation(p.Attestation.Attestation, r.Delegate)
	if err != nil {
		return nil, contentError("failed to build delegated attestation content", err)
	}
	return c, nil
}
