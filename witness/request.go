package witness

import (
	"encoding/json"
	"fmt"

	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/common/util"
)

// Flow tags of the request envelopes and of Config.
const (
	AttestationTag          = "Attestation"
	DelegatedAttestationTag = "DelegatedAttestation"
	DNSVerificationTag      = "DnsVerification"
	EmailVerificationTag    = "EmailVerification"
	GitHubVerificationTag   = "GitHubVerification"
	NFTOwnershipTag         = "NftOwnershipVerification"
	POAPOwnershipTag        = "PoapOwnershipVerification"
	RedditVerificationTag   = "RedditVerification"
	SameControllerTag       = "SameControllerAssertion"
	SoundCloudTag           = "SoundCloudVerification"
	TwitterVerificationTag  = "TwitterVerification"
)

// Tagged is an externally tagged value: {"<Tag>": <Body>}.
type Tagged struct {
	Tag  string
	Body json.RawMessage
}

// NewTagged encodes v as the body of tag.
func NewTagged(tag string, v interface{}) (Tagged, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Tagged{}, fmt.Errorf("failed to encode %s: %w", tag, err)
	}
	return Tagged{Tag: tag, Body: body}, nil
}

func (t Tagged) MarshalJSON() ([]byte, error) {
	return util.MarshalTagged(t.Tag, t.Body)
}

func (t *Tagged) UnmarshalJSON(data []byte) error {
	tag, body, err := util.UnmarshalTagged(data)
	if err != nil {
		return err
	}
	t.Tag, t.Body = tag, body
	return nil
}

// StatementRequest asks for the statement of one flow.
type StatementRequest struct {
	Opts Tagged `json:"opts"`
}

// WitnessRequest submits a proof to one flow.
type WitnessRequest struct {
	Proof Tagged `json:"proof"`
}

// NewStatementRequest builds a request for the statement s of the flow tag.
func NewStatementRequest(tag string, s interface{}) (StatementRequest, error) {
	opts, err := NewTagged(tag, s)
	return StatementRequest{Opts: opts}, err
}

// NewWitnessRequest builds a request witnessing the proof p of the flow tag.
func NewWitnessRequest(tag string, p interface{}) (WitnessRequest, error) {
	pr, err := NewTagged(tag, p)
	return WitnessRequest{Proof: pr}, err
}

// JWTResponse carries a credential issued as a JWT.
type JWTResponse struct {
	JWT string `json:"jwt"`
}

// CredentialResponse carries a credential with a Data Integrity proof.
type CredentialResponse struct {
	Credential jsonmap.JSONMap `json:"credential"`
}
