package model

import "encoding/json"

// Proof represents a Data Integrity proof attached to a Verifiable Credential.
type Proof struct {
	Type               string `json:"type"`
	Cryptosuite        string `json:"cryptosuite,omitempty"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue,omitempty"`
}

// ToMap converts the proof into a generic JSON object.
func (p *Proof) ToMap() (map[string]interface{}, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	return m, nil
}

// ProofFromMap parses a generic JSON object into a Proof.
func ProofFromMap(m map[string]interface{}) (*Proof, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	var p Proof
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}

	return &p, nil
}
