package jsonmap

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"time"

	"github.com/multiformats/go-multibase"
	"github.com/piprate/json-gold/ld"

	"github.com/pilacorp/go-witness-sdk/credential/common/model"
	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
)

// Data Integrity proof parameters used by the witness.
const (
	ProofType          = "DataIntegrityProof"
	Cryptosuite        = "eddsa-rdfc-2022"
	AssertionPurpose   = "assertionMethod"
	proofField         = "proof"
	contextField       = "@context"
	proofCreatedFormat = "2006-01-02T15:04:05Z"
)

// ProofOpt configures signing and verification of Data Integrity proofs.
type ProofOpt func(*proofOptions)

type proofOptions struct {
	now    func() time.Time
	loader ld.DocumentLoader
}

// WithProofClock sets the clock used for proof.created.
func WithProofClock(now func() time.Time) ProofOpt {
	return func(o *proofOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDocumentLoader sets the loader that resolves JSON-LD contexts during
// canonicalization.
func WithDocumentLoader(loader ld.DocumentLoader) ProofOpt {
	return func(o *proofOptions) {
		o.loader = loader
	}
}

func getProofOptions(opts []ProofOpt) *proofOptions {
	o := &proofOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// ToJSON serializes the JSONMap to JSON.
func (m *JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// Canonicalize returns the digest of the canonical JSONMap, excluding the proof field.
func (m *JSONMap) Canonicalize(opts ...ProofOpt) ([]byte, error) {
	return m.canonicalize(getProofOptions(opts))
}

func (m *JSONMap) canonicalize(o *proofOptions) ([]byte, error) {
	mCopy := make(JSONMap)
	for k, v := range *m {
		if k != proofField {
			mCopy[k] = v
		}
	}

	return canonicalDigest(mCopy, o)
}

// AddEd25519Proof signs the document with an eddsa-rdfc-2022 Data Integrity proof.
func (m *JSONMap) AddEd25519Proof(priv ed25519.PrivateKey, verificationMethod string, opts ...ProofOpt) error {
	if m == nil {
		return fmt.Errorf("JSONMap is nil")
	}
	if verificationMethod == "" {
		return fmt.Errorf("verification method is required")
	}
	if len(priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("invalid ed25519 private key")
	}

	o := getProofOptions(opts)
	proof := &model.Proof{
		Type:               ProofType,
		Cryptosuite:        Cryptosuite,
		Created:            o.now().UTC().Format(proofCreatedFormat),
		VerificationMethod: verificationMethod,
		ProofPurpose:       AssertionPurpose,
	}

	signData, err := m.signingInput(proof, o)
	if err != nil {
		return err
	}

	proofValue, err := multibase.Encode(multibase.Base58BTC, ed25519.Sign(priv, signData))
	if err != nil {
		return fmt.Errorf("failed to encode proof value: %w", err)
	}
	proof.ProofValue = proofValue

	return m.AddCustomProof(proof)
}

// AddCustomProof attaches a prepared proof to the JSONMap.
func (m *JSONMap) AddCustomProof(proof *model.Proof) error {
	if m == nil {
		return fmt.Errorf("JSONMap is nil")
	}
	if proof == nil {
		return fmt.Errorf("proof is nil")
	}

	pm, err := proof.ToMap()
	if err != nil {
		return fmt.Errorf("failed to serialize proof: %w", err)
	}
	(*m)[proofField] = pm

	return nil
}

// Proof returns the attached proof.
func (m *JSONMap) Proof() (*model.Proof, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	raw, ok := (*m)[proofField]
	if !ok {
		return nil, fmt.Errorf("JSONMap has no proof")
	}
	if list, ok := raw.([]interface{}); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("JSONMap has no proof")
		}
		raw = list[0]
	}

	pm, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid proof format: expected map[string]interface{}, got %T", raw)
	}

	return model.ProofFromMap(pm)
}

// VerifyEd25519Proof checks the attached eddsa-rdfc-2022 proof with pub.
func (m *JSONMap) VerifyEd25519Proof(pub ed25519.PublicKey, opts ...ProofOpt) error {
	proof, err := m.Proof()
	if err != nil {
		return err
	}
	if proof.Type != ProofType || proof.Cryptosuite != Cryptosuite {
		return fmt.Errorf("unsupported proof %s/%s", proof.Type, proof.Cryptosuite)
	}

	_, sig, err := multibase.Decode(proof.ProofValue)
	if err != nil {
		return fmt.Errorf("failed to decode proof value: %w", err)
	}

	unsigned := *proof
	unsigned.ProofValue = ""
	signData, err := m.signingInput(&unsigned, getProofOptions(opts))
	if err != nil {
		return err
	}

	if len(pub) != ed25519.PublicKeySize || !ed25519.Verify(pub, signData, sig) {
		return fmt.Errorf("proof signature does not verify")
	}

	return nil
}

// signingInput is sha256(canonical proof config) || sha256(canonical document).
func (m *JSONMap) signingInput(proof *model.Proof, o *proofOptions) ([]byte, error) {
	proofConfig, err := proof.ToMap()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize proof: %w", err)
	}
	proofConfig[contextField] = (*m)[contextField]

	proofHash, err := canonicalDigest(proofConfig, o)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize proof config: %w", err)
	}

	docHash, err := m.canonicalize(o)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize JSONMap: %w", err)
	}

	return append(proofHash, docHash...), nil
}

func canonicalDigest(doc map[string]interface{}, o *proofOptions) ([]byte, error) {
	// Round trip through JSON so typed Go values become plain JSON values.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var plain map[string]interface{}
	if err := json.Unmarshal(encoded, &plain); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	canonicalDoc, err := schema.CanonicalizeDocument(plain, schema.WithDocumentLoader(o.loader))
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize document: %w", err)
	}

	return schema.ComputeDigest(canonicalDoc)
}
