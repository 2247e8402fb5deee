package jsonmap

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
	"github.com/pilacorp/go-witness-sdk/credential/common/schema/schematest"
)

var offline = WithDocumentLoader(schematest.DocumentLoader())

func testCredential() JSONMap {
	return JSONMap{
		"@context":     []interface{}{schema.CredentialsV1Context, schema.RebaseV1Context, schema.SchemaOrgContext},
		"id":           "urn:uuid:3f1b3a52-48a4-4b3e-9b0b-6d8b0e8a2c11",
		"type":         []interface{}{"VerifiableCredential", "BasicPostAttestation"},
		"issuer":       "did:web:witness.example.com",
		"issuanceDate": "2024-01-01T00:00:00.000Z",
		"credentialSubject": map[string]interface{}{
			"id":    "did:pkh:eip155:1:0xdA3176d77c04632F2862B14E35bc6B4717FB5016",
			"type":  []interface{}{"BasicPostAttestation"},
			"title": "Hello",
			"body":  "World",
		},
	}
}

func TestAddEd25519ProofRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	m := testCredential()
	require.NoError(t, m.AddEd25519Proof(priv, "did:web:witness.example.com#controller", offline))

	proof, err := m.Proof()
	require.NoError(t, err)
	assert.Equal(t, ProofType, proof.Type)
	assert.Equal(t, Cryptosuite, proof.Cryptosuite)
	assert.Equal(t, AssertionPurpose, proof.ProofPurpose)
	assert.Equal(t, "did:web:witness.example.com#controller", proof.VerificationMethod)
	assert.Equal(t, byte('z'), proof.ProofValue[0])

	assert.NoError(t, m.VerifyEd25519Proof(pub, offline))

	// Survives a JSON round trip.
	raw, err := m.ToJSON()
	require.NoError(t, err)
	var decoded JSONMap
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NoError(t, decoded.VerifyEd25519Proof(pub, offline))
}

func TestVerifyEd25519ProofRejectsTampering(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	m := testCredential()
	require.NoError(t, m.AddEd25519Proof(priv, "did:web:witness.example.com#controller", offline))

	m["credentialSubject"].(map[string]interface{})["body"] = "Changed"
	assert.Error(t, m.VerifyEd25519Proof(pub, offline))

	other, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	fresh := testCredential()
	require.NoError(t, fresh.AddEd25519Proof(priv, "did:web:witness.example.com#controller", offline))
	assert.Error(t, fresh.VerifyEd25519Proof(other, offline))
}

func TestProofClock(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	created := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	m := testCredential()
	require.NoError(t, m.AddEd25519Proof(priv, "did:web:witness.example.com#controller",
		offline, WithProofClock(func() time.Time { return created })))

	proof, err := m.Proof()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T12:30:00Z", proof.Created)
	assert.NoError(t, m.VerifyEd25519Proof(pub, offline))

	m[proofField].(map[string]interface{})["created"] = "2024-01-02T12:30:00Z"
	assert.Error(t, m.VerifyEd25519Proof(pub, offline))
}

func TestProofMissing(t *testing.T) {
	m := testCredential()
	_, err := m.Proof()
	assert.Error(t, err)

	assert.Error(t, m.AddEd25519Proof(nil, ""))
	assert.Error(t, m.AddCustomProof(nil))
}
