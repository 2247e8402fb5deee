package schema

import (
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() map[string]interface{} {
	return map[string]interface{}{
		"@context":     []interface{}{CredentialsV1Context, RebaseV1Context, SchemaOrgContext},
		"id":           "urn:uuid:bd3b7b04-6fbd-4fb5-955e-bf3e1d568a8b",
		"type":         []interface{}{"VerifiableCredential", "DnsVerification"},
		"issuer":       "did:web:witness.example.com",
		"issuanceDate": "2024-01-01T00:00:00.000Z",
		"credentialSubject": map[string]interface{}{
			"id":     "did:pkh:eip155:1:0xdA3176d77c04632F2862B14E35bc6B4717FB5016",
			"sameAs": "dns:example.com",
		},
	}
}

func offlineLoader(t *testing.T) *DocumentLoader {
	t.Helper()
	l, err := NewDocumentLoader(
		WithoutRemote(),
		WithContext(RebaseV1Context, []byte(`{"@context": {"@vocab": "https://spec.rebase.xyz/vocab#"}}`)),
		WithContext(SchemaOrgContext, []byte(`{"@context": {"@vocab": "http://schema.org/"}}`)),
	)
	require.NoError(t, err)
	return l
}

func TestCanonicalizeDocument(t *testing.T) {
	loader := WithDocumentLoader(offlineLoader(t))
	first, err := CanonicalizeDocument(testDocument(), loader)
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.Contains(t, string(first), "<https://www.w3.org/2018/credentials#issuer> <did:web:witness.example.com>")
	assert.Contains(t, string(first), "\"dns:example.com\"")

	second, err := CanonicalizeDocument(testDocument(), loader)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changed := testDocument()
	changed["issuanceDate"] = "2024-01-02T00:00:00.000Z"
	third, err := CanonicalizeDocument(changed, loader)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestCanonicalizeDocumentErrors(t *testing.T) {
	_, err := CanonicalizeDocument(nil)
	assert.Error(t, err)

	doc := testDocument()
	doc["@context"] = []interface{}{"https://unknown.example.com/context"}
	_, err = CanonicalizeDocument(doc, WithDocumentLoader(offlineLoader(t)))
	assert.Error(t, err)
}

func TestDocumentLoader(t *testing.T) {
	loader := offlineLoader(t)
	for _, u := range []string{CredentialsV1Context, RebaseV1Context, SchemaOrgContext} {
		rd, err := loader.LoadDocument(u)
		require.NoError(t, err)
		assert.Equal(t, u, rd.DocumentURL)
	}

	_, err := loader.LoadDocument("https://example.com/missing")
	assert.ErrorIs(t, err, ErrContextNotFound)
}

func TestEmbeddedCredentialsContext(t *testing.T) {
	l, err := NewDocumentLoader(WithoutRemote())
	require.NoError(t, err)
	rd, err := l.LoadDocument(CredentialsV1Context)
	require.NoError(t, err)

	ctx := rd.Document.(map[string]interface{})["@context"].(map[string]interface{})
	assert.Equal(t, true, ctx["@protected"])
	vc := ctx["VerifiableCredential"].(map[string]interface{})
	assert.Equal(t, "https://www.w3.org/2018/credentials#VerifiableCredential", vc["@id"])
	proof := ctx["proof"].(map[string]interface{})
	assert.Equal(t, "@graph", proof["@container"])

	_, err = l.LoadDocument(RebaseV1Context)
	assert.ErrorIs(t, err, ErrContextNotFound)
}

type countingLoader struct{ calls []string }

func (c *countingLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	c.calls = append(c.calls, u)
	return &ld.RemoteDocument{DocumentURL: u, Document: map[string]interface{}{"@context": map[string]interface{}{}}}, nil
}

func TestRemoteLoader(t *testing.T) {
	remote := &countingLoader{}
	l, err := NewDocumentLoader(WithRemoteDocumentLoader(remote))
	require.NoError(t, err)

	_, err = l.LoadDocument(CredentialsV1Context)
	require.NoError(t, err)
	_, err = l.LoadDocument(SchemaOrgContext)
	require.NoError(t, err)
	assert.Equal(t, []string{SchemaOrgContext}, remote.calls)
}

func TestValidator(t *testing.T) {
	v, err := NewValidator(`{"type":"object","required":["att"],"properties":{"att":{"type":"object"}}}`)
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{"att": map[string]interface{}{}}))

	err = v.Validate(map[string]interface{}{"att": "nope"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "att"))

	_, err = NewValidator(`{"type": 12}`)
	assert.Error(t, err)
}

func TestComputeDigest(t *testing.T) {
	d, err := ComputeDigest([]byte("abc"))
	require.NoError(t, err)
	assert.Len(t, d, 32)

	_, err = ComputeDigest(nil)
	assert.Error(t, err)
}
