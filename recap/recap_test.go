package recap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/statement"
)

const (
	serviceKey    = "rebase:did:web:rebasedemokey.pages.dev"
	delegate      = "did:key:z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc#z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc"
	siweSignature = "0xa5f8764d637cab627245b5e008b06f04c50361e34e2b19f1a940646373e7f1810385fd8d5c1501b7f0d899f95603cc4632bc9cd77454f24b5e0d64493657e6161c"
	siweVector    = "localhost:8080 wants you to sign in with your Ethereum account:\n" +
		"0xdA3176d77c04632F2862B14E35bc6B4717FB5016\n\n" +
		"I further authorize the stated URI to perform the following actions on my behalf: (1) 'issue': 'basic_post_attestation' for 'rebase:did:web:rebasedemokey.pages.dev'.\n\n" +
		"URI: " + delegate + "\n" +
		"Version: 1\n" +
		"Chain ID: 1\n" +
		"Nonce: 6JQhF2R1wBhfF6ONV\n" +
		"Issued At: 2023-09-27T17:11:32.013Z\n" +
		"Expiration Time: 2123-09-27T17:11:32.014Z\n" +
		"Not Before: 2022-09-27T17:11:32.013Z\n" +
		"Resources:\n" +
		"- urn:recap:eyJhdHQiOnsicmViYXNlOmRpZDp3ZWI6cmViYXNlZGVtb2tleS5wYWdlcy5kZXYiOnsiaXNzdWUvYmFzaWNfcG9zdF9hdHRlc3RhdGlvbiI6W3t9XX19LCJwcmYiOltdfQ"

	testPrivateKey = "5a369512f8f8a0e6973abd6241ce38103c232966c6153bf8377ac85582812aa4"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return ts
}

func messageOptions(t *testing.T, resources ...string) MessageOptions {
	t.Helper()
	exp := mustTime(t, "2123-01-01T00:00:00.000Z")
	nbf := mustTime(t, "2022-01-01T00:00:00.000Z")
	return MessageOptions{
		Statement:      "Delegate attestations.",
		ChainID:        1,
		IssuedAt:       mustTime(t, "2023-01-01T00:00:00.000Z"),
		ExpirationTime: &exp,
		NotBefore:      &nbf,
		Resources:      resources,
	}
}

func buildMessage(t *testing.T, nonce string, opts MessageOptions) *Message {
	t.Helper()
	addr, err := crypto.AddressFromPrivateKey(testPrivateKey)
	require.NoError(t, err)
	m, err := NewMessage("witness.example.com", addr, delegate, nonce, opts)
	require.NoError(t, err)
	return m
}

func newMessage(t *testing.T, resources ...string) *Message {
	t.Helper()
	return buildMessage(t, "abcdefgh1234", messageOptions(t, resources...))
}

func statementOf(m *Message) string {
	if s := m.GetStatement(); s != nil {
		return *s
	}
	return ""
}

func TestParseDelegatedVector(t *testing.T) {
	p, err := Parse(siweVector, serviceKey)
	require.NoError(t, err)

	assert.Equal(t, delegate, p.Delegate)
	assert.Equal(t, "0xdA3176d77c04632F2862B14E35bc6B4717FB5016", p.Subject.Address)
	assert.Equal(t, "1", p.Subject.ChainID)
	assert.Equal(t, []statement.AttestationType{statement.BasicPostAttestation}, p.Types)
	assert.True(t, p.Authorizes(statement.BasicPostAttestation))
	assert.False(t, p.Authorizes(statement.FollowAttestation))

	assert.Equal(t, "localhost:8080", p.Message.GetDomain())
	assert.Equal(t, "6JQhF2R1wBhfF6ONV", p.Message.GetNonce())
	assert.Equal(t, siweVector, p.Message.String())
	assert.NoError(t, p.Message.VerifySignature(siweSignature))

	did, key, err := p.DelegateKey()
	require.NoError(t, err)
	assert.Equal(t, "did:key:z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc", did)
	assert.Equal(t, "z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc", key)
}

func TestCheckTime(t *testing.T) {
	p, err := Parse(siweVector, serviceKey)
	require.NoError(t, err)

	assert.NoError(t, p.Message.CheckTime(mustTime(t, "2024-06-01T00:00:00Z")))
	assert.ErrorIs(t, p.Message.CheckTime(mustTime(t, "2021-01-01T00:00:00Z")), ErrNotYetValid)
	assert.ErrorIs(t, p.Message.CheckTime(mustTime(t, "2123-09-27T17:11:33Z")), ErrExpired)

	opts := messageOptions(t)
	opts.ExpirationTime, opts.NotBefore = nil, nil
	assert.NoError(t, buildMessage(t, "abcdefgh1234", opts).CheckTime(time.Time{}))
}

func TestMessageRoundTrip(t *testing.T) {
	resource, err := EncodeResource(NewCapability(serviceKey, statement.FollowAttestation, statement.LikeAttestation))
	require.NoError(t, err)

	opts := messageOptions(t, resource, "https://example.com/other")
	opts.RequestID = "req-1"
	m := buildMessage(t, "abcdefgh1234", opts)
	parsed, err := ParseMessage(m.String())
	require.NoError(t, err)

	assert.Equal(t, m.String(), parsed.String())
	assert.Equal(t, "witness.example.com", parsed.GetDomain())
	assert.Equal(t, m.ChecksumAddress(), parsed.ChecksumAddress())
	assert.Equal(t, "Delegate attestations.", statementOf(parsed))
	assert.Equal(t, delegate, parsed.Delegate())
	assert.Equal(t, 1, parsed.GetChainID())
	assert.Equal(t, "abcdefgh1234", parsed.GetNonce())
	assert.Equal(t, "2023-01-01T00:00:00.000Z", parsed.GetIssuedAt())
	assert.Equal(t, []string{resource, "https://example.com/other"}, parsed.ResourceURIs())

	// Without a statement.
	opts.Statement = ""
	parsed, err = ParseMessage(buildMessage(t, "abcdefgh1234", opts).String())
	require.NoError(t, err)
	assert.Empty(t, statementOf(parsed))
	assert.Equal(t, delegate, parsed.Delegate())
}

func TestParseMessageErrors(t *testing.T) {
	const header = "example.com wants you to sign in with your Ethereum account:\n"
	tests := []struct {
		name string
		msg  string
	}{
		{"empty", ""},
		{"not siwe", "hello world"},
		{"bad address", header + "0x1234\n\nURI: did:key:z#z"},
		{"bad chain", header + "0xdA3176d77c04632F2862B14E35bc6B4717FB5016\n\nURI: https://example.com\nVersion: 1\nChain ID: one\nNonce: abcdefgh\nIssued At: 2023-01-01T00:00:00Z"},
		{"bad issued at", header + "0xdA3176d77c04632F2862B14E35bc6B4717FB5016\n\nURI: https://example.com\nVersion: 1\nChain ID: 1\nNonce: abcdefgh\nIssued At: yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMessage(tt.msg)
			assert.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestParseCapabilities(t *testing.T) {
	post, err := EncodeResource(NewCapability(serviceKey, statement.BasicPostAttestation))
	require.NoError(t, err)
	other, err := EncodeResource(NewCapability("rebase:did:web:other.example.com", statement.LikeAttestation))
	require.NoError(t, err)
	unknown, err := EncodeResource(&Capability{Att: map[string]map[string][]interface{}{
		serviceKey: {"issue/not_an_attestation": {}},
	}})
	require.NoError(t, err)

	t.Run("skips undecodable resources", func(t *testing.T) {
		p, err := Parse(newMessage(t, "urn:recap:!!!", "urn:recap:e30", other, post).String(), serviceKey)
		require.NoError(t, err)
		assert.Equal(t, []statement.AttestationType{statement.BasicPostAttestation}, p.Types)
	})

	t.Run("types are sorted", func(t *testing.T) {
		all, err := EncodeResource(NewCapability(serviceKey, statement.LikeAttestation, statement.BasicImageAttestation, statement.FollowAttestation))
		require.NoError(t, err)
		p, err := Parse(newMessage(t, all).String(), serviceKey)
		require.NoError(t, err)
		assert.Equal(t, []statement.AttestationType{
			statement.BasicImageAttestation, statement.FollowAttestation, statement.LikeAttestation,
		}, p.Types)
	})

	t.Run("no capability", func(t *testing.T) {
		_, err := Parse(newMessage(t, other).String(), serviceKey)
		assert.ErrorIs(t, err, ErrNoCapability)

		_, err = Parse(newMessage(t).String(), serviceKey)
		assert.ErrorIs(t, err, ErrNoCapability)
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := Parse(newMessage(t, post, post).String(), serviceKey)
		assert.ErrorIs(t, err, ErrAmbiguousCapability)
	})

	t.Run("no attestation types", func(t *testing.T) {
		_, err := Parse(newMessage(t, unknown).String(), serviceKey)
		assert.ErrorIs(t, err, ErrNoAttestationTypes)
	})

	t.Run("malformed message", func(t *testing.T) {
		_, err := Parse("not siwe", serviceKey)
		assert.ErrorIs(t, err, ErrMalformedMessage)
	})
}

func TestDecodeResource(t *testing.T) {
	c, err := DecodeResource("urn:recap:eyJhdHQiOnsicmViYXNlOmRpZDp3ZWI6cmViYXNlZGVtb2tleS5wYWdlcy5kZXYiOnsiaXNzdWUvYmFzaWNfcG9zdF9hdHRlc3RhdGlvbiI6W3t9XX19LCJwcmYiOltdfQ")
	require.NoError(t, err)
	require.Contains(t, c.Att, serviceKey)
	assert.Contains(t, c.Att[serviceKey], "issue/basic_post_attestation")

	for _, r := range []string{
		"https://example.com",
		"urn:recap:not base64",
		"urn:recap:bm90IGpzb24",    // "not json"
		"urn:recap:eyJhdHQiOjF9",   // {"att":1}
		"urn:recap:eyJwcmYiOltdfQ", // {"prf":[]}
	} {
		_, err := DecodeResource(r)
		assert.Error(t, err, r)
	}
}

func TestVerifySignature(t *testing.T) {
	resource, err := EncodeResource(NewCapability(serviceKey, statement.BasicPostAttestation))
	require.NoError(t, err)
	m := newMessage(t, resource)

	sig, err := crypto.SignEIP191(m.String(), testPrivateKey)
	require.NoError(t, err)
	assert.NoError(t, m.VerifySignature(sig))

	// The vector signature covers the rendered message.
	parsed, err := ParseMessage(siweVector)
	require.NoError(t, err)
	assert.NoError(t, parsed.VerifySignature(siweSignature))

	other := buildMessage(t, "otherNonce123", messageOptions(t, resource))
	assert.ErrorIs(t, other.VerifySignature(sig), ErrSiweSignature)
	assert.ErrorIs(t, m.VerifySignature("0x1234"), ErrSiweSignature)
}

func TestDelegateKey(t *testing.T) {
	tests := []struct {
		delegate string
		err      error
	}{
		{"did:web:example.com#key-1", nil},
		{"did:key:z6Mk", ErrMalformedDelegate},
		{"did:key:z6Mk#a#b", ErrMalformedDelegate},
		{"did:key:z6Mk#", ErrMalformedDelegate},
		{"did:pkh:eip155:1:0xdA3176d77c04632F2862B14E35bc6B4717FB5016#blockchainAccountId", ErrUnsupportedDelegate},
		{"https://example.com#key", ErrUnsupportedDelegate},
	}

	for _, tt := range tests {
		p := &ParsedReCap{Delegate: tt.delegate}
		_, _, err := p.DelegateKey()
		if tt.err == nil {
			assert.NoError(t, err, tt.delegate)
		} else {
			assert.ErrorIs(t, err, tt.err, tt.delegate)
		}
	}
}
