package flow

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/credential/vc"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/recap"
	"github.com/pilacorp/go-witness-sdk/resolver"
	"github.com/pilacorp/go-witness-sdk/statement"
)

const (
	serviceKey     = "rebase:did:web:rebasedemokey.pages.dev"
	ethPrivateKey  = "5a369512f8f8a0e6973abd6241ce38103c232966c6153bf8377ac85582812aa4"
	delegateSeed   = "4ccd089b28ff96da9db6c346ec114e0f5b8a319f35aba624da8cf6ed4fb8a6fb"
	vectorDelegate = "did:key:z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc#z6MkiqEVE7UdwpRncdBH5QQQ7THmd8DzuANApbmaXyXNKPSc"
	vectorSiwe     = "localhost:8080 wants you to sign in with your Ethereum account:\n" +
		ethAddress + "\n\n" +
		"I further authorize the stated URI to perform the following actions on my behalf: (1) 'issue': 'basic_post_attestation' for 'rebase:did:web:rebasedemokey.pages.dev'.\n\n" +
		"URI: " + vectorDelegate + "\n" +
		"Version: 1\n" +
		"Chain ID: 1\n" +
		"Nonce: 6JQhF2R1wBhfF6ONV\n" +
		"Issued At: 2023-09-27T17:11:32.013Z\n" +
		"Expiration Time: 2123-09-27T17:11:32.014Z\n" +
		"Not Before: 2022-09-27T17:11:32.013Z\n" +
		"Resources:\n" +
		"- urn:recap:eyJhdHQiOnsicmViYXNlOmRpZDp3ZWI6cmViYXNlZGVtb2tleS5wYWdlcy5kZXYiOnsiaXNzdWUvYmFzaWNfcG9zdF9hdHRlc3RhdGlvbiI6W3t9XX19LCJwcmYiOltdfQ"
	vectorSiweSignature        = "0xa5f8764d637cab627245b5e008b06f04c50361e34e2b19f1a940646373e7f1810385fd8d5c1501b7f0d899f95603cc4632bc9cd77454f24b5e0d64493657e6161c"
	vectorAttestationSignature = "cf12bcc0dabf76651407cb88a72808585df23d60dcb22b0b10a14dff3da2ff54017c7991cf01b4fc4cba617d3aaa785cbb6f5c1b33f10846ed23550e5324e106"
)

func post(t *testing.T, address string) statement.AttestationStatement {
	return statement.AttestationStatement{Attestation: &statement.BasicPostAttestationStatement{
		Subject: ethSubject(t, address),
		Title:   "Hello",
		Body:    "World",
	}}
}

func TestAttestation(t *testing.T) {
	addr, err := crypto.AddressFromPrivateKey(ethPrivateKey)
	require.NoError(t, err)

	f := &Attestation{Now: clock(fixedNow)}
	stmt := post(t, addr)
	res, err := f.Statement(context.Background(), stmt, testIssuer(t))
	require.NoError(t, err)
	assert.Contains(t, res.Statement, "Sign a copy of your data to turn it into a Verifiable Credential:\n")

	sig, err := crypto.SignEIP191(res.Statement, ethPrivateKey)
	require.NoError(t, err)

	c, err := f.ValidateProof(context.Background(), &proof.Attestation{Statement: stmt, Signature: sig}, testIssuer(t))
	require.NoError(t, err)
	assert.Equal(t, statement.BasicPostAttestation, c.Type)
	assert.Empty(t, c.Delegate)

	_, err = f.ValidateProof(context.Background(), &proof.Attestation{Statement: post(t, ethAddress), Signature: sig}, testIssuer(t))
	assert.True(t, IsValidation(err))
}

func TestBasicProfileKeys(t *testing.T) {
	f := &Attestation{}
	website := "https://example.com"
	profile := &statement.BasicProfileAttestationStatement{
		Subject:  ethSubject(t, ethAddress),
		Username: "alice",
		Website:  &website,
	}

	_, err := f.Statement(context.Background(), statement.AttestationStatement{Attestation: profile}, testIssuer(t))
	require.NoError(t, err, "description is optional")

	err = statement.BasicProfileAttestation.Validate(map[string]interface{}{
		"id":       "did:pkh:eip155:1:" + ethAddress,
		"username": "alice",
		"nickname": "al",
	})
	var serr *statement.Error
	assert.ErrorAs(t, err, &serr)
}

func TestDelegatedAttestationVector(t *testing.T) {
	f := &DelegatedAttestation{
		ServiceKey: serviceKey,
		Resolver:   resolver.NewKeyResolver(),
		Now:        clock(fixedNow),
	}
	p := &proof.DelegatedAttestation{
		Attestation:          post(t, ethAddress),
		AttestationSignature: vectorAttestationSignature,
		ServiceKey:           serviceKey,
		SiweMessage:          vectorSiwe,
		SiweSignature:        vectorSiweSignature,
	}

	c, err := f.ValidateProof(context.Background(), p, testIssuer(t))
	require.NoError(t, err)
	assert.Equal(t, vectorDelegate, c.Delegate)
	assert.Equal(t, []string{"VerifiableCredential", "DelegatedBasicPostAttestation"}, c.Types())

	token, err := JWT(context.Background(), f, p, testIssuer(t))
	require.NoError(t, err)
	decoded, err := vc.VerifyJWT(context.Background(), token, testIssuer(t))
	require.NoError(t, err)
	subj := decoded["credentialSubject"].(map[string]interface{})
	assert.Equal(t, vectorDelegate, subj["delegate"])
}

type delegation struct {
	address  string
	uri      string
	opts     recap.MessageOptions
	att      statement.AttestationStatement
	siweKey  string
	attKey   ed25519.PrivateKey
	granting string
	types    []statement.AttestationType
}

func newDelegation(t *testing.T) *delegation {
	t.Helper()
	priv, err := crypto.Ed25519KeyFromSeed(delegateSeed)
	require.NoError(t, err)
	mb, err := resolver.EncodeMultibaseEd25519(priv.Public().(ed25519.PublicKey))
	require.NoError(t, err)
	addr, err := crypto.AddressFromPrivateKey(ethPrivateKey)
	require.NoError(t, err)

	exp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	nbf := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	return &delegation{
		address: addr,
		uri:     "did:key:" + mb + "#" + mb,
		opts: recap.MessageOptions{
			ChainID:        1,
			IssuedAt:       nbf,
			ExpirationTime: &exp,
			NotBefore:      &nbf,
		},
		att:      post(t, addr),
		siweKey:  ethPrivateKey,
		attKey:   priv,
		granting: serviceKey,
		types:    []statement.AttestationType{statement.BasicPostAttestation},
	}
}

func (d *delegation) proof(t *testing.T) *proof.DelegatedAttestation {
	t.Helper()
	resource, err := recap.EncodeResource(recap.NewCapability(d.granting, d.types...))
	require.NoError(t, err)
	d.opts.Resources = []string{resource}
	msg, err := recap.NewMessage("witness.example.com", d.address, d.uri, "abcdefgh1234", d.opts)
	require.NoError(t, err)

	siwe := msg.String()
	siweSig, err := crypto.SignEIP191(siwe, d.siweKey)
	require.NoError(t, err)

	stmt, err := d.att.GenerateStatement()
	require.NoError(t, err)
	attSig, err := crypto.Ed25519Sign(d.attKey, []byte(stmt))
	require.NoError(t, err)

	return &proof.DelegatedAttestation{
		Attestation:          d.att,
		AttestationSignature: attSig,
		ServiceKey:           serviceKey,
		SiweMessage:          siwe,
		SiweSignature:        siweSig,
	}
}

func TestDelegationRejections(t *testing.T) {
	f := &DelegatedAttestation{ServiceKey: serviceKey, Resolver: resolver.NewKeyResolver(), Now: clock(fixedNow)}
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		c, err := f.ValidateProof(ctx, newDelegation(t).proof(t), testIssuer(t))
		require.NoError(t, err)
		assert.Equal(t, statement.BasicPostAttestation, c.Type)
	})

	otherKey, err := crypto.Ed25519KeyFromSeed(issuerSeed)
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(d *delegation, p *proof.DelegatedAttestation)
		setup  func(d *delegation)
		want   error
	}{
		{
			name:  "service key not granted",
			setup: func(d *delegation) { d.granting = "rebase:did:web:other.example.com" },
			want:  recap.ErrNoCapability,
		},
		{
			name:   "proof for another witness",
			modify: func(_ *delegation, p *proof.DelegatedAttestation) { p.ServiceKey = "rebase:did:web:other.example.com" },
			want:   recap.ErrNoCapability,
		},
		{
			name: "action not granted",
			setup: func(d *delegation) {
				d.types = []statement.AttestationType{statement.FollowAttestation}
			},
			want: recap.ErrUnauthorizedType,
		},
		{
			name: "expired",
			setup: func(d *delegation) {
				exp := fixedNow.Add(-time.Hour)
				d.opts.ExpirationTime = &exp
			},
			want: recap.ErrExpired,
		},
		{
			name: "not yet valid",
			setup: func(d *delegation) {
				nbf := fixedNow.Add(time.Hour)
				d.opts.NotBefore = &nbf
			},
			want: recap.ErrNotYetValid,
		},
		{
			name:  "subject is not the signer",
			setup: func(d *delegation) { d.att = post(t, ethAddress2) },
			want:  recap.ErrAddressMismatch,
		},
		{
			name:  "delegate signature",
			setup: func(d *delegation) { d.attKey = otherKey },
			want:  recap.ErrDelegateSignature,
		},
		{
			name: "siwe signature",
			modify: func(_ *delegation, p *proof.DelegatedAttestation) {
				p.SiweSignature = vectorSiweSignature
			},
			want: recap.ErrSiweSignature,
		},
		{
			name:  "unsupported delegate",
			setup: func(d *delegation) { d.uri = "did:pkh:eip155:1:" + ethAddress + "#key" },
			want:  recap.ErrUnsupportedDelegate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDelegation(t)
			if tt.setup != nil {
				tt.setup(d)
			}
			p := d.proof(t)
			if tt.modify != nil {
				tt.modify(d, p)
			}

			_, err := f.ValidateProof(ctx, p, testIssuer(t))
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// A recap granting only basic_post_attestation cannot issue a follow.
func TestDelegationScopedToAction(t *testing.T) {
	d := newDelegation(t)
	addr := d.att.StatementSubject().DisplayID()
	d.att = statement.AttestationStatement{Attestation: &statement.FollowAttestationStatement{
		Subject: ethSubject(t, addr),
		Target:  "https://example.com/u/1",
	}}

	f := &DelegatedAttestation{ServiceKey: serviceKey, Resolver: resolver.NewKeyResolver(), Now: clock(fixedNow)}
	_, err := f.ValidateProof(context.Background(), d.proof(t), testIssuer(t))
	assert.ErrorIs(t, err, recap.ErrUnauthorizedType)
}
