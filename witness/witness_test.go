package witness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pilacorp/go-witness-sdk/credential/common/schema/schematest"
	"github.com/pilacorp/go-witness-sdk/credential/vc"
	"github.com/pilacorp/go-witness-sdk/flow"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/locator/mocks"
)

const (
	ethAddress  = "0xdA3176d77c04632F2862B14E35bc6B4717FB5016"
	ethAddress2 = "0x2CfdC694c436BBb1a7f33db015d40C6AA418C3ff"
	issuerSeed  = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

	sameSignature1 = "0x56e48e0dbca9eebd31b23a69d56be84e8fa359d27e70e62c3999fbe2f43659845cee0d976ff83ed576e556cd8fbc377eeb4a0cb38f6949f9ac8ff6f8794b869f1b"
	sameSignature2 = "0x4f5448421f13e597f20ccfbe31ba62ab16bacc6ec93654a1131f126005ffd4cc7688c9c74b492e91cb5c795f53351ee87a05dbe32b9e11dde9d6cf3771506a101c"
	dnsSignature   = "0xabf167138efc4705a25ec7751536d3d66a4898a80aac90a9be01b6432e4a1ba261175b7b917171ed722ae24c7875cbbc0bf0c9ec318772c0d6d4335029aac3141b"
)

var (
	fixedNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	offline  = vc.WithDocumentLoader(schematest.DocumentLoader())
)

func eth(address string) map[string]interface{} {
	return map[string]interface{}{
		"pkh": map[string]interface{}{
			"eip155": map[string]interface{}{"address": address, "chain_id": "1"},
		},
	}
}

func sameControllerStatement() map[string]interface{} {
	return map[string]interface{}{"id1": eth(ethAddress), "id2": eth(ethAddress2)}
}

func sameControllerProof(sig1, sig2 string) map[string]interface{} {
	return map[string]interface{}{
		"statement":  sameControllerStatement(),
		"signature1": sig1,
		"signature2": sig2,
	}
}

func dnsStatement() map[string]interface{} {
	return map[string]interface{}{
		"domain":  "example.com",
		"prefix":  "rebase_sig=",
		"subject": eth(ethAddress),
	}
}

func testIssuer(t *testing.T) *issuer.Ed25519 {
	t.Helper()
	iss, err := issuer.NewEd25519FromSeed("did:web:witness.example.com", "controller", issuerSeed)
	require.NoError(t, err)
	return iss
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func witnessRequest(t *testing.T, tag string, p interface{}) WitnessRequest {
	t.Helper()
	req, err := NewWitnessRequest(tag, p)
	require.NoError(t, err)
	return req
}

func requests(t *testing.T, reg *prometheus.Registry, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "witness_requests_total" {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestNew(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)

	w, err := New(Config{SameController: &flow.SameController{}, DNS: &flow.DNS{}}, testIssuer(t))
	require.NoError(t, err)
	assert.Equal(t, []string{DNSVerificationTag, SameControllerTag}, w.Flows())
}

func TestConfigJSON(t *testing.T) {
	raw := `{
		"SameControllerAssertion": {},
		"GitHubVerification": {"user_agent": "witness", "delimiter": "\n\n"},
		"NftOwnershipVerification": {"api_key": "k", "challenge_delimiter": "\n\n", "max_elapsed_minutes": 15}
	}`
	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	require.NotNil(t, cfg.GitHub)
	assert.Equal(t, "witness", cfg.GitHub.UserAgent)
	require.NotNil(t, cfg.NFTOwnership)
	assert.Equal(t, int64(15), cfg.NFTOwnership.MaxElapsedMinutes)
	assert.Nil(t, cfg.Email)

	w, err := New(cfg, testIssuer(t), WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, []string{GitHubVerificationTag, NFTOwnershipTag, SameControllerTag}, w.Flows())
}

func TestRequestEnvelope(t *testing.T) {
	req, err := NewStatementRequest(DNSVerificationTag, dnsStatement())
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var generic map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Contains(t, generic["opts"], DNSVerificationTag)

	var decoded StatementRequest
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, DNSVerificationTag, decoded.Opts.Tag)
	assert.JSONEq(t, string(req.Opts.Body), string(decoded.Opts.Body))

	assert.Error(t, json.Unmarshal([]byte(`{"opts":{"A":{},"B":{}}}`), &decoded))
}

func TestStatement(t *testing.T) {
	w, err := New(Config{SameController: &flow.SameController{}}, testIssuer(t), WithLogger(quietLogger()))
	require.NoError(t, err)

	var req StatementRequest
	raw, err := json.Marshal(map[string]interface{}{
		"opts": map[string]interface{}{SameControllerTag: sameControllerStatement()},
	})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &req))

	res, err := w.Statement(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t,
		"I am attesting that Ethereum Address "+ethAddress+" is linked to Ethereum Address "+ethAddress2,
		res.Statement)
}

func TestCredentialAndJWT(t *testing.T) {
	ctx := context.Background()
	iss := testIssuer(t)
	reg := prometheus.NewRegistry()
	w, err := New(Config{SameController: &flow.SameController{Now: func() time.Time { return fixedNow }}}, iss,
		WithLogger(quietLogger()),
		WithRegisterer(reg),
		WithCredentialOptions(vc.WithClock(func() time.Time { return fixedNow }), offline),
	)
	require.NoError(t, err)

	req := witnessRequest(t, SameControllerTag, sameControllerProof(sameSignature1, sameSignature2))

	cred, err := w.Credential(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", cred["issuanceDate"])
	assert.Equal(t, []interface{}{"VerifiableCredential", "SameControllerAssertion"}, cred["type"])
	require.NoError(t, vc.Verify(ctx, cred, iss, offline))

	token, err := w.JWT(ctx, req)
	require.NoError(t, err)
	decoded, err := vc.VerifyJWT(ctx, token, iss)
	require.NoError(t, err)
	assert.Equal(t, cred["type"], decoded["type"])

	assert.Equal(t, float64(1), requests(t, reg, map[string]string{"flow": SameControllerTag, "op": "credential", "outcome": "ok"}))
	assert.Equal(t, float64(1), requests(t, reg, map[string]string{"flow": SameControllerTag, "op": "jwt", "outcome": "ok"}))

	swapped := witnessRequest(t, SameControllerTag, sameControllerProof(sameSignature2, sameSignature1))
	_, err = w.JWT(ctx, swapped)
	require.Error(t, err)
	assert.True(t, flow.IsValidation(err))
	assert.Equal(t, float64(1), requests(t, reg, map[string]string{"flow": SameControllerTag, "op": "jwt", "outcome": "validation"}))
}

func TestRejectsRequests(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	w, err := New(Config{SameController: &flow.SameController{}}, testIssuer(t),
		WithLogger(quietLogger()), WithRegisterer(reg))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  WitnessRequest
	}{
		{"unconfigured flow", witnessRequest(t, GitHubVerificationTag, map[string]interface{}{})},
		{"unknown flow", witnessRequest(t, "CarrierPigeon", map[string]interface{}{})},
		{"null proof", WitnessRequest{Proof: Tagged{Tag: SameControllerTag, Body: json.RawMessage("null")}}},
		{"malformed proof", WitnessRequest{Proof: Tagged{Tag: SameControllerTag, Body: json.RawMessage(`{"statement": 7}`)}}},
		{"missing subject", witnessRequest(t, SameControllerTag, map[string]interface{}{"statement": map[string]interface{}{}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Credential(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, flow.IsValidation(err))
		})
	}

	assert.Equal(t, float64(2), requests(t, reg, map[string]string{"flow": "unknown", "op": "credential"}))
}

func TestBadLookupIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockEvidenceLocator(ctrl)
	l.EXPECT().LocateEvidence(gomock.Any(), gomock.Any()).Return(nil, errors.New("resolver unreachable"))

	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	w, err := New(Config{DNS: &flow.DNS{Locator: l}}, testIssuer(t),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))), WithRegisterer(reg))
	require.NoError(t, err)

	_, err = w.JWT(context.Background(), witnessRequest(t, DNSVerificationTag, dnsStatement()))
	require.Error(t, err)
	assert.True(t, flow.IsBadLookup(err))

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "category=bad_lookup")
	assert.Contains(t, logs.String(), "flow=DnsVerification")
	assert.Equal(t, float64(1), requests(t, reg, map[string]string{"flow": DNSVerificationTag, "outcome": "bad_lookup"}))
}

func TestSuccessIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockEvidenceLocator(ctrl)
	l.EXPECT().LocateEvidence(gomock.Any(), locator.Query{Handle: "example.com", Prefix: "rebase_sig="}).
		Return([]locator.Evidence{{Signature: dnsSignature}}, nil)

	var logs bytes.Buffer
	w, err := New(Config{DNS: &flow.DNS{Locator: l}}, testIssuer(t),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	_, err = w.JWT(context.Background(), witnessRequest(t, DNSVerificationTag, dnsStatement()))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "level=INFO")
	assert.Contains(t, logs.String(), "outcome=ok")
}

func TestLookupTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockEvidenceLocator(ctrl)
	l.EXPECT().LocateEvidence(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ locator.Query) ([]locator.Evidence, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	w, err := New(Config{DNS: &flow.DNS{Locator: l}}, testIssuer(t),
		WithLogger(quietLogger()), WithLookupTimeout(10*time.Millisecond))
	require.NoError(t, err)

	_, err = w.Credential(context.Background(), witnessRequest(t, DNSVerificationTag, dnsStatement()))
	require.Error(t, err)
	assert.True(t, flow.IsBadLookup(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSharedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	iss := testIssuer(t)

	for i := 0; i < 2; i++ {
		w, err := New(Config{}, iss, WithLogger(quietLogger()), WithMetrics(m))
		require.NoError(t, err)
		_, err = w.Statement(context.Background(), StatementRequest{})
		assert.True(t, flow.IsValidation(err))
	}
	assert.Equal(t, float64(2), requests(t, reg, map[string]string{"op": "statement", "outcome": "validation"}))
}
