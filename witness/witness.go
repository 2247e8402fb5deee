// Package witness serves every configured flow behind one entry point that
// accepts externally tagged statement and proof envelopes.
package witness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/vc"
	"github.com/pilacorp/go-witness-sdk/flow"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

const (
	opStatement  = "statement"
	opCredential = "credential"
	opJWT        = "jwt"

	outcomeOK = "ok"
	// unknownFlow labels requests for flows that are not configured.
	unknownFlow = "unknown"
)

// Config holds the flows a witness serves. A nil flow is not served.
type Config struct {
	Attestation          *flow.Attestation          `json:"Attestation,omitempty"`
	DelegatedAttestation *flow.DelegatedAttestation `json:"DelegatedAttestation,omitempty"`
	DNS                  *flow.DNS                  `json:"DnsVerification,omitempty"`
	Email                *flow.Email                `json:"EmailVerification,omitempty"`
	GitHub               *flow.GitHub               `json:"GitHubVerification,omitempty"`
	NFTOwnership         *flow.NFTOwnership         `json:"NftOwnershipVerification,omitempty"`
	POAPOwnership        *flow.POAPOwnership        `json:"PoapOwnershipVerification,omitempty"`
	Reddit               *flow.Reddit               `json:"RedditVerification,omitempty"`
	SameController       *flow.SameController       `json:"SameControllerAssertion,omitempty"`
	SoundCloud           *flow.SoundCloud           `json:"SoundCloudVerification,omitempty"`
	Twitter              *flow.Twitter              `json:"TwitterVerification,omitempty"`
}

func (c Config) routes() map[string]route {
	r := make(map[string]route)
	if c.Attestation != nil {
		r[AttestationTag] = bind[statement.AttestationStatement, *proof.Attestation, *content.Attestation](c.Attestation)
	}
	if c.DelegatedAttestation != nil {
		r[DelegatedAttestationTag] = bind[statement.AttestationStatement, *proof.DelegatedAttestation, *content.Attestation](c.DelegatedAttestation)
	}
	if c.DNS != nil {
		r[DNSVerificationTag] = bind[*statement.DNSVerification, *proof.DNSVerification, *content.DNSVerification](c.DNS)
	}
	if c.Email != nil {
		r[EmailVerificationTag] = bind[*statement.EmailVerification, *proof.EmailVerification, *content.EmailVerification](c.Email)
	}
	if c.GitHub != nil {
		r[GitHubVerificationTag] = bind[*statement.GitHubVerification, *proof.GitHubVerification, *content.GitHubVerification](c.GitHub)
	}
	if c.NFTOwnership != nil {
		r[NFTOwnershipTag] = bind[*statement.NFTOwnershipVerification, *proof.NFTOwnershipVerification, *content.NFTOwnershipVerification](c.NFTOwnership)
	}
	if c.POAPOwnership != nil {
		r[POAPOwnershipTag] = bind[*statement.POAPOwnershipVerification, *proof.POAPOwnershipVerification, *content.POAPOwnershipVerification](c.POAPOwnership)
	}
	if c.Reddit != nil {
		r[RedditVerificationTag] = bind[*statement.RedditVerification, *proof.RedditVerification, *content.RedditVerification](c.Reddit)
	}
	if c.SameController != nil {
		r[SameControllerTag] = bind[*statement.SameControllerAssertion, *proof.SameControllerAssertion, *content.SameControllerAssertion](c.SameController)
	}
	if c.SoundCloud != nil {
		r[SoundCloudTag] = bind[*statement.SoundCloudVerification, *proof.SoundCloudVerification, *content.SoundCloudVerification](c.SoundCloud)
	}
	if c.Twitter != nil {
		r[TwitterVerificationTag] = bind[*statement.TwitterVerification, *proof.TwitterVerification, *content.TwitterVerification](c.Twitter)
	}
	return r
}

// route runs the operations of one flow on undecoded request bodies.
type route struct {
	statement  func(ctx context.Context, body json.RawMessage, iss issuer.Issuer) (*flow.StatementResponse, error)
	credential func(ctx context.Context, body json.RawMessage, iss issuer.Issuer, opts ...vc.CredentialOpt) (jsonmap.JSONMap, error)
	jwt        func(ctx context.Context, body json.RawMessage, iss issuer.Issuer, opts ...vc.CredentialOpt) (string, error)
}

func bind[S statement.Statement, P proof.Proof[C], C content.Content](f flow.Flow[S, P, C]) route {
	return route{
		statement: func(ctx context.Context, body json.RawMessage, iss issuer.Issuer) (*flow.StatementResponse, error) {
			var s S
			if err := decode(body, &s, "statement"); err != nil {
				return nil, err
			}
			return f.Statement(ctx, s, iss)
		},
		credential: func(ctx context.Context, body json.RawMessage, iss issuer.Issuer, opts ...vc.CredentialOpt) (jsonmap.JSONMap, error) {
			var p P
			if err := decode(body, &p, "proof"); err != nil {
				return nil, err
			}
			return flow.Credential[P, C](ctx, f, p, iss, opts...)
		},
		jwt: func(ctx context.Context, body json.RawMessage, iss issuer.Issuer, opts ...vc.CredentialOpt) (string, error) {
			var p P
			if err := decode(body, &p, "proof"); err != nil {
				return "", err
			}
			return flow.JWT[P, C](ctx, f, p, iss, opts...)
		},
	}
}

func decode(body json.RawMessage, v interface{}, what string) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &flow.Error{Kind: flow.Validation, Reason: "missing " + what}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return &flow.Error{Kind: flow.Validation, Reason: "malformed " + what, Err: err}
	}
	return nil
}

// Witness dispatches requests to its configured flows and issues
// credentials with its issuer.
type Witness struct {
	issuer         issuer.Issuer
	routes         map[string]route
	logger         *slog.Logger
	metrics        *Metrics
	lookupTimeout  time.Duration
	credentialOpts []vc.CredentialOpt
}

// Option configures a Witness.
type Option func(*Witness)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Witness) { w.logger = l }
}

// WithRegisterer registers the witness metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(w *Witness) { w.metrics = NewMetrics(reg) }
}

// WithMetrics uses already created metrics.
func WithMetrics(m *Metrics) Option {
	return func(w *Witness) { w.metrics = m }
}

// WithLookupTimeout bounds every request. Zero means no bound beyond the
// caller's context.
func WithLookupTimeout(d time.Duration) Option {
	return func(w *Witness) { w.lookupTimeout = d }
}

// WithCredentialOptions applies opts to every issued credential.
func WithCredentialOptions(opts ...vc.CredentialOpt) Option {
	return func(w *Witness) { w.credentialOpts = append(w.credentialOpts, opts...) }
}

// New returns a witness serving the flows set in cfg.
func New(cfg Config, iss issuer.Issuer, opts ...Option) (*Witness, error) {
	if iss == nil {
		return nil, fmt.Errorf("issuer is required")
	}

	w := &Witness{
		issuer: iss,
		routes: cfg.routes(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.metrics == nil {
		w.metrics = NewMetrics(nil)
	}

	return w, nil
}

// Flows lists the tags of the configured flows.
func (w *Witness) Flows() []string {
	tags := make([]string, 0, len(w.routes))
	for tag := range w.routes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Statement returns the statement the subject must sign for req.
func (w *Witness) Statement(ctx context.Context, req StatementRequest) (*flow.StatementResponse, error) {
	var res *flow.StatementResponse
	err := w.do(ctx, req.Opts.Tag, opStatement, func(ctx context.Context, r route) error {
		var err error
		res, err = r.statement(ctx, req.Opts.Body, w.issuer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Credential witnesses the proof in req and issues a credential with a Data
// Integrity proof.
func (w *Witness) Credential(ctx context.Context, req WitnessRequest) (jsonmap.JSONMap, error) {
	var cred jsonmap.JSONMap
	err := w.do(ctx, req.Proof.Tag, opCredential, func(ctx context.Context, r route) error {
		var err error
		cred, err = r.credential(ctx, req.Proof.Body, w.issuer, w.credentialOpts...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cred, nil
}

// JWT witnesses the proof in req and issues the credential as a JWT.
func (w *Witness) JWT(ctx context.Context, req WitnessRequest) (string, error) {
	var token string
	err := w.do(ctx, req.Proof.Tag, opJWT, func(ctx context.Context, r route) error {
		var err error
		token, err = r.jwt(ctx, req.Proof.Body, w.issuer, w.credentialOpts...)
		return err
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (w *Witness) do(ctx context.Context, tag, op string, call func(context.Context, route) error) error {
	start := time.Now()

	label := tag
	r, ok := w.routes[tag]
	var err error
	if !ok {
		label = unknownFlow
		err = &flow.Error{Kind: flow.Validation, Reason: fmt.Sprintf("no %q flow configured", tag)}
	} else {
		if w.lookupTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, w.lookupTimeout)
			defer cancel()
		}
		err = call(ctx, r)
	}

	outcome := outcomeOf(err)
	w.metrics.ObserveRequest(label, op, outcome, start)

	if err != nil {
		w.logger.WarnContext(ctx, "witness request failed",
			"flow", tag,
			"op", op,
			"category", outcome,
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}

	w.logger.InfoContext(ctx, "witness request",
		"flow", tag,
		"op", op,
		"outcome", outcome,
		"duration", time.Since(start),
	)
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case flow.IsBadLookup(err):
		return flow.BadLookup.String()
	default:
		return flow.Validation.String()
	}
}
