package resolver

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluele/gcache"
	jose "github.com/go-jose/go-jose/v3"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/pilacorp/go-witness-sdk/credential/common/model"
	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
	maxDocumentSize  = 1 << 20

	wellKnownPath  = "/.well-known/did.json"
	didDocFileName = "/did.json"
)

// didDocumentSchema is the minimum shape a did:web document must have.
const didDocumentSchema = `{
  "type": "object",
  "required": ["id", "verificationMethod"],
  "properties": {
    "id": {"type": "string", "pattern": "^did:"},
    "verificationMethod": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "controller": {"type": "string"},
          "publicKeyJwk": {"type": "object"},
          "publicKeyMultibase": {"type": "string"}
        }
      }
    }
  }
}`

var documentValidator = schema.MustValidator(didDocumentSchema)

// WebResolver resolves did:web identifiers over HTTPS.
type WebResolver struct {
	client *http.Client
	scheme string
	cache  gcache.Cache
	group  singleflight.Group
}

// WebOption configures a WebResolver.
type WebOption func(*webConfig)

type webConfig struct {
	client    *http.Client
	useHTTP   bool
	cacheSize int
	cacheTTL  time.Duration
}

// WithHTTPClient sets the client used to fetch DID documents.
func WithHTTPClient(client *http.Client) WebOption {
	return func(c *webConfig) {
		c.client = client
	}
}

// WithInsecureHTTP fetches documents over plain http. Local development only.
func WithInsecureHTTP() WebOption {
	return func(c *webConfig) {
		c.useHTTP = true
	}
}

// WithCache sets the document cache size and lifetime. A size of zero disables caching.
func WithCache(size int, ttl time.Duration) WebOption {
	return func(c *webConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// NewWebResolver returns a did:web resolver.
func NewWebResolver(opts ...WebOption) *WebResolver {
	cfg := &webConfig{cacheSize: defaultCacheSize, cacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.client == nil {
		cfg.client = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	r := &WebResolver{client: cfg.client, scheme: "https://"}
	if cfg.useHTTP {
		r.scheme = "http://"
	}
	if cfg.cacheSize > 0 {
		r.cache = gcache.New(cfg.cacheSize).LRU().Expiration(cfg.cacheTTL).Build()
	}

	return r
}

// Resolve implements Resolver. Without a fragment the first verification method is used.
func (r *WebResolver) Resolve(ctx context.Context, didURL string) (*jose.JSONWebKey, error) {
	did, fragment, err := SplitDIDURL(didURL)
	if err != nil {
		return nil, err
	}

	doc, err := r.ResolveDocument(ctx, did)
	if err != nil {
		return nil, err
	}

	var vm *model.VerificationMethodEntry
	if fragment == "" {
		if len(doc.VerificationMethod) == 0 {
			return nil, errors.Wrapf(ErrKeyNotFound, "%s", did)
		}
		vm = &doc.VerificationMethod[0]
	} else {
		var ok bool
		if vm, ok = doc.FindVerificationMethod(did + "#" + fragment); !ok {
			return nil, errors.Wrapf(ErrKeyNotFound, "%s", didURL)
		}
	}

	return publicKey(vm)
}

// ResolveDocument fetches and validates the DID document for did.
func (r *WebResolver) ResolveDocument(ctx context.Context, did string) (*model.DIDDocument, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(did); err == nil {
			return cached.(*model.DIDDocument), nil
		}
	}

	v, err, _ := r.group.Do(did, func() (interface{}, error) {
		doc, err := r.fetch(ctx, did)
		if err != nil {
			return nil, err
		}
		if r.cache != nil {
			_ = r.cache.Set(did, doc)
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*model.DIDDocument), nil
}

func (r *WebResolver) fetch(ctx context.Context, did string) (*model.DIDDocument, error) {
	address, err := DocumentURL(r.scheme, did)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/did+json, application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", address)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("resolver returned non-200 status: %d, body: %s", resp.StatusCode, string(body))
	}

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal DID document")
	}
	if err := documentValidator.Validate(raw); err != nil {
		return nil, errors.Wrapf(err, "invalid DID document for %s", did)
	}

	var doc model.DIDDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal DID document")
	}
	if doc.ID != did {
		return nil, errors.Errorf("DID document id %q does not match %q", doc.ID, did)
	}

	return &doc, nil
}

// DocumentURL maps a did:web identifier to the URL of its DID document.
//
//	did:web:example.com            -> https://example.com/.well-known/did.json
//	did:web:example.com%3A8443     -> https://example.com:8443/.well-known/did.json
//	did:web:example.com:user:alice -> https://example.com/user/alice/did.json
func DocumentURL(scheme, did string) (string, error) {
	if !strings.HasPrefix(did, MethodWeb) {
		return "", errors.Wrapf(ErrUnsupportedMethod, "not a did:web: %s", did)
	}

	parts := strings.Split(did[len(MethodWeb):], ":")
	if parts[0] == "" {
		return "", errors.Wrapf(ErrInvalidDID, "missing host in %s", did)
	}

	host, err := url.QueryUnescape(parts[0])
	if err != nil {
		return "", errors.Wrapf(ErrInvalidDID, "host of %s: %v", did, err)
	}

	if len(parts) == 1 {
		return scheme + host + wellKnownPath, nil
	}

	for _, p := range parts[1:] {
		if p == "" {
			return "", errors.Wrapf(ErrInvalidDID, "empty path segment in %s", did)
		}
	}

	return scheme + host + "/" + strings.Join(parts[1:], "/") + didDocFileName, nil
}

func publicKey(vm *model.VerificationMethodEntry) (*jose.JSONWebKey, error) {
	switch {
	case vm.PublicKeyJwk != nil:
		pub, ok := vm.PublicKeyJwk.Key.(ed25519.PublicKey)
		if !ok {
			return nil, errors.Errorf("verification method %s is not an Ed25519 key: %T", vm.ID, vm.PublicKeyJwk.Key)
		}
		return &jose.JSONWebKey{Key: pub, KeyID: vm.ID, Algorithm: "EdDSA", Use: "sig"}, nil
	case vm.PublicKeyMultibase != "":
		pub, err := DecodeMultibaseEd25519(vm.PublicKeyMultibase)
		if err != nil {
			return nil, errors.Wrapf(err, "verification method %s", vm.ID)
		}
		return &jose.JSONWebKey{Key: pub, KeyID: vm.ID, Algorithm: "EdDSA", Use: "sig"}, nil
	default:
		return nil, errors.Errorf("verification method %s has no public key", vm.ID)
	}
}
