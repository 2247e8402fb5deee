package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/piprate/json-gold/ld"
)

// Context URLs used by witness credentials.
const (
	CredentialsV1Context = "https://www.w3.org/2018/credentials/v1"
	RebaseV1Context      = "https://spec.rebase.xyz/contexts/v1"
	SchemaOrgContext     = "https://schema.org/"
)

// ErrContextNotFound is returned when a context is neither preloaded nor fetchable.
var ErrContextNotFound = errors.New("context document not found")

//go:embed contexts/*.jsonld
var contextFS embed.FS

// embeddedContexts are copies of the published documents. Everything else
// is fetched.
var embeddedContexts = map[string]string{
	CredentialsV1Context: "contexts/credentials-v1.jsonld",
}

// DocumentLoader is an ld.DocumentLoader serving preloaded contexts first and
// fetching the rest with a remote loader.
type DocumentLoader struct {
	docs    map[string]*ld.RemoteDocument
	extra   map[string][]byte
	offline bool

	mu     sync.Mutex // guards remote, whose cache is not safe for concurrent use
	remote ld.DocumentLoader
}

// LoaderOpt configures a DocumentLoader.
type LoaderOpt func(*DocumentLoader)

// WithRemoteDocumentLoader sets the loader used for contexts that are not
// preloaded. The default fetches over HTTP and caches in memory.
func WithRemoteDocumentLoader(loader ld.DocumentLoader) LoaderOpt {
	return func(l *DocumentLoader) {
		l.remote = loader
	}
}

// WithoutRemote fails every context that is not preloaded with ErrContextNotFound.
func WithoutRemote() LoaderOpt {
	return func(l *DocumentLoader) {
		l.offline = true
	}
}

// WithContext preloads raw as the context document served for u.
func WithContext(u string, raw []byte) LoaderOpt {
	return func(l *DocumentLoader) {
		l.extra[u] = raw
	}
}

// NewDocumentLoader returns a loader preloaded with the embedded contexts.
func NewDocumentLoader(opts ...LoaderOpt) (*DocumentLoader, error) {
	l := &DocumentLoader{
		docs:  make(map[string]*ld.RemoteDocument, len(embeddedContexts)),
		extra: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(l)
	}
	switch {
	case l.offline:
		l.remote = nil
	case l.remote == nil:
		l.remote = ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(nil))
	}

	for u, path := range embeddedContexts {
		raw, err := contextFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read context %s: %w", path, err)
		}
		if err := l.add(u, raw); err != nil {
			return nil, err
		}
	}
	for u, raw := range l.extra {
		if err := l.add(u, raw); err != nil {
			return nil, err
		}
	}

	return l, nil
}

func (l *DocumentLoader) add(u string, raw []byte) error {
	content, err := ld.DocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("document from reader: %w", err)
	}
	l.docs[u] = &ld.RemoteDocument{DocumentURL: u, Document: content}
	return nil
}

// LoadDocument resolves a context document by URL.
func (l *DocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	if rd, ok := l.docs[u]; ok {
		return rd, nil
	}
	if l.remote == nil {
		return nil, fmt.Errorf("%w: %s", ErrContextNotFound, u)
	}

	l.mu.Lock()
	rd, err := l.remote.LoadDocument(u)
	l.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("load remote context document: %w", err)
	}

	return rd, nil
}
