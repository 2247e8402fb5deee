package flow

import (
	"context"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var _ Flow[*statement.DNSVerification, *proof.DNSVerification, *content.DNSVerification] = (*DNS)(nil)

// DNS witnesses control of a domain through a TXT record holding
// prefix+signature.
type DNS struct {
	// Locator reads TXT records. Nil uses DNS-over-HTTPS at locator.DefaultDNSServer.
	Locator locator.EvidenceLocator `json:"-"`
	Now     Clock                   `json:"-"`
}

func (f *DNS) locator() locator.EvidenceLocator {
	if f.Locator == nil {
		return locator.NewDNS()
	}
	return f.Locator
}

func (f *DNS) Statement(_ context.Context, s *statement.DNSVerification, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

func (f *DNS) ValidateProof(ctx context.Context, p *proof.DNSVerification, _ issuer.Issuer) (*content.DNSVerification, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}

	l := f.locator()
	sig, err := locate(ctx, l, locator.Query{Handle: p.Domain, Prefix: p.Prefix}, p.Subject, stmt)
	if err != nil {
		return nil, err
	}

	c, err := toContent[*content.DNSVerification](p, stmt, sig, f.Now.now())
	if err != nil {
		return nil, err
	}
	if s, ok := l.(interface{ Server() string }); ok {
		c.DNSServer = s.Server()
	}
	return c, nil
}
