package flow

import (
	"context"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var (
	_ Flow[*statement.GitHubVerification, *proof.GitHubVerification, *content.GitHubVerification]             = (*GitHub)(nil)
	_ Flow[*statement.TwitterVerification, *proof.TwitterVerification, *content.TwitterVerification]          = (*Twitter)(nil)
	_ Flow[*statement.RedditVerification, *proof.RedditVerification, *content.RedditVerification]             = (*Reddit)(nil)
	_ Flow[*statement.SoundCloudVerification, *proof.SoundCloudVerification, *content.SoundCloudVerification] = (*SoundCloud)(nil)
)

func userAgent(ua string) []locator.Option {
	if ua == "" {
		return nil
	}
	return []locator.Option{locator.WithUserAgent(ua)}
}

// GitHub witnesses a handle through a public gist holding statement{delimiter}signature.
type GitHub struct {
	UserAgent string `json:"user_agent"`
	Delimiter string `json:"delimiter"`

	Locator locator.EvidenceLocator `json:"-"`
	Now     Clock                   `json:"-"`
}

func (f *GitHub) locator() locator.EvidenceLocator {
	if f.Locator == nil {
		return locator.NewGitHub(userAgent(f.UserAgent)...)
	}
	return f.Locator
}

func (f *GitHub) Statement(_ context.Context, s *statement.GitHubVerification, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt, Delimiter: f.Delimiter}, nil
}

func (f *GitHub) ValidateProof(ctx context.Context, p *proof.GitHubVerification, _ issuer.Issuer) (*content.GitHubVerification, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	q := locator.Query{Handle: p.Statement.Handle, Ref: p.GistID, Delimiter: f.Delimiter}
	sig, err := locate(ctx, f.locator(), q, p.Statement.Subject, stmt)
	if err != nil {
		return nil, err
	}
	return toContent[*content.GitHubVerification](p, stmt, sig, f.Now.now())
}

// Twitter witnesses a handle through a tweet holding statement{delimiter}signature.
type Twitter struct {
	APIKey    string `json:"api_key"`
	Delimiter string `json:"delimiter"`

	Locator locator.EvidenceLocator `json:"-"`
	Now     Clock                   `json:"-"`
}

func (f *Twitter) locator() locator.EvidenceLocator {
	if f.Locator == nil {
		return locator.NewTwitter(f.APIKey)
	}
	return f.Locator
}

func (f *Twitter) Statement(_ context.Context, s *statement.TwitterVerification, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt, Delimiter: f.Delimiter}, nil
}

func (f *Twitter) ValidateProof(ctx context.Context, p *proof.TwitterVerification, _ issuer.Issuer) (*content.TwitterVerification, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	id, err := p.TweetID()
	if err != nil {
		return nil, validation("malformed tweet url", err)
	}
	q := locator.Query{Handle: p.Statement.Handle, Ref: id, Delimiter: f.Delimiter}
	sig, err := locate(ctx, f.locator(), q, p.Statement.Subject, stmt)
	if err != nil {
		return nil, err
	}
	return toContent[*content.TwitterVerification](p, stmt, sig, f.Now.now())
}

// Reddit witnesses a handle through the signature in the account's profile description.
type Reddit struct {
	UserAgent string `json:"user_agent"`

	Locator locator.EvidenceLocator `json:"-"`
	Now     Clock                   `json:"-"`
}

func (f *Reddit) locator() locator.EvidenceLocator {
	if f.Locator == nil {
		return locator.NewReddit(userAgent(f.UserAgent)...)
	}
	return f.Locator
}

func (f *Reddit) Statement(_ context.Context, s *statement.RedditVerification, _ issuer.Issuer) (*StatementResponse, error) {
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

func (f *Reddit) ValidateProof(ctx context.Context, p *proof.RedditVerification, _ issuer.Issuer) (*content.RedditVerification, error) {
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	sig, err := locate(ctx, f.locator(), locator.Query{Handle: p.Handle}, p.Subject, stmt)
	if err != nil {
		return nil, err
	}
	return toContent[*content.RedditVerification](p, stmt, sig, f.Now.now())
}

// SoundCloud witnesses a profile through the signature in its description.
type SoundCloud struct {
	ClientID  string `json:"client_id"`
	Limit     uint64 `json:"limit"`
	MaxOffset uint64 `json:"max_offset"`

	Locator locator.EvidenceLocator `json:"-"`
	Now     Clock                   `json:"-"`
}

func (f *SoundCloud) locator() (locator.EvidenceLocator, error) {
	if f.Locator != nil {
		return f.Locator, nil
	}
	l, err := locator.NewSoundCloud(f.ClientID, f.Limit, f.MaxOffset)
	if err != nil {
		return nil, validation("invalid soundcloud search window", err)
	}
	return l, nil
}

func (f *SoundCloud) Statement(_ context.Context, s *statement.SoundCloudVerification, _ issuer.Issuer) (*StatementResponse, error) {
	if err := locator.ValidateSoundCloudWindow(f.Limit, f.MaxOffset); err != nil {
		return nil, validation("invalid soundcloud search window", err)
	}
	stmt, err := generate(s)
	if err != nil {
		return nil, err
	}
	return &StatementResponse{Statement: stmt}, nil
}

func (f *SoundCloud) ValidateProof(ctx context.Context, p *proof.SoundCloudVerification, _ issuer.Issuer) (*content.SoundCloudVerification, error) {
	l, err := f.locator()
	if err != nil {
		return nil, err
	}
	stmt, err := generate(p)
	if err != nil {
		return nil, err
	}
	sig, err := locate(ctx, l, locator.Query{Handle: p.Permalink}, p.Subject, stmt)
	if err != nil {
		return nil, err
	}
	return toContent[*content.SoundCloudVerification](p, stmt, sig, f.Now.now())
}
