package proof

import (
	"strings"
	"time"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/statement"
)

var (
	_ Proof[*content.DNSVerification]           = (*DNSVerification)(nil)
	_ Proof[*content.SameControllerAssertion]   = (*SameControllerAssertion)(nil)
	_ Proof[*content.EmailVerification]         = (*EmailVerification)(nil)
	_ Proof[*content.GitHubVerification]        = (*GitHubVerification)(nil)
	_ Proof[*content.TwitterVerification]       = (*TwitterVerification)(nil)
	_ Proof[*content.RedditVerification]        = (*RedditVerification)(nil)
	_ Proof[*content.SoundCloudVerification]    = (*SoundCloudVerification)(nil)
	_ Proof[*content.NFTOwnershipVerification]  = (*NFTOwnershipVerification)(nil)
	_ Proof[*content.POAPOwnershipVerification] = (*POAPOwnershipVerification)(nil)
)

// DNSVerification is proven by a TXT record on the domain; the statement is
// the whole proof.
type DNSVerification struct {
	statement.DNSVerification
}

func (p *DNSVerification) ToContent(_, _ string, at time.Time) (*content.DNSVerification, error) {
	return &content.DNSVerification{
		Domain:    p.Domain,
		Subject:   p.Subject,
		Timestamp: content.Timestamp(at),
	}, nil
}

// SameControllerAssertion carries one signature from each linked subject.
type SameControllerAssertion struct {
	Statement  statement.SameControllerAssertion `json:"statement"`
	Signature1 string                            `json:"signature1"`
	Signature2 string                            `json:"signature2"`
}

func (p *SameControllerAssertion) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *SameControllerAssertion) ToContent(stmt, _ string, _ time.Time) (*content.SameControllerAssertion, error) {
	return &content.SameControllerAssertion{
		ID1:        p.Statement.ID1,
		ID2:        p.Statement.ID2,
		Statement:  stmt,
		Signature1: p.Signature1,
		Signature2: p.Signature2,
	}, nil
}

// EmailVerification answers a mailed challenge of the form "signature{delimiter}timestamp".
type EmailVerification struct {
	Challenge string                      `json:"challenge"`
	Signature string                      `json:"signature"`
	Statement statement.EmailVerification `json:"statement"`
}

func (p *EmailVerification) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *EmailVerification) ToContent(stmt, sig string, at time.Time) (*content.EmailVerification, error) {
	return &content.EmailVerification{
		Email:     p.Statement.Email,
		Subject:   p.Statement.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}

// GitHubVerification names the gist holding the signed statement.
type GitHubVerification struct {
	GistID    string                       `json:"gist_id"`
	Statement statement.GitHubVerification `json:"statement"`
}

func (p *GitHubVerification) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *GitHubVerification) ToContent(stmt, sig string, at time.Time) (*content.GitHubVerification, error) {
	return &content.GitHubVerification{
		GistID:    p.GistID,
		Handle:    p.Statement.Handle,
		Subject:   p.Statement.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}

// TwitterVerification names the tweet holding the signed statement.
type TwitterVerification struct {
	Statement statement.TwitterVerification `json:"statement"`
	TweetURL  string                        `json:"tweet_url"`
}

func (p *TwitterVerification) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

// TweetID is the last path segment of the tweet URL.
func (p *TwitterVerification) TweetID() (string, error) {
	segments := strings.Split(strings.TrimSpace(p.TweetURL), "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", contentError("could not find tweet id in "+p.TweetURL, nil)
	}
	return id, nil
}

func (p *TwitterVerification) ToContent(stmt, sig string, at time.Time) (*content.TwitterVerification, error) {
	id, err := p.TweetID()
	if err != nil {
		return nil, err
	}
	return &content.TwitterVerification{
		Handle:    p.Statement.Handle,
		TweetID:   id,
		Subject:   p.Statement.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}

// RedditVerification is proven by the signature in the account's profile description.
type RedditVerification struct {
	statement.RedditVerification
}

func (p *RedditVerification) ToContent(stmt, sig string, at time.Time) (*content.RedditVerification, error) {
	return &content.RedditVerification{
		Handle:    p.Handle,
		Subject:   p.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}

// SoundCloudVerification is proven by the signature in the profile description.
type SoundCloudVerification struct {
	statement.SoundCloudVerification
}

func (p *SoundCloudVerification) ToContent(stmt, sig string, at time.Time) (*content.SoundCloudVerification, error) {
	return &content.SoundCloudVerification{
		Permalink: p.Permalink,
		Subject:   p.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}

// NFTOwnershipVerification signs the statement response issued by the witness.
type NFTOwnershipVerification struct {
	Signature string                             `json:"signature"`
	Statement statement.NFTOwnershipVerification `json:"statement"`
}

func (p *NFTOwnershipVerification) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *NFTOwnershipVerification) ToContent(stmt, sig string, at time.Time) (*content.NFTOwnershipVerification, error) {
	return &content.NFTOwnershipVerification{
		ContractAddress: p.Statement.ContractAddress,
		Subject:         p.Statement.Subject,
		Statement:       stmt,
		Signature:       sig,
		Timestamp:       content.Timestamp(at),
	}, nil
}

// POAPOwnershipVerification signs the statement response issued by the witness.
type POAPOwnershipVerification struct {
	Signature string                              `json:"signature"`
	Statement statement.POAPOwnershipVerification `json:"statement"`
}

func (p *POAPOwnershipVerification) GenerateStatement() (string, error) {
	return p.Statement.GenerateStatement()
}

func (p *POAPOwnershipVerification) ToContent(stmt, sig string, at time.Time) (*content.POAPOwnershipVerification, error) {
	return &content.POAPOwnershipVerification{
		EventID:   p.Statement.EventID,
		Subject:   p.Statement.Subject,
		Statement: stmt,
		Signature: sig,
		Timestamp: content.Timestamp(at),
	}, nil
}
