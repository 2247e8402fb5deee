package content

import (
	"fmt"
	"strconv"

	"github.com/pilacorp/go-witness-sdk/subject"
)

// DefaultDNSServer is the DNS-over-HTTPS endpoint recorded in DNS evidence.
const DefaultDNSServer = "https://cloudflare-dns.com/dns-query"

// DNSVerification links a subject to a domain.
type DNSVerification struct {
	Domain    string
	Subject   subject.Subjects
	DNSServer string
	Timestamp string
}

func (c *DNSVerification) Context() []interface{} { return DefaultContext() }

func (c *DNSVerification) Types() []string { return types("DnsVerification") }

func (c *DNSVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, "dns:"+c.Domain)
}

func (c *DNSVerification) Evidence() ([]Evidence, error) {
	server := c.DNSServer
	if server == "" {
		server = DefaultDNSServer
	}
	return single(Evidence{
		Type:       "DnsVerificationMessage",
		Properties: map[string]interface{}{"timestamp": c.Timestamp, "dnsServer": server},
	})
}

// SameControllerAssertion links two subjects held by one controller.
type SameControllerAssertion struct {
	ID1        subject.Subjects
	ID2        subject.Subjects
	Statement  string
	Signature1 string
	Signature2 string
}

func (c *SameControllerAssertion) Context() []interface{} { return DefaultContext() }

func (c *SameControllerAssertion) Types() []string { return types("SameControllerAssertion") }

func (c *SameControllerAssertion) CredentialSubject() (map[string]interface{}, error) {
	id1, err := subjectID(c.ID1)
	if err != nil {
		return nil, err
	}
	id2, err := subjectID(c.ID2)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id1": id1, "id2": id2}, nil
}

func (c *SameControllerAssertion) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type: "SameControllerEvidence",
		Properties: map[string]interface{}{
			"signature1": c.Signature1,
			"signature2": c.Signature2,
			"statement":  c.Statement,
		},
	})
}

// EmailVerification links a subject to an email address.
type EmailVerification struct {
	Email     string
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

// Email credentials do not use schema.org terms.
func (c *EmailVerification) Context() []interface{} { return DefaultContext()[:2] }

func (c *EmailVerification) Types() []string { return types("EmailVerification") }

func (c *EmailVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, c.Email)
}

func (c *EmailVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type:       "EmailVerificationMessage",
		Properties: map[string]interface{}{"email": c.Email, "timestamp": c.Timestamp},
	})
}

// GitHubVerification links a subject to a GitHub account via a gist.
type GitHubVerification struct {
	GistID    string
	Handle    string
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

func (c *GitHubVerification) Context() []interface{} { return DefaultContext() }

func (c *GitHubVerification) Types() []string { return types("GitHubVerification") }

func (c *GitHubVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, "https://github.com/"+c.Handle)
}

func (c *GitHubVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type: "GitHubVerificationMessage",
		Properties: map[string]interface{}{
			"handle":    c.Handle,
			"timestamp": c.Timestamp,
			"gistId":    c.GistID,
		},
	})
}

// TwitterVerification links a subject to a Twitter account via a tweet.
type TwitterVerification struct {
	Handle    string
	TweetID   string
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

func (c *TwitterVerification) Context() []interface{} { return DefaultContext() }

func (c *TwitterVerification) Types() []string { return types("TwitterVerification") }

func (c *TwitterVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, "https://twitter.com/"+c.Handle)
}

func (c *TwitterVerification) Evidence() ([]Evidence, error) {
	if c.TweetID == "" {
		return nil, fmt.Errorf("content: could not find tweet id")
	}
	return single(Evidence{
		Type: "TwitterVerificationMessage",
		Properties: map[string]interface{}{
			"handle":    c.Handle,
			"timestamp": c.Timestamp,
			"tweetId":   c.TweetID,
		},
	})
}

// RedditVerification links a subject to a Reddit account.
type RedditVerification struct {
	Handle    string
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

func (c *RedditVerification) Context() []interface{} { return DefaultContext() }

func (c *RedditVerification) Types() []string { return types("RedditVerification") }

func (c *RedditVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, "https://reddit.com/user/"+c.Handle+"/")
}

func (c *RedditVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type:       "RedditVerificationMessage",
		Properties: map[string]interface{}{"handle": c.Handle, "timestamp": c.Timestamp},
	})
}

// SoundCloudVerification links a subject to a SoundCloud profile.
type SoundCloudVerification struct {
	Permalink string
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

func (c *SoundCloudVerification) Context() []interface{} { return DefaultContext() }

func (c *SoundCloudVerification) Types() []string { return types("SoundCloudVerification") }

func (c *SoundCloudVerification) CredentialSubject() (map[string]interface{}, error) {
	return sameAs(c.Subject, "https://soundcloud.com/"+c.Permalink)
}

func (c *SoundCloudVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type:       "SoundCloudVerificationMessage",
		Properties: map[string]interface{}{"permalink": c.Permalink, "timestamp": c.Timestamp},
	})
}

// NFTOwnershipVerification records that a subject owns an asset from a contract.
type NFTOwnershipVerification struct {
	ContractAddress string
	Subject         subject.Subjects
	Statement       string
	Signature       string
	Timestamp       string
}

func (c *NFTOwnershipVerification) Context() []interface{} { return DefaultContext() }

func (c *NFTOwnershipVerification) Types() []string { return types("NftOwnershipVerification") }

func (c *NFTOwnershipVerification) CredentialSubject() (map[string]interface{}, error) {
	id, err := subjectID(c.Subject)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": id, "owns_asset_from": c.ContractAddress}, nil
}

func (c *NFTOwnershipVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type: "NftOwnershipMessage",
		Properties: map[string]interface{}{
			"contract_address": c.ContractAddress,
			"statement":        c.Statement,
			"signature":        c.Signature,
			"timestamp":        c.Timestamp,
		},
	})
}

// POAPOwnershipVerification records that a subject holds a POAP for an event.
type POAPOwnershipVerification struct {
	EventID   int64
	Subject   subject.Subjects
	Statement string
	Signature string
	Timestamp string
}

func (c *POAPOwnershipVerification) Context() []interface{} { return DefaultContext() }

func (c *POAPOwnershipVerification) Types() []string { return types("PoapOwnershipVerification") }

func (c *POAPOwnershipVerification) CredentialSubject() (map[string]interface{}, error) {
	id, err := subjectID(c.Subject)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": id, "event_id": strconv.FormatInt(c.EventID, 10)}, nil
}

func (c *POAPOwnershipVerification) Evidence() ([]Evidence, error) {
	return single(Evidence{
		Type: "PoapOwnershipMessage",
		Properties: map[string]interface{}{
			"event_id":  strconv.FormatInt(c.EventID, 10),
			"statement": c.Statement,
			"signature": c.Signature,
			"timestamp": c.Timestamp,
		},
	})
}

func sameAs(s subject.Subjects, target string) (map[string]interface{}, error) {
	id, err := subjectID(s)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"id": id, "sameAs": target}, nil
}
