package statement

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pilacorp/go-witness-sdk/subject"
)

func requireSubject(s subject.Subjects) error {
	if s.Inner() == nil {
		return statementError("missing subject")
	}
	return nil
}

// DNSVerification links a domain to a subject through a TXT record.
type DNSVerification struct {
	Domain  string           `json:"domain"`
	Prefix  string           `json:"prefix"`
	Subject subject.Subjects `json:"subject"`
}

func (s *DNSVerification) GenerateStatement() (string, error) {
	if err := requireSubject(s.Subject); err != nil {
		return "", err
	}
	if s.Domain == "" {
		return "", statementError("missing domain")
	}
	return fmt.Sprintf("%s is linked to %s", s.Domain, s.Subject.DisplayID()), nil
}

// SameControllerAssertion links two subjects controlled by the same party.
type SameControllerAssertion struct {
	ID1 subject.Subjects `json:"id1"`
	ID2 subject.Subjects `json:"id2"`
}

func (s *SameControllerAssertion) GenerateStatement() (string, error) {
	if err := requireSubject(s.ID1); err != nil {
		return "", err
	}
	if err := requireSubject(s.ID2); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"I am attesting that %s %s is linked to %s %s",
		s.ID1.StatementTitle(), s.ID1.DisplayID(),
		s.ID2.StatementTitle(), s.ID2.DisplayID(),
	), nil
}

// EmailVerification links an email address to a subject.
type EmailVerification struct {
	Email   string           `json:"email"`
	Subject subject.Subjects `json:"subject"`
}

func (s *EmailVerification) GenerateStatement() (string, error) {
	if err := requireSubject(s.Subject); err != nil {
		return "", err
	}
	if s.Email == "" {
		return "", statementError("missing email")
	}
	return fmt.Sprintf("%s is linked to the %s %s", s.Email, s.Subject.StatementTitle(), s.Subject.DisplayID()), nil
}

// GitHubVerification links a GitHub handle to a subject.
type GitHubVerification struct {
	Handle  string           `json:"handle"`
	Subject subject.Subjects `json:"subject"`
}

func (s *GitHubVerification) GenerateStatement() (string, error) {
	return handleStatement("this GitHub handle %s", s.Handle, s.Subject)
}

// TwitterVerification links a Twitter handle to a subject.
type TwitterVerification struct {
	Handle  string           `json:"handle"`
	Subject subject.Subjects `json:"subject"`
}

func (s *TwitterVerification) GenerateStatement() (string, error) {
	return handleStatement("this twitter handle @%s", s.Handle, s.Subject)
}

// RedditVerification links a Reddit handle to a subject.
type RedditVerification struct {
	Handle  string           `json:"handle"`
	Subject subject.Subjects `json:"subject"`
}

func (s *RedditVerification) GenerateStatement() (string, error) {
	return handleStatement("this Reddit handle %s", s.Handle, s.Subject)
}

// SoundCloudVerification links a SoundCloud profile to a subject.
type SoundCloudVerification struct {
	Permalink string           `json:"permalink"`
	Subject   subject.Subjects `json:"subject"`
}

func (s *SoundCloudVerification) GenerateStatement() (string, error) {
	return handleStatement("this SoundCloud profile https://soundcloud.com/%s", s.Permalink, s.Subject)
}

func handleStatement(account, handle string, s subject.Subjects) (string, error) {
	if err := requireSubject(s); err != nil {
		return "", err
	}
	if handle == "" {
		return "", statementError("missing handle")
	}
	return fmt.Sprintf(
		"I am attesting that %s is linked to the %s %s",
		fmt.Sprintf(account, handle), s.StatementTitle(), s.DisplayID(),
	), nil
}

// AlchemyNetwork is a network the NFT ownership flow can query.
type AlchemyNetwork string

const (
	EthMainnet     AlchemyNetwork = "eth-mainnet"
	PolygonMainnet AlchemyNetwork = "polygon-mainnet"
)

func (n *AlchemyNetwork) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &Error{Reason: "malformed network", Err: err}
	}
	switch AlchemyNetwork(s) {
	case EthMainnet, PolygonMainnet:
		*n = AlchemyNetwork(s)
		return nil
	default:
		return statementError("unsupported network %q", s)
	}
}

// NFTOwnershipVerification claims an account owns an asset from a contract.
type NFTOwnershipVerification struct {
	ContractAddress string           `json:"contract_address"`
	Subject         subject.Subjects `json:"subject"`
	Network         AlchemyNetwork   `json:"network"`
	IssuedAt        string           `json:"issued_at"`
}

func (s *NFTOwnershipVerification) GenerateStatement() (string, error) {
	if err := requireSubject(s.Subject); err != nil {
		return "", err
	}
	if _, err := ParseIssuedAt(s.IssuedAt); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"The %s %s owns an asset from the contract %s on the network %s at time of %s",
		s.Subject.StatementTitle(), s.Subject.DisplayID(), s.ContractAddress, s.Network, s.IssuedAt,
	), nil
}

// POAPOwnershipVerification claims an account holds a POAP for an event.
type POAPOwnershipVerification struct {
	EventID  int64            `json:"event_id"`
	IssuedAt string           `json:"issued_at"`
	Subject  subject.Subjects `json:"subject"`
}

func (s *POAPOwnershipVerification) GenerateStatement() (string, error) {
	if err := requireSubject(s.Subject); err != nil {
		return "", err
	}
	if _, err := ParseIssuedAt(s.IssuedAt); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"The %s %s has a POAP for event id %d at time of %s",
		s.Subject.StatementTitle(), s.Subject.DisplayID(), s.EventID, s.IssuedAt,
	), nil
}

// ParseIssuedAt parses an RFC 3339 timestamp embedded in a statement.
func ParseIssuedAt(issuedAt string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, issuedAt)
	if err != nil {
		return time.Time{}, &Error{Reason: "failed to parse issued_at", Err: err}
	}
	return t, nil
}
