package recap

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	siwe "github.com/spruceid/siwe-go"
)

// Message is an EIP-4361 Sign-In with Ethereum message.
type Message struct {
	*siwe.Message
}

// MessageOptions holds the optional fields of a new Message. A zero ChainID
// means mainnet.
type MessageOptions struct {
	Statement      string
	ChainID        int
	IssuedAt       time.Time
	ExpirationTime *time.Time
	NotBefore      *time.Time
	RequestID      string
	Resources      []string
}

// NewMessage builds a message in which address signs in to domain on
// behalf of uri.
func NewMessage(domain, address, uri, nonce string, opts MessageOptions) (*Message, error) {
	options := map[string]interface{}{}
	if opts.Statement != "" {
		options["statement"] = opts.Statement
	}
	if opts.ChainID != 0 {
		options["chainId"] = opts.ChainID
	}
	if !opts.IssuedAt.IsZero() {
		options["issuedAt"] = formatTime(opts.IssuedAt)
	}
	if opts.ExpirationTime != nil {
		options["expirationTime"] = formatTime(*opts.ExpirationTime)
	}
	if opts.NotBefore != nil {
		options["notBefore"] = formatTime(*opts.NotBefore)
	}
	if opts.RequestID != "" {
		options["requestId"] = opts.RequestID
	}
	if len(opts.Resources) > 0 {
		resources := make([]url.URL, 0, len(opts.Resources))
		for _, r := range opts.Resources {
			u, err := url.Parse(r)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid resource %q", ErrMalformedMessage, r)
			}
			resources = append(resources, *u)
		}
		options["resources"] = resources
	}

	m, err := siwe.InitMessage(domain, address, uri, nonce, options)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &Message{m}, nil
}

// ParseMessage parses the EIP-4361 text form.
func ParseMessage(raw string) (*Message, error) {
	m, err := siwe.ParseMessage(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &Message{m}, nil
}

// CheckTime checks t against the not-before and expiration times.
func (m *Message) CheckTime(t time.Time) error {
	if _, err := m.ValidAt(t); err != nil {
		var expired *siwe.ExpiredMessage
		if errors.As(err, &expired) {
			return fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	}
	return nil
}

// VerifySignature checks the EIP-191 signature of the rendered message by
// its address.
func (m *Message) VerifySignature(signature string) error {
	if _, err := m.VerifyEIP191(signature); err != nil {
		return fmt.Errorf("%w: %v", ErrSiweSignature, err)
	}
	return nil
}

// ChecksumAddress returns the EIP-55 form of the signing address.
func (m *Message) ChecksumAddress() string {
	return m.GetAddress().Hex()
}

// Delegate returns the URI the address signs in on behalf of.
func (m *Message) Delegate() string {
	u := m.GetURI()
	return u.String()
}

// ResourceURIs returns the resources in message order.
func (m *Message) ResourceURIs() []string {
	resources := m.GetResources()
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.String())
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
