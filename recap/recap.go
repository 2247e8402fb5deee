// Package recap parses SIWE messages carrying ReCap capability delegations.
package recap

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
	"github.com/pilacorp/go-witness-sdk/resolver"
	"github.com/pilacorp/go-witness-sdk/statement"
	"github.com/pilacorp/go-witness-sdk/subject"
)

// ResourcePrefix marks a ReCap resource in a SIWE message.
const ResourcePrefix = "urn:recap:"

var (
	ErrMalformedMessage    = errors.New("malformed siwe message")
	ErrNoCapability        = errors.New("could not find service_key in recap resources")
	ErrAmbiguousCapability = errors.New("multiple recaps grant the service_key")
	ErrNoAttestationTypes  = errors.New("recap grants no attestation types")
	ErrUnauthorizedType    = errors.New("attestation type not authorized by recap")
	ErrExpired             = errors.New("siwe message expired")
	ErrNotYetValid         = errors.New("siwe message not yet valid")
	ErrAddressMismatch     = errors.New("attestation subject does not match siwe address")
	ErrSiweSignature       = errors.New("invalid siwe signature")
	ErrDelegateSignature   = errors.New("invalid delegate signature")
	ErrUnsupportedDelegate = errors.New("delegate must be a did:key or did:web url")
	ErrMalformedDelegate   = errors.New("delegate must be a did url with a single key fragment")
)

const capabilitySchema = `{
	"type": "object",
	"required": ["att"],
	"properties": {
		"att": {
			"type": "object",
			"additionalProperties": {
				"type": "object",
				"additionalProperties": {"type": "array"}
			}
		},
		"prf": {"type": "array"}
	}
}`

var capabilityValidator = schema.MustValidator(capabilitySchema)

// Capability is the JSON body of a ReCap resource.
type Capability struct {
	Att map[string]map[string][]interface{} `json:"att"`
	Prf []interface{}                       `json:"prf"`
}

// DecodeResource decodes a urn:recap: resource.
func DecodeResource(resource string) (*Capability, error) {
	if !strings.HasPrefix(resource, ResourcePrefix) {
		return nil, fmt.Errorf("not a recap resource: %q", resource)
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(resource, ResourcePrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode recap: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse recap: %w", err)
	}
	if err := capabilityValidator.Validate(doc); err != nil {
		return nil, err
	}

	var c Capability
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse recap: %w", err)
	}
	return &c, nil
}

// EncodeResource renders c as a urn:recap: resource.
func EncodeResource(c *Capability) (string, error) {
	if c.Prf == nil {
		c.Prf = []interface{}{}
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode recap: %w", err)
	}
	return ResourcePrefix + base64.RawStdEncoding.EncodeToString(raw), nil
}

// NewCapability grants the given attestation types to serviceKey.
func NewCapability(serviceKey string, types ...statement.AttestationType) *Capability {
	actions := make(map[string][]interface{}, len(types))
	for _, t := range types {
		actions[t.Action()] = []interface{}{map[string]interface{}{}}
	}
	return &Capability{
		Att: map[string]map[string][]interface{}{serviceKey: actions},
		Prf: []interface{}{},
	}
}

// ParsedReCap is a SIWE delegation of attestation types to a delegate key.
type ParsedReCap struct {
	Message  *Message
	Delegate string
	Subject  subject.Eip155
	Types    []statement.AttestationType
}

// Parse extracts the delegation granted to serviceKey by a SIWE message.
// Resources that do not decode as a capability, and actions that name no
// attestation type, are skipped.
func Parse(siweMessage, serviceKey string) (*ParsedReCap, error) {
	m, err := ParseMessage(siweMessage)
	if err != nil {
		return nil, err
	}

	var granted map[string][]interface{}
	for _, r := range m.ResourceURIs() {
		if !strings.HasPrefix(r, ResourcePrefix) {
			continue
		}
		c, err := DecodeResource(r)
		if err != nil {
			continue
		}
		actions, ok := c.Att[serviceKey]
		if !ok {
			continue
		}
		if granted != nil {
			return nil, ErrAmbiguousCapability
		}
		granted = actions
	}
	if granted == nil {
		return nil, ErrNoCapability
	}

	types := make([]statement.AttestationType, 0, len(granted))
	for action := range granted {
		if t, ok := statement.AttestationTypeFromAction(action); ok {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return nil, ErrNoAttestationTypes
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return &ParsedReCap{
		Message:  m,
		Delegate: m.Delegate(),
		Subject: subject.Eip155{
			Address: m.ChecksumAddress(),
			ChainID: fmt.Sprint(m.GetChainID()),
		},
		Types: types,
	}, nil
}

// Authorizes reports whether t is among the delegated types.
func (p *ParsedReCap) Authorizes(t statement.AttestationType) bool {
	for _, granted := range p.Types {
		if granted == t {
			return true
		}
	}
	return false
}

// DelegateKey splits the delegate into its DID and key fragment.
func (p *ParsedReCap) DelegateKey() (did, keyName string, err error) {
	parts := strings.Split(p.Delegate, "#")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedDelegate, p.Delegate)
	}
	if !strings.HasPrefix(parts[0], resolver.MethodKey) && !strings.HasPrefix(parts[0], resolver.MethodWeb) {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDelegate, p.Delegate)
	}
	return parts[0], parts[1], nil
}
