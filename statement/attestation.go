package statement

import (
	"net/url"
	"sort"

	"github.com/pilacorp/go-witness-sdk/subject"
)

// AttestationType names a self-issued attestation.
type AttestationType string

const (
	BasicImageAttestation       AttestationType = "BasicImageAttestation"
	BasicPostAttestation        AttestationType = "BasicPostAttestation"
	BasicProfileAttestation     AttestationType = "BasicProfileAttestation"
	BasicTagAttestation         AttestationType = "BasicTagAttestation"
	BookReviewAttestation       AttestationType = "BookReviewAttestation"
	DappPreferencesAttestation  AttestationType = "DappPreferencesAttestation"
	FollowAttestation           AttestationType = "FollowAttestation"
	LikeAttestation             AttestationType = "LikeAttestation"
	ProgressBookLinkAttestation AttestationType = "ProgressBookLinkAttestation"
)

type attestationDef struct {
	action string
	// keys maps every allowed key to whether it is required.
	keys map[string]bool
}

var attestationDefs = map[AttestationType]attestationDef{
	BasicImageAttestation: {
		action: "issue/basic_image_attestation",
		keys:   map[string]bool{"id": true, "src": true},
	},
	BasicPostAttestation: {
		action: "issue/basic_post_attestation",
		keys:   map[string]bool{"body": true, "id": true, "title": true, "reply_to": false},
	},
	BasicProfileAttestation: {
		action: "issue/basic_profile_attestation",
		keys:   map[string]bool{"description": false, "id": true, "image": false, "username": true, "website": false},
	},
	BasicTagAttestation: {
		action: "issue/basic_tag_attestation",
		keys:   map[string]bool{"id": true, "users": true, "post": true},
	},
	BookReviewAttestation: {
		action: "issue/book_review_attestation",
		keys:   map[string]bool{"id": true, "link": true, "rating": true, "review": true, "title": true},
	},
	DappPreferencesAttestation: {
		action: "issue/dapp_preferences_attestation",
		keys:   map[string]bool{"id": true, "dark_mode": true},
	},
	FollowAttestation: {
		action: "issue/follow_attestation",
		keys:   map[string]bool{"id": true, "target": true},
	},
	LikeAttestation: {
		action: "issue/like_attestation",
		keys:   map[string]bool{"id": true, "target": true},
	},
	ProgressBookLinkAttestation: {
		action: "issue/progress_book_link_attestation",
		keys:   map[string]bool{"id": true, "link": true, "progress": true},
	},
}

// AttestationTypes lists every attestation type in a stable order.
func AttestationTypes() []AttestationType {
	types := make([]AttestationType, 0, len(attestationDefs))
	for t := range attestationDefs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// AttestationTypeFromAction maps a ReCap action such as
// "issue/basic_post_attestation" to its attestation type.
func AttestationTypeFromAction(action string) (AttestationType, bool) {
	for t, def := range attestationDefs {
		if def.action == action {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a known attestation type.
func (t AttestationType) Valid() bool {
	_, ok := attestationDefs[t]
	return ok
}

// Action is the ReCap action that authorizes issuing t.
func (t AttestationType) Action() string {
	return attestationDefs[t].action
}

// Delegated is the credential type issued for t on a delegate's behalf.
func (t AttestationType) Delegated() string {
	return "Delegated" + string(t)
}

// KeyMap returns the allowed keys of t and whether each is required.
func (t AttestationType) KeyMap() map[string]bool {
	keys := make(map[string]bool, len(attestationDefs[t].keys))
	for k, v := range attestationDefs[t].keys {
		keys[k] = v
	}
	return keys
}

// Validate enforces the exact key set of t: every required key present and
// no undeclared key.
func (t AttestationType) Validate(fields map[string]interface{}) error {
	def, ok := attestationDefs[t]
	if !ok {
		return statementError("unknown attestation type %q", t)
	}

	for _, k := range sortedKeys(def.keys) {
		if _, present := fields[k]; def.keys[k] && !present {
			return statementError("could not find required entry %s", k)
		}
	}

	for _, k := range sortedKeys(fields) {
		if _, declared := def.keys[k]; !declared {
			return statementError("found unknown key in content: %s", k)
		}
	}

	return nil
}

// Attestation is a self-issued claim rendered through Canonicalize.
type Attestation interface {
	Statement
	// ToStatement returns the attestation's type and its statement fields.
	ToStatement() (AttestationType, map[string]interface{}, error)
	// StatementSubject is the identity making the attestation.
	StatementSubject() subject.Subjects
}

// GenerateAttestationStatement validates and canonicalizes a.
func GenerateAttestationStatement(a Attestation) (string, error) {
	t, fields, err := a.ToStatement()
	if err != nil {
		return "", err
	}
	if err := t.Validate(fields); err != nil {
		return "", err
	}
	return Canonicalize(fields)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func subjectDID(s subject.Subjects) (string, error) {
	if s.Inner() == nil {
		return "", statementError("missing subject")
	}
	return s.DID(), nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &Error{Reason: "invalid url in " + field, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return statementError("invalid url in %s: %q is not absolute", field, raw)
	}
	return nil
}
