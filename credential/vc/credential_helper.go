package vc

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/common/schema"
	"github.com/pilacorp/go-witness-sdk/credential/common/util"
)

// IssuanceDateFormat is RFC 3339 in UTC with millisecond precision.
const IssuanceDateFormat = content.TimestampFormat

const credentialSchema = `{
	"type": "object",
	"required": ["@context", "id", "type", "issuer", "issuanceDate", "credentialSubject"],
	"properties": {
		"@context": {"type": "array", "minItems": 1},
		"id": {"type": "string", "pattern": "^urn:uuid:"},
		"type": {
			"type": "array",
			"minItems": 2,
			"items": {"type": "string"},
			"contains": {"const": "VerifiableCredential"}
		},
		"issuer": {"type": "string", "pattern": "^did:"},
		"issuanceDate": {"type": "string"},
		"credentialSubject": {"type": "object"},
		"evidence": {"type": "array", "items": {"type": "object", "required": ["type"]}}
	}
}`

var credentialValidator = schema.MustValidator(credentialSchema)

func newCredentialID() string {
	return "urn:uuid:" + uuid.NewString()
}

// serializeCredentialContents serializes CredentialContents into a credential document.
func serializeCredentialContents(vcc *CredentialContents) (jsonmap.JSONMap, error) {
	if vcc == nil {
		return nil, fmt.Errorf("credential contents is nil")
	}

	vcJSON := make(jsonmap.JSONMap)
	validatedContext, err := util.SerializeContexts(vcc.Context)
	if err != nil {
		return nil, fmt.Errorf("invalid @context: %w", err)
	}
	vcJSON["@context"] = validatedContext

	if vcc.ID != "" {
		vcJSON["id"] = vcc.ID
	}
	if len(vcc.Types) > 0 {
		vcJSON["type"] = util.MapSlice(vcc.Types, func(t string) interface{} { return t })
	}
	if vcc.Issuer != "" {
		vcJSON["issuer"] = vcc.Issuer
	}
	if !vcc.IssuanceDate.IsZero() {
		vcJSON["issuanceDate"] = vcc.IssuanceDate.UTC().Format(IssuanceDateFormat)
	}
	vcJSON["credentialSubject"] = serializeSubject(vcc.Subject)
	if len(vcc.Evidence) > 0 {
		vcJSON["evidence"] = util.MapSlice(vcc.Evidence, func(e content.Evidence) interface{} { return e.ToMap() })
	}

	return vcJSON, nil
}

// serializeSubject converts a Subject to a JSON object.
func serializeSubject(subject Subject) map[string]interface{} {
	jsonObj := make(map[string]interface{}, len(subject.CustomFields)+1)
	for k, v := range subject.CustomFields {
		jsonObj[k] = v
	}
	if subject.ID != "" {
		jsonObj["id"] = subject.ID
	}
	return jsonObj
}

// SubjectFromJSON creates a credential subject from a JSON object.
func SubjectFromJSON(subjectObj map[string]interface{}) Subject {
	s := Subject{CustomFields: make(map[string]interface{}, len(subjectObj))}
	for k, v := range subjectObj {
		if id, ok := v.(string); ok && k == "id" {
			s.ID = id
			continue
		}
		s.CustomFields[k] = v
	}
	return s
}

// ParseCredentialContents reads the structured contents of a credential document.
func ParseCredentialContents(c jsonmap.JSONMap) (*CredentialContents, error) {
	contents := &CredentialContents{}
	parsers := []func(jsonmap.JSONMap, *CredentialContents) error{
		parseContext, parseID, parseTypes, parseIssuer, parseDates, parseSubject, parseEvidence,
	}
	for _, parse := range parsers {
		if err := parse(c, contents); err != nil {
			return nil, err
		}
	}
	return contents, nil
}

// parseContext extracts the @context field.
func parseContext(c jsonmap.JSONMap, contents *CredentialContents) error {
	if context, ok := c["@context"].([]interface{}); ok {
		for _, ctx := range context {
			switch v := ctx.(type) {
			case string, map[string]interface{}:
				contents.Context = append(contents.Context, v)
			default:
				return fmt.Errorf("unsupported context type: %T", v)
			}
		}
	}
	return nil
}

// parseID extracts the id field.
func parseID(c jsonmap.JSONMap, contents *CredentialContents) error {
	if id, ok := c["id"].(string); ok {
		contents.ID = id
	}
	return nil
}

// parseTypes extracts the type field.
func parseTypes(c jsonmap.JSONMap, contents *CredentialContents) error {
	switch v := c["type"].(type) {
	case string:
		contents.Types = append(contents.Types, v)
	case []interface{}:
		for _, t := range v {
			if typeStr, ok := t.(string); ok {
				contents.Types = append(contents.Types, typeStr)
			}
		}
	case []string:
		contents.Types = append(contents.Types, v...)
	default:
		return fmt.Errorf("unsupported type field: %T", v)
	}
	return nil
}

// parseIssuer extracts the issuer field.
func parseIssuer(c jsonmap.JSONMap, contents *CredentialContents) error {
	if issuer, ok := c["issuer"].(string); ok {
		contents.Issuer = issuer
	}
	return nil
}

// parseDates extracts the issuanceDate field.
func parseDates(c jsonmap.JSONMap, contents *CredentialContents) error {
	if issuanceDate, ok := c["issuanceDate"].(string); ok {
		t, err := time.Parse(time.RFC3339, issuanceDate)
		if err != nil {
			return fmt.Errorf("failed to parse issuanceDate: %w", err)
		}
		contents.IssuanceDate = t
	}
	return nil
}

// parseSubject extracts the credentialSubject field.
func parseSubject(c jsonmap.JSONMap, contents *CredentialContents) error {
	switch subject := c["credentialSubject"].(type) {
	case nil:
	case map[string]interface{}:
		contents.Subject = SubjectFromJSON(subject)
	default:
		return fmt.Errorf("unsupported subject format: %T", subject)
	}
	return nil
}

// parseEvidence extracts the evidence field.
func parseEvidence(c jsonmap.JSONMap, contents *CredentialContents) error {
	raw, ok := c["evidence"].([]interface{})
	if !ok {
		return nil
	}
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return fmt.Errorf("unsupported evidence format: %T", entry)
		}
		e := content.Evidence{Properties: map[string]interface{}{}}
		for k, v := range m {
			if k != "type" {
				e.Properties[k] = v
				continue
			}
			switch t := v.(type) {
			case string:
				e.Type = t
			case []interface{}:
				if len(t) > 0 {
					e.Type, _ = t[0].(string)
				}
			}
		}
		contents.Evidence = append(contents.Evidence, e)
	}
	return nil
}

// validateCredential validates a credential document against the witness credential schema.
func validateCredential(m jsonmap.JSONMap) error {
	return credentialValidator.Validate(map[string]interface{}(m))
}
