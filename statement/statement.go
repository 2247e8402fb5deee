// Package statement renders claims into the exact text a subject signs.
package statement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Header opens every canonical attestation statement.
const Header = "Sign a copy of your data to turn it into a Verifiable Credential:\n"

// Statement is a claim with a deterministic, signable text form.
type Statement interface {
	GenerateStatement() (string, error)
}

// Error is returned for statements that cannot be rendered.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "statement: " + e.Reason
	}
	return fmt.Sprintf("statement: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statementError(format string, args ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, args...)}
}

// Canonicalize renders fields as sorted "key:value" lines below Header.
// Values are compact JSON, so strings appear quoted.
func Canonicalize(fields map[string]interface{}) (string, error) {
	lines := make([]string, 0, len(fields))
	for k, v := range fields {
		enc, err := encodeValue(v)
		if err != nil {
			return "", &Error{Reason: fmt.Sprintf("could not encode entry %s", k), Err: err}
		}
		lines = append(lines, k+":"+enc)
	}
	sort.Strings(lines)

	return strings.Join(append([]string{Header}, lines...), "\n"), nil
}

func encodeValue(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}

	return unescapeLineSeparators(strings.TrimSuffix(buf.String(), "\n")), nil
}

// unescapeLineSeparators undoes the U+2028 and U+2029 escapes of encoding/json,
// which other JSON encoders emit as raw characters.
func unescapeLineSeparators(s string) string {
	const escapePrefix = `\u202`
	if !strings.Contains(s, escapePrefix) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		rest := s[i:]
		if len(rest) >= 6 && strings.HasPrefix(rest, escapePrefix) && (rest[5] == '8' || rest[5] == '9') {
			b.WriteRune(rune(0x2020 + int(rest[5]-'0')))
			i += 5
			continue
		}
		// Other escapes are copied two bytes at a time so an escaped backslash is never split.
		b.WriteByte(s[i])
		if i+1 < len(s) {
			i++
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
