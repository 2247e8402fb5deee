package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSignature is returned when a signature does not verify against the expected key.
var ErrInvalidSignature = errors.New("invalid signature")

// DecodeHex decodes a hex string, with or without the 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	return b, nil
}

// EncodeHex returns the lowercase hex encoding of b without a prefix.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}
