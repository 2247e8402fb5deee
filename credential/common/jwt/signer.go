package jwt

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
)

// Claim names carried by witness credential tokens.
const (
	ClaimVC = "vc"
	ClaimVP = "vp"
)

// JWTSigner handles JWT signing operations for verifiable documents
type JWTSigner struct {
	privKey ed25519.PrivateKey
	keyID   string
	issuer  string
}

// NewJWTSigner creates a new EdDSA JWT signer. keyID is the verification
// method published in the issuer's DID document.
func NewJWTSigner(privKey ed25519.PrivateKey, issuerDID, keyID string) *JWTSigner {
	return &JWTSigner{
		privKey: privKey,
		keyID:   keyID,
		issuer:  issuerDID,
	}
}

// SignDocument signs a verifiable document (VC or VP) as a JWT. Registered
// claims are derived from the document: jti from id, sub from
// credentialSubject.id and nbf from issuanceDate.
func (s *JWTSigner) SignDocument(doc jsonmap.JSONMap, docType string, additionalClaims ...map[string]interface{}) (string, error) {
	if len(s.privKey) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("invalid ed25519 private key")
	}

	claims := jwt.MapClaims{
		"iss":   s.issuer,
		docType: map[string]interface{}(doc),
	}

	if id, ok := doc["id"].(string); ok && id != "" {
		claims["jti"] = id
	} else {
		claims["jti"] = "urn:uuid:" + uuid.NewString()
	}

	if cs, ok := doc["credentialSubject"].(map[string]interface{}); ok {
		if sub, ok := cs["id"].(string); ok {
			claims["sub"] = sub
		}
	}

	if issued, ok := doc["issuanceDate"].(string); ok {
		nbf, err := time.Parse(time.RFC3339, issued)
		if err != nil {
			return "", fmt.Errorf("invalid issuanceDate: %w", err)
		}
		claims["nbf"] = nbf.Unix()
	}

	for _, extra := range additionalClaims {
		for key, value := range extra {
			claims[key] = value
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = s.keyID

	signedString, err := token.SignedString(s.privKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedString, nil
}

// GetPublicKey returns the public key associated with this signer
func (s *JWTSigner) GetPublicKey() ed25519.PublicKey {
	return s.privKey.Public().(ed25519.PublicKey)
}

// GetKeyID returns the Key ID for this signer
func (s *JWTSigner) GetKeyID() string {
	return s.keyID
}
