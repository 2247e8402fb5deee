package jwt

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/resolver"
)

// JWTVerifier handles JWT verification operations
type JWTVerifier struct {
	resolver resolver.Resolver
}

// NewJWTVerifier creates a new JWT verifier backed by a DID resolver.
func NewJWTVerifier(r resolver.Resolver) *JWTVerifier {
	return &JWTVerifier{resolver: r}
}

// VerifyDocument checks the token signature against the key named by its kid
// header and returns the embedded document.
func (v *JWTVerifier) VerifyDocument(ctx context.Context, tokenString, docType string) (jsonmap.JSONMap, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("kid not found in header")
		}

		jwk, err := v.resolver.Resolve(ctx, kid)
		if err != nil {
			return nil, fmt.Errorf("failed to get public key: %w", err)
		}

		pub, ok := jwk.Key.(ed25519.PublicKey)
		if !ok {
			return nil, fmt.Errorf("unsupported public key type %T", jwk.Key)
		}

		return pub, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return documentFromClaims(claims, docType)
}

// Verify checks a JWT VC and returns its credential.
func Verify(ctx context.Context, tokenString string, r resolver.Resolver) (jsonmap.JSONMap, error) {
	return NewJWTVerifier(r).VerifyDocument(ctx, tokenString, ClaimVC)
}
