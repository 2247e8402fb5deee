package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
)

// GetDocumentFromJWT extracts the embedded document without verifying the signature.
func GetDocumentFromJWT(tokenString string, docType string) (jsonmap.JSONMap, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return documentFromClaims(claims, docType)
}

func documentFromClaims(claims jwt.MapClaims, docType string) (jsonmap.JSONMap, error) {
	documentData, ok := claims[docType]
	if !ok {
		return nil, fmt.Errorf("document type %s not found in JWT", docType)
	}

	documentMap, ok := documentData.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("document is not a valid JSON object")
	}

	return jsonmap.JSONMap(documentMap), nil
}
