package vc

import (
	"context"
	"fmt"

	"github.com/pilacorp/go-witness-sdk/content"
	"github.com/pilacorp/go-witness-sdk/credential/common/jsonmap"
	"github.com/pilacorp/go-witness-sdk/credential/common/jwt"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/resolver"
)

// JWT returns c as a credential issued by iss and encoded as an EdDSA JWT.
func JWT(ctx context.Context, c content.Content, iss issuer.Issuer, opts ...CredentialOpt) (string, error) {
	if iss == nil {
		return "", fmt.Errorf("issuer is nil")
	}

	m, err := Unsigned(c, iss.DID(), opts...)
	if err != nil {
		return "", err
	}

	token, err := iss.GenerateJWT(ctx, m)
	if err != nil {
		return "", fmt.Errorf("failed to generate jwt: %w", err)
	}

	return token, nil
}

// VerifyJWT checks the token signature against its kid and returns the credential.
func VerifyJWT(ctx context.Context, token string, r resolver.Resolver) (jsonmap.JSONMap, error) {
	if r == nil {
		return nil, fmt.Errorf("resolver is nil")
	}

	m, err := jwt.Verify(ctx, token, r)
	if err != nil {
		return nil, fmt.Errorf("failed to verify jwt: %w", err)
	}

	return m, nil
}
