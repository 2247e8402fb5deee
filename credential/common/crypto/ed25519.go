package crypto

import (
	"crypto/ed25519"
	"fmt"
)

// Ed25519Sign signs message and returns the hex encoded signature.
func Ed25519Sign(privateKey ed25519.PrivateKey, message []byte) (string, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("ed25519: invalid private key length %d", len(privateKey))
	}

	return EncodeHex(ed25519.Sign(privateKey, message)), nil
}

// Ed25519Verify checks a hex encoded signature over message.
func Ed25519Verify(publicKey ed25519.PublicKey, message []byte, signatureHex string) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519: invalid public key length %d", len(publicKey))
	}

	sig, err := DecodeHex(signatureHex)
	if err != nil {
		return fmt.Errorf("ed25519: %w", err)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("ed25519: invalid signature length: got %d, want %d", len(sig), ed25519.SignatureSize)
	}

	if !ed25519.Verify(publicKey, message, sig) {
		return fmt.Errorf("ed25519: %w", ErrInvalidSignature)
	}

	return nil
}

// Ed25519KeyFromSeed derives a private key from a hex encoded 32 byte seed.
func Ed25519KeyFromSeed(seedHex string) (ed25519.PrivateKey, error) {
	seed, err := DecodeHex(seedHex)
	if err != nil {
		return nil, fmt.Errorf("ed25519: invalid seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("ed25519: seed must be %d bytes", ed25519.SeedSize)
	}

	return ed25519.NewKeyFromSeed(seed), nil
}
