package subject

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
)

// SolanaNetwork is the did:pkh chain reference for Solana mainnet.
const SolanaNetwork = "4sGjMW1sUnHzSxGspuhpqLDx6wiyjNtZ"

// Solana is a Solana account; the base58 address is the Ed25519 public key.
type Solana struct {
	Address string `json:"address"`
}

// NewSolana returns a Solana subject.
func NewSolana(address string) (*Solana, error) {
	s := &Solana{Address: address}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the address decodes to an Ed25519 public key.
func (s *Solana) Validate() error {
	_, err := s.publicKey()
	return err
}

func (s *Solana) publicKey() (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s.Address)
	if err != nil {
		return nil, validationError("failed to decode from base58", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, validationError(fmt.Sprintf("invalid solana address length %d", len(raw)), nil)
	}
	return ed25519.PublicKey(raw), nil
}

func (s *Solana) DID() string {
	return fmt.Sprintf("did:pkh:solana:%s:%s", SolanaNetwork, s.Address)
}

func (s *Solana) DisplayID() string {
	return s.Address
}

func (s *Solana) VerificationMethod() string {
	return s.DID() + "#controller"
}

func (s *Solana) StatementTitle() string {
	return "Solana Address"
}

// ValidSignature verifies a hex Ed25519 signature over the raw statement.
func (s *Solana) ValidSignature(_ context.Context, statement, signature string) error {
	pub, err := s.publicKey()
	if err != nil {
		return err
	}
	if err := crypto.Ed25519Verify(pub, []byte(statement), signature); err != nil {
		return validationError("invalid solana signature", err)
	}
	return nil
}
