package subject

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
)

// Eip155 is an Ethereum account identified by did:pkh:eip155.
type Eip155 struct {
	Address string `json:"address"`
	ChainID string `json:"chain_id"`
}

// NewEip155 returns an Ethereum subject. The address keeps the casing it is given.
func NewEip155(address, chainID string) (*Eip155, error) {
	s := &Eip155{Address: address, ChainID: chainID}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the address and chain id.
func (s *Eip155) Validate() error {
	if !common.IsHexAddress(s.Address) {
		return validationError(fmt.Sprintf("invalid ethereum address %q", s.Address), nil)
	}
	if s.ChainID == "" {
		return validationError("missing chain id", nil)
	}
	return nil
}

func (s *Eip155) DID() string {
	return fmt.Sprintf("did:pkh:eip155:%s:%s", s.ChainID, s.Address)
}

func (s *Eip155) DisplayID() string {
	return s.Address
}

func (s *Eip155) VerificationMethod() string {
	return s.DID() + "#blockchainAccountId"
}

func (s *Eip155) StatementTitle() string {
	return "Ethereum Address"
}

// ValidSignature recovers the EIP-191 signer of statement and compares it to
// the address, ignoring case.
func (s *Eip155) ValidSignature(_ context.Context, statement, signature string) error {
	if err := crypto.VerifyEIP191(statement, signature, s.Address); err != nil {
		return validationError("invalid eip155 signature", err)
	}
	return nil
}

// SameAddress reports whether addr names this account, ignoring case.
func (s *Eip155) SameAddress(addr string) bool {
	return common.IsHexAddress(addr) && common.HexToAddress(addr) == common.HexToAddress(s.Address)
}
