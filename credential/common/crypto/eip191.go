package crypto

import (
	"fmt"

	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	eip191Prefix = "\x19Ethereum Signed Message:\n"

	// RecoverableSignatureLength is the size of an [R || S || V] signature.
	RecoverableSignatureLength = 65
)

// EIP191Hash returns the Keccak256 hash of a personal_sign message.
func EIP191Hash(message string) []byte {
	prefix := fmt.Sprintf("%s%d", eip191Prefix, len(message))
	return crypto.Keccak256([]byte(prefix), []byte(message))
}

// RecoverEIP191 recovers the address that produced an [R || S || V] personal_sign
// signature over message. V may be 0/1 or 27/28.
func RecoverEIP191(message, signatureHex string) (common.Address, error) {
	sig, err := DecodeHex(signatureHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("eip191: %w", err)
	}
	if len(sig) != RecoverableSignatureLength {
		return common.Address{}, fmt.Errorf("eip191: invalid signature length: got %d, want %d", len(sig), RecoverableSignatureLength)
	}

	recID := sig[64] % 27
	if recID > 3 {
		return common.Address{}, fmt.Errorf("eip191: invalid recovery id %d", sig[64])
	}

	// btcec expects the compact layout [27+recid || R || S] for uncompressed keys.
	compact := make([]byte, RecoverableSignatureLength)
	compact[0] = 27 + recID
	copy(compact[1:], sig[:64])

	pub, _, err := btcecdsa.RecoverCompact(compact, EIP191Hash(message))
	if err != nil {
		return common.Address{}, fmt.Errorf("eip191: recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub.ToECDSA()), nil
}

// VerifyEIP191 checks that signatureHex is a personal_sign signature over message
// by the given hex address. Address comparison is case-insensitive.
func VerifyEIP191(message, signatureHex, address string) error {
	if !common.IsHexAddress(address) {
		return fmt.Errorf("eip191: invalid address %q", address)
	}

	recovered, err := RecoverEIP191(message, signatureHex)
	if err != nil {
		return err
	}

	if recovered != common.HexToAddress(address) {
		return fmt.Errorf("eip191: signer %s does not match %s: %w", recovered.Hex(), common.HexToAddress(address).Hex(), ErrInvalidSignature)
	}

	return nil
}

// SignEIP191 produces a 0x-prefixed [R || S || V] personal_sign signature with V in {27, 28}.
func SignEIP191(message, hexPrivateKey string) (string, error) {
	keyBytes, err := DecodeHex(hexPrivateKey)
	if err != nil {
		return "", fmt.Errorf("eip191: invalid private key: %w", err)
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("eip191: private key must be 32 bytes")
	}

	privKey := secp256k1.PrivKeyFromBytes(keyBytes)
	compact := dcrecdsa.SignCompact(privKey, EIP191Hash(message), false)

	sig := make([]byte, RecoverableSignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]

	return "0x" + EncodeHex(sig), nil
}

// AddressFromPrivateKey returns the checksummed Ethereum address for a hex secp256k1 key.
func AddressFromPrivateKey(hexPrivateKey string) (string, error) {
	keyBytes, err := DecodeHex(hexPrivateKey)
	if err != nil {
		return "", fmt.Errorf("eip191: invalid private key: %w", err)
	}
	if len(keyBytes) != 32 {
		return "", fmt.Errorf("eip191: private key must be 32 bytes")
	}

	pub := secp256k1.PrivKeyFromBytes(keyBytes).PubKey()
	return crypto.PubkeyToAddress(*pub.ToECDSA()).Hex(), nil
}

// ChecksumAddress returns the EIP-55 form of a hex address.
func ChecksumAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid address %q", address)
	}

	return common.HexToAddress(address).Hex(), nil
}
