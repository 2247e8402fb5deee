package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pilacorp/go-witness-sdk/credential/common/crypto"
	"github.com/pilacorp/go-witness-sdk/issuer"
	"github.com/pilacorp/go-witness-sdk/locator/mocks"
	"github.com/pilacorp/go-witness-sdk/proof"
	"github.com/pilacorp/go-witness-sdk/statement"
	"github.com/pilacorp/go-witness-sdk/subject"
)

const (
	nftContract        = "0x57f1887a8bf19b14fc0df6fd9b2acc9af147ea85"
	nftIssuedAt        = "2023-09-27T16:23:00.447Z"
	nftWitnessSig      = "cd05dc1c800cbde0ed902af53b486771981df54caef7139a09a5f9653c7d925e48671236f480d3187ae65521f2f7e365ab25175102fbec185fa2e3e8e11c800b"
	nftSubjectSig      = "0x301a5e55d5e49bebf9704dbaa2f9341393cfd559f6a85e2d3f8e74a2ec5c63087b1015bbc44253d2323c41657c23f196a510ce730e18fcf706c7e425d77b89c91b"
	ownershipDelimiter = "\n\n"
)

var nftNow = time.Date(2023, 9, 27, 16, 30, 0, 0, time.UTC)

// fixedSigner signs every challenge with the same recorded signature.
type fixedSigner struct {
	*issuer.Ed25519
	sig string
}

func (s *fixedSigner) Sign(context.Context, string) (string, error) {
	return s.sig, nil
}

func nftProof(t *testing.T) *proof.NFTOwnershipVerification {
	return &proof.NFTOwnershipVerification{
		Signature: nftSubjectSig,
		Statement: statement.NFTOwnershipVerification{
			ContractAddress: nftContract,
			Subject:         ethSubject(t, ethAddress),
			Network:         statement.EthMainnet,
			IssuedAt:        nftIssuedAt,
		},
	}
}

func TestNFTOwnership(t *testing.T) {
	ctrl := gomock.NewController(t)
	l := mocks.NewMockNFTLocator(ctrl)
	l.EXPECT().OwnsContract(gomock.Any(), "eth-mainnet", ethAddress, nftContract).Return(true, nil)

	iss := &fixedSigner{Ed25519: testIssuer(t), sig: nftWitnessSig}
	f := &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Locator: l, Now: clock(nftNow)}

	res, err := f.Statement(context.Background(), &nftProof(t).Statement, iss)
	require.NoError(t, err)
	assert.Equal(t,
		"The Ethereum Address "+ethAddress+" owns an asset from the contract "+nftContract+
			" on the network eth-mainnet at time of "+nftIssuedAt+ownershipDelimiter+nftWitnessSig,
		res.Statement)

	c, err := f.ValidateProof(context.Background(), nftProof(t), iss)
	require.NoError(t, err)
	assert.Equal(t, nftContract, c.ContractAddress)
	assert.False(t, strings.Contains(c.Statement, nftWitnessSig))
	subj, err := c.CredentialSubject()
	require.NoError(t, err)
	assert.Equal(t, nftContract, subj["owns_asset_from"])
}

func TestNFTOwnershipRejects(t *testing.T) {
	iss := &fixedSigner{Ed25519: testIssuer(t), sig: nftWitnessSig}
	ctx := context.Background()

	t.Run("not owned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := mocks.NewMockNFTLocator(ctrl)
		l.EXPECT().OwnsContract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		f := &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Locator: l, Now: clock(nftNow)}
		_, err := f.ValidateProof(ctx, nftProof(t), iss)
		assert.True(t, IsBadLookup(err))
	})

	t.Run("lookup error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := mocks.NewMockNFTLocator(ctrl)
		l.EXPECT().OwnsContract(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("503"))

		f := &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Locator: l, Now: clock(nftNow)}
		_, err := f.ValidateProof(ctx, nftProof(t), iss)
		assert.True(t, IsBadLookup(err))
	})

	// None of these reach the locator.
	tests := []struct {
		name string
		flow *NFTOwnership
		iss  issuer.Issuer
	}{
		{"expired", &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 5, Now: clock(nftNow)}, iss},
		{"future", &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Now: clock(nftNow.Add(-time.Hour))}, iss},
		{"no window", &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, Now: clock(nftNow)}, iss},
		{"other witness", &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Now: clock(nftNow)}, testIssuer(t)},
		{"other delimiter", &NFTOwnership{ChallengeDelimiter: ":::", MaxElapsedMinutes: 15, Now: clock(nftNow)}, iss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			tt.flow.Locator = mocks.NewMockNFTLocator(ctrl)
			_, err := tt.flow.ValidateProof(ctx, nftProof(t), tt.iss)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	t.Run("non ethereum subject", func(t *testing.T) {
		p := nftProof(t)
		sol, err := subject.NewSolana("4uTjzi5QCmE1qpB7TBnDk5tyzUBvSBWKBUpWheVBuMBN")
		require.NoError(t, err)
		p.Statement.Subject = subject.Subjects{Solana: sol}
		f := &NFTOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Now: clock(nftNow)}
		_, err = f.Statement(ctx, &p.Statement, iss)
		assert.True(t, IsValidation(err))
	})
}

func TestPOAPOwnership(t *testing.T) {
	addr, err := crypto.AddressFromPrivateKey(ethPrivateKey)
	require.NoError(t, err)

	issuedAt := "2023-09-27T16:36:33.696Z"
	now := time.Date(2023, 9, 27, 16, 40, 0, 0, time.UTC)
	stmt := statement.POAPOwnershipVerification{EventID: 102213, IssuedAt: issuedAt, Subject: ethSubject(t, addr)}

	ctrl := gomock.NewController(t)
	l := mocks.NewMockPOAPLocator(ctrl)
	l.EXPECT().HasEvent(gomock.Any(), addr, int64(102213)).Return(true, nil)

	iss := testIssuer(t)
	f := &POAPOwnership{ChallengeDelimiter: ownershipDelimiter, MaxElapsedMinutes: 15, Locator: l, Now: clock(now)}

	res, err := f.Statement(context.Background(), &stmt, iss)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Statement, "The Ethereum Address "+addr+" has a POAP for event id 102213 at time of "+issuedAt+ownershipDelimiter))

	sig, err := crypto.SignEIP191(res.Statement, ethPrivateKey)
	require.NoError(t, err)

	c, err := f.ValidateProof(context.Background(), &proof.POAPOwnershipVerification{Signature: sig, Statement: stmt}, iss)
	require.NoError(t, err)
	subj, err := c.CredentialSubject()
	require.NoError(t, err)
	assert.Equal(t, "102213", subj["event_id"])

	// Signing only the statement, without the witness challenge, is rejected.
	plain, err := stmt.GenerateStatement()
	require.NoError(t, err)
	sig, err = crypto.SignEIP191(plain, ethPrivateKey)
	require.NoError(t, err)
	_, err = f.ValidateProof(context.Background(), &proof.POAPOwnershipVerification{Signature: sig, Statement: stmt}, iss)
	assert.True(t, IsValidation(err))
}
