package pda

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var programID = solana.MustPublicKeyFromBase58("82X9jUhf5wT8n3RvnDDhh7wYtPJPwTqFLUWTgaGLWkts")

func Test_FindMatchesHostLedger(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	asset := solana.NewWallet().PublicKey()

	signer, _, err := Find(SignerSeeds(), programID)
	require.NoError(t, err)

	tcs := map[string][][]byte{
		"signer seeds": SignerSeeds(),
		"locked seeds": LockedSeeds(user, signer, asset),
		"empty seeds":  {},
	}

	for name, seeds := range tcs {
		t.Run(name, func(t *testing.T) {
			expected, expectedNonce, err := solana.FindProgramAddress(seeds, programID)
			require.NoError(t, err)

			addr, nonce, err := Find(seeds, programID)
			require.NoError(t, err)
			require.Equal(t, expected, addr)
			require.Equal(t, expectedNonce, nonce)
		})
	}
}

func Test_HoldingSeedsMatchAssociatedRegistry(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	asset := solana.NewWallet().PublicKey()

	expected, _, err := solana.FindAssociatedTokenAddress(owner, asset)
	require.NoError(t, err)

	addr, _, err := Find(HoldingSeeds(owner, solana.TokenProgramID, asset), solana.SPLAssociatedTokenAccountProgramID)
	require.NoError(t, err)
	require.Equal(t, expected, addr)
}

func Test_CreateReproducesFind(t *testing.T) {
	addr, nonce, err := Find(SignerSeeds(), programID)
	require.NoError(t, err)

	recreated, err := Create(SignerSeeds(), nonce, programID)
	require.NoError(t, err)
	require.Equal(t, addr, recreated)

	for other := 0; other < 256; other++ {
		if uint8(other) == nonce {
			continue
		}

		// any other nonce either lands on the curve or yields another address
		derived, err := Create(SignerSeeds(), uint8(other), programID)
		if err != nil {
			require.ErrorIs(t, err, ErrInvalidSeeds)
			continue
		}
		require.NotEqual(t, addr, derived)
	}
}

func Test_Deterministic(t *testing.T) {
	first, firstNonce, err := Find(SignerSeeds(), programID)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		addr, nonce, err := Find(SignerSeeds(), programID)
		require.NoError(t, err)
		require.Equal(t, first, addr)
		require.Equal(t, firstNonce, nonce)
	}

	otherProgram := solana.NewWallet().PublicKey()
	addr, _, err := Find(SignerSeeds(), otherProgram)
	require.NoError(t, err)
	require.NotEqual(t, first, addr)
}

func Test_PluggablePredicate(t *testing.T) {
	never := NewDeriver(func([]byte) bool { return false })
	blockedCandidate, err := never.Create(SignerSeeds(), 255, programID)
	require.NoError(t, err)

	tcs := map[string]struct {
		predicate     Predicate
		expectedNonce uint8
		expectedErr   error
	}{
		"first candidate accepted": {
			predicate:     func([]byte) bool { return false },
			expectedNonce: 255,
		},
		"first candidate on the curve": {
			predicate: func(candidate []byte) bool {
				return bytes.Equal(candidate, blockedCandidate[:])
			},
			expectedNonce: 254,
		},
		"every candidate on the curve": {
			predicate:   func([]byte) bool { return true },
			expectedErr: ErrDerivationExhausted,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, nonce, err := NewDeriver(tc.predicate).Find(SignerSeeds(), programID)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				require.True(t, IsDerivationError(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expectedNonce, nonce)
		})
	}
}

func Test_SeedValidation(t *testing.T) {
	tooLong := make([]byte, MaxSeedLength+1)
	_, _, err := Find([][]byte{tooLong}, programID)
	require.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	tooMany := make([][]byte, MaxSeeds)
	for i := range tooMany {
		tooMany[i] = []byte{byte(i)}
	}
	_, _, err = Find(tooMany, programID)
	require.ErrorIs(t, err, ErrTooManySeeds)

	_, err = Create(tooMany, 1, programID)
	require.ErrorIs(t, err, ErrTooManySeeds)
}
