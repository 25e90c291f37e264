package token

import (
	"testing"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/db/memory"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
)

type fixture struct {
	rt        *runtime.Runtime
	program   *Program
	payer     solana.PublicKey
	authority solana.PublicKey
	mint      solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		rt:        runtime.New(memory.NewAccountsQ(), pda.Default(), runtime.DefaultRent(), logan.New()),
		program:   NewProgram(nil),
		payer:     solana.NewWallet().PublicKey(),
		authority: solana.NewWallet().PublicKey(),
		mint:      solana.NewWallet().PublicKey(),
	}

	_, err := f.rt.Airdrop(f.payer, 10_000_000_000)
	require.NoError(t, err)

	require.NoError(t, f.rt.Execute([]solana.PublicKey{f.payer, f.mint}, func(ctx *runtime.Context) error {
		return f.program.CreateMint(ctx, f.payer, f.mint, f.authority, 6)
	}))

	return f
}

func (f *fixture) holding(t *testing.T, owner, mint solana.PublicKey, amount uint64) solana.PublicKey {
	var address solana.PublicKey
	require.NoError(t, f.rt.Execute([]solana.PublicKey{f.payer, f.authority}, func(ctx *runtime.Context) (err error) {
		address, err = f.program.CreateHolding(ctx, f.payer, owner, mint)
		if err != nil || amount == 0 {
			return err
		}
		return f.program.MintTo(ctx, mint, address, runtime.Signer(f.authority), amount)
	}))

	return address
}

func (f *fixture) balance(t *testing.T, address solana.PublicKey) uint64 {
	var amount uint64
	require.NoError(t, f.rt.Execute(nil, func(ctx *runtime.Context) error {
		holding, err := f.program.Holding(ctx, address)
		if err != nil {
			return err
		}
		amount = holding.Amount
		return nil
	}))

	return amount
}

func Test_HoldingAddressIsAssociated(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	expected, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	actual, err := NewProgram(nil).HoldingAddress(owner, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func Test_CreateHolding(t *testing.T) {
	f := newFixture(t)
	owner := solana.NewWallet().PublicKey()

	address := f.holding(t, owner, f.mint, 0)

	err := f.rt.Execute([]solana.PublicKey{f.payer}, func(ctx *runtime.Context) error {
		holding, err := f.program.Holding(ctx, address)
		if err != nil {
			return err
		}
		assert.Equal(t, owner, holding.Owner)
		assert.Equal(t, f.mint, holding.Mint)
		assert.Zero(t, holding.Amount)

		_, err = f.program.CreateHolding(ctx, f.payer, owner, f.mint)
		return err
	})
	assert.ErrorIs(t, err, db.ErrAlreadyExists)

	err = f.rt.Execute([]solana.PublicKey{f.payer}, func(ctx *runtime.Context) error {
		_, err := f.program.CreateHolding(ctx, f.payer, owner, solana.NewWallet().PublicKey())
		return err
	})
	assert.ErrorIs(t, err, ErrMintNotFound)
}

func Test_CreateMintRequiresMintSignature(t *testing.T) {
	f := newFixture(t)

	err := f.rt.Execute([]solana.PublicKey{f.payer}, func(ctx *runtime.Context) error {
		return f.program.CreateMint(ctx, f.payer, solana.NewWallet().PublicKey(), f.authority, 0)
	})
	assert.ErrorIs(t, err, runtime.ErrMissingSignature)
}

func Test_Transfer(t *testing.T) {
	f := newFixture(t)

	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()
	aliceHolding := f.holding(t, alice, f.mint, 100)
	bobHolding := f.holding(t, bob, f.mint, 0)

	otherMint := solana.NewWallet().PublicKey()
	require.NoError(t, f.rt.Execute([]solana.PublicKey{f.payer, otherMint}, func(ctx *runtime.Context) error {
		return f.program.CreateMint(ctx, f.payer, otherMint, f.authority, 6)
	}))
	bobOther := f.holding(t, bob, otherMint, 0)

	cases := map[string]struct {
		signers   []solana.PublicKey
		authority runtime.Authority
		to        solana.PublicKey
		amount    uint64
		want      error
	}{
		"owner did not sign": {
			authority: runtime.Signer(alice),
			to:        bobHolding,
			amount:    10,
			want:      runtime.ErrMissingSignature,
		},
		"wrong authority": {
			signers:   []solana.PublicKey{bob},
			authority: runtime.Signer(bob),
			to:        bobHolding,
			amount:    10,
			want:      runtime.ErrUnauthorized,
		},
		"mint mismatch": {
			signers:   []solana.PublicKey{alice},
			authority: runtime.Signer(alice),
			to:        bobOther,
			amount:    10,
			want:      ErrMintMismatch,
		},
		"insufficient funds": {
			signers:   []solana.PublicKey{alice},
			authority: runtime.Signer(alice),
			to:        bobHolding,
			amount:    101,
			want:      ErrInsufficientFunds,
		},
		"missing destination": {
			signers:   []solana.PublicKey{alice},
			authority: runtime.Signer(alice),
			to:        solana.NewWallet().PublicKey(),
			amount:    10,
			want:      ErrHoldingNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := f.rt.Execute(tc.signers, func(ctx *runtime.Context) error {
				return f.program.Transfer(ctx, aliceHolding, tc.to, tc.authority, tc.amount)
			})
			assert.True(t, errors.Is(err, tc.want), "unexpected error: %v", err)
			assert.Equal(t, uint64(100), f.balance(t, aliceHolding))
			assert.Zero(t, f.balance(t, bobHolding))
		})
	}

	require.NoError(t, f.rt.Execute([]solana.PublicKey{alice}, func(ctx *runtime.Context) error {
		return f.program.Transfer(ctx, aliceHolding, bobHolding, runtime.Signer(alice), 40)
	}))
	assert.Equal(t, uint64(60), f.balance(t, aliceHolding))
	assert.Equal(t, uint64(40), f.balance(t, bobHolding))
}

func Test_TransferWithDelegatedProof(t *testing.T) {
	f := newFixture(t)

	programID := solana.MustPublicKeyFromBase58("82X9jUhf5wT8n3RvnDDhh7wYtPJPwTqFLUWTgaGLWkts")
	vault, nonce, err := pda.Find(pda.SignerSeeds(), programID)
	require.NoError(t, err)

	vaultHolding := f.holding(t, vault, f.mint, 50)
	user := f.holding(t, solana.NewWallet().PublicKey(), f.mint, 0)

	require.NoError(t, f.rt.Execute(nil, func(ctx *runtime.Context) error {
		proof, err := ctx.InvokeSigned(programID, pda.SignerSeeds(), nonce, vault)
		if err != nil {
			return err
		}
		return f.program.Transfer(ctx, vaultHolding, user, proof, 20)
	}))
	assert.Equal(t, uint64(30), f.balance(t, vaultHolding))
	assert.Equal(t, uint64(20), f.balance(t, user))

	// a plain signature is never accepted for a derived owner
	err = f.rt.Execute([]solana.PublicKey{vault}, func(ctx *runtime.Context) error {
		return f.program.Transfer(ctx, vaultHolding, user, runtime.Signer(solana.NewWallet().PublicKey()), 1)
	})
	assert.ErrorIs(t, err, runtime.ErrUnauthorized)
}

func Test_MintTo(t *testing.T) {
	f := newFixture(t)
	owner := solana.NewWallet().PublicKey()
	address := f.holding(t, owner, f.mint, 25)

	assert.Equal(t, uint64(25), f.balance(t, address))

	err := f.rt.Execute([]solana.PublicKey{owner}, func(ctx *runtime.Context) error {
		return f.program.MintTo(ctx, f.mint, address, runtime.Signer(owner), 1)
	})
	assert.ErrorIs(t, err, runtime.ErrUnauthorized)

	err = f.rt.Execute([]solana.PublicKey{f.authority}, func(ctx *runtime.Context) error {
		return f.program.MintTo(ctx, f.mint, address, runtime.Signer(f.authority), ^uint64(0))
	})
	assert.ErrorIs(t, err, ErrAmountOverflow)

	require.NoError(t, f.rt.Execute(nil, func(ctx *runtime.Context) error {
		mint, err := f.program.Mint(ctx, f.mint)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(25), mint.Supply)
		assert.Equal(t, uint8(6), mint.Decimals)
		return nil
	}))
}
