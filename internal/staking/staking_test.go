package staking

import (
	"bytes"
	"sync"
	"testing"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/db/memory"
	pebbledb "github.com/Bridgeless-Project/stake-svc/internal/db/pebble"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
)

var programID = solana.MustPublicKeyFromBase58("82X9jUhf5wT8n3RvnDDhh7wYtPJPwTqFLUWTgaGLWkts")

type env struct {
	svc       *Service
	rt        *runtime.Runtime
	operator  solana.PublicKey
	authority solana.PublicKey
	asset     solana.PublicKey
}

func newBareEnv(t *testing.T, q db.AccountsQ, deriver *pda.Deriver) *env {
	rt := runtime.New(q, deriver, runtime.DefaultRent(), logan.New())
	program := NewProgram(programID, deriver, token.NewProgram(deriver))

	e := &env{
		svc:       NewService(rt, program, nil, logan.New()),
		rt:        rt,
		operator:  solana.NewWallet().PublicKey(),
		authority: solana.NewWallet().PublicKey(),
		asset:     solana.NewWallet().PublicKey(),
	}

	_, err := e.svc.Airdrop(e.operator, 100_000_000_000)
	require.NoError(t, err)
	require.NoError(t, e.svc.CreateMint(e.operator, e.asset, e.authority, 6))

	return e
}

func newEnv(t *testing.T, q db.AccountsQ, deriver *pda.Deriver) *env {
	e := newBareEnv(t, q, deriver)

	_, err := e.svc.InitializeSigner(e.operator)
	require.NoError(t, err)
	_, err = e.svc.InitializeHolding(e.operator, e.asset)
	require.NoError(t, err)

	return e
}

func (e *env) user(t *testing.T, amount uint64) solana.PublicKey {
	user := solana.NewWallet().PublicKey()

	_, err := e.svc.Airdrop(user, 1_000_000_000)
	require.NoError(t, err)
	_, err = e.svc.CreateHolding(e.operator, user, e.asset)
	require.NoError(t, err)

	if amount > 0 {
		_, err = e.svc.MintTo(e.authority, e.asset, user, amount)
		require.NoError(t, err)
	}

	return user
}

func (e *env) balance(t *testing.T, owner solana.PublicKey) uint64 {
	info, err := e.svc.Holding(owner, e.asset)
	require.NoError(t, err)

	return info.Amount
}

func (e *env) vault(t *testing.T) solana.PublicKey {
	info, err := e.svc.Signer()
	require.NoError(t, err)

	return info.Address
}

func (e *env) locked(t *testing.T, user solana.PublicKey) uint64 {
	info, err := e.svc.Locked(user, e.asset)
	require.NoError(t, err)

	return info.Amount
}

func backends(t *testing.T) map[string]func() db.AccountsQ {
	return map[string]func() db.AccountsQ{
		"memory": memory.NewAccountsQ,
		"pebble": func() db.AccountsQ {
			storage, err := pebbledb.Open(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = storage.Close() })

			return pebbledb.NewAccountsQ(storage)
		},
	}
}

func Test_InitializeSigner(t *testing.T) {
	e := newBareEnv(t, memory.NewAccountsQ(), nil)

	expected, nonce, err := solana.FindProgramAddress([][]byte{[]byte("signer")}, programID)
	require.NoError(t, err)

	info, err := e.svc.InitializeSigner(e.operator)
	require.NoError(t, err)
	assert.Equal(t, expected, info.Address)
	assert.Equal(t, nonce, info.Nonce)
	assert.True(t, info.IsInitialized)
	assert.True(t, info.IsSigner)

	_, err = e.svc.InitializeSigner(e.operator)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.True(t, IsIdempotencyError(err))

	stored, err := e.svc.Signer()
	require.NoError(t, err)
	assert.Equal(t, *info, *stored)
}

func Test_InitializeSignerRequiresFunds(t *testing.T) {
	e := newBareEnv(t, memory.NewAccountsQ(), nil)
	broke := solana.NewWallet().PublicKey()

	_, err := e.svc.InitializeSigner(broke)
	assert.ErrorIs(t, err, runtime.ErrInsufficientLamports)

	_, err = e.svc.Signer()
	assert.ErrorIs(t, err, ErrSignerNotInitialized)
}

func Test_StageProgression(t *testing.T) {
	e := newBareEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 10)

	stage := func() Stage {
		s, err := e.svc.Stage(user, e.asset)
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, StageUninitialized, stage())

	_, err := e.svc.InitializeHolding(e.operator, e.asset)
	assert.ErrorIs(t, err, ErrSignerNotInitialized)

	_, err = e.svc.InitializeSigner(e.operator)
	require.NoError(t, err)
	assert.Equal(t, StageSignerReady, stage())

	_, err = e.svc.Stake(user, user, e.asset, 1)
	assert.ErrorIs(t, err, ErrHoldingNotFound)

	_, err = e.svc.InitializeHolding(e.operator, e.asset)
	require.NoError(t, err)
	assert.Equal(t, StageHoldingReady, stage())

	_, err = e.svc.InitializeHolding(e.operator, e.asset)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	info, err := e.svc.Locked(user, e.asset)
	assert.ErrorIs(t, err, ErrLockedBalanceNotFound)
	assert.Equal(t, StageHoldingReady, info.Stage)

	locked, err := e.svc.InitializeLockedBalance(user, e.asset)
	require.NoError(t, err)
	assert.Equal(t, user, locked.Authority)
	assert.Zero(t, locked.Amount)
	assert.Equal(t, StageOperational, stage())

	_, err = e.svc.InitializeLockedBalance(user, e.asset)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func Test_LockedAddressLayout(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 0)

	locked, err := e.svc.InitializeLockedBalance(user, e.asset)
	require.NoError(t, err)

	expected, _, err := solana.FindProgramAddress(
		[][]byte{user.Bytes(), e.vault(t).Bytes(), e.asset.Bytes(), []byte("locked")},
		programID,
	)
	require.NoError(t, err)
	assert.Equal(t, expected, locked.Address)
}

func Test_StakeUnstakeRoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, backend(), nil)
			user := e.user(t, 1000)

			info, err := e.svc.Stake(user, user, e.asset, 400)
			require.NoError(t, err)
			assert.Equal(t, uint64(400), info.Amount)
			assert.Equal(t, uint64(600), e.balance(t, user))
			assert.Equal(t, uint64(400), e.balance(t, e.vault(t)))

			info, err = e.svc.Unstake(user, user, e.asset, 400)
			require.NoError(t, err)
			assert.Zero(t, info.Amount)
			assert.Equal(t, uint64(1000), e.balance(t, user))
			assert.Zero(t, e.balance(t, e.vault(t)))

			// the ledger entry outlives a full unstake
			assert.Zero(t, e.locked(t, user))
		})
	}
}

func Test_ZeroAmount(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 10)

	info, err := e.svc.Stake(user, user, e.asset, 0)
	require.NoError(t, err)
	assert.Zero(t, info.Amount)

	_, err = e.svc.Unstake(user, user, e.asset, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), e.balance(t, user))
}

func Test_LedgerMatchesVault(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)

	type step struct {
		user   int
		stake  bool
		amount uint64
	}

	users := []solana.PublicKey{e.user(t, 500), e.user(t, 500), e.user(t, 500)}
	steps := []step{
		{0, true, 100}, {1, true, 250}, {2, true, 5}, {0, false, 60},
		{1, true, 200}, {2, false, 5}, {1, false, 450}, {0, true, 400},
	}

	for _, s := range steps {
		var err error
		if s.stake {
			_, err = e.svc.Stake(users[s.user], users[s.user], e.asset, s.amount)
		} else {
			_, err = e.svc.Unstake(users[s.user], users[s.user], e.asset, s.amount)
		}
		require.NoError(t, err)

		var sum uint64
		for _, user := range users {
			info, err := e.svc.Locked(user, e.asset)
			if errors.Is(err, ErrLockedBalanceNotFound) {
				continue
			}
			require.NoError(t, err)
			sum += info.Amount
		}
		assert.Equal(t, e.balance(t, e.vault(t)), sum)
	}

	assert.Equal(t, uint64(440), e.locked(t, users[0]))
	assert.Zero(t, e.locked(t, users[1]))
	assert.Zero(t, e.locked(t, users[2]))
}

func Test_UnstakeFailures(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 100)
	other := e.user(t, 100)

	_, err := e.svc.Stake(user, user, e.asset, 100)
	require.NoError(t, err)

	cases := map[string]struct {
		caller solana.PublicKey
		user   solana.PublicKey
		amount uint64
		want   error
	}{
		"amount above locked": {
			caller: user,
			user:   user,
			amount: 101,
			want:   ErrAmountTooLarge,
		},
		"caller is not the user": {
			caller: other,
			user:   user,
			amount: 1,
			want:   ErrUnauthorizedUnstake,
		},
		"never staked": {
			caller: other,
			user:   other,
			amount: 1,
			want:   ErrLockedBalanceNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.svc.Unstake(tc.caller, tc.user, e.asset, tc.amount)
			assert.True(t, errors.Is(err, tc.want), "unexpected error: %v", err)

			assert.Equal(t, uint64(100), e.locked(t, user))
			assert.Zero(t, e.balance(t, user))
			assert.Equal(t, uint64(100), e.balance(t, e.vault(t)))
			assert.Equal(t, uint64(100), e.balance(t, other))
		})
	}
}

func Test_UnstakeWithoutSignature(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 50)

	_, err := e.svc.Stake(user, user, e.asset, 50)
	require.NoError(t, err)

	err = e.rt.Execute(nil, func(ctx *runtime.Context) error {
		_, err := e.svc.Program().Unstake(ctx, user, user, e.asset, 50)
		return err
	})
	assert.ErrorIs(t, err, ErrUnauthorizedUnstake)
	assert.True(t, IsAuthorizationError(err))
	assert.Equal(t, uint64(50), e.locked(t, user))
}

func Test_UnstakeForeignAuthority(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 50)
	intruder := solana.NewWallet().PublicKey()

	_, err := e.svc.Stake(user, user, e.asset, 50)
	require.NoError(t, err)

	info, err := e.svc.Locked(user, e.asset)
	require.NoError(t, err)

	// rewrite the stored authority behind the program's back
	require.NoError(t, e.rt.Execute(nil, func(ctx *runtime.Context) error {
		acc, err := ctx.Account(info.Address)
		if err != nil {
			return err
		}
		acc.Data, err = runtime.EncodeRecord(lockedRecord, LockedBalance{
			Authority: intruder,
			Asset:     e.asset,
			Amount:    50,
		})
		if err != nil {
			return err
		}
		return ctx.WriteAccount(*acc)
	}))

	_, err = e.svc.Unstake(user, user, e.asset, 50)
	assert.ErrorIs(t, err, ErrUnauthorizedUnstake)
	assert.Equal(t, uint64(50), e.balance(t, e.vault(t)))
}

// retargetHolding points the holding of owner at another mint, keeping its balance.
func (e *env) retargetHolding(t *testing.T, owner, mint solana.PublicKey) {
	address, err := e.svc.Program().Token().HoldingAddress(owner, e.asset)
	require.NoError(t, err)

	require.NoError(t, e.rt.Execute(nil, func(ctx *runtime.Context) error {
		acc, err := ctx.Account(address)
		if err != nil {
			return err
		}

		var holding token.Holding
		if err = runtime.DecodeRecord("Holding", acc.Data, &holding); err != nil {
			return err
		}
		holding.Mint = mint

		if acc.Data, err = runtime.EncodeRecord("Holding", holding); err != nil {
			return err
		}
		return ctx.WriteAccount(*acc)
	}))
}

func Test_MintMismatch(t *testing.T) {
	cases := map[string]struct {
		staked  uint64
		vault   bool
		execute func(e *env, user solana.PublicKey) error
	}{
		"stake, user holding tracks another mint": {
			staked: 10,
			execute: func(e *env, user solana.PublicKey) error {
				_, err := e.svc.Stake(user, user, e.asset, 5)
				return err
			},
		},
		"stake, vault holding tracks another mint": {
			staked: 10,
			vault:  true,
			execute: func(e *env, user solana.PublicKey) error {
				_, err := e.svc.Stake(user, user, e.asset, 5)
				return err
			},
		},
		"initialize locked balance, user holding tracks another mint": {
			execute: func(e *env, user solana.PublicKey) error {
				_, err := e.svc.InitializeLockedBalance(user, e.asset)
				return err
			},
		},
		"initialize locked balance, vault holding tracks another mint": {
			vault: true,
			execute: func(e *env, user solana.PublicKey) error {
				_, err := e.svc.InitializeLockedBalance(user, e.asset)
				return err
			},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, memory.NewAccountsQ(), nil)
			user := e.user(t, 50)
			vault := e.vault(t)

			if tc.staked > 0 {
				_, err := e.svc.Stake(user, user, e.asset, tc.staked)
				require.NoError(t, err)
			}

			target := user
			if tc.vault {
				target = vault
			}
			e.retargetHolding(t, target, solana.NewWallet().PublicKey())

			err := tc.execute(e, user)
			require.ErrorIs(t, err, ErrMintMismatch)
			assert.True(t, IsInvariantError(err))

			assert.Equal(t, 50-tc.staked, e.balance(t, user))
			assert.Equal(t, tc.staked, e.balance(t, vault))

			// Stage fails on a retargeted vault holding, so read the ledger directly
			var locked *LockedBalance
			err = e.rt.Execute(nil, func(ctx *runtime.Context) (err error) {
				locked, _, err = e.svc.Program().LockedBalance(ctx, user, e.asset)
				return err
			})
			if tc.staked > 0 {
				require.NoError(t, err)
				assert.Equal(t, tc.staked, locked.Amount)
			} else {
				assert.ErrorIs(t, err, ErrLockedBalanceNotFound)
			}
		})
	}
}

func Test_StakeByAnotherCaller(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 50)
	other := e.user(t, 0)

	_, err := e.svc.Stake(user, user, e.asset, 1)
	require.NoError(t, err)

	_, err = e.svc.Stake(other, user, e.asset, 10)
	assert.ErrorIs(t, err, runtime.ErrUnauthorized)
	assert.Equal(t, uint64(49), e.balance(t, user))
	assert.Equal(t, uint64(1), e.locked(t, user))
}

func Test_StakeInsufficientFunds(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 10)

	_, err := e.svc.Stake(user, user, e.asset, 11)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, IsFundsError(err))

	// the locked balance created for the failed stake is rolled back too
	_, err = e.svc.Locked(user, e.asset)
	assert.ErrorIs(t, err, ErrLockedBalanceNotFound)
	assert.Equal(t, uint64(10), e.balance(t, user))
}

func Test_TamperedNonce(t *testing.T) {
	e := newEnv(t, memory.NewAccountsQ(), nil)
	user := e.user(t, 30)

	_, err := e.svc.Stake(user, user, e.asset, 30)
	require.NoError(t, err)

	signer, err := e.svc.Signer()
	require.NoError(t, err)

	require.NoError(t, e.rt.Execute(nil, func(ctx *runtime.Context) error {
		acc, err := ctx.Account(signer.Address)
		if err != nil {
			return err
		}
		acc.Data, err = runtime.EncodeRecord(signerRecord, VaultSigner{
			IsInitialized: true,
			IsSigner:      true,
			Nonce:         signer.Nonce - 1,
		})
		if err != nil {
			return err
		}
		return ctx.WriteAccount(*acc)
	}))

	_, err = e.svc.Unstake(user, user, e.asset, 30)
	assert.ErrorIs(t, err, runtime.ErrInvalidProof)
	assert.Equal(t, uint64(30), e.locked(t, user))
	assert.Equal(t, uint64(30), e.balance(t, e.vault(t)))
}

func Test_FallbackNonce(t *testing.T) {
	blocked, err := pda.NewDeriver(func([]byte) bool { return false }).Create(pda.SignerSeeds(), 255, programID)
	require.NoError(t, err)

	deriver := pda.NewDeriver(func(candidate []byte) bool {
		return bytes.Equal(candidate, blocked[:])
	})

	e := newBareEnv(t, memory.NewAccountsQ(), deriver)

	info, err := e.svc.InitializeSigner(e.operator)
	require.NoError(t, err)
	assert.Equal(t, uint8(254), info.Nonce)
	assert.NotEqual(t, blocked, info.Address)

	_, err = e.svc.InitializeHolding(e.operator, e.asset)
	require.NoError(t, err)

	user := e.user(t, 20)
	_, err = e.svc.Stake(user, user, e.asset, 20)
	require.NoError(t, err)

	_, err = e.svc.Unstake(user, user, e.asset, 20)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), e.balance(t, user))
}

func Test_ConcurrentUnstake(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t, backend(), nil)
			user := e.user(t, 100)

			_, err := e.svc.Stake(user, user, e.asset, 100)
			require.NoError(t, err)

			const attempts = 2
			var (
				wg   sync.WaitGroup
				errs = make(chan error, attempts)
			)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := e.svc.Unstake(user, user, e.asset, 100)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			var succeeded, rejected int
			for err := range errs {
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, ErrAmountTooLarge):
					rejected++
				default:
					t.Fatalf("unexpected error: %v", err)
				}
			}

			assert.Equal(t, 1, succeeded)
			assert.Equal(t, 1, rejected)
			assert.Zero(t, e.locked(t, user))
			assert.Equal(t, uint64(100), e.balance(t, user))
			assert.Zero(t, e.balance(t, e.vault(t)))
		})
	}
}

func Test_Classify(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":          {nil, "ok"},
		"unauthorized": {errors.Wrap(ErrUnauthorizedUnstake, "x"), "unauthorized"},
		"proof":        {runtime.ErrInvalidProof, "unauthorized"},
		"duplicate":    {ErrAlreadyInitialized, "duplicate"},
		"not found":    {ErrLockedBalanceNotFound, "not_found"},
		"funds":        {ErrInsufficientFunds, "insufficient_funds"},
		"invariant":    {ErrAmountTooLarge, "invariant"},
		"derivation":   {pda.ErrDerivationExhausted, "derivation"},
		"other":        {errors.New("boom"), "error"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.err))
		})
	}
}
