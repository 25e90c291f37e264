package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

// InitializeHolding opens the vault holding for asset. The vault signer must
// already exist.
func (p *Program) InitializeHolding(ctx *runtime.Context, payer, asset solana.PublicKey) (solana.PublicKey, error) {
	_, signer, err := p.Signer(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}

	return p.token.CreateHolding(ctx, payer, signer, asset)
}

// InitializeLockedBalance creates an empty ledger entry for (user, asset).
// The user signs and pays for it.
func (p *Program) InitializeLockedBalance(ctx *runtime.Context, user, asset solana.PublicKey) (*LockedBalance, solana.PublicKey, error) {
	if err := ctx.RequireSigner(user); err != nil {
		return nil, solana.PublicKey{}, err
	}

	_, signer, err := p.Signer(ctx)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	if _, _, err = p.holdings(ctx, user, signer, asset); err != nil {
		return nil, solana.PublicKey{}, err
	}

	address, err := p.LockedAddress(user, asset)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	locked, err := p.createLocked(ctx, user, asset, address)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	return locked, address, nil
}

// LockedBalance returns ErrLockedBalanceNotFound when (user, asset) has never staked.
func (p *Program) LockedBalance(ctx *runtime.Context, user, asset solana.PublicKey) (*LockedBalance, solana.PublicKey, error) {
	address, err := p.LockedAddress(user, asset)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	_, locked, err := p.loadLocked(ctx, address)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	return locked, address, nil
}

func (p *Program) createLocked(ctx *runtime.Context, user, asset, address solana.PublicKey) (*LockedBalance, error) {
	locked := LockedBalance{
		Authority: user,
		Asset:     asset,
	}

	data, err := runtime.EncodeRecord(lockedRecord, locked)
	if err != nil {
		return nil, err
	}

	if err = ctx.CreateAccount(user, address, p.id, data); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to create locked balance")
	}

	ctx.Log().WithFields(logan.F{
		"locked": address.String(),
		"user":   user.String(),
		"asset":  asset.String(),
	}).Info("locked balance initialized")

	return &locked, nil
}

func (p *Program) loadLocked(ctx *runtime.Context, address solana.PublicKey) (*db.Account, *LockedBalance, error) {
	acc, err := ctx.Account(address)
	if err != nil {
		return nil, nil, err
	}
	if acc == nil {
		return nil, nil, errors.Wrap(ErrLockedBalanceNotFound, address.String())
	}
	if !acc.Owner.Equals(p.id) {
		return nil, nil, errors.Wrapf(runtime.ErrInvalidAccountData, "locked balance %s is owned by %s", address, acc.Owner)
	}

	var locked LockedBalance
	if err = runtime.DecodeRecord(lockedRecord, acc.Data, &locked); err != nil {
		return nil, nil, err
	}

	return acc, &locked, nil
}

func (p *Program) storeLocked(ctx *runtime.Context, acc *db.Account, locked *LockedBalance) error {
	data, err := runtime.EncodeRecord(lockedRecord, *locked)
	if err != nil {
		return err
	}
	acc.Data = data

	return ctx.WriteAccount(*acc)
}
