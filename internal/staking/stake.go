package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

// Stake moves amount from the user's holding into the vault and credits the
// user's locked balance, creating it on first use. The transfer is authorized
// by the caller's signature, so only the user can stake their own funds.
func (p *Program) Stake(ctx *runtime.Context, caller, user, asset solana.PublicKey, amount uint64) (*LockedBalance, error) {
	_, signer, err := p.Signer(ctx)
	if err != nil {
		return nil, err
	}

	userHolding, vaultHolding, err := p.holdings(ctx, user, signer, asset)
	if err != nil {
		return nil, err
	}

	address, err := p.LockedAddress(user, asset)
	if err != nil {
		return nil, err
	}

	existing, err := ctx.Account(address)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if _, err = p.createLocked(ctx, user, asset, address); err != nil {
			return nil, err
		}
	}

	acc, locked, err := p.loadLocked(ctx, address)
	if err != nil {
		return nil, err
	}
	if !locked.Asset.Equals(asset) {
		return nil, errors.Wrapf(ErrMintMismatch, "locked balance tracks %s", locked.Asset)
	}
	if locked.Amount+amount < locked.Amount {
		return nil, errors.Wrap(ErrAmountOverflow, "locked balance")
	}

	if err = p.token.Transfer(ctx, userHolding, vaultHolding, runtime.Signer(caller), amount); err != nil {
		return nil, errors.Wrap(err, "failed to transfer into vault")
	}

	locked.Amount += amount
	if err = p.storeLocked(ctx, acc, locked); err != nil {
		return nil, err
	}

	ctx.Log().WithFields(logan.F{
		"user":   user.String(),
		"asset":  asset.String(),
		"amount": amount,
		"locked": locked.Amount,
	}).Info("staked")

	return locked, nil
}
