package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

// Unstake releases amount from the vault back to the user. The vault holding
// is debited under a delegated proof built from the stored signer nonce; the
// ledger is decremented only after the transfer succeeded.
func (p *Program) Unstake(ctx *runtime.Context, caller, user, asset solana.PublicKey, amount uint64) (*LockedBalance, error) {
	if !caller.Equals(user) || !ctx.IsSigner(caller) {
		return nil, p.rejectUnstake(ctx, caller, user, "caller is not the signing user")
	}

	vault, signer, err := p.Signer(ctx)
	if err != nil {
		return nil, err
	}

	address, err := p.LockedAddress(user, asset)
	if err != nil {
		return nil, err
	}

	acc, locked, err := p.loadLocked(ctx, address)
	if err != nil {
		return nil, err
	}
	if !locked.Authority.Equals(user) {
		return nil, p.rejectUnstake(ctx, caller, user, "locked balance belongs to "+locked.Authority.String())
	}
	if amount > locked.Amount {
		return nil, errors.Wrapf(ErrAmountTooLarge, "locked %d, requested %d", locked.Amount, amount)
	}

	userHolding, vaultHolding, err := p.holdings(ctx, user, signer, asset)
	if err != nil {
		return nil, err
	}

	proof, err := ctx.InvokeSigned(p.id, pda.SignerSeeds(), vault.Nonce, signer)
	if err != nil {
		return nil, err
	}

	if err = p.token.Transfer(ctx, vaultHolding, userHolding, proof, amount); err != nil {
		return nil, errors.Wrap(err, "failed to transfer out of vault")
	}

	locked.Amount -= amount
	if err = p.storeLocked(ctx, acc, locked); err != nil {
		return nil, err
	}

	ctx.Log().WithFields(logan.F{
		"user":   user.String(),
		"asset":  asset.String(),
		"amount": amount,
		"locked": locked.Amount,
	}).Info("unstaked")

	return locked, nil
}

func (p *Program) rejectUnstake(ctx *runtime.Context, caller, user solana.PublicKey, reason string) error {
	ctx.Log().WithFields(logan.F{
		"caller": caller.String(),
		"user":   user.String(),
	}).Warn("unstake rejected: " + reason)

	return errors.Wrap(ErrUnauthorizedUnstake, reason)
}
