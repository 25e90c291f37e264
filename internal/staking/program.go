package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	signerRecord = "VaultSigner"
	lockedRecord = "LockedBalance"
)

// VaultSigner is the singleton record of the program-controlled signer.
type VaultSigner struct {
	IsInitialized bool
	IsSigner      bool
	Nonce         uint8
}

// LockedBalance tracks how much of an asset a user has staked.
type LockedBalance struct {
	Authority solana.PublicKey
	Asset     solana.PublicKey
	Amount    uint64
}

// Program is the staking program. It holds no state of its own: every record
// lives in accounts reached through the runtime context.
type Program struct {
	id      solana.PublicKey
	deriver *pda.Deriver
	token   *token.Program
}

func NewProgram(id solana.PublicKey, deriver *pda.Deriver, tokenProgram *token.Program) *Program {
	if deriver == nil {
		deriver = pda.Default()
	}
	if tokenProgram == nil {
		tokenProgram = token.NewProgram(deriver)
	}

	return &Program{
		id:      id,
		deriver: deriver,
		token:   tokenProgram,
	}
}

func (p *Program) ID() solana.PublicKey {
	return p.id
}

func (p *Program) Token() *token.Program {
	return p.token
}

// SignerAddress is the canonical vault signer address and its nonce.
func (p *Program) SignerAddress() (solana.PublicKey, uint8, error) {
	address, nonce, err := p.deriver.Find(pda.SignerSeeds(), p.id)
	if err != nil {
		return solana.PublicKey{}, 0, errors.Wrap(err, "failed to derive vault signer")
	}

	return address, nonce, nil
}

func (p *Program) LockedAddress(user, asset solana.PublicKey) (solana.PublicKey, error) {
	signer, _, err := p.SignerAddress()
	if err != nil {
		return solana.PublicKey{}, err
	}

	address, _, err := p.deriver.Find(pda.LockedSeeds(user, signer, asset), p.id)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "failed to derive locked balance")
	}

	return address, nil
}

func (p *Program) VaultHoldingAddress(asset solana.PublicKey) (solana.PublicKey, error) {
	signer, _, err := p.SignerAddress()
	if err != nil {
		return solana.PublicKey{}, err
	}

	return p.token.HoldingAddress(signer, asset)
}

// holdings checks that both the user and the vault hold asset and returns
// their addresses.
func (p *Program) holdings(ctx *runtime.Context, user, signer, asset solana.PublicKey) (solana.PublicKey, solana.PublicKey, error) {
	userHolding, err := p.checkHolding(ctx, user, asset)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, errors.Wrap(err, "user holding")
	}

	vaultHolding, err := p.checkHolding(ctx, signer, asset)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, errors.Wrap(err, "vault holding")
	}

	return userHolding, vaultHolding, nil
}

func (p *Program) checkHolding(ctx *runtime.Context, owner, asset solana.PublicKey) (solana.PublicKey, error) {
	address, err := p.token.HoldingAddress(owner, asset)
	if err != nil {
		return solana.PublicKey{}, err
	}

	holding, err := p.token.Holding(ctx, address)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !holding.Mint.Equals(asset) {
		return solana.PublicKey{}, errors.Wrapf(ErrMintMismatch, "holding %s tracks %s", address, holding.Mint)
	}
	if !holding.Owner.Equals(owner) {
		return solana.PublicKey{}, errors.Wrapf(ErrHoldingNotFound, "holding %s is owned by %s", address, holding.Owner)
	}

	return address, nil
}
