package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

// InitializeSigner creates the vault signer record at its canonical address.
// It can succeed exactly once per deployment.
func (p *Program) InitializeSigner(ctx *runtime.Context, payer solana.PublicKey) (*VaultSigner, solana.PublicKey, error) {
	address, nonce, err := p.SignerAddress()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	existing, err := ctx.Account(address)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	if existing != nil {
		return nil, solana.PublicKey{}, errors.Wrap(ErrAlreadyInitialized, address.String())
	}

	signer := VaultSigner{
		IsInitialized: true,
		IsSigner:      true,
		Nonce:         nonce,
	}

	data, err := runtime.EncodeRecord(signerRecord, signer)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	if err = ctx.CreateAccount(payer, address, p.id, data); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, solana.PublicKey{}, errors.Wrap(ErrAlreadyInitialized, address.String())
		}
		return nil, solana.PublicKey{}, errors.Wrap(err, "failed to create vault signer")
	}

	ctx.Log().WithFields(logan.F{
		"signer": address.String(),
		"nonce":  nonce,
	}).Info("vault signer initialized")

	return &signer, address, nil
}

// Signer loads the vault signer record and checks that it can sign.
func (p *Program) Signer(ctx *runtime.Context) (*VaultSigner, solana.PublicKey, error) {
	address, _, err := p.SignerAddress()
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	acc, err := ctx.Account(address)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}
	if acc == nil {
		return nil, solana.PublicKey{}, ErrSignerNotInitialized
	}
	if !acc.Owner.Equals(p.id) {
		return nil, solana.PublicKey{}, errors.Wrapf(ErrInvalidOwner, "owned by %s", acc.Owner)
	}

	var signer VaultSigner
	if err = runtime.DecodeRecord(signerRecord, acc.Data, &signer); err != nil {
		return nil, solana.PublicKey{}, err
	}
	if !signer.IsInitialized || !signer.IsSigner {
		return nil, solana.PublicKey{}, errors.Wrap(ErrInvalidOwner, "vault signer is not marked as signer")
	}

	return &signer, address, nil
}
