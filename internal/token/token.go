package token

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

const (
	mintRecord    = "Mint"
	holdingRecord = "Holding"
)

var (
	ProgramID           = solana.TokenProgramID
	AssociatedProgramID = solana.SPLAssociatedTokenAccountProgramID
)

var (
	ErrMintNotFound      = errors.New("mint not found")
	ErrHoldingNotFound   = errors.New("holding not found")
	ErrMintMismatch      = errors.New("holding mint mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAmountOverflow    = errors.New("amount overflow")
)

type Mint struct {
	MintAuthority solana.PublicKey
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

type Holding struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// Program is the fungible token ledger: mints, holdings and transfers
// between holdings of the same mint.
type Program struct {
	deriver *pda.Deriver
}

func NewProgram(deriver *pda.Deriver) *Program {
	if deriver == nil {
		deriver = pda.Default()
	}

	return &Program{deriver: deriver}
}

// HoldingAddress is the associated holding of owner for the given mint.
func (p *Program) HoldingAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := p.deriver.Find(pda.HoldingSeeds(owner, ProgramID, mint), AssociatedProgramID)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "failed to derive holding address")
	}

	return address, nil
}

// CreateMint initializes a new mint. The mint address must sign so nobody can
// squat an address they do not control.
func (p *Program) CreateMint(ctx *runtime.Context, payer, mint, authority solana.PublicKey, decimals uint8) error {
	if err := ctx.RequireSigner(mint); err != nil {
		return err
	}

	data, err := runtime.EncodeRecord(mintRecord, Mint{
		MintAuthority: authority,
		Decimals:      decimals,
		IsInitialized: true,
	})
	if err != nil {
		return err
	}

	if err = ctx.CreateAccount(payer, mint, ProgramID, data); err != nil {
		return errors.Wrap(err, "failed to create mint")
	}

	ctx.Log().WithField("mint", mint.String()).Info("mint created")

	return nil
}

func (p *Program) Mint(ctx *runtime.Context, address solana.PublicKey) (*Mint, error) {
	_, mint, err := p.loadMint(ctx, address)
	return mint, err
}

// CreateHolding opens the associated holding of owner for mint.
func (p *Program) CreateHolding(ctx *runtime.Context, payer, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	if _, err := p.Mint(ctx, mint); err != nil {
		return solana.PublicKey{}, err
	}

	address, err := p.HoldingAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}

	data, err := runtime.EncodeRecord(holdingRecord, Holding{Mint: mint, Owner: owner})
	if err != nil {
		return solana.PublicKey{}, err
	}

	if err = ctx.CreateAccount(payer, address, ProgramID, data); err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "failed to create holding")
	}

	ctx.Log().WithFields(logan.F{
		"holding": address.String(),
		"owner":   owner.String(),
		"mint":    mint.String(),
	}).Info("holding created")

	return address, nil
}

// Holding returns ErrHoldingNotFound when nothing valid is stored at address.
func (p *Program) Holding(ctx *runtime.Context, address solana.PublicKey) (*Holding, error) {
	_, holding, err := p.loadHolding(ctx, address)
	return holding, err
}

// Transfer moves amount between two holdings of the same mint. The authority
// must be accepted by the runtime as the owner of the source holding.
func (p *Program) Transfer(ctx *runtime.Context, from, to solana.PublicKey, authority runtime.Authority, amount uint64) error {
	fromAcc, source, err := p.loadHolding(ctx, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}

	if err = ctx.Authorize(source.Owner, authority); err != nil {
		return err
	}

	if from.Equals(to) {
		if source.Amount < amount {
			return ErrInsufficientFunds
		}
		return nil
	}

	toAcc, destination, err := p.loadHolding(ctx, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}

	if !source.Mint.Equals(destination.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s != %s", source.Mint, destination.Mint)
	}
	if source.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, requested %d", source.Amount, amount)
	}
	if destination.Amount+amount < destination.Amount {
		return ErrAmountOverflow
	}

	source.Amount -= amount
	destination.Amount += amount

	if err = p.storeHolding(ctx, fromAcc, source); err != nil {
		return err
	}

	return p.storeHolding(ctx, toAcc, destination)
}

// MintTo issues new tokens into a holding. Only the mint authority may sign.
func (p *Program) MintTo(ctx *runtime.Context, mint, to solana.PublicKey, authority runtime.Authority, amount uint64) error {
	mintAcc, record, err := p.loadMint(ctx, mint)
	if err != nil {
		return err
	}

	if err = ctx.Authorize(record.MintAuthority, authority); err != nil {
		return err
	}

	holdingAcc, holding, err := p.loadHolding(ctx, to)
	if err != nil {
		return err
	}
	if !holding.Mint.Equals(mint) {
		return errors.Wrapf(ErrMintMismatch, "%s != %s", holding.Mint, mint)
	}
	if record.Supply+amount < record.Supply || holding.Amount+amount < holding.Amount {
		return ErrAmountOverflow
	}

	record.Supply += amount
	holding.Amount += amount

	data, err := runtime.EncodeRecord(mintRecord, *record)
	if err != nil {
		return err
	}
	mintAcc.Data = data
	if err = ctx.WriteAccount(*mintAcc); err != nil {
		return err
	}

	return p.storeHolding(ctx, holdingAcc, holding)
}

func (p *Program) loadMint(ctx *runtime.Context, address solana.PublicKey) (*db.Account, *Mint, error) {
	acc, err := ctx.Account(address)
	if err != nil {
		return nil, nil, err
	}
	if acc == nil || !acc.Owner.Equals(ProgramID) {
		return nil, nil, errors.Wrap(ErrMintNotFound, address.String())
	}

	var mint Mint
	if err = runtime.DecodeRecord(mintRecord, acc.Data, &mint); err != nil {
		return nil, nil, errors.Wrap(ErrMintNotFound, err.Error())
	}
	if !mint.IsInitialized {
		return nil, nil, errors.Wrap(ErrMintNotFound, "mint is not initialized")
	}

	return acc, &mint, nil
}

func (p *Program) loadHolding(ctx *runtime.Context, address solana.PublicKey) (*db.Account, *Holding, error) {
	acc, err := ctx.Account(address)
	if err != nil {
		return nil, nil, err
	}
	if acc == nil || !acc.Owner.Equals(ProgramID) {
		return nil, nil, errors.Wrap(ErrHoldingNotFound, address.String())
	}

	var holding Holding
	if err = runtime.DecodeRecord(holdingRecord, acc.Data, &holding); err != nil {
		return nil, nil, errors.Wrap(ErrHoldingNotFound, err.Error())
	}

	return acc, &holding, nil
}

func (p *Program) storeHolding(ctx *runtime.Context, acc *db.Account, holding *Holding) error {
	data, err := runtime.EncodeRecord(holdingRecord, *holding)
	if err != nil {
		return err
	}
	acc.Data = data

	return ctx.WriteAccount(*acc)
}
