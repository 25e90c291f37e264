package runtime

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

var (
	ErrMissingSignature     = errors.New("missing required signature")
	ErrInsufficientLamports = errors.New("insufficient lamports to fund account")
	ErrLamportsOverflow     = errors.New("lamports overflow")
	ErrInvalidPayer         = errors.New("payer is not a system account")
)

// Context is the view of the host ledger available to one instruction.
type Context struct {
	id      uint64
	q       db.AccountsQ
	signers map[solana.PublicKey]struct{}
	deriver *pda.Deriver
	rent    Rent
	log     *logan.Entry
}

func newContext(id uint64, q db.AccountsQ, signers []solana.PublicKey, r *Runtime) *Context {
	set := make(map[solana.PublicKey]struct{}, len(signers))
	for _, signer := range signers {
		set[signer] = struct{}{}
	}

	return &Context{
		id:      id,
		q:       q,
		signers: set,
		deriver: r.deriver,
		rent:    r.rent,
		log:     r.log.WithField("instruction", id),
	}
}

func (c *Context) ID() uint64 {
	return c.id
}

func (c *Context) Log() *logan.Entry {
	return c.log
}

func (c *Context) Deriver() *pda.Deriver {
	return c.deriver
}

func (c *Context) IsSigner(address solana.PublicKey) bool {
	_, ok := c.signers[address]
	return ok
}

func (c *Context) RequireSigner(address solana.PublicKey) error {
	if !c.IsSigner(address) {
		return errors.Wrap(ErrMissingSignature, address.String())
	}

	return nil
}

// Account returns nil when nothing is stored at the address.
func (c *Context) Account(address solana.PublicKey) (*db.Account, error) {
	acc, err := c.q.Get(address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load account %s", address)
	}

	return acc, nil
}

func (c *Context) WriteAccount(acc db.Account) error {
	if err := c.q.Update(acc); err != nil {
		return errors.Wrapf(err, "failed to write account %s", acc.Address)
	}

	return nil
}

// CreateAccount allocates a new account owned by the given program and funds
// it with the rent-exempt minimum taken from the payer's system account.
func (c *Context) CreateAccount(payer, address, owner solana.PublicKey, data []byte) error {
	if err := c.RequireSigner(payer); err != nil {
		return err
	}

	existing, err := c.Account(address)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.Wrap(db.ErrAlreadyExists, address.String())
	}

	funder, err := c.Account(payer)
	if err != nil {
		return err
	}
	if funder == nil {
		return errors.Wrapf(ErrInsufficientLamports, "payer %s has no system account", payer)
	}
	if !funder.Owner.Equals(solana.SystemProgramID) {
		return errors.Wrap(ErrInvalidPayer, payer.String())
	}

	required := c.rent.MinimumBalance(len(data))
	if funder.Lamports < required {
		return errors.Wrapf(ErrInsufficientLamports, "payer %s has %d, needs %d", payer, funder.Lamports, required)
	}

	funder.Lamports -= required
	if err = c.WriteAccount(*funder); err != nil {
		return err
	}

	if err = c.q.Insert(db.Account{
		Address:  address,
		Owner:    owner,
		Lamports: required,
		Data:     data,
	}); err != nil {
		return errors.Wrapf(err, "failed to create account %s", address)
	}

	return nil
}
