package runtime

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
)

var (
	ErrUnauthorized = errors.New("authority does not own the account")
	ErrInvalidProof = errors.New("invalid delegated proof")
)

// Authority is the party a program presents as the owner of an account it
// wants to debit: either a transaction signer or a delegated proof.
type Authority interface {
	Address() solana.PublicKey
	authorize(ctx *Context, owner solana.PublicKey) error
}

type signerAuthority solana.PublicKey

// Signer authorizes through a live transaction signature.
func Signer(address solana.PublicKey) Authority {
	return signerAuthority(address)
}

func (s signerAuthority) Address() solana.PublicKey {
	return solana.PublicKey(s)
}

func (s signerAuthority) authorize(ctx *Context, owner solana.PublicKey) error {
	if !s.Address().Equals(owner) {
		return ErrUnauthorized
	}

	return ctx.RequireSigner(owner)
}

// DelegatedProof stands in for a signature of a derived address. It carries
// the seeds and nonce that reproduce the address under the program namespace
// and is only valid inside the instruction that issued it.
type DelegatedProof struct {
	Program solana.PublicKey
	Seeds   [][]byte
	Nonce   uint8

	address solana.PublicKey
	scope   uint64
}

func (p *DelegatedProof) Address() solana.PublicKey {
	return p.address
}

func (p *DelegatedProof) authorize(ctx *Context, owner solana.PublicKey) error {
	if p.scope != ctx.id {
		return errors.Wrap(ErrInvalidProof, "proof was issued for another instruction")
	}

	derived, err := ctx.deriver.Create(p.Seeds, p.Nonce, p.Program)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}
	if !derived.Equals(owner) {
		return errors.Wrap(ErrInvalidProof, "seeds do not derive the account owner")
	}

	return nil
}

// InvokeSigned builds a delegated proof for the address derived from seeds and
// nonce. The derivation must reproduce expected exactly.
func (c *Context) InvokeSigned(program solana.PublicKey, seeds [][]byte, nonce uint8, expected solana.PublicKey) (*DelegatedProof, error) {
	derived, err := c.deriver.Create(seeds, nonce, program)
	if err != nil {
		c.auditFailure(expected, solana.PublicKey{}, err)
		return nil, errors.Wrap(ErrInvalidProof, err.Error())
	}
	if !derived.Equals(expected) {
		c.auditFailure(expected, derived, ErrInvalidProof)
		return nil, errors.Wrapf(ErrInvalidProof, "derived %s, expected %s", derived, expected)
	}

	return &DelegatedProof{
		Program: program,
		Seeds:   seeds,
		Nonce:   nonce,
		address: derived,
		scope:   c.id,
	}, nil
}

// Authorize checks that the authority may act for owner within this instruction.
func (c *Context) Authorize(owner solana.PublicKey, authority Authority) error {
	if authority == nil {
		return errors.Wrap(ErrUnauthorized, "no authority provided")
	}

	if err := authority.authorize(c, owner); err != nil {
		c.auditFailure(owner, authority.Address(), err)
		return err
	}

	return nil
}

func (c *Context) auditFailure(owner, authority solana.PublicKey, err error) {
	c.log.WithFields(logan.F{
		"owner":     owner.String(),
		"authority": authority.String(),
	}).WithError(err).Warn("authorization rejected")
}

func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidProof) ||
		errors.Is(err, ErrMissingSignature)
}
