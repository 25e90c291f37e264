package runtime

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/logan/v3"
	"go.uber.org/atomic"
)

// AccountStorageOverhead is charged on top of the data length of every account.
const AccountStorageOverhead = 128

type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionYears:      2,
	}
}

// MinimumBalance is the amount of lamports an account with the given data
// length must hold to be exempt from rent collection.
func (r Rent) MinimumBalance(space int) uint64 {
	return (AccountStorageOverhead + uint64(space)) * r.LamportsPerByteYear * r.ExemptionYears
}

// Runtime executes instructions against the account store. Each instruction
// runs inside a single storage transaction: either all of its writes are
// committed or none are.
type Runtime struct {
	q       db.AccountsQ
	deriver *pda.Deriver
	rent    Rent
	log     *logan.Entry
	seq     *atomic.Uint64
}

func New(q db.AccountsQ, deriver *pda.Deriver, rent Rent, log *logan.Entry) *Runtime {
	if deriver == nil {
		deriver = pda.Default()
	}

	return &Runtime{
		q:       q,
		deriver: deriver,
		rent:    rent,
		log:     log,
		seq:     atomic.NewUint64(0),
	}
}

func (r *Runtime) Deriver() *pda.Deriver {
	return r.deriver
}

func (r *Runtime) Rent() Rent {
	return r.rent
}

// Accounts gives read access outside of an instruction.
func (r *Runtime) Accounts() db.AccountsQ {
	return r.q.New()
}

// Execute runs the instruction with the given transaction signers. A non-nil
// error from the instruction rolls back every write it made.
func (r *Runtime) Execute(signers []solana.PublicKey, instruction func(ctx *Context) error) error {
	q := r.q.New()
	id := r.seq.Inc()

	return q.Transaction(func() error {
		return instruction(newContext(id, q, signers, r))
	})
}

// Airdrop credits lamports to a system account, creating it when missing.
func (r *Runtime) Airdrop(to solana.PublicKey, lamports uint64) (uint64, error) {
	var balance uint64

	err := r.Execute(nil, func(ctx *Context) error {
		acc, err := ctx.Account(to)
		if err != nil {
			return err
		}

		if acc == nil {
			balance = lamports
			return ctx.q.Insert(db.Account{
				Address:  to,
				Owner:    solana.SystemProgramID,
				Lamports: lamports,
			})
		}

		if acc.Lamports+lamports < acc.Lamports {
			return errors.Wrap(ErrLamportsOverflow, to.String())
		}
		acc.Lamports += lamports
		balance = acc.Lamports

		return ctx.WriteAccount(*acc)
	})

	return balance, err
}
