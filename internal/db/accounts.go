package db

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")
)

// AccountsQ is the host account storage. Get returns (nil, nil) when the
// account does not exist. Inside Transaction every read locks the account
// until the transaction ends.
type AccountsQ interface {
	New() AccountsQ

	Get(address solana.PublicKey) (*Account, error)
	Insert(Account) error
	Update(Account) error
	SelectByOwner(owner solana.PublicKey) ([]Account, error)

	Ping() error
	Transaction(f func() error) error
}

type Account struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}

func (a Account) Clone() Account {
	cloned := a
	if a.Data != nil {
		cloned.Data = make([]byte, len(a.Data))
		copy(cloned.Data, a.Data)
	}

	return cloned
}
