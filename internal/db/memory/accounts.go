package memory

import (
	"bytes"
	"sort"
	"sync"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/gagliardetto/solana-go"
)

type store struct {
	// txMu serializes transactions, mu guards the map itself
	txMu     sync.Mutex
	mu       sync.RWMutex
	accounts map[solana.PublicKey]db.Account
}

type accountsQ struct {
	store *store
	inTx  bool
}

func NewAccountsQ() db.AccountsQ {
	return &accountsQ{
		store: &store{accounts: make(map[solana.PublicKey]db.Account)},
	}
}

func (q *accountsQ) New() db.AccountsQ {
	return &accountsQ{store: q.store}
}

func (q *accountsQ) Get(address solana.PublicKey) (*db.Account, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	acc, ok := q.store.accounts[address]
	if !ok {
		return nil, nil
	}

	cloned := acc.Clone()
	return &cloned, nil
}

func (q *accountsQ) Insert(acc db.Account) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	if _, ok := q.store.accounts[acc.Address]; ok {
		return db.ErrAlreadyExists
	}
	q.store.accounts[acc.Address] = acc.Clone()

	return nil
}

func (q *accountsQ) Update(acc db.Account) error {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	if _, ok := q.store.accounts[acc.Address]; !ok {
		return db.ErrAccountNotFound
	}
	q.store.accounts[acc.Address] = acc.Clone()

	return nil
}

func (q *accountsQ) SelectByOwner(owner solana.PublicKey) ([]db.Account, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()

	var accounts []db.Account
	for _, acc := range q.store.accounts {
		if acc.Owner.Equals(owner) {
			accounts = append(accounts, acc.Clone())
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i].Address[:], accounts[j].Address[:]) < 0
	})

	return accounts, nil
}

func (q *accountsQ) Ping() error {
	return nil
}

func (q *accountsQ) Transaction(f func() error) error {
	if q.inTx {
		return f()
	}

	q.store.txMu.Lock()
	defer q.store.txMu.Unlock()

	snapshot := q.store.snapshot()

	q.inTx = true
	defer func() { q.inTx = false }()

	committed := false
	// also runs while a panic unwinds
	defer func() {
		if !committed {
			q.store.restore(snapshot)
		}
	}()

	if err := f(); err != nil {
		return err
	}

	committed = true

	return nil
}

func (s *store) snapshot() map[solana.PublicKey]db.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make(map[solana.PublicKey]db.Account, len(s.accounts))
	for k, v := range s.accounts {
		copied[k] = v.Clone()
	}

	return copied
}

func (s *store) restore(snapshot map[solana.PublicKey]db.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = snapshot
}
