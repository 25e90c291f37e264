package pebbledb

import (
	"io"
	"sync"
	"time"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/cockroachdb/pebble"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	defaultSyncInterval = 100 * time.Millisecond

	accountPrefix = "acct/"
	ownerPrefix   = "owner/"
)

type reader interface {
	Get(key []byte) ([]byte, io.Closer, error)
}

// Storage is the embedded account store. Writes outside a transaction are
// buffered (NoSync) and the WAL is synced periodically; transaction commits
// are synced immediately.
type Storage struct {
	db       *pebble.DB
	txMu     sync.Mutex
	stopSync chan struct{}
	wg       sync.WaitGroup
}

func Open(path string) (*Storage, error) {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(32 << 20),
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 2,
	}

	pdb, err := pebble.Open(path, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open pebble database")
	}

	s := &Storage{
		db:       pdb,
		stopSync: make(chan struct{}),
	}
	s.startSyncLoop()

	return s, nil
}

func (s *Storage) Close() error {
	close(s.stopSync)
	s.wg.Wait()

	if err := s.db.LogData(nil, pebble.Sync); err != nil {
		return errors.Wrap(err, "failed to sync wal")
	}

	return s.db.Close()
}

func (s *Storage) startSyncLoop() {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(defaultSyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = s.db.LogData(nil, pebble.Sync)
			case <-s.stopSync:
				return
			}
		}
	}()
}

type accountsQ struct {
	storage *Storage
	batch   *pebble.Batch
}

func NewAccountsQ(storage *Storage) db.AccountsQ {
	return &accountsQ{storage: storage}
}

func (q *accountsQ) New() db.AccountsQ {
	return NewAccountsQ(q.storage)
}

func (q *accountsQ) reader() reader {
	if q.batch != nil {
		return q.batch
	}

	return q.storage.db
}

func (q *accountsQ) Get(address solana.PublicKey) (*db.Account, error) {
	value, closer, err := q.reader().Get(accountKey(address))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	defer closer.Close()

	// value is only valid until closer is closed
	raw := make([]byte, len(value))
	copy(raw, value)

	return db.UnmarshalAccount(raw)
}

func (q *accountsQ) Insert(acc db.Account) error {
	existing, err := q.Get(acc.Address)
	if err != nil {
		return err
	}
	if existing != nil {
		return db.ErrAlreadyExists
	}

	return q.write(acc, nil)
}

func (q *accountsQ) Update(acc db.Account) error {
	existing, err := q.Get(acc.Address)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.ErrAccountNotFound
	}

	return q.write(acc, existing)
}

func (q *accountsQ) write(acc db.Account, previous *db.Account) error {
	raw, err := db.MarshalAccount(acc)
	if err != nil {
		return err
	}

	batch := q.batch
	if batch == nil {
		batch = q.storage.db.NewBatch()
		defer batch.Close()
	}

	if previous != nil && !previous.Owner.Equals(acc.Owner) {
		if err = batch.Delete(ownerKey(previous.Owner, acc.Address), nil); err != nil {
			return errors.Wrap(err, "failed to delete owner index")
		}
	}
	if err = batch.Set(accountKey(acc.Address), raw, nil); err != nil {
		return errors.Wrap(err, "failed to write account")
	}
	if err = batch.Set(ownerKey(acc.Owner, acc.Address), nil, nil); err != nil {
		return errors.Wrap(err, "failed to write owner index")
	}

	if q.batch == nil {
		return errors.Wrap(batch.Commit(pebble.NoSync), "failed to commit account")
	}

	return nil
}

func (q *accountsQ) SelectByOwner(owner solana.PublicKey) ([]db.Account, error) {
	prefix := append([]byte(ownerPrefix), owner[:]...)
	iter, err := q.storage.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create iterator")
	}
	defer iter.Close()

	var accounts []db.Account
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		address := solana.PublicKeyFromBytes(key[len(prefix):])

		acc, err := q.Get(address)
		if err != nil {
			return nil, err
		}
		if acc != nil {
			accounts = append(accounts, *acc)
		}
	}

	return accounts, errors.Wrap(iter.Error(), "failed to iterate owner index")
}

func (q *accountsQ) Ping() error {
	_, closer, err := q.storage.db.Get([]byte(accountPrefix))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return closer.Close()
}

func (q *accountsQ) Transaction(f func() error) error {
	if q.batch != nil {
		return f()
	}

	q.storage.txMu.Lock()
	defer q.storage.txMu.Unlock()

	q.batch = q.storage.db.NewIndexedBatch()
	defer func() {
		q.batch.Close()
		q.batch = nil
	}()

	if err := f(); err != nil {
		return err
	}

	return errors.Wrap(q.batch.Commit(pebble.Sync), "failed to commit transaction")
}

func accountKey(address solana.PublicKey) []byte {
	return append([]byte(accountPrefix), address[:]...)
}

func ownerKey(owner, address solana.PublicKey) []byte {
	key := append([]byte(ownerPrefix), owner[:]...)
	return append(key, address[:]...)
}

func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)

	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper
		}
	}

	return nil
}
