package pg

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Masterminds/squirrel"
	"github.com/gagliardetto/solana-go"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/kit/pgdb"
)

const (
	accountsTable    = "accounts"
	accountsAddress  = "address"
	accountsOwner    = "owner"
	accountsLamports = "lamports"
	accountsData     = "data"

	uniqueViolation = "23505"
)

type account struct {
	Address  string `db:"address"`
	Owner    string `db:"owner"`
	Lamports string `db:"lamports"`
	Data     []byte `db:"data"`
}

type accountsQ struct {
	db       *pgdb.DB
	selector squirrel.SelectBuilder
	inTx     bool
}

func NewAccountsQ(db *pgdb.DB) db.AccountsQ {
	return &accountsQ{
		db:       db.Clone(),
		selector: squirrel.Select("*").From(accountsTable),
	}
}

func (q *accountsQ) New() db.AccountsQ {
	return NewAccountsQ(q.db.Clone())
}

func (q *accountsQ) Get(address solana.PublicKey) (*db.Account, error) {
	var row account
	err := q.db.Get(&row, q.getStmt(address))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}

	return row.toAccount()
}

func (q *accountsQ) getStmt(address solana.PublicKey) squirrel.SelectBuilder {
	stmt := q.selector.Where(squirrel.Eq{accountsAddress: address.String()})
	if q.inTx {
		// held until commit so concurrent instructions on the same record serialize
		stmt = stmt.Suffix("FOR UPDATE")
	}

	return stmt
}

func (q *accountsQ) Insert(acc db.Account) error {
	stmt := squirrel.
		Insert(accountsTable).
		SetMap(map[string]interface{}{
			accountsAddress:  acc.Address.String(),
			accountsOwner:    acc.Owner.String(),
			accountsLamports: strconv.FormatUint(acc.Lamports, 10),
			accountsData:     dataOrEmpty(acc.Data),
		})

	if err := q.db.Exec(stmt); err != nil {
		if isUniqueViolation(err) {
			return db.ErrAlreadyExists
		}

		return errors.Wrap(err, "failed to insert account")
	}

	return nil
}

func (q *accountsQ) Update(acc db.Account) error {
	stmt := squirrel.Update(accountsTable).
		Set(accountsOwner, acc.Owner.String()).
		Set(accountsLamports, strconv.FormatUint(acc.Lamports, 10)).
		Set(accountsData, dataOrEmpty(acc.Data)).
		Where(squirrel.Eq{accountsAddress: acc.Address.String()}).
		Suffix("RETURNING " + accountsAddress)

	var updated string
	err := q.db.Get(&updated, stmt)
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrAccountNotFound
	}

	return errors.Wrap(err, "failed to update account")
}

func (q *accountsQ) SelectByOwner(owner solana.PublicKey) ([]db.Account, error) {
	var rows []account
	stmt := q.selector.
		Where(squirrel.Eq{accountsOwner: owner.String()}).
		OrderBy(accountsAddress + " ASC")
	if err := q.db.Select(&rows, stmt); err != nil {
		return nil, errors.Wrap(err, "failed to select accounts")
	}

	accounts := make([]db.Account, len(rows))
	for i, row := range rows {
		acc, err := row.toAccount()
		if err != nil {
			return nil, err
		}
		accounts[i] = *acc
	}

	return accounts, nil
}

func (q *accountsQ) Ping() error {
	return q.db.RawDB().Ping()
}

func (q *accountsQ) Transaction(f func() error) error {
	if q.inTx {
		return f()
	}

	q.inTx = true
	defer func() { q.inTx = false }()

	return q.db.Transaction(f)
}

func (a account) toAccount() (*db.Account, error) {
	address, err := solana.PublicKeyFromBase58(a.Address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse account address")
	}
	owner, err := solana.PublicKeyFromBase58(a.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse account owner")
	}
	lamports, err := strconv.ParseUint(a.Lamports, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse account lamports")
	}

	return &db.Account{
		Address:  address,
		Owner:    owner,
		Lamports: lamports,
		Data:     a.Data,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

func dataOrEmpty(data []byte) []byte {
	if data == nil {
		return []byte{}
	}

	return data
}
