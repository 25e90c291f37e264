package secrets

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Storage keeps the operator keys used to sign instructions on behalf of the
// service: the payer funding account rent and the authority of devnet mints.
type Storage interface {
	GetPayerKey() (solana.PrivateKey, error)
	SavePayerKey(key solana.PrivateKey) error

	GetMintAuthorityKey() (solana.PrivateKey, error)
	SaveMintAuthorityKey(key solana.PrivateKey) error
}
