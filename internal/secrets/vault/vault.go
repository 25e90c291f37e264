package vault

import (
	"context"

	"github.com/Bridgeless-Project/stake-svc/internal/secrets"
	"github.com/gagliardetto/solana-go"
	client "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
)

const (
	keyPayer         = "payer"
	keyMintAuthority = "mint_authority"
)

type Storage struct {
	client *client.KVv2
}

func NewStorage(client *client.KVv2) *Storage {
	return &Storage{
		client: client,
	}
}

func (s *Storage) GetPayerKey() (solana.PrivateKey, error) {
	return s.getKey(keyPayer)
}

func (s *Storage) SavePayerKey(key solana.PrivateKey) error {
	return s.saveKey(keyPayer, key)
}

func (s *Storage) GetMintAuthorityKey() (solana.PrivateKey, error) {
	return s.getKey(keyMintAuthority)
}

func (s *Storage) SaveMintAuthorityKey(key solana.PrivateKey) error {
	return s.saveKey(keyMintAuthority, key)
}

func (s *Storage) getKey(path string) (solana.PrivateKey, error) {
	kvData, err := s.client.Get(context.Background(), path)
	if err != nil {
		if errors.Is(err, client.ErrSecretNotFound) {
			return nil, errors.Wrap(secrets.ErrKeyNotFound, path)
		}
		return nil, errors.Wrapf(err, "failed to load %s key", path)
	}
	if kvData == nil {
		return nil, errors.Wrap(secrets.ErrKeyNotFound, path)
	}

	val, ok := kvData.Data["value"].(string)
	if !ok {
		return nil, errors.Errorf("%s key value not found", path)
	}

	key, err := solana.PrivateKeyFromBase58(val)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s key", path)
	}
	if len(key) != 64 {
		return nil, errors.Errorf("%s key is malformed", path)
	}

	return key, nil
}

func (s *Storage) saveKey(path string, key solana.PrivateKey) error {
	if len(key) != 64 {
		return errors.Errorf("%s key must be 64 bytes, got %d", path, len(key))
	}

	_, err := s.client.Put(context.Background(), path, map[string]interface{}{
		"value": key.String(),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to save %s key", path)
	}

	return nil
}
