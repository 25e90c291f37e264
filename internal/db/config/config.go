package config

import (
	"io"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/db/memory"
	pebbledb "github.com/Bridgeless-Project/stake-svc/internal/db/pebble"
	pg "github.com/Bridgeless-Project/stake-svc/internal/db/postgres"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/kit/pgdb"
)

const storageConfigKey = "storage"

const (
	BackendPostgres = "postgres"
	BackendPebble   = "pebble"
	BackendMemory   = "memory"
)

type Storager interface {
	Backend() string
	Accounts() db.AccountsQ
	CloseStorage() error
}

type storager struct {
	getter    kv.Getter
	databaser pgdb.Databaser

	settingsOnce comfig.Once
	accountsOnce comfig.Once
	closer       io.Closer
}

func NewStorager(getter kv.Getter, databaser pgdb.Databaser) Storager {
	return &storager{
		getter:    getter,
		databaser: databaser,
	}
}

type settings struct {
	Backend string `fig:"backend,required"`
	Path    string `fig:"path"`
}

func (s *storager) settings() settings {
	return s.settingsOnce.Do(func() interface{} {
		var cfg settings

		err := figure.
			Out(&cfg).
			With(figure.BaseHooks).
			From(kv.MustGetStringMap(s.getter, storageConfigKey)).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to load storage config"))
		}

		switch cfg.Backend {
		case BackendPostgres, BackendMemory:
		case BackendPebble:
			if cfg.Path == "" {
				panic(errors.New("pebble backend requires a path"))
			}
		default:
			panic(errors.Errorf("unsupported storage backend: %s", cfg.Backend))
		}

		return cfg
	}).(settings)
}

func (s *storager) Backend() string {
	return s.settings().Backend
}

func (s *storager) Accounts() db.AccountsQ {
	return s.accountsOnce.Do(func() interface{} {
		cfg := s.settings()

		switch cfg.Backend {
		case BackendPostgres:
			return pg.NewAccountsQ(s.databaser.DB())
		case BackendPebble:
			storage, err := pebbledb.Open(cfg.Path)
			if err != nil {
				panic(errors.Wrap(err, "failed to open pebble storage"))
			}
			s.closer = storage
			return pebbledb.NewAccountsQ(storage)
		default:
			return memory.NewAccountsQ()
		}
	}).(db.AccountsQ)
}

func (s *storager) CloseStorage() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}
