package config

import (
	apiconfig "github.com/Bridgeless-Project/stake-svc/internal/api/config"
	dbconfig "github.com/Bridgeless-Project/stake-svc/internal/db/config"
	"github.com/Bridgeless-Project/stake-svc/internal/secrets"
	"github.com/Bridgeless-Project/stake-svc/internal/secrets/vault"
	vaulter "github.com/Bridgeless-Project/stake-svc/internal/secrets/vault/config"
	stakingconfig "github.com/Bridgeless-Project/stake-svc/internal/staking/config"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/kit/pgdb"
)

type Config interface {
	comfig.Logger
	comfig.Listenerer
	pgdb.Databaser
	vaulter.Vaulter
	dbconfig.Storager
	stakingconfig.Programer
	apiconfig.APIer

	SecretsStorage() secrets.Storage
}

type config struct {
	getter kv.Getter

	comfig.Logger
	comfig.Listenerer
	pgdb.Databaser
	vaulter.Vaulter
	dbconfig.Storager
	stakingconfig.Programer
	apiconfig.APIer
}

func New(getter kv.Getter) Config {
	databaser := pgdb.NewDatabaser(getter)

	return &config{
		getter: getter,

		Logger:     comfig.NewLogger(getter, comfig.LoggerOpts{}),
		Listenerer: comfig.NewListenerer(getter),
		Databaser:  databaser,
		Vaulter:    vaulter.NewVaulter(),
		Storager:   dbconfig.NewStorager(getter, databaser),
		Programer:  stakingconfig.NewProgramer(getter),
		APIer:      apiconfig.NewAPIer(getter),
	}
}

func (c *config) SecretsStorage() secrets.Storage {
	return vault.NewStorage(c.VaultClient())
}
