package config

import (
	"os"

	vault "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/kit/comfig"
)

const (
	VaultPathEnv   = "VAULT_PATH"
	VaultTokenEnv  = "VAULT_TOKEN"
	VaultMountPath = "MOUNT_PATH"

	defaultMountPath = "secret"
)

type Vaulter interface {
	VaultClient() *vault.KVv2
}

type vaulter struct {
	once comfig.Once
}

func NewVaulter() Vaulter {
	return &vaulter{}
}

func (v *vaulter) VaultClient() *vault.KVv2 {
	return v.once.Do(func() interface{} {
		token := os.Getenv(VaultTokenEnv)
		if token == "" {
			panic(errors.Errorf("%s is not set", VaultTokenEnv))
		}

		conf := vault.DefaultConfig()
		conf.Address = os.Getenv(VaultPathEnv)

		client, err := vault.NewClient(conf)
		if err != nil {
			panic(errors.Wrap(err, "failed to create vault client"))
		}

		client.SetToken(token)

		mountPath := os.Getenv(VaultMountPath)
		if mountPath == "" {
			mountPath = defaultMountPath
		}

		return client.KVv2(mountPath)
	}).(*vault.KVv2)
}
