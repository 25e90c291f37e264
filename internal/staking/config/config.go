package config

import (
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

const programConfigKey = "program"

type Program struct {
	ID   solana.PublicKey
	Rent runtime.Rent
	// Assets the API accepts; empty means any initialized mint.
	Assets []solana.PublicKey
}

type Programer interface {
	Program() Program
}

type programer struct {
	getter kv.Getter
	once   comfig.Once
}

func NewProgramer(getter kv.Getter) Programer {
	return &programer{getter: getter}
}

func (p *programer) Program() Program {
	return p.once.Do(func() interface{} {
		var cfg struct {
			ID                  solana.PublicKey   `fig:"id,required"`
			LamportsPerByteYear uint64             `fig:"lamports_per_byte_year"`
			ExemptionYears      uint64             `fig:"exemption_years"`
			Assets              []solana.PublicKey `fig:"assets"`
		}

		err := figure.
			Out(&cfg).
			With(figure.BaseHooks, SolanaHooks).
			From(kv.MustGetStringMap(p.getter, programConfigKey)).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to load program config"))
		}

		rent := runtime.DefaultRent()
		if cfg.LamportsPerByteYear != 0 {
			rent.LamportsPerByteYear = cfg.LamportsPerByteYear
		}
		if cfg.ExemptionYears != 0 {
			rent.ExemptionYears = cfg.ExemptionYears
		}

		return Program{
			ID:     cfg.ID,
			Rent:   rent,
			Assets: cfg.Assets,
		}
	}).(Program)
}
