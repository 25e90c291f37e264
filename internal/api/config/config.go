package config

import (
	"time"

	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/comfig"
	"gitlab.com/distributed_lab/kit/kv"
)

const apiConfigKey = "api"

const (
	defaultRequestTTL      = 5 * time.Minute
	defaultReplayCacheSize = 10_000
)

type API struct {
	// RequestTTL bounds how far in the future a signed request may expire.
	RequestTTL      time.Duration `fig:"request_ttl"`
	ReplayCacheSize int           `fig:"replay_cache_size"`
}

type APIer interface {
	API() API
}

type apier struct {
	getter kv.Getter
	once   comfig.Once
}

func NewAPIer(getter kv.Getter) APIer {
	return &apier{getter: getter}
}

func (a *apier) API() API {
	return a.once.Do(func() interface{} {
		var cfg API

		err := figure.
			Out(&cfg).
			With(figure.BaseHooks).
			From(kv.MustGetStringMap(a.getter, apiConfigKey)).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to load api config"))
		}

		if cfg.RequestTTL < 0 || cfg.ReplayCacheSize < 0 {
			panic(errors.New("api limits must not be negative"))
		}
		if cfg.RequestTTL == 0 {
			cfg.RequestTTL = defaultRequestTTL
		}
		if cfg.ReplayCacheSize == 0 {
			cfg.ReplayCacheSize = defaultReplayCacheSize
		}

		return cfg
	}).(API)
}
