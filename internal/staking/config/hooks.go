package config

import (
	"reflect"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/figure/v3"
)

var SolanaHooks = figure.Hooks{
	"solana.PublicKey": func(value interface{}) (reflect.Value, error) {
		switch v := value.(type) {
		case string:
			pubKey, err := solana.PublicKeyFromBase58(v)
			if err != nil {
				return reflect.Value{}, errors.Wrap(err, "invalid public key")
			}
			return reflect.ValueOf(pubKey), nil
		default:
			return reflect.Value{}, errors.Errorf("unsupported conversion from %T", value)
		}
	},
	"[]solana.PublicKey": func(value interface{}) (reflect.Value, error) {
		switch v := value.(type) {
		case []interface{}:
			keys := make([]solana.PublicKey, len(v))
			for i, raw := range v {
				str, ok := raw.(string)
				if !ok {
					return reflect.Value{}, errors.Errorf("unsupported conversion from %T at %d", raw, i)
				}
				key, err := solana.PublicKeyFromBase58(str)
				if err != nil {
					return reflect.Value{}, errors.Wrapf(err, "invalid public key at %d", i)
				}
				keys[i] = key
			}
			return reflect.ValueOf(keys), nil
		default:
			return reflect.Value{}, errors.Errorf("unsupported conversion from %T", value)
		}
	},
}
