package db

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// MarshalAccount is the binary form used by the key-value backends.
func MarshalAccount(acc Account) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(acc); err != nil {
		return nil, errors.Wrap(err, "failed to encode account")
	}

	return buf.Bytes(), nil
}

func UnmarshalAccount(raw []byte) (*Account, error) {
	var acc Account
	if err := bin.NewBorshDecoder(raw).Decode(&acc); err != nil {
		return nil, errors.Wrap(err, "failed to decode account")
	}

	return &acc, nil
}
