package runtime

import (
	"bytes"
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

const DiscriminatorLength = 8

var ErrInvalidAccountData = errors.New("invalid account data")

// Discriminator tags the record type stored in an account.
func Discriminator(name string) []byte {
	sum := sha256.Sum256([]byte("account:" + name))
	return sum[:DiscriminatorLength]
}

// EncodeRecord serializes a program record with Borsh behind its discriminator.
func EncodeRecord(name string, record interface{}) ([]byte, error) {
	buf := bytes.NewBuffer(Discriminator(name))
	if err := bin.NewBorshEncoder(buf).Encode(record); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", name)
	}

	return buf.Bytes(), nil
}

func DecodeRecord(name string, data []byte, record interface{}) error {
	if len(data) < DiscriminatorLength || !bytes.Equal(data[:DiscriminatorLength], Discriminator(name)) {
		return errors.Wrapf(ErrInvalidAccountData, "not a %s record", name)
	}

	if err := bin.NewBorshDecoder(data[DiscriminatorLength:]).Decode(record); err != nil {
		return errors.Wrapf(ErrInvalidAccountData, "failed to decode %s: %s", name, err)
	}

	return nil
}
