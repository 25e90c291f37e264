package pda

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	MaxSeeds      = 16
	MaxSeedLength = 32

	marker = "ProgramDerivedAddress"
)

var (
	ErrDerivationExhausted   = errors.New("unable to find a viable derivation nonce")
	ErrInvalidSeeds          = errors.New("provided seeds do not result in a valid address")
	ErrMaxSeedLengthExceeded = errors.New("seed exceeds the maximum length")
	ErrTooManySeeds          = errors.New("too many seeds")
)

func IsDerivationError(err error) bool {
	return errors.Is(err, ErrDerivationExhausted) ||
		errors.Is(err, ErrInvalidSeeds) ||
		errors.Is(err, ErrMaxSeedLengthExceeded) ||
		errors.Is(err, ErrTooManySeeds)
}

// Predicate reports whether the candidate bytes decode to a point on the
// signature curve, i.e. whether some private key could sign for them.
type Predicate func(candidate []byte) bool

// OnCurve is the host ledger predicate: a candidate is rejected when it is a
// valid compressed edwards25519 point.
func OnCurve(candidate []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(candidate)
	return err == nil
}

type Deriver struct {
	onCurve Predicate
}

func NewDeriver(onCurve Predicate) *Deriver {
	if onCurve == nil {
		onCurve = OnCurve
	}

	return &Deriver{onCurve: onCurve}
}

var defaultDeriver = NewDeriver(OnCurve)

func Default() *Deriver {
	return defaultDeriver
}

// Create re-derives the address for a known nonce.
func (d *Deriver) Create(seeds [][]byte, nonce uint8, namespace solana.PublicKey) (solana.PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return solana.PublicKey{}, err
	}

	candidate := hash(seeds, nonce, namespace)
	if d.onCurve(candidate[:]) {
		return solana.PublicKey{}, ErrInvalidSeeds
	}

	return candidate, nil
}

// Find searches the nonce space from 255 downwards and returns the first
// address that has no associated private key.
func (d *Deriver) Find(seeds [][]byte, namespace solana.PublicKey) (solana.PublicKey, uint8, error) {
	if err := validateSeeds(seeds); err != nil {
		return solana.PublicKey{}, 0, err
	}

	for nonce := 255; nonce >= 0; nonce-- {
		candidate := hash(seeds, uint8(nonce), namespace)
		if !d.onCurve(candidate[:]) {
			return candidate, uint8(nonce), nil
		}
	}

	return solana.PublicKey{}, 0, ErrDerivationExhausted
}

func Find(seeds [][]byte, namespace solana.PublicKey) (solana.PublicKey, uint8, error) {
	return defaultDeriver.Find(seeds, namespace)
}

func Create(seeds [][]byte, nonce uint8, namespace solana.PublicKey) (solana.PublicKey, error) {
	return defaultDeriver.Create(seeds, nonce, namespace)
}

func validateSeeds(seeds [][]byte) error {
	// the nonce is appended as one more seed
	if len(seeds)+1 > MaxSeeds {
		return errors.Wrapf(ErrTooManySeeds, "got %d, max %d", len(seeds), MaxSeeds-1)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return errors.Wrapf(ErrMaxSeedLengthExceeded, "seed %d has %d bytes", i, len(seed))
		}
	}

	return nil
}

func hash(seeds [][]byte, nonce uint8, namespace solana.PublicKey) solana.PublicKey {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{nonce})
	h.Write(namespace[:])
	h.Write([]byte(marker))

	var out solana.PublicKey
	copy(out[:], h.Sum(nil))

	return out
}
