package auth

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	lru "github.com/hashicorp/golang-lru"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const signatureLength = 64

var (
	ErrBadSignature    = errors.New("bad request signature")
	ErrRequestExpired  = errors.New("request expired")
	ErrExpiryTooFar    = errors.New("request expiry is too far in the future")
	ErrRequestReplayed = errors.New("request already processed")
)

// Message is the payload a user signs to authorize a call.
func Message(op string, user, asset solana.PublicKey, amount uint64, expiresAt int64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s:%d:%d", op, user, asset, amount, expiresAt))
}

// Sign produces the base58 signature expected by Verify.
func Sign(key solana.PrivateKey, op string, asset solana.PublicKey, amount uint64, expiresAt int64) (string, error) {
	signature, err := key.Sign(Message(op, key.PublicKey(), asset, amount, expiresAt))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign request")
	}

	return base58.Encode(signature[:]), nil
}

// Verifier checks user signatures over requests. A signature is accepted once:
// the replay cache remembers it for as long as the request could still be valid.
type Verifier struct {
	ttl  time.Duration
	seen *lru.Cache
	now  func() time.Time
}

func NewVerifier(ttl time.Duration, cacheSize int) (*Verifier, error) {
	seen, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create replay cache")
	}

	return &Verifier{
		ttl:  ttl,
		seen: seen,
		now:  time.Now,
	}, nil
}

func (v *Verifier) Verify(op string, user, asset solana.PublicKey, amount uint64, expiresAt int64, signature string) error {
	now := v.now()
	expiry := time.Unix(expiresAt, 0)
	if !expiry.After(now) {
		return ErrRequestExpired
	}
	if expiry.Sub(now) > v.ttl {
		return errors.Wrapf(ErrExpiryTooFar, "max ttl is %s", v.ttl)
	}

	raw, err := base58.Decode(signature)
	if err != nil || len(raw) != signatureLength {
		return errors.Wrap(ErrBadSignature, "malformed signature")
	}

	sig := solana.SignatureFromBytes(raw)
	if !sig.Verify(user, Message(op, user, asset, amount, expiresAt)) {
		return ErrBadSignature
	}

	if found, _ := v.seen.ContainsOrAdd(sig, expiry); found {
		return ErrRequestReplayed
	}

	return nil
}
