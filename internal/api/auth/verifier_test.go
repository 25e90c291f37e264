package auth

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Verify(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	user := key.PublicKey()
	asset := solana.NewWallet().PublicKey()
	now := time.Unix(1_700_000_000, 0)

	newVerifier := func(t *testing.T) *Verifier {
		v, err := NewVerifier(time.Minute, 16)
		require.NoError(t, err)
		v.now = func() time.Time { return now }
		return v
	}

	valid := now.Add(30 * time.Second).Unix()
	signature, err := Sign(key, "stake", asset, 10, valid)
	require.NoError(t, err)

	cases := map[string]struct {
		op        string
		user      solana.PublicKey
		amount    uint64
		expiresAt int64
		signature string
		want      error
	}{
		"valid": {
			op: "stake", user: user, amount: 10, expiresAt: valid, signature: signature,
		},
		"other operation": {
			op: "unstake", user: user, amount: 10, expiresAt: valid, signature: signature,
			want: ErrBadSignature,
		},
		"other amount": {
			op: "stake", user: user, amount: 11, expiresAt: valid, signature: signature,
			want: ErrBadSignature,
		},
		"other user": {
			op: "stake", user: solana.NewWallet().PublicKey(), amount: 10, expiresAt: valid, signature: signature,
			want: ErrBadSignature,
		},
		"malformed signature": {
			op: "stake", user: user, amount: 10, expiresAt: valid, signature: "not-base58!",
			want: ErrBadSignature,
		},
		"expired": {
			op: "stake", user: user, amount: 10, expiresAt: now.Unix(), signature: signature,
			want: ErrRequestExpired,
		},
		"too far in the future": {
			op: "stake", user: user, amount: 10, expiresAt: now.Add(time.Hour).Unix(), signature: signature,
			want: ErrExpiryTooFar,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := newVerifier(t).Verify(tc.op, tc.user, asset, tc.amount, tc.expiresAt, tc.signature)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.want), "unexpected error: %v", err)
		})
	}
}

func Test_VerifyRejectsReplay(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	asset := solana.NewWallet().PublicKey()

	v, err := NewVerifier(time.Minute, 16)
	require.NoError(t, err)

	expiresAt := time.Now().Add(30 * time.Second).Unix()
	signature, err := Sign(key, "unstake", asset, 5, expiresAt)
	require.NoError(t, err)

	require.NoError(t, v.Verify("unstake", key.PublicKey(), asset, 5, expiresAt, signature))
	assert.ErrorIs(t, v.Verify("unstake", key.PublicKey(), asset, 5, expiresAt, signature), ErrRequestReplayed)
}
