package requests

import (
	"encoding/json"
	"net/http"

	"github.com/gagliardetto/solana-go"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// SignedRequest is a call authorized by the user's signature over
// auth.Message.
type SignedRequest struct {
	User      solana.PublicKey
	Asset     solana.PublicKey
	Amount    uint64
	ExpiresAt int64
	Signature string
}

type signedRequestBody struct {
	User      string `json:"user"`
	Asset     string `json:"asset"`
	Amount    uint64 `json:"amount,string,omitempty"`
	ExpiresAt int64  `json:"expires_at"`
	Signature string `json:"signature"`
}

// NewSignedRequest decodes a signed call. Amount is omitted by calls that
// move no funds and is signed as zero.
func NewSignedRequest(r *http.Request) (*SignedRequest, error) {
	var body signedRequestBody
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}

	err := validation.Errors{
		"user":       validation.Validate(body.User, validation.Required, validation.By(isPublicKey)),
		"asset":      validation.Validate(body.Asset, validation.Required, validation.By(isPublicKey)),
		"expires_at": validation.Validate(body.ExpiresAt, validation.Required, validation.Min(int64(1))),
		"signature":  validation.Validate(body.Signature, validation.Required),
	}.Filter()
	if err != nil {
		return nil, err
	}

	return &SignedRequest{
		User:      solana.MustPublicKeyFromBase58(body.User),
		Asset:     solana.MustPublicKeyFromBase58(body.Asset),
		Amount:    body.Amount,
		ExpiresAt: body.ExpiresAt,
		Signature: body.Signature,
	}, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "failed to decode request body")
	}

	return nil
}

func isPublicKey(value interface{}) error {
	str, _ := value.(string)
	if _, err := solana.PublicKeyFromBase58(str); err != nil {
		return errors.New("must be a base58 encoded public key")
	}

	return nil
}
