package requests

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ParamOwner = "owner"
	ParamUser  = "user"
	ParamAsset = "asset"
)

type AccountPair struct {
	Account solana.PublicKey
	Asset   solana.PublicKey
}

// NewAccountPair reads an (account, asset) pair from the URL path.
func NewAccountPair(r *http.Request, accountParam string) (*AccountPair, error) {
	account := chi.URLParam(r, accountParam)
	asset := chi.URLParam(r, ParamAsset)

	err := validation.Errors{
		accountParam: validation.Validate(account, validation.Required, validation.By(isPublicKey)),
		ParamAsset:   validation.Validate(asset, validation.Required, validation.By(isPublicKey)),
	}.Filter()
	if err != nil {
		return nil, err
	}

	return &AccountPair{
		Account: solana.MustPublicKeyFromBase58(account),
		Asset:   solana.MustPublicKeyFromBase58(asset),
	}, nil
}

type InitializeHoldingRequest struct {
	Asset solana.PublicKey
}

func NewInitializeHoldingRequest(r *http.Request) (*InitializeHoldingRequest, error) {
	var body struct {
		Asset string `json:"asset"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}

	err := validation.Errors{
		"asset": validation.Validate(body.Asset, validation.Required, validation.By(isPublicKey)),
	}.Filter()
	if err != nil {
		return nil, err
	}

	return &InitializeHoldingRequest{Asset: solana.MustPublicKeyFromBase58(body.Asset)}, nil
}
