package http

import (
	"net/http"

	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/api/requests"
	"github.com/Bridgeless-Project/stake-svc/internal/api/resources"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/ape"
)

var errAssetNotAllowed = errors.New("asset is not accepted by this deployment")

// InitializeHolding opens the vault holding for an asset, paid by the operator.
func InitializeHolding(w http.ResponseWriter, r *http.Request) {
	request, err := requests.NewInitializeHoldingRequest(r)
	if err != nil {
		renderBadRequest(w, err)
		return
	}
	if !ctx.AssetAllowed(r.Context(), request.Asset) {
		renderBadRequest(w, errAssetNotAllowed)
		return
	}

	address, err := ctx.Service(r.Context()).InitializeHolding(ctx.Operator(r.Context()), request.Asset)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderCreated(w, resources.HoldingAddress{Address: address.String()})
}

func GetHolding(w http.ResponseWriter, r *http.Request) {
	request, err := requests.NewAccountPair(r, requests.ParamOwner)
	if err != nil {
		renderBadRequest(w, err)
		return
	}

	info, err := ctx.Service(r.Context()).Holding(request.Account, request.Asset)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ape.Render(w, resources.NewHolding(info))
}
