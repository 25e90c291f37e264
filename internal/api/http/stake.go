package http

import (
	"net/http"

	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/api/requests"
	"github.com/Bridgeless-Project/stake-svc/internal/api/resources"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"gitlab.com/distributed_lab/ape"
)

func Stake(w http.ResponseWriter, r *http.Request) {
	request, ok := verifiedRequest(w, r, staking.OpStake)
	if !ok {
		return
	}

	info, err := ctx.Service(r.Context()).Stake(request.User, request.User, request.Asset, request.Amount)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ape.Render(w, resources.NewLocked(info))
}

func Unstake(w http.ResponseWriter, r *http.Request) {
	request, ok := verifiedRequest(w, r, staking.OpUnstake)
	if !ok {
		return
	}

	info, err := ctx.Service(r.Context()).Unstake(request.User, request.User, request.Asset, request.Amount)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ape.Render(w, resources.NewLocked(info))
}

// verifiedRequest decodes a signed call and checks the user's signature.
// The user becomes the transaction signer only after verification.
func verifiedRequest(w http.ResponseWriter, r *http.Request, op string) (*requests.SignedRequest, bool) {
	request, err := requests.NewSignedRequest(r)
	if err != nil {
		renderBadRequest(w, err)
		return nil, false
	}
	if !ctx.AssetAllowed(r.Context(), request.Asset) {
		renderBadRequest(w, errAssetNotAllowed)
		return nil, false
	}

	err = ctx.Verifier(r.Context()).Verify(op, request.User, request.Asset, request.Amount, request.ExpiresAt, request.Signature)
	if err != nil {
		renderError(w, r, err)
		return nil, false
	}

	return request, true
}
