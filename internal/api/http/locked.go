package http

import (
	"net/http"

	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/api/requests"
	"github.com/Bridgeless-Project/stake-svc/internal/api/resources"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/ape"
)

func InitializeLocked(w http.ResponseWriter, r *http.Request) {
	request, ok := verifiedRequest(w, r, staking.OpInitializeLocked)
	if !ok {
		return
	}

	info, err := ctx.Service(r.Context()).InitializeLockedBalance(request.User, request.Asset)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderCreated(w, resources.NewLocked(info))
}

// GetLocked reports the ledger entry of (user, asset). A missing entry is not
// an error: the response carries the stage the pair has reached.
func GetLocked(w http.ResponseWriter, r *http.Request) {
	request, err := requests.NewAccountPair(r, requests.ParamUser)
	if err != nil {
		renderBadRequest(w, err)
		return
	}

	info, err := ctx.Service(r.Context()).Locked(request.Account, request.Asset)
	switch {
	case errors.Is(err, staking.ErrLockedBalanceNotFound):
		ape.Render(w, resources.Locked{
			Address: info.Address.String(),
			User:    request.Account.String(),
			Asset:   request.Asset.String(),
			Stage:   info.Stage.String(),
		})
	case err != nil:
		renderError(w, r, err)
	default:
		ape.Render(w, resources.NewLocked(info))
	}
}
