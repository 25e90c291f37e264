package http

import (
	"net/http"

	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/api/resources"
	"gitlab.com/distributed_lab/ape"
)

func InitializeSigner(w http.ResponseWriter, r *http.Request) {
	info, err := ctx.Service(r.Context()).InitializeSigner(ctx.Operator(r.Context()))
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderCreated(w, resources.NewSigner(info))
}

func GetSigner(w http.ResponseWriter, r *http.Request) {
	info, err := ctx.Service(r.Context()).Signer()
	if err != nil {
		renderError(w, r, err)
		return
	}

	ape.Render(w, resources.NewSigner(info))
}
