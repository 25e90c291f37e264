package http

import (
	"net/http"
	"strconv"

	"github.com/Bridgeless-Project/stake-svc/internal/api/auth"
	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/google/jsonapi"
	"github.com/pkg/errors"
	"gitlab.com/distributed_lab/ape"
	"gitlab.com/distributed_lab/ape/problems"
)

func problem(status int, err error) *jsonapi.ErrorObject {
	return &jsonapi.ErrorObject{
		Title:  http.StatusText(status),
		Status: strconv.Itoa(status),
		Detail: errors.Cause(err).Error(),
	}
}

// renderError maps program and authentication errors to HTTP statuses.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrRequestReplayed):
		ape.RenderErr(w, problem(http.StatusConflict, err))
	case errors.Is(err, auth.ErrBadSignature),
		errors.Is(err, auth.ErrRequestExpired),
		errors.Is(err, auth.ErrExpiryTooFar):
		ape.RenderErr(w, problem(http.StatusUnauthorized, err))
	case staking.IsIdempotencyError(err):
		ape.RenderErr(w, problem(http.StatusConflict, err))
	case staking.IsAuthorizationError(err):
		ape.RenderErr(w, problem(http.StatusForbidden, err))
	case staking.IsNotFoundError(err):
		ape.RenderErr(w, problem(http.StatusNotFound, err))
	case staking.IsFundsError(err), staking.IsInvariantError(err):
		ape.RenderErr(w, problem(http.StatusUnprocessableEntity, err))
	default:
		ctx.Logger(r.Context()).WithError(err).Error("request failed")
		ape.RenderErr(w, problems.InternalError())
	}
}

func renderBadRequest(w http.ResponseWriter, err error) {
	ape.RenderErr(w, problems.BadRequest(err)...)
}

// renderCreated writes a 201 with the JSON:API media type ape.Render would set.
func renderCreated(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", jsonapi.MediaType)
	w.WriteHeader(http.StatusCreated)
	ape.Render(w, v)
}
