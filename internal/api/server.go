package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/Bridgeless-Project/stake-svc/internal/api/auth"
	"github.com/Bridgeless-Project/stake-svc/internal/api/ctx"
	"github.com/Bridgeless-Project/stake-svc/internal/api/health"
	srvhttp "github.com/Bridgeless-Project/stake-svc/internal/api/http"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/distributed_lab/ape"
	"gitlab.com/distributed_lab/logan/v3"
)

type Server struct {
	http     net.Listener
	gatherer prometheus.Gatherer

	logger       *logan.Entry
	ctxExtenders []func(context.Context) context.Context
}

// NewServer creates the HTTP API server. Operator is the account paying rent
// for operator calls; assets restricts the accepted assets when not empty.
func NewServer(
	http net.Listener,
	service *staking.Service,
	verifier *auth.Verifier,
	operator solana.PublicKey,
	assets []solana.PublicKey,
	gatherer prometheus.Gatherer,
	logger *logan.Entry,
) *Server {
	checker := health.NewChecker(map[string]health.Checkable{
		"storage": service,
	})

	return &Server{
		http:     http,
		gatherer: gatherer,
		logger:   logger,

		ctxExtenders: []func(context.Context) context.Context{
			ctx.LoggerProvider(logger),
			ctx.ServiceProvider(service),
			ctx.VerifierProvider(verifier),
			ctx.OperatorProvider(operator),
			ctx.AssetsProvider(assets),
			ctx.HealthCheckerProvider(checker),
		},
	}
}

func (s *Server) RunHTTP(ctxt context.Context) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	go func() {
		<-ctxt.Done()
		shutdownDeadline, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownDeadline); err != nil {
			s.logger.WithError(err).Error("failed to shutdown http server")
		}
		s.logger.Info("http serving stopped: context canceled")
	}()

	s.logger.WithField("addr", s.http.Addr().String()).Info("http serving started")
	if err := srv.Serve(s.http); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(
		ape.LoganMiddleware(s.logger),
		ape.RecoverMiddleware(s.logger),
		ape.CtxMiddleware(s.ctxExtenders...),
	)

	router.Get("/health", srvhttp.Health)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	router.Route("/v1", func(r chi.Router) {
		r.Post("/signer", srvhttp.InitializeSigner)
		r.Get("/signer", srvhttp.GetSigner)
		r.Post("/holdings", srvhttp.InitializeHolding)
		r.Get("/holdings/{owner}/{asset}", srvhttp.GetHolding)
		r.Post("/locked", srvhttp.InitializeLocked)
		r.Get("/locked/{user}/{asset}", srvhttp.GetLocked)
		r.Post("/stake", srvhttp.Stake)
		r.Post("/unstake", srvhttp.Unstake)
	})

	return router
}
