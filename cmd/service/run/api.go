package run

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Bridgeless-Project/stake-svc/cmd/utils"
	"github.com/Bridgeless-Project/stake-svc/internal/api"
	"github.com/Bridgeless-Project/stake-svc/internal/api/auth"
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"gitlab.com/distributed_lab/logan/v3"
	"golang.org/x/sync/errgroup"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Starts the service API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := utils.ConfigFromFlags(cmd)
		if err != nil {
			return errors.Wrap(err, "failed to get config from flags")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		err = runServiceApiMode(ctx, cfg)

		return errors.Wrap(err, "failed to run service api")
	},
}

func runServiceApiMode(ctx context.Context, cfg config.Config) error {
	logger := cfg.Log()
	defer func() {
		if err := cfg.CloseStorage(); err != nil {
			logger.WithError(err).Error("failed to close storage")
		}
	}()

	operator, err := utils.Payer(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to get operator account")
	}

	service, err := utils.NewService(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return errors.Wrap(err, "failed to create staking service")
	}

	apiCfg := cfg.API()
	verifier, err := auth.NewVerifier(apiCfg.RequestTTL, apiCfg.ReplayCacheSize)
	if err != nil {
		return errors.Wrap(err, "failed to create request verifier")
	}

	apiServer := api.NewServer(
		cfg.Listener(),
		service,
		verifier,
		operator,
		cfg.Program().Assets,
		prometheus.DefaultGatherer,
		logger.WithField("component", "api_server"),
	)

	logger.WithFields(logan.F{
		"backend":  cfg.Backend(),
		"program":  cfg.Program().ID.String(),
		"operator": operator.String(),
	}).Info("starting staking service")

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return errors.Wrap(apiServer.RunHTTP(ctx), "error while running API HTTP server") })

	return eg.Wait()
}
