package utils

import (
	"github.com/Bridgeless-Project/stake-svc/internal/config"
	"github.com/Bridgeless-Project/stake-svc/internal/metrics"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// NewService wires the staking service on top of the configured storage.
func NewService(cfg config.Config, registerer prometheus.Registerer) (*staking.Service, error) {
	var (
		logger  = cfg.Log()
		program = cfg.Program()
		deriver = pda.Default()
	)

	m, err := metrics.New(registerer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create metrics")
	}

	rt := runtime.New(cfg.Accounts(), deriver, program.Rent, logger.WithField("component", "runtime"))

	return staking.NewService(
		rt,
		staking.NewProgram(program.ID, deriver, token.NewProgram(deriver)),
		m,
		logger,
	), nil
}
