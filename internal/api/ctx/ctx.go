package ctx

import (
	"context"

	"github.com/Bridgeless-Project/stake-svc/internal/api/auth"
	"github.com/Bridgeless-Project/stake-svc/internal/api/health"
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
	"github.com/gagliardetto/solana-go"
	"gitlab.com/distributed_lab/logan/v3"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	serviceKey
	verifierKey
	operatorKey
	assetsKey
	healthCheckerKey
)

func LoggerProvider(l *logan.Entry) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, loggerKey, l)
	}
}

func Logger(ctx context.Context) *logan.Entry {
	return ctx.Value(loggerKey).(*logan.Entry)
}

func ServiceProvider(s *staking.Service) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, serviceKey, s)
	}
}

func Service(ctx context.Context) *staking.Service {
	return ctx.Value(serviceKey).(*staking.Service)
}

func VerifierProvider(v *auth.Verifier) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, verifierKey, v)
	}
}

func Verifier(ctx context.Context) *auth.Verifier {
	return ctx.Value(verifierKey).(*auth.Verifier)
}

// OperatorProvider sets the account paying rent for operator calls.
func OperatorProvider(operator solana.PublicKey) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, operatorKey, operator)
	}
}

func Operator(ctx context.Context) solana.PublicKey {
	return ctx.Value(operatorKey).(solana.PublicKey)
}

func AssetsProvider(assets []solana.PublicKey) func(context.Context) context.Context {
	allowed := make(map[solana.PublicKey]struct{}, len(assets))
	for _, asset := range assets {
		allowed[asset] = struct{}{}
	}

	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, assetsKey, allowed)
	}
}

// AssetAllowed is true for every asset when no allow list is configured.
func AssetAllowed(ctx context.Context, asset solana.PublicKey) bool {
	allowed, _ := ctx.Value(assetsKey).(map[solana.PublicKey]struct{})
	if len(allowed) == 0 {
		return true
	}

	_, ok := allowed[asset]
	return ok
}

func HealthCheckerProvider(c *health.Checker) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		return context.WithValue(ctx, healthCheckerKey, c)
	}
}

func HealthChecker(ctx context.Context) *health.Checker {
	return ctx.Value(healthCheckerKey).(*health.Checker)
}
