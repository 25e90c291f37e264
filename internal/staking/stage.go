package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type Stage int

const (
	StageUninitialized Stage = iota
	StageSignerReady
	StageHoldingReady
	StageOperational
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageSignerReady:
		return "signer_ready"
	case StageHoldingReady:
		return "holding_ready"
	case StageOperational:
		return "operational"
	default:
		return "unknown"
	}
}

// Stage reports how far (user, asset) has progressed towards staking.
func (p *Program) Stage(ctx *runtime.Context, user, asset solana.PublicKey) (Stage, error) {
	_, signer, err := p.Signer(ctx)
	if errors.Is(err, ErrSignerNotInitialized) {
		return StageUninitialized, nil
	}
	if err != nil {
		return StageUninitialized, err
	}

	if _, err = p.checkHolding(ctx, signer, asset); err != nil {
		if errors.Is(err, ErrHoldingNotFound) {
			return StageSignerReady, nil
		}
		return StageSignerReady, err
	}

	if _, _, err = p.LockedBalance(ctx, user, asset); err != nil {
		if errors.Is(err, ErrLockedBalanceNotFound) {
			return StageHoldingReady, nil
		}
		return StageHoldingReady, err
	}

	return StageOperational, nil
}
