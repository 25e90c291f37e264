package resources

import (
	"github.com/Bridgeless-Project/stake-svc/internal/staking"
)

type Signer struct {
	Address       string `json:"address"`
	Nonce         uint8  `json:"nonce"`
	IsInitialized bool   `json:"is_initialized"`
	IsSigner      bool   `json:"is_signer"`
}

func NewSigner(info *staking.SignerInfo) Signer {
	return Signer{
		Address:       info.Address.String(),
		Nonce:         info.Nonce,
		IsInitialized: info.IsInitialized,
		IsSigner:      info.IsSigner,
	}
}

type Holding struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Asset   string `json:"asset"`
	Amount  uint64 `json:"amount,string"`
}

func NewHolding(info *staking.HoldingInfo) Holding {
	return Holding{
		Address: info.Address.String(),
		Owner:   info.Owner.String(),
		Asset:   info.Mint.String(),
		Amount:  info.Amount,
	}
}

type HoldingAddress struct {
	Address string `json:"address"`
}

type Locked struct {
	Address     string `json:"address"`
	User        string `json:"user"`
	Asset       string `json:"asset"`
	Amount      uint64 `json:"amount,string"`
	Stage       string `json:"stage"`
	Initialized bool   `json:"initialized"`
}

func NewLocked(info *staking.LockedInfo) Locked {
	return Locked{
		Address:     info.Address.String(),
		User:        info.Authority.String(),
		Asset:       info.Asset.String(),
		Amount:      info.Amount,
		Stage:       info.Stage.String(),
		Initialized: true,
	}
}
