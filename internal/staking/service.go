package staking

import (
	"time"

	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/metrics"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/gagliardetto/solana-go"
	"gitlab.com/distributed_lab/logan/v3"
)

const (
	OpInitializeSigner  = "initialize_signer"
	OpInitializeHolding = "initialize_holding"
	OpInitializeLocked  = "initialize_locked_balance"
	OpStake             = "stake"
	OpUnstake           = "unstake"
	OpCreateMint        = "create_mint"
	OpCreateHolding     = "create_holding"
	OpMintTo            = "mint_to"
)

type SignerInfo struct {
	Address solana.PublicKey
	VaultSigner
}

type HoldingInfo struct {
	Address solana.PublicKey
	token.Holding
}

type LockedInfo struct {
	Address solana.PublicKey
	Stage   Stage
	LockedBalance
}

// Service runs the program calls as atomic instructions. Every call is
// logged and measured.
type Service struct {
	rt      *runtime.Runtime
	program *Program
	metrics *metrics.Metrics
	log     *logan.Entry
}

func NewService(rt *runtime.Runtime, program *Program, m *metrics.Metrics, log *logan.Entry) *Service {
	return &Service{
		rt:      rt,
		program: program,
		metrics: m,
		log:     log.WithField("component", "staking"),
	}
}

func (s *Service) Program() *Program {
	return s.program
}

func (s *Service) Ping() error {
	return s.rt.Accounts().Ping()
}

func (s *Service) execute(op string, signers []solana.PublicKey, fields logan.F, instruction func(ctx *runtime.Context) error) error {
	started := time.Now()
	err := s.rt.Execute(signers, instruction)

	result := Classify(err)
	s.metrics.Observe(op, result, started)

	entry := s.log.WithFields(fields).WithFields(logan.F{"op": op, "result": result})
	switch {
	case err == nil:
		entry.Debug("instruction executed")
	case result == "error" || result == "derivation":
		entry.WithError(err).Error("instruction failed")
	default:
		entry.WithError(err).Info("instruction rejected")
	}

	return err
}

// query runs a read-only instruction without signers.
func (s *Service) query(f func(ctx *runtime.Context) error) error {
	return s.rt.Execute(nil, f)
}

func (s *Service) InitializeSigner(payer solana.PublicKey) (*SignerInfo, error) {
	var info SignerInfo

	err := s.execute(OpInitializeSigner, []solana.PublicKey{payer}, logan.F{"payer": payer.String()},
		func(ctx *runtime.Context) error {
			signer, address, err := s.program.InitializeSigner(ctx, payer)
			if err != nil {
				return err
			}
			info = SignerInfo{Address: address, VaultSigner: *signer}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *Service) InitializeHolding(payer, asset solana.PublicKey) (solana.PublicKey, error) {
	var address solana.PublicKey

	err := s.execute(OpInitializeHolding, []solana.PublicKey{payer}, logan.F{"payer": payer.String(), "asset": asset.String()},
		func(ctx *runtime.Context) (err error) {
			address, err = s.program.InitializeHolding(ctx, payer, asset)
			return err
		})

	return address, err
}

func (s *Service) InitializeLockedBalance(user, asset solana.PublicKey) (*LockedInfo, error) {
	var info LockedInfo

	err := s.execute(OpInitializeLocked, []solana.PublicKey{user}, logan.F{"user": user.String(), "asset": asset.String()},
		func(ctx *runtime.Context) error {
			locked, address, err := s.program.InitializeLockedBalance(ctx, user, asset)
			if err != nil {
				return err
			}
			info = LockedInfo{Address: address, Stage: StageOperational, LockedBalance: *locked}
			return nil
		})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// Stake is signed by caller on behalf of user.
func (s *Service) Stake(caller, user, asset solana.PublicKey, amount uint64) (*LockedInfo, error) {
	var info LockedInfo

	fields := logan.F{"caller": caller.String(), "user": user.String(), "asset": asset.String(), "amount": amount}
	err := s.execute(OpStake, []solana.PublicKey{caller}, fields, func(ctx *runtime.Context) error {
		locked, err := s.program.Stake(ctx, caller, user, asset, amount)
		if err != nil {
			return err
		}
		address, err := s.program.LockedAddress(user, asset)
		if err != nil {
			return err
		}
		info = LockedInfo{Address: address, Stage: StageOperational, LockedBalance: *locked}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Staked(asset.String(), amount)

	return &info, nil
}

// Unstake is signed by caller; it only succeeds when caller is user.
func (s *Service) Unstake(caller, user, asset solana.PublicKey, amount uint64) (*LockedInfo, error) {
	var info LockedInfo

	fields := logan.F{"caller": caller.String(), "user": user.String(), "asset": asset.String(), "amount": amount}
	err := s.execute(OpUnstake, []solana.PublicKey{caller}, fields, func(ctx *runtime.Context) error {
		locked, err := s.program.Unstake(ctx, caller, user, asset, amount)
		if err != nil {
			return err
		}
		address, err := s.program.LockedAddress(user, asset)
		if err != nil {
			return err
		}
		info = LockedInfo{Address: address, Stage: StageOperational, LockedBalance: *locked}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Unstaked(asset.String(), amount)

	return &info, nil
}

func (s *Service) Signer() (*SignerInfo, error) {
	var info SignerInfo

	err := s.query(func(ctx *runtime.Context) error {
		signer, address, err := s.program.Signer(ctx)
		if err != nil {
			return err
		}
		info = SignerInfo{Address: address, VaultSigner: *signer}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *Service) Holding(owner, asset solana.PublicKey) (*HoldingInfo, error) {
	var info HoldingInfo

	err := s.query(func(ctx *runtime.Context) error {
		address, err := s.program.Token().HoldingAddress(owner, asset)
		if err != nil {
			return err
		}
		holding, err := s.program.Token().Holding(ctx, address)
		if err != nil {
			return err
		}
		info = HoldingInfo{Address: address, Holding: *holding}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// Locked returns the ledger entry of (user, asset). When the entry does not
// exist yet the result still carries its address and the current stage
// alongside ErrLockedBalanceNotFound.
func (s *Service) Locked(user, asset solana.PublicKey) (*LockedInfo, error) {
	var info LockedInfo

	err := s.query(func(ctx *runtime.Context) error {
		stage, err := s.program.Stage(ctx, user, asset)
		if err != nil {
			return err
		}
		info.Stage = stage

		if info.Address, err = s.program.LockedAddress(user, asset); err != nil {
			return err
		}

		locked, _, err := s.program.LockedBalance(ctx, user, asset)
		if err != nil {
			return err
		}
		info.LockedBalance = *locked
		return nil
	})

	return &info, err
}

func (s *Service) Stage(user, asset solana.PublicKey) (Stage, error) {
	var stage Stage

	err := s.query(func(ctx *runtime.Context) (err error) {
		stage, err = s.program.Stage(ctx, user, asset)
		return err
	})

	return stage, err
}

func (s *Service) CreateMint(payer, mint, authority solana.PublicKey, decimals uint8) error {
	return s.execute(OpCreateMint, []solana.PublicKey{payer, mint}, logan.F{"mint": mint.String(), "authority": authority.String()},
		func(ctx *runtime.Context) error {
			return s.program.Token().CreateMint(ctx, payer, mint, authority, decimals)
		})
}

func (s *Service) CreateHolding(payer, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	var address solana.PublicKey

	err := s.execute(OpCreateHolding, []solana.PublicKey{payer}, logan.F{"owner": owner.String(), "mint": mint.String()},
		func(ctx *runtime.Context) (err error) {
			address, err = s.program.Token().CreateHolding(ctx, payer, owner, mint)
			return err
		})

	return address, err
}

// MintTo issues tokens into the associated holding of owner.
func (s *Service) MintTo(authority, mint, owner solana.PublicKey, amount uint64) (*HoldingInfo, error) {
	var info HoldingInfo

	fields := logan.F{"mint": mint.String(), "owner": owner.String(), "amount": amount}
	err := s.execute(OpMintTo, []solana.PublicKey{authority}, fields, func(ctx *runtime.Context) error {
		address, err := s.program.Token().HoldingAddress(owner, mint)
		if err != nil {
			return err
		}
		if err = s.program.Token().MintTo(ctx, mint, address, runtime.Signer(authority), amount); err != nil {
			return err
		}
		holding, err := s.program.Token().Holding(ctx, address)
		if err != nil {
			return err
		}
		info = HoldingInfo{Address: address, Holding: *holding}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

func (s *Service) Airdrop(to solana.PublicKey, lamports uint64) (uint64, error) {
	balance, err := s.rt.Airdrop(to, lamports)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logan.F{"to": to.String(), "lamports": lamports, "balance": balance}).Info("airdrop")

	return balance, nil
}

// Accounts lists every account owned by the staking program.
func (s *Service) Accounts() ([]db.Account, error) {
	return s.rt.Accounts().SelectByOwner(s.program.ID())
}
