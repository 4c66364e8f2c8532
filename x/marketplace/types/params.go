package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// FeeBasisPointDivisor converts basis points into a fraction.
const FeeBasisPointDivisor = 10000

// Params are the on-chain module parameters, mutable only by the authority.
type Params struct {
	// StakeDenom is the denomination nodes post collateral in.
	StakeDenom string `json:"stake_denom"`
	// MinNodeStake is the minimum collateral required for an active node.
	MinNodeStake math.Int `json:"min_node_stake"`
	// FeeBasisPoints is the marketplace fee taken from released escrows.
	FeeBasisPoints uint64 `json:"fee_basis_points"`
	// TreasuryAddress receives the fee portion of released escrows.
	TreasuryAddress string `json:"treasury_address"`
	// ProofAuthority may drive the completion path on behalf of
	// asynchronous proof submission. Empty disables the role.
	ProofAuthority string `json:"proof_authority,omitempty"`
	// MaxJobDeadlineSeconds bounds how far in the future a job deadline
	// may be set. Zero means unbounded.
	MaxJobDeadlineSeconds uint64 `json:"max_job_deadline_seconds"`
}

// DefaultParams returns default marketplace parameters.
func DefaultParams() Params {
	return Params{
		StakeDenom:            "ulat",
		MinNodeStake:          math.NewInt(1000_000000), // 1000 tokens with 6 decimals
		FeeBasisPoints:        100,                      // 1%
		TreasuryAddress:       "",
		ProofAuthority:        "",
		MaxJobDeadlineSeconds: 30 * 24 * 3600,
	}
}

// Validate checks parameter sanity.
func (p Params) Validate() error {
	if p.StakeDenom == "" {
		return ErrInvalidParams.Wrap("stake denom cannot be empty")
	}
	if err := sdk.ValidateDenom(p.StakeDenom); err != nil {
		return ErrInvalidParams.Wrapf("invalid stake denom: %v", err)
	}
	if p.MinNodeStake.IsNil() || !p.MinNodeStake.IsPositive() {
		return ErrInvalidParams.Wrap("min node stake must be positive")
	}
	if p.FeeBasisPoints >= FeeBasisPointDivisor {
		return ErrInvalidParams.Wrapf("fee basis points %d must be below %d", p.FeeBasisPoints, FeeBasisPointDivisor)
	}
	if p.TreasuryAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.TreasuryAddress); err != nil {
			return ErrInvalidParams.Wrapf("invalid treasury address: %v", err)
		}
	}
	if p.ProofAuthority != "" {
		if _, err := sdk.AccAddressFromBech32(p.ProofAuthority); err != nil {
			return ErrInvalidParams.Wrapf("invalid proof authority: %v", err)
		}
	}
	return nil
}
