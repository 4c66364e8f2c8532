package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// RegisterInvariants registers all marketplace module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "vault-balance",
		VaultBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "node-stake",
		NodeStakeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "job-status",
		JobStatusInvariant(k))
}

// AllInvariants runs all invariants of the marketplace module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := VaultBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = NodeStakeInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return JobStatusInvariant(k)(ctx)
	}
}

// VaultBalanceInvariant checks that per denom the module account holds
// exactly the sum of locked escrows plus, in the stake denom, all node stakes.
func VaultBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params := k.GetParams(ctx)
		moduleAddr := k.accountKeeper.GetModuleAddress(types.ModuleName)

		expected, err := k.TotalLockedByDenom(ctx)
		if err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "vault-balance",
				fmt.Sprintf("error iterating escrows: %v", err),
			), true
		}

		totalStake := math.ZeroInt()
		if err := k.iterateNodes(ctx, func(node types.Node) bool {
			totalStake = totalStake.Add(node.Stake)
			return false
		}); err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "vault-balance",
				fmt.Sprintf("error iterating nodes: %v", err),
			), true
		}
		if totalStake.IsPositive() {
			stakeTotal, ok := expected[params.StakeDenom]
			if !ok {
				stakeTotal = math.ZeroInt()
			}
			expected[params.StakeDenom] = stakeTotal.Add(totalStake)
		}

		for denom, want := range expected {
			have := k.bankKeeper.GetBalance(ctx, moduleAddr, denom).Amount
			if !have.Equal(want) {
				return sdk.FormatInvariant(
					types.ModuleName, "vault-balance",
					fmt.Sprintf("module balance %s%s does not match expected %s%s", have, denom, want, denom),
				), true
			}
		}

		return sdk.FormatInvariant(
			types.ModuleName, "vault-balance",
			"module balance matches locked escrow and node stake",
		), false
	}
}

// NodeStakeInvariant checks that every active node meets the minimum stake
// and carries a consistent active index entry.
func NodeStakeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		params := k.GetParams(ctx)
		var (
			broken bool
			msg    string
		)

		if err := k.iterateNodes(ctx, func(node types.Node) bool {
			addr, err := sdk.AccAddressFromBech32(node.Address)
			if err != nil {
				broken = true
				msg = fmt.Sprintf("node %s has invalid address: %v", node.Address, err)
				return true
			}
			indexed := k.getStore(ctx).Has(ActiveNodeKey(addr))
			if node.Active != indexed {
				broken = true
				msg = fmt.Sprintf("node %s active=%t but index=%t", node.Address, node.Active, indexed)
				return true
			}
			if node.Active && node.Stake.LT(params.MinNodeStake) {
				broken = true
				msg = fmt.Sprintf("active node %s stake %s below minimum %s", node.Address, node.Stake, params.MinNodeStake)
				return true
			}
			if !node.Active && !node.Stake.IsZero() {
				broken = true
				msg = fmt.Sprintf("inactive node %s still holds stake %s", node.Address, node.Stake)
				return true
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "node-stake",
				fmt.Sprintf("error iterating nodes: %v", err),
			), true
		}

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "node-stake", msg), true
		}
		return sdk.FormatInvariant(
			types.ModuleName, "node-stake",
			"all nodes consistent with stake policy",
		), false
	}
}

// JobStatusInvariant checks job and escrow settlement consistency: open jobs
// hold a Locked escrow, terminal jobs never do.
func JobStatusInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
		)

		if err := k.IterateJobs(ctx, func(job types.Job) bool {
			escrow, found := k.GetEscrow(ctx, job.Id)
			if !found {
				broken = true
				msg = fmt.Sprintf("job %d has no escrow record", job.Id)
				return true
			}

			switch job.Status {
			case types.JobStatusPosted, types.JobStatusClaimed:
				if escrow.State != types.EscrowStateLocked {
					broken = true
					msg = fmt.Sprintf("open job %d escrow is %s", job.Id, escrow.State)
					return true
				}
			case types.JobStatusCompleted:
				if escrow.State != types.EscrowStateReleased {
					broken = true
					msg = fmt.Sprintf("completed job %d escrow is %s", job.Id, escrow.State)
					return true
				}
			case types.JobStatusCancelled, types.JobStatusExpired:
				if escrow.State != types.EscrowStateRefunded {
					broken = true
					msg = fmt.Sprintf("terminated job %d escrow is %s", job.Id, escrow.State)
					return true
				}
			}

			if (job.Status == types.JobStatusClaimed || job.Status == types.JobStatusCompleted) && job.Provider == "" {
				broken = true
				msg = fmt.Sprintf("job %d is %s without a provider", job.Id, job.Status)
				return true
			}
			return false
		}); err != nil {
			return sdk.FormatInvariant(
				types.ModuleName, "job-status",
				fmt.Sprintf("error iterating jobs: %v", err),
			), true
		}

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "job-status", msg), true
		}
		return sdk.FormatInvariant(
			types.ModuleName, "job-status",
			"all jobs consistent with escrow state",
		), false
	}
}
