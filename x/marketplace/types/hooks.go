package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MarketplaceHooks defines the interface for marketplace module callbacks.
// Enables cross-module notifications for job and node events.
type MarketplaceHooks interface {
	// AfterJobCompleted is called when a job settles successfully.
	AfterJobCompleted(ctx context.Context, jobID uint64, provider sdk.AccAddress, payout sdkmath.Int) error

	// AfterJobFailed is called when a claimed job expires without completion.
	AfterJobFailed(ctx context.Context, jobID uint64, provider sdk.AccAddress, reason string) error

	// AfterNodeRegistered is called when a new compute node registers.
	AfterNodeRegistered(ctx context.Context, node sdk.AccAddress, stake sdkmath.Int) error
}

// MultiMarketplaceHooks combines multiple hooks into a single hook that calls all of them.
type MultiMarketplaceHooks []MarketplaceHooks

// NewMultiMarketplaceHooks creates a new MultiMarketplaceHooks from a list of hooks.
func NewMultiMarketplaceHooks(hooks ...MarketplaceHooks) MultiMarketplaceHooks {
	return hooks
}

// AfterJobCompleted calls AfterJobCompleted on all registered hooks.
func (h MultiMarketplaceHooks) AfterJobCompleted(ctx context.Context, jobID uint64, provider sdk.AccAddress, payout sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterJobCompleted(ctx, jobID, provider, payout); err != nil {
			return err
		}
	}
	return nil
}

// AfterJobFailed calls AfterJobFailed on all registered hooks.
func (h MultiMarketplaceHooks) AfterJobFailed(ctx context.Context, jobID uint64, provider sdk.AccAddress, reason string) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterJobFailed(ctx, jobID, provider, reason); err != nil {
			return err
		}
	}
	return nil
}

// AfterNodeRegistered calls AfterNodeRegistered on all registered hooks.
func (h MultiMarketplaceHooks) AfterNodeRegistered(ctx context.Context, node sdk.AccAddress, stake sdkmath.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterNodeRegistered(ctx, node, stake); err != nil {
			return err
		}
	}
	return nil
}
