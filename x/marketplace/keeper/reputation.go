package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// GetReputation returns the reputation record for provider. Unknown
// providers get a zeroed record, never an error.
func (k Keeper) GetReputation(ctx context.Context, provider sdk.AccAddress) types.ReputationRecord {
	var record types.ReputationRecord
	found, err := k.getJSON(ctx, ReputationKey(provider), &record)
	if err != nil || !found {
		return types.ReputationRecord{Provider: provider.String()}
	}
	return record
}

// recordSuccess credits provider with a completed job.
func (k Keeper) recordSuccess(ctx context.Context, provider sdk.AccAddress) {
	record := k.GetReputation(ctx, provider)
	record.SuccessCount++
	k.writeReputation(ctx, provider, record)
}

// recordFailure debits provider for a job that expired under its claim.
func (k Keeper) recordFailure(ctx context.Context, provider sdk.AccAddress) {
	record := k.GetReputation(ctx, provider)
	record.FailureCount++
	k.writeReputation(ctx, provider, record)
}

func (k Keeper) writeReputation(ctx context.Context, provider sdk.AccAddress, record types.ReputationRecord) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	record.Provider = provider.String()
	record.Score = record.ComputeScore()
	if err := k.setJSON(ctx, ReputationKey(provider), record); err != nil {
		sdkCtx.Logger().Error("failed to persist reputation record", "provider", provider.String(), "error", err)
		return
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeReputationUpdate,
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyScore, strconv.FormatUint(uint64(record.Score), 10)),
			sdk.NewAttribute(types.AttributeKeySuccessCount, strconv.FormatUint(record.SuccessCount, 10)),
			sdk.NewAttribute(types.AttributeKeyFailureCount, strconv.FormatUint(record.FailureCount, 10)),
		),
	)
}

// IterateReputations walks all reputation records until cb returns true.
func (k Keeper) IterateReputations(ctx context.Context, cb func(record types.ReputationRecord) (stop bool)) error {
	store := prefix.NewStore(k.getStore(ctx), ReputationKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var record types.ReputationRecord
		if err := unmarshalRecord(iterator.Value(), &record); err != nil {
			return err
		}
		if cb(record) {
			break
		}
	}
	return nil
}
