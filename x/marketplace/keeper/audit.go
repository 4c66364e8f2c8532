package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// appendAudit records an immutable audit entry for a state transition and
// mirrors it as an event. Audit failures are logged rather than propagated
// so a full audit store never blocks settlement.
func (k Keeper) appendAudit(ctx context.Context, category, subject, actor, prevStatus, newStatus string) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	seq := k.getCounter(ctx, AuditSeqKey, 0) + 1
	record := types.AuditRecord{
		Sequence:    seq,
		Category:    category,
		Subject:     subject,
		Actor:       actor,
		PrevStatus:  prevStatus,
		NewStatus:   newStatus,
		BlockHeight: sdkCtx.BlockHeight(),
		Timestamp:   sdkCtx.BlockTime(),
	}

	if err := k.setJSON(ctx, AuditKey(seq), record); err != nil {
		sdkCtx.Logger().Error("failed to persist audit record",
			"category", category,
			"subject", subject,
			"error", err,
		)
		return
	}
	k.setCounter(ctx, AuditSeqKey, seq)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAuditRecord,
			sdk.NewAttribute(types.AttributeKeySequence, strconv.FormatUint(seq, 10)),
			sdk.NewAttribute(types.AttributeKeyCategory, category),
			sdk.NewAttribute(types.AttributeKeySubject, subject),
			sdk.NewAttribute(types.AttributeKeyActor, actor),
			sdk.NewAttribute(types.AttributeKeyPrevStatus, prevStatus),
			sdk.NewAttribute(types.AttributeKeyStatus, newStatus),
		),
	)
}

// GetAuditRecord returns the audit record at the given sequence.
func (k Keeper) GetAuditRecord(ctx context.Context, seq uint64) (types.AuditRecord, bool) {
	var record types.AuditRecord
	found, err := k.getJSON(ctx, AuditKey(seq), &record)
	if err != nil || !found {
		return types.AuditRecord{}, false
	}
	return record, true
}

// GetAuditSequence returns the highest audit sequence written so far.
func (k Keeper) GetAuditSequence(ctx context.Context) uint64 {
	return k.getCounter(ctx, AuditSeqKey, 0)
}

// IterateAuditRecords walks audit records in sequence order until cb returns true.
func (k Keeper) IterateAuditRecords(ctx context.Context, cb func(record types.AuditRecord) (stop bool)) error {
	store := prefix.NewStore(k.getStore(ctx), AuditKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var record types.AuditRecord
		if err := unmarshalRecord(iterator.Value(), &record); err != nil {
			return err
		}
		if cb(record) {
			break
		}
	}
	return nil
}
