package keeper

import (
	"context"
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// maxDeadlineSweepPerBlock bounds the end-block settlement work so one block
// with a deadline pileup cannot stall consensus.
const maxDeadlineSweepPerBlock = 100

// EndBlocker is called at the end of every block. It settles jobs whose
// deadline has passed: overdue claimed jobs expire with a refund and a
// reputation failure, overdue posted jobs are cancelled with a refund.
// Failures are logged and never halt the block.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := k.processOverdueJobs(ctx); err != nil {
		sdkCtx.Logger().Error("failed to process overdue jobs", "error", err)
	}

	return nil
}

// processOverdueJobs scans the deadline index up to the current block time.
func (k Keeper) processOverdueJobs(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	store := k.getStore(ctx)
	now := sdkCtx.BlockTime().UnixNano()

	// End key covers every deadline <= now for any job ID.
	endTs := make([]byte, 8)
	binary.BigEndian.PutUint64(endTs, uint64(now)+1)
	end := append(append([]byte{}, JobDeadlinePrefix...), endTs...)

	iterator := store.Iterator(JobDeadlinePrefix, end)

	var overdue []uint64
	for ; iterator.Valid() && len(overdue) < maxDeadlineSweepPerBlock; iterator.Next() {
		overdue = append(overdue, binary.BigEndian.Uint64(iterator.Value()))
	}
	iterator.Close()

	for _, jobID := range overdue {
		job, found := k.GetJob(ctx, jobID)
		if !found {
			k.removeDeadlineIndex(ctx, jobID)
			sdkCtx.Logger().Error("deadline index references unknown job", "job_id", jobID)
			continue
		}

		switch job.Status {
		case types.JobStatusClaimed:
			if err := k.expireClaimedJob(ctx, job, types.ModuleName); err != nil {
				sdkCtx.Logger().Error("failed to expire overdue job", "job_id", jobID, "error", err)
			}
		case types.JobStatusPosted:
			if err := k.cancelOverduePostedJob(ctx, job); err != nil {
				sdkCtx.Logger().Error("failed to cancel overdue posted job", "job_id", jobID, "error", err)
			}
		default:
			// Terminal job left a stale index entry behind.
			k.removeDeadlineIndex(ctx, jobID)
		}
	}

	return nil
}

// cancelOverduePostedJob refunds a posted job that nobody claimed before its
// deadline. No reputation change: no provider was involved.
func (k Keeper) cancelOverduePostedJob(ctx context.Context, job types.Job) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	prevStatus := job.Status
	job.Status = types.JobStatusCancelled
	if err := k.setJob(ctx, job); err != nil {
		return err
	}

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(prevStatus), job.Id))
	store.Set(JobByStatusKey(uint32(job.Status), job.Id), []byte{1})
	k.removeDeadlineIndex(ctx, job.Id)

	if err := k.refundEscrow(ctx, job.Id); err != nil {
		return err
	}

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(job.Id), types.ModuleName, prevStatus.String(), job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCancelled,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
			sdk.NewAttribute(types.AttributeKeyRequester, job.Requester),
			sdk.NewAttribute(types.AttributeKeyReason, "deadline passed unclaimed"),
		),
	)
	k.metrics.JobsCancelled.Inc()
	k.metrics.JobsOpen.Dec()

	return nil
}
