package keeper

import (
	"context"
	"encoding/binary"
	"time"

	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// PostJob publishes a new job and locks its payment in escrow. Returns the
// assigned job ID.
func (k Keeper) PostJob(
	ctx context.Context,
	requester sdk.AccAddress,
	descriptor types.JobDescriptor,
	requirements types.JobRequirements,
	paymentDenom string,
	amount math.Int,
	deadline time.Time,
) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if amount.IsNil() || !amount.IsPositive() {
		return 0, types.ErrZeroAmount.Wrap("payment amount")
	}
	if !deadline.After(sdkCtx.BlockTime()) {
		return 0, types.ErrInvalidDeadline.Wrapf("deadline %s is not after block time %s", deadline, sdkCtx.BlockTime())
	}
	if params.MaxJobDeadlineSeconds > 0 {
		maxDeadline := sdkCtx.BlockTime().Add(time.Duration(params.MaxJobDeadlineSeconds) * time.Second)
		if deadline.After(maxDeadline) {
			return 0, types.ErrInvalidDeadline.Wrapf("deadline exceeds maximum of %d seconds", params.MaxJobDeadlineSeconds)
		}
	}
	if requirements.MinStake.IsNil() {
		requirements.MinStake = math.ZeroInt()
	}

	jobID := k.getCounter(ctx, NextJobIDKey, 1)
	job := types.Job{
		Id:           jobID,
		Requester:    requester.String(),
		Descriptor:   descriptor,
		PaymentDenom: paymentDenom,
		Amount:       amount,
		Deadline:     deadline,
		Requirements: requirements,
		Status:       types.JobStatusPosted,
		CreatedAt:    sdkCtx.BlockTime(),
	}

	if err := k.lockEscrow(ctx, job); err != nil {
		return 0, err
	}

	if err := k.setJob(ctx, job); err != nil {
		return 0, err
	}
	k.setCounter(ctx, NextJobIDKey, jobID+1)

	store := k.getStore(ctx)
	store.Set(JobByRequesterKey(requester, jobID), []byte{1})
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{1})
	k.setDeadlineIndex(ctx, jobID, deadline)

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(jobID), job.Requester, "", job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobPosted,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(jobID)),
			sdk.NewAttribute(types.AttributeKeyRequester, job.Requester),
			sdk.NewAttribute(types.AttributeKeyTaskID, descriptor.TaskId),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, paymentDenom),
			sdk.NewAttribute(types.AttributeKeyDeadline, deadline.UTC().Format(time.RFC3339)),
		),
	)
	k.metrics.JobsPosted.Inc()
	k.metrics.JobsOpen.Inc()

	return jobID, nil
}

// ClaimJob assigns a posted job to provider. The first valid claim wins;
// later claims fail the status check.
func (k Keeper) ClaimJob(ctx context.Context, provider sdk.AccAddress, jobID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, found := k.GetJob(ctx, jobID)
	if !found {
		return types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	if !job.Status.CanTransition(types.JobStatusClaimed) {
		return types.ErrInvalidState.Wrapf("job %d is %s", jobID, job.Status)
	}
	if !sdkCtx.BlockTime().Before(job.Deadline) {
		return types.ErrDeadlineExceeded.Wrapf("job %d deadline %s", jobID, job.Deadline)
	}

	node, nodeFound := k.GetNode(ctx, provider)
	if !nodeFound || !node.Active {
		return types.ErrNotRegistered.Wrap(provider.String())
	}
	if node.Stake.LT(job.Requirements.MinStake) {
		return types.ErrInsufficientStake.Wrapf("job %d requires %s, node has %s", jobID, job.Requirements.MinStake, node.Stake)
	}
	if job.Requirements.MinReputation > 0 {
		rep := k.GetReputation(ctx, provider)
		if rep.Score < job.Requirements.MinReputation {
			return types.ErrValidationFailed.Wrapf("job %d requires reputation %d, node has %d", jobID, job.Requirements.MinReputation, rep.Score)
		}
	}

	now := sdkCtx.BlockTime()
	prevStatus := job.Status
	job.Provider = provider.String()
	job.Status = types.JobStatusClaimed
	job.ClaimedAt = &now
	if err := k.setJob(ctx, job); err != nil {
		return err
	}

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(prevStatus), jobID))
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{1})
	store.Set(JobByProviderKey(provider, jobID), []byte{1})

	// The completion window may tighten the settlement deadline.
	k.setDeadlineIndex(ctx, jobID, job.ExpiryTime())

	if err := k.adjustActiveJobs(ctx, provider, 1); err != nil {
		return err
	}

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(jobID), job.Provider, prevStatus.String(), job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobClaimed,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(jobID)),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
		),
	)
	k.metrics.JobsClaimed.WithLabelValues(job.Provider).Inc()

	return nil
}

// CompleteJob settles a claimed job on behalf of its provider. When the job
// requires a proof the verifier must accept it before any state changes.
func (k Keeper) CompleteJob(ctx context.Context, caller sdk.AccAddress, jobID uint64, resultRef string, proof []byte) (payout, fee math.Int, err error) {
	job, found := k.GetJob(ctx, jobID)
	if !found {
		return math.Int{}, math.Int{}, types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	if job.Provider != caller.String() {
		return math.Int{}, math.Int{}, types.ErrUnauthorized.Wrapf("job %d belongs to %s", jobID, job.Provider)
	}
	return k.completeJob(ctx, job, caller, resultRef, proof)
}

// CompleteJobByProofSystem settles a claimed job through the configured
// proof-system authority, paying out to the job's assigned provider.
func (k Keeper) CompleteJobByProofSystem(ctx context.Context, caller sdk.AccAddress, jobID uint64, resultRef string, proof []byte) (payout, fee math.Int, err error) {
	params := k.GetParams(ctx)
	if params.ProofAuthority == "" || caller.String() != params.ProofAuthority {
		return math.Int{}, math.Int{}, types.ErrUnauthorized.Wrap("caller is not the proof authority")
	}

	job, found := k.GetJob(ctx, jobID)
	if !found {
		return math.Int{}, math.Int{}, types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	if job.Provider == "" {
		return math.Int{}, math.Int{}, types.ErrNoAssignedPayee.Wrapf("job %d", jobID)
	}
	provider, err := sdk.AccAddressFromBech32(job.Provider)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrInvalidAddress.Wrapf("provider: %v", err)
	}
	return k.completeJob(ctx, job, provider, resultRef, proof)
}

func (k Keeper) completeJob(ctx context.Context, job types.Job, provider sdk.AccAddress, resultRef string, proof []byte) (payout, fee math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if !job.Status.CanTransition(types.JobStatusCompleted) {
		return math.Int{}, math.Int{}, types.ErrInvalidState.Wrapf("job %d is %s", job.Id, job.Status)
	}

	if job.Requirements.RequiresProof {
		if k.verifier == nil {
			return math.Int{}, math.Int{}, types.ErrProofVerificationFailed.Wrap("no proof verifier configured")
		}
		ok, verr := k.verifier.Verify(ctx, job.Id, provider, resultRef, proof)
		if verr != nil {
			k.metrics.ProofsRejected.WithLabelValues("error").Inc()
			return math.Int{}, math.Int{}, types.ErrProofVerificationFailed.Wrapf("job %d: %v", job.Id, verr)
		}
		if !ok {
			k.metrics.ProofsRejected.WithLabelValues("invalid").Inc()
			sdkCtx.EventManager().EmitEvent(
				sdk.NewEvent(
					types.EventTypeProofRejected,
					sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
					sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
				),
			)
			return math.Int{}, math.Int{}, types.ErrProofVerificationFailed.Wrapf("job %d", job.Id)
		}
		k.metrics.ProofsVerified.Inc()
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeProofVerified,
				sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
				sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			),
		)
	}

	now := sdkCtx.BlockTime()
	prevStatus := job.Status
	job.Status = types.JobStatusCompleted
	job.ResultRef = resultRef
	job.CompletedAt = &now
	if err := k.setJob(ctx, job); err != nil {
		return math.Int{}, math.Int{}, err
	}

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(prevStatus), job.Id))
	store.Set(JobByStatusKey(uint32(job.Status), job.Id), []byte{1})
	k.removeDeadlineIndex(ctx, job.Id)

	if err := k.adjustActiveJobs(ctx, provider, -1); err != nil {
		return math.Int{}, math.Int{}, err
	}

	payout, fee, err = k.releaseEscrow(ctx, job.Id, provider)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.recordSuccess(ctx, provider)

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(job.Id), provider.String(), prevStatus.String(), job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCompleted,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyResultRef, resultRef),
			sdk.NewAttribute(types.AttributeKeyPayout, payout.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
		),
	)
	k.metrics.JobsCompleted.WithLabelValues(provider.String()).Inc()
	k.metrics.JobsOpen.Dec()

	if k.hooks != nil {
		if err := k.hooks.AfterJobCompleted(ctx, job.Id, provider, payout); err != nil {
			sdkCtx.Logger().Error("job completion hook failed", "job_id", job.Id, "error", err)
		}
	}

	return payout, fee, nil
}

// CancelJob withdraws an unclaimed job. Only the requester may cancel, and
// only while the job is still Posted.
func (k Keeper) CancelJob(ctx context.Context, requester sdk.AccAddress, jobID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, found := k.GetJob(ctx, jobID)
	if !found {
		return types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	if job.Requester != requester.String() {
		return types.ErrUnauthorized.Wrapf("job %d belongs to %s", jobID, job.Requester)
	}
	if !job.Status.CanTransition(types.JobStatusCancelled) {
		return types.ErrInvalidState.Wrapf("job %d is %s", jobID, job.Status)
	}

	prevStatus := job.Status
	job.Status = types.JobStatusCancelled
	if err := k.setJob(ctx, job); err != nil {
		return err
	}

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(prevStatus), jobID))
	store.Set(JobByStatusKey(uint32(job.Status), jobID), []byte{1})
	k.removeDeadlineIndex(ctx, jobID)

	if err := k.refundEscrow(ctx, jobID); err != nil {
		return err
	}

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(jobID), job.Requester, prevStatus.String(), job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobCancelled,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(jobID)),
			sdk.NewAttribute(types.AttributeKeyRequester, job.Requester),
		),
	)
	k.metrics.JobsCancelled.Inc()
	k.metrics.JobsOpen.Dec()

	return nil
}

// ExpireJob settles an overdue claimed job: the requester is refunded and
// the provider takes a reputation failure. Callable by anyone once the
// job's expiry time has passed.
func (k Keeper) ExpireJob(ctx context.Context, caller sdk.AccAddress, jobID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	job, found := k.GetJob(ctx, jobID)
	if !found {
		return types.ErrJobNotFound.Wrapf("job %d", jobID)
	}
	if !job.Status.CanTransition(types.JobStatusExpired) {
		return types.ErrInvalidState.Wrapf("job %d is %s", jobID, job.Status)
	}
	if sdkCtx.BlockTime().Before(job.ExpiryTime()) {
		return types.ErrInvalidState.Wrapf("job %d expiry %s has not passed", jobID, job.ExpiryTime())
	}

	return k.expireClaimedJob(ctx, job, caller.String())
}

// expireClaimedJob performs the Claimed -> Expired transition. Shared by the
// permissionless message path and the end-block sweep.
func (k Keeper) expireClaimedJob(ctx context.Context, job types.Job, actor string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	provider, err := sdk.AccAddressFromBech32(job.Provider)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("provider: %v", err)
	}

	prevStatus := job.Status
	job.Status = types.JobStatusExpired
	if err := k.setJob(ctx, job); err != nil {
		return err
	}

	store := k.getStore(ctx)
	store.Delete(JobByStatusKey(uint32(prevStatus), job.Id))
	store.Set(JobByStatusKey(uint32(job.Status), job.Id), []byte{1})
	k.removeDeadlineIndex(ctx, job.Id)

	if err := k.adjustActiveJobs(ctx, provider, -1); err != nil {
		return err
	}

	if err := k.refundEscrow(ctx, job.Id); err != nil {
		return err
	}

	k.recordFailure(ctx, provider)

	k.appendAudit(ctx, types.AuditCategoryJob, formatJobID(job.Id), actor, prevStatus.String(), job.Status.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeJobExpired,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
			sdk.NewAttribute(types.AttributeKeyProvider, job.Provider),
			sdk.NewAttribute(types.AttributeKeyActor, actor),
		),
	)
	k.metrics.JobsExpired.Inc()
	k.metrics.JobsOpen.Dec()

	if k.hooks != nil {
		if err := k.hooks.AfterJobFailed(ctx, job.Id, provider, "deadline exceeded"); err != nil {
			sdkCtx.Logger().Error("job failure hook failed", "job_id", job.Id, "error", err)
		}
	}

	return nil
}

// GetJob returns the job record for jobID.
func (k Keeper) GetJob(ctx context.Context, jobID uint64) (types.Job, bool) {
	var job types.Job
	found, err := k.getJSON(ctx, JobKey(jobID), &job)
	if err != nil || !found {
		return types.Job{}, false
	}
	return job, true
}

// GetJobsByStatus returns all jobs currently in the given status.
func (k Keeper) GetJobsByStatus(ctx context.Context, status types.JobStatus) ([]types.Job, error) {
	var jobs []types.Job
	statusBz := make([]byte, 4)
	binary.BigEndian.PutUint32(statusBz, uint32(status))
	store := prefix.NewStore(k.getStore(ctx), append(JobsByStatusPrefix, statusBz...))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		jobID := binary.BigEndian.Uint64(iterator.Key())
		job, found := k.GetJob(ctx, jobID)
		if !found {
			return nil, types.ErrStorageFailed.Wrapf("status index references unknown job %d", jobID)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// GetJobsByRequester returns all jobs posted by requester.
func (k Keeper) GetJobsByRequester(ctx context.Context, requester sdk.AccAddress) ([]types.Job, error) {
	return k.jobsByAddressIndex(ctx, JobsByRequesterPrefix, requester)
}

// GetJobsByProvider returns all jobs ever claimed by provider.
func (k Keeper) GetJobsByProvider(ctx context.Context, provider sdk.AccAddress) ([]types.Job, error) {
	return k.jobsByAddressIndex(ctx, JobsByProviderPrefix, provider)
}

func (k Keeper) jobsByAddressIndex(ctx context.Context, indexPrefix []byte, addr sdk.AccAddress) ([]types.Job, error) {
	var jobs []types.Job
	store := prefix.NewStore(k.getStore(ctx), append(indexPrefix, addr.Bytes()...))
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		jobID := binary.BigEndian.Uint64(iterator.Key())
		job, found := k.GetJob(ctx, jobID)
		if !found {
			return nil, types.ErrStorageFailed.Wrapf("address index references unknown job %d", jobID)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// IterateJobs walks all job records until cb returns true.
func (k Keeper) IterateJobs(ctx context.Context, cb func(job types.Job) (stop bool)) error {
	store := prefix.NewStore(k.getStore(ctx), JobKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var job types.Job
		if err := unmarshalRecord(iterator.Value(), &job); err != nil {
			return err
		}
		if cb(job) {
			break
		}
	}
	return nil
}

// GetNextJobID returns the ID the next posted job will receive.
func (k Keeper) GetNextJobID(ctx context.Context) uint64 {
	return k.getCounter(ctx, NextJobIDKey, 1)
}

func (k Keeper) setJob(ctx context.Context, job types.Job) error {
	return k.setJSON(ctx, JobKey(job.Id), job)
}

// setDeadlineIndex (re)indexes a job under its settlement deadline, clearing
// any previous entry via the reverse index.
func (k Keeper) setDeadlineIndex(ctx context.Context, jobID uint64, deadline time.Time) {
	store := k.getStore(ctx)

	k.removeDeadlineIndex(ctx, jobID)

	nanos := deadline.UnixNano()
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	store.Set(JobDeadlineKey(nanos, jobID), idBz)

	tsBz := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBz, uint64(nanos))
	store.Set(JobDeadlineReverseKey(jobID), tsBz)
}

func (k Keeper) removeDeadlineIndex(ctx context.Context, jobID uint64) {
	store := k.getStore(ctx)
	revKey := JobDeadlineReverseKey(jobID)
	tsBz := store.Get(revKey)
	if tsBz == nil {
		return
	}
	nanos := int64(binary.BigEndian.Uint64(tsBz))
	store.Delete(JobDeadlineKey(nanos, jobID))
	store.Delete(revKey)
}
