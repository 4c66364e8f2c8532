package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// CalculateFee returns the marketplace fee for amount at the given basis
// points. Integer division floors; the remainder always goes to the payee so
// fee + payout == amount exactly.
func CalculateFee(amount math.Int, feeBasisPoints uint64) math.Int {
	return amount.MulRaw(int64(feeBasisPoints)).QuoRaw(types.FeeBasisPointDivisor)
}

// lockEscrow pulls the job payment from the requester into the module
// account and records a Locked escrow keyed by job ID.
func (k Keeper) lockEscrow(ctx context.Context, job types.Job) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if k.getStore(ctx).Has(EscrowKey(job.Id)) {
		return types.ErrDuplicateEscrow.Wrapf("job %d", job.Id)
	}

	payer, err := sdk.AccAddressFromBech32(job.Requester)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("payer: %v", err)
	}

	coins := sdk.NewCoins(sdk.NewCoin(job.PaymentDenom, job.Amount))
	spendable := k.bankKeeper.SpendableCoins(ctx, payer)
	if !spendable.IsAllGTE(coins) {
		return types.ErrInsufficientBalance.Wrapf("spendable %s, need %s", spendable, coins)
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, payer, types.ModuleName, coins); err != nil {
		return types.ErrInsufficientBalance.Wrapf("escrow transfer: %v", err)
	}

	escrow := types.Escrow{
		JobId:    job.Id,
		Payer:    job.Requester,
		Denom:    job.PaymentDenom,
		Amount:   job.Amount,
		State:    types.EscrowStateLocked,
		Fee:      math.ZeroInt(),
		LockedAt: sdkCtx.BlockTime(),
	}
	if err := k.setEscrow(ctx, escrow); err != nil {
		return err
	}

	k.appendAudit(ctx, types.AuditCategoryEscrow, formatJobID(job.Id), job.Requester, "", escrow.State.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowLocked,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(job.Id)),
			sdk.NewAttribute(types.AttributeKeyPayer, job.Requester),
			sdk.NewAttribute(types.AttributeKeyAmount, job.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, job.PaymentDenom),
		),
	)
	k.metrics.EscrowLocked.WithLabelValues(job.PaymentDenom).Add(floatAmount(job.Amount))

	return nil
}

// releaseEscrow settles a Locked escrow to payee with the fee split to the
// treasury. State is persisted before any funds move so a failed send cannot
// leave a spendable escrow behind.
func (k Keeper) releaseEscrow(ctx context.Context, jobID uint64, payee sdk.AccAddress) (payout, fee math.Int, err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	escrow, found := k.GetEscrow(ctx, jobID)
	if !found {
		return math.Int{}, math.Int{}, types.ErrEscrowNotFound.Wrapf("job %d", jobID)
	}
	if escrow.State != types.EscrowStateLocked {
		return math.Int{}, math.Int{}, types.ErrInvalidState.Wrapf("escrow for job %d already %s", jobID, escrow.State)
	}
	if k.isJobSettled(ctx, jobID) {
		return math.Int{}, math.Int{}, types.ErrInvalidState.Wrapf("job %d already settled", jobID)
	}

	fee = CalculateFee(escrow.Amount, params.FeeBasisPoints)
	if params.TreasuryAddress == "" {
		fee = math.ZeroInt()
	}
	payout = escrow.Amount.Sub(fee)

	now := sdkCtx.BlockTime()
	escrow.State = types.EscrowStateReleased
	escrow.Payee = payee.String()
	escrow.Fee = fee
	escrow.SettledAt = &now
	if err := k.setEscrow(ctx, escrow); err != nil {
		return math.Int{}, math.Int{}, err
	}
	k.markJobSettled(ctx, jobID)

	if payout.IsPositive() {
		coins := sdk.NewCoins(sdk.NewCoin(escrow.Denom, payout))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, payee, coins); err != nil {
			return math.Int{}, math.Int{}, types.ErrStorageFailed.Wrapf("payout transfer: %v", err)
		}
	}
	if fee.IsPositive() {
		treasury, addrErr := sdk.AccAddressFromBech32(params.TreasuryAddress)
		if addrErr != nil {
			return math.Int{}, math.Int{}, types.ErrInvalidAddress.Wrapf("treasury: %v", addrErr)
		}
		coins := sdk.NewCoins(sdk.NewCoin(escrow.Denom, fee))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, treasury, coins); err != nil {
			return math.Int{}, math.Int{}, types.ErrStorageFailed.Wrapf("fee transfer: %v", err)
		}
	}

	k.appendAudit(ctx, types.AuditCategoryEscrow, formatJobID(jobID), payee.String(), types.EscrowStateLocked.String(), escrow.State.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowReleased,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(jobID)),
			sdk.NewAttribute(types.AttributeKeyPayee, payee.String()),
			sdk.NewAttribute(types.AttributeKeyPayout, payout.String()),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, escrow.Denom),
		),
	)
	k.metrics.EscrowReleased.WithLabelValues(escrow.Denom).Add(floatAmount(payout))
	k.metrics.FeesCollected.WithLabelValues(escrow.Denom).Add(floatAmount(fee))

	return payout, fee, nil
}

// refundEscrow returns a Locked escrow in full to its payer.
func (k Keeper) refundEscrow(ctx context.Context, jobID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	escrow, found := k.GetEscrow(ctx, jobID)
	if !found {
		return types.ErrEscrowNotFound.Wrapf("job %d", jobID)
	}
	if escrow.State != types.EscrowStateLocked {
		return types.ErrInvalidState.Wrapf("escrow for job %d already %s", jobID, escrow.State)
	}
	if k.isJobSettled(ctx, jobID) {
		return types.ErrInvalidState.Wrapf("job %d already settled", jobID)
	}

	payer, err := sdk.AccAddressFromBech32(escrow.Payer)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("payer: %v", err)
	}

	now := sdkCtx.BlockTime()
	escrow.State = types.EscrowStateRefunded
	escrow.SettledAt = &now
	if err := k.setEscrow(ctx, escrow); err != nil {
		return err
	}
	k.markJobSettled(ctx, jobID)

	coins := sdk.NewCoins(sdk.NewCoin(escrow.Denom, escrow.Amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, payer, coins); err != nil {
		return types.ErrStorageFailed.Wrapf("refund transfer: %v", err)
	}

	k.appendAudit(ctx, types.AuditCategoryEscrow, formatJobID(jobID), escrow.Payer, types.EscrowStateLocked.String(), escrow.State.String())
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrowRefunded,
			sdk.NewAttribute(types.AttributeKeyJobID, formatJobID(jobID)),
			sdk.NewAttribute(types.AttributeKeyPayer, escrow.Payer),
			sdk.NewAttribute(types.AttributeKeyAmount, escrow.Amount.String()),
			sdk.NewAttribute(types.AttributeKeyDenom, escrow.Denom),
		),
	)
	k.metrics.EscrowRefunded.WithLabelValues(escrow.Denom).Add(floatAmount(escrow.Amount))

	return nil
}

// GetEscrow returns the escrow record for a job.
func (k Keeper) GetEscrow(ctx context.Context, jobID uint64) (types.Escrow, bool) {
	var escrow types.Escrow
	found, err := k.getJSON(ctx, EscrowKey(jobID), &escrow)
	if err != nil || !found {
		return types.Escrow{}, false
	}
	return escrow, true
}

// IterateEscrows walks all escrow records until cb returns true.
func (k Keeper) IterateEscrows(ctx context.Context, cb func(escrow types.Escrow) (stop bool)) error {
	store := prefix.NewStore(k.getStore(ctx), EscrowKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var escrow types.Escrow
		if err := unmarshalRecord(iterator.Value(), &escrow); err != nil {
			return err
		}
		if cb(escrow) {
			break
		}
	}
	return nil
}

// TotalLockedByDenom sums all Locked escrow amounts per denom.
func (k Keeper) TotalLockedByDenom(ctx context.Context) (map[string]math.Int, error) {
	totals := make(map[string]math.Int)
	err := k.IterateEscrows(ctx, func(escrow types.Escrow) bool {
		if escrow.State != types.EscrowStateLocked {
			return false
		}
		total, ok := totals[escrow.Denom]
		if !ok {
			total = math.ZeroInt()
		}
		totals[escrow.Denom] = total.Add(escrow.Amount)
		return false
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (k Keeper) setEscrow(ctx context.Context, escrow types.Escrow) error {
	return k.setJSON(ctx, EscrowKey(escrow.JobId), escrow)
}

func (k Keeper) isJobSettled(ctx context.Context, jobID uint64) bool {
	return k.getStore(ctx).Has(JobSettledKey(jobID))
}

func (k Keeper) markJobSettled(ctx context.Context, jobID uint64) {
	k.getStore(ctx).Set(JobSettledKey(jobID), []byte{1})
}

func formatJobID(jobID uint64) string {
	return strconv.FormatUint(jobID, 10)
}

// floatAmount converts a chain amount for metrics export. Precision loss is
// acceptable for monitoring.
func floatAmount(amount math.Int) float64 {
	f, _ := strconv.ParseFloat(amount.String(), 64)
	return f
}
