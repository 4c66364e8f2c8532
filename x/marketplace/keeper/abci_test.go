package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/lattice-network/lattice/testutil/keeper"
	"github.com/lattice-network/lattice/x/marketplace/types"
)

// TestEndBlocker_ExpiresOverdueClaimedJobs tests the deadline sweep
func TestEndBlocker_ExpiresOverdueClaimedJobs(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())
	amount := math.NewInt(5000)
	jobID := claimedTestJob(t, f, requester, provider, amount)

	// Before the deadline nothing happens.
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))
	job, _ := f.Keeper.GetJob(f.Ctx, jobID)
	require.Equal(t, types.JobStatusClaimed, job.Status)

	// After the deadline the job expires with a refund.
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(2 * time.Hour))
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	job, _ = f.Keeper.GetJob(f.Ctx, jobID)
	require.Equal(t, types.JobStatusExpired, job.Status)
	require.Equal(t, amount, f.BankKeeper.GetBalance(f.Ctx, requester, testPaymentDenom).Amount)

	rep := f.Keeper.GetReputation(f.Ctx, provider)
	require.Equal(t, uint64(1), rep.FailureCount)
}

// TestEndBlocker_CancelsOverduePostedJobs tests unclaimed job cleanup
func TestEndBlocker_CancelsOverduePostedJobs(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	requester := testAddr(0x01)
	amount := math.NewInt(5000)
	jobID := postTestJob(t, f, requester, amount)

	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(2 * time.Hour))
	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	job, _ := f.Keeper.GetJob(f.Ctx, jobID)
	require.Equal(t, types.JobStatusCancelled, job.Status)

	escrow, _ := f.Keeper.GetEscrow(f.Ctx, jobID)
	require.Equal(t, types.EscrowStateRefunded, escrow.State)
	require.Equal(t, amount, f.BankKeeper.GetBalance(f.Ctx, requester, testPaymentDenom).Amount)
}

// TestEndBlocker_LeavesFutureJobsAlone tests sweep selectivity
func TestEndBlocker_LeavesFutureJobsAlone(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())

	overdue := claimedTestJob(t, f, requester, provider, math.NewInt(1000))

	// A second job posted later with a fresh deadline.
	f.Ctx = f.Ctx.WithBlockTime(f.Ctx.BlockTime().Add(90 * time.Minute))
	fresh := postTestJob(t, f, requester, math.NewInt(1000))

	require.NoError(t, f.Keeper.EndBlocker(f.Ctx))

	job, _ := f.Keeper.GetJob(f.Ctx, overdue)
	require.Equal(t, types.JobStatusExpired, job.Status)
	job, _ = f.Keeper.GetJob(f.Ctx, fresh)
	require.Equal(t, types.JobStatusPosted, job.Status)
}
