package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/lattice-network/lattice/testutil/keeper"
	"github.com/lattice-network/lattice/x/marketplace/keeper"
	"github.com/lattice-network/lattice/x/marketplace/types"
)

// TestQueryServer_NodeAndJob tests point lookups and not-found handling
func TestQueryServer_NodeAndJob(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())
	jobID := postTestJob(t, f, requester, math.NewInt(1000))

	nodeResp, err := qs.Node(f.Ctx, &types.QueryNodeRequest{Address: provider.String()})
	require.NoError(t, err)
	require.Equal(t, provider.String(), nodeResp.Node.Address)
	require.Equal(t, minStake(), nodeResp.Node.Stake)

	_, err = qs.Node(f.Ctx, &types.QueryNodeRequest{Address: testAddr(0x09).String()})
	require.ErrorIs(t, err, types.ErrNotRegistered)

	jobResp, err := qs.Job(f.Ctx, &types.QueryJobRequest{JobId: jobID})
	require.NoError(t, err)
	require.Equal(t, types.JobStatusPosted, jobResp.Job.Status)

	_, err = qs.Job(f.Ctx, &types.QueryJobRequest{JobId: 999})
	require.ErrorIs(t, err, types.ErrJobNotFound)
}

// TestQueryServer_JobsByStatus tests the status index query
func TestQueryServer_JobsByStatus(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())

	postTestJob(t, f, requester, math.NewInt(1000))
	claimedTestJob(t, f, requester, provider, math.NewInt(1000))

	posted, err := qs.JobsByStatus(f.Ctx, &types.QueryJobsByStatusRequest{Status: types.JobStatusPosted})
	require.NoError(t, err)
	require.Len(t, posted.Jobs, 1)

	claimed, err := qs.JobsByStatus(f.Ctx, &types.QueryJobsByStatusRequest{Status: types.JobStatusClaimed})
	require.NoError(t, err)
	require.Len(t, claimed.Jobs, 1)
}

// TestQueryServer_VaultBalance tests the balance breakdown query
func TestQueryServer_VaultBalance(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())

	amount := math.NewInt(10_000)
	claimedTestJob(t, f, requester, provider, amount)

	resp, err := qs.VaultBalance(f.Ctx, &types.QueryVaultBalanceRequest{Denom: testStakeDenom})
	require.NoError(t, err)
	require.Equal(t, amount, resp.LockedEscrow)
	require.Equal(t, minStake(), resp.NodeStake)
	require.Equal(t, resp.LockedEscrow.Add(resp.NodeStake), resp.Balance)
}

// TestQueryServer_NilRequests tests the empty-request guard
func TestQueryServer_NilRequests(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	qs := keeper.NewQueryServerImpl(*f.Keeper)

	_, err := qs.Params(f.Ctx, nil)
	require.ErrorIs(t, err, types.ErrValidationFailed)
	_, err = qs.Node(f.Ctx, nil)
	require.ErrorIs(t, err, types.ErrValidationFailed)
	_, err = qs.VaultBalance(f.Ctx, nil)
	require.ErrorIs(t, err, types.ErrValidationFailed)
}
