package keeper_test

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/lattice-network/lattice/testutil/keeper"
	"github.com/lattice-network/lattice/x/marketplace/types"
)

const (
	testStakeDenom   = "ulat"
	testPaymentDenom = "ulat"
	testAltDenom     = "uusd"
)

// testAddr derives a deterministic account address from a seed byte.
func testAddr(seed byte) sdk.AccAddress {
	return sdk.AccAddress(bytes.Repeat([]byte{seed}, 20))
}

// minStake returns the default minimum node stake.
func minStake() math.Int {
	return types.DefaultParams().MinNodeStake
}

// registerTestNode funds and registers an active node with the given stake.
func registerTestNode(t *testing.T, f keepertest.MarketplaceFixture, addr sdk.AccAddress, stake math.Int) {
	t.Helper()
	f.FundAccount(t, addr, sdk.NewCoins(sdk.NewCoin(testStakeDenom, stake)))
	require.NoError(t, f.Keeper.RegisterNode(f.Ctx, addr, "node-meta", stake))
}

// postTestJob funds the requester and posts a job, returning its ID.
func postTestJob(t *testing.T, f keepertest.MarketplaceFixture, requester sdk.AccAddress, amount math.Int) uint64 {
	t.Helper()
	f.FundAccount(t, requester, sdk.NewCoins(sdk.NewCoin(testPaymentDenom, amount)))

	jobID, err := f.Keeper.PostJob(
		f.Ctx,
		requester,
		types.JobDescriptor{TaskId: "task-1", InputRef: "ipfs://input"},
		types.JobRequirements{MinStake: math.ZeroInt()},
		testPaymentDenom,
		amount,
		f.Ctx.BlockTime().Add(time.Hour),
	)
	require.NoError(t, err)
	return jobID
}

// claimedTestJob posts a job and has provider claim it.
func claimedTestJob(t *testing.T, f keepertest.MarketplaceFixture, requester, provider sdk.AccAddress, amount math.Int) uint64 {
	t.Helper()
	jobID := postTestJob(t, f, requester, amount)
	require.NoError(t, f.Keeper.ClaimJob(f.Ctx, provider, jobID))
	return jobID
}
