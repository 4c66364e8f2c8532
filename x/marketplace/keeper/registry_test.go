package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/lattice-network/lattice/testutil/keeper"
	"github.com/lattice-network/lattice/x/marketplace/types"
)

// TestRegisterNode_Valid tests successful node registration
func TestRegisterNode_Valid(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	stake := minStake()

	f.FundAccount(t, addr, sdk.NewCoins(sdk.NewCoin(testStakeDenom, stake)))
	require.NoError(t, f.Keeper.RegisterNode(f.Ctx, addr, "gpu-node", stake))

	node, found := f.Keeper.GetNode(f.Ctx, addr)
	require.True(t, found)
	require.True(t, node.Active)
	require.Equal(t, "gpu-node", node.Metadata)
	require.Equal(t, stake, node.Stake)
	require.Zero(t, node.ActiveJobs)
	require.True(t, f.Keeper.IsNodeActive(f.Ctx, addr))
	require.Equal(t, uint64(1), f.Keeper.GetActiveNodeCount(f.Ctx))

	// Stake moved into the module account.
	require.Equal(t, stake, f.ModuleBalance(testStakeDenom))
	require.True(t, f.BankKeeper.GetBalance(f.Ctx, addr, testStakeDenom).Amount.IsZero())
}

// TestRegisterNode_BelowMinimum tests rejection of stake below the minimum
func TestRegisterNode_BelowMinimum(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	stake := minStake().SubRaw(1)

	f.FundAccount(t, addr, sdk.NewCoins(sdk.NewCoin(testStakeDenom, stake)))
	err := f.Keeper.RegisterNode(f.Ctx, addr, "", stake)
	require.ErrorIs(t, err, types.ErrInsufficientStake)
}

// TestRegisterNode_InsufficientBalance tests rejection when funds are missing
func TestRegisterNode_InsufficientBalance(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)

	err := f.Keeper.RegisterNode(f.Ctx, addr, "", minStake())
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	_, found := f.Keeper.GetNode(f.Ctx, addr)
	require.False(t, found)
}

// TestRegisterNode_Duplicate tests rejection of double registration
func TestRegisterNode_Duplicate(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	registerTestNode(t, f, addr, minStake())

	f.FundAccount(t, addr, sdk.NewCoins(sdk.NewCoin(testStakeDenom, minStake())))
	err := f.Keeper.RegisterNode(f.Ctx, addr, "", minStake())
	require.ErrorIs(t, err, types.ErrAlreadyRegistered)
}

// TestAddStake_Monotonic tests that stake only increases through AddStake
func TestAddStake_Monotonic(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	registerTestNode(t, f, addr, minStake())

	extra := math.NewInt(500)
	f.FundAccount(t, addr, sdk.NewCoins(sdk.NewCoin(testStakeDenom, extra)))
	newStake, err := f.Keeper.AddStake(f.Ctx, addr, extra)
	require.NoError(t, err)
	require.Equal(t, minStake().Add(extra), newStake)
	require.Equal(t, newStake, f.Keeper.GetNodeStake(f.Ctx, addr))

	_, err = f.Keeper.AddStake(f.Ctx, addr, math.NewInt(-5))
	require.ErrorIs(t, err, types.ErrZeroAmount)
	_, err = f.Keeper.AddStake(f.Ctx, addr, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrZeroAmount)
	require.Equal(t, newStake, f.Keeper.GetNodeStake(f.Ctx, addr))
}

// TestAddStake_NotRegistered tests staking without a registration
func TestAddStake_NotRegistered(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	_, err := f.Keeper.AddStake(f.Ctx, testAddr(0x01), math.NewInt(100))
	require.ErrorIs(t, err, types.ErrNotRegistered)
}

// TestUnregisterNode_ReturnsStake tests deactivation with full stake return
func TestUnregisterNode_ReturnsStake(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	registerTestNode(t, f, addr, minStake())

	returned, err := f.Keeper.UnregisterNode(f.Ctx, addr)
	require.NoError(t, err)
	require.Equal(t, minStake(), returned)

	node, found := f.Keeper.GetNode(f.Ctx, addr)
	require.True(t, found)
	require.False(t, node.Active)
	require.True(t, node.Stake.IsZero())
	require.False(t, f.Keeper.IsNodeActive(f.Ctx, addr))
	require.Zero(t, f.Keeper.GetActiveNodeCount(f.Ctx))
	require.Equal(t, minStake(), f.BankKeeper.GetBalance(f.Ctx, addr, testStakeDenom).Amount)
	require.True(t, f.ModuleBalance(testStakeDenom).IsZero())
}

// TestUnregisterNode_BlockedByClaimedJobs tests the frozen-stake policy
func TestUnregisterNode_BlockedByClaimedJobs(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	provider := testAddr(0x01)
	requester := testAddr(0x02)
	registerTestNode(t, f, provider, minStake())

	jobID := claimedTestJob(t, f, requester, provider, math.NewInt(50_000))

	_, err := f.Keeper.UnregisterNode(f.Ctx, provider)
	require.ErrorIs(t, err, types.ErrNodeBusy)

	// Settling the job unblocks unregistration.
	_, _, err = f.Keeper.CompleteJob(f.Ctx, provider, jobID, "ipfs://result", nil)
	require.NoError(t, err)

	_, err = f.Keeper.UnregisterNode(f.Ctx, provider)
	require.NoError(t, err)
}

// TestUpdateMetadata tests metadata replacement
func TestUpdateMetadata(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	registerTestNode(t, f, addr, minStake())

	require.NoError(t, f.Keeper.UpdateMetadata(f.Ctx, addr, "updated"))
	node, _ := f.Keeper.GetNode(f.Ctx, addr)
	require.Equal(t, "updated", node.Metadata)

	err := f.Keeper.UpdateMetadata(f.Ctx, testAddr(0x02), "x")
	require.ErrorIs(t, err, types.ErrNotRegistered)
}

// TestEmergencyWithdraw tests the authority-only forced stake return
func TestEmergencyWithdraw(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	addr := testAddr(0x01)
	registerTestNode(t, f, addr, minStake())

	_, err := f.Keeper.EmergencyWithdraw(f.Ctx, testAddr(0x09).String(), addr)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	amount, err := f.Keeper.EmergencyWithdraw(f.Ctx, f.Authority, addr)
	require.NoError(t, err)
	require.Equal(t, minStake(), amount)

	node, _ := f.Keeper.GetNode(f.Ctx, addr)
	require.False(t, node.Active)
	require.True(t, node.Stake.IsZero())
	require.Equal(t, minStake(), f.BankKeeper.GetBalance(f.Ctx, addr, testStakeDenom).Amount)
}

// TestGetAllActiveNodes tests the active node index
func TestGetAllActiveNodes(t *testing.T) {
	f := keepertest.MarketplaceKeeper(t)
	for seed := byte(0x01); seed <= 0x03; seed++ {
		registerTestNode(t, f, testAddr(seed), minStake())
	}
	_, err := f.Keeper.UnregisterNode(f.Ctx, testAddr(0x02))
	require.NoError(t, err)

	nodes, err := f.Keeper.GetAllActiveNodes(f.Ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, node := range nodes {
		require.True(t, node.Active)
		require.NotEqual(t, testAddr(0x02).String(), node.Address)
	}
}
