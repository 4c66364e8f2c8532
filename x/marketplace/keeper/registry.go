package keeper

import (
	"context"

	"cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// RegisterNode registers addr as a compute node, pulling the initial stake
// into the module account. The stake must meet the configured minimum.
func (k Keeper) RegisterNode(ctx context.Context, addr sdk.AccAddress, metadata string, stake math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if existing, found := k.GetNode(ctx, addr); found && existing.Active {
		return types.ErrAlreadyRegistered.Wrap(addr.String())
	}

	if stake.IsNil() || !stake.IsPositive() {
		return types.ErrZeroAmount.Wrap("stake")
	}
	if stake.LT(params.MinNodeStake) {
		return types.ErrInsufficientStake.Wrapf("got %s, need %s%s", stake, params.MinNodeStake, params.StakeDenom)
	}

	stakeCoins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, stake))
	spendable := k.bankKeeper.SpendableCoins(ctx, addr)
	if !spendable.IsAllGTE(stakeCoins) {
		return types.ErrInsufficientBalance.Wrapf("spendable %s, need %s", spendable, stakeCoins)
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, stakeCoins); err != nil {
		return types.ErrInsufficientBalance.Wrapf("stake transfer: %v", err)
	}

	node := types.Node{
		Address:      addr.String(),
		Metadata:     metadata,
		Stake:        stake,
		Active:       true,
		ActiveJobs:   0,
		RegisteredAt: sdkCtx.BlockTime(),
		UpdatedAt:    sdkCtx.BlockTime(),
	}
	if err := k.setNode(ctx, addr, node); err != nil {
		return err
	}
	k.getStore(ctx).Set(ActiveNodeKey(addr), []byte{1})
	k.setCounter(ctx, ActiveNodeCountKey, k.getCounter(ctx, ActiveNodeCountKey, 0)+1)

	k.appendAudit(ctx, types.AuditCategoryNode, addr.String(), addr.String(), "", "active")
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNodeRegistered,
			sdk.NewAttribute(types.AttributeKeyNode, addr.String()),
			sdk.NewAttribute(types.AttributeKeyStake, stake.String()),
		),
	)
	k.metrics.NodesRegistered.Inc()
	k.metrics.NodesActive.Set(float64(k.getCounter(ctx, ActiveNodeCountKey, 0)))

	if k.hooks != nil {
		if err := k.hooks.AfterNodeRegistered(ctx, addr, stake); err != nil {
			sdkCtx.Logger().Error("node registration hook failed", "node", addr.String(), "error", err)
		}
	}

	return nil
}

// AddStake adds collateral to an already registered node. Stake only moves
// upward here; the sole paths down are unregistration and emergency withdrawal.
func (k Keeper) AddStake(ctx context.Context, addr sdk.AccAddress, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	node, found := k.GetNode(ctx, addr)
	if !found || !node.Active {
		return math.Int{}, types.ErrNotRegistered.Wrap(addr.String())
	}

	if amount.IsNil() || !amount.IsPositive() {
		return math.Int{}, types.ErrZeroAmount.Wrap("stake amount")
	}

	stakeCoins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, stakeCoins); err != nil {
		return math.Int{}, types.ErrInsufficientBalance.Wrapf("stake transfer: %v", err)
	}

	node.Stake = node.Stake.Add(amount)
	node.UpdatedAt = sdkCtx.BlockTime()
	if err := k.setNode(ctx, addr, node); err != nil {
		return math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNodeStaked,
			sdk.NewAttribute(types.AttributeKeyNode, addr.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyStake, node.Stake.String()),
		),
	)

	return node.Stake, nil
}

// UnregisterNode deactivates a node and returns its full stake. A node with
// outstanding claimed jobs cannot leave; its stake stays frozen until those
// jobs settle.
func (k Keeper) UnregisterNode(ctx context.Context, addr sdk.AccAddress) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	node, found := k.GetNode(ctx, addr)
	if !found || !node.Active {
		return math.Int{}, types.ErrNotRegistered.Wrap(addr.String())
	}
	if node.ActiveJobs > 0 {
		return math.Int{}, types.ErrNodeBusy.Wrapf("%s has %d claimed jobs", addr, node.ActiveJobs)
	}

	returned := node.Stake
	node.Active = false
	node.Stake = math.ZeroInt()
	node.UpdatedAt = sdkCtx.BlockTime()
	if err := k.setNode(ctx, addr, node); err != nil {
		return math.Int{}, err
	}
	k.getStore(ctx).Delete(ActiveNodeKey(addr))
	k.decrementActiveNodeCount(ctx)

	if returned.IsPositive() {
		stakeCoins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, returned))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, stakeCoins); err != nil {
			return math.Int{}, types.ErrStorageFailed.Wrapf("stake return: %v", err)
		}
	}

	k.appendAudit(ctx, types.AuditCategoryNode, addr.String(), addr.String(), "active", "unregistered")
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNodeUnregistered,
			sdk.NewAttribute(types.AttributeKeyNode, addr.String()),
			sdk.NewAttribute(types.AttributeKeyStake, returned.String()),
		),
	)
	k.metrics.NodesUnregistered.Inc()
	k.metrics.NodesActive.Set(float64(k.getCounter(ctx, ActiveNodeCountKey, 0)))

	return returned, nil
}

// UpdateMetadata replaces a node's metadata string.
func (k Keeper) UpdateMetadata(ctx context.Context, addr sdk.AccAddress, metadata string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	node, found := k.GetNode(ctx, addr)
	if !found || !node.Active {
		return types.ErrNotRegistered.Wrap(addr.String())
	}

	node.Metadata = metadata
	node.UpdatedAt = sdkCtx.BlockTime()
	if err := k.setNode(ctx, addr, node); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeNodeMetadataUpdate,
			sdk.NewAttribute(types.AttributeKeyNode, addr.String()),
		),
	)

	return nil
}

// EmergencyWithdraw force-returns a single node's stake and deactivates it.
// Authority only. Outstanding claimed jobs do not block the withdrawal; the
// escrow refund path still settles those jobs independently.
func (k Keeper) EmergencyWithdraw(ctx context.Context, authority string, addr sdk.AccAddress) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if authority != k.authority {
		return math.Int{}, types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}

	node, found := k.GetNode(ctx, addr)
	if !found {
		return math.Int{}, types.ErrNotRegistered.Wrap(addr.String())
	}

	returned := node.Stake
	wasActive := node.Active
	node.Active = false
	node.Stake = math.ZeroInt()
	node.UpdatedAt = sdkCtx.BlockTime()
	if err := k.setNode(ctx, addr, node); err != nil {
		return math.Int{}, err
	}
	if wasActive {
		k.getStore(ctx).Delete(ActiveNodeKey(addr))
		k.decrementActiveNodeCount(ctx)
	}

	if returned.IsPositive() {
		stakeCoins := sdk.NewCoins(sdk.NewCoin(params.StakeDenom, returned))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, stakeCoins); err != nil {
			return math.Int{}, types.ErrStorageFailed.Wrapf("stake return: %v", err)
		}
	}

	k.appendAudit(ctx, types.AuditCategoryAdmin, addr.String(), authority, "active", "emergency_withdrawn")
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEmergencyWithdraw,
			sdk.NewAttribute(types.AttributeKeyNode, addr.String()),
			sdk.NewAttribute(types.AttributeKeyAuthority, authority),
			sdk.NewAttribute(types.AttributeKeyAmount, returned.String()),
		),
	)
	k.metrics.NodesActive.Set(float64(k.getCounter(ctx, ActiveNodeCountKey, 0)))

	return returned, nil
}

// GetNode returns the node record for addr.
func (k Keeper) GetNode(ctx context.Context, addr sdk.AccAddress) (types.Node, bool) {
	var node types.Node
	found, err := k.getJSON(ctx, NodeKey(addr), &node)
	if err != nil || !found {
		return types.Node{}, false
	}
	return node, true
}

// GetNodeStake returns the staked amount for addr, zero if unknown.
func (k Keeper) GetNodeStake(ctx context.Context, addr sdk.AccAddress) math.Int {
	node, found := k.GetNode(ctx, addr)
	if !found {
		return math.ZeroInt()
	}
	return node.Stake
}

// IsNodeActive reports whether addr is an active registered node.
func (k Keeper) IsNodeActive(ctx context.Context, addr sdk.AccAddress) bool {
	return k.getStore(ctx).Has(ActiveNodeKey(addr))
}

// GetAllActiveNodes returns every active node record.
func (k Keeper) GetAllActiveNodes(ctx context.Context) ([]types.Node, error) {
	var nodes []types.Node
	store := prefix.NewStore(k.getStore(ctx), ActiveNodesPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		addr := sdk.AccAddress(iterator.Key())
		node, found := k.GetNode(ctx, addr)
		if !found {
			return nil, types.ErrStorageFailed.Wrapf("active index references unknown node %s", addr)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// GetActiveNodeCount returns the number of active nodes without iterating.
func (k Keeper) GetActiveNodeCount(ctx context.Context) uint64 {
	return k.getCounter(ctx, ActiveNodeCountKey, 0)
}

// iterateNodes walks every node record, active or not, until cb returns true.
func (k Keeper) iterateNodes(ctx context.Context, cb func(node types.Node) (stop bool)) error {
	store := prefix.NewStore(k.getStore(ctx), NodeKeyPrefix)
	iterator := store.Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var node types.Node
		if err := unmarshalRecord(iterator.Value(), &node); err != nil {
			return err
		}
		if cb(node) {
			break
		}
	}
	return nil
}

func (k Keeper) setNode(ctx context.Context, addr sdk.AccAddress, node types.Node) error {
	return k.setJSON(ctx, NodeKey(addr), node)
}

func (k Keeper) decrementActiveNodeCount(ctx context.Context) {
	count := k.getCounter(ctx, ActiveNodeCountKey, 0)
	if count > 0 {
		k.setCounter(ctx, ActiveNodeCountKey, count-1)
	}
}

// adjustActiveJobs moves a node's claimed-job counter by delta. Used by the
// job lifecycle on claim and on terminal transitions out of Claimed.
func (k Keeper) adjustActiveJobs(ctx context.Context, addr sdk.AccAddress, delta int64) error {
	node, found := k.GetNode(ctx, addr)
	if !found {
		return types.ErrNotRegistered.Wrap(addr.String())
	}

	if delta < 0 {
		dec := uint64(-delta)
		if node.ActiveJobs < dec {
			node.ActiveJobs = 0
		} else {
			node.ActiveJobs -= dec
		}
	} else {
		node.ActiveJobs += uint64(delta)
	}

	return k.setNode(ctx, addr, node)
}
