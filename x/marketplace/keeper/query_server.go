package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

var _ types.QueryServer = queryServer{}

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

// Params returns the current module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	return &types.QueryParamsResponse{Params: qs.Keeper.GetParams(goCtx)}, nil
}

// Node returns a node record by address
func (qs queryServer) Node(goCtx context.Context, req *types.QueryNodeRequest) (*types.QueryNodeResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	addr, err := sdk.AccAddressFromBech32(req.Address)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}
	node, found := qs.Keeper.GetNode(goCtx, addr)
	if !found {
		return nil, types.ErrNotRegistered.Wrap(req.Address)
	}
	return &types.QueryNodeResponse{Node: node}, nil
}

// ActiveNodes returns every active node
func (qs queryServer) ActiveNodes(goCtx context.Context, req *types.QueryActiveNodesRequest) (*types.QueryActiveNodesResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	nodes, err := qs.Keeper.GetAllActiveNodes(goCtx)
	if err != nil {
		return nil, err
	}
	return &types.QueryActiveNodesResponse{Nodes: nodes}, nil
}

// Job returns a job record by ID
func (qs queryServer) Job(goCtx context.Context, req *types.QueryJobRequest) (*types.QueryJobResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	job, found := qs.Keeper.GetJob(goCtx, req.JobId)
	if !found {
		return nil, types.ErrJobNotFound.Wrapf("job %d", req.JobId)
	}
	return &types.QueryJobResponse{Job: job}, nil
}

// JobsByStatus returns all jobs in the given status
func (qs queryServer) JobsByStatus(goCtx context.Context, req *types.QueryJobsByStatusRequest) (*types.QueryJobsByStatusResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	jobs, err := qs.Keeper.GetJobsByStatus(goCtx, req.Status)
	if err != nil {
		return nil, err
	}
	return &types.QueryJobsByStatusResponse{Jobs: jobs}, nil
}

// Escrow returns the escrow record for a job
func (qs queryServer) Escrow(goCtx context.Context, req *types.QueryEscrowRequest) (*types.QueryEscrowResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	escrow, found := qs.Keeper.GetEscrow(goCtx, req.JobId)
	if !found {
		return nil, types.ErrEscrowNotFound.Wrapf("job %d", req.JobId)
	}
	return &types.QueryEscrowResponse{Escrow: escrow}, nil
}

// Reputation returns a provider's reputation record
func (qs queryServer) Reputation(goCtx context.Context, req *types.QueryReputationRequest) (*types.QueryReputationResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	addr, err := sdk.AccAddressFromBech32(req.Provider)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid provider address: %v", err)
	}
	return &types.QueryReputationResponse{Reputation: qs.Keeper.GetReputation(goCtx, addr)}, nil
}

// VaultBalance returns the module account balance in a denom with its
// locked-escrow and node-stake breakdown.
func (qs queryServer) VaultBalance(goCtx context.Context, req *types.QueryVaultBalanceRequest) (*types.QueryVaultBalanceResponse, error) {
	if req == nil {
		return nil, types.ErrValidationFailed.Wrap("empty request")
	}
	if err := sdk.ValidateDenom(req.Denom); err != nil {
		return nil, types.ErrValidationFailed.Wrapf("invalid denom: %v", err)
	}

	moduleAddr := qs.Keeper.accountKeeper.GetModuleAddress(types.ModuleName)
	balance := qs.Keeper.bankKeeper.GetBalance(goCtx, moduleAddr, req.Denom).Amount

	lockedTotals, err := qs.Keeper.TotalLockedByDenom(goCtx)
	if err != nil {
		return nil, err
	}
	locked, ok := lockedTotals[req.Denom]
	if !ok {
		locked = math.ZeroInt()
	}

	stake := math.ZeroInt()
	params := qs.Keeper.GetParams(goCtx)
	if req.Denom == params.StakeDenom {
		if err := qs.Keeper.iterateNodes(goCtx, func(node types.Node) bool {
			stake = stake.Add(node.Stake)
			return false
		}); err != nil {
			return nil, err
		}
	}

	return &types.QueryVaultBalanceResponse{
		Balance:      balance,
		LockedEscrow: locked,
		NodeStake:    stake,
	}, nil
}
