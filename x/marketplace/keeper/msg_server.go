package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

// RegisterNode handles the registration of a new compute node
func (ms msgServer) RegisterNode(goCtx context.Context, msg *types.MsgRegisterNode) (*types.MsgRegisterNodeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	nodeAddr, err := sdk.AccAddressFromBech32(msg.Node)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}

	if err := ms.Keeper.RegisterNode(ctx, nodeAddr, msg.Metadata, msg.Stake); err != nil {
		return nil, err
	}

	return &types.MsgRegisterNodeResponse{}, nil
}

// Stake handles adding collateral to an existing node
func (ms msgServer) Stake(goCtx context.Context, msg *types.MsgStake) (*types.MsgStakeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	nodeAddr, err := sdk.AccAddressFromBech32(msg.Node)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}

	newStake, err := ms.Keeper.AddStake(ctx, nodeAddr, msg.Amount)
	if err != nil {
		return nil, err
	}

	return &types.MsgStakeResponse{NewStake: newStake}, nil
}

// UnregisterNode handles node deactivation and stake return
func (ms msgServer) UnregisterNode(goCtx context.Context, msg *types.MsgUnregisterNode) (*types.MsgUnregisterNodeResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	nodeAddr, err := sdk.AccAddressFromBech32(msg.Node)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}

	returned, err := ms.Keeper.UnregisterNode(ctx, nodeAddr)
	if err != nil {
		return nil, err
	}

	return &types.MsgUnregisterNodeResponse{ReturnedStake: returned}, nil
}

// UpdateMetadata handles node metadata replacement
func (ms msgServer) UpdateMetadata(goCtx context.Context, msg *types.MsgUpdateMetadata) (*types.MsgUpdateMetadataResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	nodeAddr, err := sdk.AccAddressFromBech32(msg.Node)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}

	if err := ms.Keeper.UpdateMetadata(ctx, nodeAddr, msg.Metadata); err != nil {
		return nil, err
	}

	return &types.MsgUpdateMetadataResponse{}, nil
}

// EmergencyWithdraw handles an authority-driven forced stake return
func (ms msgServer) EmergencyWithdraw(goCtx context.Context, msg *types.MsgEmergencyWithdraw) (*types.MsgEmergencyWithdrawResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	nodeAddr, err := sdk.AccAddressFromBech32(msg.Node)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid node address: %v", err)
	}

	amount, err := ms.Keeper.EmergencyWithdraw(ctx, msg.Authority, nodeAddr)
	if err != nil {
		return nil, err
	}

	return &types.MsgEmergencyWithdrawResponse{Amount: amount}, nil
}

// PostJob handles publishing a new job with escrowed payment
func (ms msgServer) PostJob(goCtx context.Context, msg *types.MsgPostJob) (*types.MsgPostJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	requesterAddr, err := sdk.AccAddressFromBech32(msg.Requester)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid requester address: %v", err)
	}

	jobID, err := ms.Keeper.PostJob(ctx, requesterAddr, msg.Descriptor, msg.Requirements, msg.PaymentDenom, msg.Amount, msg.Deadline)
	if err != nil {
		return nil, err
	}

	return &types.MsgPostJobResponse{JobId: jobID}, nil
}

// ClaimJob handles a provider claiming a posted job
func (ms msgServer) ClaimJob(goCtx context.Context, msg *types.MsgClaimJob) (*types.MsgClaimJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	providerAddr, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid provider address: %v", err)
	}

	if err := ms.Keeper.ClaimJob(ctx, providerAddr, msg.JobId); err != nil {
		return nil, err
	}

	return &types.MsgClaimJobResponse{}, nil
}

// CompleteJob handles result submission and escrow settlement. The proof
// authority may complete on behalf of the assigned provider; any other
// sender must be the provider itself.
func (ms msgServer) CompleteJob(goCtx context.Context, msg *types.MsgCompleteJob) (*types.MsgCompleteJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	senderAddr, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid provider address: %v", err)
	}

	params := ms.Keeper.GetParams(ctx)
	var payout, fee = math.ZeroInt(), math.ZeroInt()
	if params.ProofAuthority != "" && msg.Provider == params.ProofAuthority {
		payout, fee, err = ms.Keeper.CompleteJobByProofSystem(ctx, senderAddr, msg.JobId, msg.ResultRef, msg.Proof)
	} else {
		payout, fee, err = ms.Keeper.CompleteJob(ctx, senderAddr, msg.JobId, msg.ResultRef, msg.Proof)
	}
	if err != nil {
		return nil, err
	}

	return &types.MsgCompleteJobResponse{Payout: payout, Fee: fee}, nil
}

// CancelJob handles a requester withdrawing an unclaimed job
func (ms msgServer) CancelJob(goCtx context.Context, msg *types.MsgCancelJob) (*types.MsgCancelJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	requesterAddr, err := sdk.AccAddressFromBech32(msg.Requester)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid requester address: %v", err)
	}

	if err := ms.Keeper.CancelJob(ctx, requesterAddr, msg.JobId); err != nil {
		return nil, err
	}

	return &types.MsgCancelJobResponse{}, nil
}

// ExpireJob handles permissionless settlement of an overdue claimed job
func (ms msgServer) ExpireJob(goCtx context.Context, msg *types.MsgExpireJob) (*types.MsgExpireJobResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	callerAddr, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid caller address: %v", err)
	}

	if err := ms.Keeper.ExpireJob(ctx, callerAddr, msg.JobId); err != nil {
		return nil, err
	}

	return &types.MsgExpireJobResponse{}, nil
}

// UpdateParams handles an authority parameter update
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, types.ErrValidationFailed.Wrap(err.Error())
	}

	if err := ms.Keeper.UpdateParams(ctx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}

	return &types.MsgUpdateParamsResponse{}, nil
}
