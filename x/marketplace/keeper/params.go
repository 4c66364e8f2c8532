package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// GetParams returns the current marketplace parameters, falling back to
// defaults when genesis has not run.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	var params types.Params
	found, err := k.getJSON(ctx, ParamsKey, &params)
	if err != nil || !found {
		return types.DefaultParams()
	}
	return params
}

// SetParams validates and stores the marketplace parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return k.setJSON(ctx, ParamsKey, params)
}

// UpdateParams replaces the parameters after an authority check.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if authority != k.authority {
		return types.ErrUnauthorized.Wrapf("expected %s, got %s", k.authority, authority)
	}

	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	k.appendAudit(ctx, types.AuditCategoryParams, "params", authority, "", "updated")
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, authority),
		),
	)

	return nil
}
