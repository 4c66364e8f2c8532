package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the necessary x/marketplace concrete types
// on the provided LegacyAmino codec. These types are used for Amino JSON serialization.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgRegisterNode{}, "lattice/marketplace/MsgRegisterNode", nil)
	cdc.RegisterConcrete(&MsgStake{}, "lattice/marketplace/MsgStake", nil)
	cdc.RegisterConcrete(&MsgUnregisterNode{}, "lattice/marketplace/MsgUnregisterNode", nil)
	cdc.RegisterConcrete(&MsgUpdateMetadata{}, "lattice/marketplace/MsgUpdateMetadata", nil)
	cdc.RegisterConcrete(&MsgEmergencyWithdraw{}, "lattice/marketplace/MsgEmergencyWithdraw", nil)
	cdc.RegisterConcrete(&MsgPostJob{}, "lattice/marketplace/MsgPostJob", nil)
	cdc.RegisterConcrete(&MsgClaimJob{}, "lattice/marketplace/MsgClaimJob", nil)
	cdc.RegisterConcrete(&MsgCompleteJob{}, "lattice/marketplace/MsgCompleteJob", nil)
	cdc.RegisterConcrete(&MsgCancelJob{}, "lattice/marketplace/MsgCancelJob", nil)
	cdc.RegisterConcrete(&MsgExpireJob{}, "lattice/marketplace/MsgExpireJob", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "lattice/marketplace/MsgUpdateParams", nil)
}

var (
	amino = codec.NewLegacyAmino()
)

func init() {
	RegisterLegacyAminoCodec(amino)
}
