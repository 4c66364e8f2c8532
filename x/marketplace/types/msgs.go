package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type URLs
const (
	TypeMsgRegisterNode      = "register_node"
	TypeMsgStake             = "stake"
	TypeMsgUnregisterNode    = "unregister_node"
	TypeMsgUpdateMetadata    = "update_metadata"
	TypeMsgEmergencyWithdraw = "emergency_withdraw"
	TypeMsgPostJob           = "post_job"
	TypeMsgClaimJob          = "claim_job"
	TypeMsgCompleteJob       = "complete_job"
	TypeMsgCancelJob         = "cancel_job"
	TypeMsgExpireJob         = "expire_job"
	TypeMsgUpdateParams      = "update_params"
)

var (
	_ sdk.Msg = &MsgRegisterNode{}
	_ sdk.Msg = &MsgStake{}
	_ sdk.Msg = &MsgUnregisterNode{}
	_ sdk.Msg = &MsgUpdateMetadata{}
	_ sdk.Msg = &MsgEmergencyWithdraw{}
	_ sdk.Msg = &MsgPostJob{}
	_ sdk.Msg = &MsgClaimJob{}
	_ sdk.Msg = &MsgCompleteJob{}
	_ sdk.Msg = &MsgCancelJob{}
	_ sdk.Msg = &MsgExpireJob{}
	_ sdk.Msg = &MsgUpdateParams{}
)

// GetSigners implementations - these assume addresses are valid (validated in ValidateBasic)

// GetSigners returns the expected signers for MsgRegisterNode
func (msg *MsgRegisterNode) GetSigners() []sdk.AccAddress {
	node, _ := sdk.AccAddressFromBech32(msg.Node)
	return []sdk.AccAddress{node}
}

// GetSigners returns the expected signers for MsgStake
func (msg *MsgStake) GetSigners() []sdk.AccAddress {
	node, _ := sdk.AccAddressFromBech32(msg.Node)
	return []sdk.AccAddress{node}
}

// GetSigners returns the expected signers for MsgUnregisterNode
func (msg *MsgUnregisterNode) GetSigners() []sdk.AccAddress {
	node, _ := sdk.AccAddressFromBech32(msg.Node)
	return []sdk.AccAddress{node}
}

// GetSigners returns the expected signers for MsgUpdateMetadata
func (msg *MsgUpdateMetadata) GetSigners() []sdk.AccAddress {
	node, _ := sdk.AccAddressFromBech32(msg.Node)
	return []sdk.AccAddress{node}
}

// GetSigners returns the expected signers for MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) GetSigners() []sdk.AccAddress {
	authority, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{authority}
}

// GetSigners returns the expected signers for MsgPostJob
func (msg *MsgPostJob) GetSigners() []sdk.AccAddress {
	requester, _ := sdk.AccAddressFromBech32(msg.Requester)
	return []sdk.AccAddress{requester}
}

// GetSigners returns the expected signers for MsgClaimJob
func (msg *MsgClaimJob) GetSigners() []sdk.AccAddress {
	provider, _ := sdk.AccAddressFromBech32(msg.Provider)
	return []sdk.AccAddress{provider}
}

// GetSigners returns the expected signers for MsgCompleteJob
func (msg *MsgCompleteJob) GetSigners() []sdk.AccAddress {
	provider, _ := sdk.AccAddressFromBech32(msg.Provider)
	return []sdk.AccAddress{provider}
}

// GetSigners returns the expected signers for MsgCancelJob
func (msg *MsgCancelJob) GetSigners() []sdk.AccAddress {
	requester, _ := sdk.AccAddressFromBech32(msg.Requester)
	return []sdk.AccAddress{requester}
}

// GetSigners returns the expected signers for MsgExpireJob
func (msg *MsgExpireJob) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(msg.Caller)
	return []sdk.AccAddress{caller}
}

// GetSigners returns the expected signers for MsgUpdateParams
func (msg *MsgUpdateParams) GetSigners() []sdk.AccAddress {
	authority, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{authority}
}

// ValidateBasic performs basic validation of MsgRegisterNode
func (msg *MsgRegisterNode) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Node); err != nil {
		return fmt.Errorf("invalid node address: %w", err)
	}

	if err := ValidateMetadata(msg.Metadata); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	if msg.Stake.IsNil() || !msg.Stake.IsPositive() {
		return fmt.Errorf("stake must be positive")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgStake
func (msg *MsgStake) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Node); err != nil {
		return fmt.Errorf("invalid node address: %w", err)
	}

	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgUnregisterNode
func (msg *MsgUnregisterNode) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Node); err != nil {
		return fmt.Errorf("invalid node address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgUpdateMetadata
func (msg *MsgUpdateMetadata) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Node); err != nil {
		return fmt.Errorf("invalid node address: %w", err)
	}

	if err := ValidateMetadata(msg.Metadata); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgEmergencyWithdraw
func (msg *MsgEmergencyWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	if _, err := sdk.AccAddressFromBech32(msg.Node); err != nil {
		return fmt.Errorf("invalid node address: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgPostJob
func (msg *MsgPostJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Requester); err != nil {
		return fmt.Errorf("invalid requester address: %w", err)
	}

	if err := ValidateTaskID(msg.Descriptor.TaskId); err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}

	if err := ValidateRef(msg.Descriptor.InputRef); err != nil {
		return fmt.Errorf("invalid input ref: %w", err)
	}

	if err := sdk.ValidateDenom(msg.PaymentDenom); err != nil {
		return fmt.Errorf("invalid payment denom: %w", err)
	}

	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	if msg.Deadline.IsZero() {
		return fmt.Errorf("deadline is required")
	}

	if msg.Requirements.MinStake.IsNil() || msg.Requirements.MinStake.IsNegative() {
		return fmt.Errorf("min stake requirement must be non-negative")
	}

	if msg.Requirements.MinReputation > MaxReputationScore {
		return fmt.Errorf("min reputation cannot exceed %d", MaxReputationScore)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgClaimJob
func (msg *MsgClaimJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return fmt.Errorf("invalid provider address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgCompleteJob
func (msg *MsgCompleteJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return fmt.Errorf("invalid provider address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	if err := ValidateRef(msg.ResultRef); err != nil {
		return fmt.Errorf("invalid result ref: %w", err)
	}

	return nil
}

// ValidateBasic performs basic validation of MsgCancelJob
func (msg *MsgCancelJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Requester); err != nil {
		return fmt.Errorf("invalid requester address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgExpireJob
func (msg *MsgExpireJob) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Caller); err != nil {
		return fmt.Errorf("invalid caller address: %w", err)
	}

	if msg.JobId == 0 {
		return fmt.Errorf("job ID must be greater than 0")
	}

	return nil
}

// ValidateBasic performs basic validation of MsgUpdateParams
func (msg *MsgUpdateParams) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return fmt.Errorf("invalid authority address: %w", err)
	}

	return msg.Params.Validate()
}
