package types

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// MsgServer defines the message server interface
type MsgServer interface {
	RegisterNode(context.Context, *MsgRegisterNode) (*MsgRegisterNodeResponse, error)
	Stake(context.Context, *MsgStake) (*MsgStakeResponse, error)
	UnregisterNode(context.Context, *MsgUnregisterNode) (*MsgUnregisterNodeResponse, error)
	UpdateMetadata(context.Context, *MsgUpdateMetadata) (*MsgUpdateMetadataResponse, error)
	EmergencyWithdraw(context.Context, *MsgEmergencyWithdraw) (*MsgEmergencyWithdrawResponse, error)
	PostJob(context.Context, *MsgPostJob) (*MsgPostJobResponse, error)
	ClaimJob(context.Context, *MsgClaimJob) (*MsgClaimJobResponse, error)
	CompleteJob(context.Context, *MsgCompleteJob) (*MsgCompleteJobResponse, error)
	CancelJob(context.Context, *MsgCancelJob) (*MsgCancelJobResponse, error)
	ExpireJob(context.Context, *MsgExpireJob) (*MsgExpireJobResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// MsgRegisterNode registers the sender as a compute node with initial stake.
type MsgRegisterNode struct {
	Node     string   `json:"node"`
	Metadata string   `json:"metadata"`
	Stake    math.Int `json:"stake"`
}

// MsgStake adds collateral to the sender's existing node registration.
type MsgStake struct {
	Node   string   `json:"node"`
	Amount math.Int `json:"amount"`
}

// MsgUnregisterNode deactivates the sender's node and returns its stake.
type MsgUnregisterNode struct {
	Node string `json:"node"`
}

// MsgUpdateMetadata replaces the sender's node metadata.
type MsgUpdateMetadata struct {
	Node     string `json:"node"`
	Metadata string `json:"metadata"`
}

// MsgEmergencyWithdraw force-returns a node's stake. Authority only.
type MsgEmergencyWithdraw struct {
	Authority string `json:"authority"`
	Node      string `json:"node"`
}

// MsgPostJob publishes a job and locks its payment in escrow.
type MsgPostJob struct {
	Requester    string          `json:"requester"`
	Descriptor   JobDescriptor   `json:"descriptor"`
	Requirements JobRequirements `json:"requirements"`
	PaymentDenom string          `json:"payment_denom"`
	Amount       math.Int        `json:"amount"`
	Deadline     time.Time       `json:"deadline"`
}

// MsgClaimJob assigns a posted job to the sending provider.
type MsgClaimJob struct {
	Provider string `json:"provider"`
	JobId    uint64 `json:"job_id"`
}

// MsgCompleteJob submits a result for a claimed job and settles escrow.
type MsgCompleteJob struct {
	Provider  string `json:"provider"`
	JobId     uint64 `json:"job_id"`
	ResultRef string `json:"result_ref"`
	Proof     []byte `json:"proof,omitempty"`
}

// MsgCancelJob withdraws an unclaimed job and refunds its escrow.
type MsgCancelJob struct {
	Requester string `json:"requester"`
	JobId     uint64 `json:"job_id"`
}

// MsgExpireJob settles an overdue claimed job. Permissionless.
type MsgExpireJob struct {
	Caller string `json:"caller"`
	JobId  uint64 `json:"job_id"`
}

// MsgUpdateParams replaces the module parameters. Authority only.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// Response types

// MsgRegisterNodeResponse defines the response for RegisterNode
type MsgRegisterNodeResponse struct{}

// MsgStakeResponse defines the response for Stake
type MsgStakeResponse struct {
	NewStake math.Int `json:"new_stake"`
}

// MsgUnregisterNodeResponse defines the response for UnregisterNode
type MsgUnregisterNodeResponse struct {
	ReturnedStake math.Int `json:"returned_stake"`
}

// MsgUpdateMetadataResponse defines the response for UpdateMetadata
type MsgUpdateMetadataResponse struct{}

// MsgEmergencyWithdrawResponse defines the response for EmergencyWithdraw
type MsgEmergencyWithdrawResponse struct {
	Amount math.Int `json:"amount"`
}

// MsgPostJobResponse defines the response for PostJob
type MsgPostJobResponse struct {
	JobId uint64 `json:"job_id"`
}

// MsgClaimJobResponse defines the response for ClaimJob
type MsgClaimJobResponse struct{}

// MsgCompleteJobResponse defines the response for CompleteJob
type MsgCompleteJobResponse struct {
	Payout math.Int `json:"payout"`
	Fee    math.Int `json:"fee"`
}

// MsgCancelJobResponse defines the response for CancelJob
type MsgCancelJobResponse struct{}

// MsgExpireJobResponse defines the response for ExpireJob
type MsgExpireJobResponse struct{}

// MsgUpdateParamsResponse defines the response for UpdateParams
type MsgUpdateParamsResponse struct{}

// proto.Message shims for the hand-written message types so they satisfy
// sdk.Msg without generated code.

func (msg *MsgRegisterNode) Reset()         { *msg = MsgRegisterNode{} }
func (msg *MsgRegisterNode) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgRegisterNode) ProtoMessage()  {}

func (msg *MsgStake) Reset()         { *msg = MsgStake{} }
func (msg *MsgStake) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgStake) ProtoMessage()  {}

func (msg *MsgUnregisterNode) Reset()         { *msg = MsgUnregisterNode{} }
func (msg *MsgUnregisterNode) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgUnregisterNode) ProtoMessage()  {}

func (msg *MsgUpdateMetadata) Reset()         { *msg = MsgUpdateMetadata{} }
func (msg *MsgUpdateMetadata) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgUpdateMetadata) ProtoMessage()  {}

func (msg *MsgEmergencyWithdraw) Reset()         { *msg = MsgEmergencyWithdraw{} }
func (msg *MsgEmergencyWithdraw) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgEmergencyWithdraw) ProtoMessage()  {}

func (msg *MsgPostJob) Reset()         { *msg = MsgPostJob{} }
func (msg *MsgPostJob) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgPostJob) ProtoMessage()  {}

func (msg *MsgClaimJob) Reset()         { *msg = MsgClaimJob{} }
func (msg *MsgClaimJob) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgClaimJob) ProtoMessage()  {}

func (msg *MsgCompleteJob) Reset()         { *msg = MsgCompleteJob{} }
func (msg *MsgCompleteJob) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgCompleteJob) ProtoMessage()  {}

func (msg *MsgCancelJob) Reset()         { *msg = MsgCancelJob{} }
func (msg *MsgCancelJob) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgCancelJob) ProtoMessage()  {}

func (msg *MsgExpireJob) Reset()         { *msg = MsgExpireJob{} }
func (msg *MsgExpireJob) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgExpireJob) ProtoMessage()  {}

func (msg *MsgUpdateParams) Reset()         { *msg = MsgUpdateParams{} }
func (msg *MsgUpdateParams) String() string { return fmt.Sprintf("%v", *msg) }
func (msg *MsgUpdateParams) ProtoMessage()  {}
