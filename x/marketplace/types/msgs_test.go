package types_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

func addr(seed byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{seed}, 20)).String()
}

// TestMsgRegisterNode_ValidateBasic tests stateless registration checks
func TestMsgRegisterNode_ValidateBasic(t *testing.T) {
	valid := types.MsgRegisterNode{Node: addr(0x01), Metadata: "gpu", Stake: math.NewInt(1)}
	require.NoError(t, valid.ValidateBasic())

	bad := valid
	bad.Node = "not-bech32"
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Stake = math.ZeroInt()
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Metadata = strings.Repeat("x", types.MaxMetadataLength+1)
	require.Error(t, bad.ValidateBasic())
}

// TestMsgPostJob_ValidateBasic tests stateless job posting checks
func TestMsgPostJob_ValidateBasic(t *testing.T) {
	valid := types.MsgPostJob{
		Requester:    addr(0x01),
		Descriptor:   types.JobDescriptor{TaskId: "render", InputRef: "ipfs://in"},
		Requirements: types.JobRequirements{MinStake: math.ZeroInt()},
		PaymentDenom: "ulat",
		Amount:       math.NewInt(100),
		Deadline:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, valid.ValidateBasic())

	bad := valid
	bad.Descriptor.TaskId = ""
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Descriptor.InputRef = ""
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.PaymentDenom = "1bad"
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Amount = math.NewInt(-5)
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Deadline = time.Time{}
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Requirements.MinStake = math.NewInt(-1)
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Requirements.MinReputation = types.MaxReputationScore + 1
	require.Error(t, bad.ValidateBasic())
}

// TestMsgCompleteJob_ValidateBasic tests stateless completion checks
func TestMsgCompleteJob_ValidateBasic(t *testing.T) {
	valid := types.MsgCompleteJob{Provider: addr(0x01), JobId: 1, ResultRef: "ipfs://out"}
	require.NoError(t, valid.ValidateBasic())

	bad := valid
	bad.JobId = 0
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.ResultRef = ""
	require.Error(t, bad.ValidateBasic())
}

// TestMsgJobReferences_ValidateBasic tests the shared job-reference checks
func TestMsgJobReferences_ValidateBasic(t *testing.T) {
	require.NoError(t, (&types.MsgClaimJob{Provider: addr(0x01), JobId: 1}).ValidateBasic())
	require.Error(t, (&types.MsgClaimJob{Provider: addr(0x01), JobId: 0}).ValidateBasic())

	require.NoError(t, (&types.MsgCancelJob{Requester: addr(0x01), JobId: 1}).ValidateBasic())
	require.Error(t, (&types.MsgCancelJob{Requester: "bad", JobId: 1}).ValidateBasic())

	require.NoError(t, (&types.MsgExpireJob{Caller: addr(0x01), JobId: 1}).ValidateBasic())
	require.Error(t, (&types.MsgExpireJob{Caller: addr(0x01), JobId: 0}).ValidateBasic())
}

// TestMsgUpdateParams_ValidateBasic tests param message validation
func TestMsgUpdateParams_ValidateBasic(t *testing.T) {
	valid := types.MsgUpdateParams{Authority: addr(0x01), Params: types.DefaultParams()}
	require.NoError(t, valid.ValidateBasic())

	bad := valid
	bad.Authority = "not-bech32"
	require.Error(t, bad.ValidateBasic())

	bad = valid
	bad.Params.FeeBasisPoints = types.FeeBasisPointDivisor
	require.ErrorIs(t, bad.ValidateBasic(), types.ErrInvalidParams)
}

// TestMsgGetSigners tests signer derivation
func TestMsgGetSigners(t *testing.T) {
	node := sdk.AccAddress(bytes.Repeat([]byte{0x01}, 20))
	msg := types.MsgRegisterNode{Node: node.String(), Stake: math.NewInt(1)}
	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, node, signers[0])
}
