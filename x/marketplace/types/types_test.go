package types_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// TestJobStatusTransitions tests the explicit transition table
func TestJobStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to types.JobStatus }{
		{types.JobStatusPosted, types.JobStatusClaimed},
		{types.JobStatusPosted, types.JobStatusCancelled},
		{types.JobStatusClaimed, types.JobStatusCompleted},
		{types.JobStatusClaimed, types.JobStatusExpired},
	}
	for _, tc := range allowed {
		require.True(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}

	forbidden := []struct{ from, to types.JobStatus }{
		{types.JobStatusPosted, types.JobStatusCompleted},
		{types.JobStatusPosted, types.JobStatusExpired},
		{types.JobStatusClaimed, types.JobStatusCancelled},
		{types.JobStatusClaimed, types.JobStatusPosted},
		{types.JobStatusCompleted, types.JobStatusClaimed},
		{types.JobStatusCancelled, types.JobStatusPosted},
		{types.JobStatusExpired, types.JobStatusClaimed},
		{types.JobStatusUnspecified, types.JobStatusPosted},
	}
	for _, tc := range forbidden {
		require.False(t, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// TestJobStatusTerminality tests which states admit no further transition
func TestJobStatusTerminality(t *testing.T) {
	require.True(t, types.JobStatusCompleted.IsTerminal())
	require.True(t, types.JobStatusCancelled.IsTerminal())
	require.True(t, types.JobStatusExpired.IsTerminal())
	require.False(t, types.JobStatusPosted.IsTerminal())
	require.False(t, types.JobStatusClaimed.IsTerminal())
	require.False(t, types.JobStatusUnspecified.IsTerminal())
}

// TestJobExpiryTime tests the completion-window tightening rule
func TestJobExpiryTime(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	claimed := deadline.Add(-time.Hour)

	job := types.Job{Deadline: deadline}
	require.Equal(t, deadline, job.ExpiryTime())

	// A window longer than the remaining time never extends the deadline.
	job = types.Job{
		Deadline:     deadline,
		ClaimedAt:    &claimed,
		Requirements: types.JobRequirements{MaxCompletionSeconds: 7200},
	}
	require.Equal(t, deadline, job.ExpiryTime())

	// A shorter window tightens it.
	job.Requirements.MaxCompletionSeconds = 600
	require.Equal(t, claimed.Add(10*time.Minute), job.ExpiryTime())
}

// TestJobValidate tests structural job validation
func TestJobValidate(t *testing.T) {
	valid := types.Job{
		Id:           1,
		Requester:    "requester",
		PaymentDenom: "ulat",
		Amount:       math.NewInt(100),
		Status:       types.JobStatusPosted,
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.Id = 0
	require.Error(t, missing.Validate())

	missing = valid
	missing.Amount = math.ZeroInt()
	require.Error(t, missing.Validate())

	// A claimed job needs an assigned provider.
	missing = valid
	missing.Status = types.JobStatusClaimed
	require.Error(t, missing.Validate())
	missing.Provider = "provider"
	require.NoError(t, missing.Validate())
}

// TestEscrowValidate tests structural escrow validation
func TestEscrowValidate(t *testing.T) {
	valid := types.Escrow{
		JobId:  1,
		Payer:  "payer",
		Denom:  "ulat",
		Amount: math.NewInt(100),
		State:  types.EscrowStateLocked,
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.JobId = 0
	require.Error(t, bad.Validate())

	bad = valid
	bad.Amount = math.NewInt(-1)
	require.Error(t, bad.Validate())
}

// TestComputeScore_Bounds tests that the derived score stays on the scale
func TestComputeScore_Bounds(t *testing.T) {
	record := types.ReputationRecord{SuccessCount: 1_000_000, FailureCount: 0}
	require.Equal(t, uint32(types.MaxReputationScore), record.ComputeScore())

	record = types.ReputationRecord{SuccessCount: 0, FailureCount: 1_000_000}
	require.Zero(t, record.ComputeScore())
}
