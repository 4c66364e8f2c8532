package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer defines the read-only query interface for the module.
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Node(context.Context, *QueryNodeRequest) (*QueryNodeResponse, error)
	ActiveNodes(context.Context, *QueryActiveNodesRequest) (*QueryActiveNodesResponse, error)
	Job(context.Context, *QueryJobRequest) (*QueryJobResponse, error)
	JobsByStatus(context.Context, *QueryJobsByStatusRequest) (*QueryJobsByStatusResponse, error)
	Escrow(context.Context, *QueryEscrowRequest) (*QueryEscrowResponse, error)
	Reputation(context.Context, *QueryReputationRequest) (*QueryReputationResponse, error)
	VaultBalance(context.Context, *QueryVaultBalanceRequest) (*QueryVaultBalanceResponse, error)
}

// QueryParamsRequest requests the current module parameters.
type QueryParamsRequest struct{}

// QueryParamsResponse returns the current module parameters.
type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryNodeRequest requests a node record by address.
type QueryNodeRequest struct {
	Address string `json:"address"`
}

// QueryNodeResponse returns a node record.
type QueryNodeResponse struct {
	Node Node `json:"node"`
}

// QueryActiveNodesRequest requests all active nodes.
type QueryActiveNodesRequest struct{}

// QueryActiveNodesResponse returns all active nodes.
type QueryActiveNodesResponse struct {
	Nodes []Node `json:"nodes"`
}

// QueryJobRequest requests a job record by ID.
type QueryJobRequest struct {
	JobId uint64 `json:"job_id"`
}

// QueryJobResponse returns a job record.
type QueryJobResponse struct {
	Job Job `json:"job"`
}

// QueryJobsByStatusRequest requests all jobs in a given status.
type QueryJobsByStatusRequest struct {
	Status JobStatus `json:"status"`
}

// QueryJobsByStatusResponse returns the matching jobs.
type QueryJobsByStatusResponse struct {
	Jobs []Job `json:"jobs"`
}

// QueryEscrowRequest requests the escrow record for a job.
type QueryEscrowRequest struct {
	JobId uint64 `json:"job_id"`
}

// QueryEscrowResponse returns an escrow record.
type QueryEscrowResponse struct {
	Escrow Escrow `json:"escrow"`
}

// QueryReputationRequest requests a provider's reputation record.
type QueryReputationRequest struct {
	Provider string `json:"provider"`
}

// QueryReputationResponse returns a reputation record. Providers with no
// history return a zeroed record rather than an error.
type QueryReputationResponse struct {
	Reputation ReputationRecord `json:"reputation"`
}

// QueryVaultBalanceRequest requests the module account balance in a denom.
type QueryVaultBalanceRequest struct {
	Denom string `json:"denom"`
}

// QueryVaultBalanceResponse returns the vault balance and its breakdown.
type QueryVaultBalanceResponse struct {
	Balance      math.Int `json:"balance"`
	LockedEscrow math.Int `json:"locked_escrow"`
	NodeStake    math.Int `json:"node_stake"`
}
