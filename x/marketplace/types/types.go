package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// JobStatus is the lifecycle status of a job.
type JobStatus uint32

const (
	JobStatusUnspecified JobStatus = iota
	JobStatusPosted
	JobStatusClaimed
	JobStatusCompleted
	JobStatusCancelled
	JobStatusExpired
)

// jobTransitions is the explicit transition table for the job state machine.
// Any transition not listed here is rejected with ErrInvalidState.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPosted:  {JobStatusClaimed, JobStatusCancelled},
	JobStatusClaimed: {JobStatusCompleted, JobStatusExpired},
}

// CanTransition reports whether the status machine permits from -> to.
func (s JobStatus) CanTransition(to JobStatus) bool {
	for _, next := range jobTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s JobStatus) IsTerminal() bool {
	return len(jobTransitions[s]) == 0 && s != JobStatusUnspecified
}

func (s JobStatus) String() string {
	switch s {
	case JobStatusPosted:
		return "posted"
	case JobStatusClaimed:
		return "claimed"
	case JobStatusCompleted:
		return "completed"
	case JobStatusCancelled:
		return "cancelled"
	case JobStatusExpired:
		return "expired"
	default:
		return "unspecified"
	}
}

// EscrowState is the settlement state of an escrow.
type EscrowState uint32

const (
	EscrowStateUnspecified EscrowState = iota
	EscrowStateLocked
	EscrowStateReleased
	EscrowStateRefunded
)

func (s EscrowState) String() string {
	switch s {
	case EscrowStateLocked:
		return "locked"
	case EscrowStateReleased:
		return "released"
	case EscrowStateRefunded:
		return "refunded"
	default:
		return "unspecified"
	}
}

// Node is a registered compute provider holding refundable collateral.
type Node struct {
	Address      string    `json:"address"`
	Metadata     string    `json:"metadata"`
	Stake        math.Int  `json:"stake"`
	Active       bool      `json:"active"`
	ActiveJobs   uint64    `json:"active_jobs"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate performs structural validation of a node record.
func (n Node) Validate() error {
	if n.Address == "" {
		return ErrInvalidAddress.Wrap("node address cannot be empty")
	}
	if n.Stake.IsNil() || n.Stake.IsNegative() {
		return ErrZeroAmount.Wrap("node stake cannot be nil or negative")
	}
	return nil
}

// JobDescriptor identifies what a job computes and where its input lives.
type JobDescriptor struct {
	TaskId   string `json:"task_id"`
	InputRef string `json:"input_ref"`
}

// JobRequirements gate which providers may claim a job.
type JobRequirements struct {
	MinStake             math.Int `json:"min_stake"`
	MinReputation        uint32   `json:"min_reputation"`
	MaxCompletionSeconds uint64   `json:"max_completion_seconds"`
	RequiresProof        bool     `json:"requires_proof"`
}

// Job is the ledger record for one compute job. Jobs are never physically
// deleted; terminal records remain as the audit history of the marketplace.
type Job struct {
	Id           uint64          `json:"id"`
	Requester    string          `json:"requester"`
	Provider     string          `json:"provider,omitempty"`
	Descriptor   JobDescriptor   `json:"descriptor"`
	PaymentDenom string          `json:"payment_denom"`
	Amount       math.Int        `json:"amount"`
	Deadline     time.Time       `json:"deadline"`
	Requirements JobRequirements `json:"requirements"`
	Status       JobStatus       `json:"status"`
	ResultRef    string          `json:"result_ref,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ClaimedAt    *time.Time      `json:"claimed_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// ExpiryTime is the instant after which a claimed job may be expired.
// A per-job completion window tightens the posted deadline but never
// extends it.
func (j Job) ExpiryTime() time.Time {
	if j.Requirements.MaxCompletionSeconds > 0 && j.ClaimedAt != nil {
		completionDeadline := j.ClaimedAt.Add(time.Duration(j.Requirements.MaxCompletionSeconds) * time.Second)
		if completionDeadline.Before(j.Deadline) {
			return completionDeadline
		}
	}
	return j.Deadline
}

// Validate performs structural validation of a job record.
func (j Job) Validate() error {
	if j.Id == 0 {
		return fmt.Errorf("job id cannot be zero")
	}
	if j.Requester == "" {
		return ErrInvalidAddress.Wrap("job requester cannot be empty")
	}
	if j.PaymentDenom == "" {
		return fmt.Errorf("job %d: payment denom cannot be empty", j.Id)
	}
	if j.Amount.IsNil() || !j.Amount.IsPositive() {
		return ErrZeroAmount.Wrapf("job %d", j.Id)
	}
	if j.Status == JobStatusClaimed || j.Status == JobStatusCompleted {
		if j.Provider == "" {
			return fmt.Errorf("job %d has status %s but no provider", j.Id, j.Status)
		}
	}
	return nil
}

// Escrow holds a requester's payment in module custody until a release or
// refund condition is met. The state transitions exactly once out of Locked.
type Escrow struct {
	JobId    uint64      `json:"job_id"`
	Payer    string      `json:"payer"`
	Payee    string      `json:"payee,omitempty"`
	Denom    string      `json:"denom"`
	Amount   math.Int    `json:"amount"`
	State    EscrowState `json:"state"`
	Fee      math.Int    `json:"fee"`
	LockedAt time.Time   `json:"locked_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// Validate performs structural validation of an escrow record.
func (e Escrow) Validate() error {
	if e.JobId == 0 {
		return fmt.Errorf("escrow job id cannot be zero")
	}
	if e.Payer == "" {
		return ErrInvalidAddress.Wrap("escrow payer cannot be empty")
	}
	if e.Denom == "" {
		return fmt.Errorf("escrow %d: denom cannot be empty", e.JobId)
	}
	if e.Amount.IsNil() || !e.Amount.IsPositive() {
		return ErrZeroAmount.Wrapf("escrow %d", e.JobId)
	}
	return nil
}

// ReputationRecord tracks a provider's completion history. It is mutated
// only when a job reaches a terminal outcome attributable to the provider.
type ReputationRecord struct {
	Provider     string `json:"provider"`
	SuccessCount uint64 `json:"success_count"`
	FailureCount uint64 `json:"failure_count"`
	Score        uint32 `json:"score"`
}

// MaxReputationScore is the upper bound of the reputation scale.
const MaxReputationScore = 100

// ComputeScore derives the score from the success ratio, scaled to
// [0, MaxReputationScore]. A provider with no history scores zero.
func (r ReputationRecord) ComputeScore() uint32 {
	total := r.SuccessCount + r.FailureCount
	if total == 0 {
		return 0
	}
	return uint32(r.SuccessCount * MaxReputationScore / total)
}

// AuditRecord is an immutable per-transition audit event retained for
// external indexers and incident response.
type AuditRecord struct {
	Sequence    uint64    `json:"sequence"`
	Category    string    `json:"category"`
	Subject     string    `json:"subject"`
	Actor       string    `json:"actor"`
	PrevStatus  string    `json:"prev_status"`
	NewStatus   string    `json:"new_status"`
	BlockHeight int64     `json:"block_height"`
	Timestamp   time.Time `json:"timestamp"`
}

// Audit categories.
const (
	AuditCategoryNode   = "node"
	AuditCategoryJob    = "job"
	AuditCategoryEscrow = "escrow"
	AuditCategoryParams = "params"
	AuditCategoryAdmin  = "admin"
)
