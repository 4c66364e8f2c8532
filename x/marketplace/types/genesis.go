package types

import (
	"fmt"
)

// GenesisState is the exported marketplace module state.
type GenesisState struct {
	Params      Params             `json:"params"`
	Nodes       []Node             `json:"nodes"`
	Jobs        []Job              `json:"jobs"`
	Escrows     []Escrow           `json:"escrows"`
	Reputations []ReputationRecord `json:"reputations"`
	NextJobId   uint64             `json:"next_job_id"`
	AuditSeq    uint64             `json:"audit_seq"`
}

// DefaultGenesis returns the default marketplace genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:    DefaultParams(),
		NextJobId: 1,
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seenNodes := make(map[string]struct{}, len(gs.Nodes))
	for _, node := range gs.Nodes {
		if err := node.Validate(); err != nil {
			return err
		}
		if _, ok := seenNodes[node.Address]; ok {
			return fmt.Errorf("duplicate node %s", node.Address)
		}
		seenNodes[node.Address] = struct{}{}
		if node.Active && node.Stake.LT(gs.Params.MinNodeStake) {
			return fmt.Errorf("active node %s below minimum stake", node.Address)
		}
	}

	seenJobs := make(map[uint64]struct{}, len(gs.Jobs))
	maxJobID := uint64(0)
	for _, job := range gs.Jobs {
		if err := job.Validate(); err != nil {
			return err
		}
		if _, ok := seenJobs[job.Id]; ok {
			return fmt.Errorf("duplicate job %d", job.Id)
		}
		seenJobs[job.Id] = struct{}{}
		if job.Id > maxJobID {
			maxJobID = job.Id
		}
	}
	if gs.NextJobId == 0 {
		return fmt.Errorf("next job id cannot be zero")
	}
	if maxJobID >= gs.NextJobId {
		return fmt.Errorf("next job id %d must exceed highest job id %d", gs.NextJobId, maxJobID)
	}

	seenEscrows := make(map[uint64]struct{}, len(gs.Escrows))
	for _, escrow := range gs.Escrows {
		if err := escrow.Validate(); err != nil {
			return err
		}
		if _, ok := seenEscrows[escrow.JobId]; ok {
			return fmt.Errorf("duplicate escrow for job %d", escrow.JobId)
		}
		seenEscrows[escrow.JobId] = struct{}{}
		if _, ok := seenJobs[escrow.JobId]; !ok {
			return fmt.Errorf("escrow references unknown job %d", escrow.JobId)
		}
	}

	seenReps := make(map[string]struct{}, len(gs.Reputations))
	for _, rep := range gs.Reputations {
		if rep.Provider == "" {
			return fmt.Errorf("reputation record with empty provider")
		}
		if _, ok := seenReps[rep.Provider]; ok {
			return fmt.Errorf("duplicate reputation record for %s", rep.Provider)
		}
		seenReps[rep.Provider] = struct{}{}
		if rep.Score > MaxReputationScore {
			return fmt.Errorf("reputation score for %s exceeds %d", rep.Provider, MaxReputationScore)
		}
	}

	return nil
}
