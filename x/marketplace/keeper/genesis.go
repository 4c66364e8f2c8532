package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// InitGenesis initializes the marketplace module state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return err
	}

	store := k.getStore(ctx)
	activeCount := uint64(0)
	for _, node := range genState.Nodes {
		addr, err := sdk.AccAddressFromBech32(node.Address)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("node %s: %v", node.Address, err)
		}
		if err := k.setNode(ctx, addr, node); err != nil {
			return err
		}
		if node.Active {
			store.Set(ActiveNodeKey(addr), []byte{1})
			activeCount++
		}
	}
	k.setCounter(ctx, ActiveNodeCountKey, activeCount)

	for _, job := range genState.Jobs {
		if err := k.setJob(ctx, job); err != nil {
			return err
		}

		requester, err := sdk.AccAddressFromBech32(job.Requester)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("job %d requester: %v", job.Id, err)
		}
		store.Set(JobByRequesterKey(requester, job.Id), []byte{1})
		store.Set(JobByStatusKey(uint32(job.Status), job.Id), []byte{1})

		if job.Provider != "" {
			provider, err := sdk.AccAddressFromBech32(job.Provider)
			if err != nil {
				return types.ErrInvalidAddress.Wrapf("job %d provider: %v", job.Id, err)
			}
			store.Set(JobByProviderKey(provider, job.Id), []byte{1})
		}

		switch job.Status {
		case types.JobStatusPosted:
			k.setDeadlineIndex(ctx, job.Id, job.Deadline)
		case types.JobStatusClaimed:
			k.setDeadlineIndex(ctx, job.Id, job.ExpiryTime())
		default:
			// Terminal jobs are settled; flag them so escrow paths stay closed.
			k.markJobSettled(ctx, job.Id)
		}
	}
	k.setCounter(ctx, NextJobIDKey, genState.NextJobId)

	for _, escrow := range genState.Escrows {
		if err := k.setEscrow(ctx, escrow); err != nil {
			return err
		}
	}

	for _, rep := range genState.Reputations {
		provider, err := sdk.AccAddressFromBech32(rep.Provider)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("reputation %s: %v", rep.Provider, err)
		}
		if err := k.setJSON(ctx, ReputationKey(provider), rep); err != nil {
			return err
		}
	}

	k.setCounter(ctx, AuditSeqKey, genState.AuditSeq)

	return nil
}

// ExportGenesis exports the marketplace module state.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	genState := &types.GenesisState{
		Params:    k.GetParams(ctx),
		NextJobId: k.GetNextJobID(ctx),
		AuditSeq:  k.GetAuditSequence(ctx),
	}

	if err := k.iterateNodes(ctx, func(node types.Node) bool {
		genState.Nodes = append(genState.Nodes, node)
		return false
	}); err != nil {
		return nil, err
	}

	if err := k.IterateJobs(ctx, func(job types.Job) bool {
		genState.Jobs = append(genState.Jobs, job)
		return false
	}); err != nil {
		return nil, err
	}

	if err := k.IterateEscrows(ctx, func(escrow types.Escrow) bool {
		genState.Escrows = append(genState.Escrows, escrow)
		return false
	}); err != nil {
		return nil, err
	}

	if err := k.IterateReputations(ctx, func(record types.ReputationRecord) bool {
		genState.Reputations = append(genState.Reputations, record)
		return false
	}); err != nil {
		return nil, err
	}

	return genState, nil
}
