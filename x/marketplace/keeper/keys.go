package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// NodeKeyPrefix is the prefix for node storage
	NodeKeyPrefix = []byte{0x02}

	// JobKeyPrefix is the prefix for job storage
	JobKeyPrefix = []byte{0x03}

	// EscrowKeyPrefix is the prefix for escrow storage
	EscrowKeyPrefix = []byte{0x04}

	// NextJobIDKey is the key for the next job ID counter
	NextJobIDKey = []byte{0x05}

	// JobsByRequesterPrefix is the prefix for indexing jobs by requester
	JobsByRequesterPrefix = []byte{0x06}

	// JobsByProviderPrefix is the prefix for indexing jobs by provider
	JobsByProviderPrefix = []byte{0x07}

	// JobsByStatusPrefix is the prefix for indexing jobs by status
	JobsByStatusPrefix = []byte{0x08}

	// ActiveNodesPrefix is the prefix for indexing active nodes
	ActiveNodesPrefix = []byte{0x09}

	// ReputationKeyPrefix is the prefix for reputation record storage
	ReputationKeyPrefix = []byte{0x0A}

	// JobDeadlinePrefix is the prefix for the deadline index.
	// Key: prefix + deadline unix nanos + jobID -> jobID
	JobDeadlinePrefix = []byte{0x0B}

	// JobDeadlineReversePrefix is the reverse index for deadline lookup by job ID.
	// Key: prefix + jobID -> deadline unix nanos
	// This enables O(1) removal of deadline index entries.
	JobDeadlineReversePrefix = []byte{0x0C}

	// NonceKeyPrefix is the prefix for proof nonce tracking (replay prevention)
	NonceKeyPrefix = []byte{0x0D}

	// JobSettledPrefix tracks whether a job has already settled funds
	JobSettledPrefix = []byte{0x0E}

	// AuditKeyPrefix is the prefix for audit record storage
	AuditKeyPrefix = []byte{0x0F}

	// AuditSeqKey is the key for the audit sequence counter
	AuditSeqKey = []byte{0x10}

	// ActiveNodeCountKey is the key for the active node counter
	ActiveNodeCountKey = []byte{0x11}
)

// NodeKey returns the store key for a node
func NodeKey(address sdk.AccAddress) []byte {
	return append(NodeKeyPrefix, address.Bytes()...)
}

// JobKey returns the store key for a job
func JobKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(JobKeyPrefix, bz...)
}

// EscrowKey returns the store key for a job's escrow
func EscrowKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(EscrowKeyPrefix, bz...)
}

// JobByRequesterKey returns the index key for jobs by requester
func JobByRequesterKey(requester sdk.AccAddress, jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByRequesterPrefix, requester.Bytes()...), idBz...)
}

// JobByProviderKey returns the index key for jobs by provider
func JobByProviderKey(provider sdk.AccAddress, jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByProviderPrefix, provider.Bytes()...), idBz...)
}

// JobByStatusKey returns the index key for jobs by status
func JobByStatusKey(status uint32, jobID uint64) []byte {
	statusBz := make([]byte, 4)
	binary.BigEndian.PutUint32(statusBz, status)
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByStatusPrefix, statusBz...), idBz...)
}

// ActiveNodeKey returns the index key for an active node
func ActiveNodeKey(address sdk.AccAddress) []byte {
	return append(ActiveNodesPrefix, address.Bytes()...)
}

// ReputationKey returns the store key for a provider's reputation record
func ReputationKey(provider sdk.AccAddress) []byte {
	return append(ReputationKeyPrefix, provider.Bytes()...)
}

// JobDeadlineKey returns the deadline index key for a job.
// Deadlines sort in iteration order because both segments are big-endian.
func JobDeadlineKey(deadlineUnixNano int64, jobID uint64) []byte {
	tsBz := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBz, uint64(deadlineUnixNano))
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobDeadlinePrefix, tsBz...), idBz...)
}

// JobDeadlineReverseKey returns the reverse deadline index key for a job
func JobDeadlineReverseKey(jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(JobDeadlineReversePrefix, idBz...)
}

// NonceKey returns the store key for a used proof nonce
func NonceKey(prover sdk.AccAddress, nonce []byte) []byte {
	return append(append(NonceKeyPrefix, prover.Bytes()...), nonce...)
}

// JobSettledKey returns the settlement flag key for a job
func JobSettledKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(JobSettledPrefix, bz...)
}

// AuditKey returns the store key for an audit record
func AuditKey(seq uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	return append(AuditKeyPrefix, bz...)
}
