package types

// Event types for the Marketplace module
// All event types use lowercase with underscore separator (module_action format)
const (
	// Node registry events
	EventTypeNodeRegistered     = "marketplace_node_registered"
	EventTypeNodeStaked         = "marketplace_node_staked"
	EventTypeNodeUnregistered   = "marketplace_node_unregistered"
	EventTypeNodeMetadataUpdate = "marketplace_node_metadata_update"
	EventTypeEmergencyWithdraw  = "marketplace_emergency_withdraw"

	// Job lifecycle events
	EventTypeJobPosted    = "marketplace_job_posted"
	EventTypeJobClaimed   = "marketplace_job_claimed"
	EventTypeJobCompleted = "marketplace_job_completed"
	EventTypeJobCancelled = "marketplace_job_cancelled"
	EventTypeJobExpired   = "marketplace_job_expired"

	// Escrow events
	EventTypeEscrowLocked   = "marketplace_escrow_locked"
	EventTypeEscrowReleased = "marketplace_escrow_released"
	EventTypeEscrowRefunded = "marketplace_escrow_refunded"

	// Proof events
	EventTypeProofVerified = "marketplace_proof_verified"
	EventTypeProofRejected = "marketplace_proof_rejected"

	// Reputation events
	EventTypeReputationUpdate = "marketplace_reputation_update"

	// Params events
	EventTypeParamsUpdated = "marketplace_params_updated"

	// Audit events
	EventTypeAuditRecord = "marketplace_audit_record"
)

// Event attribute keys for the Marketplace module
// All attribute keys use lowercase with underscore separator
const (
	// Node attributes
	AttributeKeyNode       = "node"
	AttributeKeyStake      = "stake"
	AttributeKeyMetadata   = "metadata"
	AttributeKeyActiveJobs = "active_jobs"

	// Job attributes
	AttributeKeyJobID     = "job_id"
	AttributeKeyRequester = "requester"
	AttributeKeyProvider  = "provider"
	AttributeKeyTaskID    = "task_id"
	AttributeKeyResultRef = "result_ref"
	AttributeKeyDeadline  = "deadline"

	// Escrow attributes
	AttributeKeyAmount   = "amount"
	AttributeKeyDenom    = "denom"
	AttributeKeyFee      = "fee"
	AttributeKeyPayout   = "payout"
	AttributeKeyPayer    = "payer"
	AttributeKeyPayee    = "payee"
	AttributeKeyTreasury = "treasury"

	// Reputation attributes
	AttributeKeyScore        = "score"
	AttributeKeySuccessCount = "success_count"
	AttributeKeyFailureCount = "failure_count"

	// Audit attributes
	AttributeKeySequence = "sequence"
	AttributeKeyCategory = "category"
	AttributeKeySubject  = "subject"

	// Status attributes
	AttributeKeyStatus     = "status"
	AttributeKeyPrevStatus = "prev_status"
	AttributeKeyActor      = "actor"
	AttributeKeyReason     = "reason"
	AttributeKeyAuthority  = "authority"
)
