package types

import (
	errorsmod "cosmossdk.io/errors"
)

// Marketplace module sentinel errors

var (
	// Node registry errors
	ErrAlreadyRegistered = errorsmod.Register(ModuleName, 2, "node already registered")
	ErrNotRegistered     = errorsmod.Register(ModuleName, 3, "node not registered")
	ErrInsufficientStake = errorsmod.Register(ModuleName, 4, "insufficient node stake")
	ErrNodeBusy          = errorsmod.Register(ModuleName, 5, "node has outstanding claimed jobs")

	// Job lifecycle errors
	ErrJobNotFound      = errorsmod.Register(ModuleName, 10, "job not found")
	ErrInvalidState     = errorsmod.Register(ModuleName, 11, "operation not permitted in current status")
	ErrDeadlineExceeded = errorsmod.Register(ModuleName, 12, "job deadline has passed")
	ErrInvalidDeadline  = errorsmod.Register(ModuleName, 13, "job deadline is not in the future")
	ErrZeroAmount       = errorsmod.Register(ModuleName, 14, "amount must be positive")

	// Escrow errors
	ErrDuplicateEscrow = errorsmod.Register(ModuleName, 20, "escrow already exists for job")
	ErrEscrowNotFound  = errorsmod.Register(ModuleName, 21, "escrow not found")
	ErrNoAssignedPayee = errorsmod.Register(ModuleName, 22, "escrow has no assigned payee")

	// Proof errors
	ErrProofVerificationFailed = errorsmod.Register(ModuleName, 30, "proof verification failed")
	ErrInvalidProof            = errorsmod.Register(ModuleName, 31, "malformed verification proof")
	ErrNonceReused             = errorsmod.Register(ModuleName, 32, "proof nonce already used")

	// Access and validation errors
	ErrUnauthorized        = errorsmod.Register(ModuleName, 40, "unauthorized operation")
	ErrInsufficientBalance = errorsmod.Register(ModuleName, 41, "insufficient balance")
	ErrInvalidAddress      = errorsmod.Register(ModuleName, 42, "invalid address")
	ErrInvalidParams       = errorsmod.Register(ModuleName, 43, "invalid module parameters")
	ErrValidationFailed    = errorsmod.Register(ModuleName, 44, "message validation failed")
	ErrStorageFailed       = errorsmod.Register(ModuleName, 45, "state storage operation failed")
)
