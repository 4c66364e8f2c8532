package types

import (
	"fmt"
	"unicode/utf8"
)

// Field length limits. Bounds stored string fields so a single message
// cannot bloat state.
const (
	MaxMetadataLength = 2048
	MaxTaskIDLength   = 128
	MaxRefLength      = 512
	MaxProofSize      = 4096
)

// ValidateMetadata checks node metadata constraints.
func ValidateMetadata(metadata string) error {
	if len(metadata) > MaxMetadataLength {
		return fmt.Errorf("metadata exceeds %d bytes", MaxMetadataLength)
	}
	if !utf8.ValidString(metadata) {
		return fmt.Errorf("metadata must be valid UTF-8")
	}
	return nil
}

// ValidateTaskID checks the job task identifier.
func ValidateTaskID(taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if len(taskID) > MaxTaskIDLength {
		return fmt.Errorf("task id exceeds %d bytes", MaxTaskIDLength)
	}
	if !utf8.ValidString(taskID) {
		return fmt.Errorf("task id must be valid UTF-8")
	}
	return nil
}

// ValidateRef checks an input or result reference. References are opaque
// pointers into external storage; only size and encoding are enforced.
func ValidateRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("reference cannot be empty")
	}
	if len(ref) > MaxRefLength {
		return fmt.Errorf("reference exceeds %d bytes", MaxRefLength)
	}
	if !utf8.ValidString(ref) {
		return fmt.Errorf("reference must be valid UTF-8")
	}
	return nil
}

// ValidateProofBytes bounds the size of an opaque proof payload.
func ValidateProofBytes(proof []byte) error {
	if len(proof) > MaxProofSize {
		return fmt.Errorf("proof exceeds %d bytes", MaxProofSize)
	}
	return nil
}
