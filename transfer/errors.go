package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrNotRunning        = errors.New("bridge coordinator not running")
	ErrNotFound          = errors.New("transfer not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyExists     = errors.New("transfer already exists")
)

// ValidationError is returned synchronously when a request is rejected
// before a ledger record exists.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transfer request: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type UnsupportedChainError struct {
	Chain string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("chain '%s' not supported", e.Chain)
}

// InsufficientQuorumError is recorded as the terminal failure of a transfer whose
// attestation window closed before enough validators signed.
type InsufficientQuorumError struct {
	Collected int
	Required  int
}

func (e *InsufficientQuorumError) Error() string {
	return fmt.Sprintf("insufficient validator signatures: collected %d of %d", e.Collected, e.Required)
}

// AttestationError is recorded when attestation stops for a reason other than
// a missed quorum, such as a failure persisting the collected signatures.
type AttestationError struct {
	Err error
}

func (e *AttestationError) Error() string {
	return e.Err.Error()
}

func (e *AttestationError) Unwrap() error {
	return e.Err
}

type RelayError struct {
	Relayer string
	Err     error
}

func (e *RelayError) Error() string {
	return e.Err.Error()
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

type ExecutionError struct {
	Relayer string
	Err     error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// FailureKindOf maps a post-creation error to the failure kind stored on the transfer
func FailureKindOf(err error) FailureKind {
	var quorumErr *InsufficientQuorumError
	var relayErr *RelayError
	var execErr *ExecutionError
	var validationErr *ValidationError
	var attestationErr *AttestationError

	switch {
	case errors.As(err, &quorumErr):
		return FailureInsufficientQuorum
	case errors.As(err, &execErr):
		return FailureExecution
	case errors.As(err, &relayErr):
		return FailureRelay
	case errors.As(err, &validationErr):
		return FailureValidation
	case errors.As(err, &attestationErr):
		return FailureAttestation
	default:
		return FailureRelay
	}
}
