package transfer_test

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/stretchr/testify/suite"
)

type TransferTestSuite struct {
	suite.Suite
}

func TestRunTransferTestSuite(t *testing.T) {
	suite.Run(t, new(TransferTestSuite))
}

func (s *TransferTestSuite) Test_CanTransition_AllowedPaths() {
	s.True(transfer.CanTransition(transfer.StatusPending, transfer.StatusConfirmed))
	s.True(transfer.CanTransition(transfer.StatusPending, transfer.StatusFailed))
	s.True(transfer.CanTransition(transfer.StatusConfirmed, transfer.StatusRelayed))
	s.True(transfer.CanTransition(transfer.StatusConfirmed, transfer.StatusFailed))
	s.True(transfer.CanTransition(transfer.StatusRelayed, transfer.StatusCompleted))
	s.True(transfer.CanTransition(transfer.StatusRelayed, transfer.StatusFailed))
}

func (s *TransferTestSuite) Test_CanTransition_ForbiddenPaths() {
	s.False(transfer.CanTransition(transfer.StatusPending, transfer.StatusRelayed))
	s.False(transfer.CanTransition(transfer.StatusPending, transfer.StatusCompleted))
	s.False(transfer.CanTransition(transfer.StatusConfirmed, transfer.StatusCompleted))
	s.False(transfer.CanTransition(transfer.StatusRelayed, transfer.StatusConfirmed))

	for _, to := range []transfer.Status{
		transfer.StatusPending,
		transfer.StatusConfirmed,
		transfer.StatusRelayed,
		transfer.StatusCompleted,
		transfer.StatusFailed,
	} {
		s.False(transfer.CanTransition(transfer.StatusCompleted, to))
		s.False(transfer.CanTransition(transfer.StatusFailed, to))
	}
}

func (s *TransferTestSuite) Test_Clone_DoesNotShareState() {
	t := &transfer.Transfer{
		ID:     "id",
		Amount: big.NewInt(100),
		Fee:    big.NewInt(1),
		Signatures: []transfer.Signature{
			{Validator: "v1", Signature: []byte{1, 2}},
		},
		Notes: []transfer.Note{{Message: "note"}},
	}

	c := t.Clone()
	c.Amount.SetInt64(5)
	c.Signatures[0].Signature[0] = 9
	c.Notes[0].Message = "changed"

	s.Equal(int64(100), t.Amount.Int64())
	s.Equal(byte(1), t.Signatures[0].Signature[0])
	s.Equal("note", t.Notes[0].Message)
}

func (s *TransferTestSuite) Test_FailureKindOf() {
	s.Equal(transfer.FailureInsufficientQuorum, transfer.FailureKindOf(&transfer.InsufficientQuorumError{Collected: 2, Required: 3}))
	s.Equal(transfer.FailureRelay, transfer.FailureKindOf(&transfer.RelayError{Err: errors.New("rpc down")}))
	s.Equal(transfer.FailureExecution, transfer.FailureKindOf(fmt.Errorf("wrapped: %w", &transfer.ExecutionError{Err: errors.New("revert")})))
	s.Equal(transfer.FailureValidation, transfer.FailureKindOf(&transfer.ValidationError{Reason: "chain 'x' not supported"}))
	s.Equal(transfer.FailureAttestation, transfer.FailureKindOf(&transfer.AttestationError{Err: errors.New("disk full")}))
}

func (s *TransferTestSuite) Test_ValidationError_UnwrapsUnsupportedChain() {
	err := error(&transfer.ValidationError{
		Reason: "chain 'x' not supported",
		Err:    &transfer.UnsupportedChainError{Chain: "x"},
	})

	var chainErr *transfer.UnsupportedChainError
	s.True(errors.As(err, &chainErr))
	s.Equal("x", chainErr.Chain)
}

func (s *TransferTestSuite) Test_ExecutionError_MessageIsVerbatim() {
	err := &transfer.ExecutionError{Relayer: "r1", Err: errors.New("target reverted")}

	s.Equal("target reverted", err.Error())
}
