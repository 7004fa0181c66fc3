// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sim_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/sprintertech/sprinter-bridge/attestation"
	"github.com/sprintertech/sprinter-bridge/chains/sim"
	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/stretchr/testify/suite"
)

type ValidatorNetworkTestSuite struct {
	suite.Suite

	payload []byte
}

func TestRunValidatorNetworkTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorNetworkTestSuite))
}

func (s *ValidatorNetworkTestSuite) SetupTest() {
	payload, err := attestation.Payload(&transfer.Transfer{
		ID:     "1",
		Amount: big.NewInt(100),
		Fee:    big.NewInt(1),
	})
	s.Nil(err)
	s.payload = payload
}

func (s *ValidatorNetworkTestSuite) Test_Sign_VerifiableSignature() {
	network := sim.NewValidatorNetwork(0, 0)
	verifier := attestation.NewECDSAVerifier(network)

	sig, err := network.Sign(context.Background(), "v1", "1", s.payload)

	s.Nil(err)
	s.True(verifier.Verify("v1", s.payload, sig))
	s.False(verifier.Verify("v2", s.payload, sig))
}

func (s *ValidatorNetworkTestSuite) Test_Address_Deterministic() {
	first, err := sim.NewValidatorNetwork(0, 0).Address("v1")
	s.Nil(err)
	second, err := sim.NewValidatorNetwork(0, 0).Address("v1")
	s.Nil(err)
	other, err := sim.NewValidatorNetwork(0, 0).Address("v2")
	s.Nil(err)

	s.Equal(first, second)
	s.NotEqual(first, other)
}

func (s *ValidatorNetworkTestSuite) Test_Sign_DroppedWaitsForContext() {
	network := sim.NewValidatorNetwork(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := network.Sign(ctx, "v1", "1", s.payload)

	s.True(errors.Is(err, context.DeadlineExceeded))
}

type RelayExecutorTestSuite struct {
	suite.Suite

	transfer *transfer.Transfer
}

func TestRunRelayExecutorTestSuite(t *testing.T) {
	suite.Run(t, new(RelayExecutorTestSuite))
}

func (s *RelayExecutorTestSuite) SetupTest() {
	s.transfer = &transfer.Transfer{ID: "1", SourceChain: "ethereum", TargetChain: "kaldrix"}
}

func (s *RelayExecutorTestSuite) Test_Success() {
	executor := sim.NewRelayExecutor(sim.ExecutorConfig{GasUsed: 21000})

	receipt, err := executor.SubmitSource(context.Background(), "r1", s.transfer)
	s.Nil(err)
	s.Equal(uint64(21000), receipt.GasUsed)
	s.NotEmpty(receipt.Signature)

	s.Nil(executor.ExecuteTarget(context.Background(), "r1", s.transfer))
}

func (s *RelayExecutorTestSuite) Test_Failures() {
	executor := sim.NewRelayExecutor(sim.ExecutorConfig{
		SubmitFailureRate:  1,
		ExecuteFailureRate: 1,
	})

	_, err := executor.SubmitSource(context.Background(), "r1", s.transfer)
	s.NotNil(err)

	err = executor.ExecuteTarget(context.Background(), "r1", s.transfer)
	s.Equal("execution reverted on chain kaldrix", err.Error())
}

func (s *RelayExecutorTestSuite) Test_Timeout() {
	executor := sim.NewRelayExecutor(sim.ExecutorConfig{Latency: time.Second})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := executor.SubmitSource(ctx, "r1", s.transfer)

	s.True(errors.Is(err, context.DeadlineExceeded))
}
