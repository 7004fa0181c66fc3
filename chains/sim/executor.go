// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sprintertech/sprinter-bridge/relay"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

type ExecutorConfig struct {
	Latency            time.Duration
	SubmitFailureRate  float64
	ExecuteFailureRate float64
	GasUsed            uint64
}

// RelayExecutor simulates relayers submitting transfers on the source chain
// and executing them on the target chain.
type RelayExecutor struct {
	config ExecutorConfig

	lock sync.Mutex
	rand *rand.Rand
}

func NewRelayExecutor(config ExecutorConfig) *RelayExecutor {
	return &RelayExecutor{
		config: config,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *RelayExecutor) SubmitSource(ctx context.Context, relayer string, t *transfer.Transfer) (relay.Receipt, error) {
	fail, err := e.step(ctx, e.config.SubmitFailureRate)
	if err != nil {
		return relay.Receipt{}, err
	}
	if fail {
		return relay.Receipt{}, fmt.Errorf("source submission by %s rejected on chain %s", relayer, t.SourceChain)
	}

	return relay.Receipt{
		GasUsed:   e.config.GasUsed,
		Signature: hexutil.Encode(crypto.Keccak256([]byte(relayer), []byte(t.ID))),
	}, nil
}

func (e *RelayExecutor) ExecuteTarget(ctx context.Context, relayer string, t *transfer.Transfer) error {
	fail, err := e.step(ctx, e.config.ExecuteFailureRate)
	if err != nil {
		return err
	}
	if fail {
		return fmt.Errorf("execution reverted on chain %s", t.TargetChain)
	}
	return nil
}

func (e *RelayExecutor) step(ctx context.Context, failureRate float64) (bool, error) {
	e.lock.Lock()
	fail := e.rand.Float64() < failureRate
	e.lock.Unlock()

	select {
	case <-time.After(e.config.Latency):
		return fail, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
