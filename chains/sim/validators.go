// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package sim

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/attestation"
)

// ValidatorNetwork simulates a set of validators signing transfer payloads
// with keys derived deterministically from their identities.
type ValidatorNetwork struct {
	latency  time.Duration
	dropRate float64

	lock sync.Mutex
	rand *rand.Rand
	keys map[string]*ecdsa.PrivateKey
}

func NewValidatorNetwork(latency time.Duration, dropRate float64) *ValidatorNetwork {
	return &ValidatorNetwork{
		latency:  latency,
		dropRate: dropRate,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		keys:     make(map[string]*ecdsa.PrivateKey),
	}
}

// Key returns the signing key of the validator
func (n *ValidatorNetwork) Key(validator string) (*ecdsa.PrivateKey, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	key, ok := n.keys[validator]
	if ok {
		return key, nil
	}

	key, err := crypto.ToECDSA(crypto.Keccak256([]byte(validator)))
	if err != nil {
		return nil, fmt.Errorf("failed deriving key of validator %s: %w", validator, err)
	}
	n.keys[validator] = key
	return key, nil
}

// Address implements attestation.AddressResolver for simulated validators
func (n *ValidatorNetwork) Address(validator string) (common.Address, error) {
	key, err := n.Key(validator)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Sign waits the simulated latency and signs the payload digest. Dropped
// solicitations never answer and return once ctx is done.
func (n *ValidatorNetwork) Sign(ctx context.Context, validator string, transferID string, payload []byte) ([]byte, error) {
	n.lock.Lock()
	dropped := n.rand.Float64() < n.dropRate
	latency := n.latency
	if latency > 0 {
		latency += time.Duration(n.rand.Int63n(int64(latency)))
	}
	n.lock.Unlock()

	if dropped {
		log.Debug().Str("transferID", transferID).Msgf("Validator %s not responding", validator)
		<-ctx.Done()
		return nil, ctx.Err()
	}

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	key, err := n.Key(validator)
	if err != nil {
		return nil, err
	}
	return crypto.Sign(attestation.Digest(payload), key)
}
