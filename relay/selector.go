package relay

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

var ErrNoRelayers = errors.New("no relayers available")

// Selector picks the relayer that processes the next transfer
type Selector interface {
	SelectRelayer(available []string) (string, error)
}

// RoundRobinSelector rotates through the available relayers
type RoundRobinSelector struct {
	lock sync.Mutex
	next int
}

func NewRoundRobinSelector() *RoundRobinSelector {
	return &RoundRobinSelector{}
}

func (s *RoundRobinSelector) SelectRelayer(available []string) (string, error) {
	if len(available) == 0 {
		return "", ErrNoRelayers
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	relayer := available[s.next%len(available)]
	s.next = (s.next + 1) % len(available)
	return relayer, nil
}

type RandomSelector struct {
	lock sync.Mutex
	rand *rand.Rand
}

func NewRandomSelector() *RandomSelector {
	return &RandomSelector{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RandomSelector) SelectRelayer(available []string) (string, error) {
	if len(available) == 0 {
		return "", ErrNoRelayers
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	return available[s.rand.Intn(len(available))], nil
}
