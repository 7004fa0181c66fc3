package ledger

import (
	"math/big"

	"github.com/sprintertech/sprinter-bridge/transfer"
)

type ChainStats struct {
	Transfers   uint64   `json:"transfers"`
	Completed   uint64   `json:"completed"`
	Failed      uint64   `json:"failed"`
	Volume      *big.Int `json:"volume"`
	SuccessRate float64  `json:"successRate"`
}

// State holds the aggregate statistics derived from the ledger records.
// Per-chain statistics are keyed by the transfer source chain so every
// transfer is counted exactly once.
type State struct {
	Total     uint64                `json:"total"`
	Active    uint64                `json:"active"`
	Completed uint64                `json:"completed"`
	Failed    uint64                `json:"failed"`
	Volume    *big.Int              `json:"volume"`
	Chains    map[string]ChainStats `json:"chains"`
}

func newState() State {
	return State{
		Volume: new(big.Int),
		Chains: make(map[string]ChainStats),
	}
}

func (s *State) chain(name string) ChainStats {
	stats, ok := s.Chains[name]
	if !ok {
		stats = ChainStats{Volume: new(big.Int)}
	}
	return stats
}

func (s *State) recordCreated(t *transfer.Transfer) {
	s.Total++
	s.Active++

	stats := s.chain(t.SourceChain)
	stats.Transfers++
	s.Chains[t.SourceChain] = stats
}

func (s *State) recordTerminal(t *transfer.Transfer) {
	s.Active--
	stats := s.chain(t.SourceChain)

	switch t.Status {
	case transfer.StatusCompleted:
		s.Completed++
		s.Volume.Add(s.Volume, t.Amount)
		stats.Completed++
		stats.Volume = new(big.Int).Add(stats.Volume, t.Amount)
	case transfer.StatusFailed:
		s.Failed++
		stats.Failed++
	}

	finished := stats.Completed + stats.Failed
	if finished > 0 {
		stats.SuccessRate = float64(stats.Completed) / float64(finished)
	}
	s.Chains[t.SourceChain] = stats
}

func (s State) clone() State {
	c := State{
		Total:     s.Total,
		Active:    s.Active,
		Completed: s.Completed,
		Failed:    s.Failed,
		Volume:    new(big.Int).Set(s.Volume),
		Chains:    make(map[string]ChainStats, len(s.Chains)),
	}
	for name, stats := range s.Chains {
		stats.Volume = new(big.Int).Set(stats.Volume)
		c.Chains[name] = stats
	}
	return c
}
