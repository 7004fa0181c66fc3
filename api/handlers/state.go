package handlers

import (
	"net/http"
)

type ChainStatsResponse struct {
	Transfers   uint64  `json:"transfers"`
	Completed   uint64  `json:"completed"`
	Failed      uint64  `json:"failed"`
	Volume      string  `json:"volume"`
	SuccessRate float64 `json:"successRate"`
}

type StateResponse struct {
	Total      uint64                        `json:"total"`
	Active     uint64                        `json:"active"`
	Completed  uint64                        `json:"completed"`
	Failed     uint64                        `json:"failed"`
	Volume     string                        `json:"volume"`
	ChainStats map[string]ChainStatsResponse `json:"chainStats"`
}

type StateHandler struct {
	bridge Bridge
}

func NewStateHandler(bridge Bridge) *StateHandler {
	return &StateHandler{
		bridge: bridge,
	}
}

// HandleRequest returns the aggregate bridge statistics
func (h *StateHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	state := h.bridge.GetState()

	resp := StateResponse{
		Total:      state.Total,
		Active:     state.Active,
		Completed:  state.Completed,
		Failed:     state.Failed,
		Volume:     amount(state.Volume),
		ChainStats: make(map[string]ChainStatsResponse, len(state.Chains)),
	}
	for chain, stats := range state.Chains {
		resp.ChainStats[chain] = ChainStatsResponse{
			Transfers:   stats.Transfers,
			Completed:   stats.Completed,
			Failed:      stats.Failed,
			Volume:      amount(stats.Volume),
			SuccessRate: stats.SuccessRate,
		}
	}

	writeJSON(w, resp, http.StatusOK)
}
