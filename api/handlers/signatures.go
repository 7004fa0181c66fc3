package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

const SIGNATURE_TIMEOUT = time.Minute * 2

type SignatureHandler struct {
	bridge Bridge
	cache  SignatureCacher
}

func NewSignatureHandler(bridge Bridge, cache SignatureCacher) *SignatureHandler {
	return &SignatureHandler{
		bridge: bridge,
		cache:  cache,
	}
}

// HandleRequest is an sse handler that waits until the transfer reaches quorum
// and returns the validator signatures
func (h *SignatureHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok || id == "" {
		JSONError(w, fmt.Errorf("missing 'id'"), http.StatusBadRequest)
		return
	}

	t, err := h.bridge.GetTransfer(id)
	if errors.Is(err, transfer.ErrNotFound) {
		JSONError(w, err, http.StatusNotFound)
		return
	}
	if err != nil {
		JSONError(w, err, http.StatusInternalServerError)
		return
	}
	if t.Status == transfer.StatusFailed && len(t.Signatures) == 0 {
		JSONError(w, fmt.Errorf("transfer %s failed: %s", id, t.Error), http.StatusConflict)
		return
	}

	h.setheaders(w)
	if len(t.Signatures) > 0 {
		h.write(w, t.Signatures)
		return
	}

	ctx := r.Context()
	sigChn := make(chan []transfer.Signature, 1)
	h.cache.Subscribe(ctx, id, sigChn)
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(SIGNATURE_TIMEOUT):
			{
				fmt.Fprintf(w, "event: timeout\ndata: {}\n\n")
				w.(http.Flusher).Flush()
				return
			}
		case sigs := <-sigChn:
			{
				h.write(w, sigs)
				return
			}
		}
	}
}

func (h *SignatureHandler) write(w http.ResponseWriter, sigs []transfer.Signature) {
	data, _ := json.Marshal(NewSignatureResponses(sigs))
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.(http.Flusher).Flush()
}

func (h *SignatureHandler) setheaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}
