package handlers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/ledger"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

type TransferBody struct {
	SourceChain string  `json:"sourceChain"`
	TargetChain string  `json:"targetChain"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Asset       string  `json:"asset"`
	Amount      *BigInt `json:"amount"`
	Gas         uint64  `json:"gas"`
}

type InitiateResponse struct {
	ID string `json:"id"`
}

type SignatureResponse struct {
	Validator string `json:"validator"`
	Signature string `json:"signature"`
}

type TransferResponse struct {
	ID             string               `json:"id"`
	SourceChain    string               `json:"sourceChain"`
	TargetChain    string               `json:"targetChain"`
	From           string               `json:"from"`
	To             string               `json:"to"`
	Asset          string               `json:"asset"`
	Amount         string               `json:"amount"`
	Fee            string               `json:"fee"`
	Status         transfer.Status      `json:"status"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
	GasUsed        uint64               `json:"gasUsed"`
	Relayer        string               `json:"relayer,omitempty"`
	RelaySignature string               `json:"relaySignature,omitempty"`
	Signatures     []SignatureResponse  `json:"signatures"`
	Error          string               `json:"error,omitempty"`
	Failure        transfer.FailureKind `json:"failure,omitempty"`
	Notes          []transfer.Note      `json:"notes,omitempty"`
}

func NewSignatureResponses(sigs []transfer.Signature) []SignatureResponse {
	responses := make([]SignatureResponse, len(sigs))
	for i, sig := range sigs {
		responses[i] = SignatureResponse{
			Validator: sig.Validator,
			Signature: hex.EncodeToString(sig.Signature),
		}
	}
	return responses
}

func NewTransferResponse(t *transfer.Transfer) TransferResponse {
	return TransferResponse{
		ID:             t.ID,
		SourceChain:    t.SourceChain,
		TargetChain:    t.TargetChain,
		From:           t.Sender,
		To:             t.Receiver,
		Asset:          t.Asset,
		Amount:         amount(t.Amount),
		Fee:            amount(t.Fee),
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		GasUsed:        t.GasUsed,
		Relayer:        t.Relayer,
		RelaySignature: t.RelaySignature,
		Signatures:     NewSignatureResponses(t.Signatures),
		Error:          t.Error,
		Failure:        t.Failure,
		Notes:          t.Notes,
	}
}

type TransferHandler struct {
	bridge Bridge
}

func NewTransferHandler(bridge Bridge) *TransferHandler {
	return &TransferHandler{
		bridge: bridge,
	}
}

// HandleInitiate starts a new transfer and returns status code 202 with the
// transfer id once it is accepted
func (h *TransferHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	b := &TransferBody{}
	d := json.NewDecoder(r.Body)
	err := d.Decode(b)
	if err != nil {
		JSONError(w, fmt.Errorf("invalid request body: %s", err), http.StatusBadRequest)
		return
	}
	if b.Amount == nil {
		JSONError(w, fmt.Errorf("invalid request body: missing field 'amount'"), http.StatusBadRequest)
		return
	}

	id, err := h.bridge.InitiateTransfer(transfer.Request{
		SourceChain: b.SourceChain,
		TargetChain: b.TargetChain,
		Sender:      b.From,
		Receiver:    b.To,
		Asset:       b.Asset,
		Amount:      b.Amount.Int,
		Gas:         b.Gas,
	})
	if err != nil {
		var validationErr *transfer.ValidationError
		switch {
		case errors.As(err, &validationErr):
			JSONError(w, err, http.StatusBadRequest)
		case errors.Is(err, transfer.ErrNotRunning):
			JSONError(w, err, http.StatusServiceUnavailable)
		default:
			log.Err(err).Msgf("Failed initiating transfer")
			JSONError(w, err, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, InitiateResponse{ID: id}, http.StatusAccepted)
}

// HandleGet returns the transfer with the requested id
func (h *TransferHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, NewTransferResponse(t), http.StatusOK)
}

// HandleList returns transfers matching the query filters, most recent first
func (h *TransferHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ledger.Filter{
		Status:      transfer.Status(query.Get("status")),
		SourceChain: query.Get("sourceChain"),
		TargetChain: query.Get("targetChain"),
		Sender:      query.Get("from"),
		Receiver:    query.Get("to"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		JSONError(w, fmt.Errorf("invalid status '%s'", filter.Status), http.StatusBadRequest)
		return
	}

	transfers := h.bridge.ListTransfers(filter)
	responses := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = NewTransferResponse(t)
	}

	writeJSON(w, responses, http.StatusOK)
}
