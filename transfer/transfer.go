package transfer

import (
	"math/big"
	"slices"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRelayed   Status = "relayed"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// transitions lists every status a transfer is allowed to move to from
// a given status. Terminal statuses have no entry.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusFailed},
	StatusConfirmed: {StatusRelayed, StatusFailed},
	StatusRelayed:   {StatusCompleted, StatusFailed},
}

// IsTerminal returns true for statuses no transfer can leave
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsValid returns true if s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRelayed, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a transfer in status from may move to status to.
func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

type FailureKind string

const (
	FailureValidation         FailureKind = "validation"
	FailureInsufficientQuorum FailureKind = "insufficient_quorum"
	FailureAttestation        FailureKind = "attestation"
	FailureRelay              FailureKind = "relay"
	FailureExecution          FailureKind = "execution"
)

// Request is a user initiated cross-chain transfer request
type Request struct {
	SourceChain string
	TargetChain string
	Sender      string
	Receiver    string
	Asset       string
	Amount      *big.Int
	// Gas is the resource usage reported by the sender for the source chain
	Gas uint64
}

type Signature struct {
	Validator string `json:"validator"`
	Signature []byte `json:"signature"`
}

type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Transfer is the full lifecycle record of a single cross-chain transfer.
type Transfer struct {
	ID          string `json:"id"`
	Sequence    uint64 `json:"sequence"`
	SourceChain string `json:"sourceChain"`
	TargetChain string `json:"targetChain"`
	Sender      string `json:"from"`
	Receiver    string `json:"to"`
	Asset       string `json:"asset"`

	Amount *big.Int `json:"amount"`
	Fee    *big.Int `json:"fee"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GasUsed        uint64      `json:"gasUsed"`
	Relayer        string      `json:"relayer,omitempty"`
	RelaySignature string      `json:"relaySignature,omitempty"`
	Signatures     []Signature `json:"signatures,omitempty"`

	Error   string      `json:"error,omitempty"`
	Failure FailureKind `json:"failure,omitempty"`
	Notes   []Note      `json:"notes,omitempty"`
}

// Request rebuilds the request a transfer was initiated from. Reported gas is not kept.
func (t *Transfer) Request() Request {
	return Request{
		SourceChain: t.SourceChain,
		TargetChain: t.TargetChain,
		Sender:      t.Sender,
		Receiver:    t.Receiver,
		Asset:       t.Asset,
		Amount:      t.Amount,
	}
}

// Clone returns a deep copy so callers never share mutable state with the ledger
func (t *Transfer) Clone() *Transfer {
	c := *t
	if t.Amount != nil {
		c.Amount = new(big.Int).Set(t.Amount)
	}
	if t.Fee != nil {
		c.Fee = new(big.Int).Set(t.Fee)
	}

	if t.Signatures != nil {
		c.Signatures = make([]Signature, len(t.Signatures))
		for i, s := range t.Signatures {
			c.Signatures[i] = Signature{
				Validator: s.Validator,
				Signature: slices.Clone(s.Signature),
			}
		}
	}
	c.Notes = slices.Clone(t.Notes)
	return &c
}
