package ledger

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

// Store persists transfer records underneath the ledger.
type Store interface {
	SaveTransfer(t *transfer.Transfer) error
	Transfers() ([]*transfer.Transfer, error)
}

type Filter struct {
	Status      transfer.Status
	SourceChain string
	TargetChain string
	Sender      string
	Receiver    string
}

func (f Filter) matches(t *transfer.Transfer) bool {
	return (f.Status == "" || t.Status == f.Status) &&
		(f.SourceChain == "" || t.SourceChain == f.SourceChain) &&
		(f.TargetChain == "" || t.TargetChain == f.TargetChain) &&
		(f.Sender == "" || t.Sender == f.Sender) &&
		(f.Receiver == "" || t.Receiver == f.Receiver)
}

// Ledger is the single owner of transfer records and the aggregate state derived
// from them. Every status change and its aggregate update happen under one lock
// and are written through to the store before they become visible.
type Ledger struct {
	lock      sync.RWMutex
	transfers map[string]*transfer.Transfer
	sequence  uint64
	state     State
	store     Store
}

// NewLedger creates a ledger and restores previously persisted records
// from the store, if one is provided.
func NewLedger(store Store) (*Ledger, error) {
	l := &Ledger{
		transfers: make(map[string]*transfer.Transfer),
		state:     newState(),
		store:     store,
	}
	if store == nil {
		return l, nil
	}

	transfers, err := store.Transfers()
	if err != nil {
		return nil, fmt.Errorf("failed loading transfers: %w", err)
	}
	for _, t := range transfers {
		l.transfers[t.ID] = t
		l.state.recordCreated(t)
		if t.Status.IsTerminal() {
			l.state.recordTerminal(t)
		}
		if t.Sequence > l.sequence {
			l.sequence = t.Sequence
		}
	}

	log.Info().Msgf("Restored %d transfers from store", len(transfers))
	return l, nil
}

// Insert stores a new pending transfer
func (l *Ledger) Insert(t *transfer.Transfer) error {
	if t.Status != transfer.StatusPending {
		return fmt.Errorf("%w: new transfer must be %s", transfer.ErrInvalidTransition, transfer.StatusPending)
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.transfers[t.ID]; ok {
		return fmt.Errorf("%w: %s", transfer.ErrAlreadyExists, t.ID)
	}

	record := t.Clone()
	record.Sequence = l.sequence + 1
	if err := l.persist(record); err != nil {
		return err
	}

	l.sequence = record.Sequence
	l.transfers[record.ID] = record
	l.state.recordCreated(record)
	return nil
}

// Get returns a copy of the transfer with the given id
func (l *Ledger) Get(id string) (*transfer.Transfer, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	t, ok := l.transfers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", transfer.ErrNotFound, id)
	}
	return t.Clone(), nil
}

// List returns copies of all transfers matching the filter, most recent first
func (l *Ledger) List(f Filter) []*transfer.Transfer {
	l.lock.RLock()
	result := make([]*transfer.Transfer, 0)
	for _, t := range l.transfers {
		if f.matches(t) {
			result = append(result, t.Clone())
		}
	}
	l.lock.RUnlock()

	slices.SortFunc(result, func(a, b *transfer.Transfer) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.Sequence > b.Sequence {
			return -1
		}
		if a.Sequence < b.Sequence {
			return 1
		}
		return 0
	})
	return result
}

// Unfinished returns all non-terminal transfers, oldest first
func (l *Ledger) Unfinished() []*transfer.Transfer {
	unfinished := make([]*transfer.Transfer, 0)
	for _, t := range l.List(Filter{}) {
		if !t.Status.IsTerminal() {
			unfinished = append(unfinished, t)
		}
	}
	slices.Reverse(unfinished)
	return unfinished
}

// State returns a snapshot of the aggregate statistics
func (l *Ledger) State() State {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.state.clone()
}

// Transition moves a transfer to status to, applying mutate to the record
// in the same critical section. Terminal transfers cannot be transitioned.
func (l *Ledger) Transition(id string, to transfer.Status, mutate func(t *transfer.Transfer)) (*transfer.Transfer, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	current, ok := l.transfers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", transfer.ErrNotFound, id)
	}
	if !transfer.CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", transfer.ErrInvalidTransition, current.Status, to)
	}

	record := current.Clone()
	if mutate != nil {
		mutate(record)
	}
	record.Status = to
	record.UpdatedAt = time.Now()

	if err := l.persist(record); err != nil {
		return nil, err
	}

	l.transfers[id] = record
	if to.IsTerminal() {
		l.state.recordTerminal(record)
	}
	return record.Clone(), nil
}

// Confirm records the quorum signatures and moves the transfer to confirmed
func (l *Ledger) Confirm(id string, signatures []transfer.Signature) (*transfer.Transfer, error) {
	return l.Transition(id, transfer.StatusConfirmed, func(t *transfer.Transfer) {
		t.Signatures = signatures
	})
}

// MarkRelayed records the source chain relay outcome
func (l *Ledger) MarkRelayed(id string, relayer string, relaySignature string, gasUsed uint64) (*transfer.Transfer, error) {
	return l.Transition(id, transfer.StatusRelayed, func(t *transfer.Transfer) {
		t.Relayer = relayer
		t.RelaySignature = relaySignature
		t.GasUsed = gasUsed
	})
}

// Complete marks the transfer completed and adds its amount to the completed volume
func (l *Ledger) Complete(id string) (*transfer.Transfer, error) {
	return l.Transition(id, transfer.StatusCompleted, nil)
}

// Fail marks the transfer failed with the error message captured verbatim
func (l *Ledger) Fail(id string, cause error) (*transfer.Transfer, error) {
	return l.Transition(id, transfer.StatusFailed, func(t *transfer.Transfer) {
		t.Error = cause.Error()
		t.Failure = transfer.FailureKindOf(cause)
	})
}

// AssignRelayer records the relayer picked for a transfer before it is relayed
func (l *Ledger) AssignRelayer(id string, relayer string) error {
	return l.update(id, func(t *transfer.Transfer) error {
		if t.Status.IsTerminal() {
			return fmt.Errorf("%w: transfer %s is %s", transfer.ErrInvalidTransition, id, t.Status)
		}
		t.Relayer = relayer
		return nil
	})
}

// AddNote appends an audit note. Notes are the only change allowed on terminal transfers.
func (l *Ledger) AddNote(id string, message string) error {
	return l.update(id, func(t *transfer.Transfer) error {
		t.Notes = append(t.Notes, transfer.Note{
			Timestamp: time.Now(),
			Message:   message,
		})
		return nil
	})
}

func (l *Ledger) update(id string, mutate func(t *transfer.Transfer) error) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	current, ok := l.transfers[id]
	if !ok {
		return fmt.Errorf("%w: %s", transfer.ErrNotFound, id)
	}

	record := current.Clone()
	if err := mutate(record); err != nil {
		return err
	}
	if err := l.persist(record); err != nil {
		return err
	}

	l.transfers[id] = record
	return nil
}

func (l *Ledger) persist(t *transfer.Transfer) error {
	if l.store == nil {
		return nil
	}

	err := l.store.SaveTransfer(t)
	if err != nil {
		return fmt.Errorf("failed persisting transfer %s: %w", t.ID, err)
	}
	return nil
}
