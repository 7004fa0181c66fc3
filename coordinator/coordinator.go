package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/attestation"
	"github.com/sprintertech/sprinter-bridge/events"
	"github.com/sprintertech/sprinter-bridge/ledger"
	"github.com/sprintertech/sprinter-bridge/relay"
	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/sprintertech/sprinter-bridge/validation"
)

var ErrQuorumUnreachable = errors.New("validator set would fall below quorum threshold")

// Coordinator is the entry point of the bridge. It validates and records new
// transfers and drives them through attestation and relay in the background
// while running.
//
// Stopping cancels in-flight attestation and relay work. Interrupted transfers
// keep their last non-terminal status and are resumed by the next Start.
type Coordinator struct {
	// lifecycle serializes Start and Stop
	lifecycle  sync.Mutex
	lock       sync.RWMutex
	running    bool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	validators map[string]struct{}
	relayers   map[string]struct{}

	threshold      int
	healthInterval time.Duration

	ledger     *ledger.Ledger
	validator  *validation.Validator
	fees       feeSchedule
	collector  *attestation.Collector
	dispatcher *relay.Dispatcher
	emitter    *events.Emitter
	metrics    Metrics
}

type feeSchedule interface {
	Fee(amount *big.Int, sourceChain, targetChain string) (*big.Int, error)
}

func NewCoordinator(
	config Config,
	l *ledger.Ledger,
	signer attestation.Signer,
	verifier attestation.Verifier,
	executor relay.Executor,
	selector relay.Selector,
	emitter *events.Emitter,
	metrics Metrics,
) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid coordinator config: %w", err)
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if selector == nil {
		selector = relay.NewRoundRobinSelector()
	}

	c := &Coordinator{
		validators:     unique(config.Validators),
		relayers:       unique(config.Relayers),
		threshold:      config.Threshold,
		healthInterval: config.HealthInterval,
		ledger:         l,
		validator:      validation.NewValidator(config.GasCeilings),
		fees:           config.Fees,
		emitter:        emitter,
		metrics:        metrics,
	}
	c.collector = attestation.NewCollector(l, signer, verifier, attestation.Config{
		Threshold:           config.Threshold,
		Timeout:             config.AttestationTimeout,
		SolicitationTimeout: config.SolicitationTimeout,
		ConfirmationDelays:  config.ConfirmationDelays,
	})
	c.dispatcher = relay.NewDispatcher(l, executor, selector, c.Relayers, c.publishTransfer, relay.Config{
		Concurrency:    config.RelayConcurrency,
		SubmitTimeout:  config.SubmitTimeout,
		ExecuteTimeout: config.ExecuteTimeout,
		GasCeilings:    config.GasCeilings,
	})
	return c, nil
}

// Start launches the relay dispatcher and the health loop and resumes every
// unfinished transfer. Starting a running coordinator is a no-op.
func (c *Coordinator) Start() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.lock.Lock()
	if c.running {
		c.lock.Unlock()
		c.warn("coordinator already running")
		return
	}
	unfinished := c.ledger.Unfinished()
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.running = true
	c.wg.Add(2)
	go func(ctx context.Context) {
		defer c.wg.Done()
		c.dispatcher.Run(ctx)
	}(c.ctx)
	go func(ctx context.Context) {
		defer c.wg.Done()
		c.healthLoop(ctx)
	}(c.ctx)
	c.lock.Unlock()

	c.resume(unfinished)

	log.Info().Msgf("Bridge coordinator started")
	c.emitter.Publish(events.Event{Type: events.Started})
}

// Stop stops accepting transfers and waits until in-flight work is abandoned.
// Stopping a stopped coordinator is a no-op.
func (c *Coordinator) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.lock.Lock()
	if !c.running {
		c.lock.Unlock()
		c.warn("coordinator already stopped")
		return
	}
	c.running = false
	c.cancel()
	c.lock.Unlock()

	c.wg.Wait()

	log.Info().Msgf("Bridge coordinator stopped")
	c.emitter.Publish(events.Event{Type: events.Stopped})
}

func (c *Coordinator) IsRunning() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.running
}

// InitiateTransfer validates the request, computes its fee and records a
// pending transfer. Attestation continues asynchronously.
func (c *Coordinator) InitiateTransfer(req transfer.Request) (string, error) {
	if !c.IsRunning() {
		return "", transfer.ErrNotRunning
	}

	err := c.validator.ValidateRequest(req)
	if err != nil {
		return "", err
	}
	fee, err := c.fees.Fee(req.Amount, req.SourceChain, req.TargetChain)
	if err != nil {
		return "", err
	}

	now := time.Now()
	t := &transfer.Transfer{
		ID:          uuid.New().String(),
		SourceChain: req.SourceChain,
		TargetChain: req.TargetChain,
		Sender:      req.Sender,
		Receiver:    req.Receiver,
		Asset:       req.Asset,
		Amount:      new(big.Int).Set(req.Amount),
		Fee:         fee,
		Status:      transfer.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = c.ledger.Insert(t)
	if err != nil {
		return "", err
	}

	log.Info().Str("transferID", t.ID).Msgf(
		"Initiated transfer of %s %s from %s to %s with fee %s", t.Amount, t.Asset, t.SourceChain, t.TargetChain, t.Fee)
	c.publishTransfer(t)
	c.spawn(func(ctx context.Context) {
		c.attest(ctx, t)
	})
	return t.ID, nil
}

func (c *Coordinator) GetTransfer(id string) (*transfer.Transfer, error) {
	return c.ledger.Get(id)
}

func (c *Coordinator) ListTransfers(filter ledger.Filter) []*transfer.Transfer {
	return c.ledger.List(filter)
}

func (c *Coordinator) GetState() ledger.State {
	return c.ledger.State()
}

// AddNote appends an audit note to the transfer
func (c *Coordinator) AddNote(id string, message string) error {
	return c.ledger.AddNote(id, message)
}

func (c *Coordinator) Subscribe(buffer int) *events.Subscription {
	return c.emitter.Subscribe(buffer)
}

func (c *Coordinator) Unsubscribe(sub *events.Subscription) {
	c.emitter.Unsubscribe(sub)
}

// Validators returns the current validator set, sorted
func (c *Coordinator) Validators() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return sortedKeys(c.validators)
}

// Relayers returns the current relayer set, sorted
func (c *Coordinator) Relayers() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return sortedKeys(c.relayers)
}

// AddValidator returns false if the validator is already in the set
func (c *Coordinator) AddValidator(id string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return add(c.validators, id)
}

// RemoveValidator refuses to shrink the validator set below the quorum threshold
func (c *Coordinator) RemoveValidator(id string) (bool, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.validators[id]; !ok {
		return false, nil
	}
	if len(c.validators)-1 < c.threshold {
		return false, fmt.Errorf("%w: removing %s leaves %d of %d", ErrQuorumUnreachable, id, len(c.validators)-1, c.threshold)
	}

	delete(c.validators, id)
	return true, nil
}

func (c *Coordinator) AddRelayer(id string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return add(c.relayers, id)
}

// RemoveRelayer takes effect for subsequent relays only
func (c *Coordinator) RemoveRelayer(id string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.relayers[id]; !ok {
		return false
	}
	delete(c.relayers, id)
	return true
}

// Health returns a snapshot of the coordinator
func (c *Coordinator) Health() events.HealthSnapshot {
	c.lock.RLock()
	running := c.running
	validators := len(c.validators)
	relayers := len(c.relayers)
	c.lock.RUnlock()

	return events.HealthSnapshot{
		Running:         running,
		ActiveTransfers: c.ledger.State().Active,
		QueueDepth:      c.dispatcher.QueueDepth(),
		Validators:      validators,
		Relayers:        relayers,
		Timestamp:       time.Now(),
	}
}

func (c *Coordinator) healthLoop(ctx context.Context) {
	ticker := time.NewTicker(c.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			{
				snapshot := c.Health()
				c.metrics.TrackHealth(snapshot)
				c.emitter.Publish(events.Event{
					Type:   events.HealthCheck,
					Health: &snapshot,
				})
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Coordinator) attest(ctx context.Context, t *transfer.Transfer) {
	c.metrics.StartAttestation(t.ID)
	attested, err := c.collector.Attest(ctx, t, c.Validators())
	if err != nil {
		if ctx.Err() != nil {
			log.Debug().Str("transferID", t.ID).Msgf("Attestation interrupted by stop")
			return
		}
		log.Err(err).Str("transferID", t.ID).Msgf("Failed attesting transfer")
		c.metrics.EndAttestation(t.ID)
		c.fail(t.ID, &transfer.AttestationError{Err: err})
		return
	}
	c.metrics.EndAttestation(t.ID)

	c.publishTransfer(attested)
	if attested.Status == transfer.StatusConfirmed {
		c.enqueue(attested)
	}
}

// resume picks up transfers left unfinished by a previous stop or restart
func (c *Coordinator) resume(unfinished []*transfer.Transfer) {
	for _, t := range unfinished {
		switch t.Status {
		case transfer.StatusPending:
			// chains may have been removed from the configuration since the transfer was initiated
			err := c.validator.ValidateRequest(t.Request())
			if err != nil {
				c.fail(t.ID, err)
				continue
			}
			c.spawn(func(ctx context.Context) {
				c.attest(ctx, t)
			})
		case transfer.StatusConfirmed, transfer.StatusRelayed:
			c.enqueue(t)
		default:
			continue
		}

		log.Info().Str("transferID", t.ID).Msgf("Resuming %s transfer", t.Status)
		err := c.ledger.AddNote(t.ID, fmt.Sprintf("resumed in status %s", t.Status))
		if err != nil {
			log.Err(err).Str("transferID", t.ID).Msgf("Failed adding resume note")
		}
	}
}

// fail records a post-creation failure as the terminal status of a transfer
func (c *Coordinator) fail(id string, cause error) {
	failed, err := c.ledger.Fail(id, cause)
	if err != nil {
		log.Err(err).Str("transferID", id).Msgf("Failed recording transfer failure")
		return
	}
	log.Warn().Str("transferID", id).Msgf("Transfer failed: %s", cause)
	c.publishTransfer(failed)
}

// spawn runs f in the background until the coordinator stops. It returns
// false when the coordinator is not running.
func (c *Coordinator) spawn(f func(ctx context.Context)) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if !c.running {
		return false
	}

	c.wg.Add(1)
	go func(ctx context.Context) {
		defer c.wg.Done()
		f(ctx)
	}(c.ctx)
	return true
}

// enqueue hands the transfer to the dispatcher while running. Transfers
// refused here are picked up by resume on the next start.
func (c *Coordinator) enqueue(t *transfer.Transfer) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if !c.running {
		return false
	}
	c.dispatcher.Enqueue(t)
	return true
}

func (c *Coordinator) publishTransfer(t *transfer.Transfer) {
	c.metrics.TrackTransfer(t)

	var eventType events.Type
	switch t.Status {
	case transfer.StatusPending:
		eventType = events.TransferInitiated
	case transfer.StatusConfirmed:
		eventType = events.TransferValidated
	case transfer.StatusRelayed:
		eventType = events.TransferRelayed
	case transfer.StatusCompleted:
		eventType = events.TransferCompleted
	case transfer.StatusFailed:
		eventType = events.TransferFailed
	default:
		return
	}
	c.emitter.Publish(events.Event{
		Type:     eventType,
		Transfer: t,
	})
}

func (c *Coordinator) warn(message string) {
	log.Warn().Msg(message)
	c.emitter.Publish(events.Event{
		Type:    events.Warning,
		Message: message,
	})
}

func add(set map[string]struct{}, id string) bool {
	if _, ok := set[id]; ok {
		return false
	}
	set[id] = struct{}{}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
