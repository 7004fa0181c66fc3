package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

var ErrUnknownSubmission = errors.New("source submission outcome unknown")

type Receipt struct {
	GasUsed   uint64
	Signature string
}

// Executor performs the two chain side steps of a relay
type Executor interface {
	SubmitSource(ctx context.Context, relayer string, t *transfer.Transfer) (Receipt, error)
	ExecuteTarget(ctx context.Context, relayer string, t *transfer.Transfer) error
}

type Ledger interface {
	AssignRelayer(id string, relayer string) error
	MarkRelayed(id string, relayer string, relaySignature string, gasUsed uint64) (*transfer.Transfer, error)
	Complete(id string) (*transfer.Transfer, error)
	Fail(id string, cause error) (*transfer.Transfer, error)
	AddNote(id string, message string) error
}

// Notifier is called with every transfer the dispatcher moved to a new status
type Notifier func(t *transfer.Transfer)

type Config struct {
	Concurrency    int
	SubmitTimeout  time.Duration
	ExecuteTimeout time.Duration
	// GasCeilings bounds the gas a source chain submission may use
	GasCeilings map[string]uint64
}

// Dispatcher drives confirmed transfers through source submission and target
// execution. Transfers are dequeued in enqueue order and processed by at most
// Concurrency workers. Failed steps are never retried.
type Dispatcher struct {
	ledger   Ledger
	executor Executor
	selector Selector
	relayers func() []string
	notify   Notifier
	config   Config
	queue    *queue
}

func NewDispatcher(
	ledger Ledger,
	executor Executor,
	selector Selector,
	relayers func() []string,
	notify Notifier,
	config Config,
) *Dispatcher {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if notify == nil {
		notify = func(t *transfer.Transfer) {}
	}

	return &Dispatcher{
		ledger:   ledger,
		executor: executor,
		selector: selector,
		relayers: relayers,
		notify:   notify,
		config:   config,
		queue:    newQueue(),
	}
}

// Enqueue adds a confirmed or relayed transfer to the relay queue
func (d *Dispatcher) Enqueue(t *transfer.Transfer) {
	d.queue.push(t.Clone())
}

func (d *Dispatcher) QueueDepth() int {
	return d.queue.len()
}

// Run processes the queue until ctx is cancelled. Transfers interrupted by
// the cancellation keep their last status and queued transfers are dropped.
func (d *Dispatcher) Run(ctx context.Context) {
	p := pool.New().WithMaxGoroutines(d.config.Concurrency)
	for {
		t, ok := d.queue.pop(ctx)
		if !ok {
			break
		}

		p.Go(func() {
			d.process(ctx, t)
		})
	}
	p.Wait()

	dropped := d.queue.clear()
	log.Info().Msgf("Relay dispatcher stopped with %d queued transfers", dropped)
}

func (d *Dispatcher) process(ctx context.Context, t *transfer.Transfer) {
	logger := log.With().Str("transferID", t.ID).Logger()
	if ctx.Err() != nil {
		logger.Debug().Msgf("Relay abandoned before start")
		return
	}

	switch t.Status {
	case transfer.StatusConfirmed:
		if t.Relayer != "" {
			// relayer assigned by an earlier run, the source submission may already have landed
			d.fail(ctx, t.ID, &transfer.RelayError{
				Relayer: t.Relayer,
				Err:     ErrUnknownSubmission,
			})
			return
		}

		relayed, err := d.submit(ctx, t)
		if err != nil {
			d.fail(ctx, t.ID, err)
			return
		}

		d.notify(relayed)
		t = relayed
	case transfer.StatusRelayed:
		logger.Info().Msgf("Resuming target execution with relayer %s", t.Relayer)
	default:
		logger.Warn().Msgf("Skipping transfer in status %s", t.Status)
		return
	}

	relayer := t.Relayer
	executeCtx, cancel := context.WithTimeout(ctx, d.config.ExecuteTimeout)
	defer cancel()
	err := d.executor.ExecuteTarget(executeCtx, relayer, t)
	if err != nil {
		d.fail(ctx, t.ID, &transfer.ExecutionError{Relayer: relayer, Err: err})
		return
	}

	completed, err := d.ledger.Complete(t.ID)
	if err != nil {
		d.fail(ctx, t.ID, &transfer.ExecutionError{
			Relayer: relayer,
			Err:     fmt.Errorf("failed recording completion: %w", err),
		})
		return
	}
	logger.Info().Msgf("Transfer completed by relayer %s", relayer)
	d.notify(completed)
}

// submit selects a relayer and submits the transfer on the source chain.
func (d *Dispatcher) submit(ctx context.Context, t *transfer.Transfer) (*transfer.Transfer, error) {
	relayer, err := d.selector.SelectRelayer(d.relayers())
	if err != nil {
		return nil, &transfer.RelayError{Err: err}
	}
	err = d.ledger.AssignRelayer(t.ID, relayer)
	if err != nil {
		return nil, &transfer.RelayError{Relayer: relayer, Err: err}
	}
	err = d.ledger.AddNote(t.ID, fmt.Sprintf("relayer %s assigned", relayer))
	if err != nil {
		log.Err(err).Str("transferID", t.ID).Msgf("Failed adding relayer note")
	}

	submitCtx, cancel := context.WithTimeout(ctx, d.config.SubmitTimeout)
	defer cancel()
	receipt, err := d.executor.SubmitSource(submitCtx, relayer, t)
	if err != nil {
		return nil, &transfer.RelayError{Relayer: relayer, Err: err}
	}

	ceiling, ok := d.config.GasCeilings[t.SourceChain]
	if ok && receipt.GasUsed > ceiling {
		return nil, &transfer.RelayError{
			Relayer: relayer,
			Err:     fmt.Errorf("gas used %d exceeds ceiling %d of chain '%s'", receipt.GasUsed, ceiling, t.SourceChain),
		}
	}

	relayed, err := d.ledger.MarkRelayed(t.ID, relayer, receipt.Signature, receipt.GasUsed)
	if err != nil {
		return nil, &transfer.RelayError{
			Relayer: relayer,
			Err:     fmt.Errorf("failed recording relay %s: %w", receipt.Signature, err),
		}
	}
	return relayed, nil
}

func (d *Dispatcher) fail(ctx context.Context, id string, cause error) {
	if ctx.Err() != nil {
		log.Warn().Str("transferID", id).Msgf("Relay abandoned: %s", cause)
		return
	}

	failed, err := d.ledger.Fail(id, cause)
	if err != nil {
		log.Err(err).Str("transferID", id).Msgf("Failed recording relay failure")
		return
	}
	log.Warn().Str("transferID", id).Msgf("Transfer failed: %s", cause)
	d.notify(failed)
}
