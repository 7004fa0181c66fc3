package relay_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sprintertech/sprinter-bridge/ledger"
	mock_ledger "github.com/sprintertech/sprinter-bridge/ledger/mock"
	"github.com/sprintertech/sprinter-bridge/relay"
	mock_relay "github.com/sprintertech/sprinter-bridge/relay/mock"
	"github.com/sprintertech/sprinter-bridge/transfer"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DispatcherTestSuite struct {
	suite.Suite

	mockExecutor *mock_relay.MockExecutor
	ledger       *ledger.Ledger
	relayers     []string
	config       relay.Config

	notifyLock sync.Mutex
	notified   []transfer.Status

	dispatcher *relay.Dispatcher
	cancel     context.CancelFunc
	done       chan struct{}
}

func TestRunDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockExecutor = mock_relay.NewMockExecutor(ctrl)

	l, err := ledger.NewLedger(nil)
	s.Nil(err)
	s.ledger = l
	s.relayers = []string{"r1", "r2"}
	s.notified = nil
	s.config = relay.Config{
		Concurrency:    2,
		SubmitTimeout:  time.Second,
		ExecuteTimeout: time.Second,
		GasCeilings: map[string]uint64{
			"ethereum": 100000,
		},
	}
	s.dispatcher = nil
}

func (s *DispatcherTestSuite) TearDownTest() {
	s.stop()
}

func (s *DispatcherTestSuite) newDispatcher() *relay.Dispatcher {
	s.dispatcher = relay.NewDispatcher(
		s.ledger,
		s.mockExecutor,
		relay.NewRoundRobinSelector(),
		func() []string { return s.relayers },
		func(t *transfer.Transfer) {
			s.notifyLock.Lock()
			defer s.notifyLock.Unlock()
			s.notified = append(s.notified, t.Status)
		},
		s.config,
	)
	return s.dispatcher
}

func (s *DispatcherTestSuite) run() {
	if s.dispatcher == nil {
		s.newDispatcher()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		s.dispatcher.Run(ctx)
		close(s.done)
	}()
}

func (s *DispatcherTestSuite) stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

func (s *DispatcherTestSuite) confirmedTransfer(id string, amount int64) *transfer.Transfer {
	s.Nil(s.ledger.Insert(&transfer.Transfer{
		ID:          id,
		SourceChain: "ethereum",
		TargetChain: "kaldrix",
		Sender:      "alice",
		Receiver:    "bob",
		Amount:      big.NewInt(amount),
		Fee:         big.NewInt(1),
		Status:      transfer.StatusPending,
		CreatedAt:   time.Now(),
	}))
	t, err := s.ledger.Confirm(id, []transfer.Signature{{Validator: "v1"}})
	s.Nil(err)
	return t
}

func (s *DispatcherTestSuite) waitForStatus(id string, status transfer.Status) *transfer.Transfer {
	s.Eventually(func() bool {
		t, _ := s.ledger.Get(id)
		return t.Status == status
	}, 2*time.Second, 5*time.Millisecond)

	t, _ := s.ledger.Get(id)
	return t
}

func (s *DispatcherTestSuite) Test_Run_CompletesTransfer() {
	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), "r1", gomock.Any()).Return(relay.Receipt{
		GasUsed:   21000,
		Signature: "0xrelay",
	}, nil)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), "r1", gomock.Any()).DoAndReturn(
		func(ctx context.Context, relayer string, t *transfer.Transfer) error {
			s.Equal(transfer.StatusRelayed, t.Status)
			s.Equal("0xrelay", t.RelaySignature)
			return nil
		})

	s.run()
	s.dispatcher.Enqueue(t)

	completed := s.waitForStatus("1", transfer.StatusCompleted)
	s.Equal("r1", completed.Relayer)
	s.Equal(uint64(21000), completed.GasUsed)
	s.Equal(int64(500), s.ledger.State().Volume.Int64())
	s.Len(completed.Notes, 1)

	s.stop()
	s.Equal([]transfer.Status{transfer.StatusRelayed, transfer.StatusCompleted}, s.notified)
}

func (s *DispatcherTestSuite) Test_Run_TargetExecutionFails() {
	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(relay.Receipt{GasUsed: 21000}, nil)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("execution reverted"))

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal("execution reverted", failed.Error)
	s.Equal(transfer.FailureExecution, failed.Failure)

	state := s.ledger.State()
	s.Equal(int64(0), state.Volume.Int64())
	s.Equal(uint64(0), state.Completed)
	s.Equal(uint64(1), state.Failed)
}

func (s *DispatcherTestSuite) Test_Run_SourceSubmissionFails() {
	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(relay.Receipt{}, errors.New("nonce too low"))

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal("nonce too low", failed.Error)
	s.Equal(transfer.FailureRelay, failed.Failure)
}

func (s *DispatcherTestSuite) Test_Run_GasAboveCeilingFails() {
	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(relay.Receipt{GasUsed: 100001}, nil)

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal("gas used 100001 exceeds ceiling 100000 of chain 'ethereum'", failed.Error)
	s.Equal(transfer.FailureRelay, failed.Failure)
}

func (s *DispatcherTestSuite) Test_Run_NoRelayers() {
	s.relayers = []string{}
	t := s.confirmedTransfer("1", 500)

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal(relay.ErrNoRelayers.Error(), failed.Error)
}

func (s *DispatcherTestSuite) Test_Run_SubmitTimeoutFails() {
	s.config.SubmitTimeout = 50 * time.Millisecond
	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, relayer string, t *transfer.Transfer) (relay.Receipt, error) {
			<-ctx.Done()
			return relay.Receipt{}, ctx.Err()
		})

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal(context.DeadlineExceeded.Error(), failed.Error)
}

func (s *DispatcherTestSuite) Test_Run_ResumesRelayedAtTargetExecution() {
	s.confirmedTransfer("1", 500)
	t, err := s.ledger.MarkRelayed("1", "r2", "0xrelay", 21000)
	s.Nil(err)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), "r2", gomock.Any()).Return(nil)

	s.run()
	s.dispatcher.Enqueue(t)

	s.waitForStatus("1", transfer.StatusCompleted)
}

func (s *DispatcherTestSuite) Test_Run_ConfirmedWithAssignedRelayerIsNotResubmitted() {
	s.confirmedTransfer("1", 500)
	s.Nil(s.ledger.AssignRelayer("1", "r2"))
	t, _ := s.ledger.Get("1")
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal(transfer.FailureRelay, failed.Failure)
	s.Equal(relay.ErrUnknownSubmission.Error(), failed.Error)
	s.Equal("r2", failed.Relayer)
}

func (s *DispatcherTestSuite) Test_Run_UnrecordedRelayFailsWithoutResubmission() {
	ctrl := gomock.NewController(s.T())
	store := mock_ledger.NewMockStore(ctrl)
	store.EXPECT().Transfers().Return(nil, nil)
	relayedSaves := 0
	store.EXPECT().SaveTransfer(gomock.Any()).DoAndReturn(func(t *transfer.Transfer) error {
		if t.Status == transfer.StatusRelayed {
			relayedSaves++
			if relayedSaves == 1 {
				return errors.New("disk full")
			}
		}
		return nil
	}).AnyTimes()
	l, err := ledger.NewLedger(store)
	s.Nil(err)
	s.ledger = l

	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), "r1", gomock.Any()).Return(relay.Receipt{
		GasUsed:   21000,
		Signature: "0xrelay",
	}, nil).Times(1)

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal(transfer.FailureRelay, failed.Failure)
	s.Contains(failed.Error, "disk full")
	s.Empty(s.ledger.Unfinished())

	s.dispatcher.Enqueue(t)
	time.Sleep(20 * time.Millisecond)
	s.stop()

	stored, _ := s.ledger.Get("1")
	s.Equal(transfer.StatusFailed, stored.Status)
	s.Equal([]transfer.Status{transfer.StatusFailed}, s.notified)
}

func (s *DispatcherTestSuite) Test_Run_UnrecordedCompletionFailsTransfer() {
	ctrl := gomock.NewController(s.T())
	store := mock_ledger.NewMockStore(ctrl)
	store.EXPECT().Transfers().Return(nil, nil)
	store.EXPECT().SaveTransfer(gomock.Any()).DoAndReturn(func(t *transfer.Transfer) error {
		if t.Status == transfer.StatusCompleted {
			return errors.New("disk full")
		}
		return nil
	}).AnyTimes()
	l, err := ledger.NewLedger(store)
	s.Nil(err)
	s.ledger = l

	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(relay.Receipt{GasUsed: 21000}, nil)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	s.run()
	s.dispatcher.Enqueue(t)

	failed := s.waitForStatus("1", transfer.StatusFailed)
	s.Equal(transfer.FailureExecution, failed.Failure)
	s.Contains(failed.Error, "failed recording completion")
	s.Equal(uint64(0), s.ledger.State().Completed)
}

func (s *DispatcherTestSuite) Test_Run_UnrecordedNoteDoesNotStopRelay() {
	ctrl := gomock.NewController(s.T())
	store := mock_ledger.NewMockStore(ctrl)
	store.EXPECT().Transfers().Return(nil, nil)
	store.EXPECT().SaveTransfer(gomock.Any()).DoAndReturn(func(t *transfer.Transfer) error {
		if len(t.Notes) > 0 {
			return errors.New("disk full")
		}
		return nil
	}).AnyTimes()
	l, err := ledger.NewLedger(store)
	s.Nil(err)
	s.ledger = l

	t := s.confirmedTransfer("1", 500)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).Return(relay.Receipt{GasUsed: 21000}, nil)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	s.run()
	s.dispatcher.Enqueue(t)

	completed := s.waitForStatus("1", transfer.StatusCompleted)
	s.Empty(completed.Notes)
}

func (s *DispatcherTestSuite) Test_Run_DequeuesInEnqueueOrder() {
	s.config.Concurrency = 1
	s.newDispatcher()

	order := make([]string, 0)
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, relayer string, t *transfer.Transfer) (relay.Receipt, error) {
			order = append(order, t.ID)
			return relay.Receipt{}, nil
		}).Times(3)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

	for _, id := range []string{"c", "a", "b"} {
		s.dispatcher.Enqueue(s.confirmedTransfer(id, 1))
	}
	s.Equal(3, s.dispatcher.QueueDepth())
	s.run()

	s.waitForStatus("b", transfer.StatusCompleted)
	s.Equal([]string{"c", "a", "b"}, order)
	s.Equal(0, s.dispatcher.QueueDepth())
}

func (s *DispatcherTestSuite) Test_Run_BoundedConcurrency() {
	var running, maxRunning int64
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, relayer string, t *transfer.Transfer) (relay.Receipt, error) {
			current := atomic.AddInt64(&running, 1)
			for {
				peak := atomic.LoadInt64(&maxRunning)
				if current <= peak || atomic.CompareAndSwapInt64(&maxRunning, peak, current) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return relay.Receipt{}, nil
		}).Times(6)
	s.mockExecutor.EXPECT().ExecuteTarget(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(6)

	s.run()
	for i := 0; i < 6; i++ {
		s.dispatcher.Enqueue(s.confirmedTransfer(fmt.Sprint(i), 1))
	}

	s.Eventually(func() bool {
		return s.ledger.State().Completed == 6
	}, 2*time.Second, 5*time.Millisecond)
	s.LessOrEqual(atomic.LoadInt64(&maxRunning), int64(2))
}

func (s *DispatcherTestSuite) Test_Run_StopAbandonsInFlightTransfer() {
	t := s.confirmedTransfer("1", 500)
	started := make(chan struct{})
	s.mockExecutor.EXPECT().SubmitSource(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, relayer string, t *transfer.Transfer) (relay.Receipt, error) {
			close(started)
			<-ctx.Done()
			return relay.Receipt{}, ctx.Err()
		})

	s.run()
	s.dispatcher.Enqueue(t)
	<-started
	s.stop()

	stored, _ := s.ledger.Get("1")
	s.Equal(transfer.StatusConfirmed, stored.Status)
	s.Equal(uint64(1), s.ledger.State().Active)
}

func (s *DispatcherTestSuite) Test_Run_StopDropsQueuedTransfers() {
	s.newDispatcher()
	s.dispatcher.Enqueue(s.confirmedTransfer("1", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.dispatcher.Run(ctx)

	s.Equal(0, s.dispatcher.QueueDepth())
	stored, _ := s.ledger.Get("1")
	s.Equal(transfer.StatusConfirmed, stored.Status)
}

type DispatcherLedgerTestSuite struct {
	suite.Suite

	mockExecutor *mock_relay.MockExecutor
	mockLedger   *mock_relay.MockLedger
}

func TestRunDispatcherLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherLedgerTestSuite))
}

func (s *DispatcherLedgerTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.mockExecutor = mock_relay.NewMockExecutor(ctrl)
	s.mockLedger = mock_relay.NewMockLedger(ctrl)
}

func (s *DispatcherLedgerTestSuite) Test_Run_TransferDecidedElsewhereIsNotSubmitted() {
	done := make(chan struct{})
	s.mockLedger.EXPECT().AssignRelayer("1", "r1").DoAndReturn(func(id, relayer string) error {
		defer close(done)
		return transfer.ErrInvalidTransition
	})
	s.mockLedger.EXPECT().Fail("1", gomock.Any()).Return(nil, transfer.ErrInvalidTransition)

	d := relay.NewDispatcher(
		s.mockLedger,
		s.mockExecutor,
		relay.NewRoundRobinSelector(),
		func() []string { return []string{"r1"} },
		nil,
		relay.Config{SubmitTimeout: time.Second, ExecuteTimeout: time.Second},
	)
	d.Enqueue(&transfer.Transfer{ID: "1", Status: transfer.StatusConfirmed})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(stopped)
	}()
	<-done
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-stopped
}
