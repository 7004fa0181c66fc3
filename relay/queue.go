package relay

import (
	"context"
	"sync"

	"github.com/sprintertech/sprinter-bridge/transfer"
)

// queue is an unbounded FIFO of transfers waiting for a relayer
type queue struct {
	lock   sync.Mutex
	items  []*transfer.Transfer
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{
		items:  make([]*transfer.Transfer, 0),
		signal: make(chan struct{}, 1),
	}
}

func (q *queue) push(t *transfer.Transfer) {
	q.lock.Lock()
	q.items = append(q.items, t)
	q.lock.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// pop blocks until a transfer is available or ctx is done
func (q *queue) pop(ctx context.Context) (*transfer.Transfer, bool) {
	for {
		q.lock.Lock()
		if len(q.items) > 0 {
			t := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.lock.Unlock()
			return t, true
		}
		q.lock.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, false
		}
	}
}

func (q *queue) len() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return len(q.items)
}

func (q *queue) clear() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	dropped := len(q.items)
	q.items = make([]*transfer.Transfer, 0)
	return dropped
}
