package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog/log"
	"github.com/sprintertech/sprinter-bridge/events"
	"github.com/sprintertech/sprinter-bridge/transfer"
)

const (
	SIGNATURE_TTL = time.Minute * 10
	EVENT_BUFFER  = 256
)

type EventSource interface {
	Subscribe(buffer int) *events.Subscription
	Unsubscribe(sub *events.Subscription)
}

// AttestationCache keeps the quorum signatures of recently confirmed transfers
// and notifies subscribers waiting on them.
type AttestationCache struct {
	sigCache *ttlcache.Cache[string, []transfer.Signature]

	lock        sync.Mutex
	subscribers map[string][]chan []transfer.Signature
}

func NewAttestationCache(ctx context.Context, source EventSource) *AttestationCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []transfer.Signature](SIGNATURE_TTL),
	)

	ac := &AttestationCache{
		sigCache:    cache,
		subscribers: make(map[string][]chan []transfer.Signature),
	}

	sub := source.Subscribe(EVENT_BUFFER)
	go cache.Start()
	go ac.watch(ctx, source, sub)
	return ac
}

func (c *AttestationCache) Signatures(id string) ([]transfer.Signature, error) {
	sigs := c.sigCache.Get(id)
	if sigs == nil {
		return nil, fmt.Errorf("no signatures found for transfer %s", id)
	}

	return sigs.Value(), nil
}

// Subscribe sends the transfer signatures to sigChn once they are available.
// sigChn must be buffered. The subscription is dropped when ctx is done.
func (c *AttestationCache) Subscribe(ctx context.Context, id string, sigChn chan []transfer.Signature) {
	c.lock.Lock()
	defer c.lock.Unlock()

	sigs := c.sigCache.Get(id)
	if sigs != nil {
		select {
		case sigChn <- sigs.Value():
		default:
		}
		return
	}

	c.subscribers[id] = append(c.subscribers[id], sigChn)
	go func() {
		<-ctx.Done()
		c.unsubscribe(id, sigChn)
	}()
}

func (c *AttestationCache) unsubscribe(id string, sigChn chan []transfer.Signature) {
	c.lock.Lock()
	defer c.lock.Unlock()

	subscribers := c.subscribers[id]
	for i, ch := range subscribers {
		if ch == sigChn {
			subscribers = append(subscribers[:i], subscribers[i+1:]...)
			break
		}
	}
	if len(subscribers) == 0 {
		delete(c.subscribers, id)
		return
	}
	c.subscribers[id] = subscribers
}

func (c *AttestationCache) set(id string, sigs []transfer.Signature) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.sigCache.Set(id, sigs, ttlcache.DefaultTTL)
	for _, ch := range c.subscribers[id] {
		select {
		case ch <- sigs:
		default:
			log.Warn().Str("transferID", id).Msgf("Signature subscriber not ready")
		}
	}
	delete(c.subscribers, id)
}

func (c *AttestationCache) watch(ctx context.Context, source EventSource, sub *events.Subscription) {
	for {
		select {
		case e, ok := <-sub.C():
			{
				if !ok {
					c.sigCache.Stop()
					return
				}
				if e.Type != events.TransferValidated || e.Transfer == nil {
					continue
				}

				log.Debug().Msgf("Received signatures for transfer: %s", e.Transfer.ID)
				c.set(e.Transfer.ID, e.Transfer.Signatures)
			}
		case <-ctx.Done():
			{
				c.sigCache.Stop()
				source.Unsubscribe(sub)
				return
			}
		}
	}
}
