package mirror

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wsmirror/wsmirror/internal/logger"
)

// Consumer is the single-threaded owner of the displayed model. Its Run
// loop drains the session's handoff channel, applies the diff engine and
// fans out the flagged result to subscribed listeners. Other goroutines
// only ever see copies.
type Consumer struct {
	mu        sync.RWMutex
	model     Model
	listeners []chan []DisplayedWorkspace
	log       zerolog.Logger
}

// NewConsumer creates an empty consumer.
func NewConsumer() *Consumer {
	return &Consumer{log: logger.WithComponent("consumer")}
}

// Bootstrap seeds the model from the startup query before the
// subscription delivers anything.
func (c *Consumer) Bootstrap(snapshot Snapshot) {
	c.mu.Lock()
	c.model.Apply(snapshot)
	c.model.ResetFlags()
	c.mu.Unlock()
}

// Run consumes snapshots until ctx is cancelled or updates is closed.
func (c *Consumer) Run(ctx context.Context, updates <-chan Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			c.apply(snapshot)
		}
	}
}

func (c *Consumer) apply(snapshot Snapshot) {
	c.mu.Lock()
	changed := c.model.Apply(snapshot)
	var published []DisplayedWorkspace
	if changed {
		published = c.snapshotLocked()
		// The publication is the repaint as far as this process is
		// concerned; the flags are consumed by it.
		c.model.ResetFlags()
	}
	c.mu.Unlock()

	if !changed {
		c.log.Debug().Msg("snapshot produced no changes, skipping publish")
		return
	}

	c.notify(published)
}

// Workspaces returns a copy of the current model, flags cleared.
func (c *Consumer) Workspaces() []DisplayedWorkspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Consumer) snapshotLocked() []DisplayedWorkspace {
	out := make([]DisplayedWorkspace, len(c.model.Workspaces))
	copy(out, c.model.Workspaces)
	return out
}

// Subscribe adds a listener for published model updates.
func (c *Consumer) Subscribe() chan []DisplayedWorkspace {
	ch := make(chan []DisplayedWorkspace, 8)
	c.mu.Lock()
	c.listeners = append(c.listeners, ch)
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (c *Consumer) Unsubscribe(ch chan []DisplayedWorkspace) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, listener := range c.listeners {
		if listener == ch {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// notify fans the published model out to all listeners, dropping for
// listeners that are not keeping up.
func (c *Consumer) notify(workspaces []DisplayedWorkspace) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, listener := range c.listeners {
		select {
		case listener <- workspaces:
		default:
			// Skip if channel is full
		}
	}
}
