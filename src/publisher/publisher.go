package publisher

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gossipbox/gossipbox/src/data"
	"github.com/gossipbox/gossipbox/src/types"
)

const defaultSendTimeout = 30 * time.Second

// Store is the slice of persistence the publisher needs.
type Store interface {
	ListByStatus(ctx context.Context, status string, limit int, oldestFirst bool) ([]types.Submission, error)
	SetStatus(ctx context.Context, id uint64, expected, next string) error
}

// Sender posts one submission text to the public channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Publisher drains approved submissions to the channel on a fixed interval.
// Each tick picks the oldest approved batch, sends item by item, and marks
// each sent item published through the store's conditional update, so a
// submission is never posted twice even when ticks race moderator actions.
type Publisher struct {
	store       Store
	sender      Sender
	interval    time.Duration
	batchLimit  int
	sendTimeout time.Duration
}

func New(store Store, sender Sender, interval time.Duration, batchLimit int) *Publisher {
	if batchLimit < 1 {
		batchLimit = 1
	}
	return &Publisher{
		store:       store,
		sender:      sender,
		interval:    interval,
		batchLimit:  batchLimit,
		sendTimeout: defaultSendTimeout,
	}
}

// Run blocks until ctx is cancelled. Ticks execute synchronously inside the
// loop, so a slow tick can never overlap the next one; time.Ticker drops the
// intervals missed in the meantime.
func (p *Publisher) Run(ctx context.Context) {
	if p.interval <= 0 {
		log.Println("publisher: disabled (poll interval is zero)")
		return
	}
	log.Printf("publisher: enabled, interval=%s batch_limit=%d", p.interval, p.batchLimit)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("publisher: stopping")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick publishes one batch. A failed send leaves that submission approved
// for the next tick and never aborts the rest of the batch.
func (p *Publisher) Tick(ctx context.Context) {
	batch, err := p.store.ListByStatus(ctx, types.StatusApproved, p.batchLimit, true)
	if err != nil {
		log.Printf("publisher: list approved: %v", err)
		return
	}

	for _, sub := range batch {
		if ctx.Err() != nil {
			return
		}
		if err := p.publishOne(ctx, sub); err != nil {
			log.Printf("publisher: submission %d: %v", sub.ID, err)
		}
	}
}

func (p *Publisher) publishOne(ctx context.Context, sub types.Submission) error {
	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	if err := p.sender.Send(sendCtx, sub.Text); err != nil {
		return err
	}

	err := p.store.SetStatus(ctx, sub.ID, types.StatusApproved, types.StatusPublished)
	if errors.Is(err, data.ErrConflict) || errors.Is(err, data.ErrNotFound) {
		// Another actor won the transition after our send; nothing to do.
		log.Printf("publisher: submission %d already transitioned", sub.ID)
		return nil
	}
	return err
}
