package shard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/LerianStudio/payments-engine/payments/errgroup"
	"github.com/LerianStudio/payments-engine/payments/ledger"
	"github.com/LerianStudio/payments-engine/payments/log"
)

const queueSize = 64

var (
	// ErrInvalidWorkers is returned by NewPool when workers is below one.
	ErrInvalidWorkers = errors.New("shard: workers must be at least 1")
	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = errors.New("shard: pool closed")
	// ErrPoolStopped is returned by Submit once a shard failed or the
	// context was canceled. Close reports the cause.
	ErrPoolStopped = errors.New("shard: pool stopped")
)

// Observer is called by a shard after every applied transaction. created
// reports whether the transaction created its account. Observers run on
// shard goroutines and must be safe for concurrent use.
type Observer func(ctx context.Context, txn ledger.Transaction, created bool, err error)

type shard struct {
	in     chan ledger.Transaction
	ledger *ledger.Ledger
}

// Pool partitions clients across a fixed set of shards. Each shard owns a
// private ledger and applies its transactions in submission order, so every
// client sees its transactions serialized exactly as submitted.
//
// Submit and Close must be called from a single producer goroutine.
type Pool struct {
	shards    []*shard
	group     *errgroup.Group
	ctx       context.Context
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewPool starts workers shard goroutines.
func NewPool(ctx context.Context, workers int, observe Observer, logger log.Logger, opts ...ledger.Option) (*Pool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorkers, workers)
	}

	if observe == nil {
		observe = func(context.Context, ledger.Transaction, bool, error) {}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLogger(logger)

	p := &Pool{
		shards: make([]*shard, workers),
		group:  group,
		ctx:    groupCtx,
	}

	for i := range p.shards {
		s := &shard{
			in:     make(chan ledger.Transaction, queueSize),
			ledger: ledger.New(opts...),
		}
		p.shards[i] = s

		group.Go(func() error {
			return s.run(groupCtx, observe)
		})
	}

	return p, nil
}

func (s *shard) run(ctx context.Context, observe Observer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case txn, ok := <-s.in:
			if !ok {
				return ctx.Err()
			}

			before := s.ledger.Len()
			err := s.ledger.Apply(txn)
			observe(ctx, txn, s.ledger.Len() > before, err)
		}
	}
}

// Workers returns the number of shards.
func (p *Pool) Workers() int {
	return len(p.shards)
}

// Submit queues txn on the shard owning its client. It blocks while that
// shard's queue is full.
func (p *Pool) Submit(ctx context.Context, txn ledger.Transaction) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if p.ctx.Err() != nil {
		return ErrPoolStopped
	}

	s := p.shards[int(txn.Client())%len(p.shards)]

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	case s.in <- txn:
		return nil
	}
}

// Close stops accepting transactions, waits for every shard to drain and
// returns the merged snapshot sorted by client.
func (p *Pool) Close() ([]ledger.AccountSnapshot, error) {
	p.closeOnce.Do(func() {
		p.closed.Store(true)

		for _, s := range p.shards {
			close(s.in)
		}
	})

	if err := p.group.Wait(); err != nil {
		return nil, err
	}

	var merged []ledger.AccountSnapshot
	for _, s := range p.shards {
		merged = append(merged, s.ledger.Snapshot()...)
	}

	ledger.SortSnapshots(merged)

	return merged, nil
}
