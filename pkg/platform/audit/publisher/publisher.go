package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	id "hireflow/pkg/domain"
	audit "hireflow/pkg/platform/audit"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
//
// In sync mode (default) Emit writes straight through to the store. With
// WithAsyncBuffer, Emit enqueues and a background goroutine drains; a full
// buffer drops the event rather than blocking the request path.
type Publisher struct {
	store audit.Store

	inbox chan audit.Event
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous mode with the given
// buffer size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base audit.Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = audit.AuditEvent(base.Action).Category()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, base)
	}

	select {
	case p.inbox <- base:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("audit buffer full")
	}
}

func (p *Publisher) List(ctx context.Context, applicantID id.ApplicantID) ([]audit.Event, error) {
	return p.store.ListByApplicant(ctx, applicantID)
}

// Close stops the background drainer after flushing buffered events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.inbox != nil {
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for {
		select {
		case event := <-p.inbox:
			// Persistence failures are swallowed here: audit is best
			// effort in async mode and must not crash the drainer.
			_ = p.store.Append(context.Background(), event)
		case <-p.done:
			for {
				select {
				case event := <-p.inbox:
					_ = p.store.Append(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}
