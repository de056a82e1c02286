package telegram

import (
	"context"
	"time"

	"github.com/okian/aporte/pkg/logger"
	"github.com/okian/aporte/pkg/metrics"
)

// Default poller configuration constants.
const (
	defaultPollTimeout  = 30
	defaultQueueSize    = 1024
	defaultErrorBackoff = 2 * time.Second
)

// Handler processes one update.
type Handler interface {
	Handle(ctx context.Context, u Update)
}

// Poller drives long polling against the Bot API and hands updates to the
// handler through a bounded queue. When the queue is full new updates are
// dropped rather than blocking the poll loop.
type Poller struct {
	client       *Client
	handler      Handler
	pollTimeout  int
	queueSize    int
	errorBackoff time.Duration
	log          logger.Logger
}

// NewPoller creates a new update poller.
func NewPoller(client *Client, handler Handler, opts ...PollerOption) *Poller {
	p := &Poller{
		client:       client,
		handler:      handler,
		pollTimeout:  defaultPollTimeout,
		queueSize:    defaultQueueSize,
		errorBackoff: defaultErrorBackoff,
		log:          logger.Get(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run polls for updates until ctx is canceled. It returns ctx.Err() on
// shutdown so callers can distinguish cancellation from transport failures.
func (p *Poller) Run(ctx context.Context) error {
	queue := make(chan Update, p.queueSize)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for u := range queue {
			p.handler.Handle(ctx, u)
		}
	}()

	var offset int64
	for {
		select {
		case <-ctx.Done():
			close(queue)
			<-done
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				close(queue)
				<-done
				return ctx.Err()
			}
			p.log.Warn(ctx, "poll failed", logger.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(p.errorBackoff):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			select {
			case queue <- u:
			default:
				metrics.RecordTelegramDrop()
				p.log.Warn(ctx, "update queue full, dropping update",
					logger.Int64("update_id", u.UpdateID),
				)
			}
		}
	}
}
