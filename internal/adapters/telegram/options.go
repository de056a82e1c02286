package telegram

import (
	"net/http"
	"time"

	"github.com/okian/aporte/pkg/logger"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the Bot API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRankingRows caps the rows shown by the /ranking reply.
func WithRankingRows(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.rankingRows = n
		}
	}
}

// WithHistoryRows caps the periods shown by the /history reply.
func WithHistoryRows(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.historyRows = n
		}
	}
}

// WithRouterLogger overrides the router's logger.
func WithRouterLogger(log logger.Logger) RouterOption {
	return func(r *Router) {
		r.log = log
	}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollTimeout sets the long poll timeout in seconds.
func WithPollTimeout(seconds int) PollerOption {
	return func(p *Poller) {
		if seconds > 0 {
			p.pollTimeout = seconds
		}
	}
}

// WithQueueSize sets the bounded update queue capacity.
func WithQueueSize(n int) PollerOption {
	return func(p *Poller) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

// WithErrorBackoff sets the delay before retrying a failed poll.
func WithErrorBackoff(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.errorBackoff = d
		}
	}
}

// WithPollerLogger overrides the poller's logger.
func WithPollerLogger(log logger.Logger) PollerOption {
	return func(p *Poller) {
		p.log = log
	}
}
