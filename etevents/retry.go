package etevents

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy computes the delay before each retry of the event at the head of the queue. It is
// only used by the delivery worker goroutine.
type retryPolicy struct {
	backoff       *backoff.ExponentialBackOff
	maxRetryDelay time.Duration
}

func newRetryPolicy(config EventsConfiguration) *retryPolicy {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.BaseRetryDelay
	b.MaxInterval = config.MaxRetryDelay
	b.RandomizationFactor = config.RetryJitter
	b.Multiplier = 2
	b.MaxElapsedTime = 0 // attempts are bounded by count, not by time
	b.Reset()
	return &retryPolicy{backoff: b, maxRetryDelay: config.MaxRetryDelay}
}

// nextDelay returns the delay before the next attempt. A Retry-After value from the service is
// honored when it is longer than the computed delay, up to the configured maximum.
func (p *retryPolicy) nextDelay(retryAfter time.Duration) time.Duration {
	delay := p.backoff.NextBackOff()
	if retryAfter > p.maxRetryDelay {
		retryAfter = p.maxRetryDelay
	}
	if retryAfter > delay {
		delay = retryAfter
	}
	return delay
}

// reset is called whenever the head of the queue changes.
func (p *retryPolicy) reset() {
	p.backoff.Reset()
}
