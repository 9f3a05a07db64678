package etevents

import (
	"context"
	"sync"
	"testing"
	"time"

	th "github.com/launchdarkly/go-test-helpers/v3"
)

type sentAttempt struct {
	data      string
	payloadID string
}

type mockEventSender struct {
	attemptsCh    chan sentAttempt
	results       []EventSenderResult
	defaultResult EventSenderResult
	gateCh        <-chan struct{}
	lock          sync.Mutex
}

func newMockEventSender() *mockEventSender {
	return &mockEventSender{
		attemptsCh:    make(chan sentAttempt, 100),
		defaultResult: EventSenderResult{Success: true},
	}
}

// thenReturn queues results to be returned by successive attempts; after they are used up, every
// attempt returns defaultResult.
func (ms *mockEventSender) thenReturn(results ...EventSenderResult) *mockEventSender {
	ms.lock.Lock()
	ms.results = append(ms.results, results...)
	ms.lock.Unlock()
	return ms
}

func (ms *mockEventSender) alwaysReturn(result EventSenderResult) *mockEventSender {
	ms.lock.Lock()
	ms.defaultResult = result
	ms.lock.Unlock()
	return ms
}

// setGate makes each attempt block until gateCh is readable or the context is cancelled.
func (ms *mockEventSender) setGate(gateCh <-chan struct{}) {
	ms.lock.Lock()
	ms.gateCh = gateCh
	ms.lock.Unlock()
}

func (ms *mockEventSender) SendEventData(ctx context.Context, data []byte, payloadID string) EventSenderResult {
	ms.attemptsCh <- sentAttempt{data: string(data), payloadID: payloadID}

	ms.lock.Lock()
	gateCh := ms.gateCh
	result := ms.defaultResult
	if len(ms.results) > 0 {
		result = ms.results[0]
		ms.results = ms.results[1:]
	}
	ms.lock.Unlock()

	if gateCh != nil {
		select {
		case <-gateCh:
		case <-ctx.Done():
			return EventSenderResult{Err: &DeliveryFailure{Err: ctx.Err()}}
		}
	}
	return result
}

func (ms *mockEventSender) awaitAttempt(t *testing.T) sentAttempt {
	return th.RequireValue(t, ms.attemptsCh, time.Second, "timed out waiting for delivery attempt")
}

func (ms *mockEventSender) awaitAttemptData(t *testing.T, count int) []string {
	ret := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ret = append(ret, ms.awaitAttempt(t).data)
	}
	return ret
}

func (ms *mockEventSender) assertNoMoreAttempts(t *testing.T) {
	th.AssertNoMoreValues(t, ms.attemptsCh, time.Millisecond*50)
}

var (
	transientResult = EventSenderResult{Err: &DeliveryFailure{StatusCode: 503}}
	permanentResult = EventSenderResult{Err: &PermanentDeliveryFailure{StatusCode: 400}}
)

type recordingObserver struct {
	enqueued  []bool
	delivered []int
	failures  []bool
	dropped   []DropReason
	lock      sync.Mutex
}

func (o *recordingObserver) EventEnqueued(persisted bool) {
	o.lock.Lock()
	o.enqueued = append(o.enqueued, persisted)
	o.lock.Unlock()
}

func (o *recordingObserver) EventDelivered(attempts int) {
	o.lock.Lock()
	o.delivered = append(o.delivered, attempts)
	o.lock.Unlock()
}

func (o *recordingObserver) DeliveryAttemptFailed(err error, willRetry bool) {
	o.lock.Lock()
	o.failures = append(o.failures, willRetry)
	o.lock.Unlock()
}

func (o *recordingObserver) EventDropped(reason DropReason) {
	o.lock.Lock()
	o.dropped = append(o.dropped, reason)
	o.lock.Unlock()
}

func (o *recordingObserver) getDelivered() []int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]int(nil), o.delivered...)
}

func (o *recordingObserver) getDropped() []DropReason {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]DropReason(nil), o.dropped...)
}

func (o *recordingObserver) getEnqueued() []bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]bool(nil), o.enqueued...)
}

func (o *recordingObserver) getFailures() []bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	return append([]bool(nil), o.failures...)
}
