package etevents

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsj/go-event-tracker/internal/queuestore"
	"github.com/mbsj/go-event-tracker/subsystems"
)

var epDefaultConfig = EventsConfiguration{
	Capacity:       100,
	MaxAttempts:    5,
	BaseRetryDelay: 5 * time.Millisecond,
	MaxRetryDelay:  20 * time.Millisecond,
	RetryJitter:    0,
}

// reusableStore ignores Close, so that a second processor can be created on the same contents
// to simulate a restart.
type reusableStore struct {
	subsystems.EventQueueStore
}

func (s reusableStore) Close() error { return nil }

type failingAppendStore struct {
	subsystems.EventQueueStore
}

func (s failingAppendStore) Append([]byte) (uint64, error) {
	return 0, errors.New("disk full")
}

type processorFixture struct {
	ep       *defaultEventProcessor
	sender   *mockEventSender
	store    subsystems.EventQueueStore
	observer *recordingObserver
	mockLog  *ldlogtest.MockLog
}

func makeProcessor(t *testing.T, config EventsConfiguration, store subsystems.EventQueueStore) processorFixture {
	f := processorFixture{
		sender:   newMockEventSender(),
		store:    store,
		observer: &recordingObserver{},
		mockLog:  ldlogtest.NewMockLog(),
	}
	if f.store == nil {
		f.store = queuestore.NewInMemoryQueueStore()
	}
	config.EventSender = f.sender
	config.QueueStore = f.store
	config.Observer = f.observer
	config.Loggers = f.mockLog.Loggers
	f.ep = NewDefaultEventProcessor(config).(*defaultEventProcessor)
	t.Cleanup(func() { _ = f.ep.Close() })
	return f
}

func (f processorFixture) enqueue(t *testing.T, values ...string) {
	for _, v := range values {
		require.True(t, f.ep.Enqueue([]byte(v)))
	}
}

func (f processorFixture) storedValues(t *testing.T) []string {
	entries, err := f.store.Oldest(0)
	require.NoError(t, err)
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, string(e.Data))
	}
	return ret
}

func (f processorFixture) awaitEmpty(t *testing.T) {
	require.Eventually(t, func() bool { return f.ep.Len() == 0 }, time.Second, time.Millisecond)
}

func TestEventsAreDeliveredInOrder(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.enqueue(t, "a", "b", "c")
	f.ep.Start()

	assert.Equal(t, []string{"a", "b", "c"}, f.sender.awaitAttemptData(t, 3))
	f.sender.assertNoMoreAttempts(t)
	f.awaitEmpty(t)
	assert.Len(t, f.storedValues(t), 0)
	assert.Eventually(t, func() bool { return len(f.observer.getDelivered()) == 3 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{1, 1, 1}, f.observer.getDelivered())
}

func TestEventsEnqueuedAfterStartAreDelivered(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.ep.Start()
	f.enqueue(t, "a")
	assert.Equal(t, "a", f.sender.awaitAttempt(t).data)
	f.enqueue(t, "b")
	assert.Equal(t, "b", f.sender.awaitAttempt(t).data)
}

func TestNothingIsSentBeforeStart(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.enqueue(t, "a")
	f.sender.assertNoMoreAttempts(t)
	assert.Equal(t, 1, f.ep.Len())
}

func TestEventIsPersistedBeforeEnqueueReturns(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.enqueue(t, "a", "b")
	assert.Equal(t, []string{"a", "b"}, f.storedValues(t))
	assert.Equal(t, []bool{true, true}, f.observer.getEnqueued())
}

func TestStartIsIdempotent(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.ep.Start()
	f.ep.Start()
	f.enqueue(t, "a")
	f.sender.awaitAttempt(t)
	f.sender.assertNoMoreAttempts(t)
}

func TestFailingHeadIsRetriedBeforeLaterEvents(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.sender.thenReturn(transientResult, transientResult)
	f.enqueue(t, "a", "b")
	f.ep.Start()

	attempts := []sentAttempt{f.sender.awaitAttempt(t), f.sender.awaitAttempt(t), f.sender.awaitAttempt(t),
		f.sender.awaitAttempt(t)}
	assert.Equal(t, "a", attempts[0].data)
	assert.Equal(t, "a", attempts[1].data)
	assert.Equal(t, "a", attempts[2].data)
	assert.Equal(t, "b", attempts[3].data)

	assert.NotEqual(t, "", attempts[0].payloadID)
	assert.Equal(t, attempts[0].payloadID, attempts[1].payloadID)
	assert.Equal(t, attempts[0].payloadID, attempts[2].payloadID)
	assert.NotEqual(t, attempts[0].payloadID, attempts[3].payloadID)

	f.awaitEmpty(t)
	assert.Eventually(t, func() bool { return len(f.observer.getDelivered()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []int{3, 1}, f.observer.getDelivered())
	assert.Equal(t, []bool{true, true}, f.observer.getFailures())
}

func TestEventIsDroppedAfterMaxAttempts(t *testing.T) {
	config := epDefaultConfig
	config.MaxAttempts = 3
	f := makeProcessor(t, config, nil)
	f.sender.alwaysReturn(transientResult)
	f.enqueue(t, "a", "b")
	f.ep.Start()

	assert.Equal(t, []string{"a", "a", "a", "b", "b", "b"}, f.sender.awaitAttemptData(t, 6))
	f.sender.assertNoMoreAttempts(t)
	f.awaitEmpty(t)
	assert.Len(t, f.storedValues(t), 0)
	assert.Eventually(t, func() bool { return len(f.observer.getDropped()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []DropReason{DropReasonRetriesExhausted, DropReasonRetriesExhausted}, f.observer.getDropped())
	assert.Equal(t, []bool{true, true, false, true, true, false}, f.observer.getFailures())
	f.mockLog.AssertMessageMatch(t, true, ldlog.Error, "Giving up on event after 3 failed delivery attempts")
}

func TestPermanentFailureDropsEventImmediately(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.sender.thenReturn(permanentResult)
	f.enqueue(t, "a", "b")
	f.ep.Start()

	assert.Equal(t, []string{"a", "b"}, f.sender.awaitAttemptData(t, 2))
	f.sender.assertNoMoreAttempts(t)
	f.awaitEmpty(t)
	assert.Len(t, f.storedValues(t), 0)
	assert.Eventually(t, func() bool { return len(f.observer.getDelivered()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, []DropReason{DropReasonPermanentFailure}, f.observer.getDropped())
	f.mockLog.AssertMessageMatch(t, true, ldlog.Error, "rejected by the collection service.*HTTP status 400")
}

func TestQueueFullDropsNewEvents(t *testing.T) {
	config := epDefaultConfig
	config.Capacity = 2
	f := makeProcessor(t, config, nil)

	f.enqueue(t, "a", "b")
	assert.False(t, f.ep.Enqueue([]byte("c")))
	assert.False(t, f.ep.Enqueue([]byte("d")))

	assert.Equal(t, 2, f.ep.Len())
	assert.Equal(t, []string{"a", "b"}, f.storedValues(t))
	assert.Equal(t, []DropReason{DropReasonQueueFull, DropReasonQueueFull}, f.observer.getDropped())
	assert.Len(t, f.mockLog.GetOutput(ldlog.Warn), 1) // warning is only logged once
	f.mockLog.AssertMessageMatch(t, true, ldlog.Warn, "queue is full")

	f.ep.Start()
	assert.Equal(t, []string{"a", "b"}, f.sender.awaitAttemptData(t, 2))
	f.awaitEmpty(t)
	f.enqueue(t, "e")
	assert.Equal(t, "e", f.sender.awaitAttempt(t).data)
}

func TestStoreAppendFailureKeepsEventInMemory(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, failingAppendStore{queuestore.NewInMemoryQueueStore()})

	f.enqueue(t, "a", "b")
	assert.Equal(t, 2, f.ep.Len())
	assert.Equal(t, []bool{false, false}, f.observer.getEnqueued())
	assert.Len(t, f.mockLog.GetOutput(ldlog.Warn), 1) // repeated warnings are throttled
	f.mockLog.AssertMessageMatch(t, true, ldlog.Warn, "Unable to write event to queue store.*disk full")

	f.ep.Start()
	assert.Equal(t, []string{"a", "b"}, f.sender.awaitAttemptData(t, 2))
	f.awaitEmpty(t)
}

func TestEventsAreRestoredFromStore(t *testing.T) {
	store := queuestore.NewInMemoryQueueStore()
	for _, v := range []string{"a", "b", "c"} {
		_, err := store.Append([]byte(v))
		require.NoError(t, err)
	}

	f := makeProcessor(t, epDefaultConfig, store)
	assert.Equal(t, 3, f.ep.Len())
	f.mockLog.AssertMessageMatch(t, true, ldlog.Info, "Restored 3 undelivered events")

	f.enqueue(t, "d")
	f.ep.Start()
	assert.Equal(t, []string{"a", "b", "c", "d"}, f.sender.awaitAttemptData(t, 4))
	f.sender.assertNoMoreAttempts(t)
	f.awaitEmpty(t)
	assert.Len(t, f.storedValues(t), 0)
}

func TestRestoredEventsAreNotLimitedByCapacity(t *testing.T) {
	store := queuestore.NewInMemoryQueueStore()
	for _, v := range []string{"a", "b", "c"} {
		_, err := store.Append([]byte(v))
		require.NoError(t, err)
	}
	config := epDefaultConfig
	config.Capacity = 2

	f := makeProcessor(t, config, store)
	assert.Equal(t, 3, f.ep.Len())
	assert.False(t, f.ep.Enqueue([]byte("d")))
}

func TestRestartDeliversEachEventWithoutDuplicates(t *testing.T) {
	store := reusableStore{queuestore.NewInMemoryQueueStore()}

	f1 := makeProcessor(t, epDefaultConfig, store)
	gateCh := make(chan struct{}, 1)
	gateCh <- struct{}{} // lets "a" through; "b" then hangs until the processor is closed
	f1.sender.setGate(gateCh)
	f1.enqueue(t, "a", "b", "c")
	f1.ep.Start()
	assert.Equal(t, []string{"a", "b"}, f1.sender.awaitAttemptData(t, 2))
	require.NoError(t, f1.ep.Close())
	assert.Equal(t, []string{"b", "c"}, f1.storedValues(t))

	f2 := makeProcessor(t, epDefaultConfig, store)
	assert.Equal(t, 2, f2.ep.Len())
	f2.ep.Start()
	assert.Equal(t, []string{"b", "c"}, f2.sender.awaitAttemptData(t, 2))
	f2.sender.assertNoMoreAttempts(t)
	f2.awaitEmpty(t)
	assert.Len(t, f2.storedValues(t), 0)
}

func TestAttemptInterruptedByCloseIsNotCounted(t *testing.T) {
	config := epDefaultConfig
	config.MaxAttempts = 1
	store := reusableStore{queuestore.NewInMemoryQueueStore()}
	f := makeProcessor(t, config, store)
	f.sender.setGate(make(chan struct{}))
	f.enqueue(t, "a")
	f.ep.Start()
	f.sender.awaitAttempt(t)
	require.NoError(t, f.ep.Close())

	assert.Equal(t, []string{"a"}, f.storedValues(t))
	assert.Len(t, f.observer.getDropped(), 0)
	assert.Len(t, f.observer.getFailures(), 0)
}

func TestFlushInterruptsRetryDelay(t *testing.T) {
	config := epDefaultConfig
	config.BaseRetryDelay = time.Hour
	config.MaxRetryDelay = time.Hour
	f := makeProcessor(t, config, nil)
	f.sender.thenReturn(transientResult)
	f.enqueue(t, "a")
	f.ep.Start()

	first := f.sender.awaitAttempt(t)
	f.sender.assertNoMoreAttempts(t)

	f.ep.Flush()
	second := f.sender.awaitAttempt(t)
	assert.Equal(t, "a", second.data)
	assert.Equal(t, first.payloadID, second.payloadID)
	f.awaitEmpty(t)
}

func TestNewEventDoesNotInterruptRetryDelay(t *testing.T) {
	config := epDefaultConfig
	config.BaseRetryDelay = time.Hour
	config.MaxRetryDelay = time.Hour
	f := makeProcessor(t, config, nil)
	f.sender.thenReturn(transientResult)
	f.enqueue(t, "a")
	f.ep.Start()

	f.sender.awaitAttempt(t)
	f.enqueue(t, "b")
	f.sender.assertNoMoreAttempts(t)
	assert.Equal(t, 2, f.ep.Len())
}

func TestRetryAfterExtendsRetryDelay(t *testing.T) {
	config := epDefaultConfig
	config.MaxRetryDelay = time.Hour
	f := makeProcessor(t, config, nil)
	f.sender.thenReturn(EventSenderResult{Err: &DeliveryFailure{StatusCode: 429}, RetryAfter: time.Hour})
	f.enqueue(t, "a")
	f.ep.Start()

	f.sender.awaitAttempt(t)
	f.sender.assertNoMoreAttempts(t) // the 5ms base delay would otherwise have elapsed
	f.ep.Flush()
	f.sender.awaitAttempt(t)
}

func TestTransientFailureWarningIsThrottled(t *testing.T) {
	config := epDefaultConfig
	config.MaxAttempts = 4
	f := makeProcessor(t, config, nil)
	f.sender.alwaysReturn(transientResult)
	f.enqueue(t, "a")
	f.ep.Start()

	f.sender.awaitAttemptData(t, 4)
	f.awaitEmpty(t)
	assert.Len(t, f.mockLog.GetOutput(ldlog.Warn), 1)
	f.mockLog.AssertMessageMatch(t, true, ldlog.Warn, "Event delivery failed.*will retry")
}

func TestEnqueueAfterCloseIsRejected(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	require.NoError(t, f.ep.Close())
	assert.False(t, f.ep.Enqueue([]byte("a")))
	f.ep.Start()
	f.sender.assertNoMoreAttempts(t)
}

func TestCloseClosesStore(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.ep.Start()
	require.NoError(t, f.ep.Close())
	_, err := f.store.Count()
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	f.ep.Start()
	assert.NoError(t, f.ep.Close())
	assert.NoError(t, f.ep.Close())
}

func TestCloseWithoutStartDoesNotBlock(t *testing.T) {
	f := makeProcessor(t, epDefaultConfig, nil)
	closed := make(chan struct{})
	go func() {
		_ = f.ep.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		require.Fail(t, "timed out waiting for Close")
	}
}

func TestDefaultsAreAppliedToConfiguration(t *testing.T) {
	c := EventsConfiguration{RetryJitter: -1}.withDefaults()
	assert.Equal(t, DefaultCapacity, c.Capacity)
	assert.Equal(t, DefaultMaxAttempts, c.MaxAttempts)
	assert.Equal(t, DefaultBaseRetryDelay, c.BaseRetryDelay)
	assert.Equal(t, DefaultMaxRetryDelay, c.MaxRetryDelay)
	assert.Equal(t, DefaultRetryJitter, c.RetryJitter)
	assert.NotNil(t, c.Observer)

	c2 := EventsConfiguration{RetryJitter: 0, BaseRetryDelay: time.Minute, MaxRetryDelay: time.Second}.withDefaults()
	assert.Equal(t, 0.0, c2.RetryJitter)
	assert.Equal(t, time.Minute, c2.MaxRetryDelay)
}

func TestNullEventProcessor(t *testing.T) {
	ep := NewNullEventProcessor()
	ep.Start()
	assert.True(t, ep.Enqueue([]byte("a")))
	ep.Flush()
	assert.Equal(t, 0, ep.Len())
	assert.NoError(t, ep.Close())
}
