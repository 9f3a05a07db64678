package etcomponents

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbsj/go-event-tracker/etevents"
	"github.com/mbsj/go-event-tracker/internal/sharedtest/mocks"
	"github.com/mbsj/go-event-tracker/subsystems"
	"github.com/mbsj/go-event-tracker/testhelpers"
)

type countingObserver struct {
	enqueued chan bool
}

func (o countingObserver) EventEnqueued(persisted bool) { o.enqueued <- persisted }
func (o countingObserver) EventDelivered(int) {}
func (o countingObserver) DeliveryAttemptFailed(error, bool) {}
func (o countingObserver) EventDropped(etevents.DropReason) {}

func makeSendEventsContext(handler http.Handler) testhelpers.SimpleClientContext {
	return testhelpers.NewSimpleClientContext().
		WithHTTP(subsystems.HTTPConfiguration{
			DefaultHeaders:   http.Header{"User-Agent": {"test-agent"}},
			CreateHTTPClient: func() *http.Client { return httphelpers.ClientFromHandler(handler) },
		}).
		WithServiceEndpoints(SingleEndpoint("http://fake-events"))
}

func TestSendEventsBuilder(t *testing.T) {
	t.Run("delivers through the context's HTTP configuration", func(t *testing.T) {
		handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(202))
		ep, err := SendEvents().Build(makeSendEventsContext(handler))
		require.NoError(t, err)
		defer ep.Close()

		require.True(t, ep.Enqueue([]byte(`{"kind":"play"}`)))
		ep.Start()

		r := th.RequireValue(t, requestsCh, time.Second, "timed out waiting for event delivery")
		assert.Equal(t, "http://fake-events/v1/events", r.Request.URL.String())
		assert.Equal(t, "test-agent", r.Request.Header.Get("User-Agent"))
		assert.Equal(t, `{"kind":"play"}`, string(r.Body))
	})

	t.Run("uses the specified queue store", func(t *testing.T) {
		store := InMemoryQueueStore()
		builtStore, err := store.Build(testhelpers.NewSimpleClientContext())
		require.NoError(t, err)

		ep, err := SendEvents().QueueStore(mocks.SingleComponentConfigurer[subsystems.EventQueueStore]{Instance: builtStore}).
			Build(makeSendEventsContext(httphelpers.HandlerWithStatus(503)))
		require.NoError(t, err)
		defer ep.Close()

		require.True(t, ep.Enqueue([]byte(`{}`)))
		count, err := builtStore.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("queue store error", func(t *testing.T) {
		fakeError := errors.New("sorry")
		_, err := SendEvents().QueueStore(mocks.ComponentConfigurerThatReturnsError[subsystems.EventQueueStore]{Err: fakeError}).
			Build(makeSendEventsContext(httphelpers.HandlerWithStatus(202)))
		require.Error(t, err)
		assert.ErrorIs(t, err, fakeError)
		assert.Contains(t, err.Error(), "unable to open event queue store")
	})

	t.Run("Capacity", func(t *testing.T) {
		mockLog := ldlogtest.NewMockLog()
		ep, err := SendEvents().Capacity(2).
			Build(makeSendEventsContext(httphelpers.HandlerWithStatus(202)).WithLoggers(mockLog.Loggers))
		require.NoError(t, err)
		defer ep.Close()

		assert.True(t, ep.Enqueue([]byte(`{}`)))
		assert.True(t, ep.Enqueue([]byte(`{}`)))
		assert.False(t, ep.Enqueue([]byte(`{}`)))
		assert.Equal(t, 2, ep.Len())
		mockLog.AssertMessageMatch(t, true, ldlog.Warn, "EventProcessor: Event queue is full")
	})

	t.Run("DeliveryObserver", func(t *testing.T) {
		observer := countingObserver{enqueued: make(chan bool, 10)}
		ep, err := SendEvents().DeliveryObserver(observer).
			Build(makeSendEventsContext(httphelpers.HandlerWithStatus(202)))
		require.NoError(t, err)
		defer ep.Close()

		require.True(t, ep.Enqueue([]byte(`{}`)))
		assert.True(t, th.RequireValue(t, observer.enqueued, time.Second))
	})

	t.Run("MaxAttempts and RetryDelay", func(t *testing.T) {
		handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(503))
		ep, err := SendEvents().MaxAttempts(2).RetryDelay(time.Millisecond, 2*time.Millisecond).RetryJitter(0).
			Build(makeSendEventsContext(handler))
		require.NoError(t, err)
		defer ep.Close()

		require.True(t, ep.Enqueue([]byte(`{}`)))
		ep.Start()
		th.RequireValue(t, requestsCh, time.Second)
		th.RequireValue(t, requestsCh, time.Second)
		th.AssertNoMoreValues(t, requestsCh, 50*time.Millisecond)
		assert.Eventually(t, func() bool { return ep.Len() == 0 }, time.Second, time.Millisecond)
	})
}

func TestNoEvents(t *testing.T) {
	ep, err := NoEvents().Build(testhelpers.NewSimpleClientContext())
	require.NoError(t, err)
	assert.True(t, ep.Enqueue([]byte(`{}`)))
	assert.Equal(t, 0, ep.Len())
	assert.NoError(t, ep.Close())
}

func TestServiceEndpoints(t *testing.T) {
	assert.Equal(t, "https://a", CustomEndpoints("https://a", "https://b").Production)
	assert.Equal(t, "https://b", CustomEndpoints("https://a", "https://b").NonProduction)
	single := SingleEndpoint("https://c")
	assert.Equal(t, "https://c", single.Production)
	assert.Equal(t, "https://c", single.NonProduction)
}
