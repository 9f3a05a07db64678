package etmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mbsj/go-event-tracker/etevents"
)

const subsystem = "event_tracker"

// DeliveryObserver is an etevents.DeliveryObserver that updates Prometheus metrics.
type DeliveryObserver struct {
	enqueued  *prometheus.CounterVec
	delivered prometheus.Counter
	attempts  prometheus.Histogram
	failures  *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

// NewDeliveryObserver creates a DeliveryObserver and registers its metrics with reg. All metric
// names start with namespace (if not empty) followed by "event_tracker_".
//
// It returns an error if any of the metrics is already registered with reg, for instance because
// two trackers in the same process were given the same namespace.
func NewDeliveryObserver(reg prometheus.Registerer, namespace string) (*DeliveryObserver, error) {
	o := &DeliveryObserver{
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_enqueued_total",
			Help:      "Total number of events accepted into the delivery queue",
		}, []string{"persisted"}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_delivered_total",
			Help:      "Total number of events delivered to the collection service",
		}),
		attempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_attempts",
			Help:      "Number of attempts it took to deliver each event",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_failures_total",
			Help:      "Total number of failed delivery attempts",
		}, []string{"will_retry"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_dropped_total",
			Help:      "Total number of events discarded without being delivered",
		}, []string{"reason"}),
	}
	for _, c := range []prometheus.Collector{o.enqueued, o.delivered, o.attempts, o.failures, o.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *DeliveryObserver) EventEnqueued(persisted bool) { //nolint:revive // standard method
	o.enqueued.WithLabelValues(strconv.FormatBool(persisted)).Inc()
}

func (o *DeliveryObserver) EventDelivered(attempts int) { //nolint:revive // standard method
	o.delivered.Inc()
	o.attempts.Observe(float64(attempts))
}

func (o *DeliveryObserver) DeliveryAttemptFailed(err error, willRetry bool) { //nolint:revive // standard method
	o.failures.WithLabelValues(strconv.FormatBool(willRetry)).Inc()
}

func (o *DeliveryObserver) EventDropped(reason etevents.DropReason) { //nolint:revive // standard method
	o.dropped.WithLabelValues(string(reason)).Inc()
}

var _ etevents.DeliveryObserver = (*DeliveryObserver)(nil)
