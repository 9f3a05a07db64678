package etevents

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mbsj/go-event-tracker/interfaces"
	"github.com/mbsj/go-event-tracker/internal/endpoints"
	"github.com/mbsj/go-event-tracker/subsystems"
)

const (
	// PayloadIDHeader is the HTTP header that carries the identifier of the delivery being attempted.
	// Retries of the same event reuse the same value.
	PayloadIDHeader = "X-EventTracker-Payload-ID"
)

type serverEventSender struct {
	httpClient  *http.Client
	endpoints   interfaces.ServiceEndpoints
	environment subsystems.EnvironmentSource
	baseHeaders http.Header
	loggers     ldlog.Loggers
}

// NewServerEventSender creates the standard implementation of EventSender, which posts each event
// record to the collection service of the environment currently reported by environment.
func NewServerEventSender(
	httpClient *http.Client,
	serviceEndpoints interfaces.ServiceEndpoints,
	environment subsystems.EnvironmentSource,
	baseHeaders http.Header,
	loggers ldlog.Loggers,
) EventSender {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &serverEventSender{
		httpClient:  httpClient,
		endpoints:   serviceEndpoints,
		environment: environment,
		baseHeaders: baseHeaders,
		loggers:     loggers,
	}
}

func (s *serverEventSender) eventsURI() string {
	env := endpoints.EnvironmentFor(s.environment.IsProduction())
	return endpoints.AddPath(endpoints.SelectBaseURI(s.endpoints, env, s.loggers), endpoints.EventsRequestPath)
}

func (s *serverEventSender) SendEventData(ctx context.Context, data []byte, payloadID string) EventSenderResult {
	uri := s.eventsURI()
	s.loggers.Debugf("Sending event to %s: %s", uri, data)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(data))
	if reqErr != nil {
		// Only possible if the configured URI is unusable, and retrying will not change that
		s.loggers.Errorf("Unexpected error while creating event request: %+v", reqErr)
		return EventSenderResult{Err: &PermanentDeliveryFailure{}}
	}
	for k, vv := range s.baseHeaders {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if payloadID != "" {
		req.Header.Set(PayloadIDHeader, payloadID)
	}

	resp, respErr := s.httpClient.Do(req)
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	if respErr != nil {
		return EventSenderResult{Err: &DeliveryFailure{Err: respErr}}
	}

	if isHTTPSuccess(resp.StatusCode) {
		return EventSenderResult{Success: true}
	}
	if !isHTTPErrorRecoverable(resp.StatusCode) {
		return EventSenderResult{Err: &PermanentDeliveryFailure{StatusCode: resp.StatusCode}}
	}
	return EventSenderResult{
		Err:        &DeliveryFailure{StatusCode: resp.StatusCode},
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
}
