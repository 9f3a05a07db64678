package etcomponents

import (
	"errors"
	"net/http"
	"time"

	"github.com/mbsj/go-event-tracker/internal"
	"github.com/mbsj/go-event-tracker/subsystems"
)

const (
	// DefaultConnectTimeout is the HTTP connection timeout that is used if HTTPConfigurationBuilder.ConnectTimeout
	// is not set.
	DefaultConnectTimeout = 3 * time.Second
	// DefaultRequestTimeout is the total time allowed for one delivery request if
	// HTTPConfigurationBuilder.RequestTimeout is not set.
	DefaultRequestTimeout = 10 * time.Second
)

// HTTPConfigurationBuilder contains methods for configuring the tracker's networking behavior.
//
//	options := eventtracker.Options{
//	    HTTP: etcomponents.HTTPConfiguration().ConnectTimeout(time.Second),
//	}
type HTTPConfigurationBuilder struct {
	connectTimeout    time.Duration
	requestTimeout    time.Duration
	httpClientFactory func() *http.Client
	userAgent         string
	headers           http.Header
}

// HTTPConfiguration returns a configuration builder for the tracker's HTTP configuration.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
	}
}

// ConnectTimeout sets the connection timeout.
//
// This is the maximum amount of time to wait for each individual connection attempt to a remote
// service before determining that that attempt has failed. It is not the same as the timeout for
// the whole request, which is set by RequestTimeout.
//
// If this is not set, the default is DefaultConnectTimeout. It is ignored if HTTPClientFactory is set.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if connectTimeout <= 0 {
		b.connectTimeout = DefaultConnectTimeout
	} else {
		b.connectTimeout = connectTimeout
	}
	return b
}

// RequestTimeout sets the total time allowed for one delivery request, including reading the
// response. A request that exceeds it counts as a transient failure and is retried.
//
// If this is not set, the default is DefaultRequestTimeout. It is ignored if HTTPClientFactory is set.
func (b *HTTPConfigurationBuilder) RequestTimeout(requestTimeout time.Duration) *HTTPConfigurationBuilder {
	if requestTimeout <= 0 {
		b.requestTimeout = DefaultRequestTimeout
	} else {
		b.requestTimeout = requestTimeout
	}
	return b
}

// HTTPClientFactory specifies a function for creating each HTTP client instance that is used by
// the tracker.
//
// If you use this option, it overrides any other settings that you may have specified with
// ConnectTimeout or RequestTimeout; you are responsible for setting up any desired custom
// configuration on the HTTP client.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(httpClientFactory func() *http.Client) *HTTPConfigurationBuilder {
	b.httpClientFactory = httpClientFactory
	return b
}

// Header specifies a custom HTTP header that should be added to all requests. Repeated calls to
// Header with the same key will overwrite previous entries.
//
// The Content-Type and payload ID headers are always set by the tracker and cannot be overridden.
func (b *HTTPConfigurationBuilder) Header(key string, value string) *HTTPConfigurationBuilder {
	if b.headers == nil {
		b.headers = make(http.Header)
	}
	b.headers.Set(key, value)
	return b
}

// UserAgent specifies an additional User-Agent component to be appended to the tracker's own
// User-Agent header value, for instance the name of the application framework.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	b.userAgent = userAgent
	return b
}

// Build is called internally by the tracker.
func (b *HTTPConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.HTTPConfiguration, error) {
	if b == nil {
		return subsystems.HTTPConfiguration{}, errors.New("HTTPConfigurationBuilder was nil")
	}

	headers := make(http.Header)
	for k, vv := range b.headers {
		headers[k] = append([]string(nil), vv...)
	}
	userAgent := "EventTrackerGo/" + internal.TrackerVersion
	if b.userAgent != "" {
		userAgent = userAgent + " " + b.userAgent
	}
	headers.Set("User-Agent", userAgent)

	clientFactory := b.httpClientFactory
	if clientFactory == nil {
		connectTimeout, requestTimeout := b.connectTimeout, b.requestTimeout
		clientFactory = func() *http.Client {
			return internal.NewHTTPClient(requestTimeout, connectTimeout)
		}
	}

	return subsystems.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: clientFactory,
	}, nil
}
