package internal

import (
	"net"
	"net/http"
	"time"
)

const (
	defaultHTTPTimeout    = 10 * time.Second
	defaultConnectTimeout = 3 * time.Second
)

// NewHTTPClient creates an HTTP client for posting events. A zero value for either timeout selects
// the default.
func NewHTTPClient(timeout, connectTimeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
