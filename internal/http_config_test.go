package internal

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client := NewHTTPClient(0, 0)
		assert.Equal(t, defaultHTTPTimeout, client.Timeout)
		transport, ok := client.Transport.(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, defaultConnectTimeout, transport.TLSHandshakeTimeout)
	})

	t.Run("custom timeouts", func(t *testing.T) {
		client := NewHTTPClient(time.Minute, time.Second)
		assert.Equal(t, time.Minute, client.Timeout)
		transport, ok := client.Transport.(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, time.Second, transport.TLSHandshakeTimeout)
	})
}
