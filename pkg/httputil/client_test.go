package httputil

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientTimeout(t *testing.T) {
	c := NewHTTPClient(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.Timeout)
	assert.Equal(t, defaultTimeout, NewDefaultHTTPClient().Timeout)
}

func TestNewProxiedHTTPClient(t *testing.T) {
	c, err := NewProxiedHTTPClient(time.Second, "")
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = NewProxiedHTTPClient(time.Second, "http://127.0.0.1:3128")
	require.NoError(t, err)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.Proxy)

	c, err = NewProxiedHTTPClient(time.Second, "socks5://127.0.0.1:1080")
	require.NoError(t, err)
	tr, ok = c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.DialContext)

	_, err = NewProxiedHTTPClient(time.Second, "ftp://127.0.0.1")
	assert.Error(t, err)
}

func TestNewBrowserTLSClient(t *testing.T) {
	c := NewBrowserTLSClient(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Timeout)
	_, ok := c.Transport.(*utlsRoundTripper)
	assert.True(t, ok)
}
