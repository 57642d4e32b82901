package transcript

import (
	"net/http"
	"time"
)

// NewHTTPClient returns a client with its own transport. When proxy is
// non-nil every request of this client goes through it; no shared client or
// transport is modified.
func NewHTTPClient(proxy *ProxyEndpoint, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy.URL())
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
