package requestclient

import (
	"net/http"
	"strings"
	"time"
)

// Option configures a Client at construction time.
type Option func(*options)

type options struct {
	httpClient *http.Client
	transport  http.RoundTripper
	timeout    time.Duration
	headers    map[string]string
}

// WithHTTPClient makes the Client use hc as its underlying transport owner.
// The caller keeps ownership of hc and its connection pool.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTransport replaces the round tripper used for every exchange.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTimeout sets an overall per-request timeout. No timeout is set unless this option is used.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithHeader adds a header sent on every request. Empty keys or values are ignored.
func WithHeader(key, value string) Option {
	return func(o *options) {
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return
		}
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}
