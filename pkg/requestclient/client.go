package requestclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// Method is the HTTP verb of a Request.
type Method string

const (
	MethodGet  Method = http.MethodGet
	MethodPost Method = http.MethodPost

	// ContentTypeJSON is sent with every POST body.
	ContentTypeJSON = "application/json; charset=utf-8"

	maxErrorBodyBytes = 512
)

// Request describes a single exchange.
type Request struct {
	URL         string
	Method      Method
	Body        string
	ContentType string
}

// Client performs one HTTP exchange per call and returns the response body as text.
// It is safe for concurrent use; its configuration is fixed at construction.
type Client struct {
	client *resty.Client
}

// New builds a Client. Without options it uses a fresh http.Client with no timeout,
// no retries and the default redirect policy.
func New(opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Client{client: newRestyBaseClient(o)}
}

// newRestyBaseClient creates a resty.Client from the collected options.
func newRestyBaseClient(o options) *resty.Client {
	hc := &http.Client{}
	if o.httpClient != nil {
		// Shallow copy so transport and timeout settings never leak into the caller's client.
		cp := *o.httpClient
		hc = &cp
	}

	c := resty.NewWithClient(hc)
	c.SetRetryCount(0)
	if o.transport != nil {
		c.SetTransport(o.transport)
	}
	if o.timeout > 0 {
		c.SetTimeout(o.timeout)
	}
	if len(o.headers) > 0 {
		c.SetHeaders(o.headers)
	}
	return c
}

// Get performs a GET request against url.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	return c.Do(ctx, Request{URL: url, Method: MethodGet})
}

// Post sends jsonBody to url as application/json.
func (c *Client) Post(ctx context.Context, url, jsonBody string) (string, error) {
	return c.Do(ctx, Request{URL: url, Method: MethodPost, Body: jsonBody, ContentType: ContentTypeJSON})
}

// Do performs r and classifies the outcome. The response body is released on every path.
func (c *Client) Do(ctx context.Context, r Request) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := r.Method
	if method == "" {
		method = MethodGet
	}
	if method != MethodGet && method != MethodPost {
		return "", fmt.Errorf("%s %s: %w", method, r.URL, ErrUnsupportedMethod)
	}

	req := c.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)

	if method == MethodPost {
		contentType := r.ContentType
		if strings.TrimSpace(contentType) == "" {
			contentType = ContentTypeJSON
		}
		req.SetHeader("Content-Type", contentType).SetBody(r.Body)
	}

	resp, err := req.Execute(string(method), r.URL)
	if resp != nil {
		if body := resp.RawBody(); body != nil {
			defer body.Close()
		}
	}
	if err != nil {
		return "", &TransportError{Method: string(method), URL: r.URL, Err: err}
	}

	return readResponse(string(method), r.URL, resp)
}

func readResponse(method, url string, resp *resty.Response) (string, error) {
	var raw []byte
	if body := resp.RawBody(); body != nil {
		var err error
		raw, err = io.ReadAll(body)
		if err != nil {
			return "", &TransportError{Method: method, URL: url, Err: fmt.Errorf("read body: %w", err)}
		}
	}

	if !resp.IsSuccess() {
		return "", &RequestFailedError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       bodySnippet(raw),
		}
	}
	if len(raw) == 0 {
		return "", &EmptyResponseBodyError{Method: method, URL: url, StatusCode: resp.StatusCode()}
	}

	text, err := decodeText(raw, resp.Header().Get("Content-Type"))
	if err != nil {
		return "", &TransportError{Method: method, URL: url, Err: fmt.Errorf("decode body: %w", err)}
	}
	return text, nil
}

// decodeText converts body to a Go string using the declared charset, defaulting to UTF-8.
func decodeText(body []byte, contentType string) (string, error) {
	label := charsetLabel(contentType)
	if label == "" {
		return string(body), nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return string(body), nil
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func charsetLabel(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return strings.TrimSpace(string(body))
}
