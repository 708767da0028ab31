package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 16 << 20

// Request is what the engine asks a transport to fetch.
type Request struct {
	URL             string
	Header          http.Header
	FollowRedirects bool
}

// Response is a fully read answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport performs a single GET. Deadlines come from ctx.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Direct issues requests from this process.
type Direct struct {
	RoundTripper http.RoundTripper
}

// NewDirect returns a Direct transport. With fingerprint set, TLS
// handshakes mimic Chrome.
func NewDirect(fingerprint bool) *Direct {
	if fingerprint {
		return &Direct{RoundTripper: newFingerprintTransport()}
	}
	return &Direct{RoundTripper: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		MaxIdleConnsPerHost:   4,
	}}
}

func (d *Direct) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}

	client := &http.Client{Transport: d.RoundTripper}
	if !req.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Relay asks a forwarding endpoint to perform the request server-side.
// The target goes in the url query parameter and the redirect policy in
// redirect (1 or 0).
type Relay struct {
	Endpoint string
	// Token, when set, is sent as a bearer credential to the endpoint.
	Token string
	Via   Transport
}

// NewRelay returns a relay transport reaching endpoint directly.
func NewRelay(endpoint, token string) *Relay {
	return &Relay{Endpoint: endpoint, Token: token, Via: NewDirect(false)}
}

func (r *Relay) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := r.target(req)
	if err != nil {
		return nil, err
	}

	header := req.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if r.Token != "" {
		header.Set("Authorization", "Bearer "+r.Token)
	}

	return r.Via.Do(ctx, &Request{URL: target, Header: header, FollowRedirects: true})
}

func (r *Relay) target(req *Request) (string, error) {
	endpoint, err := url.Parse(r.Endpoint)
	if err != nil || endpoint.Host == "" {
		return "", fmt.Errorf("invalid relay endpoint %q", r.Endpoint)
	}

	q := endpoint.Query()
	q.Set("url", req.URL)
	if req.FollowRedirects {
		q.Set("redirect", "1")
	} else {
		q.Set("redirect", "0")
	}
	endpoint.RawQuery = q.Encode()
	return endpoint.String(), nil
}
