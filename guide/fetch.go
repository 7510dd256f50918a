package guide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/semlint/guide/weburl"
)

const (
	dialTimeout     = 10 * time.Second
	dialKeepAlive   = 30 * time.Second
	tlsTimeout      = 10 * time.Second
	idleConnTimeout = 90 * time.Second
	maxIdleConns    = 10
	maxRedirects    = 5
)

// FetchResult is the outcome of retrieving a guide document.
type FetchResult struct {
	Body         []byte
	ContentType  string
	ETag         string
	LastModified time.Time
	StatusCode   int
}

// Fetcher retrieves guide documents over HTTPS. URLs are validated
// before any I/O, resolved addresses are checked against private ranges
// at dial time, redirects are re-validated hop by hop, and response
// bodies are capped at a configured size.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
}

// NewFetcher builds a Fetcher with the given request timeout, User-Agent
// header, and response size cap in bytes.
func NewFetcher(timeout time.Duration, userAgent string, maxContentSize int64) *Fetcher {
	transport := &http.Transport{
		DialContext:           guardedDialContext(),
		TLSHandshakeTimeout:   tlsTimeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       idleConnTimeout,
	}

	return &Fetcher{
		client: &http.Client{
			Transport:     transport,
			Timeout:       timeout,
			CheckRedirect: checkRedirect,
		},
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
	}
}

// guardedDialContext returns a dial function that resolves the target
// itself and refuses to connect when any resolved address is private,
// so a hostname cannot pass URL validation and then rebind to an
// internal IP.
func guardedDialContext() func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: dialKeepAlive,
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("split dial address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", host, err)
		}

		for _, resolved := range ips {
			if weburl.IsPrivateIP(resolved.IP) {
				return nil, fmt.Errorf("refusing connection to private address %s", resolved.IP)
			}
		}

		for _, resolved := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(resolved.IP.String(), port))
			if err == nil {
				return conn, nil
			}
		}

		return nil, errors.New("no resolved address accepted a connection")
	}
}

// checkRedirect caps the redirect chain and applies the same URL
// validation to every hop.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("too many redirects (max %d)", maxRedirects)
	}
	if err := weburl.ValidateURL(req.URL.String()); err != nil {
		return fmt.Errorf("redirect blocked: %w", err)
	}
	return nil
}

// Fetch retrieves the document at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*FetchResult, error) {
	return f.FetchWithETag(ctx, urlStr, "")
}

// FetchWithETag retrieves the document, sending If-None-Match when etag
// is non-empty. A 304 response comes back with an empty Body and the
// status code set; the caller decides whether to keep its cached copy.
func (f *Fetcher) FetchWithETag(ctx context.Context, urlStr string, etag string) (*FetchResult, error) {
	if err := weburl.ValidateURL(urlStr); err != nil {
		return nil, err
	}

	req, err := f.buildRequest(ctx, urlStr, etag)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	result := &FetchResult{
		ContentType: resp.Header.Get("Content-Type"),
		ETag:        resp.Header.Get("ETag"),
		StatusCode:  resp.StatusCode,
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			result.LastModified = t
		}
	}

	if resp.StatusCode == http.StatusNotModified {
		return result, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := f.readCapped(resp.Body)
	if err != nil {
		return nil, err
	}
	result.Body = body
	return result, nil
}

func (f *Fetcher) buildRequest(ctx context.Context, urlStr, etag string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	return req, nil
}

// readCapped reads at most maxContentSize bytes; it reads one byte past
// the cap to tell an exactly-full body from an oversized one.
func (f *Fetcher) readCapped(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxContentSize {
		return nil, fmt.Errorf("response exceeds the %d byte limit", f.maxContentSize)
	}
	return body, nil
}
