// SPDX-FileCopyrightText: Copyright 2026 Tilework Technologies, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/dnscache"

	"github.com/tilework-tech/nori-core/collision"
	"github.com/tilework-tech/nori-core/httperr"
)

// defaultUserAgent identifies this client to registries.
const defaultUserAgent = "nori-core/1.0"

// maxErrorBodySize bounds how much of an error response body is attached to
// error messages.
const maxErrorBodySize = 2048

// MaxDownloadSize is the maximum archive size accepted from a registry (100MB).
const MaxDownloadSize int64 = 100 * 1024 * 1024

// HTTPClient talks to a nori registry over its JSON/HTTP API.
type HTTPClient struct {
	client     *http.Client
	userAgent  string
	maxRetries uint
	baseDelay  time.Duration

	// stopRefresh ends the DNS refresh goroutine behind the default
	// transport. Nil when the caller injected their own http.Client.
	stopRefresh chan struct{}
}

var _ Client = (*HTTPClient)(nil)

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTPClient) {
		h.userAgent = ua
	}
}

// WithMaxRetries sets the maximum retry attempts for read requests.
func WithMaxRetries(n uint) HTTPOption {
	return func(h *HTTPClient) {
		h.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff between retries.
func WithBaseDelay(d time.Duration) HTTPOption {
	return func(h *HTTPClient) {
		h.baseDelay = d
	}
}

// NewHTTPClient creates a registry client with the given options.
// The default transport caches DNS lookups; archives can be large, so the
// default request timeout is generous. Callers relying on the default
// transport should Close the client when done with it.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	h := &HTTPClient{
		userAgent:  defaultUserAgent,
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.client == nil {
		h.stopRefresh = make(chan struct{})
		h.client = &http.Client{Timeout: 5 * time.Minute, Transport: cachingTransport(h.stopRefresh)}
	}
	return h
}

// Close stops the DNS refresh behind the default transport. Safe to call more
// than once. A no-op for clients built with WithHTTPClient, whose transport
// the caller owns.
func (h *HTTPClient) Close() {
	if h.stopRefresh != nil {
		close(h.stopRefresh)
		h.stopRefresh = nil
	}
}

// cachingTransport builds an HTTP transport with a DNS-caching dialer. The
// refresh goroutine runs until stop is closed.
func cachingTransport(stop <-chan struct{}) *http.Transport {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				resolver.Refresh(true)
			case <-stop:
				return
			}
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
		},
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// GetPackageMetadata implements Client.
func (h *HTTPClient) GetPackageMetadata(ctx context.Context, req MetadataRequest) (*Packument, error) {
	endpoint := fmt.Sprintf("%s/api/v1/packages/%s", req.RegistryURL, url.PathEscape(req.Name))

	body, err := h.getWithRetry(ctx, endpoint, req.AuthToken)
	if err != nil {
		if httperr.Code(err) == http.StatusNotFound {
			return nil, fmt.Errorf("package %q: %w", req.Name, ErrPackageNotFound)
		}
		return nil, fmt.Errorf("fetching metadata for %q: %w", req.Name, err)
	}

	var p Packument
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decoding packument for %q: %w", req.Name, err)
	}
	return &p, nil
}

// uploadBody is the wire shape posted to the upload endpoint.
type uploadBody struct {
	Version     string             `json:"version"`
	Archive     string             `json:"archive"` // base64 tar.gz bytes
	Description string             `json:"description,omitempty"`
	Strategy    collision.Strategy `json:"resolutionStrategy,omitempty"`
}

// conflictResponse is the wire shape of a 409 upload rejection.
type conflictResponse struct {
	Conflicts []collision.SkillConflict `json:"conflicts"`
}

// Upload implements Client. Uploads are issued exactly once per call: no
// transport-level retry, so a collision retry never doubles side effects.
func (h *HTTPClient) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	endpoint := fmt.Sprintf("%s/api/v1/packages/%s/versions/%s",
		req.RegistryURL, url.PathEscape(req.Name), url.PathEscape(req.Version))

	payload, err := json.Marshal(uploadBody{
		Version:     req.Version,
		Archive:     base64.StdEncoding.EncodeToString(req.Archive),
		Description: req.Description,
		Strategy:    req.Strategy,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding upload for %q: %w", req.Name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	h.setCommonHeaders(httpReq, req.AuthToken)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("uploading %q: %w", req.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var result UploadResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decoding upload response for %q: %w", req.Name, err)
		}
		return &result, nil

	case resp.StatusCode == http.StatusConflict:
		var cr conflictResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return nil, fmt.Errorf("decoding conflict report for %q: %w", req.Name, err)
		}
		return nil, &CollisionError{Conflicts: cr.Conflicts}

	default:
		return nil, statusError(resp)
	}
}

// Download implements Client.
func (h *HTTPClient) Download(ctx context.Context, req DownloadRequest) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/v1/packages/%s/archive", req.RegistryURL, url.PathEscape(req.Name))
	if req.Version != "" {
		endpoint += "?version=" + url.QueryEscape(req.Version)
	}

	body, err := h.getWithRetry(ctx, endpoint, req.AuthToken)
	if err != nil {
		if httperr.Code(err) == http.StatusNotFound {
			return nil, fmt.Errorf("package %q version %q: %w", req.Name, req.Version, ErrPackageNotFound)
		}
		return nil, fmt.Errorf("downloading %q: %w", req.Name, err)
	}
	return body, nil
}

// getWithRetry issues a GET, retrying 429 and 5xx responses with exponential
// backoff. 4xx responses are permanent.
func (h *HTTPClient) getWithRetry(ctx context.Context, endpoint, authToken string) ([]byte, error) {
	operation := func() ([]byte, error) {
		body, err := h.doGet(ctx, endpoint, authToken)
		if err != nil {
			code := httperr.Code(err)
			if code == http.StatusTooManyRequests || code >= 500 {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return body, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = h.baseDelay

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(h.maxRetries+1),
	)
}

func (h *HTTPClient) doGet(ctx context.Context, endpoint, authToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	h.setCommonHeaders(req, authToken)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	limited := io.LimitReader(resp.Body, MaxDownloadSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > MaxDownloadSize {
		return nil, fmt.Errorf("response exceeds maximum size of %d bytes", MaxDownloadSize)
	}
	return body, nil
}

func (h *HTTPClient) setCommonHeaders(req *http.Request, authToken string) {
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "application/json, application/octet-stream")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
}

// statusError converts a non-2xx response into a status-coded error with a
// bounded excerpt of the body attached.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	msg := fmt.Errorf("registry returned status %d: %s", resp.StatusCode, string(body))
	return httperr.WithCode(msg, resp.StatusCode)
}
