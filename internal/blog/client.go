package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxContentBytes = 5 * 1024 * 1024

// ErrStatus marks responses outside the 2xx range.
var ErrStatus = errors.New("unexpected response status")

// ErrContentTooLarge marks content resources over the read limit.
var ErrContentTooLarge = errors.New("content too large")

type Client struct {
	manifestURL *url.URL
	contentBase *url.URL
	http        *http.Client
}

// NewClient builds a client for the manifest at manifestURL. Content
// filenames resolve against contentBaseURL, or against the manifest URL when
// contentBaseURL is empty.
func NewClient(manifestURL, contentBaseURL string, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	manifest, err := parseHTTPURL(manifestURL)
	if err != nil {
		return nil, fmt.Errorf("manifest url: %w", err)
	}
	base := manifest
	if strings.TrimSpace(contentBaseURL) != "" {
		base, err = parseHTTPURL(contentBaseURL)
		if err != nil {
			return nil, fmt.Errorf("content base url: %w", err)
		}
	}
	return &Client{
		manifestURL: manifest,
		contentBase: base,
		http:        httpClient,
	}, nil
}

func (c *Client) FetchManifest(ctx context.Context) (Manifest, error) {
	resp, err := c.get(ctx, c.manifestURL.String(), "application/json")
	if err != nil {
		return Manifest{}, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	manifest, err := DecodeManifest(resp.Body)
	if err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

// FetchContent returns the raw markup referenced by filename.
func (c *Client) FetchContent(ctx context.Context, filename string) (string, error) {
	contentURL, err := c.ContentURL(filename)
	if err != nil {
		return "", err
	}
	resp, err := c.get(ctx, contentURL, "text/html")
	if err != nil {
		return "", fmt.Errorf("fetch content %s: %w", filename, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes+1))
	if err != nil {
		return "", fmt.Errorf("read content %s: %w", filename, err)
	}
	if len(body) > maxContentBytes {
		return "", fmt.Errorf("read content %s: %w (limit %d bytes)", filename, ErrContentTooLarge, maxContentBytes)
	}
	return string(body), nil
}

// ContentURL resolves filename against the content base URL.
func (c *Client) ContentURL(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", fmt.Errorf("post has no filename")
	}
	ref, err := url.Parse(filename)
	if err != nil {
		return "", fmt.Errorf("invalid filename %q: %w", filename, err)
	}
	return c.contentBase.ResolveReference(ref).String(), nil
}

func (c *Client) get(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}

func parseHTTPURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid URL host")
	}
	return parsed, nil
}
