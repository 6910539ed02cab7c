package smart

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Loader fetches SMART reference data from the Network Rail supporting-file
// endpoint. The endpoint authenticates with HTTP Basic and then redirects to
// a signed storage URL which must be fetched WITHOUT the auth header, so
// redirects are followed manually.
type Loader struct {
	url      string
	username string
	password string
	client   *http.Client
}

func NewLoader(url, username, password string) *Loader {
	return &Loader{
		url:      url,
		username: username,
		password: password,
		client: &http.Client{
			Timeout: 60 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Fetch downloads and decompresses the raw reference data.
func (l *Loader) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(l.username, l.password)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch smart data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		return readMaybeGzip(resp.Body)
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("redirect response missing Location header")
		}
		return l.fetchRedirect(ctx, location)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("smart data authentication failed (HTTP 401)")
	default:
		return nil, fmt.Errorf("smart data fetch: HTTP %d", resp.StatusCode)
	}
}

func (l *Loader) fetchRedirect(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	// No auth header here: the storage host rejects requests carrying it.
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch smart data redirect: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("smart data redirect fetch: HTTP %d", resp.StatusCode)
	}
	return readMaybeGzip(resp.Body)
}

// readMaybeGzip reads the body, transparently decompressing when the gzip
// magic bytes are present.
func readMaybeGzip(r io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decompress smart data: %w", err)
		}
		defer func() { _ = zr.Close() }()
		return io.ReadAll(zr)
	}
	return raw, nil
}
