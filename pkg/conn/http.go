package conn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"go.uber.org/zap"

	"github.com/datapipes/downpipe/internal/tmpio"
)

// HTTPFetcher fetches URLs into local temp files.
type HTTPFetcher struct {
	client *http.Client
	logger *zap.Logger
}

// NewHTTP builds a fetcher; nil client means http.DefaultClient, nil logger
// disables logging.
func NewHTTP(client *http.Client, logger *zap.Logger) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPFetcher{client: client, logger: logger}
}

// Fetch performs a blocking GET and writes the full response body to a
// uniquely named temp file, returning the local path.
func (h *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	h.logger.Info("downloading", zap.String("url", rawURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	local, err := tmpio.WriteTemp(urlBasename(rawURL), body)
	if err != nil {
		return "", err
	}
	h.logger.Info("file downloaded", zap.String("url", rawURL), zap.String("local", local))
	return local, nil
}

// Fetch downloads rawURL with the default client.
func Fetch(ctx context.Context, rawURL string) (string, error) {
	return NewHTTP(nil, nil).Fetch(ctx, rawURL)
}

func urlBasename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || path.Base(u.Path) == "/" || path.Base(u.Path) == "." {
		return "download"
	}
	return path.Base(u.Path)
}
