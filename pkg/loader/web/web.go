// Package web loads documents over HTTP and reduces HTML pages to their
// readable text.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
)

// maxBody caps downloads at 20 MiB.
const maxBody = 20 << 20

// WebLoader fetches URLs. HTML responses go through readability; anything
// else is returned as downloaded.
type WebLoader struct {
	client *http.Client
	cache  *loader.Cache
}

func NewWebLoader() *WebLoader {
	return NewWebLoaderWithClient(http.DefaultClient)
}

func NewWebLoaderWithClient(client *http.Client) *WebLoader {
	return &WebLoader{
		client: client,
		cache:  loader.NewCache(),
	}
}

func (l *WebLoader) Load(ctx context.Context, source string) ([]byte, error) {
	return l.cache.Do(source, func() ([]byte, error) {
		return l.fetch(ctx, source)
	})
}

func (l *WebLoader) fetch(ctx context.Context, source string) ([]byte, error) {
	pageURL, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return nil, fmt.Errorf("%w: %s", loader.ErrNotFound, source)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("failed to fetch url: %s", resp.Status)
	}

	body := io.LimitReader(resp.Body, maxBody)
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return io.ReadAll(body)
	}

	article, err := readability.FromReader(body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return nil, fmt.Errorf("failed to render article text: %w", err)
	}
	return []byte(builder.String()), nil
}
