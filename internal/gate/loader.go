package gate

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// Loader fetches one critical asset. Any returned error still counts as settled.
type Loader interface {
	Load(ctx context.Context, asset string) error
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, asset string) error

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, asset string) error { return f(ctx, asset) }

// HTTPLoader fetches assets over HTTP relative to BaseURL and discards the body.
type HTTPLoader struct {
	Client  *http.Client
	BaseURL string
}

// Load implements Loader.
func (l HTTPLoader) Load(ctx context.Context, asset string) error {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	target := asset
	if !strings.Contains(asset, "://") {
		target = strings.TrimRight(l.BaseURL, "/") + "/" + strings.TrimLeft(asset, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("gate: build request for %s: %w", asset, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("gate: fetch %s: %w", asset, err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("gate: read %s: %w", asset, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("gate: fetch %s: status %d", asset, resp.StatusCode)
	}
	return nil
}

// FSLoader reads assets from a filesystem, such as the embedded public directory.
type FSLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l FSLoader) Load(ctx context.Context, asset string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := l.FS.Open(strings.TrimPrefix(asset, "/"))
	if err != nil {
		return fmt.Errorf("gate: open %s: %w", asset, err)
	}
	defer f.Close()
	if _, err := io.Copy(io.Discard, f); err != nil {
		return fmt.Errorf("gate: read %s: %w", asset, err)
	}
	return nil
}
