package geonames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hip-hyena/geonamesdb/internal/logger"
)

// DefaultBaseURL is the geonames dump distribution root
const DefaultBaseURL = "https://download.geonames.org/export/dump"

// Fetcher downloads geonames dump files into a local directory
type Fetcher struct {
	baseURL    string
	dir        string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewFetcher creates a fetcher for the given base URL and dumps directory
func NewFetcher(baseURL, dir string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		baseURL: baseURL,
		dir:     dir,
		client: &http.Client{
			Timeout: 10 * time.Minute,
		},
		maxRetries: 3,
		retryDelay: 5 * time.Second,
	}
}

// DumpFiles lists the reference files an import of the given place source
// needs, in pipeline order
func DumpFiles(source string) []string {
	return []string{
		"countryInfo.txt",
		"admin1CodesASCII.txt",
		source + ".zip",
		"alternateNamesV2.zip",
	}
}

// FetchAll downloads every dump an import needs. Files already present in
// the dumps directory are kept unless force is set. Downloads run
// concurrently; the first failure cancels the rest.
func (f *Fetcher) FetchAll(ctx context.Context, source string, force bool) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("failed to create dumps directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range DumpFiles(source) {
		name := name
		g.Go(func() error {
			return f.Fetch(ctx, name, force)
		})
	}
	return g.Wait()
}

// Fetch downloads a single dump file with retry, writing through a temp
// file so a failed download never leaves a truncated dump behind
func (f *Fetcher) Fetch(ctx context.Context, name string, force bool) error {
	log := logger.Get()
	dest := filepath.Join(f.dir, name)

	if !force {
		if _, err := os.Stat(dest); err == nil {
			log.Debug("Using cached dump", zap.String("file", dest))
			return nil
		}
	}

	url := f.baseURL + "/" + name
	log.Info("Downloading dump", zap.String("url", url))

	resp, err := f.fetchWithRetry(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	n, err := io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}

	log.Info("Downloaded dump", zap.String("file", dest), zap.Int64("bytes", n))
	return nil
}

// fetchWithRetry performs an HTTP GET, retrying on transport errors and 5xx
func (f *Fetcher) fetchWithRetry(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "geonamesdb/1.0")

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
