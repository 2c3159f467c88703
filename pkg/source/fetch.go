package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

const userAgent = "xmlsearch/1.0"

// Fetcher opens the raw document.
type Fetcher interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Location is the path or URL being read, for logs and status.
	Location() string
}

// NewFetcher returns an HTTP fetcher for http(s) URLs and a file fetcher
// for everything else. Both transparently decompress gzip content.
func NewFetcher(location string, timeout time.Duration) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		return &HTTPFetcher{URL: location, Client: &http.Client{Timeout: timeout}}
	}
	return &FileFetcher{Path: location}
}

type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Location() string { return f.Path }

func (f *FileFetcher) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Path == "" {
		return nil, fmt.Errorf("no source configured")
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	return maybeGunzip(file)
}

type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func (f *HTTPFetcher) Location() string { return f.URL }

func (f *HTTPFetcher) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/xml, text/xml, */*")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return maybeGunzip(resp.Body)
}

// gzipReadCloser closes both the gzip stream and the underlying body.
type gzipReadCloser struct {
	*gzip.Reader
	under io.Closer
}

func (g *gzipReadCloser) Close() error {
	gerr := g.Reader.Close()
	if err := g.under.Close(); err != nil {
		return err
	}
	return gerr
}

type bufferedReadCloser struct {
	*bufio.Reader
	io.Closer
}

// maybeGunzip sniffs the gzip magic bytes and decompresses when present.
func maybeGunzip(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return bufferedReadCloser{Reader: br, Closer: rc}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	return &gzipReadCloser{Reader: zr, under: rc}, nil
}
