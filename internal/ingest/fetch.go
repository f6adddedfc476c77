// Package ingest implements the download→decompress→parse→clean→load
// pipeline for compressed catalogue dumps. Each stage is a distinct
// failure boundary: fetch failures are transport errors, decompression
// and payload failures are format errors, load failures pass through as
// storage errors.
package ingest

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// Progress is a byte-level progress report. Total is 0 when the server
// declared no content length, in which case Percentage is meaningless and
// callers should omit the report.
type Progress struct {
	Loaded     int64
	Total      int64
	Percentage float64
}

// Fetcher downloads resources over HTTP.
type Fetcher struct {
	client *http.Client
	log    zerolog.Logger
}

// NewFetcher wraps an HTTP client. A nil client selects
// http.DefaultClient.
func NewFetcher(client *http.Client, logger zerolog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, log: logger}
}

// FetchResult is a downloaded resource body plus the Last-Modified header
// when the server sent one (used to record the dump's file date).
type FetchResult struct {
	Body         []byte
	LastModified string
}

// Fetch streams url into memory, reporting byte progress when the response
// declares a content length. Non-2xx responses and connection failures
// surface as a TransportError; the body is never retried internally.
func (f *Fetcher) Fetch(ctx context.Context, url string, onProgress func(Progress)) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, &types.TransportError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, &types.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{}, &types.TransportError{URL: url, Status: resp.StatusCode}
	}

	total := resp.ContentLength
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}

	chunk := make([]byte, 64*1024)
	var loaded int64
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			loaded += int64(n)
			if onProgress != nil && total > 0 {
				onProgress(Progress{
					Loaded:     loaded,
					Total:      total,
					Percentage: float64(loaded) / float64(total) * 100,
				})
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return FetchResult{}, &types.TransportError{URL: url, Err: err}
		}
	}

	f.log.Debug().Str("url", url).Int64("bytes", loaded).Msg("resource fetched")
	return FetchResult{
		Body:         buf.Bytes(),
		LastModified: resp.Header.Get("Last-Modified"),
	}, nil
}
