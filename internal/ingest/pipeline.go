package ingest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jfexwana/lego-manager/internal/catalog"
	"github.com/jfexwana/lego-manager/pkg/types"
)

// Stage identifies the pipeline phase a progress report belongs to.
type Stage string

const (
	StageFetch      Stage = "fetch"
	StageDecompress Stage = "decompress"
	StageParse      Stage = "parse"
	StageLoad       Stage = "load"
)

// ProgressFunc receives stage progress as a fraction in [0, 1]. Reports are
// omitted entirely for stages whose extent is unknown (a fetch without a
// declared content length).
type ProgressFunc func(stage Stage, fraction float64)

// parsePayload is the envelope payload for an offloaded parse. The text is
// a snapshot; the result depends on nothing else.
type parsePayload struct {
	Text       string
	OnProgress func(fraction float64)
}

// Pipeline fetches, decompresses, parses, cleans, and loads catalogue
// resources. Parsing is CPU-bound and runs on a dedicated worker goroutine
// so ingestion does not block interactive use; the pipeline talks to the
// worker only through request/response envelopes.
type Pipeline struct {
	fetcher *Fetcher
	store   *catalog.Store
	log     zerolog.Logger

	parseReq  chan types.WorkRequest
	parseResp chan types.WorkResponse
}

// NewPipeline builds a pipeline over the given store. A nil client selects
// http.DefaultClient. The parse worker starts immediately; call Close to
// stop it.
func NewPipeline(store *catalog.Store, client *http.Client, logger zerolog.Logger) *Pipeline {
	p := &Pipeline{
		fetcher:   NewFetcher(client, logger),
		store:     store,
		log:       logger,
		parseReq:  make(chan types.WorkRequest),
		parseResp: make(chan types.WorkResponse),
	}
	go p.parseWorker()
	return p
}

// Close stops the parse worker. The pipeline must not be used afterwards.
func (p *Pipeline) Close() {
	close(p.parseReq)
}

// parseWorker is a stateless loop: it reads parse envelopes, runs the pure
// parse function over the payload snapshot, and posts the result back.
func (p *Pipeline) parseWorker() {
	for req := range p.parseReq {
		resp := types.WorkResponse{Kind: req.Kind, ID: req.ID}
		payload, ok := req.Payload.(parsePayload)
		if !ok || req.Kind != types.OpParseCSV {
			resp.Err = fmt.Errorf("parse worker: unexpected request %q", req.Kind)
		} else {
			resp.Result = ParseCSV(payload.Text, payload.OnProgress)
		}
		p.parseResp <- resp
	}
	close(p.parseResp)
}

// parse runs ParseCSV on the worker goroutine and waits for the response.
func (p *Pipeline) parse(text string, onProgress func(float64)) ([]Row, error) {
	id := uuid.NewString()
	p.parseReq <- types.WorkRequest{
		Kind:    types.OpParseCSV,
		ID:      id,
		Payload: parsePayload{Text: text, OnProgress: onProgress},
	}
	resp := <-p.parseResp
	if resp.ID != id {
		return nil, fmt.Errorf("parse worker: response %s does not match request %s", resp.ID, id)
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	p.log.Debug().Str("request_id", id).Msg("parse request served")
	rows, _ := resp.Result.([]Row)
	return rows, nil
}

// Ingest runs the full pipeline for one resource and returns the number of
// records loaded. Failures carry their stage's error type; a partial load
// failure leaves earlier chunks committed, so callers re-run on error.
func (p *Pipeline) Ingest(ctx context.Context, res types.Resource, onProgress ProgressFunc) (int, error) {
	p.log.Info().Str("table", res.Table).Str("url", res.URL).Msg("ingesting resource")

	var fetchProgress func(Progress)
	if onProgress != nil {
		fetchProgress = func(pr Progress) {
			onProgress(StageFetch, pr.Percentage/100)
		}
	}
	fetched, err := p.fetcher.Fetch(ctx, res.URL, fetchProgress)
	if err != nil {
		return 0, err
	}

	text, err := Decompress(res.FileName, fetched.Body)
	if err != nil {
		return 0, err
	}
	if onProgress != nil {
		onProgress(StageDecompress, 1)
	}

	var parseProgress func(float64)
	if onProgress != nil {
		parseProgress = func(fraction float64) {
			onProgress(StageParse, fraction)
		}
	}
	rows, err := p.parse(string(text), parseProgress)
	if err != nil {
		return 0, err
	}

	records, count, err := Clean(res.Table, rows)
	if err != nil {
		return 0, err
	}

	var loadProgress func(done, total int)
	if onProgress != nil {
		loadProgress = func(done, total int) {
			if total > 0 {
				onProgress(StageLoad, float64(done)/float64(total))
			}
		}
	}
	if err := p.store.BulkReplace(ctx, res.Table, records, loadProgress); err != nil {
		return 0, err
	}

	if fetched.LastModified != "" {
		if err := p.store.SetFileDate(ctx, res.Table, fetched.LastModified); err != nil {
			return 0, err
		}
	}

	p.log.Info().Str("table", res.Table).Int("records", count).Msg("resource ingested")
	return count, nil
}

// IngestAll ingests every resource in order, stopping at the first failure.
// It returns per-table record counts for the tables that loaded.
func (p *Pipeline) IngestAll(ctx context.Context, resources []types.Resource, onProgress func(res types.Resource, stage Stage, fraction float64)) (map[string]int, error) {
	counts := make(map[string]int, len(resources))
	for _, res := range resources {
		var stageProgress ProgressFunc
		if onProgress != nil {
			r := res
			stageProgress = func(stage Stage, fraction float64) {
				onProgress(r, stage, fraction)
			}
		}
		n, err := p.Ingest(ctx, res, stageProgress)
		if err != nil {
			return counts, fmt.Errorf("ingest %s: %w", res.Table, err)
		}
		counts[res.Table] = n
	}
	return counts, nil
}
