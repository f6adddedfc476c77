package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jfexwana/lego-manager/internal/catalog"
	"github.com/jfexwana/lego-manager/pkg/types"
)

// analysisPayload is the envelope payload for both analysis operations.
// Snapshot and inventory are owned by the worker for the duration of the
// request; the computation reads nothing else.
type analysisPayload struct {
	Snap      *Snapshot
	Inventory []types.UserInventoryItem
}

// Result bundles one full analysis pass.
type Result struct {
	RareParts    []types.RarePart
	PossibleSets []types.PossibleSet
}

// Engine runs the two analyses off the caller's goroutine. It holds no
// mutable state of its own: every request carries a complete snapshot, so
// requests are independent and deterministic.
type Engine struct {
	store *catalog.Store
	log   zerolog.Logger

	req  chan types.WorkRequest
	resp chan types.WorkResponse
}

// NewEngine starts the analysis worker over the given store. Call Close to
// stop it.
func NewEngine(store *catalog.Store, logger zerolog.Logger) *Engine {
	e := &Engine{
		store: store,
		log:   logger,
		req:   make(chan types.WorkRequest),
		resp:  make(chan types.WorkResponse),
	}
	go e.worker()
	return e
}

// Close stops the worker. The engine must not be used afterwards.
func (e *Engine) Close() {
	close(e.req)
}

func (e *Engine) worker() {
	for req := range e.req {
		resp := types.WorkResponse{Kind: req.Kind, ID: req.ID}
		payload, ok := req.Payload.(analysisPayload)
		if !ok {
			resp.Err = fmt.Errorf("analysis worker: bad payload for %q", req.Kind)
			e.resp <- resp
			continue
		}
		switch req.Kind {
		case types.OpAnalyzeRarity:
			resp.Result = AnalyzeRarity(payload.Snap, payload.Inventory)
		case types.OpMatchSets:
			resp.Result = FindPossibleSets(payload.Snap, payload.Inventory)
		default:
			resp.Err = fmt.Errorf("analysis worker: unexpected request %q", req.Kind)
		}
		e.resp <- resp
	}
	close(e.resp)
}

func (e *Engine) dispatch(kind types.OpKind, payload analysisPayload) (any, error) {
	id := uuid.NewString()
	e.req <- types.WorkRequest{Kind: kind, ID: id, Payload: payload}
	resp := <-e.resp
	if resp.ID != id {
		return nil, fmt.Errorf("analysis worker: response %s does not match request %s", resp.ID, id)
	}
	e.log.Debug().Str("request_id", id).Str("op", string(kind)).Msg("analysis request served")
	return resp.Result, resp.Err
}

// Snapshot builds a fresh catalogue snapshot for analysis.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	return BuildSnapshot(ctx, e.store)
}

// Analyze runs both analyses against a snapshot and the owned inventory.
// The two computations run to completion; there is no cancellation beyond
// not starting.
func (e *Engine) Analyze(ctx context.Context, snap *Snapshot, inventory []types.UserInventoryItem) (Result, error) {
	payload := analysisPayload{Snap: snap, Inventory: inventory}

	raw, err := e.dispatch(types.OpAnalyzeRarity, payload)
	if err != nil {
		return Result{}, err
	}
	rare, _ := raw.([]types.RarePart)

	raw, err = e.dispatch(types.OpMatchSets, payload)
	if err != nil {
		return Result{}, err
	}
	possible, _ := raw.([]types.PossibleSet)

	e.log.Info().
		Int("rare_parts", len(rare)).
		Int("possible_sets", len(possible)).
		Msg("analysis complete")
	return Result{RareParts: rare, PossibleSets: possible}, nil
}

// Run is the convenience path used after a cache miss: build a snapshot
// and analyze the given inventory in one call.
func (e *Engine) Run(ctx context.Context, inventory []types.UserInventoryItem) (Result, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.Analyze(ctx, snap, inventory)
}
