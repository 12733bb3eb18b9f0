package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/config"
	"github.com/markserve/markserve/pkg/search"
)

// Host runs a Core inside a dedicated worker context and talks to it purely
// by message passing: msgpack-encoded envelopes with a uuid correlation id.
// Every public call registers a pending entry keyed by that id and waits for
// the matching response or the timeout, whichever comes first. If the worker
// dies mid-flight, all pending entries are rejected immediately with
// ErrContextLost instead of timing out silently.
type Host struct {
	core    *Core
	timeout time.Duration

	requests  chan []byte
	responses chan []byte

	mu      sync.Mutex
	pending map[string]chan *response
	closed  bool
	lost    error
	lostCh  chan struct{}
	quit    chan struct{}
}

// NewHost starts the worker context for a fresh Core.
func NewHost(cfg *config.Config) (*Host, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	queue := cfg.Host.QueueSize
	if queue <= 0 {
		return nil, fmt.Errorf("host: invalid queue size %d", queue)
	}

	h := &Host{
		core:      NewCore(cfg),
		timeout:   time.Duration(cfg.Host.TimeoutMS) * time.Millisecond,
		requests:  make(chan []byte, queue),
		responses: make(chan []byte, queue),
		pending:   make(map[string]chan *response),
		lostCh:    make(chan struct{}),
		quit:      make(chan struct{}),
	}
	go h.worker()
	go h.dispatch()
	return h, nil
}

// worker owns the Core. It is the only goroutine that touches the snapshot
// or the indices while the host is alive.
func (h *Host) worker() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("engine: worker crashed: %v", r)
			h.fail(ErrContextLost)
		}
		close(h.responses)
	}()

	for {
		select {
		case <-h.quit:
			return
		case raw := <-h.requests:
			var req request
			if err := msgpack.Unmarshal(raw, &req); err != nil {
				log.Errorf("engine: dropping undecodable request: %v", err)
				continue
			}
			resp := h.execute(&req)
			data, err := msgpack.Marshal(resp)
			if err != nil {
				data, _ = msgpack.Marshal(&response{ID: req.ID, Err: err.Error()})
			}
			h.responses <- data
		}
	}
}

// execute maps one envelope onto the Core.
func (h *Host) execute(req *request) *response {
	resp := &response{ID: req.ID}
	switch req.Op {
	case opInit, opUpdateAll:
		resp.Err = errString(h.core.Initialize(req.Snapshot))
	case opSearch:
		results, err := h.core.Search(req.Query, req.Filters)
		resp.Results, resp.Err = results, errString(err)
	case opUpdateOne:
		var patch bookmark.Patch
		if req.Patch != nil {
			patch = *req.Patch
		}
		resp.Err = errString(h.core.UpdateOne(req.Target, patch))
	case opSimilar:
		records, err := h.core.Similar(req.Target, req.Limit)
		resp.Records, resp.Err = records, errString(err)
	case opSuggest:
		terms, err := h.core.Suggestions(req.Query, req.Limit)
		resp.Terms, resp.Err = terms, errString(err)
	case opFrecency:
		value, err := h.core.Frecency(req.Target)
		resp.Value, resp.Err = value, errString(err)
	case opStats:
		stats, err := h.core.Stats()
		resp.Stats, resp.Err = &stats, errString(err)
	default:
		resp.Err = errString(ErrBadRequest)
	}
	return resp
}

// dispatch matches responses to pending entries strictly by correlation id.
func (h *Host) dispatch() {
	for raw := range h.responses {
		var resp response
		if err := msgpack.Unmarshal(raw, &resp); err != nil {
			log.Errorf("engine: dropping undecodable response: %v", err)
			continue
		}
		h.mu.Lock()
		ch, ok := h.pending[resp.ID]
		delete(h.pending, resp.ID)
		h.mu.Unlock()
		if ok {
			ch <- &resp
		}
		// A missing entry means the caller already timed out; the late
		// response is dropped on the floor.
	}
}

// call sends one envelope and waits for its response, the timeout, or the
// worker being lost.
func (h *Host) call(req *request) (*response, error) {
	req.ID = uuid.NewString()

	data, err := msgpack.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("host: encode request: %w", err)
	}

	ch := make(chan *response, 1)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	if h.lost != nil {
		err := h.lost
		h.mu.Unlock()
		return nil, err
	}
	h.pending[req.ID] = ch
	h.mu.Unlock()

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	select {
	case h.requests <- data:
	case <-h.lostCh:
		h.drop(req.ID)
		return nil, h.lostErr()
	case <-timer.C:
		h.drop(req.ID)
		return nil, ErrTimeout
	}

	select {
	case resp := <-ch:
		if resp.Err != "" {
			return nil, errFromString(resp.Err)
		}
		return resp, nil
	case <-h.lostCh:
		h.drop(req.ID)
		return nil, h.lostErr()
	case <-timer.C:
		// The worker is not killed; only this wait is abandoned.
		h.drop(req.ID)
		return nil, ErrTimeout
	}
}

func (h *Host) drop(id string) {
	h.mu.Lock()
	delete(h.pending, id)
	h.mu.Unlock()
}

func (h *Host) lostErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lost != nil {
		return h.lost
	}
	return ErrClosed
}

// fail rejects every pending request at once and refuses new ones.
func (h *Host) fail(err error) {
	h.mu.Lock()
	if h.lost == nil {
		h.lost = err
		close(h.lostCh)
	}
	h.pending = make(map[string]chan *response)
	h.mu.Unlock()
}

// Initialize implements Engine.
func (h *Host) Initialize(snapshot []bookmark.Record) error {
	_, err := h.call(&request{Op: opInit, Snapshot: snapshot})
	return err
}

// UpdateAll implements Engine.
func (h *Host) UpdateAll(snapshot []bookmark.Record) error {
	_, err := h.call(&request{Op: opUpdateAll, Snapshot: snapshot})
	return err
}

// UpdateOne implements Engine.
func (h *Host) UpdateOne(id string, patch bookmark.Patch) error {
	if id == "" {
		return ErrBadRequest
	}
	_, err := h.call(&request{Op: opUpdateOne, Target: id, Patch: &patch})
	return err
}

// Search implements Engine.
func (h *Host) Search(query string, filters *Filters) ([]search.Result, error) {
	resp, err := h.call(&request{Op: opSearch, Query: query, Filters: filters})
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Similar implements Engine.
func (h *Host) Similar(id string, k int) ([]bookmark.Record, error) {
	resp, err := h.call(&request{Op: opSimilar, Target: id, Limit: k})
	if err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// Suggestions implements Engine.
func (h *Host) Suggestions(partial string, limit int) ([]string, error) {
	resp, err := h.call(&request{Op: opSuggest, Query: partial, Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.Terms, nil
}

// Frecency implements Engine.
func (h *Host) Frecency(id string) (int, error) {
	resp, err := h.call(&request{Op: opFrecency, Target: id})
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

// Stats implements Engine.
func (h *Host) Stats() (Stats, error) {
	resp, err := h.call(&request{Op: opStats})
	if err != nil {
		return Stats{}, err
	}
	if resp.Stats == nil {
		return Stats{}, nil
	}
	return *resp.Stats, nil
}

// Close shuts the worker down. Requests still pending are rejected.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	h.fail(ErrClosed)
	close(h.quit)
	return nil
}
