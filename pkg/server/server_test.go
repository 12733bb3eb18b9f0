package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/config"
	"github.com/markserve/markserve/pkg/engine"
)

func serverSnapshot() []bookmark.Record {
	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return []bookmark.Record{
		{ID: "py", Title: "Python Tutorial", URL: "https://docs.python.org/tutorial", CreatedAt: created},
		{ID: "go", Title: "Go Blog", URL: "https://go.dev/blog", CreatedAt: created},
	}
}

// runServer feeds the requests through a server wired to buffers and returns
// a decoder over everything it wrote back.
func runServer(t *testing.T, requests ...Request) *msgpack.Decoder {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Host.Sync = true
	eng := engine.New(cfg)
	t.Cleanup(func() { eng.Close() })

	var out bytes.Buffer
	srv := newServer(eng, cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return msgpack.NewDecoder(&out)
}

func decodeStatus(t *testing.T, dec *msgpack.Decoder) StatusResponse {
	t.Helper()
	var resp StatusResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return resp
}

func TestServerReadySignal(t *testing.T) {
	dec := runServer(t)

	ready := decodeStatus(t, dec)
	if ready.Status != "ready" {
		t.Errorf("first message status = %q, want ready", ready.Status)
	}
}

func TestServerSearchFlow(t *testing.T) {
	dec := runServer(t,
		Request{ID: "s1", Command: "init", Snapshot: serverSnapshot()},
		Request{ID: "q1", Command: "search", Query: "python", Limit: 10},
	)

	decodeStatus(t, dec) // ready

	ack := decodeStatus(t, dec)
	if ack.ID != "s1" || ack.Status != "ok" || ack.ItemCount != 2 {
		t.Errorf("init ack = %+v", ack)
	}

	var search SearchResponse
	if err := dec.Decode(&search); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if search.ID != "q1" {
		t.Errorf("response id = %q, want q1", search.ID)
	}
	if search.Count == 0 || len(search.Results) != search.Count {
		t.Fatalf("search response count mismatch: %+v", search)
	}
	if search.Results[0].BookmarkID != "py" {
		t.Errorf("top result = %q, want py", search.Results[0].BookmarkID)
	}
	if search.Results[0].Tier != 1 {
		t.Errorf("top tier = %d, want 1", search.Results[0].Tier)
	}
}

func TestServerHealth(t *testing.T) {
	dec := runServer(t, Request{ID: "h1", Command: "health"})

	decodeStatus(t, dec) // ready
	health := decodeStatus(t, dec)
	if health.ID != "h1" || health.Status != "ok" {
		t.Errorf("health = %+v", health)
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	longQuery := make([]byte, 200)
	for i := range longQuery {
		longQuery[i] = 'a'
	}

	dec := runServer(t,
		Request{ID: "b1", Command: "bogus"},
		Request{ID: "b2", Command: "search"}, // missing query
		Request{ID: "b3", Command: "search", Query: string(longQuery)},
		Request{ID: "b4", Command: "frecency", Target: "nope"},
	)

	decodeStatus(t, dec) // ready

	for _, wantID := range []string{"b1", "b2", "b3", "b4"} {
		var resp ErrorResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decode error response for %s: %v", wantID, err)
		}
		if resp.ID != wantID {
			t.Errorf("error response id = %q, want %q", resp.ID, wantID)
		}
		if resp.Code != 400 {
			t.Errorf("%s code = %d, want 400", wantID, resp.Code)
		}
		if resp.Error == "" {
			t.Errorf("%s has no error message", wantID)
		}
	}
}
