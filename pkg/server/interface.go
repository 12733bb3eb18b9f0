/*
Package server implements msgpack IPC for the bookmark search engine.

The server package provides a minimal interface for embedding the engine in a
host process (browser extension glue, editors) using msgpack serialization
over stdin/stdout.

Messages are binary msgpack maps processed one at a time; every request
carries an ID echoed on the response so clients can correlate replies while
keeping several requests in flight.

# IPC

A search request looks like:

	{"id": "req_001", "cmd": "search", "q": "python", "l": 20}

and comes back as suggestions ranked by tier and composite score:

	{"id": "req_001", "res": [{"bid": "b42", "title": "...", "score": 0.83, "tier": 1}], "c": 1, "t": 145}

Snapshot management uses the same envelope:

	{"id": "snap_01", "cmd": "init", "snap": [...]}
	{"id": "upd_01", "cmd": "update", "t": "b42", "patch": {"starred": true}}

Error responses carry a message and a status code:

	{"id": "req_001", "e": "query exceeds maximum length", "c": 400}

# Commands

init and update_all replace the snapshot and rebuild all indices.
search runs the ranked query pipeline with optional post-filters.
similar returns the k nearest bookmarks to one item by cosine similarity.
suggest completes a partial input from the dictionary and the snapshot.
update patches one record and triggers a rebuild.
frecency computes a fresh importance score for one bookmark.
stats and health report engine state.
*/
package server

import (
	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/engine"
)

// Request is the single envelope for every command.
type Request struct {
	ID       string            `msgpack:"id"`
	Command  string            `msgpack:"cmd"`
	Query    string            `msgpack:"q,omitempty"`
	Limit    int               `msgpack:"l,omitempty"`
	Target   string            `msgpack:"t,omitempty"`
	Snapshot []bookmark.Record `msgpack:"snap,omitempty"`
	Patch    *bookmark.Patch   `msgpack:"patch,omitempty"`
	Filters  *engine.Filters   `msgpack:"f,omitempty"`
}

// ResultItem - one ranked hit in a search response
type ResultItem struct {
	BookmarkID string   `msgpack:"bid"`
	Title      string   `msgpack:"title"`
	URL        string   `msgpack:"url"`
	Score      float64  `msgpack:"score"`
	Tier       int      `msgpack:"tier"`
	Fragments  []string `msgpack:"frags,omitempty"`
}

// SearchResponse - ranked results plus timing
type SearchResponse struct {
	ID        string       `msgpack:"id"`
	Results   []ResultItem `msgpack:"res"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// RecordsResponse - similar-items response
type RecordsResponse struct {
	ID      string            `msgpack:"id"`
	Records []bookmark.Record `msgpack:"recs"`
	Count   int               `msgpack:"c"`
}

// SuggestResponse - completion terms for a partial input
type SuggestResponse struct {
	ID    string   `msgpack:"id"`
	Terms []string `msgpack:"terms"`
	Count int      `msgpack:"c"`
}

// ValueResponse - single integer payload (frecency)
type ValueResponse struct {
	ID    string `msgpack:"id"`
	Value int    `msgpack:"val"`
}

// StatusResponse - ack for snapshot ops and health checks
type StatusResponse struct {
	ID          string `msgpack:"id"`
	Status      string `msgpack:"status"`
	ItemCount   int    `msgpack:"item_count,omitempty"`
	Initialized bool   `msgpack:"initialized,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
