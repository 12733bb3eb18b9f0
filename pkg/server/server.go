package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/markserve/markserve/pkg/config"
	"github.com/markserve/markserve/pkg/engine"
	"github.com/markserve/markserve/pkg/search"
)

// Server handles the IPC for bookmark search
type Server struct {
	engine  engine.Engine
	cfg     *config.Config
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a new engine server using stdin/stdout for IPC
func NewServer(eng engine.Engine, cfg *config.Config) *Server {
	return newServer(eng, cfg, os.Stdin, os.Stdout)
}

func newServer(eng engine.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		engine:  eng,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches one decoded request
func (s *Server) handleRequest(request Request) {
	switch request.Command {
	case "init", "update_all":
		s.handleSnapshot(request)
	case "search":
		s.handleSearch(request)
	case "similar":
		s.handleSimilar(request)
	case "suggest":
		s.handleSuggest(request)
	case "update":
		s.handleUpdate(request)
	case "frecency":
		s.handleFrecency(request)
	case "stats":
		s.handleStats(request)
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

func (s *Server) handleSnapshot(request Request) {
	if err := s.engine.Initialize(request.Snapshot); err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(StatusResponse{ID: request.ID, Status: "ok", ItemCount: len(request.Snapshot), Initialized: true})
}

func (s *Server) handleSearch(request Request) {
	query := request.Query
	if query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}
	if len(query) < s.cfg.Server.MinQuery {
		s.sendError(request.ID, fmt.Sprintf("Query must be at least %d characters", s.cfg.Server.MinQuery), 400)
		return
	}
	if len(query) > s.cfg.Server.MaxQuery {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.Server.MaxQuery), 400)
		return
	}

	limit := s.clampLimit(request.Limit)

	start := time.Now()
	results, err := s.engine.Search(query, request.Filters)
	elapsed := time.Since(start)
	if err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	if len(results) > limit {
		results = results[:limit]
	}

	s.send(SearchResponse{
		ID:        request.ID,
		Results:   toResultItems(results),
		Count:     len(results),
		TimeTaken: elapsed.Milliseconds(),
	})
}

func (s *Server) handleSimilar(request Request) {
	if request.Target == "" {
		s.sendError(request.ID, "Missing 't' parameter", 400)
		return
	}
	records, err := s.engine.Similar(request.Target, s.clampLimit(request.Limit))
	if err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(RecordsResponse{ID: request.ID, Records: records, Count: len(records)})
}

func (s *Server) handleSuggest(request Request) {
	terms, err := s.engine.Suggestions(request.Query, s.clampLimit(request.Limit))
	if err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(SuggestResponse{ID: request.ID, Terms: terms, Count: len(terms)})
}

func (s *Server) handleUpdate(request Request) {
	if request.Target == "" || request.Patch == nil {
		s.sendError(request.ID, "update needs 't' and 'patch'", 400)
		return
	}
	if err := s.engine.UpdateOne(request.Target, *request.Patch); err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(StatusResponse{ID: request.ID, Status: "ok"})
}

func (s *Server) handleFrecency(request Request) {
	if request.Target == "" {
		s.sendError(request.ID, "Missing 't' parameter", 400)
		return
	}
	value, err := s.engine.Frecency(request.Target)
	if err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(ValueResponse{ID: request.ID, Value: value})
}

func (s *Server) handleStats(request Request) {
	stats, err := s.engine.Stats()
	if err != nil {
		s.sendEngineError(request.ID, err)
		return
	}
	s.send(StatusResponse{
		ID:          request.ID,
		Status:      "ok",
		ItemCount:   stats.ItemCount,
		Initialized: stats.Initialized,
	})
}

func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		limit = s.cfg.CLI.DefaultLimit
	}
	if limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}
	return limit
}

// send encodes one response envelope onto stdout
func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// sendEngineError maps the engine error taxonomy onto wire codes.
func (s *Server) sendEngineError(id string, err error) {
	code := 500
	switch {
	case errors.Is(err, engine.ErrTimeout):
		code = 504
	case errors.Is(err, engine.ErrBadRequest), errors.Is(err, engine.ErrUnknownID):
		code = 400
	case errors.Is(err, engine.ErrContextLost), errors.Is(err, engine.ErrClosed):
		code = 503
	}
	s.sendError(id, err.Error(), code)
}

func toResultItems(results []search.Result) []ResultItem {
	items := make([]ResultItem, len(results))
	for i, r := range results {
		var frags []string
		for _, m := range r.Matches {
			frags = append(frags, m.Fragment)
		}
		items[i] = ResultItem{
			BookmarkID: r.Record.ID,
			Title:      r.Record.DisplayTitle(),
			URL:        r.Record.URL,
			Score:      r.Score,
			Tier:       r.Tier,
			Fragments:  frags,
		}
	}
	return items
}
