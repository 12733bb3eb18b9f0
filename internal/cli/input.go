// Package cli handles cmd line input for DBG and testing the ranking pipeline
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/markserve/markserve/internal/logger"
	"github.com/markserve/markserve/pkg/engine"
)

// InputHandler reads queries from stdin and prints the ranked results.
type InputHandler struct {
	engine       engine.Engine
	log          *charmlog.Logger
	minQuery     int
	maxQuery     int
	resultLimit  int
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(eng engine.Engine, minQuery, maxQuery, limit int) *InputHandler {
	return &InputHandler{
		engine:      eng,
		log:         logger.New("cli"),
		minQuery:    minQuery,
		maxQuery:    maxQuery,
		resultLimit: limit,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed query to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("markserve CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a query and press Enter to see ranked results (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		query, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		h.handleInput(query)
	}
}

// handleInput runs a single query through the engine and prints the results.
func (h *InputHandler) handleInput(query string) {
	h.requestCount++

	if len(query) < h.minQuery {
		h.log.Errorf("Query too short: %s", query)
		return
	}
	if len(query) > h.maxQuery {
		h.log.Errorf("Query too long: %s", query)
		return
	}

	start := time.Now()
	results, err := h.engine.Search(query, nil)
	elapsed := time.Since(start)
	if err != nil {
		h.log.Errorf("Search failed: %v", err)
		return
	}

	h.log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(results) == 0 {
		h.log.Warnf("No results found for query: '%s'", query)
		return
	}

	if len(results) > h.resultLimit {
		results = results[:h.resultLimit]
	}

	h.log.Printf("Found %d results for query '%s':", len(results), query)
	for i, r := range results {
		clTitle := fmt.Sprintf("\033[38;5;75m%s\033[0m", r.Record.DisplayTitle())
		h.log.Printf("%2d. %-50s (tier %d, score %.3f)", i+1, clTitle, r.Tier, r.Score)
	}
}
