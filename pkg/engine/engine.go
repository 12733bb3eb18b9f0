/*
Package engine ties the indices, ranker, frecency scorer and suggester into
one request/response surface over a bookmark snapshot.

Two interchangeable implementations exist: Core runs everything in-process,
Host runs the same Core inside an isolated worker context and talks to it by
asynchronous message passing. Identical inputs produce identical ranked
outputs either way; only blocking characteristics differ.
*/
package engine

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/markserve/markserve/internal/utils"
	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/config"
	"github.com/markserve/markserve/pkg/dictionary"
	"github.com/markserve/markserve/pkg/frecency"
	"github.com/markserve/markserve/pkg/index"
	"github.com/markserve/markserve/pkg/search"
	"github.com/markserve/markserve/pkg/suggest"
)

// Error taxonomy. Everything else ("nothing matched", empty corpus, absent
// field) is a valid empty result, not an error.
var (
	ErrTimeout     = errors.New("engine: request timed out")
	ErrContextLost = errors.New("engine: execution context lost")
	ErrClosed      = errors.New("engine: engine closed")
	ErrBadRequest  = errors.New("engine: malformed request")
	ErrUnknownID   = errors.New("engine: unknown bookmark id")
)

// Stats reports the engine's current state.
type Stats struct {
	ItemCount   int  `msgpack:"item_count"`
	Initialized bool `msgpack:"initialized"`
}

// Filters narrow a ranked result set after scoring. They never participate
// in the scoring itself.
type Filters struct {
	Category string   `msgpack:"category,omitempty"`
	Starred  *bool    `msgpack:"starred,omitempty"`
	Folder   string   `msgpack:"folder,omitempty"`
	Tags     []string `msgpack:"tags,omitempty"`
}

// Engine is the public surface shared by Core and Host.
type Engine interface {
	Initialize(snapshot []bookmark.Record) error
	Search(query string, filters *Filters) ([]search.Result, error)
	UpdateOne(id string, patch bookmark.Patch) error
	UpdateAll(snapshot []bookmark.Record) error
	Similar(id string, k int) ([]bookmark.Record, error)
	Suggestions(partial string, limit int) ([]string, error)
	Frecency(id string) (int, error)
	Stats() (Stats, error)
	Close() error
}

// New builds the preferred engine for the config: a worker Host, or the
// synchronous Core when the host cannot be created or sync mode is forced.
// The fallback is recovered locally and never surfaced to the end user.
func New(cfg *config.Config) Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if cfg.Host.Sync {
		log.Debug("engine: sync mode forced, running in-process")
		return NewCore(cfg)
	}
	host, err := NewHost(cfg)
	if err != nil {
		log.Warnf("engine: worker host unavailable (%v), falling back to in-process", err)
		return NewCore(cfg)
	}
	return host
}

// Core is the synchronous engine. It owns the snapshot and every derived
// index exclusively; any snapshot replacement rebuilds all of them.
type Core struct {
	mu sync.RWMutex

	cfg       *config.Config
	dict      *dictionary.Dictionary
	ranker    *search.Ranker
	scorer    *frecency.Scorer
	suggester *suggest.Suggester

	records     []bookmark.Record
	byID        map[string]int
	fuzzy       *index.Fuzzy
	tfidf       *index.TFIDF
	initialized bool
}

// NewCore builds an empty in-process engine.
func NewCore(cfg *config.Config) *Core {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dict := dictionary.Default()
	return &Core{
		cfg:    cfg,
		dict:   dict,
		ranker: search.NewRanker(dict, cfg.Search.ScoreThreshold),
		scorer: frecency.NewScorer(frecency.Params{
			HalfLifeDays:    cfg.Frecency.HalfLifeDays,
			BaseWeight:      cfg.Frecency.BaseWeight,
			ProtectionDays:  cfg.Frecency.ProtectionDays,
			ProtectionFloor: cfg.Frecency.ProtectionFloor,
		}),
		suggester: suggest.NewSuggester(dict),
	}
}

// Initialize (re)builds every index from a full snapshot.
func (c *Core) Initialize(snapshot []bookmark.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuild(snapshot)
	return nil
}

// UpdateAll is equivalent to Initialize.
func (c *Core) UpdateAll(snapshot []bookmark.Record) error {
	return c.Initialize(snapshot)
}

// UpdateOne patches a single record and triggers a full rebuild. There is no
// in-place index edit path.
func (c *Core) UpdateOne(id string, patch bookmark.Patch) error {
	if id == "" {
		return ErrBadRequest
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return ErrUnknownID
	}
	c.records[i] = c.records[i].Apply(patch)
	c.rebuild(c.records)
	return nil
}

// rebuild replaces the snapshot and derives everything again. Caller holds
// the write lock.
func (c *Core) rebuild(snapshot []bookmark.Record) {
	records := make([]bookmark.Record, len(snapshot))
	copy(records, snapshot)

	byID := make(map[string]int, len(records))
	for i, r := range records {
		byID[r.ID] = i
	}

	c.records = records
	c.byID = byID
	c.fuzzy = index.NewFuzzy(records, index.Weights{
		Title:   c.cfg.Search.TitleWeight,
		URL:     c.cfg.Search.URLWeight,
		Summary: c.cfg.Search.SummaryWeight,
		Tags:    c.cfg.Search.TagWeight,
	})
	c.tfidf = index.NewTFIDF(records)
	c.suggester.Rebuild(records)
	c.initialized = true

	log.Debugf("engine: rebuilt indices for %d records", len(records))
}

// Search ranks the snapshot against the query, then applies filters as a
// post-filter and caps the result count.
func (c *Core) Search(query string, filters *Filters) ([]search.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized || len(c.records) == 0 {
		return nil, nil
	}

	results := c.ranker.Rank(c.records, c.fuzzy, query)
	if filters != nil {
		results = applyFilters(results, filters)
	}
	if max := c.cfg.Search.MaxResults; len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// Similar returns up to k records most similar to the given one by cosine
// similarity. Unknown ids yield an empty list.
func (c *Core) Similar(id string, k int) ([]bookmark.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return nil, nil
	}
	neighbors := c.tfidf.Similar(id, k)
	out := make([]bookmark.Record, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, c.records[c.byID[n.ID]])
	}
	return out, nil
}

// Suggestions returns completion candidates for a partial input.
func (c *Core) Suggestions(partial string, limit int) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.suggester.Suggest(partial, limit), nil
}

// Frecency computes a fresh importance value for one bookmark.
func (c *Core) Frecency(id string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return 0, ErrUnknownID
	}
	return c.scorer.Score(c.records[i]), nil
}

// Stats reports item count and whether the indices are built.
func (c *Core) Stats() (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{ItemCount: len(c.records), Initialized: c.initialized}, nil
}

// Close is a no-op for the in-process engine.
func (c *Core) Close() error { return nil }

func applyFilters(results []search.Result, f *Filters) []search.Result {
	out := results[:0]
	for _, res := range results {
		r := res.Record
		if f.Category != "" && !utils.EqualsFold(r.AICategory, f.Category) {
			continue
		}
		if f.Starred != nil && r.Starred != *f.Starred {
			continue
		}
		if f.Folder != "" && !utils.HasPrefixFold(r.FolderPath, f.Folder) {
			continue
		}
		if !hasAllTags(r, f.Tags) {
			continue
		}
		out = append(out, res)
	}
	return out
}

func hasAllTags(r bookmark.Record, want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := r.AllTags()
	for _, w := range want {
		found := false
		for _, h := range have {
			if utils.EqualsFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
