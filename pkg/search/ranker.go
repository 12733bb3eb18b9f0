package search

import (
	"sort"
	"strings"

	"github.com/markserve/markserve/internal/utils"
	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/dictionary"
	"github.com/markserve/markserve/pkg/index"
)

// DefaultScoreThreshold drops results the product considers noise.
// A product decision, not a physical constraint; override via config.
const DefaultScoreThreshold = 0.3

// Priority values per tier. An item lands in the highest tier it qualifies
// for; the value feeds the composite score, so the gaps are deliberate.
const (
	prioTitleMatch = 100 // tier 1: title contains the raw query
	prioURLMatch   = 90  // tier 2: url contains the raw query
	prioTagMatch   = 80  // tier 3: a user or AI tag contains the raw query

	prioFuzzyTight = 72 // tier 4: raw fuzzy distance < 0.25
	prioFuzzyGood  = 66 //         < 0.45
	prioFuzzyLoose = 60 //         < 0.65

	prioBoostHigh = 52 // tier 5: semantic boost > 0.30
	prioBoostMid  = 46 //         > 0.15
	prioBoostLow  = 42 //         > 0
)

// Semantic boost accumulation. The tag component has a firm cap so piles of
// AI tags cannot push an unrelated item above real matches.
const (
	boostCategory   = 0.15
	boostTagHit     = 0.10
	boostTagCap     = 0.30
	boostSummaryHit = 0.05
	boostSummaryCap = 0.20
)

// Result is one ranked search hit.
type Result struct {
	Record  bookmark.Record    `msgpack:"record"`
	Score   float64            `msgpack:"score"`
	Tier    int                `msgpack:"tier"`
	Matches []index.FieldMatch `msgpack:"matches,omitempty"`
}

// Ranker merges the fuzzy, expansion and association signals for one query.
// It is stateless between calls; the per-snapshot state lives in the indices.
type Ranker struct {
	dict      *dictionary.Dictionary
	threshold float64
}

// NewRanker wires a ranker to the dictionary. A non-positive threshold means
// the default.
func NewRanker(dict *dictionary.Dictionary, threshold float64) *Ranker {
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	return &Ranker{dict: dict, threshold: threshold}
}

type candidate struct {
	idx      int
	raw      float64 // fuzzy distance, 1 when no fuzzy hit
	hasFuzzy bool
	matches  []index.FieldMatch
	boost    float64
}

// Rank runs the full pipeline: raw fuzzy pass, expanded pass, semantic scan,
// tiering, composite scoring, threshold filter, deterministic sort.
// Empty queries and empty corpora yield an empty list, never an error.
func (r *Ranker) Rank(records []bookmark.Record, fidx *index.Fuzzy, query string) []Result {
	query = strings.TrimSpace(query)
	if query == "" || len(records) == 0 {
		return nil
	}

	tokens := utils.UniqueTokens(query)
	expanded := Expand(r.dict, query)

	cands := make(map[int]*candidate)

	// Pass 1: raw query. These take precedence on duplicates.
	for _, hit := range fidx.Search(query) {
		cands[hit.Index] = &candidate{
			idx:      hit.Index,
			raw:      hit.Raw,
			hasFuzzy: true,
			matches:  hit.Matches,
		}
	}

	// Pass 2: expanded terms. Only fills records the raw pass missed.
	for _, term := range expanded {
		if utils.EqualsFold(term, query) {
			continue
		}
		for _, hit := range fidx.Search(term) {
			if _, seen := cands[hit.Index]; seen {
				continue
			}
			cands[hit.Index] = &candidate{
				idx:      hit.Index,
				raw:      hit.Raw,
				hasFuzzy: true,
				matches:  hit.Matches,
			}
		}
	}

	// Pass 3: semantic associations can surface records no string match
	// reaches, e.g. a category linked to a query token through the
	// dictionary only.
	for i := range records {
		boost := r.semanticBoost(records[i], tokens, expanded)
		if c, ok := cands[i]; ok {
			c.boost = boost
		} else if boost > 0 {
			cands[i] = &candidate{idx: i, raw: 1, boost: boost}
		}
	}

	results := make([]Result, 0, len(cands))
	prios := make([]int, 0, len(cands))
	for _, c := range cands {
		prio, tier := r.classify(records[c.idx], query, c)
		if tier == 0 {
			continue
		}
		score := composite(prio, c.boost, c.raw)
		if score < r.threshold {
			continue
		}
		results = append(results, Result{
			Record:  records[c.idx],
			Score:   score,
			Tier:    tier,
			Matches: c.matches,
		})
		prios = append(prios, prio)
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if prios[ia] != prios[ib] {
			return prios[ia] > prios[ib]
		}
		if results[ia].Score != results[ib].Score {
			return results[ia].Score > results[ib].Score
		}
		return results[ia].Record.ID < results[ib].Record.ID
	})

	ordered := make([]Result, len(results))
	for i, idx := range order {
		ordered[i] = results[idx]
	}
	return ordered
}

// classify places one candidate into the highest tier it qualifies for.
// Returns tier 0 when nothing applies, which drops the candidate.
func (r *Ranker) classify(rec bookmark.Record, query string, c *candidate) (prio, tier int) {
	switch {
	case utils.ContainsFold(rec.SearchTitle(), query):
		return prioTitleMatch, 1
	case utils.ContainsFold(rec.URL, query):
		return prioURLMatch, 2
	case tagContains(rec, query):
		return prioTagMatch, 3
	}

	if c.hasFuzzy {
		switch {
		case c.raw < 0.25:
			return prioFuzzyTight, 4
		case c.raw < 0.45:
			return prioFuzzyGood, 4
		case c.raw < 0.65:
			return prioFuzzyLoose, 4
		}
	}

	switch {
	case c.boost > 0.30:
		return prioBoostHigh, 5
	case c.boost > 0.15:
		return prioBoostMid, 5
	case c.boost > 0:
		return prioBoostLow, 5
	}
	return 0, 0
}

// composite mixes the tier priority with the continuous signals.
// Weights: 0.7 tier, 0.2 semantic boost, 0.1 fuzzy closeness.
func composite(prio int, boost, raw float64) float64 {
	score := 0.7*(float64(prio)/100) + 0.2*boost + 0.1*(1-raw)
	if score > 1 {
		score = 1
	}
	return score
}

// semanticBoost accumulates the dictionary-association signal for one record:
// category membership once, per-token AI-tag hits, and expanded terms found
// in the AI summary. Each component is capped, the total clamps at 1.
func (r *Ranker) semanticBoost(rec bookmark.Record, tokens, expanded []string) float64 {
	var boost float64

	if rec.AICategory != "" {
		for _, token := range tokens {
			if r.dict.CategoryHas(rec.AICategory, token) {
				boost += boostCategory
				break
			}
		}
	}

	if len(rec.AITags) > 0 {
		var tagBoost float64
		for _, token := range tokens {
			for _, tag := range rec.AITags {
				if r.dict.Associated(tag, token) {
					tagBoost += boostTagHit
				}
			}
		}
		if tagBoost > boostTagCap {
			tagBoost = boostTagCap
		}
		boost += tagBoost
	}

	if rec.AISummary != "" {
		var sumBoost float64
		for _, term := range expanded {
			if utils.ContainsFold(rec.AISummary, term) {
				sumBoost += boostSummaryHit
			}
		}
		if sumBoost > boostSummaryCap {
			sumBoost = boostSummaryCap
		}
		boost += sumBoost
	}

	if boost > 1 {
		boost = 1
	}
	return boost
}

func tagContains(rec bookmark.Record, query string) bool {
	for _, tag := range rec.AllTags() {
		if utils.ContainsFold(tag, query) {
			return true
		}
	}
	return false
}
