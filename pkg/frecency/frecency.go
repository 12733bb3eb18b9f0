/*
Package frecency computes the 0-100 importance score blending visit
frequency, recency decay, and user signals.

The score is a pure function of the record's current fields, recomputed on
demand; nothing here is stored. A protection window floors the score for
freshly created bookmarks so they are not instantly buried under old,
heavily-visited items.
*/
package frecency

import (
	"math"
	"strings"
	"time"

	"github.com/markserve/markserve/pkg/bookmark"
)

// Params are the tunables. Zero values are replaced by DefaultParams.
type Params struct {
	HalfLifeDays    float64
	BaseWeight      float64
	ProtectionDays  float64
	ProtectionFloor int

	StarBonus     float64
	NotesBonus    float64
	TagBonus      float64
	TagBonusCap   float64
	AITagBonus    float64
	AITagBonusCap float64
	CategoryBonus float64
}

// DefaultParams returns the product defaults: 30-day half-life and a 7-day
// window flooring new items at 30.
func DefaultParams() Params {
	return Params{
		HalfLifeDays:    30,
		BaseWeight:      10,
		ProtectionDays:  7,
		ProtectionFloor: 30,
		StarBonus:       25,
		NotesBonus:      10,
		TagBonus:        8,
		TagBonusCap:     20,
		AITagBonus:      3,
		AITagBonusCap:   15,
		CategoryBonus:   5,
	}
}

// Scorer computes frecency values. The clock is injectable for tests.
type Scorer struct {
	params Params
	now    func() time.Time
}

// NewScorer builds a scorer, filling unset params from the defaults.
func NewScorer(params Params) *Scorer {
	def := DefaultParams()
	if params.HalfLifeDays <= 0 {
		params.HalfLifeDays = def.HalfLifeDays
	}
	if params.BaseWeight <= 0 {
		params.BaseWeight = def.BaseWeight
	}
	if params.ProtectionDays <= 0 {
		params.ProtectionDays = def.ProtectionDays
	}
	if params.ProtectionFloor <= 0 {
		params.ProtectionFloor = def.ProtectionFloor
	}
	if params.StarBonus <= 0 {
		params.StarBonus = def.StarBonus
	}
	if params.NotesBonus <= 0 {
		params.NotesBonus = def.NotesBonus
	}
	if params.TagBonus <= 0 {
		params.TagBonus = def.TagBonus
		params.TagBonusCap = def.TagBonusCap
	}
	if params.AITagBonus <= 0 {
		params.AITagBonus = def.AITagBonus
		params.AITagBonusCap = def.AITagBonusCap
	}
	if params.CategoryBonus <= 0 {
		params.CategoryBonus = def.CategoryBonus
	}
	return &Scorer{params: params, now: time.Now}
}

// Default returns a scorer with the stock parameters.
func Default() *Scorer {
	return NewScorer(DefaultParams())
}

// WithClock replaces the time source. Meant for tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes the importance value for one record, clamped to [0, 100].
// Missing optional fields contribute zero; Score never fails.
func (s *Scorer) Score(r bookmark.Record) int {
	p := s.params
	now := s.now()

	score := s.visitScore(r, now)

	if r.Starred {
		score += p.StarBonus
	}
	if strings.TrimSpace(r.Notes) != "" {
		score += p.NotesBonus
	}
	score += capped(float64(len(r.Tags))*p.TagBonus, p.TagBonusCap)
	score += capped(float64(len(r.AITags))*p.AITagBonus, p.AITagBonusCap)
	if r.AICategory != "" {
		score += p.CategoryBonus
	}

	// New-item protection: anything younger than the window never drops
	// below the floor, whatever the signals above said.
	if !r.CreatedAt.IsZero() && s.ageDays(r.CreatedAt, now) < p.ProtectionDays {
		score = math.Max(score, float64(p.ProtectionFloor))
	}

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

// visitScore rewards recent re-visitation over a flat average: repeated
// visits decay from the midpoint of creation and last visit, with an extra
// half-weight term anchored to the last visit alone. The single-visit value
// is a lower bound so adding a visit can never lower the score.
func (s *Scorer) visitScore(r bookmark.Record, now time.Time) float64 {
	if r.VisitCount <= 0 || r.LastVisit.IsZero() {
		return 0
	}

	base := s.params.BaseWeight
	single := base * s.decay(r.LastVisit, now)
	if r.VisitCount == 1 {
		return single
	}

	mid := midpoint(r.CreatedAt, r.LastVisit)
	multi := float64(r.VisitCount)*base*s.decay(mid, now) + 0.5*base*s.decay(r.LastVisit, now)
	return math.Max(single, multi)
}

// decay computes exp(-ln2/halfLife * ageDays), i.e. halves per half-life.
func (s *Scorer) decay(t time.Time, now time.Time) float64 {
	age := s.ageDays(t, now)
	if age <= 0 {
		return 1
	}
	return math.Exp(-math.Ln2 / s.params.HalfLifeDays * age)
}

func (s *Scorer) ageDays(t time.Time, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}

func midpoint(a, b time.Time) time.Time {
	if a.IsZero() {
		return b
	}
	return a.Add(b.Sub(a) / 2)
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
