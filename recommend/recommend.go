package recommend

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/mindfiredigital/PivotHead-sub001/engine"
	"github.com/mindfiredigital/PivotHead-sub001/profile"
	"github.com/mindfiredigital/PivotHead-sub001/schema"
)

// RecommendedScore is the minimum score for IsRecommended.
const RecommendedScore = 0.7

// Recommendation is one ranked chart suggestion.
type Recommendation struct {
	ChartType engine.ChartType   `json:"chartType"`
	Score     float64            `json:"score"`
	Reason    string             `json:"reason"`
	Preview   string             `json:"preview"`
	Config    engine.ChartConfig `json:"config"`
}

// Recommendations is sorted by score descending with one entry per type.
type Recommendations []Recommendation

// Best returns the top recommendation.
func (r Recommendations) Best() (Recommendation, bool) {
	if len(r) == 0 {
		return Recommendation{}, false
	}
	return r[0], true
}

// Find returns the recommendation for a chart type.
func (r Recommendations) Find(t engine.ChartType) (Recommendation, bool) {
	for _, rec := range r {
		if rec.ChartType == t {
			return rec, true
		}
	}
	return Recommendation{}, false
}

// IsRecommended reports whether t is present with at least RecommendedScore.
func (r Recommendations) IsRecommended(t engine.ChartType) bool {
	rec, ok := r.Find(t)
	return ok && rec.Score >= RecommendedScore
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds replaces the default scoring constants.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine scores chart types against a data profile.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	rules      []Rule
	thresholds Thresholds
	logger     *zap.Logger
}

// NewEngine creates an Engine with the default rule table and thresholds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules:      DefaultRules(),
		thresholds: DefaultThresholds(),
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.Named("recommend")
	return e
}

// Thresholds returns the scoring constants in use.
func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Recommend profiles the state and ranks chart types for it.
func (e *Engine) Recommend(state schema.State) Recommendations {
	return e.RecommendProfile(profile.Build(state, profile.WithLogger(e.logger)))
}

// RecommendProfile ranks chart types for an already computed profile.
// The result always contains at least one entry.
func (e *Engine) RecommendProfile(p profile.Profile) Recommendations {
	t := e.thresholds
	var candidates []Recommendation

	if p.TotalDataPoints > 0 {
		for _, rule := range e.rules {
			if !rule.When(p, t) {
				continue
			}
			emitted := rule.Emit(p, t)
			e.logger.Debug("rule matched", zap.String("rule", rule.Name), zap.Int("candidates", len(emitted)))
			candidates = append(candidates, emitted...)
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, newRec(engine.ChartColumn, t.Fallback, p,
			"Column chart is a safe default for this data",
			"column"))
	}

	out := dedupe(candidates, t.Cap)
	if best, ok := out.Best(); ok {
		e.logger.Debug("recommendations ranked",
			zap.Int("count", len(out)),
			zap.String("best", string(best.ChartType)),
			zap.Float64("score", best.Score))
	}
	return out
}

// dedupe clamps scores, keeps the highest per chart type and sorts by score
// descending. Ties keep first-seen order.
func dedupe(candidates []Recommendation, limit float64) Recommendations {
	index := make(map[engine.ChartType]int)
	out := make(Recommendations, 0, len(candidates))
	for _, c := range candidates {
		c.Score = clamp(c.Score, limit)
		if i, ok := index[c.ChartType]; ok {
			if c.Score > out[i].Score {
				out[i] = c
			}
			continue
		}
		index[c.ChartType] = len(out)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func clamp(score, limit float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if limit > 0 && score > limit {
		score = limit
	}
	return math.Max(0, math.Min(1, score))
}
