package selection

import (
	"math"
	"sort"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/pathutil"
	"github.com/fenilsonani/tidytree/internal/tree"
)

// Engine turns scores into a cleanup proposal
type Engine struct {
	scorer  *Scorer
	exclude func(path string) bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithExclude keeps every path for which exclude returns true out of the
// ranking. Their descendants are still ranked.
func WithExclude(exclude func(path string) bool) EngineOption {
	return func(e *Engine) {
		e.exclude = exclude
	}
}

// NewEngine creates an Engine. A nil scorer uses the wall clock.
func NewEngine(scorer *Scorer, opts ...EngineOption) *Engine {
	if scorer == nil {
		scorer = NewScorer()
	}
	e := &Engine{scorer: scorer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank scores the subtree below root and sorts it by combined score,
// highest first. The root itself is never part of the ranking.
func (e *Engine) Rank(root *tree.Node, scan *config.ScanOptions, opts config.ScorerOptions) []ScoredNode {
	scored := e.scorer.ComputeScores(root, scan, opts)

	candidates := make([]ScoredNode, 0, len(scored))
	for _, s := range scored {
		if s.Node == root {
			continue
		}
		if e.exclude != nil && e.exclude(s.Node.Path) {
			continue
		}
		candidates = append(candidates, s)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		return pathutil.Key(a.Node.Path) < pathutil.Key(b.Node.Path)
	})
	return candidates
}

// SelectScored ranks, keeps the top share and removes nested duplicates
func (e *Engine) SelectScored(root *tree.Node, scan *config.ScanOptions, opts config.ScorerOptions) []ScoredNode {
	ranked := e.Rank(root, scan, opts)
	top := ranked[:TakeCount(len(ranked), opts.TopPercentage)]
	return topLevel(top, func(s ScoredNode) string { return s.Node.Path })
}

// Select returns the proposed cleanup nodes for root, best first
func (e *Engine) Select(root *tree.Node, scan *config.ScanOptions, opts config.ScorerOptions) []*tree.Node {
	return nodesOf(e.SelectScored(root, scan, opts))
}

// SelectAllScored selects per root and deduplicates the union, so roots
// nested inside other roots never yield overlapping proposals.
func (e *Engine) SelectAllScored(roots []*tree.Node, scan *config.ScanOptions, opts config.ScorerOptions) []ScoredNode {
	var all []ScoredNode
	for _, root := range roots {
		all = append(all, e.SelectScored(root, scan, opts)...)
	}
	return topLevel(all, func(s ScoredNode) string { return s.Node.Path })
}

// TakeCount returns max(1, floor(n*p)) for n > 0, with p clamped to [0, 1]
func TakeCount(n int, p float64) int {
	if n <= 0 {
		return 0
	}
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	// Tolerate representation error, e.g. 100*0.29 = 28.999999999999996
	k := int(math.Floor(float64(n)*p + 1e-9))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

func nodesOf(scored []ScoredNode) []*tree.Node {
	out := make([]*tree.Node, len(scored))
	for i, s := range scored {
		out[i] = s.Node
	}
	return out
}
