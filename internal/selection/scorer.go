// Package selection ranks scanned nodes and proposes cleanup candidates.
package selection

import (
	"math"
	"time"

	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/tree"
	"github.com/fenilsonani/tidytree/pkg/utils"
)

const (
	// NeutralScore is used when a dimension is disabled or has no data
	NeutralScore = 0.5

	// ageScaleDays controls how fast the age score approaches 1 past the cutoff
	ageScaleDays = 30.0
)

// ScoredNode is a node with its scores, all within [0, 1]
type ScoredNode struct {
	Node          *tree.Node
	AgeScore      float64
	SizeScore     float64
	CombinedScore float64
}

// Scorer assigns age, size and combined scores
type Scorer struct {
	now func() time.Time
}

// ScorerOption configures a Scorer
type ScorerOption func(*Scorer)

// WithClock replaces time.Now for cutoff resolution
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		s.now = now
	}
}

// NewScorer creates a Scorer
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeScores scores root and every loaded descendant, parents first
func (s *Scorer) ComputeScores(root *tree.Node, scan *config.ScanOptions, opts config.ScorerOptions) []ScoredNode {
	if root == nil {
		return nil
	}

	now := s.now()
	var scored []ScoredNode
	root.Walk(func(n *tree.Node) bool {
		age := ageScore(n, scan, now)
		size := sizeScore(n, scan)
		scored = append(scored, ScoredNode{
			Node:          n,
			AgeScore:      age,
			SizeScore:     size,
			CombinedScore: combine(age, size, opts),
		})
		return true
	})
	return scored
}

// ageScore is 0.5 at the cutoff and rises toward 1 the further the last
// modification lies before it.
func ageScore(n *tree.Node, scan *config.ScanOptions, now time.Time) float64 {
	if scan == nil || !scan.Age.UseModified || n.LastModified.IsZero() {
		return NeutralScore
	}
	cutoff, ok := scan.Age.ModifiedCutoff(now)
	if !ok {
		return NeutralScore
	}

	days := cutoff.Sub(n.LastModified).Hours() / 24
	return clamp(1 / (1 + math.Exp(-days/ageScaleDays)))
}

// sizeScore is 0 at or below the threshold and saturates toward 1 above it
func sizeScore(n *tree.Node, scan *config.ScanOptions) float64 {
	if scan == nil {
		return NeutralScore
	}
	filter := scan.FileSize
	if n.IsDirectory {
		filter = scan.DirectorySize
	}
	if !filter.Enabled {
		return NeutralScore
	}

	threshold := utils.MegabytesToBytes(filter.ThresholdMB)
	if n.Size <= threshold {
		return 0
	}

	scale := math.Max(float64(threshold), utils.MB)
	excess := float64(n.Size - threshold)
	return clamp(1 - math.Exp(-excess/scale))
}

// combine is the weighted mean of the two scores. Negative weights count as
// zero; with no weight at all both scores count equally.
func combine(age, size float64, opts config.ScorerOptions) float64 {
	wa := nonNegative(opts.WeightAge)
	ws := nonNegative(opts.WeightSize)

	sum := wa + ws
	if sum == 0 || math.IsInf(sum, 0) {
		return clamp((age + size) / 2)
	}
	return clamp((age*wa + size*ws) / sum)
}

func nonNegative(w float64) float64 {
	if !(w > 0) {
		return 0
	}
	return w
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return NeutralScore
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
