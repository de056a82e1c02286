// Package scoring defines the policy for awarding points to contributions.
package scoring

// Default scoring configuration constants.
const (
	defaultBaseAward      = 1
	defaultBonusAward     = 1
	defaultBonusThreshold = 800
)

// Input abstracts the contribution fields needed for scoring.
type Input struct {
	Width  int
	Height int
}

// Result carries the computed award for a contribution.
type Result struct {
	Points int
	Bonus  bool
}

// Policy computes a point award for a contribution. Implementations must be
// pure: deterministic, no side effects, no error conditions.
type Policy interface {
	Score(in Input) Result
}

// ResolutionPolicy awards a base point for every contribution and a bonus
// when both dimensions meet a threshold. Malformed dimensions (zero or
// negative) are tolerated and earn the base award only.
type ResolutionPolicy struct {
	baseAward      int
	bonusAward     int
	bonusThreshold int
}

// NewResolutionPolicy creates a policy with configuration options. The
// defaults award 1 point per contribution plus 1 bonus point for photos at
// least 800x800.
func NewResolutionPolicy(opts ...Option) *ResolutionPolicy {
	p := &ResolutionPolicy{
		baseAward:      defaultBaseAward,
		bonusAward:     defaultBonusAward,
		bonusThreshold: defaultBonusThreshold,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Score returns the award for a contribution.
func (p *ResolutionPolicy) Score(in Input) Result {
	r := Result{Points: p.baseAward}
	if in.Width >= p.bonusThreshold && in.Height >= p.bonusThreshold {
		r.Points += p.bonusAward
		r.Bonus = true
	}
	return r
}
