package scoring

// Option applies a configuration option to the ResolutionPolicy.
type Option func(*ResolutionPolicy)

// WithBaseAward sets the points granted to every contribution.
func WithBaseAward(points int) Option {
	return func(p *ResolutionPolicy) {
		if points > 0 {
			p.baseAward = points
		}
	}
}

// WithBonusAward sets the extra points granted above the resolution threshold.
func WithBonusAward(points int) Option {
	return func(p *ResolutionPolicy) {
		if points > 0 {
			p.bonusAward = points
		}
	}
}

// WithBonusThreshold sets the minimum width and height for the bonus.
func WithBonusThreshold(pixels int) Option {
	return func(p *ResolutionPolicy) {
		if pixels > 0 {
			p.bonusThreshold = pixels
		}
	}
}
