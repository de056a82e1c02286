package scoring_test

import (
	"testing"

	scoring "github.com/okian/aporte/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolutionPolicy_Score(t *testing.T) {
	Convey("Given the default resolution policy", t, func() {
		policy := scoring.NewResolutionPolicy()

		Convey("When scoring a photo at or above 800x800", func() {
			Convey("Then it should earn the base award plus the bonus", func() {
				for _, in := range []scoring.Input{
					{Width: 800, Height: 800},
					{Width: 1024, Height: 1024},
					{Width: 800, Height: 4096},
					{Width: 12000, Height: 800},
				} {
					r := policy.Score(in)
					So(r.Points, ShouldEqual, 2)
					So(r.Bonus, ShouldBeTrue)
				}
			})
		})

		Convey("When scoring a photo below the threshold", func() {
			Convey("Then it should earn only the base award", func() {
				for _, in := range []scoring.Input{
					{Width: 640, Height: 480},
					{Width: 799, Height: 800},
					{Width: 800, Height: 799},
					{Width: 1, Height: 1},
				} {
					r := policy.Score(in)
					So(r.Points, ShouldEqual, 1)
					So(r.Bonus, ShouldBeFalse)
				}
			})
		})

		Convey("When scoring malformed dimensions", func() {
			Convey("Then it should fall back to the base award", func() {
				for _, in := range []scoring.Input{
					{Width: 0, Height: 0},
					{Width: -640, Height: 480},
					{Width: 1024, Height: -1},
				} {
					r := policy.Score(in)
					So(r.Points, ShouldEqual, 1)
					So(r.Bonus, ShouldBeFalse)
				}
			})
		})
	})
}

func TestResolutionPolicy_Options(t *testing.T) {
	Convey("Given a policy with custom awards", t, func() {
		policy := scoring.NewResolutionPolicy(
			scoring.WithBaseAward(2),
			scoring.WithBonusAward(3),
			scoring.WithBonusThreshold(1000),
		)

		Convey("When scoring above the custom threshold", func() {
			r := policy.Score(scoring.Input{Width: 1000, Height: 1000})

			Convey("Then both custom awards should apply", func() {
				So(r.Points, ShouldEqual, 5)
				So(r.Bonus, ShouldBeTrue)
			})
		})

		Convey("When scoring between the default and custom thresholds", func() {
			r := policy.Score(scoring.Input{Width: 900, Height: 900})

			Convey("Then only the custom base award should apply", func() {
				So(r.Points, ShouldEqual, 2)
				So(r.Bonus, ShouldBeFalse)
			})
		})

		Convey("When options receive invalid values", func() {
			fallback := scoring.NewResolutionPolicy(
				scoring.WithBaseAward(0),
				scoring.WithBonusAward(-1),
				scoring.WithBonusThreshold(0),
			)

			Convey("Then the defaults should be kept", func() {
				r := fallback.Score(scoring.Input{Width: 800, Height: 800})
				So(r.Points, ShouldEqual, 2)
			})
		})
	})
}
