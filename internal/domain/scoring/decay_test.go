package scoring_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	scoring "github.com/veganaut/veganaut-backend/internal/domain/scoring"
)

func TestEngine_CurrentPoints(t *testing.T) {
	Convey("Given an engine with the default 10% daily decay", t, func() {
		engine := scoring.NewEngine()
		t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		Convey("When no time has elapsed", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0)

			Convey("Then points are unchanged", func() {
				So(pts["team1"], ShouldEqual, 100)
			})
		})

		Convey("When the clock appears to have gone backwards", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0.Add(-time.Hour))

			Convey("Then points never increase", func() {
				So(pts["team1"], ShouldEqual, 100)
			})
		})

		Convey("When exactly 24 hours have elapsed", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0.Add(24*time.Hour))

			Convey("Then 10% is gone", func() {
				So(pts["team1"], ShouldEqual, 90)
			})
		})

		Convey("When a very long time has elapsed", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0.Add(200*24*time.Hour))

			Convey("Then points approach zero but never go negative", func() {
				So(pts["team1"], ShouldEqual, 0)
			})
		})

		Convey("When every team decays over the same interval", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100, "team2": 50}, t0, t0.Add(24*time.Hour))

			Convey("Then each total decays independently", func() {
				So(pts["team1"], ShouldEqual, 90)
				So(pts["team2"], ShouldEqual, 45)
			})
		})

		Convey("When evaluated twice at the same instant", func() {
			t1 := t0.Add(36 * time.Hour)
			first := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t1)
			second := engine.CurrentPoints(first, t1, t1)

			Convey("Then the second evaluation changes nothing", func() {
				So(second["team1"], ShouldEqual, first["team1"])
			})
		})

		Convey("When the input map is read", func() {
			stored := map[string]float64{"team1": 100}
			_ = engine.CurrentPoints(stored, t0, t0.Add(24*time.Hour))

			Convey("Then the stored map is not mutated", func() {
				So(stored["team1"], ShouldEqual, 100)
			})
		})
	})
}

func TestEngine_ApplyNewPoints(t *testing.T) {
	Convey("Given an engine with the default decay", t, func() {
		engine := scoring.NewEngine()
		t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		Convey("When a new award lands a day after the last update", func() {
			now := t0.Add(24 * time.Hour)
			pts, at := engine.ApplyNewPoints(map[string]float64{"team1": 100}, t0, now, "team2", 50)

			Convey("Then existing totals decay but the award does not", func() {
				So(pts["team1"], ShouldEqual, 90)
				So(pts["team2"], ShouldEqual, 50)
			})

			Convey("And the state is re-based at the award instant", func() {
				So(at, ShouldEqual, now)
			})
		})

		Convey("When an award arrives dated before the last update", func() {
			t2 := t0.Add(24 * time.Hour)
			pts, at := engine.ApplyNewPoints(map[string]float64{"team1": 100}, t2, t0, "team2", 10)

			Convey("Then the base never moves backwards", func() {
				So(at, ShouldEqual, t2)
			})

			Convey("And the late award is decayed for the skew instead", func() {
				So(pts["team1"], ShouldEqual, 100)
				So(pts["team2"], ShouldEqual, 9)
			})
		})

		Convey("When a team awards onto its own existing total", func() {
			now := t0.Add(24 * time.Hour)
			pts, _ := engine.ApplyNewPoints(map[string]float64{"team1": 100}, t0, now, "team1", 10)

			Convey("Then the decayed total and the award add up", func() {
				So(pts["team1"], ShouldEqual, 100)
			})
		})
	})
}

func TestEngine_DetermineOwner(t *testing.T) {
	Convey("Given an engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When one team strictly leads", func() {
			owner := engine.DetermineOwner(map[string]float64{"team1": 50, "team2": 60}, "team1")

			Convey("Then the leader takes ownership", func() {
				So(owner, ShouldEqual, "team2")
			})
		})

		Convey("When the challenger merely ties the incumbent", func() {
			owner := engine.DetermineOwner(map[string]float64{"team1": 50, "team2": 50}, "team1")

			Convey("Then the incumbent keeps ownership", func() {
				So(owner, ShouldEqual, "team1")
			})
		})

		Convey("When the tie is evaluated with the other incumbent", func() {
			owner := engine.DetermineOwner(map[string]float64{"team1": 50, "team2": 50}, "team2")

			Convey("Then that incumbent keeps ownership too", func() {
				So(owner, ShouldEqual, "team2")
			})
		})

		Convey("When there is no previous owner and no points", func() {
			owner := engine.DetermineOwner(map[string]float64{}, "")

			Convey("Then nobody owns the entity", func() {
				So(owner, ShouldEqual, "")
			})
		})

		Convey("When there is no previous owner but one team has points", func() {
			owner := engine.DetermineOwner(map[string]float64{"team1": 10}, "")

			Convey("Then that team becomes the first owner", func() {
				So(owner, ShouldEqual, "team1")
			})
		})

		Convey("When the incumbent has decayed below a challenger", func() {
			owner := engine.DetermineOwner(map[string]float64{"team1": 9, "team2": 10}, "team1")

			Convey("Then ownership flips", func() {
				So(owner, ShouldEqual, "team2")
			})
		})
	})
}

func TestEngine_WithDailyDecay(t *testing.T) {
	Convey("Given an engine configured for 50% daily decay", t, func() {
		engine := scoring.NewEngine(scoring.WithDailyDecay(0.5))
		t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		Convey("When a day passes", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0.Add(24*time.Hour))

			Convey("Then half the points are gone", func() {
				So(pts["team1"], ShouldEqual, 50)
			})
		})
	})

	Convey("Given out-of-range decay options", t, func() {
		engine := scoring.NewEngine(scoring.WithDailyDecay(0), scoring.WithDailyDecay(1.5))
		t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		Convey("When a day passes", func() {
			pts := engine.CurrentPoints(map[string]float64{"team1": 100}, t0, t0.Add(24*time.Hour))

			Convey("Then the default decay still applies", func() {
				So(pts["team1"], ShouldEqual, 90)
			})
		})
	})
}
