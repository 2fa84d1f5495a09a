package trigger_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
	trigger "github.com/veganaut/veganaut-backend/internal/domain/trigger"
)

func TestEngine_Check(t *testing.T) {
	Convey("Given a trigger engine over the default catalog", t, func() {
		engine := trigger.New(catalog.MustDefault())

		Convey("When a knowledge task reports regular visits", func() {
			task := &model.Task{
				ID:         "task-1",
				Type:       catalog.TypeHowWellDoYouKnowThisLocation,
				PersonID:   "person-1",
				LocationID: "loc-1",
				Outcome:    model.Outcome{"knowLocation": catalog.KnowRegular},
			}
			spawn, ok := engine.Check(task)

			Convey("Then it spawns an existence confirmation", func() {
				So(ok, ShouldBeTrue)
				So(spawn.Type, ShouldEqual, catalog.TypeSetLocationExistence)
				So(spawn.Outcome["existence"], ShouldEqual, string(model.ExistenceExisting))
			})

			Convey("And the spawn inherits the parent's person and subject", func() {
				So(spawn.PersonID, ShouldEqual, "person-1")
				So(spawn.LocationID, ShouldEqual, "loc-1")
				So(spawn.TriggeredByID, ShouldEqual, "task-1")
			})

			Convey("And mutating the spawn outcome leaves the rule untouched", func() {
				spawn.Outcome["existence"] = "mangled"
				again, ok := engine.Check(task)
				So(ok, ShouldBeTrue)
				So(again.Outcome["existence"], ShouldEqual, string(model.ExistenceExisting))
			})
		})

		Convey("When a knowledge task reports several visits", func() {
			_, ok := engine.Check(&model.Task{
				Type:    catalog.TypeHowWellDoYouKnowThisLocation,
				Outcome: model.Outcome{"knowLocation": catalog.KnowSeveralTimes},
			})

			Convey("Then it still triggers", func() {
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a knowledge task reports never having been there", func() {
			_, ok := engine.Check(&model.Task{
				Type:    catalog.TypeHowWellDoYouKnowThisLocation,
				Outcome: model.Outcome{"knowLocation": catalog.KnowNever},
			})

			Convey("Then nothing spawns", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the task type carries no trigger rule", func() {
			_, ok := engine.Check(&model.Task{
				Type:    catalog.TypeRateLocationQuality,
				Outcome: model.Outcome{"quality": 4},
			})

			Convey("Then nothing spawns", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When an NPC task triggers", func() {
			spawn, ok := engine.Check(&model.Task{
				ID:      "task-2",
				Type:    catalog.TypeHowWellDoYouKnowThisLocation,
				ByNPC:   true,
				Outcome: model.Outcome{"knowLocation": catalog.KnowRegular},
			})

			Convey("Then the spawn stays an NPC task", func() {
				So(ok, ShouldBeTrue)
				So(spawn.ByNPC, ShouldBeTrue)
			})
		})
	})
}
