package dedupe_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	dedupe "github.com/veganaut/veganaut-backend/internal/domain/dedupe"
)

func TestDeduper_SeenAndRecord(t *testing.T) {
	Convey("Given an empty deduper", t, func() {
		d := dedupe.New()
		ctx := context.Background()

		Convey("When a fresh id is recorded", func() {
			seen := d.SeenAndRecord(ctx, "req-1")

			Convey("Then it was not seen before", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct ids are recorded", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.SeenAndRecord(ctx, "req-2")

			Convey("Then both are tracked", func() {
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})
}

func TestDeduper_Unrecord(t *testing.T) {
	Convey("Given a deduper holding an id", t, func() {
		d := dedupe.New()
		ctx := context.Background()
		d.SeenAndRecord(ctx, "req-1")

		Convey("When the id is unrecorded", func() {
			d.Unrecord(ctx, "req-1")

			Convey("Then a retry of the same id is treated as fresh", func() {
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})

		Convey("When an unknown id is unrecorded", func() {
			d.Unrecord(ctx, "req-ghost")

			Convey("Then nothing changes", func() {
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestDeduper_Eviction(t *testing.T) {
	Convey("Given a deduper bounded to two ids", t, func() {
		d := dedupe.New(dedupe.WithMaxSize(2))
		ctx := context.Background()

		Convey("When a third id arrives", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.SeenAndRecord(ctx, "req-2")
			d.SeenAndRecord(ctx, "req-3")

			Convey("Then the oldest id was evicted", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})

			Convey("And the newer ids are still tracked", func() {
				So(d.SeenAndRecord(ctx, "req-3"), ShouldBeTrue)
			})
		})

		Convey("When a tracked id is unrecorded before the ring wraps", func() {
			d.SeenAndRecord(ctx, "req-1")
			d.SeenAndRecord(ctx, "req-2")
			d.Unrecord(ctx, "req-1")
			d.SeenAndRecord(ctx, "req-3")

			Convey("Then the freed slot is reused without evicting anyone", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "req-3"), ShouldBeTrue)
			})

			Convey("And further eviction still drops the oldest survivor", func() {
				d.SeenAndRecord(ctx, "req-4")
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "req-2"), ShouldBeFalse)
			})
		})
	})
}
