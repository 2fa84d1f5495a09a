package outcome_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/veganaut/veganaut-backend/internal/domain/catalog"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
	outcome "github.com/veganaut/veganaut-backend/internal/domain/outcome"
)

func TestValidator_Validate(t *testing.T) {
	Convey("Given a validator over the default catalog", t, func() {
		v := outcome.NewValidator(catalog.MustDefault())

		Convey("When the payload matches the schema", func() {
			err := v.Validate(catalog.TypeHowWellDoYouKnowThisLocation, model.Outcome{
				"knowLocation": catalog.KnowRegular,
			})

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When the payload carries a field the schema does not declare", func() {
			err := v.Validate(catalog.TypeHowWellDoYouKnowThisLocation, model.Outcome{
				"knowLocation": catalog.KnowRegular,
				"mood":         "great",
			})

			Convey("Then the whole payload is rejected", func() {
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)

				var ve *outcome.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Fields, ShouldHaveLength, 1)
				So(ve.Fields[0].Field, ShouldEqual, "mood")
			})
		})

		Convey("When a required field is missing", func() {
			err := v.Validate(catalog.TypeRateLocationQuality, model.Outcome{})

			Convey("Then it is rejected with the field named", func() {
				var ve *outcome.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(ve.Fields, ShouldHaveLength, 1)
				So(ve.Fields[0].Field, ShouldEqual, "quality")
			})
		})

		Convey("When an optional field is missing", func() {
			err := v.Validate(catalog.TypeGiveFeedback, model.Outcome{"text": "love it"})

			Convey("Then it is accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When an enum value is not in the allowed set", func() {
			err := v.Validate(catalog.TypeHowWellDoYouKnowThisLocation, model.Outcome{
				"knowLocation": "intimately",
			})

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)
			})
		})

		Convey("When an integer field is out of range", func() {
			err := v.Validate(catalog.TypeRateLocationQuality, model.Outcome{"quality": 6})

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)
			})
		})

		Convey("When an integer field arrives as a JSON float", func() {
			Convey("Then an integral float is accepted", func() {
				So(v.Validate(catalog.TypeRateLocationQuality, model.Outcome{"quality": float64(3)}), ShouldBeNil)
			})

			Convey("And a fractional float is rejected", func() {
				err := v.Validate(catalog.TypeRateLocationQuality, model.Outcome{"quality": 3.5})
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)
			})
		})

		Convey("When a boolean field has the wrong type", func() {
			err := v.Validate(catalog.TypeGiveFeedback, model.Outcome{
				"text":      "hello",
				"anonymous": "yes",
			})

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)
			})
		})

		Convey("When tags arrive as a decoded JSON array", func() {
			err := v.Validate(catalog.TypeTagLocation, model.Outcome{
				"tags": []any{"breakfast", "lunch"},
			})

			Convey("Then they are accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When tags contain an unknown value", func() {
			err := v.Validate(catalog.TypeTagLocation, model.Outcome{
				"tags": []string{"breakfast", "karaoke"},
			})

			Convey("Then it is rejected", func() {
				So(err, ShouldWrap, outcome.ErrInvalidOutcome)
			})
		})

		Convey("When several fields are broken at once", func() {
			err := v.Validate(catalog.TypeGiveFeedback, model.Outcome{
				"anonymous": "yes",
				"extra":     1,
			})

			Convey("Then every problem is reported", func() {
				var ve *outcome.ValidationError
				So(errors.As(err, &ve), ShouldBeTrue)
				So(len(ve.Fields), ShouldBeGreaterThanOrEqualTo, 3)
			})
		})

		Convey("When the task type does not exist", func() {
			err := v.Validate("PaintTheFence", model.Outcome{})

			Convey("Then the catalog error surfaces instead of a validation error", func() {
				So(err, ShouldWrap, catalog.ErrUnknownType)
			})
		})
	})
}
