package catalog

import "github.com/veganaut/veganaut-backend/internal/domain/model"

// Task type ids.
const (
	TypeHowWellDoYouKnowThisLocation = "HowWellDoYouKnowThisLocation"
	TypeRateLocationQuality          = "RateLocationQuality"
	TypeSetLocationName              = "SetLocationName"
	TypeSetLocationDescription       = "SetLocationDescription"
	TypeTagLocation                  = "TagLocation"
	TypeSetLocationExistence         = "SetLocationExistence"
	TypeAddProduct                   = "AddProduct"
	TypeSetProductName               = "SetProductName"
	TypeRateProduct                  = "RateProduct"
	TypeSetProductAvailability       = "SetProductAvailability"
	TypeGiveFeedback                 = "GiveFeedback"
)

// Location knowledge answers.
const (
	KnowNever        = "never"
	KnowOnceOrTwice  = "onceOrTwice"
	KnowSeveralTimes = "severalTimes"
	KnowRegular      = "regular"
)

var locationTags = []string{
	"breakfast", "lunch", "dinner", "snacks", "drinks", "desserts", "organic", "delivery",
}

// Default returns the production rule table. Point values, staleness
// windows and familiarity tiers follow the live balancing of the app.
func Default() []Definition {
	return []Definition{
		{
			Type:        TypeHowWellDoYouKnowThisLocation,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"knowLocation": {Type: FieldEnum, Required: true, Enum: []string{
					KnowNever, KnowOnceOrTwice, KnowSeveralTimes, KnowRegular,
				}},
			},
			PointValue: 10,
			StaleDays:  90,
			Trigger: &TriggerRule{
				CheckField:    "knowLocation",
				TriggerValues: []string{KnowSeveralTimes, KnowRegular},
				SpawnType:     TypeSetLocationExistence,
				SpawnOutcome:  model.Outcome{"existence": string(model.ExistenceExisting)},
			},
		},
		{
			Type:        TypeRateLocationQuality,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"quality": {Type: FieldInt, Required: true, Min: 1, Max: 5},
			},
			PointValue:          20,
			StaleDays:           30,
			RequiredFamiliarity: 1,
			RatingField:         "quality",
		},
		{
			Type:        TypeSetLocationName,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"name": {Type: FieldString, Required: true},
			},
			PointValue:          10,
			StaleDays:           30,
			RequiredFamiliarity: 1,
			NameField:           "name",
		},
		{
			Type:        TypeSetLocationDescription,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"description": {Type: FieldString, Required: true},
			},
			PointValue:          10,
			StaleDays:           30,
			RequiredFamiliarity: 1,
			DescriptionField:    "description",
		},
		{
			Type:        TypeTagLocation,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"tags": {Type: FieldTags, Required: true, Enum: locationTags},
			},
			PointValue:          15,
			StaleDays:           60,
			RequiredFamiliarity: 1,
			TagsField:           "tags",
		},
		{
			Type:        TypeSetLocationExistence,
			MainSubject: model.SubjectLocation,
			Outcome: OutcomeSchema{
				"existence": {Type: FieldEnum, Required: true, Enum: []string{
					string(model.ExistenceExisting),
					string(model.ExistenceClosedDown),
					string(model.ExistenceWrongData),
				}},
			},
			PointValue:        10,
			StaleDays:         60,
			AllowsSoftDeleted: true,
			ExistenceField:    "existence",
		},
		{
			Type:          TypeAddProduct,
			MainSubject:   model.SubjectProduct,
			OtherSubjects: []model.SubjectKind{model.SubjectLocation},
			Outcome: OutcomeSchema{
				"name": {Type: FieldString, Required: true},
			},
			PointValue:     15,
			CreatesProduct: true,
			NameField:      "name",
		},
		{
			Type:          TypeSetProductName,
			MainSubject:   model.SubjectProduct,
			OtherSubjects: []model.SubjectKind{model.SubjectLocation},
			Outcome: OutcomeSchema{
				"name": {Type: FieldString, Required: true},
			},
			PointValue:          10,
			StaleDays:           30,
			RequiredFamiliarity: 1,
			NameField:           "name",
		},
		{
			Type:          TypeRateProduct,
			MainSubject:   model.SubjectProduct,
			OtherSubjects: []model.SubjectKind{model.SubjectLocation},
			Outcome: OutcomeSchema{
				"rating": {Type: FieldInt, Required: true, Min: 1, Max: 5},
			},
			PointValue:          15,
			StaleDays:           30,
			RequiredFamiliarity: 1,
			RatingField:         "rating",
		},
		{
			Type:          TypeSetProductAvailability,
			MainSubject:   model.SubjectProduct,
			OtherSubjects: []model.SubjectKind{model.SubjectLocation},
			Outcome: OutcomeSchema{
				"availability": {Type: FieldEnum, Required: true, Enum: []string{
					string(model.AvailabilityAlways),
					string(model.AvailabilitySometimes),
					string(model.AvailabilityNot),
				}},
			},
			PointValue:        10,
			StaleDays:         30,
			AvailabilityField: "availability",
		},
		{
			Type:        TypeGiveFeedback,
			MainSubject: model.SubjectGlobal,
			Outcome: OutcomeSchema{
				"text":      {Type: FieldString, Required: true},
				"anonymous": {Type: FieldBool},
			},
			PointValue: 10,
		},
	}
}

// MustDefault compiles the default rule table, panicking on a broken
// build of the table itself.
func MustDefault() *Catalog {
	c, err := New(Default())
	if err != nil {
		panic(err)
	}
	return c
}
