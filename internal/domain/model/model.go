// Package model contains domain records passed between layers.
package model

import "time"

// TeamNPC is the team credited for tasks submitted by non-player characters.
const TeamNPC = "npc"

// SubjectKind identifies the kind of entity a task concerns.
type SubjectKind string

const (
	SubjectLocation SubjectKind = "location"
	SubjectProduct  SubjectKind = "product"
	SubjectGlobal   SubjectKind = "global"
)

// Existence captures whether a location is believed to still exist.
// Anything other than ExistenceExisting counts as soft-deleted.
type Existence string

const (
	ExistenceExisting   Existence = "existing"
	ExistenceClosedDown Existence = "closedDown"
	ExistenceWrongData  Existence = "wrongData"
)

// Availability captures how reliably a product can be bought.
type Availability string

const (
	AvailabilityUnknown   Availability = "unknown"
	AvailabilityAlways    Availability = "always"
	AvailabilitySometimes Availability = "sometimes"
	AvailabilityNot       Availability = "not"
)

// Outcome is the payload a person submits when completing a task.
// Its shape is constrained by the catalog entry for the task type.
type Outcome map[string]any

// Person is a registered user. Team is the side their points count for.
type Person struct {
	ID   string
	Team string
}

// Task is a single completed submission. Tasks form an append-only
// ledger: once persisted they are never mutated by normal flow.
type Task struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	PersonID      string    `json:"person"`
	LocationID    string    `json:"location,omitempty"`
	ProductID     string    `json:"product,omitempty"`
	Outcome       Outcome   `json:"outcome"`
	Points        int       `json:"points"`
	Team          string    `json:"team"`
	CreatedAt     time.Time `json:"createdAt"`
	ByNPC         bool      `json:"byNpc,omitempty"`
	TriggeredByID string    `json:"triggeredBy,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
}

// Score is the decaying per-team point state of a scored entity.
// PointsByTeam holds totals as of UpdatedAt; readers must decay them
// to the current instant before interpreting them.
type Score struct {
	PointsByTeam map[string]float64
	UpdatedAt    time.Time
	Owner        string
}

// RatingSummary aggregates 1-5 ratings, keeping only the latest rating
// per person. A resubmission replaces, it does not average with, the
// person's earlier value.
type RatingSummary struct {
	ByPerson map[string]int
}

// Rate records or replaces the rating given by a person.
func (r *RatingSummary) Rate(personID string, value int) {
	if r.ByPerson == nil {
		r.ByPerson = make(map[string]int)
	}
	r.ByPerson[personID] = value
}

// Average returns the mean of each person's latest rating, 0 when empty.
func (r RatingSummary) Average() float64 {
	if len(r.ByPerson) == 0 {
		return 0
	}
	sum := 0
	for _, v := range r.ByPerson {
		sum += v
	}
	return float64(sum) / float64(len(r.ByPerson))
}

// NumRatings returns the number of distinct raters.
func (r RatingSummary) NumRatings() int {
	return len(r.ByPerson)
}

// Location is a real-world place users submit tasks about.
type Location struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Existence   Existence
	Quality     RatingSummary
	Score       Score
}

// SoftDeleted reports whether the location has been marked gone.
func (l *Location) SoftDeleted() bool {
	return l.Existence == ExistenceClosedDown || l.Existence == ExistenceWrongData
}

// Product is an item offered at a location.
type Product struct {
	ID           string
	LocationID   string
	Name         string
	Availability Availability
	Rating       RatingSummary
	Score        Score
}

// Submission is an inbound request to complete a task.
type Submission struct {
	RequestID     string
	Type          string
	PersonID      string
	LocationID    string
	ProductID     string
	Outcome       Outcome
	ByNPC         bool
	TriggeredByID string
}

// SubmissionResult is what a successful submission returns to the caller.
type SubmissionResult struct {
	Task              *Task `json:"task"`
	CausedOwnerChange bool  `json:"causedOwnerChange"`
}

// ScoreUpdate is a deferred entity mutation, queued for reconciliation
// when the in-line update failed after the task was already persisted.
// It carries enough of the task to replay the outcome's data effects
// along with the points.
type ScoreUpdate struct {
	Subject   SubjectKind
	SubjectID string
	Team      string
	Points    int
	TaskID    string
	Type      string
	PersonID  string
	Outcome   Outcome
	At        time.Time
	Attempts  int
}

// RatingView is the read shape of a rating summary.
type RatingView struct {
	Average    float64 `json:"average"`
	NumRatings int     `json:"numRatings"`
}

// LocationView is the read shape of a location with its points decayed
// to the instant of the read.
type LocationView struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Tags         []string           `json:"tags,omitempty"`
	Existence    Existence          `json:"existence"`
	Quality      RatingView         `json:"quality"`
	PointsByTeam map[string]float64 `json:"points"`
	Owner        string             `json:"owner,omitempty"`
}

// ProductView is the read shape of a product with decayed points.
type ProductView struct {
	ID           string             `json:"id"`
	LocationID   string             `json:"location"`
	Name         string             `json:"name"`
	Availability Availability       `json:"availability"`
	Rating       RatingView         `json:"rating"`
	PointsByTeam map[string]float64 `json:"points"`
	Owner        string             `json:"owner,omitempty"`
}
