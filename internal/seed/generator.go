package seed

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Task type ids the generator knows how to fill in. Mirrors the
// production catalog.
const (
	typeKnowLocation    = "HowWellDoYouKnowThisLocation"
	typeRateQuality     = "RateLocationQuality"
	typeSetExistence    = "SetLocationExistence"
	typeSetDescription  = "SetLocationDescription"
	typeTagLocation     = "TagLocation"
	typeAddProduct      = "AddProduct"
	typeRateProduct     = "RateProduct"
	typeSetAvailability = "SetProductAvailability"
	typeGiveFeedback    = "GiveFeedback"
)

var knowAnswers = []string{"never", "onceOrTwice", "severalTimes", "regular"}
var availabilities = []string{"always", "sometimes", "not"}
var tags = []string{"breakfast", "lunch", "dinner", "snacks", "drinks"}
var productNames = []string{"oat latte", "seitan burger", "tofu scramble", "lentil soup", "falafel wrap"}

// taskRequest is the wire shape POSTed to /v1/tasks.
type taskRequest struct {
	RequestID string         `json:"requestId,omitempty"`
	Type      string         `json:"type"`
	Person    string         `json:"person"`
	Location  string         `json:"location,omitempty"`
	Product   string         `json:"product,omitempty"`
	Outcome   map[string]any `json:"outcome"`
}

// generator produces plausible random submissions. It learns product
// ids from accepted AddProduct tasks so later product tasks have
// something to reference.
type generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	persons   []string
	locations []string
	// products maps a location id to its known product ids.
	products map[string][]string
}

func newGenerator(persons, locations []string) *generator {
	return &generator{
		rng:       rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // load generation does not need crypto randomness
		persons:   persons,
		locations: locations,
		products:  make(map[string][]string),
	}
}

func (g *generator) recordProduct(locationID, productID string) {
	if productID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.products[locationID] = append(g.products[locationID], productID)
}

func (g *generator) next() taskRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	person := g.persons[g.rng.Intn(len(g.persons))]
	location := g.locations[g.rng.Intn(len(g.locations))]
	req := taskRequest{
		RequestID: uuid.NewString(),
		Person:    person,
		Location:  location,
	}

	switch g.rng.Intn(9) {
	case 0:
		req.Type = typeKnowLocation
		req.Outcome = map[string]any{"knowLocation": knowAnswers[g.rng.Intn(len(knowAnswers))]}
	case 1:
		req.Type = typeRateQuality
		req.Outcome = map[string]any{"quality": 1 + g.rng.Intn(5)}
	case 2:
		req.Type = typeSetExistence
		req.Outcome = map[string]any{"existence": "existing"}
	case 3:
		req.Type = typeSetDescription
		req.Outcome = map[string]any{"description": "seeded description"}
	case 4:
		req.Type = typeTagLocation
		req.Outcome = map[string]any{"tags": []string{tags[g.rng.Intn(len(tags))]}}
	case 5:
		req.Type = typeGiveFeedback
		req.Location = ""
		req.Outcome = map[string]any{"text": "seeded feedback"}
	case 6:
		req.Type = typeAddProduct
		req.Outcome = map[string]any{"name": productNames[g.rng.Intn(len(productNames))]}
	case 7:
		if p, ok := g.productAt(location); ok {
			req.Type = typeRateProduct
			req.Product = p
			req.Outcome = map[string]any{"rating": 1 + g.rng.Intn(5)}
		} else {
			req.Type = typeAddProduct
			req.Outcome = map[string]any{"name": productNames[g.rng.Intn(len(productNames))]}
		}
	default:
		if p, ok := g.productAt(location); ok {
			req.Type = typeSetAvailability
			req.Product = p
			req.Outcome = map[string]any{"availability": availabilities[g.rng.Intn(len(availabilities))]}
		} else {
			req.Type = typeKnowLocation
			req.Outcome = map[string]any{"knowLocation": knowAnswers[g.rng.Intn(len(knowAnswers))]}
		}
	}
	return req
}

func (g *generator) productAt(locationID string) (string, bool) {
	ps := g.products[locationID]
	if len(ps) == 0 {
		return "", false
	}
	return ps[g.rng.Intn(len(ps))], true
}
