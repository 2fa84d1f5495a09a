// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/veganaut/veganaut-backend/internal/domain/dedupe"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	dedupe.Deduper

	// Submit runs one task submission through the pipeline.
	Submit(ctx context.Context, sub model.Submission, now time.Time) (*model.SubmissionResult, error)

	// Read operations expose decayed score state.
	LocationView(ctx context.Context, id string, now time.Time) (*model.LocationView, error)
	ProductView(ctx context.Context, id string, now time.Time) (*model.ProductView, error)

	// Minimal creation surface for demos and load generation.
	CreateLocation(ctx context.Context, name string) (*model.Location, error)
	CreatePerson(ctx context.Context, team string) (*model.Person, error)

	// Stats returns service counters.
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	tasksHandler     *TasksHandler
	locationsHandler *LocationsHandler
	productsHandler  *ProductsHandler
	personsHandler   *PersonsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		tasksHandler:     NewTasksHandler(deps),
		locationsHandler: NewLocationsHandler(deps),
		productsHandler:  NewProductsHandler(deps),
		personsHandler:   NewPersonsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/tasks", MetricsMiddleware(s.tasksHandler.HandlePostTask, "tasks"))
	mux.HandleFunc("/v1/locations", MetricsMiddleware(s.locationsHandler.HandleCreate, "locations"))
	mux.HandleFunc("/v1/locations/", MetricsMiddleware(s.locationsHandler.HandleGet, "locations"))
	mux.HandleFunc("/v1/products/", MetricsMiddleware(s.productsHandler.HandleGet, "products"))
	mux.HandleFunc("/v1/persons", MetricsMiddleware(s.personsHandler.HandleCreate, "persons"))
}

type errorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
