package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/veganaut/veganaut-backend/internal/app"
)

// LocationsHandler serves location reads and creation.
type LocationsHandler struct {
	deps Dependencies
}

// NewLocationsHandler creates a locations handler.
func NewLocationsHandler(deps Dependencies) *LocationsHandler {
	return &LocationsHandler{deps: deps}
}

// HandleGet handles GET /v1/locations/{id}. Points in the response are
// decayed to the instant of the read.
func (h *LocationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/locations/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	view, err := h.deps.LocationView(r.Context(), id, time.Now())
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type createLocationRequest struct {
	Name string `json:"name"`
}

// HandleCreate handles POST /v1/locations.
func (h *LocationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	loc, err := h.deps.CreateLocation(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": loc.ID, "name": loc.Name})
}

// ProductsHandler serves product reads.
type ProductsHandler struct {
	deps Dependencies
}

// NewProductsHandler creates a products handler.
func NewProductsHandler(deps Dependencies) *ProductsHandler {
	return &ProductsHandler{deps: deps}
}

// HandleGet handles GET /v1/products/{id}.
func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/products/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	view, err := h.deps.ProductView(r.Context(), id, time.Now())
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// PersonsHandler serves person creation.
type PersonsHandler struct {
	deps Dependencies
}

// NewPersonsHandler creates a persons handler.
func NewPersonsHandler(deps Dependencies) *PersonsHandler {
	return &PersonsHandler{deps: deps}
}

type createPersonRequest struct {
	Team string `json:"team"`
}

// HandleCreate handles POST /v1/persons.
func (h *PersonsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Team) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	p, err := h.deps.CreatePerson(r.Context(), req.Team)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "storage_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": p.ID, "team": p.Team})
}

func writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, app.ErrSubjectNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "storage_error", err)
}
