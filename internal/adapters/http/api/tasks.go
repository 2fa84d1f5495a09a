package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/veganaut/veganaut-backend/internal/app"
	"github.com/veganaut/veganaut-backend/internal/domain/model"
	"github.com/veganaut/veganaut-backend/internal/domain/outcome"
)

// TasksHandler handles task submissions.
type TasksHandler struct {
	deps Dependencies
}

// NewTasksHandler creates a tasks handler.
func NewTasksHandler(deps Dependencies) *TasksHandler {
	return &TasksHandler{deps: deps}
}

// taskRequest mirrors the submission request shape of the core.
type taskRequest struct {
	RequestID string        `json:"requestId,omitempty"`
	Type      string        `json:"type"`
	Person    string        `json:"person"`
	Location  string        `json:"location,omitempty"`
	Product   string        `json:"product,omitempty"`
	Outcome   model.Outcome `json:"outcome"`
	ByNPC     bool          `json:"byNpc,omitempty"`
}

func (t taskRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Type) == "":
		return errors.New("missing type")
	case strings.TrimSpace(t.Person) == "":
		return errors.New("missing person")
	case t.Outcome == nil:
		return errors.New("missing outcome")
	}
	return nil
}

// HandlePostTask handles POST /v1/tasks.
func (h *TasksHandler) HandlePostTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	// Soft idempotency on the optional client request id.
	if req.RequestID != "" && h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeError(w, http.StatusConflict, "duplicate", ErrDuplicate)
		return
	}

	res, err := h.deps.Submit(r.Context(), model.Submission{
		RequestID:  req.RequestID,
		Type:       req.Type,
		PersonID:   req.Person,
		LocationID: req.Location,
		ProductID:  req.Product,
		Outcome:    req.Outcome,
		ByNPC:      req.ByNPC,
	}, time.Now())
	if err != nil {
		// A rejected submission may legitimately be retried.
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// writeSubmitError maps the pipeline taxonomy onto HTTP statuses.
func writeSubmitError(w http.ResponseWriter, err error) {
	var ve *outcome.ValidationError
	switch {
	case errors.As(err, &ve):
		fields := make([]map[string]string, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = map[string]string{"field": f.Field, "reason": f.Reason}
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_outcome",
			Message: ve.Error(),
			Fields:  fields,
		})
	case errors.Is(err, app.ErrUnknownTaskType):
		writeError(w, http.StatusBadRequest, "unknown_task_type", err)
	case errors.Is(err, app.ErrSubjectNotFound):
		writeError(w, http.StatusNotFound, "subject_not_found", err)
	case errors.Is(err, app.ErrInsufficientFamiliarity):
		writeError(w, http.StatusForbidden, "insufficient_familiarity", err)
	default:
		writeError(w, http.StatusInternalServerError, "storage_error", err)
	}
}
