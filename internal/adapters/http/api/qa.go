package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/KenTen-21/WeatherApp/internal/domain/qa"
)

// QADependencies defines the interface for question answering.
type QADependencies interface {
	Answer(ctx context.Context, question string, lat, lon float64) (qa.Result, error)
}

// QAHandler handles natural-language question requests.
type QAHandler struct {
	deps QADependencies
}

// NewQAHandler creates a new QA handler.
func NewQAHandler(deps QADependencies) *QAHandler {
	return &QAHandler{deps: deps}
}

// qaRequest mirrors the POST /api/qa body.
type qaRequest struct {
	Question string  `json:"question"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

func (q qaRequest) validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrMissingQuestion
	}
	return nil
}

// HandlePostQA handles POST /api/qa requests.
func (h *QAHandler) HandlePostQA(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_qa"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req qaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Answer(r.Context(), req.Question, req.Lat, req.Lon)
	if err != nil {
		if isUpstream(err) || errors.Is(err, context.DeadlineExceeded) {
			writeUpstreamError(w, err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
