package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/guard"
	"github.com/creasebook/scoring/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// MatchHandler handles match scheduling, scoring and score views.
type MatchHandler struct {
	svc         *service.MatchService
	idempotency *guard.IdempotencyGuard
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(svc *service.MatchService, idempotency *guard.IdempotencyGuard) *MatchHandler {
	return &MatchHandler{svc: svc, idempotency: idempotency}
}

func matchID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "matchID"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid match id")
	}
	return id, nil
}

// Schedule handles POST /matches.
func (h *MatchHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input service.ScheduleInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, err)
		return
	}
	m, err := h.svc.ScheduleMatch(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, m)
}

// SetLive handles POST /matches/{matchID}/live.
func (h *MatchHandler) SetLive(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var toss domain.Toss
	if err := DecodeJSON(r, &toss); err != nil {
		RespondError(w, err)
		return
	}
	snap, err := h.svc.SetLive(r.Context(), id, toss)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}

// ApplyEvent handles POST /matches/{matchID}/events. An Idempotency-Key
// header makes resubmission of the same event safe.
func (h *MatchHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	var ev domain.Event
	if err := DecodeJSON(r, &ev); err != nil {
		RespondError(w, err)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key != "" {
		key = fmt.Sprintf("%s:%s", id, key)
		if res := h.idempotency.Check(key); !res.Allowed {
			RespondError(w, domain.ErrDuplicateEvent(r.Header.Get("Idempotency-Key")))
			return
		}
	}

	res, err := h.svc.Apply(r.Context(), id, ev)
	if err != nil {
		if key != "" {
			h.idempotency.Remove(key)
		}
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, res)
}

// Get handles GET /matches/{matchID}.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, snap)
}

// Scorecard handles GET /matches/{matchID}/scorecard/{innings}.
func (h *MatchHandler) Scorecard(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "innings"))
	if err != nil {
		RespondError(w, domain.ErrValidation("innings must be a number"))
		return
	}
	card, err := h.svc.Scorecard(r.Context(), id, n)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, card)
}

// Available handles GET /matches/{matchID}/available.
func (h *MatchHandler) Available(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	av, err := h.svc.Available(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, av)
}

// Reset handles POST /matches/{matchID}/reset.
func (h *MatchHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	m, err := h.svc.ResetMatch(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, m)
}

// Verify handles GET /matches/{matchID}/verify.
func (h *MatchHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := matchID(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	res, err := h.svc.Verify(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	status := http.StatusOK
	if !res.Consistent {
		status = http.StatusConflict
	}
	RespondJSON(w, status, res)
}

// Standings handles GET /standings.
func (h *MatchHandler) Standings(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Standings(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, table)
}
