package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/internal/draws"
	"github.com/wonny/ssq/pkg/logger"
)

// DrawLister is satisfied by draws.Repository and draws.Memory
type DrawLister interface {
	List(ctx context.Context, f draws.Filter) ([]contracts.DrawRecord, error)
}

// DrawsHandler serves the draw history
// ⭐ SSOT: 추첨 기록 API 핸들러는 이 구조체에서만
type DrawsHandler struct {
	draws  DrawLister
	logger *logger.Logger
}

// NewDrawsHandler creates a new draws handler
func NewDrawsHandler(lister DrawLister, log *logger.Logger) *DrawsHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &DrawsHandler{
		draws:  lister,
		logger: log,
	}
}

// DrawsResponse is the body of GET /api/draws
type DrawsResponse struct {
	Count int                    `json:"count"`
	Draws []contracts.DrawRecord `json:"draws"`
}

// List returns the draws matching the query filters
// GET /api/draws?weekday=二&from_seq=0&to_seq=100&from=2024-01-01&to=2024-12-31
func (h *DrawsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.draws.List(r.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list draws")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve draws")
		return
	}

	respondJSON(w, http.StatusOK, DrawsResponse{
		Count: len(records),
		Draws: records,
	})
}

// ParseFilter reads weekday, from_seq, to_seq, from and to (YYYY-MM-DD)
func ParseFilter(q url.Values) (draws.Filter, error) {
	var f draws.Filter
	f.Weekday = q.Get("weekday")

	var err error
	if f.FromSeq, err = parseIntParam(q, "from_seq"); err != nil {
		return f, err
	}
	if f.ToSeq, err = parseIntParam(q, "to_seq"); err != nil {
		return f, err
	}
	if f.From, err = parseDateParam(q, "from"); err != nil {
		return f, err
	}
	if f.To, err = parseDateParam(q, "to"); err != nil {
		return f, err
	}

	if f.FromSeq != nil && f.ToSeq != nil && *f.FromSeq > *f.ToSeq {
		return f, fmt.Errorf("from_seq must not exceed to_seq")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, fmt.Errorf("'from' must not be after 'to'")
	}
	return f, nil
}

func parseIntParam(q url.Values, name string) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("invalid '%s' (expected a non-negative integer)", name)
	}
	return &v, nil
}

func parseDateParam(q url.Values, name string) (*time.Time, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' date format (expected YYYY-MM-DD)", name)
	}
	return &t, nil
}
