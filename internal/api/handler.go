package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-planner/internal/export"
	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/render"
	"github.com/eugenenazirov/pallet-planner/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const noResultsSuggestion = "Check that every measurement is positive and that at least one box side fits under the maximum stack height"

const tooManyBoxesSuggestion = "Use larger boxes or a smaller pallet; the ranking and summary are still available"

// maxRequestBodyBytes bounds JSON request bodies; six numbers fit many times over.
const maxRequestBodyBytes = 16 << 10

type statsProvider interface {
	Stats() storage.CacheStats
}

// Handler wires the enumerator, session store and renderers into HTTP handlers.
type Handler struct {
	enumerator  packing.Enumerator
	sessions    storage.SessionStore
	logger      *zap.Logger
	sessionOpts []presentation.SessionOption

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithSessionOptions applies opts to every session the handler creates.
func WithSessionOptions(opts ...presentation.SessionOption) HandlerOption {
	return func(h *Handler) {
		h.sessionOpts = append(h.sessionOpts, opts...)
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(enumerator packing.Enumerator, sessions storage.SessionStore, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		enumerator: enumerator,
		sessions:   sessions,
		logger:     logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
		Sessions:  h.sessions.Len(),
	}
	if sp, ok := h.enumerator.(statsProvider); ok {
		st := sp.Stats()
		resp.Cache = &st
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	start := time.Now()
	ranking := h.enumerator.Enumerate(in)
	elapsed := time.Since(start)

	resp := calculateResponse{
		Inputs:            in,
		Results:           presentation.Summarize(ranking),
		Empty:             len(ranking) == 0,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	if best, ok := ranking.Best(); ok {
		layout := render.LayoutFor(best, in.PalletLength, in.PalletWidth)
		resp.Layout = &layout
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	session := h.newSession()
	view := session.Recompute(in)
	id := h.sessions.Create(session)

	h.logger.Debug("session created",
		zap.String("session_id", id),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: id, View: view})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: session.View()})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		h.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateInputs(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	in, ok := decodeInputs(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: session.Recompute(in)})
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req selectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "index is required")
		return
	}

	view, err := session.Select(*req.Index)
	if err != nil {
		if errors.Is(err, presentation.ErrSelectionOutOfRange) {
			writeError(w, http.StatusBadRequest, "Invalid selection", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: id, View: view})
}

func (h *Handler) handleDiagram(w http.ResponseWriter, r *http.Request) {
	h.renderSelected(w, r, render.KindSVG)
}

func (h *Handler) handleScene(w http.ResponseWriter, r *http.Request) {
	h.renderSelected(w, r, render.KindScene)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	_, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	view := session.View()
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view.Inputs, view.Results); err != nil {
		h.logger.Error("export failed", zap.Error(err))
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="pallet-ranking.xlsx"`)
	writeBody(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *Handler) renderSelected(w http.ResponseWriter, r *http.Request, kind render.Kind) {
	_, session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	contentType, err := session.ContentType(kind)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := session.Render(r.Context(), kind, &buf); err != nil {
		switch {
		case errors.Is(err, presentation.ErrNoResults):
			writeError(w, http.StatusNotFound, "No results", err.Error(), noResultsSuggestion)
		case errors.Is(err, render.ErrTooManyBoxes):
			writeError(w, http.StatusUnprocessableEntity, "Layout too large to draw", err.Error(), tooManyBoxesSuggestion)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
		default:
			writeInternalError(w, err)
		}
		return
	}
	writeBody(w, contentType, buf.Bytes())
}

func (h *Handler) newSession() *presentation.Session {
	return presentation.NewSession(h.enumerator, h.logger, h.sessionOpts...)
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (string, *presentation.Session, bool) {
	id := r.PathValue("id")
	session, err := h.sessions.Get(id)
	if err != nil {
		h.writeSessionError(w, err)
		return "", nil, false
	}
	return id, session, true
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "Session not found", err.Error(), "Create a new session with POST /api/sessions")
		return
	}
	writeInternalError(w, err)
}

func decodeInputs(w http.ResponseWriter, r *http.Request) (packing.Inputs, bool) {
	var req inputsRequest
	if !decodeJSON(w, r, &req) {
		return packing.Inputs{}, false
	}
	return req.toInputs(), true
}

// decodeJSON reads at most maxRequestBodyBytes into v, writing a 413 or 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large", fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
