package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/render"
	"github.com/eugenenazirov/pallet-planner/internal/storage"
)

type calculateResponse struct {
	Inputs            packing.Inputs         `json:"inputs"`
	Results           []presentation.Summary `json:"results"`
	Empty             bool                   `json:"empty"`
	Layout            *render.Layout         `json:"layout,omitempty"`
	CalculationTimeMs int64                  `json:"calculationTimeMs"`
}

type sessionResponse struct {
	ID   string            `json:"id"`
	View presentation.View `json:"view"`
}

type healthResponse struct {
	Status    string              `json:"status"`
	Timestamp time.Time           `json:"timestamp"`
	Sessions  int                 `json:"sessions"`
	Cache     *storage.CacheStats `json:"cache,omitempty"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
