package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/render"
	"github.com/eugenenazirov/pallet-planner/internal/storage"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

const sampleInputsJSON = `{"boxLength":40,"boxWidth":30,"boxHeight":20,"palletLength":120,"palletWidth":80,"maxStackHeight":100}`

type sessionBody struct {
	ID   string `json:"id"`
	View struct {
		Inputs   packing.Inputs         `json:"inputs"`
		Results  []presentation.Summary `json:"results"`
		Selected int                    `json:"selected"`
		Empty    bool                   `json:"empty"`
		Layout   *render.Layout         `json:"layout"`
	} `json:"view"`
}

func setupTestRouter(t *testing.T) (http.Handler, *controllableClock) {
	t.Helper()

	sessions, err := storage.NewMemorySessionStore(64, time.Hour)
	if err != nil {
		t.Fatalf("NewMemorySessionStore returned error: %v", err)
	}
	enum, err := storage.NewCachedEnumerator(packing.New(), 64)
	if err != nil {
		t.Fatalf("NewCachedEnumerator returned error: %v", err)
	}
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	logger := zaptest.NewLogger(t)

	handler := NewHandler(enum, sessions, logger,
		WithClock(clock.Now),
		WithSessionOptions(presentation.WithClock(clock.Now)),
	)
	router := NewRouter(handler, logger, WithLogging(false))

	return router, clock
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, router http.Handler, body string) sessionBody {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/sessions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created sessionBody
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected session id")
	}
	return created
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string              `json:"status"`
		Timestamp time.Time           `json:"timestamp"`
		Sessions  int                 `json:"sessions"`
		Cache     *storage.CacheStats `json:"cache"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
	if body.Cache == nil {
		t.Fatalf("expected cache stats from cached enumerator")
	}
}

func TestCalculateEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/calculate", sampleInputsJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Results []presentation.Summary `json:"results"`
		Empty   bool                   `json:"empty"`
		Layout  *render.Layout         `json:"layout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Empty || len(body.Results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(body.Results))
	}
	if body.Results[0].Efficiency != 100 || body.Results[0].Tier != presentation.TierHigh {
		t.Fatalf("unexpected best summary %+v", body.Results[0])
	}
	last := body.Results[len(body.Results)-1]
	if last.Efficiency != 75 || last.Tier != presentation.TierMedium {
		t.Fatalf("unexpected last summary %+v", last)
	}
	if body.Layout == nil || body.Layout.XCount != 4 || body.Layout.YCount != 2 || body.Layout.Layers != 5 {
		t.Fatalf("unexpected best layout %+v", body.Layout)
	}
}

func TestCalculateEndpointCoercesFreeFormInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := `{"boxLength":"40","boxWidth":" 30 ","boxHeight":"abc","palletLength":120,"palletWidth":80,"maxStackHeight":100}`
	rec := doRequest(t, router, http.MethodPost, "/api/calculate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Inputs  packing.Inputs         `json:"inputs"`
		Results []presentation.Summary `json:"results"`
		Empty   bool                   `json:"empty"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Inputs.BoxLength != 40 || body.Inputs.BoxWidth != 30 || body.Inputs.BoxHeight != 0 {
		t.Fatalf("unexpected coerced inputs %+v", body.Inputs)
	}
	if !body.Empty || len(body.Results) != 0 {
		t.Fatalf("expected empty result for zero height")
	}
}

func TestCalculateEndpointNegativeInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := `{"boxLength":-40,"boxWidth":30,"boxHeight":20,"palletLength":120,"palletWidth":80,"maxStackHeight":100}`
	rec := doRequest(t, router, http.MethodPost, "/api/calculate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var body struct {
		Empty bool `json:"empty"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Empty {
		t.Fatalf("expected empty result for negative input")
	}
}

func TestCalculateEndpointRejectsMalformedJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/calculate", `{"boxLength":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSessionSelectionFlow(t *testing.T) {
	router, clock := setupTestRouter(t)

	created := createSession(t, router, sampleInputsJSON)
	if created.View.Selected != 0 || len(created.View.Results) != 6 {
		t.Fatalf("unexpected initial view %+v", created.View)
	}

	clock.Advance(time.Minute)
	rec := doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/selection", `{"index":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var selected sessionBody
	if err := json.NewDecoder(rec.Body).Decode(&selected); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if selected.View.Selected != 4 || selected.View.Layout.XCount != 3 {
		t.Fatalf("unexpected selected view %+v", selected.View)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/diagram.svg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if got := strings.Count(rec.Body.String(), `class="box-visual"`); got != 6 {
		t.Fatalf("expected 6 boxes in diagram, got %d", got)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/scene", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var scene render.Scene
	if err := json.NewDecoder(rec.Body).Decode(&scene); err != nil {
		t.Fatalf("failed to decode scene: %v", err)
	}
	if scene.XCount != 3 || scene.YCount != 2 || scene.Layers != 5 || len(scene.Boxes) != 30 {
		t.Fatalf("unexpected scene %+v", scene)
	}
}

func TestSessionSelectionValidation(t *testing.T) {
	router, _ := setupTestRouter(t)
	created := createSession(t, router, sampleInputsJSON)

	for _, body := range []string{`{"index":6}`, `{"index":-1}`, `{}`, `nope`} {
		rec := doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/selection", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected status 400, got %d", body, rec.Code)
		}
	}
}

func TestSessionInputsReplaceRanking(t *testing.T) {
	router, _ := setupTestRouter(t)
	created := createSession(t, router, sampleInputsJSON)

	rec := doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/selection", `{"index":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	infeasible := `{"boxLength":50,"boxWidth":50,"boxHeight":50,"palletLength":100,"palletWidth":100,"maxStackHeight":40}`
	rec = doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/inputs", infeasible)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var updated sessionBody
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !updated.View.Empty || updated.View.Selected != 0 || updated.View.Layout != nil {
		t.Fatalf("expected empty view, got %+v", updated.View)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/diagram.svg", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for empty ranking, got %d", rec.Code)
	}
	var errBody errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errBody.Error != "No results" || errBody.Suggestion == "" {
		t.Fatalf("unexpected error body %+v", errBody)
	}
}

func TestSessionExport(t *testing.T) {
	router, _ := setupTestRouter(t)
	created := createSession(t, router, sampleInputsJSON)

	rec := doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/export.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "pallet-ranking.xlsx") {
		t.Fatalf("expected attachment header")
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Ranking")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d", len(rows))
	}
}

func TestSessionGetAndDelete(t *testing.T) {
	router, _ := setupTestRouter(t)
	created := createSession(t, router, sampleInputsJSON)

	rec := doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/sessions/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	for _, path := range []string{"", "/diagram.svg", "/scene", "/export.xlsx"} {
		rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+path, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected status 404 after delete, got %d", path, rec.Code)
		}
	}
	rec = doRequest(t, router, http.MethodDelete, "/api/sessions/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for repeated delete, got %d", rec.Code)
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/health", "")
	if got := rec.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("expected generated UUID request id, got %q", got)
	}
}

func TestNumberFieldDecoding(t *testing.T) {
	tests := map[string]float64{
		`12.5`:    12.5,
		`"7"`:     7,
		`"x"`:     0,
		`null`:    0,
		`-3`:      0,
		`true`:    0,
		`"1e400"`: 0,
	}
	for raw, want := range tests {
		var n numberField
		if err := json.Unmarshal([]byte(raw), &n); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if float64(n) != want {
			t.Fatalf("%s: expected %v, got %v", raw, want, float64(n))
		}
	}
}

func TestSessionRenderRefusesOversizedLayouts(t *testing.T) {
	router, _ := setupTestRouter(t)

	// 1x1x1 boxes: one 9600 box layer fits the default limit, 100 layers do not.
	unit := `{"boxLength":1,"boxWidth":1,"boxHeight":1,"palletLength":120,"palletWidth":80,"maxStackHeight":100}`
	created := createSession(t, router, unit)
	if created.View.Empty || created.View.Results[0].TotalBoxes != 960000 {
		t.Fatalf("expected the ranking to stay available, got %+v", created.View.Results)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/diagram.svg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected top view of one layer, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/scene", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for the scene, got %d", rec.Code)
	}
	var errBody errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errBody.Suggestion == "" || !strings.Contains(errBody.Details, "960000") {
		t.Fatalf("unexpected error body %+v", errBody)
	}

	// 0.1x0.1 boxes put 960000 boxes in a single layer.
	fine := `{"boxLength":0.1,"boxWidth":0.1,"boxHeight":1,"palletLength":120,"palletWidth":80,"maxStackHeight":1}`
	rec = doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/inputs", fine)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/api/sessions/"+created.ID+"/diagram.svg", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for the diagram, got %d", rec.Code)
	}
	if rec.Body.Len() > 1024 {
		t.Fatalf("expected a short error body, got %d bytes", rec.Body.Len())
	}
}

func TestRequestBodyLimit(t *testing.T) {
	router, _ := setupTestRouter(t)

	padded := `{"boxLength":` + strings.Repeat(" ", maxRequestBodyBytes) + `40}`
	for _, target := range []string{"/api/calculate", "/api/sessions"} {
		rec := doRequest(t, router, http.MethodPost, target, padded)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("%s: expected status 413, got %d", target, rec.Code)
		}
	}

	created := createSession(t, router, sampleInputsJSON)
	rec := doRequest(t, router, http.MethodPut, "/api/sessions/"+created.ID+"/selection", `{"index":`+strings.Repeat(" ", maxRequestBodyBytes)+`1}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413 for selection, got %d", rec.Code)
	}
}
