package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/evergrowthhq/blueprint-backend/internal/api"
	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/email"
	"github.com/evergrowthhq/blueprint-backend/internal/store"
	stripeinternal "github.com/evergrowthhq/blueprint-backend/internal/stripe"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubQuerier satisfies db.Querier with in-memory state.
// Fields may be set per-test to control behaviour.
type stubQuerier struct {
	db.Querier                             // embedded to panic on unimplemented methods
	sessions          map[string]db.Session // keyed by anon_token
	sessionsByID      map[uuid.UUID]db.Session
	responses         map[uuid.UUID][]db.Response // keyed by session_id
	blueprints        map[string]db.GetBlueprintByAccessTokenRow
	layerResults      map[uuid.UUID][]db.LayerResult
	stripeEvents      map[string]db.StripeEvent
	createSessionErr  error
	upsertResponseErr error
	upsertEventErr    error
}

func newStubQuerier() *stubQuerier {
	return &stubQuerier{
		sessions:     make(map[string]db.Session),
		sessionsByID: make(map[uuid.UUID]db.Session),
		responses:    make(map[uuid.UUID][]db.Response),
		blueprints:   make(map[string]db.GetBlueprintByAccessTokenRow),
		layerResults: make(map[uuid.UUID][]db.LayerResult),
		stripeEvents: make(map[string]db.StripeEvent),
	}
}

func (q *stubQuerier) addSession(token string, s db.Session) {
	q.sessions[token] = s
	q.sessionsByID[s.ID] = s
}

func (q *stubQuerier) CreateSession(_ context.Context, p db.CreateSessionParams) (db.Session, error) {
	if q.createSessionErr != nil {
		return db.Session{}, q.createSessionErr
	}
	s := db.Session{
		ID:        uuid.New(),
		AnonToken: p.AnonToken,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	q.addSession(p.AnonToken, s)
	return s, nil
}

func (q *stubQuerier) GetSessionByAnonToken(_ context.Context, token string) (db.Session, error) {
	s, ok := q.sessions[token]
	if !ok {
		return db.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (q *stubQuerier) GetSessionByID(_ context.Context, id uuid.UUID) (db.Session, error) {
	s, ok := q.sessionsByID[id]
	if !ok {
		return db.Session{}, sql.ErrNoRows
	}
	return s, nil
}

func (q *stubQuerier) UpdateSessionContext(_ context.Context, p db.UpdateSessionContextParams) (db.Session, error) {
	s, ok := q.sessionsByID[p.ID]
	if !ok {
		return db.Session{}, sql.ErrNoRows
	}
	s.OrgName = p.OrgName
	s.Industry = p.Industry
	s.Stage = p.Stage
	q.sessionsByID[p.ID] = s
	for tok, sess := range q.sessions {
		if sess.ID == p.ID {
			q.sessions[tok] = s
		}
	}
	return s, nil
}

func (q *stubQuerier) UpsertResponse(_ context.Context, p db.UpsertResponseParams) (db.Response, error) {
	if q.upsertResponseErr != nil {
		return db.Response{}, q.upsertResponseErr
	}
	row := db.Response{
		ID:         uuid.New(),
		SessionID:  p.SessionID,
		LayerID:    p.LayerID,
		QuestionID: p.QuestionID,
		Answer:     p.Answer,
	}
	q.responses[p.SessionID] = append(q.responses[p.SessionID], row)
	return row, nil
}

func (q *stubQuerier) GetResponsesBySession(_ context.Context, sessionID uuid.UUID) ([]db.Response, error) {
	return q.responses[sessionID], nil
}

func (q *stubQuerier) GetBlueprintByAccessToken(_ context.Context, token string) (db.GetBlueprintByAccessTokenRow, error) {
	r, ok := q.blueprints[token]
	if !ok {
		return db.GetBlueprintByAccessTokenRow{}, sql.ErrNoRows
	}
	return r, nil
}

func (q *stubQuerier) GetLayerResultsByBlueprint(_ context.Context, id uuid.UUID) ([]db.LayerResult, error) {
	return q.layerResults[id], nil
}

func (q *stubQuerier) UpsertStripeEvent(_ context.Context, p db.UpsertStripeEventParams) (db.StripeEvent, error) {
	if q.upsertEventErr != nil {
		return db.StripeEvent{}, q.upsertEventErr
	}
	e := db.StripeEvent{ID: uuid.New(), StripeEventID: p.StripeEventID, Type: p.Type, Status: "received"}
	q.stripeEvents[p.StripeEventID] = e
	return e, nil
}

func (q *stubQuerier) GetStripeEventByID(_ context.Context, id string) (db.StripeEvent, error) {
	e, ok := q.stripeEvents[id]
	if !ok {
		return db.StripeEvent{}, sql.ErrNoRows
	}
	return e, nil
}

func (q *stubQuerier) MarkStripeEventProcessed(_ context.Context, _ string) (db.StripeEvent, error) {
	return db.StripeEvent{}, nil
}

func (q *stubQuerier) MarkStripeEventFailed(_ context.Context, _ db.MarkStripeEventFailedParams) (db.StripeEvent, error) {
	return db.StripeEvent{}, nil
}

func (q *stubQuerier) MarkSessionPaymentFailed(_ context.Context, _ sql.NullString) (db.Session, error) {
	return db.Session{}, nil
}

func (q *stubQuerier) AttachStripeCustomer(_ context.Context, p db.AttachStripeCustomerParams) (db.Session, error) {
	s, ok := q.sessionsByID[p.ID]
	if !ok {
		return db.Session{}, sql.ErrNoRows
	}
	s.StripePaymentIntent = p.StripePaymentIntent
	s.Email = p.Email
	q.sessionsByID[p.ID] = s
	return s, nil
}

// stubStore satisfies api.Store.
type stubStore struct {
	attachSession       db.Session
	attachErr           error
	initialiseBlueprint db.Blueprint
	initialiseErr       error
}

func (s *stubStore) AttachPaymentIntent(_ context.Context, _ store.AttachPaymentIntentParams) (db.Session, error) {
	return s.attachSession, s.attachErr
}

func (s *stubStore) InitialiseBlueprint(_ context.Context, _ string) (db.Blueprint, error) {
	return s.initialiseBlueprint, s.initialiseErr
}

// stubStripe is a controllable Stripe client.
type stubStripe struct {
	pi           stripeinternal.PaymentIntent
	clientSecret string
	createErr    error
	getSecretErr error
	verifyEvent  stripeinternal.Event
	verifyErr    error
}

func (s *stubStripe) CreatePaymentIntent(_ context.Context, _ stripeinternal.CreatePaymentIntentParams) (stripeinternal.PaymentIntent, error) {
	return s.pi, s.createErr
}

func (s *stubStripe) GetClientSecret(_ context.Context, _ string) (string, error) {
	return s.clientSecret, s.getSecretErr
}

func (s *stubStripe) VerifyWebhook(_ []byte, _ string, _ string) (stripeinternal.Event, error) {
	return s.verifyEvent, s.verifyErr
}

// stubWorker records enqueued jobs.
type stubWorker struct {
	enqueued []uuid.UUID
	err      error
}

func (w *stubWorker) Enqueue(_ context.Context, id uuid.UUID) error {
	w.enqueued = append(w.enqueued, id)
	return w.err
}

// stubMailer captures sent emails.
type stubMailer struct {
	receipts  []email.ReceiptParams
	delivered []email.BlueprintReadyParams
	err       error
}

func (m *stubMailer) SendReceipt(_ context.Context, p email.ReceiptParams) error {
	m.receipts = append(m.receipts, p)
	return m.err
}

func (m *stubMailer) SendBlueprintReady(_ context.Context, p email.BlueprintReadyParams) error {
	m.delivered = append(m.delivered, p)
	return m.err
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

type testDeps struct {
	q       *stubQuerier
	store   *stubStore
	stripe  *stubStripe
	worker  *stubWorker
	mailer  *stubMailer
	handler http.Handler
}

func newTestServer(t *testing.T, cfgOverrides ...func(*api.Config)) *testDeps {
	t.Helper()

	q := newStubQuerier()
	st := &stubStore{}
	strp := &stubStripe{
		pi:           stripeinternal.PaymentIntent{ID: "pi_test", ClientSecret: "cs_test"},
		clientSecret: "cs_test",
	}
	wk := &stubWorker{}
	ml := &stubMailer{}

	cfg := api.Config{
		Env:                 "development",
		BaseURL:             "http://localhost:8080",
		StripeWebhookSecret: "whsec_test",
		BlueprintPriceCents: 4900,
		Currency:            "usd",
	}
	for _, fn := range cfgOverrides {
		fn(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := api.NewServer(q, st, strp, wk, ml, cfg, logger)

	return &testDeps{
		q:       q,
		store:   st,
		stripe:  strp,
		worker:  wk,
		mailer:  ml,
		handler: handler,
	}
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v (raw: %s)", err, rr.Body.String())
	}
}

// sessionWithToken seeds a session in the stub querier and returns its ID and token.
func sessionWithToken(deps *testDeps) (uuid.UUID, string) {
	id := uuid.New()
	token := "test_tok_" + id.String()
	deps.q.addSession(token, db.Session{
		ID:        id,
		AnonToken: token,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	return id, token
}

// ─── GET /healthz ─────────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

// ─── GET /api/catalog ─────────────────────────────────────────────────────────

func TestGetCatalog_ReturnsFiveLayers(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/catalog", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp struct {
		Layers []struct {
			ID        string `json:"id"`
			Questions []struct {
				ID   string `json:"id"`
				Kind string `json:"kind"`
			} `json:"questions"`
		} `json:"layers"`
	}
	decodeJSON(t, rr, &resp)

	if len(resp.Layers) != 5 {
		t.Fatalf("expected 5 layers, got %d", len(resp.Layers))
	}
	if resp.Layers[0].ID != "root" {
		t.Errorf("first layer: got %q, want root", resp.Layers[0].ID)
	}
	for _, l := range resp.Layers {
		assessments := 0
		for _, q := range l.Questions {
			if q.Kind == "assessment" {
				assessments++
			}
		}
		if assessments != 1 {
			t.Errorf("layer %s: expected 1 assessment question, got %d", l.ID, assessments)
		}
	}
}

// ─── POST /api/session ────────────────────────────────────────────────────────

func TestCreateSession_ReturnsSessionIDAndToken(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/session",
		map[string]string{"org_name": "Acme Collective", "industry": "creator", "stage": "growth"}, nil)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		AnonToken string `json:"anon_token"`
	}
	decodeJSON(t, rr, &resp)

	if resp.SessionID == "" {
		t.Error("session_id should not be empty")
	}
	if resp.AnonToken == "" {
		t.Error("anon_token should not be empty")
	}
}

func TestCreateSession_OptionalContextFields(t *testing.T) {
	// Empty body is valid — all context fields are optional.
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/session", map[string]string{}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateSession_InvalidJSONReturns400(t *testing.T) {
	deps := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(`{bad json`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCreateSession_UnknownFieldsReturns400(t *testing.T) {
	// DisallowUnknownFields is set on the decoder.
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/session",
		map[string]string{"unknown_field": "value"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ─── PATCH /api/session/:sessionID/context ────────────────────────────────────

func TestUpdateContext_MissingTokenReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler,
		http.MethodPatch, "/api/session/"+uuid.New().String()+"/context",
		map[string]string{"org_name": "Test"}, nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUpdateContext_InvalidTokenReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler,
		http.MethodPatch, "/api/session/"+uuid.New().String()+"/context",
		map[string]string{"org_name": "Test"},
		map[string]string{"X-Anon-Token": "totally_fake"})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUpdateContext_WrongSessionIDReturns403(t *testing.T) {
	deps := newTestServer(t)
	_, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPatch, "/api/session/"+uuid.New().String()+"/context", // different UUID
		map[string]string{"org_name": "Test"},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateContext_ValidRequestUpdatesContext(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPatch, "/api/session/"+sessionID.String()+"/context",
		map[string]string{"org_name": "Acme Collective", "industry": "creator", "stage": "growth"},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		OrgName string `json:"org_name"`
	}
	decodeJSON(t, rr, &resp)
	if resp.OrgName != "Acme Collective" {
		t.Errorf("org_name: got %q", resp.OrgName)
	}
}

// ─── PUT /api/session/:sessionID/responses ───────────────────────────────────

func textAnswer(s string) map[string]any {
	return map[string]any{"kind": "text", "text": s}
}

func TestUpsertResponses_EmptyBatchReturns400(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []any{}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpsertResponses_Over100ItemsReturns400(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	responses := make([]map[string]any, 101)
	for i := range responses {
		responses[i] = map[string]any{
			"layer_id": "root", "question_id": "root_purpose", "answer": textAnswer("x"),
		}
	}

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": responses},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpsertResponses_UnknownQuestionReturns400(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []map[string]any{
			{"layer_id": "root", "question_id": "no_such_question", "answer": textAnswer("x")},
		}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpsertResponses_WrongAnswerShapeReturns400(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	// root_purpose is a textarea question; a rating answer must be rejected.
	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []map[string]any{
			{"layer_id": "root", "question_id": "root_purpose",
				"answer": map[string]any{"kind": "rating", "value": 3}},
		}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpsertResponses_BadEntryRejectsWholeBatch(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []map[string]any{
			{"layer_id": "root", "question_id": "root_purpose", "answer": textAnswer("We exist to teach")},
			{"layer_id": "root", "question_id": "bogus", "answer": textAnswer("x")},
		}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if len(deps.q.responses[sessionID]) != 0 {
		t.Errorf("expected no writes, got %d", len(deps.q.responses[sessionID]))
	}
}

func TestUpsertResponses_ValidBatchReturnsUpsertedCount(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []map[string]any{
			{"layer_id": "root", "question_id": "root_purpose", "answer": textAnswer("We exist to teach")},
			{"layer_id": "root", "question_id": "root_values",
				"answer": map[string]any{"kind": "list", "items": []string{"honesty", "curiosity"}}},
			{"layer_id": "root", "question_id": "root_assessment",
				"answer": map[string]any{"kind": "rating", "value": 4}},
		}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Upserted int `json:"upserted"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Upserted != 3 {
		t.Errorf("expected upserted=3, got %d", resp.Upserted)
	}
}

func TestUpsertResponses_UpsertErrorReturns500(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)
	deps.q.upsertResponseErr = errors.New("db connection lost")

	rr := doRequest(t, deps.handler,
		http.MethodPut, "/api/session/"+sessionID.String()+"/responses",
		map[string]any{"responses": []map[string]any{
			{"layer_id": "root", "question_id": "root_purpose", "answer": textAnswer("x")},
		}},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

// ─── GET /api/session/:sessionID/score ───────────────────────────────────────

func TestScorePreview_EmptySessionScoresMinimum(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodGet, "/api/session/"+sessionID.String()+"/score",
		nil, map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Total        int     `json:"total"`
		Average      float64 `json:"average"`
		Tier         string  `json:"tier"`
		Completeness int     `json:"completeness"`
		Layers       []struct {
			LayerID string `json:"layer_id"`
			Score   int    `json:"score"`
			Status  string `json:"status"`
		} `json:"layers"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Total != 5 {
		t.Errorf("total: got %d, want 5", resp.Total)
	}
	if resp.Tier != "Audience" {
		t.Errorf("tier: got %q, want Audience", resp.Tier)
	}
	if resp.Completeness != 0 {
		t.Errorf("completeness: got %d, want 0", resp.Completeness)
	}
	if len(resp.Layers) != 5 {
		t.Fatalf("expected 5 layer scores, got %d", len(resp.Layers))
	}
	for _, l := range resp.Layers {
		if l.Score != 1 || l.Status != "empty" {
			t.Errorf("layer %s: got score=%d status=%q", l.LayerID, l.Score, l.Status)
		}
	}
}

func TestScorePreview_ReflectsStoredResponses(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	// Seed a maxed-out root layer directly in the stub.
	answers := []struct {
		questionID string
		answer     string
	}{
		{"root_purpose", `{"kind":"text","text":"We teach the next generation"}`},
		{"root_values", `{"kind":"list","items":["honesty"]}`},
		{"root_story", `{"kind":"text","text":"Started in a garage"}`},
		{"root_assessment", `{"kind":"rating","value":5}`},
	}
	for _, a := range answers {
		deps.q.responses[sessionID] = append(deps.q.responses[sessionID], db.Response{
			ID:         uuid.New(),
			SessionID:  sessionID,
			LayerID:    "root",
			QuestionID: a.questionID,
			Answer:     pqtype.NullRawMessage{RawMessage: json.RawMessage(a.answer), Valid: true},
		})
	}

	rr := doRequest(t, deps.handler,
		http.MethodGet, "/api/session/"+sessionID.String()+"/score",
		nil, map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Total  int `json:"total"`
		Layers []struct {
			LayerID string `json:"layer_id"`
			Score   int    `json:"score"`
			Status  string `json:"status"`
		} `json:"layers"`
	}
	decodeJSON(t, rr, &resp)

	// root: assessment 5, full fill → 5. Other four layers stay at 1.
	if resp.Total != 9 {
		t.Errorf("total: got %d, want 9", resp.Total)
	}
	if resp.Layers[0].LayerID != "root" || resp.Layers[0].Score != 5 {
		t.Errorf("root layer: got %+v", resp.Layers[0])
	}
	if resp.Layers[0].Status != "autonomous" {
		t.Errorf("root status: got %q, want autonomous", resp.Layers[0].Status)
	}
}

// ─── GET /api/blueprint/:accessToken ─────────────────────────────────────────

func TestGetBlueprint_UnknownTokenReturns404(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/blueprint/nonexistent", nil, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetBlueprint_DraftStatusReturns202(t *testing.T) {
	deps := newTestServer(t)
	token := "draft_token_abc"
	deps.q.blueprints[token] = db.GetBlueprintByAccessTokenRow{
		ID:     uuid.New(),
		Status: db.BlueprintStatusDraft,
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/blueprint/"+token, nil, nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["status"] != "draft" {
		t.Errorf("expected status=draft, got %q", resp["status"])
	}
}

func TestGetBlueprint_ProcessingStatusReturns202(t *testing.T) {
	deps := newTestServer(t)
	token := "processing_token_abc"
	deps.q.blueprints[token] = db.GetBlueprintByAccessTokenRow{
		ID:     uuid.New(),
		Status: db.BlueprintStatusProcessing,
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/blueprint/"+token, nil, nil)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for processing, got %d", rr.Code)
	}
}

func TestGetBlueprint_ReadyStatusReturns200WithBody(t *testing.T) {
	deps := newTestServer(t)
	token := "ready_token_abc"
	blueprintID := uuid.New()
	deps.q.blueprints[token] = db.GetBlueprintByAccessTokenRow{
		ID:           blueprintID,
		Status:       db.BlueprintStatusReady,
		OrgName:      sql.NullString{String: "Acme Collective", Valid: true},
		TotalScore:   sql.NullInt16{Int16: 17, Valid: true},
		AverageScore: sql.NullString{String: "3.40", Valid: true},
		OverallTier:  sql.NullString{String: "Ecosystem", Valid: true},
		Completeness: sql.NullInt16{Int16: 80, Valid: true},
		Narrative:    sql.NullString{String: "# Ecosystem Blueprint\n", Valid: true},
	}
	deps.q.layerResults[blueprintID] = []db.LayerResult{
		{ID: uuid.New(), BlueprintID: blueprintID, LayerID: "root", Position: 0, Score: 4, Status: "building"},
		{ID: uuid.New(), BlueprintID: blueprintID, LayerID: "structure", Position: 1, Score: 3, Status: "building"},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/blueprint/"+token, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Status       string `json:"status"`
		OrgName      string `json:"org_name"`
		TotalScore   int16  `json:"total_score"`
		AverageScore string `json:"average_score"`
		OverallTier  string `json:"overall_tier"`
		Narrative    string `json:"narrative"`
		Layers       []struct {
			LayerID string `json:"layer_id"`
			Score   int16  `json:"score"`
		} `json:"layers"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Status != "ready" {
		t.Errorf("status: got %q", resp.Status)
	}
	if resp.TotalScore != 17 {
		t.Errorf("total_score: got %d", resp.TotalScore)
	}
	if resp.OverallTier != "Ecosystem" {
		t.Errorf("overall_tier: got %q", resp.OverallTier)
	}
	if resp.Narrative == "" {
		t.Error("narrative should not be empty")
	}
	if len(resp.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(resp.Layers))
	}
	if resp.Layers[0].LayerID != "root" || resp.Layers[0].Score != 4 {
		t.Errorf("layer 0: got %+v", resp.Layers[0])
	}
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_PreflightReturns204(t *testing.T) {
	deps := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	deps.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
	if rr.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("missing Access-Control-Allow-Methods header")
	}
}

func TestCORS_NoOriginHeader_SkipsCORSHeaders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("should not set CORS headers when no Origin present")
	}
}

// ─── POST /api/session/:sessionID/checkout ────────────────────────────────────

func TestCreateCheckout_MissingEmailReturns400(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/session/"+sessionID.String()+"/checkout",
		map[string]string{"email": ""},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCheckout_StripeErrorReturns500(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)
	deps.stripe.createErr = errors.New("stripe unavailable")

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/session/"+sessionID.String()+"/checkout",
		map[string]string{"email": "test@example.com"},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCheckout_NewPIReturnsClientSecret(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/session/"+sessionID.String()+"/checkout",
		map[string]string{"email": "buyer@example.com"},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ClientSecret string `json:"client_secret"`
		IsExisting   bool   `json:"is_existing"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ClientSecret != "cs_test" {
		t.Errorf("client_secret: got %q", resp.ClientSecret)
	}
	if resp.IsExisting {
		t.Error("is_existing should be false for a new PI")
	}
}

func TestCreateCheckout_ExistingPIReturnsExistingSecret(t *testing.T) {
	deps := newTestServer(t)
	sessionID, token := sessionWithToken(deps)

	// Mark the session as already having a PI.
	s := deps.q.sessionsByID[sessionID]
	s.StripePaymentIntent = sql.NullString{String: "pi_existing", Valid: true}
	deps.q.sessionsByID[sessionID] = s
	deps.stripe.clientSecret = "cs_existing"

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/session/"+sessionID.String()+"/checkout",
		map[string]string{"email": "buyer@example.com"},
		map[string]string{"X-Anon-Token": token})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ClientSecret string `json:"client_secret"`
		IsExisting   bool   `json:"is_existing"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ClientSecret != "cs_existing" {
		t.Errorf("client_secret: got %q", resp.ClientSecret)
	}
	if !resp.IsExisting {
		t.Error("is_existing should be true for a pre-attached PI")
	}
}

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

func TestStripeWebhook_InvalidSignatureReturns400(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.verifyErr = errors.New("invalid signature")

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		map[string]string{"type": "payment_intent.succeeded"}, nil)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStripeWebhook_UnknownEventTypeReturns200(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:   "evt_test_unknown",
		Type: "customer.created", // not handled
	}

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		[]byte(`{}`), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown event type, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStripeWebhook_PaymentSucceededEnqueuesJob(t *testing.T) {
	deps := newTestServer(t)

	blueprintID := uuid.New()
	sessionID := uuid.New()
	deps.q.sessionsByID[sessionID] = db.Session{
		ID:    sessionID,
		Email: sql.NullString{String: "buyer@example.com", Valid: true},
	}
	deps.store.initialiseBlueprint = db.Blueprint{
		ID:        blueprintID,
		SessionID: sessionID,
		Status:    db.BlueprintStatusDraft,
	}
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:      "evt_success",
		Type:    "payment_intent.succeeded",
		DataRaw: json.RawMessage(`{"id":"pi_paid","object":"payment_intent"}`),
	}

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		[]byte(`{}`), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(deps.worker.enqueued) != 1 || deps.worker.enqueued[0] != blueprintID {
		t.Errorf("expected blueprint %s enqueued, got %v", blueprintID, deps.worker.enqueued)
	}
	if len(deps.mailer.receipts) != 1 {
		t.Fatalf("expected 1 receipt email, got %d", len(deps.mailer.receipts))
	}
	if deps.mailer.receipts[0].To != "buyer@example.com" {
		t.Errorf("receipt to: got %q", deps.mailer.receipts[0].To)
	}
}

func TestStripeWebhook_DuplicateBlueprintStillReturns200(t *testing.T) {
	deps := newTestServer(t)

	deps.store.initialiseBlueprint = db.Blueprint{
		ID:     uuid.New(),
		Status: db.BlueprintStatusReady,
	}
	deps.store.initialiseErr = store.ErrBlueprintAlreadyExists
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:      "evt_dup",
		Type:    "payment_intent.succeeded",
		DataRaw: json.RawMessage(`{"id":"pi_paid","object":"payment_intent"}`),
	}

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		[]byte(`{}`), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate delivery, got %d: %s", rr.Code, rr.Body.String())
	}
	// Blueprint is already ready — nothing should be re-enqueued.
	if len(deps.worker.enqueued) != 0 {
		t.Errorf("expected no enqueue for ready blueprint, got %v", deps.worker.enqueued)
	}
}

func TestStripeWebhook_RetryOfUnprocessedEventDispatchesAgain(t *testing.T) {
	// Stripe redelivers after a 500. The event row already exists (upsert hits
	// the conflict and yields sql.ErrNoRows) but the first delivery never
	// completed — the retry must run the handlers, not ack as a duplicate.
	deps := newTestServer(t)

	blueprintID := uuid.New()
	sessionID := uuid.New()
	deps.q.sessionsByID[sessionID] = db.Session{
		ID:    sessionID,
		Email: sql.NullString{String: "buyer@example.com", Valid: true},
	}
	deps.store.initialiseBlueprint = db.Blueprint{
		ID:        blueprintID,
		SessionID: sessionID,
		Status:    db.BlueprintStatusDraft,
	}
	deps.q.upsertEventErr = sql.ErrNoRows
	deps.q.stripeEvents["evt_retry"] = db.StripeEvent{
		StripeEventID: "evt_retry",
		Type:          "payment_intent.succeeded",
		Status:        "failed",
	}
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:      "evt_retry",
		Type:    "payment_intent.succeeded",
		DataRaw: json.RawMessage(`{"id":"pi_paid","object":"payment_intent"}`),
	}

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		[]byte(`{}`), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(deps.worker.enqueued) != 1 || deps.worker.enqueued[0] != blueprintID {
		t.Errorf("expected blueprint %s enqueued on retry, got %v", blueprintID, deps.worker.enqueued)
	}
}

func TestStripeWebhook_ReplayOfProcessedEventSkips(t *testing.T) {
	deps := newTestServer(t)

	deps.q.upsertEventErr = sql.ErrNoRows
	deps.q.stripeEvents["evt_done"] = db.StripeEvent{
		StripeEventID: "evt_done",
		Type:          "payment_intent.succeeded",
		Status:        "processed",
	}
	deps.stripe.verifyEvent = stripeinternal.Event{
		ID:      "evt_done",
		Type:    "payment_intent.succeeded",
		DataRaw: json.RawMessage(`{"id":"pi_paid","object":"payment_intent"}`),
	}

	rr := doRequest(t, deps.handler,
		http.MethodPost, "/api/webhooks/stripe",
		[]byte(`{}`), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for processed replay, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(deps.worker.enqueued) != 0 {
		t.Errorf("expected no dispatch for processed event, got %v", deps.worker.enqueued)
	}
}
