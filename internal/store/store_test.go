package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
	"github.com/evergrowthhq/blueprint-backend/internal/store"
)

// ─── TEST INFRASTRUCTURE ──────────────────────────────────────────────────────

// openTestDB returns a *sql.DB from DATABASE_URL. Skips if the env var is
// not set so the test suite still passes in CI without a Postgres instance.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set — skipping store integration tests")
	}
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if err := pool.PingContext(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// attachPI attaches a fake Stripe PI to a session so InitialiseBlueprint can
// call MarkSessionPaid, which looks up the session by stripe_payment_intent.
func attachPI(t *testing.T, ctx context.Context, q db.Querier, sessionID uuid.UUID, piID string) {
	t.Helper()
	_, err := q.AttachStripeCustomer(ctx, db.AttachStripeCustomerParams{
		ID:                  sessionID,
		StripePaymentIntent: sql.NullString{String: piID, Valid: true},
		Email:               sql.NullString{String: "test@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("attachPI: %v", err)
	}
}

// cleanupSession removes a session and everything hanging off it.
func cleanupSession(t *testing.T, pool *sql.DB, sessionID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	t.Cleanup(func() {
		_, _ = pool.ExecContext(ctx, "DELETE FROM layer_results WHERE blueprint_id IN (SELECT id FROM blueprints WHERE session_id=$1)", sessionID)
		_, _ = pool.ExecContext(ctx, "DELETE FROM blueprints WHERE session_id=$1", sessionID)
		_, _ = pool.ExecContext(ctx, "DELETE FROM responses WHERE session_id=$1", sessionID)
		_, _ = pool.ExecContext(ctx, "DELETE FROM sessions WHERE id=$1", sessionID)
	})
}

// ─── AttachPaymentIntent ──────────────────────────────────────────────────────

func TestAttachPaymentIntent_FirstCallSucceeds(t *testing.T) {
	pool := openTestDB(t)

	ctx := context.Background()
	q := db.New(pool)
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_attach_first_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)

	st := store.New(pool, q)
	updated, err := st.AttachPaymentIntent(ctx, store.AttachPaymentIntentParams{
		SessionID:           session.ID,
		StripeCustomerID:    "cus_test_first",
		StripePaymentIntent: "pi_test_first_" + t.Name(),
		Email:               "test@example.com",
	})
	if err != nil {
		t.Fatalf("AttachPaymentIntent: %v", err)
	}
	if !updated.StripePaymentIntent.Valid {
		t.Error("expected StripePaymentIntent to be set")
	}
	if updated.Email.String != "test@example.com" {
		t.Errorf("email: got %q", updated.Email.String)
	}
}

func TestAttachPaymentIntent_SecondCallReturnsErrAlreadyAttached(t *testing.T) {
	pool := openTestDB(t)

	ctx := context.Background()
	q := db.New(pool)
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_attach_second_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)

	st := store.New(pool, q)
	params := store.AttachPaymentIntentParams{
		SessionID:           session.ID,
		StripeCustomerID:    "cus_test",
		StripePaymentIntent: "pi_test_race_" + t.Name(),
		Email:               "test@example.com",
	}

	if _, err := st.AttachPaymentIntent(ctx, params); err != nil {
		t.Fatalf("first call: %v", err)
	}

	// Second call for same session must return the sentinel error.
	params.StripePaymentIntent = "pi_test_duplicate_" + t.Name()
	_, err = st.AttachPaymentIntent(ctx, params)
	if !errors.Is(err, store.ErrPaymentIntentAlreadyAttached) {
		t.Errorf("expected ErrPaymentIntentAlreadyAttached, got: %v", err)
	}
}

// ─── InitialiseBlueprint ──────────────────────────────────────────────────────

func TestInitialiseBlueprint_CreatesDraftBlueprint(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)
	st := store.New(pool, q)

	piID := "pi_init_draft_" + t.Name()
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_draft_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)
	attachPI(t, ctx, q, session.ID, piID)

	blueprint, err := st.InitialiseBlueprint(ctx, piID)
	if err != nil {
		t.Fatalf("InitialiseBlueprint: %v", err)
	}
	if blueprint.Status != db.BlueprintStatusDraft {
		t.Errorf("expected status draft, got %s", blueprint.Status)
	}
	if blueprint.SessionID != session.ID {
		t.Error("session ID mismatch")
	}
	if blueprint.AccessToken == "" {
		t.Error("expected non-empty access token")
	}
}

func TestInitialiseBlueprint_DuplicateDeliveryReturnsErrAlreadyExists(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)
	st := store.New(pool, q)

	piID := "pi_idem_" + t.Name()
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_idem_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)
	attachPI(t, ctx, q, session.ID, piID)

	first, err := st.InitialiseBlueprint(ctx, piID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	second, err := st.InitialiseBlueprint(ctx, piID)
	if !errors.Is(err, store.ErrBlueprintAlreadyExists) {
		t.Errorf("expected ErrBlueprintAlreadyExists, got: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("returned blueprint ID mismatch: got %s, want %s", second.ID, first.ID)
	}
}

func TestInitialiseBlueprint_MarksSessionPaid(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)
	st := store.New(pool, q)

	piID := "pi_paid_" + t.Name()
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_paid_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)
	attachPI(t, ctx, q, session.ID, piID)

	if _, err := st.InitialiseBlueprint(ctx, piID); err != nil {
		t.Fatalf("InitialiseBlueprint: %v", err)
	}

	updated, err := q.GetSessionByID(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSessionByID: %v", err)
	}
	if !updated.PaymentStatus.Valid || updated.PaymentStatus.String != "paid" {
		t.Errorf("expected payment_status=paid, got %+v", updated.PaymentStatus)
	}
}

// ─── MarkBlueprintFailed ──────────────────────────────────────────────────────

func TestMarkBlueprintFailed_SetsErrorStatus(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)
	st := store.New(pool, q)

	piID := "pi_fail_" + t.Name()
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_fail_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)
	attachPI(t, ctx, q, session.ID, piID)

	blueprint, err := st.InitialiseBlueprint(ctx, piID)
	if err != nil {
		t.Fatalf("InitialiseBlueprint: %v", err)
	}

	failed, err := st.MarkBlueprintFailed(ctx, blueprint.ID, "responses unavailable")
	if err != nil {
		t.Fatalf("MarkBlueprintFailed: %v", err)
	}
	if failed.Status != db.BlueprintStatusError {
		t.Errorf("expected status=error, got %s", failed.Status)
	}
	if !failed.ErrorMessage.Valid || failed.ErrorMessage.String != "responses unavailable" {
		t.Errorf("error message: %+v", failed.ErrorMessage)
	}
}

// ─── PersistScoredBlueprint ───────────────────────────────────────────────────

func TestPersistScoredBlueprint_FinalizesBlueprint(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	q := db.New(pool)
	st := store.New(pool, q)

	piID := "pi_persist_" + t.Name()
	session, err := q.CreateSession(ctx, db.CreateSessionParams{AnonToken: "tok_persist_" + t.Name()})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	cleanupSession(t, pool, session.ID)
	attachPI(t, ctx, q, session.ID, piID)

	blueprint, err := st.InitialiseBlueprint(ctx, piID)
	if err != nil {
		t.Fatalf("InitialiseBlueprint: %v", err)
	}

	agg := scoring.ScoreAll(scoring.Responses{})

	finalised, err := st.PersistScoredBlueprint(ctx, store.PersistScoredBlueprintParams{
		BlueprintID:  blueprint.ID,
		Aggregate:    agg,
		Completeness: 0,
		Narrative:    "# Ecosystem Blueprint\n",
	})
	if err != nil {
		t.Fatalf("PersistScoredBlueprint: %v", err)
	}

	if finalised.Status != db.BlueprintStatusReady {
		t.Errorf("expected status=ready, got %s", finalised.Status)
	}
	if !finalised.TotalScore.Valid || int(finalised.TotalScore.Int16) != agg.Total {
		t.Errorf("total score: %+v", finalised.TotalScore)
	}
	if !finalised.OverallTier.Valid || finalised.OverallTier.String != string(agg.Tier) {
		t.Errorf("overall tier: %+v", finalised.OverallTier)
	}
	if !finalised.GeneratedAt.Valid {
		t.Error("expected generated_at to be set")
	}

	results, err := q.GetLayerResultsByBlueprint(ctx, blueprint.ID)
	if err != nil {
		t.Fatalf("GetLayerResultsByBlueprint: %v", err)
	}
	if len(results) != len(catalog.Layers()) {
		t.Fatalf("expected %d layer results, got %d", len(catalog.Layers()), len(results))
	}
	for i, r := range results {
		if r.LayerID != string(agg.LayerScores[i].LayerID) {
			t.Errorf("result %d: layer %q, want %q", i, r.LayerID, agg.LayerScores[i].LayerID)
		}
	}
}
