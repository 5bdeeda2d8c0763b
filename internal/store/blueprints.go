package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// PersistScoredBlueprintParams is everything the worker hands to the store
// once scoring and narrative rendering are complete.
type PersistScoredBlueprintParams struct {
	BlueprintID  uuid.UUID
	Aggregate    scoring.AggregateScore // from scoring.ScoreAll, layers in catalog order
	Completeness int                    // 0..100, from scoring.Completeness
	Narrative    string                 // rendered markdown; never empty for a scored blueprint
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrBlueprintAlreadyExists is returned by InitialiseBlueprint when a
// blueprint row for the session already exists. The webhook handler should
// treat this as idempotent success — a duplicate delivery of
// payment_intent.succeeded should not create a second blueprint.
var ErrBlueprintAlreadyExists = errors.New("store: blueprint already exists for session")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// InitialiseBlueprint is called by the Stripe webhook handler on
// payment_intent.succeeded. It atomically:
//
//  1. Marks the session as paid.
//  2. Checks whether a blueprint row already exists (idempotency guard).
//  3. Creates a new blueprint row in draft status.
//
// If the session was already marked paid and a blueprint already exists
// (duplicate webhook delivery), ErrBlueprintAlreadyExists is returned. The
// caller should log this at debug level and return HTTP 200 to Stripe
// immediately — no further work is needed.
//
// If MarkSessionPaid succeeds but CreateBlueprint fails, the whole transaction
// rolls back so the session remains unpaid. The next webhook delivery will
// retry cleanly.
func (s *Store) InitialiseBlueprint(ctx context.Context, stripePaymentIntent string) (db.Blueprint, error) {
	var blueprint db.Blueprint

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Mark session paid. MarkSessionPaid matches on stripe_payment_intent,
		//    so it is safe to call for any PI string.
		session, err := q.MarkSessionPaid(ctx, sql.NullString{
			String: stripePaymentIntent,
			Valid:  true,
		})
		if err != nil {
			return fmt.Errorf("InitialiseBlueprint: mark session paid: %w", err)
		}

		// 2. Idempotency guard — blueprint may already exist from a prior delivery.
		existing, err := q.GetBlueprintBySessionID(ctx, session.ID)
		if err == nil {
			// Row found — surface the sentinel and return the existing blueprint
			// so the caller can enqueue it for processing if its status is not
			// ready.
			blueprint = existing
			return ErrBlueprintAlreadyExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("InitialiseBlueprint: check existing blueprint: %w", err)
		}

		// 3. Create draft blueprint.
		created, err := q.CreateBlueprint(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("InitialiseBlueprint: create blueprint: %w", err)
		}

		blueprint = created
		return nil
	})

	if errors.Is(err, ErrBlueprintAlreadyExists) {
		return blueprint, ErrBlueprintAlreadyExists
	}
	if err != nil {
		return db.Blueprint{}, err
	}

	return blueprint, nil
}

// PersistScoredBlueprint is called by the background worker once scoring and
// narrative rendering are complete. It atomically:
//
//  1. Sets the blueprint status to processing (acquires the work slot).
//  2. Upserts one layer_results row per layer score, in catalog order.
//  3. Finalises the blueprint (status=ready, sets scores, tier, completeness,
//     the layer-scores JSON snapshot, and the narrative).
//
// If any step fails the entire transaction rolls back, leaving the blueprint
// in its previous state. The worker's retry loop will pick it up again via
// ListPendingBlueprints.
//
// The layer_scores_json snapshot is computed here from p.Aggregate so that the
// serialised blueprint is consistent with the individual layer_results rows
// written in the same transaction.
func (s *Store) PersistScoredBlueprint(ctx context.Context, p PersistScoredBlueprintParams) (db.Blueprint, error) {
	var blueprint db.Blueprint

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		// 1. Claim the blueprint for processing. This is idempotent for the
		//    status field; the real guard against double-processing is the
		//    serializable transaction — only one writer can commit layer_results
		//    rows for a given blueprint_id.
		if _, err := q.SetBlueprintProcessing(ctx, p.BlueprintID); err != nil {
			return fmt.Errorf("PersistScoredBlueprint: set processing: %w", err)
		}

		// 2. Upsert layer_results rows. Position records catalog order so the
		//    read path can ORDER BY position without importing the catalog.
		for i, ls := range p.Aggregate.LayerScores {
			if _, err := q.InsertLayerResult(ctx, db.InsertLayerResultParams{
				BlueprintID: p.BlueprintID,
				LayerID:     string(ls.LayerID),
				Position:    int16(i),
				Score:       int16(ls.Score),
				Status:      string(ls.Status),
			}); err != nil {
				return fmt.Errorf("PersistScoredBlueprint: insert layer result %q: %w", ls.LayerID, err)
			}
		}

		// 3. Serialise the layer-scores snapshot and finalise.
		layerScoresJSON, err := json.Marshal(p.Aggregate.LayerScores)
		if err != nil {
			return fmt.Errorf("PersistScoredBlueprint: marshal layer scores JSON: %w", err)
		}

		finalised, err := q.FinalizeBlueprint(ctx, db.FinalizeBlueprintParams{
			ID:         p.BlueprintID,
			TotalScore: sql.NullInt16{Int16: int16(p.Aggregate.Total), Valid: true},
			// average_score is numeric(3,2); lib/pq accepts the formatted string.
			AverageScore: sql.NullString{
				String: fmt.Sprintf("%.2f", p.Aggregate.Average),
				Valid:  true,
			},
			OverallTier: sql.NullString{
				String: string(p.Aggregate.Tier),
				Valid:  true,
			},
			Completeness: sql.NullInt16{Int16: int16(p.Completeness), Valid: true},
			LayerScoresJson: pqtype.NullRawMessage{
				RawMessage: layerScoresJSON,
				Valid:      true,
			},
			Narrative: sql.NullString{
				String: p.Narrative,
				Valid:  p.Narrative != "",
			},
		})
		if err != nil {
			return fmt.Errorf("PersistScoredBlueprint: finalize blueprint: %w", err)
		}

		blueprint = finalised
		return nil
	})

	if err != nil {
		return db.Blueprint{}, err
	}

	return blueprint, nil
}

// MarkBlueprintFailed sets the blueprint status to error with a descriptive
// message. Called by the worker when scoring or rendering fails permanently
// (i.e. after exhausting retries). This is a single-query write — no
// transaction needed — but it lives here because it is logically part of the
// blueprint lifecycle and the worker should not call db.Querier directly for
// this.
func (s *Store) MarkBlueprintFailed(ctx context.Context, blueprintID uuid.UUID, reason string) (db.Blueprint, error) {
	blueprint, err := s.q.SetBlueprintError(ctx, db.SetBlueprintErrorParams{
		ID: blueprintID,
		ErrorMessage: sql.NullString{
			String: reason,
			Valid:  true,
		},
	})
	if err != nil {
		return db.Blueprint{}, fmt.Errorf("MarkBlueprintFailed: %w", err)
	}
	return blueprint, nil
}
