package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/email"
	"github.com/evergrowthhq/blueprint-backend/internal/narrative"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
	"github.com/evergrowthhq/blueprint-backend/internal/store"
)

// Job holds the dependencies for the score-and-render pipeline. Each step is a
// separate method call so Run reads top to bottom.
type Job struct {
	q      db.Querier
	store  *store.Store
	mailer email.Sender
	logger *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(
	q db.Querier,
	st *store.Store,
	mailer email.Sender,
	logger *slog.Logger,
) *Job {
	return &Job{
		q:      q,
		store:  st,
		mailer: mailer,
		logger: logger,
	}
}

// Run executes the full pipeline for a single blueprint:
//
//  1. Load the blueprint and its session's responses.
//  2. Score every layer → AggregateScore + completeness.
//  3. Render the markdown narrative.
//  4. Persist everything atomically via store.PersistScoredBlueprint.
//  5. Send the delivery email.
//
// The pipeline is deterministic: re-running it over the same responses
// produces the same scores and the same narrative, so retries are safe.
// Any error is returned to the Runner, which retries up to MaxRetries times
// before calling store.MarkBlueprintFailed.
func (j *Job) Run(ctx context.Context, blueprintID uuid.UUID) error {
	log := j.logger.With("blueprint_id", blueprintID)
	log.Info("job: starting")

	// ── 1. Load the blueprint to get the session ID ───────────────────────────
	blueprint, err := j.q.GetBlueprintByID(ctx, blueprintID)
	if err != nil {
		return fmt.Errorf("job: get blueprint: %w", err)
	}

	if blueprint.Status == db.BlueprintStatusReady {
		// Duplicate enqueue (webhook retry racing the poller) — nothing to do.
		log.Debug("job: blueprint already ready, skipping")
		return nil
	}

	// ── 2. Load the session's responses ───────────────────────────────────────
	rows, err := j.q.GetResponsesBySession(ctx, blueprint.SessionID)
	if err != nil {
		return fmt.Errorf("job: get responses: %w", err)
	}

	log.Debug("job: loaded responses", "count", len(rows))

	// ── 3. Decode stored answer JSON into the scoring input ───────────────────
	// Rows with missing or undecodable answers are skipped rather than failing
	// the job: a sparse response set scores low, it does not block delivery.
	responses := scoring.Responses{}
	for _, row := range rows {
		if !row.Answer.Valid {
			continue
		}
		answer, err := scoring.ParseAnswer(row.Answer.RawMessage)
		if err != nil {
			log.Warn("job: skipping undecodable answer",
				"question_id", row.QuestionID,
				"error", err,
			)
			continue
		}
		responses.Set(catalog.LayerID(row.LayerID), row.QuestionID, answer)
	}

	// ── 4. Score ──────────────────────────────────────────────────────────────
	agg := scoring.ScoreAll(responses)
	completeness := scoring.Completeness(responses)

	log.Debug("job: scored layers",
		"total", agg.Total,
		"tier", agg.Tier,
		"completeness", completeness,
	)

	// ── 5. Render the narrative ───────────────────────────────────────────────
	md := narrative.Render(responses, agg)

	// ── 6. Persist everything atomically ──────────────────────────────────────
	finalBlueprint, err := j.store.PersistScoredBlueprint(ctx, store.PersistScoredBlueprintParams{
		BlueprintID:  blueprintID,
		Aggregate:    agg,
		Completeness: completeness,
		Narrative:    md,
	})
	if err != nil {
		return fmt.Errorf("job: persist blueprint: %w", err)
	}

	log.Info("job: blueprint persisted",
		"total_score", finalBlueprint.TotalScore.Int16,
		"overall_tier", finalBlueprint.OverallTier.String,
		"access_token", finalBlueprint.AccessToken,
	)

	// ── 7. Send delivery email ────────────────────────────────────────────────
	// Load the session to get the recipient email address.
	session, err := j.q.GetSessionByID(ctx, blueprint.SessionID)
	if err != nil {
		// Email failure should not fail the job — the blueprint is ready and
		// accessible via the access token. Log and return nil.
		log.Error("job: could not load session for email delivery", "error", err)
		return nil
	}

	if !session.Email.Valid || session.Email.String == "" {
		log.Warn("job: session has no email address, skipping delivery email")
		return nil
	}

	if err := j.mailer.SendBlueprintReady(ctx, email.BlueprintReadyParams{
		To:          session.Email.String,
		OrgName:     session.OrgName.String,
		AccessToken: finalBlueprint.AccessToken,
	}); err != nil {
		// Log but do not fail — the user can still reach their blueprint via
		// the access link.
		log.Error("job: failed to send delivery email",
			"to", session.Email.String,
			"error", err,
		)
	}

	return nil
}
