package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evergrowthhq/blueprint-backend/internal/db"
)

// ─── GET /api/blueprint/:accessToken ─────────────────────────────────────────

// blueprintLayerResponse is the per-layer shape returned in the API response.
type blueprintLayerResponse struct {
	LayerID string `json:"layer_id"`
	Score   int16  `json:"score"`
	Status  string `json:"status"`
}

type blueprintResponse struct {
	BlueprintID  string                   `json:"blueprint_id"`
	Status       string                   `json:"status"`
	OrgName      string                   `json:"org_name,omitempty"`
	Industry     string                   `json:"industry,omitempty"`
	Stage        string                   `json:"stage,omitempty"`
	TotalScore   int16                    `json:"total_score"`
	AverageScore string                   `json:"average_score"`
	OverallTier  string                   `json:"overall_tier"`
	Completeness int16                    `json:"completeness"`
	Layers       []blueprintLayerResponse `json:"layers"`
	Narrative    string                   `json:"narrative"`
	GeneratedAt  string                   `json:"generated_at,omitempty"`
}

// handleGetBlueprint serves the completed blueprint. The access token is an
// opaque hex string stored on the blueprint row — no session authentication is
// needed. The user receives this link in their email.
//
// Returns 404 for an unknown token. Returns 202 Accepted while the blueprint
// is still being generated (status != ready) so the frontend can poll.
func (s *Server) handleGetBlueprint(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "accessToken")
	if accessToken == "" {
		respondErr(w, http.StatusBadRequest, "missing access token")
		return
	}

	// Load the blueprint and its session context in one query.
	row, err := s.q.GetBlueprintByAccessToken(r.Context(), accessToken)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "blueprint not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get blueprint: %w", err))
		return
	}

	// Blueprint is still being generated — tell the client to poll.
	if row.Status != db.BlueprintStatusReady {
		respond(w, http.StatusAccepted, map[string]string{
			"status":  string(row.Status),
			"message": "blueprint is being generated, please check back shortly",
		})
		return
	}

	// Load individual layer rows for the full detail view. We use
	// layer_results rather than the layer_scores_json snapshot so the
	// response is backed by the same rows analytics queries read.
	results, err := s.q.GetLayerResultsByBlueprint(r.Context(), row.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get layer results: %w", err))
		return
	}

	layerRows := make([]blueprintLayerResponse, len(results))
	for i, lr := range results {
		layerRows[i] = blueprintLayerResponse{
			LayerID: lr.LayerID,
			Score:   lr.Score,
			Status:  lr.Status,
		}
	}

	generatedAt := ""
	if row.GeneratedAt.Valid {
		generatedAt = row.GeneratedAt.Time.UTC().Format("2006-01-02T15:04:05Z")
	}

	respond(w, http.StatusOK, blueprintResponse{
		BlueprintID:  row.ID.String(),
		Status:       string(row.Status),
		OrgName:      row.OrgName.String,
		Industry:     row.Industry.String,
		Stage:        row.Stage.String,
		TotalScore:   row.TotalScore.Int16,
		AverageScore: row.AverageScore.String,
		OverallTier:  row.OverallTier.String,
		Completeness: row.Completeness.Int16,
		Layers:       layerRows,
		Narrative:    row.Narrative.String,
		GeneratedAt:  generatedAt,
	})
}
