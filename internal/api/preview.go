package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
)

// ─── GET /api/session/:sessionID/score ───────────────────────────────────────
//
// Live score preview for the wizard's review step. Free — no payment gate.
// The same scoring code runs here and in the worker, so the preview always
// matches the purchased blueprint.

type layerScoreResponse struct {
	LayerID string `json:"layer_id"`
	Score   int    `json:"score"`
	Status  string `json:"status"`
}

type scorePreviewResponse struct {
	Total        int                  `json:"total"`
	Average      float64              `json:"average"`
	Tier         string               `json:"tier"`
	Completeness int                  `json:"completeness"`
	Layers       []layerScoreResponse `json:"layers"`
}

// handleScorePreview computes and returns the current aggregate score for the
// session's stored responses.
func (s *Server) handleScorePreview(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUID(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid session_id")
		return
	}

	rows, err := s.q.GetResponsesBySession(r.Context(), sessionID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get responses: %w", err))
		return
	}

	responses := responsesFromRows(s, rows)

	agg := scoring.ScoreAll(responses)
	completeness := scoring.Completeness(responses)

	layerScores := make([]layerScoreResponse, len(agg.LayerScores))
	for i, ls := range agg.LayerScores {
		layerScores[i] = layerScoreResponse{
			LayerID: string(ls.LayerID),
			Score:   ls.Score,
			Status:  string(ls.Status),
		}
	}

	respond(w, http.StatusOK, scorePreviewResponse{
		Total:        agg.Total,
		Average:      agg.Average,
		Tier:         string(agg.Tier),
		Completeness: completeness,
		Layers:       layerScores,
	})
}

// responsesFromRows decodes stored answer JSON into the in-memory Responses
// map. Rows with missing or undecodable answers are skipped — a corrupt row
// should degrade the score, not break the endpoint.
func responsesFromRows(s *Server, rows []db.Response) scoring.Responses {
	responses := scoring.Responses{}
	for _, row := range rows {
		if !row.Answer.Valid {
			continue
		}
		answer, err := scoring.ParseAnswer(row.Answer.RawMessage)
		if err != nil {
			s.logger.Warn("score preview: skipping undecodable answer",
				"question_id", row.QuestionID,
				"error", err,
			)
			continue
		}
		responses.Set(catalog.LayerID(row.LayerID), row.QuestionID, answer)
	}
	return responses
}
