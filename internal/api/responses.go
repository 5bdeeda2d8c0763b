package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sqlc-dev/pqtype"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/db"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
)

// ─── PUT /api/session/:sessionID/responses ───────────────────────────────────
//
// Accepts a batch of responses and upserts them. The browser sends the current
// answer set on every step navigation (or a partial batch on debounce).
// Using upsert means it is safe to replay the same payload multiple times.

type responseInput struct {
	LayerID    string `json:"layer_id"`
	QuestionID string `json:"question_id"`
	// Answer is the tagged-union answer value:
	//   {"kind":"text","text":"..."}
	//   {"kind":"list","items":["...","..."]}
	//   {"kind":"rating","value":4}
	Answer json.RawMessage `json:"answer"`
}

type upsertResponsesRequest struct {
	Responses []responseInput `json:"responses"`
}

type upsertResponsesResponse struct {
	Upserted int `json:"upserted"`
}

// handleUpsertResponses batch-upserts responses for a session. Every response
// is validated against the catalog before any write happens, so a bad entry
// anywhere in the batch rejects the whole request with 400 and the database
// is untouched.
func (s *Server) handleUpsertResponses(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseUUID(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid session_id")
		return
	}

	var req upsertResponsesRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Responses) == 0 {
		respondErr(w, http.StatusBadRequest, "responses must not be empty")
		return
	}

	if len(req.Responses) > 100 {
		respondErr(w, http.StatusBadRequest, "too many responses in a single request (max 100)")
		return
	}

	// Validate the full batch up front.
	type validated struct {
		layerID    catalog.LayerID
		questionID string
		answer     scoring.Answer
	}
	batch := make([]validated, 0, len(req.Responses))

	for _, in := range req.Responses {
		if in.QuestionID == "" {
			respondErr(w, http.StatusBadRequest, "each response must have a non-empty question_id")
			return
		}

		layerID := catalog.LayerID(in.LayerID)
		question, ok := catalog.QuestionByID(layerID, in.QuestionID)
		if !ok {
			respondErr(w, http.StatusBadRequest,
				fmt.Sprintf("unknown question %q in layer %q", in.QuestionID, in.LayerID))
			return
		}

		answer, err := scoring.ParseAnswer(in.Answer)
		if err != nil {
			respondErr(w, http.StatusBadRequest,
				fmt.Sprintf("invalid answer for %q: %v", in.QuestionID, err))
			return
		}
		if err := answer.ValidateForQuestion(question); err != nil {
			respondErr(w, http.StatusBadRequest,
				fmt.Sprintf("answer does not fit question %q: %v", in.QuestionID, err))
			return
		}

		batch = append(batch, validated{
			layerID:    layerID,
			questionID: in.QuestionID,
			answer:     answer,
		})
	}

	// Upserts are independent — there is no all-or-nothing guarantee across
	// the batch at the database level. If one upsert fails, the handler
	// returns 500 and the browser retries; the upserts are idempotent so
	// replaying the full batch is safe.
	upserted := 0
	for _, v := range batch {
		// Re-marshal the parsed answer so the stored JSON is canonical
		// regardless of whitespace or field order in the request.
		answerJSON, err := json.Marshal(v.answer)
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("marshal answer %q: %w", v.questionID, err))
			return
		}

		if _, err := s.q.UpsertResponse(r.Context(), db.UpsertResponseParams{
			SessionID:  sessionID,
			LayerID:    string(v.layerID),
			QuestionID: v.questionID,
			Answer: pqtype.NullRawMessage{
				RawMessage: answerJSON,
				Valid:      true,
			},
		}); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("upsert response %q: %w", v.questionID, err))
			return
		}
		upserted++
	}

	respond(w, http.StatusOK, upsertResponsesResponse{Upserted: upserted})
}
