package api

import (
	"net/http"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
)

// ─── GET /api/catalog ────────────────────────────────────────────────────────

type catalogOptionResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type catalogQuestionResponse struct {
	ID       string                  `json:"id"`
	Kind     string                  `json:"kind"`
	Prompt   string                  `json:"prompt"`
	MaxItems int                     `json:"max_items,omitempty"`
	Options  []catalogOptionResponse `json:"options,omitempty"`
}

type catalogLayerResponse struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Emoji     string                    `json:"emoji"`
	Questions []catalogQuestionResponse `json:"questions"`
}

// handleGetCatalog serves the full question catalog so the wizard renders the
// same layers and questions the server scores against. The payload is static
// for the lifetime of the process.
func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	layers := catalog.Layers()
	out := make([]catalogLayerResponse, len(layers))

	for i, l := range layers {
		questions := make([]catalogQuestionResponse, len(l.Questions))
		for j, q := range l.Questions {
			var options []catalogOptionResponse
			for _, opt := range q.Options {
				options = append(options, catalogOptionResponse{Value: opt.Value, Label: opt.Label})
			}
			questions[j] = catalogQuestionResponse{
				ID:       q.ID,
				Kind:     string(q.Kind),
				Prompt:   q.Prompt,
				MaxItems: q.MaxItems,
				Options:  options,
			}
		}
		out[i] = catalogLayerResponse{
			ID:        string(l.ID),
			Name:      l.Name,
			Emoji:     l.Emoji,
			Questions: questions,
		}
	}

	respond(w, http.StatusOK, map[string]any{"layers": out})
}
