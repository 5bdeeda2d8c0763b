// Package scoring implements the layered ecosystem-maturity scoring engine:
// per-layer scores, the aggregate maturity tier, and the completeness
// percentage. Every function here is pure and total — malformed or partial
// input degrades to a conservative result, never to an error or panic,
// because the data originates from schema-shaped wizard state rather than an
// untrusted wire boundary. The only package it imports from internal/ is
// catalog, so it can be tested without a database.
package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
)

// answerKind is the discriminator field inside every answer JSON blob.
type answerKind string

const (
	answerKindText   answerKind = "text"
	answerKindList   answerKind = "list"
	answerKindRating answerKind = "rating"
)

// rawAnswer is used only to peek at the "kind" field before full
// unmarshalling.
type rawAnswer struct {
	Kind answerKind `json:"kind"`
}

// Answer is a tagged union over the three answer shapes: free text
// (text/textarea questions), a string list (list questions), or a 1–5 rating
// (assessment questions). The zero value is "unanswered" and is valid input
// for every scoring function.
//
// Wire/DB JSON shapes:
//
//	{"kind": "text",   "text": "..."}
//	{"kind": "list",   "items": ["...", "..."]}
//	{"kind": "rating", "value": 4}
type Answer struct {
	kind   answerKind
	text   string
	items  []string
	rating int
}

// TextAnswer wraps a free-text answer.
func TextAnswer(s string) Answer {
	return Answer{kind: answerKindText, text: s}
}

// ListAnswer wraps a list answer. The slice is copied so callers cannot
// mutate the answer after construction.
func ListAnswer(items []string) Answer {
	cp := make([]string, len(items))
	copy(cp, items)
	return Answer{kind: answerKindList, items: cp}
}

// RatingAnswer wraps a 1–5 self-assessment answer.
func RatingAnswer(value int) Answer {
	return Answer{kind: answerKindRating, rating: value}
}

// IsText reports whether this is a free-text answer.
func (a Answer) IsText() bool { return a.kind == answerKindText }

// IsList reports whether this is a list answer.
func (a Answer) IsList() bool { return a.kind == answerKindList }

// IsRating reports whether this is an assessment rating answer.
func (a Answer) IsRating() bool { return a.kind == answerKindRating }

// Text returns the free-text value, or "" for non-text answers.
func (a Answer) Text() string {
	if a.kind != answerKindText {
		return ""
	}
	return a.text
}

// Items returns a copy of the list items, or nil for non-list answers.
func (a Answer) Items() []string {
	if a.kind != answerKindList {
		return nil
	}
	cp := make([]string, len(a.items))
	copy(cp, a.items)
	return cp
}

// Rating returns the assessment value, or 0 for non-rating answers. Zero
// always means "unanswered".
func (a Answer) Rating() int {
	if a.kind != answerKindRating {
		return 0
	}
	return a.rating
}

// MarshalJSON serialises the tagged union into its wire shape. Unanswered
// (zero-value) answers serialise as null.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case answerKindText:
		return json.Marshal(struct {
			Kind answerKind `json:"kind"`
			Text string     `json:"text"`
		}{answerKindText, a.text})
	case answerKindList:
		items := a.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(struct {
			Kind  answerKind `json:"kind"`
			Items []string   `json:"items"`
		}{answerKindList, items})
	case answerKindRating:
		return json.Marshal(struct {
			Kind  answerKind `json:"kind"`
			Value int        `json:"value"`
		}{answerKindRating, a.rating})
	default:
		return []byte("null"), nil
	}
}

// ParseAnswer unmarshals a raw JSON blob (from the API body or the responses
// JSONB column) into a typed Answer. Returns an error if the JSON is
// malformed or the kind field is unrecognised. This is the boundary where
// shape validation happens — past this point the scorer assumes a specific
// shape per question and does no runtime type checks.
func ParseAnswer(raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 {
		return Answer{}, fmt.Errorf("answer: empty JSON")
	}

	var probe rawAnswer
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Answer{}, fmt.Errorf("answer: cannot read kind field: %w", err)
	}

	switch probe.Kind {
	case answerKindText:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return Answer{}, fmt.Errorf("answer: cannot unmarshal text answer: %w", err)
		}
		return TextAnswer(v.Text), nil

	case answerKindList:
		var v struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return Answer{}, fmt.Errorf("answer: cannot unmarshal list answer: %w", err)
		}
		return ListAnswer(v.Items), nil

	case answerKindRating:
		var v struct {
			Value int `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return Answer{}, fmt.Errorf("answer: cannot unmarshal rating answer: %w", err)
		}
		return RatingAnswer(v.Value), nil

	default:
		return Answer{}, fmt.Errorf("answer: unknown kind %q", probe.Kind)
	}
}

// ValidateForQuestion checks that the answer's shape matches the question's
// declared kind and respects its bounds. Called once at the API boundary when
// the wizard writes into the response store; the scorer relies on it having
// run.
func (a Answer) ValidateForQuestion(q catalog.Question) error {
	switch q.Kind {
	case catalog.KindText, catalog.KindTextarea:
		if !a.IsText() {
			return fmt.Errorf("question %q expects a text answer", q.ID)
		}
		return nil

	case catalog.KindList:
		if !a.IsList() {
			return fmt.Errorf("question %q expects a list answer", q.ID)
		}
		if len(a.items) > q.MaxItems {
			return fmt.Errorf("question %q accepts at most %d items, got %d", q.ID, q.MaxItems, len(a.items))
		}
		return nil

	case catalog.KindAssessment:
		if !a.IsRating() {
			return fmt.Errorf("question %q expects a rating answer", q.ID)
		}
		if a.rating < 1 || a.rating > 5 {
			return fmt.Errorf("question %q rating must be in [1,5], got %d", q.ID, a.rating)
		}
		return nil

	default:
		return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
	}
}

// ─── RESPONSES ────────────────────────────────────────────────────────────────

// Responses is the in-memory response store: layer → question → answer.
// Missing entries mean "unanswered". The UI/form layer owns mutation; the
// scoring functions only ever read it.
type Responses map[catalog.LayerID]map[string]Answer

// Get returns the answer for a question, with ok=false when the layer or
// question has no entry yet.
func (r Responses) Get(layerID catalog.LayerID, questionID string) (Answer, bool) {
	byQuestion, ok := r[layerID]
	if !ok {
		return Answer{}, false
	}
	a, ok := byQuestion[questionID]
	return a, ok
}

// Set stores an answer, allocating the inner map on first write to a layer.
func (r Responses) Set(layerID catalog.LayerID, questionID string, a Answer) {
	byQuestion, ok := r[layerID]
	if !ok {
		byQuestion = make(map[string]Answer)
		r[layerID] = byQuestion
	}
	byQuestion[questionID] = a
}

// filled implements the single "is this content question answered" predicate
// shared by the layer scorer and the completeness calculator: a list counts
// iff at least one item is non-empty after trimming, a scalar counts iff its
// trimmed text is non-empty.
func filled(a Answer) bool {
	switch {
	case a.IsList():
		for _, item := range a.items {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
		return false
	case a.IsText():
		return strings.TrimSpace(a.text) != ""
	default:
		return false
	}
}
