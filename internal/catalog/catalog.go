// Package catalog holds the immutable definition of the five ecosystem layers
// and their questions. The data lives in an embedded YAML file that is parsed
// and validated exactly once at package init; everything exported from here is
// read-only reference data. It imports nothing from internal/ so the scoring
// and narrative packages can depend on it freely.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

// ─── TYPES ────────────────────────────────────────────────────────────────────

// LayerID identifies one of the five fixed ecosystem layers. String values
// match the Postgres rows in responses.layer_id, so they round-trip without
// conversion.
type LayerID string

const (
	LayerRoot      LayerID = "root"
	LayerStructure LayerID = "structure"
	LayerCulture   LayerID = "culture"
	LayerGrowth    LayerID = "growth"
	LayerAutonomy  LayerID = "autonomy"
)

// Kind is the question kind discriminator. It determines which answer shape
// is accepted at the API boundary and how the question participates in
// scoring: assessment questions feed the 1–5 self-rating, everything else
// ("content questions") feeds the fill ratio only.
type Kind string

const (
	KindText       Kind = "text"
	KindTextarea   Kind = "textarea"
	KindList       Kind = "list"
	KindAssessment Kind = "assessment"
)

// IsContent reports whether this kind counts toward completeness and the fill
// ratio (i.e. is not the self-assessment).
func (k Kind) IsContent() bool { return k != KindAssessment }

// Option is one choice of an assessment question. Values are contiguous
// integers 1..5 within a question.
type Option struct {
	Value int    `yaml:"value"`
	Label string `yaml:"label"`
}

// Question is one entry of a layer. MaxItems applies to list questions only
// and defaults to 10; Options is set for assessment questions only.
type Question struct {
	ID       string   `yaml:"id"`
	Kind     Kind     `yaml:"kind"`
	Prompt   string   `yaml:"prompt"`
	MaxItems int      `yaml:"max_items"`
	Options  []Option `yaml:"options"`
}

// OptionLabel returns the label for an assessment value, or "" if the value
// has no matching option (including non-assessment questions).
func (q Question) OptionLabel(value int) string {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return ""
}

// Layer is one of the five ecosystem maturity dimensions.
type Layer struct {
	ID        LayerID    `yaml:"id"`
	Name      string     `yaml:"name"`
	Emoji     string     `yaml:"emoji"`
	Questions []Question `yaml:"questions"`
}

// Assessment returns the layer's single self-assessment question. The loader
// guarantees exactly one exists.
func (l Layer) Assessment() Question {
	for _, q := range l.Questions {
		if q.Kind == KindAssessment {
			return q
		}
	}
	// Unreachable for a validated catalog; zero value keeps callers total.
	return Question{}
}

// ContentQuestions returns the layer's non-assessment questions in catalog
// order.
func (l Layer) ContentQuestions() []Question {
	out := make([]Question, 0, len(l.Questions))
	for _, q := range l.Questions {
		if q.Kind.IsContent() {
			out = append(out, q)
		}
	}
	return out
}

// ─── ACCESSORS ────────────────────────────────────────────────────────────────

var layers []Layer

// Layers returns the five layers in fixed wizard order. The returned slice is
// a copy so callers cannot reorder the catalog; the Layer values themselves
// must be treated as read-only.
func Layers() []Layer {
	out := make([]Layer, len(layers))
	copy(out, layers)
	return out
}

// LayerByID looks up a layer. ok is false for unknown ids — callers are
// expected to degrade gracefully rather than error (see scoring.ScoreLayer).
func LayerByID(id LayerID) (Layer, bool) {
	for _, l := range layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// QuestionByID looks up a question within a layer.
func QuestionByID(layerID LayerID, questionID string) (Question, bool) {
	l, ok := LayerByID(layerID)
	if !ok {
		return Question{}, false
	}
	for _, q := range l.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return Question{}, false
}

// Recommendation returns the fixed next-step guidance for a layer, used by
// the narrative generator for layers scoring 2 or below. The default branch
// is defensive only — every catalog layer has a dedicated case.
func Recommendation(id LayerID) string {
	switch id {
	case LayerRoot:
		return "Write down your purpose in one sentence and test it on five members — if they can't repeat it, sharpen it."
	case LayerStructure:
		return "Pick one format and run it on a fixed rhythm for three months before adding anything new."
	case LayerCulture:
		return "Introduce a single recurring ritual that makes contributions visible, then protect it."
	case LayerGrowth:
		return "Ask your ten most active members why they joined and double down on that channel."
	case LayerAutonomy:
		return "Hand one complete initiative — budget and decisions included — to a member this quarter."
	default:
		return "Start small: map what already exists in this layer before building anything new."
	}
}

// ─── LOADING & VALIDATION ─────────────────────────────────────────────────────

type catalogFile struct {
	Layers []Layer `yaml:"layers"`
}

// expectedOrder is the canonical layer order. The YAML must match it exactly
// so scoring, completeness, and the narrative all iterate identically.
var expectedOrder = []LayerID{LayerRoot, LayerStructure, LayerCulture, LayerGrowth, LayerAutonomy}

func load(raw []byte) ([]Layer, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}

	if len(f.Layers) != len(expectedOrder) {
		return nil, fmt.Errorf("catalog: expected %d layers, got %d", len(expectedOrder), len(f.Layers))
	}

	seenQuestions := make(map[string]LayerID)

	for i := range f.Layers {
		l := &f.Layers[i]

		if l.ID != expectedOrder[i] {
			return nil, fmt.Errorf("catalog: layer %d: expected id %q, got %q", i, expectedOrder[i], l.ID)
		}
		if l.Name == "" {
			return nil, fmt.Errorf("catalog: layer %q: missing name", l.ID)
		}
		if len(l.Questions) == 0 {
			return nil, fmt.Errorf("catalog: layer %q: no questions", l.ID)
		}

		assessments := 0
		for j := range l.Questions {
			q := &l.Questions[j]
			if q.ID == "" {
				return nil, fmt.Errorf("catalog: layer %q: question %d has no id", l.ID, j)
			}
			if prev, dup := seenQuestions[q.ID]; dup {
				return nil, fmt.Errorf("catalog: question id %q appears in both %q and %q", q.ID, prev, l.ID)
			}
			seenQuestions[q.ID] = l.ID

			switch q.Kind {
			case KindText, KindTextarea:
				// nothing extra to check

			case KindList:
				if q.MaxItems == 0 {
					q.MaxItems = 10
				}
				if q.MaxItems < 0 {
					return nil, fmt.Errorf("catalog: question %q: max_items must be positive, got %d", q.ID, q.MaxItems)
				}

			case KindAssessment:
				assessments++
				if err := validateOptions(q.Options); err != nil {
					return nil, fmt.Errorf("catalog: question %q: %w", q.ID, err)
				}

			default:
				return nil, fmt.Errorf("catalog: question %q: unknown kind %q", q.ID, q.Kind)
			}
		}

		if assessments != 1 {
			return nil, fmt.Errorf("catalog: layer %q: expected exactly 1 assessment question, got %d", l.ID, assessments)
		}
	}

	return f.Layers, nil
}

// validateOptions checks that an assessment question carries exactly the
// contiguous values 1..5, in order.
func validateOptions(opts []Option) error {
	if len(opts) != 5 {
		return fmt.Errorf("expected 5 options, got %d", len(opts))
	}
	for i, opt := range opts {
		if opt.Value != i+1 {
			return fmt.Errorf("option %d: expected value %d, got %d", i, i+1, opt.Value)
		}
		if opt.Label == "" {
			return fmt.Errorf("option %d: missing label", i)
		}
	}
	return nil
}

func init() {
	var err error
	layers, err = load(rawCatalog)
	if err != nil {
		// The catalog is compile-time data: a broken embed is a build defect,
		// not a runtime condition anyone can recover from.
		panic(err)
	}
}
