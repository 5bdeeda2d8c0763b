package scoring

import (
	"math"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Weights for layers with a self-assessment: the self-rating dominates, but
// content completeness nudges the score so an optimistic rating with no
// supporting detail is pulled down.
const (
	assessmentWeight = 0.7
	fillWeight       = 0.3
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// LayerStatus is the five-bucket label for a single layer score. String
// values match the Postgres layer_results.status column.
type LayerStatus string

const (
	StatusEmpty      LayerStatus = "empty"      // score 1 — nothing here yet
	StatusStarting   LayerStatus = "starting"   // score 2 — first shoots
	StatusBuilding   LayerStatus = "building"   // score 3 — taking shape
	StatusMature     LayerStatus = "mature"     // score 4 — running reliably
	StatusAutonomous LayerStatus = "autonomous" // score 5 — self-sustaining
)

// MaturityTier is the overall five-tier classification derived from the
// average of all layer scores.
type MaturityTier string

const (
	TierAudience  MaturityTier = "Audience"  // avg < 2.0 — people watch
	TierCommunity MaturityTier = "Community" // avg < 3.0 — people gather
	TierEcosystem MaturityTier = "Ecosystem" // avg < 4.0 — people create together
	TierMovement  MaturityTier = "Movement"  // avg < 4.5 — people carry it outward
	TierLegacy    MaturityTier = "Legacy"    // otherwise  — it outlives you
)

// LayerScore is the derived result for a single layer. Recomputed on every
// read; never persisted by this package.
type LayerScore struct {
	LayerID catalog.LayerID
	Score   int // clamped to [1,5]
	Status  LayerStatus
}

// AggregateScore is the derived result over all five layers.
type AggregateScore struct {
	Total       int          // sum of the 5 layer scores, range [5,25]
	Average     float64      // Total/5, range [1.0,5.0]
	Tier        MaturityTier
	LayerScores []LayerScore // length 5, catalog order
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// clamp constrains a layer score to [1, 5].
func clamp(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// StatusOf maps a clamped layer score to its status label. Input outside
// [1,5] is clamped first, so the function is total.
func StatusOf(score int) LayerStatus {
	switch clamp(score) {
	case 1:
		return StatusEmpty
	case 2:
		return StatusStarting
	case 3:
		return StatusBuilding
	case 4:
		return StatusMature
	default:
		return StatusAutonomous
	}
}

// TierOf maps an average score to the overall maturity tier. Thresholds are
// strict "<", evaluated low to high, so boundary values roll up: an average
// of exactly 2.0 is Community, not Audience.
func TierOf(average float64) MaturityTier {
	switch {
	case average < 2.0:
		return TierAudience
	case average < 3.0:
		return TierCommunity
	case average < 4.0:
		return TierEcosystem
	case average < 4.5:
		return TierMovement
	default:
		return TierLegacy
	}
}

// ScoreLayer computes the 1–5 maturity score for one layer.
//
// With a self-assessment answered, the score is a 70/30 blend of the rating
// and the content fill ratio. Without one, the score comes from fill alone
// via ceil(fillRatio*3) — deliberately capped at 3, because content volume
// without a self-rating is not taken as evidence of real maturity — with a
// floor of 1 so even a completely empty layer scores 1.
//
// An unknown layer id yields the defensive minimum {1, empty}; callers should
// treat that as a bug-surfacing fallback, not a supported path.
func ScoreLayer(layerID catalog.LayerID, responses Responses) LayerScore {
	layer, ok := catalog.LayerByID(layerID)
	if !ok {
		return LayerScore{LayerID: layerID, Score: 1, Status: StatusEmpty}
	}

	assessment := 0
	if a, ok := responses.Get(layerID, layer.Assessment().ID); ok {
		assessment = a.Rating()
	}

	content := layer.ContentQuestions()
	filledCount := 0
	for _, q := range content {
		if a, ok := responses.Get(layerID, q.ID); ok && filled(a) {
			filledCount++
		}
	}

	fillRatio := 0.0
	if len(content) > 0 {
		fillRatio = float64(filledCount) / float64(len(content))
	}

	var raw int
	if assessment == 0 {
		raw = int(math.Ceil(fillRatio * 3))
		if raw == 0 {
			raw = 1
		}
	} else {
		raw = int(math.Round(float64(assessment)*assessmentWeight + fillRatio*5*fillWeight))
	}

	score := clamp(raw)
	return LayerScore{LayerID: layerID, Score: score, Status: StatusOf(score)}
}

// ScoreAll scores every layer in catalog order and derives the aggregate.
// Pure aggregation — there are no failure modes.
func ScoreAll(responses Responses) AggregateScore {
	layers := catalog.Layers()
	scores := make([]LayerScore, len(layers))
	total := 0
	for i, l := range layers {
		scores[i] = ScoreLayer(l.ID, responses)
		total += scores[i].Score
	}

	average := float64(total) / float64(len(layers))

	return AggregateScore{
		Total:       total,
		Average:     average,
		Tier:        TierOf(average),
		LayerScores: scores,
	}
}

// Completeness returns the percentage of content questions answered across
// all layers, rounded to the nearest integer. Assessment questions are
// excluded — this expresses "% mapped", not maturity. Returns 0 if the
// catalog somehow has no content questions.
func Completeness(responses Responses) int {
	total := 0
	answered := 0
	for _, l := range catalog.Layers() {
		for _, q := range l.ContentQuestions() {
			total++
			if a, ok := responses.Get(l.ID, q.ID); ok && filled(a) {
				answered++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}
