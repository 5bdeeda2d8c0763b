// Package narrative renders the ecosystem blueprint report as markdown from a
// response store and an aggregate score. The output is fully deterministic —
// identical inputs always produce identical text — and the package performs no
// I/O; the worker persists the result and the frontend offers copy/download.
package narrative

import (
	"fmt"
	"strings"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
)

// notFilled is the placeholder emitted for unanswered content questions.
const notFilled = "_not filled_"

// Render produces the complete markdown blueprint: header, one section per
// layer in catalog order, the score summary table, and the next-steps block
// for weak layers.
func Render(responses scoring.Responses, agg scoring.AggregateScore) string {
	var b strings.Builder

	b.WriteString("# Ecosystem Blueprint\n\n")
	fmt.Fprintf(&b, "**Maturity tier:** %s · **Average score:** %.1f / 5\n\n", agg.Tier, agg.Average)

	for _, layer := range catalog.Layers() {
		writeLayerSection(&b, layer, responses, scoreFor(agg, layer.ID))
	}

	writeSummaryTable(&b, agg)
	writeNextSteps(&b, agg)

	return b.String()
}

// scoreFor finds the layer's score inside the aggregate. The aggregate always
// carries all five layers, but fall back to re-scoring defensively so Render
// stays total even on a hand-built AggregateScore.
func scoreFor(agg scoring.AggregateScore, id catalog.LayerID) scoring.LayerScore {
	for _, ls := range agg.LayerScores {
		if ls.LayerID == id {
			return ls
		}
	}
	return scoring.LayerScore{LayerID: id, Score: 1, Status: scoring.StatusEmpty}
}

func writeLayerSection(b *strings.Builder, layer catalog.Layer, responses scoring.Responses, ls scoring.LayerScore) {
	fmt.Fprintf(b, "## %s %s\n\n", layer.Emoji, layer.Name)
	fmt.Fprintf(b, "Status: **%s** (%d/5)\n\n", ls.Status, ls.Score)

	for _, q := range layer.ContentQuestions() {
		fmt.Fprintf(b, "**%s**\n\n", q.Prompt)

		answer, ok := responses.Get(layer.ID, q.ID)
		switch {
		case q.Kind == catalog.KindList:
			// Whitespace-only items are dropped silently — they were never
			// real input, so they neither render nor count.
			items := nonEmptyItems(answer)
			if !ok || len(items) == 0 {
				b.WriteString(notFilled + "\n\n")
				break
			}
			for _, item := range items {
				fmt.Fprintf(b, "- %s\n", item)
			}
			b.WriteString("\n")

		default:
			text := strings.TrimSpace(answer.Text())
			if !ok || text == "" {
				b.WriteString(notFilled + "\n\n")
				break
			}
			b.WriteString(text + "\n\n")
		}
	}

	// The self-assessment renders as its option label, never the raw integer.
	assessment := layer.Assessment()
	if a, ok := responses.Get(layer.ID, assessment.ID); ok && a.Rating() != 0 {
		if label := assessment.OptionLabel(a.Rating()); label != "" {
			fmt.Fprintf(b, "Self-assessment: %s\n\n", label)
		}
	}
}

func nonEmptyItems(a scoring.Answer) []string {
	var out []string
	for _, item := range a.Items() {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeSummaryTable(b *strings.Builder, agg scoring.AggregateScore) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| | Layer | Status | Score |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, layer := range catalog.Layers() {
		ls := scoreFor(agg, layer.ID)
		fmt.Fprintf(b, "| %s | %s | %s | %d/5 |\n", layer.Emoji, layer.Name, ls.Status, ls.Score)
	}
	fmt.Fprintf(b, "\n**Total:** %d/25 · **Average:** %.1f · **Tier:** %s\n\n", agg.Total, agg.Average, agg.Tier)
}

// writeNextSteps lists a fixed recommendation for every layer scoring 2 or
// below. Strong ecosystems (no weak layers) get no section at all.
func writeNextSteps(b *strings.Builder, agg scoring.AggregateScore) {
	var weak []catalog.Layer
	for _, layer := range catalog.Layers() {
		if scoreFor(agg, layer.ID).Score <= 2 {
			weak = append(weak, layer)
		}
	}
	if len(weak) == 0 {
		return
	}

	b.WriteString("## Next steps\n\n")
	for _, layer := range weak {
		fmt.Fprintf(b, "- **%s**: %s\n", layer.Name, catalog.Recommendation(layer.ID))
	}
	b.WriteString("\n")
}
