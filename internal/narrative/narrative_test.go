package narrative_test

import (
	"strings"
	"testing"

	"github.com/evergrowthhq/blueprint-backend/internal/catalog"
	"github.com/evergrowthhq/blueprint-backend/internal/narrative"
	"github.com/evergrowthhq/blueprint-backend/internal/scoring"
)

func render(r scoring.Responses) string {
	return narrative.Render(r, scoring.ScoreAll(r))
}

func TestRender_EmptyResponses(t *testing.T) {
	out := render(scoring.Responses{})

	if !strings.Contains(out, "# Ecosystem Blueprint") {
		t.Error("missing report heading")
	}
	// Every layer section present, in order.
	lastIdx := -1
	for _, l := range catalog.Layers() {
		idx := strings.Index(out, "## "+l.Emoji+" "+l.Name)
		if idx < 0 {
			t.Errorf("missing section for layer %q", l.ID)
			continue
		}
		if idx < lastIdx {
			t.Errorf("layer %q rendered out of catalog order", l.ID)
		}
		lastIdx = idx
	}
	// 15 content questions, all unanswered.
	if got := strings.Count(out, "_not filled_"); got != 15 {
		t.Errorf("expected 15 placeholders, got %d", got)
	}
	if !strings.Contains(out, "**Maturity tier:** Audience") {
		t.Error("empty store should report Audience tier")
	}
}

func TestRender_ListItemsFilteredAndBulleted(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerRoot, "root_values", scoring.ListAnswer([]string{"  trust ", "", "   ", "candour"}))

	out := render(r)

	if !strings.Contains(out, "- trust\n") {
		t.Error("expected trimmed bullet for 'trust'")
	}
	if !strings.Contains(out, "- candour\n") {
		t.Error("expected bullet for 'candour'")
	}
	// Whitespace-only entries are dropped, not rendered as empty bullets.
	if strings.Contains(out, "- \n") || strings.Contains(out, "-  \n") {
		t.Error("whitespace-only items must not render")
	}
	if got := strings.Count(out, "- trust")+strings.Count(out, "- candour"); got != 2 {
		t.Errorf("expected exactly 2 bullets, got %d", got)
	}
}

func TestRender_WhitespaceOnlyListShowsPlaceholder(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerRoot, "root_values", scoring.ListAnswer([]string{"", "  "}))

	out := render(r)
	if got := strings.Count(out, "_not filled_"); got != 15 {
		t.Errorf("an all-whitespace list counts as unfilled; got %d placeholders, want 15", got)
	}
}

func TestRender_ScalarAnswerEmittedRaw(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerRoot, "root_purpose", scoring.TextAnswer("Connect local makers."))

	out := render(r)
	if !strings.Contains(out, "Connect local makers.") {
		t.Error("scalar answer should render verbatim")
	}
	if got := strings.Count(out, "_not filled_"); got != 14 {
		t.Errorf("expected 14 placeholders, got %d", got)
	}
}

func TestRender_AssessmentShowsOptionLabelNotInteger(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerRoot, "root_assessment", scoring.RatingAnswer(4))

	out := render(r)

	q, _ := catalog.QuestionByID(catalog.LayerRoot, "root_assessment")
	label := q.OptionLabel(4)
	if !strings.Contains(out, "Self-assessment: "+label) {
		t.Errorf("expected option label %q in output", label)
	}
	if strings.Contains(out, "Self-assessment: 4") {
		t.Error("raw integer must not render")
	}
}

func TestRender_UnansweredAssessmentOmitted(t *testing.T) {
	out := render(scoring.Responses{})
	if strings.Contains(out, "Self-assessment:") {
		t.Error("unanswered assessments must not render a line")
	}
}

func TestRender_SummaryTableHasOneRowPerLayer(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerGrowth, "growth_assessment", scoring.RatingAnswer(5))

	out := render(r)

	if !strings.Contains(out, "## Summary") {
		t.Fatal("missing summary section")
	}
	for _, l := range catalog.Layers() {
		want := "| " + l.Emoji + " | " + l.Name + " | "
		if !strings.Contains(out, want) {
			t.Errorf("summary table missing row for %q", l.ID)
		}
	}
	// growth: assessment=5, fill=0 → round(3.5)=4.
	if !strings.Contains(out, "| 📈 | Growth | mature | 4/5 |") {
		t.Error("growth row should show mature 4/5")
	}
}

func TestRender_NextStepsOnlyForWeakLayers(t *testing.T) {
	r := scoring.Responses{}
	// Push growth to 4; everything else stays at 1.
	r.Set(catalog.LayerGrowth, "growth_assessment", scoring.RatingAnswer(5))

	out := render(r)

	if !strings.Contains(out, "## Next steps") {
		t.Fatal("missing next steps section")
	}
	for _, id := range []catalog.LayerID{catalog.LayerRoot, catalog.LayerStructure, catalog.LayerCulture, catalog.LayerAutonomy} {
		if !strings.Contains(out, catalog.Recommendation(id)) {
			t.Errorf("expected recommendation for weak layer %q", id)
		}
	}
	if strings.Contains(out, catalog.Recommendation(catalog.LayerGrowth)) {
		t.Error("growth scored 4 — it must not appear in next steps")
	}
}

func TestRender_NoNextStepsWhenAllStrong(t *testing.T) {
	r := scoring.Responses{}
	for _, l := range catalog.Layers() {
		r.Set(l.ID, l.Assessment().ID, scoring.RatingAnswer(5))
	}

	out := render(r)
	if strings.Contains(out, "## Next steps") {
		t.Error("no layer scored <= 2, next steps must be absent")
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := scoring.Responses{}
	r.Set(catalog.LayerRoot, "root_purpose", scoring.TextAnswer("Why we exist."))
	r.Set(catalog.LayerRoot, "root_values", scoring.ListAnswer([]string{"trust", "craft"}))
	r.Set(catalog.LayerCulture, "culture_assessment", scoring.RatingAnswer(3))

	agg := scoring.ScoreAll(r)
	first := narrative.Render(r, agg)
	second := narrative.Render(r, agg)
	if first != second {
		t.Error("Render must be deterministic for identical inputs")
	}
}
