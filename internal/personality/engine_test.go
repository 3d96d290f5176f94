package personality

import "testing"

func answersOf(values ...int) []Answer {
	out := make([]Answer, len(values))
	for i, v := range values {
		out[i] = Answer{QuestionCode: "Q01", OptionValue: v}
	}
	return out
}

func TestEvaluateTallies(t *testing.T) {
	// 3 dominant, 2 influential, 1 steady.
	res := Evaluate(answersOf(1, 1, 1, 2, 2, 3))

	if res.Traits[TraitDominant] != 3 || res.Traits[TraitInfluential] != 2 || res.Traits[TraitSteady] != 1 {
		t.Errorf("traits = %v", res.Traits)
	}
	if res.Traits[TraitConscientious] != 0 {
		t.Errorf("conscientious = %d, want 0", res.Traits[TraitConscientious])
	}
	if res.OverallScore != 50 {
		t.Errorf("overall = %d, want 50 (3 of 6)", res.OverallScore)
	}
	if res.Recommendation != "Dominant / Influential" {
		t.Errorf("recommendation = %q", res.Recommendation)
	}
}

func TestEvaluateTieBreakOrder(t *testing.T) {
	// Equal steady and conscientious: S outranks C in a tie.
	res := Evaluate(answersOf(3, 4, 3, 4))
	if res.Recommendation != "Steady / Conscientious" {
		t.Errorf("recommendation = %q", res.Recommendation)
	}
}

func TestEvaluateSkipsInvalidOptions(t *testing.T) {
	res := Evaluate([]Answer{
		{QuestionCode: "Q01", OptionValue: 1},
		{QuestionCode: "Q02", OptionValue: 0},
		{QuestionCode: "Q03", OptionValue: 5},
	})
	if res.Traits[TraitDominant] != 1 {
		t.Errorf("dominant = %d, want 1", res.Traits[TraitDominant])
	}
	if res.OverallScore != 100 {
		t.Errorf("overall = %d, want 100 (1 of 1 counted)", res.OverallScore)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	res := Evaluate(nil)
	if res.OverallScore != 0 {
		t.Errorf("overall = %d, want 0", res.OverallScore)
	}
	if res.Recommendation != "Sin datos" {
		t.Errorf("recommendation = %q", res.Recommendation)
	}
	for trait, n := range res.Traits {
		if n != 0 {
			t.Errorf("%s = %d, want 0", trait, n)
		}
	}
}
