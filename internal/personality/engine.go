// Package personality scores the fixed DISC questionnaire applicants take
// once their postulation reaches personality_test_ready. It is a deterministic
// point tally with no model involvement.
package personality

import (
	"fmt"
	"sort"
)

type Trait string

const (
	TraitDominant      Trait = "dominant"
	TraitInfluential   Trait = "influential"
	TraitSteady        Trait = "steady"
	TraitConscientious Trait = "conscientious"
)

var traitLabels = map[Trait]string{
	TraitDominant:      "Dominant",
	TraitInfluential:   "Influential",
	TraitSteady:        "Steady",
	TraitConscientious: "Conscientious",
}

// optionTrait maps the option value (1..4, i.e. A..D) of every question to the
// trait it counts toward.
var optionTrait = map[int]Trait{
	1: TraitDominant,
	2: TraitInfluential,
	3: TraitSteady,
	4: TraitConscientious,
}

// QuestionCount is the number of questions in the DISC questionnaire
// (Q01..Q26), each a single choice of 1..4.
const QuestionCount = 26

// Answer is one answered question of an attempt.
type Answer struct {
	QuestionCode string `json:"question_code"`
	OptionValue  int    `json:"option_value"`
}

// Result summarizes an attempt: per-trait totals, the primary style's share as
// the overall score, and a primary/secondary recommendation label.
type Result struct {
	Traits         map[Trait]int `json:"traits"`
	OverallScore   int           `json:"overall_score"`
	Recommendation string        `json:"recommendation"`
}

// Evaluate tallies one point per answer toward the chosen option's trait.
// Answers with an option value outside 1..4 are skipped; an attempt with no
// countable answers yields a zero result.
func Evaluate(answers []Answer) Result {
	totals := map[Trait]int{
		TraitDominant:      0,
		TraitInfluential:   0,
		TraitSteady:        0,
		TraitConscientious: 0,
	}

	counted := 0
	for _, a := range answers {
		trait, ok := optionTrait[a.OptionValue]
		if !ok {
			continue
		}
		totals[trait]++
		counted++
	}

	if counted == 0 {
		return Result{Traits: totals, OverallScore: 0, Recommendation: "Sin datos"}
	}

	type entry struct {
		trait Trait
		score int
	}
	ordered := make([]entry, 0, len(totals))
	for t, n := range totals {
		ordered = append(ordered, entry{trait: t, score: n})
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		// Stable tie order: D, I, S, C.
		return traitRank(ordered[i].trait) < traitRank(ordered[j].trait)
	})

	primary := ordered[0]
	secondary := ordered[1]

	overall := int(float64(primary.score)/float64(counted)*100 + 0.5)

	return Result{
		Traits:       totals,
		OverallScore: overall,
		Recommendation: fmt.Sprintf("%s / %s",
			traitLabels[primary.trait],
			traitLabels[secondary.trait],
		),
	}
}

func traitRank(t Trait) int {
	switch t {
	case TraitDominant:
		return 0
	case TraitInfluential:
		return 1
	case TraitSteady:
		return 2
	default:
		return 3
	}
}
