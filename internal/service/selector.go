package service

import "aptitest/internal/domain"

// progressValues assigns every item of the tier's ordered battery its
// progress value: the 1-based position in the cross-stage canonical
// ordering, or, when the subject already answered the item, the
// answer's own recorded progress. Answer sequences are assigned
// session-wide, so positions must span every stage the tier sees for
// the two scales to stay comparable. Reusing the stored value
// preserves insertion-order semantics when items are revisited.
func progressValues(ordering []domain.Question, answerProgress map[string]int) map[string]int {
	values := make(map[string]int, len(ordering))
	for i := range ordering {
		code := ordering[i].Code
		if p, ok := answerProgress[code]; ok {
			values[code] = p
		} else {
			values[code] = i + 1
		}
	}
	return values
}

// nextItem returns the current-stage item that follows the session's
// pointer in progress order, or nil at the stage boundary. Candidates
// are restricted to the stage, but positions come from the full
// ordering. A pointer that is not in the ordering (the stage's
// interstitial marker) has progress 0, so the stage's first item
// wins. No tie-break is needed: progress values derive from a total
// order.
func nextItem(ordering []domain.Question, stage domain.Stage, answerProgress map[string]int, pointerCode string) *domain.Question {
	values := progressValues(ordering, answerProgress)

	pointerProgress := 0
	if p, ok := values[pointerCode]; ok {
		pointerProgress = p
	}

	var best *domain.Question
	bestProgress := 0
	for i := range ordering {
		if ordering[i].Stage != stage {
			continue
		}
		p := values[ordering[i].Code]
		if p <= pointerProgress {
			continue
		}
		if best == nil || p < bestProgress {
			best = &ordering[i]
			bestProgress = p
		}
	}
	return best
}
