package domain

// ScoreEntry is one attribute's aggregated result for one session+stage.
// Rows are only ever written as a full per-stage set (delete-all then
// reinsert), which keeps recomputation idempotent.
type ScoreEntry struct {
	ID            string
	SessionID     string
	Stage         Stage
	AttributeCode string
	Score         float64
	Rate          float64
	Rank          int
	AnswerCount   int

	// Tie-break counters, persisted with the entry so the ranking
	// policy stays auditable after the fact.
	HighExtremeCount int
	LowExtremeCount  int
}

// LessThan orders entries for ranking: rate desc, then supporting-answer
// count desc, then extreme-high count desc, then fewest extreme-low.
// Kept as an explicit multi-key comparator rather than a composite score.
func (e *ScoreEntry) LessThan(other *ScoreEntry) bool {
	if e.Rate != other.Rate {
		return e.Rate > other.Rate
	}
	if e.AnswerCount != other.AnswerCount {
		return e.AnswerCount > other.AnswerCount
	}
	if e.HighExtremeCount != other.HighExtremeCount {
		return e.HighExtremeCount > other.HighExtremeCount
	}
	if e.LowExtremeCount != other.LowExtremeCount {
		return e.LowExtremeCount < other.LowExtremeCount
	}
	return e.AttributeCode < other.AttributeCode
}

// ResultSummary accumulates per-stage headline results for one session.
// Created empty at session start and mutated as each stage completes.
type ResultSummary struct {
	SessionID      string
	TendencyTop    []string // rank 1..3 attribute codes
	ThinkingTop    []string // rank 1..2 attribute codes
	ThinkingScore  float64  // combined score of the thinking top 2
	ImageTotal     int      // image items shown
	ImagePreferred int      // count answered as preferred
	PreferenceRate float64
}
