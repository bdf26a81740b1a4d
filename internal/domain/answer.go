package domain

import "time"

// Weight scale bounds. Extreme responses at either end feed the
// tendency rank tie-break.
const (
	WeightScaleMin = 1.0
	WeightScaleMax = 5.0
)

// Answer records one (session, question) weighted response. Resubmission
// overwrites the row; Progress is assigned once at insert time as
// max(session progress)+1 and is reused on overwrite.
type Answer struct {
	ID           string
	SessionID    string
	QuestionCode string
	Value        string
	Weight       float64
	Progress     int
	AnsweredAt   time.Time
}

// NewAnswer creates a new Answer instance
func NewAnswer(sessionID, questionCode, value string, weight float64) *Answer {
	return &Answer{
		SessionID:    sessionID,
		QuestionCode: questionCode,
		Value:        value,
		Weight:       weight,
		AnsweredAt:   time.Now(),
	}
}

// Counts reports whether the answer satisfies the completion invariant:
// positive progress sequence and non-negative weight. The negative path
// marks skipped/invalid responses without deleting history.
func (a *Answer) Counts() bool {
	return a.Progress > 0 && a.Weight >= 0
}

// Validate validates the answer
func (a *Answer) Validate() error {
	if a.SessionID == "" {
		return NewInvalidInputError("session ID is required")
	}
	if a.QuestionCode == "" {
		return NewInvalidInputError("question code is required")
	}
	return nil
}

// StageAnswer is an answer joined with its question's scoring slots,
// the shape the calculators consume.
type StageAnswer struct {
	QuestionCode string
	Attr1        string
	Attr2        string
	Attr3        string
	Value        string
	Weight       float64
	Progress     int
}

// Counts mirrors Answer.Counts for the joined row.
func (a *StageAnswer) Counts() bool {
	return a.Progress > 0 && a.Weight >= 0
}
