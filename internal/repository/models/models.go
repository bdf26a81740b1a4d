package models

import (
	"database/sql"
	"time"
)

// Session row in assessment_sessions.
type Session struct {
	ID          string       `db:"id"`
	SubjectID   string       `db:"subject_id"`
	PurchaseID  string       `db:"purchase_id"`
	ResultID    string       `db:"result_id"`
	ProductTier string       `db:"product_tier"`
	Stage       string       `db:"stage"`
	PointerCode string       `db:"pointer_code"`
	Status      string       `db:"status"`
	Version     int64        `db:"version"`
	StartedAt   time.Time    `db:"started_at"`
	EndedAt     sql.NullTime `db:"ended_at"`
}

// Question row in questions. The attribute slots and the answer value
// are nullable in Oracle; empty strings are stored as NULL.
type Question struct {
	Code         string         `db:"code"`
	Filename     string         `db:"filename"`
	Stage        string         `db:"stage"`
	Attr1        sql.NullString `db:"attr1"`
	Attr2        sql.NullString `db:"attr2"`
	Attr3        sql.NullString `db:"attr3"`
	StageOrder   int            `db:"stage_order"`
	SeqOrder     int            `db:"seq_order"`
	TimeLimitSec int            `db:"time_limit_sec"`
	Active       int            `db:"active"`
}

// QuestionContent row in question_contents.
type QuestionContent struct {
	QuestionCode string `db:"question_code"`
	Locale       string `db:"locale"`
	Body         string `db:"body"`
}

// ScoringAttribute row in scoring_attributes.
type ScoringAttribute struct {
	Code          string  `db:"code"`
	Stage         string  `db:"stage"`
	Name          string  `db:"name"`
	TotalPossible float64 `db:"total_possible"`
}

// Answer row in answers.
type Answer struct {
	ID           string         `db:"id"`
	SessionID    string         `db:"session_id"`
	QuestionCode string         `db:"question_code"`
	Value        sql.NullString `db:"val"`
	Weight       float64        `db:"weight"`
	Progress     int            `db:"progress"`
	AnsweredAt   time.Time      `db:"answered_at"`
}

// StageAnswer is the answers-questions join projection used by scoring.
type StageAnswer struct {
	QuestionCode string         `db:"question_code"`
	Attr1        sql.NullString `db:"attr1"`
	Attr2        sql.NullString `db:"attr2"`
	Attr3        sql.NullString `db:"attr3"`
	Value        sql.NullString `db:"val"`
	Weight       float64        `db:"weight"`
	Progress     int            `db:"progress"`
}

// ScoreEntry row in score_entries.
type ScoreEntry struct {
	ID            string  `db:"id"`
	SessionID     string  `db:"session_id"`
	Stage         string  `db:"stage"`
	AttributeCode string  `db:"attribute_code"`
	Score         float64 `db:"score"`
	Rate          float64 `db:"rate"`
	Rank          int     `db:"rnk"`
	AnswerCount   int     `db:"answer_count"`
	HighExtreme   int     `db:"high_extreme"`
	LowExtreme    int     `db:"low_extreme"`
}

// ResultSummary row in result_summaries.
type ResultSummary struct {
	SessionID      string         `db:"session_id"`
	TendencyTop1   sql.NullString `db:"tendency_top1"`
	TendencyTop2   sql.NullString `db:"tendency_top2"`
	TendencyTop3   sql.NullString `db:"tendency_top3"`
	ThinkingTop1   sql.NullString `db:"thinking_top1"`
	ThinkingTop2   sql.NullString `db:"thinking_top2"`
	ThinkingScore  float64        `db:"thinking_score"`
	ImageTotal     int            `db:"image_total"`
	ImagePreferred int            `db:"image_preferred"`
	PreferenceRate float64        `db:"preference_rate"`
}

// Recommendation row in recommendations.
type Recommendation struct {
	ID         string  `db:"id"`
	SessionID  string  `db:"session_id"`
	Basis      string  `db:"basis"`
	TargetCode string  `db:"target_code"`
	Kind       string  `db:"kind"`
	Score      float64 `db:"score"`
	Rank       int     `db:"rnk"`
}

// RecommendationTarget row in recommendation_targets.
type RecommendationTarget struct {
	Code string `db:"code"`
	Name string `db:"name"`
	Kind string `db:"kind"`
}

// TargetAttributeMap row in target_attribute_maps.
type TargetAttributeMap struct {
	TargetCode string         `db:"target_code"`
	Attr1      string         `db:"attr1"`
	Attr2      sql.NullString `db:"attr2"`
	Attr3      sql.NullString `db:"attr3"`
}

// QuestionTargetMap row in question_target_maps.
type QuestionTargetMap struct {
	QuestionCode string `db:"question_code"`
	TargetCode   string `db:"target_code"`
}

// Purchase row in purchases.
type Purchase struct {
	ID          string `db:"id"`
	SubjectID   string `db:"subject_id"`
	ResultID    string `db:"result_id"`
	ProductTier string `db:"product_tier"`
	Status      string `db:"status"`
}
