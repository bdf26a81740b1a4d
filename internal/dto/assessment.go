package dto

// StartSessionRequest opens (or resumes) an assessment for a subject.
// Subject resolution and authentication happen in the request layer.
type StartSessionRequest struct {
	SubjectID string `json:"subject_id"`
}

// StartSessionResponse echoes the session cursor back to the caller.
type StartSessionResponse struct {
	SessionID   string `json:"session_id"`
	Stage       string `json:"stage"`
	Pointer     string `json:"pointer"`
	ProductTier string `json:"product_tier"`
}

// SubmitAnswerRequest is the single mutating entry point's payload.
type SubmitAnswerRequest struct {
	QuestionCode string  `json:"question_code"`
	Value        string  `json:"value"`
	Weight       float64 `json:"weight"`
	Stage        string  `json:"stage"`
}

// ProgressResponse reports answered/total for the current stage.
type ProgressResponse struct {
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
	Stage    string `json:"stage"`
}

// NextItemResponse describes the next unanswered catalog item.
type NextItemResponse struct {
	Code          string `json:"code"`
	Filename      string `json:"filename"`
	Stage         string `json:"stage"`
	TimeLimitSec  int    `json:"time_limit_sec,omitempty"`
	Content       string `json:"content,omitempty"`
	ContentStatus string `json:"content_status,omitempty"`
}

// SubmitAnswerResponse is returned from every answer submission.
// NextItem is nil at a stage boundary; FinalResultID is set only when
// the submission ended the session.
type SubmitAnswerResponse struct {
	Accepted       bool              `json:"accepted"`
	StageCompleted bool              `json:"stage_completed"`
	NextItem       *NextItemResponse `json:"next_item,omitempty"`
	Progress       ProgressResponse  `json:"progress"`
	SessionEnded   bool              `json:"session_ended"`
	FinalResultID  string            `json:"final_result_id,omitempty"`
}

// ScoreEntryResponse is one ranked attribute score.
type ScoreEntryResponse struct {
	Stage         string  `json:"stage"`
	AttributeCode string  `json:"attribute_code"`
	Score         float64 `json:"score"`
	Rate          float64 `json:"rate"`
	Rank          int     `json:"rank"`
	AnswerCount   int     `json:"answer_count"`
}

// RecommendationResponse is one ranked job/duty target.
type RecommendationResponse struct {
	Basis      string  `json:"basis"`
	TargetCode string  `json:"target_code"`
	Kind       string  `json:"kind"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// ResultSummaryResponse is the cross-stage headline summary.
type ResultSummaryResponse struct {
	TendencyTop    []string `json:"tendency_top"`
	ThinkingTop    []string `json:"thinking_top"`
	ThinkingScore  float64  `json:"thinking_score"`
	ImageTotal     int      `json:"image_total"`
	ImagePreferred int      `json:"image_preferred"`
	PreferenceRate float64  `json:"preference_rate"`
}

// ResultsResponse is returned by getResults once the session has ended.
// Recommendations are best-effort enrichment and may be empty.
type ResultsResponse struct {
	SessionID       string                   `json:"session_id"`
	ResultID        string                   `json:"result_id"`
	Summary         ResultSummaryResponse    `json:"summary"`
	Scores          []ScoreEntryResponse     `json:"scores"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
