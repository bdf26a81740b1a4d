package domain

// RecommendationBasis names which stage's scores (or their blend) a
// job/duty ranking was derived from.
type RecommendationBasis string

const (
	BasisTendency RecommendationBasis = "tendency"
	BasisImage    RecommendationBasis = "image"
	BasisTotal    RecommendationBasis = "total"
)

// TargetKind distinguishes job recommendations from duty recommendations.
type TargetKind string

const (
	TargetJob  TargetKind = "job"
	TargetDuty TargetKind = "duty"
)

// RecommendationTarget is a job or duty that can be recommended.
type RecommendationTarget struct {
	Code string
	Name string
	Kind TargetKind
}

// TargetAttributeMap links a target to up to three tendency scoring
// attributes; a target's tendency-basis score is the sum of those
// attributes' scores.
type TargetAttributeMap struct {
	TargetCode string
	Attr1      string
	Attr2      string
	Attr3      string
}

// QuestionTargetMap links an image question directly to a target.
type QuestionTargetMap struct {
	QuestionCode string
	TargetCode   string
}

// Recommendation is one ranked target for one session and basis.
// Score is kept so the total basis can blend the per-stage sums.
type Recommendation struct {
	ID         string
	SessionID  string
	Basis      RecommendationBasis
	TargetCode string
	Kind       TargetKind
	Score      float64
	Rank       int
}
