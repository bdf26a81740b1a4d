package domain

import "time"

// Stage identifies one of the three ordered question batteries.
type Stage string

const (
	StageTendency Stage = "tendency"
	StageThinking Stage = "thinking"
	StageImage    Stage = "image"
)

// ValidStage reports whether s is a known stage tag.
func ValidStage(s Stage) bool {
	switch s {
	case StageTendency, StageThinking, StageImage:
		return true
	}
	return false
}

// ProductTier selects which stages a subject's purchase grants.
// Basic tier skips the thinking battery entirely.
type ProductTier string

const (
	TierBasic   ProductTier = "basic"
	TierPremium ProductTier = "premium"
)

// SessionStatus is the lifecycle status of an assessment session.
type SessionStatus string

const (
	StatusReady      SessionStatus = "ready"
	StatusInProgress SessionStatus = "in_progress"
	StatusEnded      SessionStatus = "ended"
)

// Session tracks a subject's position within the three-stage battery.
// Stage and PointerCode form the current-item cursor; Version backs the
// compare-and-swap updates used by stage transitions.
type Session struct {
	ID          string
	SubjectID   string
	PurchaseID  string
	ResultID    string
	ProductTier ProductTier
	Stage       Stage
	PointerCode string
	Status      SessionStatus
	Version     int64
	StartedAt   time.Time
	EndedAt     *time.Time
}

// NewSession creates a session positioned at the tendency stage.
func NewSession(subjectID string, purchase *Purchase) *Session {
	return &Session{
		SubjectID:   subjectID,
		PurchaseID:  purchase.ID,
		ResultID:    purchase.ResultID,
		ProductTier: purchase.ProductTier,
		Stage:       StageTendency,
		Status:      StatusReady,
		Version:     1,
		StartedAt:   time.Now(),
	}
}

// Ended reports whether the session reached its terminal state.
func (s *Session) Ended() bool {
	return s.Status == StatusEnded
}

// NextStage returns the stage that follows current for the given tier,
// or false when current is the final stage. Basic tier transitions
// tendency -> image directly.
func NextStage(current Stage, tier ProductTier) (Stage, bool) {
	switch current {
	case StageTendency:
		if tier == TierBasic {
			return StageImage, true
		}
		return StageThinking, true
	case StageThinking:
		return StageImage, true
	}
	return "", false
}

// StagesForTier returns the ordered battery for a tier.
func StagesForTier(tier ProductTier) []Stage {
	if tier == TierBasic {
		return []Stage{StageTendency, StageImage}
	}
	return []Stage{StageTendency, StageThinking, StageImage}
}

// Validate validates the session
func (s *Session) Validate() error {
	if s.SubjectID == "" {
		return NewInvalidInputError("subject ID is required")
	}
	if s.PurchaseID == "" {
		return NewInvalidInputError("purchase ID is required")
	}
	if !ValidStage(s.Stage) {
		return NewInvalidInputError("unknown stage: " + string(s.Stage))
	}
	return nil
}
