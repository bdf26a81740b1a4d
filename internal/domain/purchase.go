package domain

// PurchaseStatus gates session creation: only paid purchases without a
// finished assessment are eligible.
type PurchaseStatus string

const (
	PurchaseEligible PurchaseStatus = "eligible"
	PurchaseConsumed PurchaseStatus = "consumed"
)

// Purchase is the subject's paid entitlement to one assessment attempt.
// ResultID is the externally visible identifier of the final result set.
type Purchase struct {
	ID          string
	SubjectID   string
	ResultID    string
	ProductTier ProductTier
	Status      PurchaseStatus
}
