package service

import (
	"context"
	"sort"

	"aptitest/internal/domain"
	"go.uber.org/zap"
)

// stageAttributeCode picks the attribute slot a stage aggregates by.
// Tendency and thinking group by the primary slot, image by the third.
func stageAttributeCode(stage domain.Stage, a *domain.StageAnswer) string {
	if stage == domain.StageImage {
		return a.Attr3
	}
	return a.Attr1
}

// computeStageScores aggregates one stage's answers into ranked score
// entries. Answers that do not count toward progress are excluded, as
// are answers whose attribute slot is empty. Attribute codes without a
// catalog row still aggregate; their rate stays 0 because the total
// possible score is unknown.
func computeStageScores(sessionID string, stage domain.Stage, answers []domain.StageAnswer, attrs []domain.ScoringAttribute) []domain.ScoreEntry {
	totals := make(map[string]float64, len(attrs))
	for i := range attrs {
		totals[attrs[i].Code] = attrs[i].TotalPossible
	}

	byCode := make(map[string]*domain.ScoreEntry)
	var order []string
	for i := range answers {
		a := &answers[i]
		if !a.Counts() {
			continue
		}
		code := stageAttributeCode(stage, a)
		if code == "" {
			continue
		}
		entry, ok := byCode[code]
		if !ok {
			entry = &domain.ScoreEntry{
				SessionID:     sessionID,
				Stage:         stage,
				AttributeCode: code,
			}
			byCode[code] = entry
			order = append(order, code)
		}
		entry.Score += a.Weight
		entry.AnswerCount++
		if a.Weight >= domain.WeightScaleMax {
			entry.HighExtremeCount++
		}
		if a.Weight <= domain.WeightScaleMin {
			entry.LowExtremeCount++
		}
	}

	entries := make([]domain.ScoreEntry, 0, len(order))
	for _, code := range order {
		entry := byCode[code]
		if total := totals[code]; total > 0 {
			entry.Rate = entry.Score / total
		}
		entries = append(entries, *entry)
	}

	if stage == domain.StageTendency {
		sort.Slice(entries, func(i, j int) bool { return entries[i].LessThan(&entries[j]) })
	} else {
		sort.Slice(entries, func(i, j int) bool {
			a, b := &entries[i], &entries[j]
			if a.Rate != b.Rate {
				return a.Rate > b.Rate
			}
			if a.AnswerCount != b.AnswerCount {
				return a.AnswerCount > b.AnswerCount
			}
			return a.AttributeCode < b.AttributeCode
		})
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// topAttributeCodes returns the attribute codes of the n best-ranked
// entries. Entries must already be rank-ordered.
func topAttributeCodes(entries []domain.ScoreEntry, n int) []string {
	if n > len(entries) {
		n = len(entries)
	}
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		codes = append(codes, entries[i].AttributeCode)
	}
	return codes
}

// ScoringEngine computes and persists the per-stage score entries and
// the matching slice of the result summary. Callers are expected to
// invoke ScoreStage inside a transaction so the delete-then-insert
// replacement and the summary update land atomically.
type ScoringEngine struct {
	answers   domain.AnswerRepository
	catalog   domain.CatalogRepository
	scores    domain.ScoreRepository
	summaries domain.ResultSummaryRepository
	logger    *zap.Logger
}

func NewScoringEngine(
	answers domain.AnswerRepository,
	catalog domain.CatalogRepository,
	scores domain.ScoreRepository,
	summaries domain.ResultSummaryRepository,
	logger *zap.Logger,
) *ScoringEngine {
	return &ScoringEngine{
		answers:   answers,
		catalog:   catalog,
		scores:    scores,
		summaries: summaries,
		logger:    logger,
	}
}

// ScoreStage recomputes the given stage's score entries from scratch
// and refreshes the summary fields the stage owns. Recomputation is
// idempotent: the previous entries are replaced wholesale.
func (e *ScoringEngine) ScoreStage(ctx context.Context, session *domain.Session, stage domain.Stage) error {
	answers, err := e.answers.GetStageAnswers(ctx, session.ID, stage)
	if err != nil {
		return err
	}
	attrs, err := e.catalog.GetAttributes(ctx, stage)
	if err != nil {
		return err
	}

	entries := computeStageScores(session.ID, stage, answers, attrs)
	if err := e.scores.ReplaceStageScores(ctx, session.ID, stage, entries); err != nil {
		return err
	}

	switch stage {
	case domain.StageTendency:
		return e.summaries.UpdateTendency(ctx, session.ID, topAttributeCodes(entries, 3))
	case domain.StageThinking:
		top := topAttributeCodes(entries, 2)
		var combined float64
		for i := 0; i < len(entries) && i < 2; i++ {
			combined += entries[i].Score
		}
		return e.summaries.UpdateThinking(ctx, session.ID, top, combined)
	case domain.StageImage:
		return e.updateImageStats(ctx, session.ID, answers)
	}
	return nil
}

// updateImageStats derives the image preference ratio: how many image
// items drew a positive-weight answer out of the full stage deck.
func (e *ScoringEngine) updateImageStats(ctx context.Context, sessionID string, answers []domain.StageAnswer) error {
	items, err := e.catalog.GetStageItems(ctx, domain.StageImage)
	if err != nil {
		return err
	}
	total := len(items)
	preferred := 0
	for i := range answers {
		if answers[i].Counts() && answers[i].Weight > 0 {
			preferred++
		}
	}
	rate := 0.0
	if total > 0 {
		rate = float64(preferred) / float64(total)
	}
	return e.summaries.UpdateImageStats(ctx, sessionID, total, preferred, rate)
}
