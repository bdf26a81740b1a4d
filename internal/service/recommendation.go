package service

import (
	"context"
	"sort"

	"aptitest/internal/domain"
	"go.uber.org/zap"
)

const (
	tendencyBlendWeight = 0.6
	imageBlendWeight    = 0.4
	stageBasisTopN      = 20
	totalBasisTopN      = 10
)

// RecommendationBuilder derives the per-basis job and duty rankings
// from the persisted score entries and answers. Each Build* method
// replaces its basis wholesale; callers run them in their own
// transactions because a recommendation failure must not unwind the
// stage's scores.
type RecommendationBuilder struct {
	scores  domain.ScoreRepository
	answers domain.AnswerRepository
	recs    domain.RecommendationRepository
	logger  *zap.Logger
}

func NewRecommendationBuilder(
	scores domain.ScoreRepository,
	answers domain.AnswerRepository,
	recs domain.RecommendationRepository,
	logger *zap.Logger,
) *RecommendationBuilder {
	return &RecommendationBuilder{scores: scores, answers: answers, recs: recs, logger: logger}
}

// tendencyTargetSums maps each target to the sum of its mapped
// tendency attributes' scores.
func (b *RecommendationBuilder) tendencyTargetSums(ctx context.Context, sessionID string) (map[string]float64, error) {
	entries, err := b.scores.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	scoreByAttr := make(map[string]float64)
	for i := range entries {
		if entries[i].Stage == domain.StageTendency {
			scoreByAttr[entries[i].AttributeCode] = entries[i].Score
		}
	}

	maps, err := b.recs.GetTargetAttributeMaps(ctx)
	if err != nil {
		return nil, err
	}
	scoreByTarget := make(map[string]float64, len(maps))
	for i := range maps {
		m := &maps[i]
		sum := scoreByAttr[m.Attr1] + scoreByAttr[m.Attr2] + scoreByAttr[m.Attr3]
		scoreByTarget[m.TargetCode] += sum
	}
	return scoreByTarget, nil
}

// imageTargetSums maps each target to the sum of the weights of the
// counting image answers whose question maps to it.
func (b *RecommendationBuilder) imageTargetSums(ctx context.Context, sessionID string) (map[string]float64, error) {
	answers, err := b.answers.GetStageAnswers(ctx, sessionID, domain.StageImage)
	if err != nil {
		return nil, err
	}
	weightByQuestion := make(map[string]float64, len(answers))
	for i := range answers {
		if answers[i].Counts() {
			weightByQuestion[answers[i].QuestionCode] = answers[i].Weight
		}
	}

	maps, err := b.recs.GetQuestionTargetMaps(ctx)
	if err != nil {
		return nil, err
	}
	scoreByTarget := make(map[string]float64)
	for i := range maps {
		if w, ok := weightByQuestion[maps[i].QuestionCode]; ok {
			scoreByTarget[maps[i].TargetCode] += w
		}
	}
	return scoreByTarget, nil
}

// BuildTendencyBasis ranks targets by their tendency sums and keeps
// the best per kind.
func (b *RecommendationBuilder) BuildTendencyBasis(ctx context.Context, sessionID string) error {
	scoreByTarget, err := b.tendencyTargetSums(ctx, sessionID)
	if err != nil {
		return err
	}
	targets, err := b.recs.GetTargets(ctx)
	if err != nil {
		return err
	}
	recs := rankTargets(sessionID, domain.BasisTendency, targets, scoreByTarget, stageBasisTopN)
	return b.recs.ReplaceBasis(ctx, sessionID, domain.BasisTendency, recs)
}

// BuildImageBasis ranks targets by their image sums and keeps the best
// per kind.
func (b *RecommendationBuilder) BuildImageBasis(ctx context.Context, sessionID string) error {
	scoreByTarget, err := b.imageTargetSums(ctx, sessionID)
	if err != nil {
		return err
	}
	targets, err := b.recs.GetTargets(ctx)
	if err != nil {
		return err
	}
	recs := rankTargets(sessionID, domain.BasisImage, targets, scoreByTarget, stageBasisTopN)
	return b.recs.ReplaceBasis(ctx, sessionID, domain.BasisImage, recs)
}

// BuildTotalBasis blends the raw tendency and image per-target sums, a
// full outer join with a missing side contributing 0. It recomputes
// both sides instead of reading the persisted stage bases: those are
// truncated per kind, and a target outside a stage's cut must still
// carry its full weight into the blend.
func (b *RecommendationBuilder) BuildTotalBasis(ctx context.Context, sessionID string) error {
	tendency, err := b.tendencyTargetSums(ctx, sessionID)
	if err != nil {
		return err
	}
	image, err := b.imageTargetSums(ctx, sessionID)
	if err != nil {
		return err
	}

	targets, err := b.recs.GetTargets(ctx)
	if err != nil {
		return err
	}

	scoreByTarget := make(map[string]float64, len(tendency)+len(image))
	for code, sum := range tendency {
		scoreByTarget[code] += tendencyBlendWeight * sum
	}
	for code, sum := range image {
		scoreByTarget[code] += imageBlendWeight * sum
	}

	recs := rankTargets(sessionID, domain.BasisTotal, targets, scoreByTarget, totalBasisTopN)
	return b.recs.ReplaceBasis(ctx, sessionID, domain.BasisTotal, recs)
}

// rankTargets orders scored targets per kind, score descending with
// the code as a stable tie-break, numbers ranks 1..N within each kind
// and truncates each kind to topN.
func rankTargets(
	sessionID string,
	basis domain.RecommendationBasis,
	targets []domain.RecommendationTarget,
	scoreByTarget map[string]float64,
	topN int,
) []domain.Recommendation {
	byKind := make(map[domain.TargetKind][]domain.Recommendation)
	for i := range targets {
		t := &targets[i]
		score, ok := scoreByTarget[t.Code]
		if !ok {
			continue
		}
		byKind[t.Kind] = append(byKind[t.Kind], domain.Recommendation{
			SessionID:  sessionID,
			Basis:      basis,
			TargetCode: t.Code,
			Kind:       t.Kind,
			Score:      score,
		})
	}

	var out []domain.Recommendation
	for _, kind := range []domain.TargetKind{domain.TargetJob, domain.TargetDuty} {
		recs := byKind[kind]
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Score != recs[j].Score {
				return recs[i].Score > recs[j].Score
			}
			return recs[i].TargetCode < recs[j].TargetCode
		})
		if len(recs) > topN {
			recs = recs[:topN]
		}
		for i := range recs {
			recs[i].Rank = i + 1
		}
		out = append(out, recs...)
	}
	return out
}
