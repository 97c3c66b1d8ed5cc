package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// ElderlyEvaluator raises a caution flag for drugs carrying a real
// elderly-caution text when the caller is at or above the age
// threshold. Placeholder texts ("NA", "None", "Generally safe") are
// policy-exempt and never flag, however the reference row spells them.
type ElderlyEvaluator struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewElderlyEvaluator creates the elderly-caution evaluator.
func NewElderlyEvaluator(store domain.KnowledgeStore, logger *logrus.Logger) *ElderlyEvaluator {
	return &ElderlyEvaluator{
		store: store,
		log:   logger,
	}
}

// Kind identifies the evaluator's flag type.
func (e *ElderlyEvaluator) Kind() domain.FlagType {
	return domain.FlagElderly
}

// Applies reports true when the declared age meets the threshold.
// Exactly the threshold counts; an unsupplied age (zero) never does.
func (e *ElderlyEvaluator) Applies(drugID string, req *domain.AssessmentRequest) bool {
	return req.UserAge >= domain.ElderlyAgeThreshold
}

// Evaluate emits at most one yellow flag carrying the caution text.
func (e *ElderlyEvaluator) Evaluate(ctx context.Context, drugID string, req *domain.AssessmentRequest) ([]domain.RiskFlag, error) {
	drug, err := e.store.GetDrug(ctx, drugID)
	if err != nil {
		return nil, err
	}

	if !domain.ElderlyCautionApplies(drug.ElderlyCaution) {
		return nil, nil
	}

	return []domain.RiskFlag{{
		Type:    domain.FlagElderly,
		Level:   domain.YELLOW,
		Drug:    drugID,
		Message: drug.ElderlyCaution,
		Sources: []string{drug.Source},
	}}, nil
}
