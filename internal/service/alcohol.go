package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// AlcoholEvaluator flags a drug's alcohol rules. It runs only when the
// caller explicitly declares alcohol use; absence of the declaration
// skips the evaluator entirely rather than evaluating with a default.
type AlcoholEvaluator struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewAlcoholEvaluator creates the alcohol evaluator.
func NewAlcoholEvaluator(store domain.KnowledgeStore, logger *logrus.Logger) *AlcoholEvaluator {
	return &AlcoholEvaluator{
		store: store,
		log:   logger,
	}
}

// Kind identifies the evaluator's flag type.
func (e *AlcoholEvaluator) Kind() domain.FlagType {
	return domain.FlagAlcohol
}

// Applies reports true only when alcohol use was declared.
func (e *AlcoholEvaluator) Applies(drugID string, req *domain.AssessmentRequest) bool {
	return req.ReportAlcohol
}

// Evaluate emits one flag per stored alcohol rule for the drug.
func (e *AlcoholEvaluator) Evaluate(ctx context.Context, drugID string, req *domain.AssessmentRequest) ([]domain.RiskFlag, error) {
	rules, err := e.store.ListFoodAlcoholRules(ctx, drugID, domain.AlcoholTrigger)
	if err != nil {
		return nil, err
	}

	flags := make([]domain.RiskFlag, 0, len(rules))
	for _, rule := range rules {
		flags = append(flags, domain.RiskFlag{
			Type:    domain.FlagAlcohol,
			Level:   rule.Level,
			Drug:    drugID,
			Trigger: rule.Trigger,
			Message: rule.Message,
			Sources: []string{rule.Source},
		})
	}
	return flags, nil
}
