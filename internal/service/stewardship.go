package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// StewardshipEvaluator covers antimicrobial stewardship: missed-dose
// rules and the drug's AMR risk tier. It runs only for drugs the caller
// supplied a missed-dose count for; an explicit zero still triggers the
// tier check.
//
// Missed-dose thresholds are a step function with a single jump at two:
// two or more missed doses select the repeated-misuse rules, exactly
// one selects the single-miss rules. The rules themselves, including
// their levels, are reference data.
type StewardshipEvaluator struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewStewardshipEvaluator creates the stewardship evaluator.
func NewStewardshipEvaluator(store domain.KnowledgeStore, logger *logrus.Logger) *StewardshipEvaluator {
	return &StewardshipEvaluator{
		store: store,
		log:   logger,
	}
}

// Kind identifies the evaluator's flag type.
func (e *StewardshipEvaluator) Kind() domain.FlagType {
	return domain.FlagAMR
}

// Applies reports true when the caller declared a missed-dose count for
// the drug, including zero.
func (e *StewardshipEvaluator) Applies(drugID string, req *domain.AssessmentRequest) bool {
	_, ok := req.MissedDoses[drugID]
	return ok
}

// Evaluate emits missed-dose flags per matching stewardship rule plus
// at most one AMR tier flag.
func (e *StewardshipEvaluator) Evaluate(ctx context.Context, drugID string, req *domain.AssessmentRequest) ([]domain.RiskFlag, error) {
	missed := req.MissedDoses[drugID]

	var flags []domain.RiskFlag

	var condition string
	switch {
	case missed >= 2:
		condition = domain.MisuseConditionRepeated
	case missed == 1:
		condition = domain.MisuseConditionSingle
	}

	if condition != "" {
		rules, err := e.store.ListMisuseRules(ctx, condition)
		if err != nil {
			return nil, err
		}
		for _, rule := range rules {
			flags = append(flags, domain.RiskFlag{
				Type:        domain.FlagMissedDoses,
				Level:       rule.Level,
				Drug:        drugID,
				Message:     rule.Message,
				MissedDoses: missed,
				Sources:     []string{rule.Source},
			})
		}
	}

	rec, err := e.store.GetAMRRecord(ctx, drugID)
	if errors.Is(err, domain.ErrNotFound) {
		// no recorded tier means no flag, not a failure
		return flags, nil
	}
	if err != nil {
		return nil, err
	}

	var level domain.RiskLevel
	switch rec.Tier {
	case domain.AMRHigh:
		level = domain.RED
	case domain.AMRMedium:
		level = domain.YELLOW
	default:
		return flags, nil
	}

	flags = append(flags, domain.RiskFlag{
		Type:    domain.FlagAMR,
		Level:   level,
		Drug:    drugID,
		Message: rec.Message,
		AWaRe:   rec.AWaReCategory,
		Sources: []string{rec.Source},
	})

	e.log.WithFields(logrus.Fields{
		"drug_id":      drugID,
		"missed_doses": missed,
		"amr_tier":     rec.Tier,
	}).Debug("Stewardship evaluation completed")

	return flags, nil
}
