package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// RiskAssessor runs the evaluator registry over a request and merges
// the flags into one assessment. The registry order is fixed, so flag
// order is deterministic: per-drug evaluators in registration order,
// each over the deduplicated drugs in first-occurrence input order,
// then the pairwise interaction flags.
//
// Aggregation is max-under-GREEN<YELLOW<RED; flags never cancel or
// average. Any store failure aborts the whole assessment: a partial
// safety answer is worse than none.
type RiskAssessor struct {
	store        domain.KnowledgeStore
	evaluators   []domain.RiskEvaluator
	interactions *InteractionChecker
	log          *logrus.Logger
}

// NewRiskAssessor creates an assessor with the standard evaluator
// registry: adverse reactions, alcohol, elderly caution, stewardship.
func NewRiskAssessor(store domain.KnowledgeStore, logger *logrus.Logger) *RiskAssessor {
	return &RiskAssessor{
		store: store,
		evaluators: []domain.RiskEvaluator{
			NewAdverseReactionEvaluator(store, logger),
			NewAlcoholEvaluator(store, logger),
			NewElderlyEvaluator(store, logger),
			NewStewardshipEvaluator(store, logger),
		},
		interactions: NewInteractionChecker(store, logger),
		log:          logger,
	}
}

// Assess evaluates the full request. Unknown drug identifiers surface
// as ErrNotFound before any evaluator runs.
func (a *RiskAssessor) Assess(ctx context.Context, req *domain.AssessmentRequest) (*domain.RiskAssessment, error) {
	start := time.Now()
	drugIDs := dedupeInOrder(req.DrugIDs)

	// resolve everything up front so a typo cannot produce a partial result
	drugs := make([]*domain.Drug, 0, len(drugIDs))
	for _, id := range drugIDs {
		drug, err := a.store.GetDrug(ctx, id)
		if err != nil {
			return nil, err
		}
		drugs = append(drugs, drug)
	}

	var flags []domain.RiskFlag
	for _, ev := range a.evaluators {
		for _, id := range drugIDs {
			if !ev.Applies(id, req) {
				continue
			}
			got, err := ev.Evaluate(ctx, id, req)
			if err != nil {
				a.log.WithFields(logrus.Fields{
					"evaluator": ev.Kind(),
					"drug_id":   id,
					"error":     err,
				}).Error("Evaluator failed, aborting assessment")
				return nil, err
			}
			flags = append(flags, got...)
		}
	}

	interactionFlags, err := a.interactions.Check(ctx, drugIDs)
	if err != nil {
		return nil, err
	}
	flags = append(flags, interactionFlags...)

	overall := domain.GREEN
	for _, f := range flags {
		overall = domain.MaxLevel(overall, f.Level)
	}

	assessment := &domain.RiskAssessment{
		RiskLevel:        overall,
		Flags:            flags,
		ClinicalAnalysis: buildClinicalSummary(drugs, flags, overall),
		Sources:          collectSources(flags),
		Disclaimer:       domain.Disclaimer,
	}

	a.log.WithFields(logrus.Fields{
		"drugs":       len(drugIDs),
		"flags":       len(flags),
		"risk_level":  overall,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Risk assessment completed")

	return assessment, nil
}

// collectSources merges flag sources with set semantics in insertion
// order: first mention wins the position, later mentions are dropped.
func collectSources(flags []domain.RiskFlag) []string {
	seen := make(map[string]struct{})
	sources := make([]string, 0)
	for _, f := range flags {
		for _, s := range f.Sources {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			sources = append(sources, s)
		}
	}
	return sources
}
