// Package service contains the risk evaluators, the aggregating
// assessor and the read-side services built on the knowledge store.
//
// Every evaluator implements domain.RiskEvaluator: one drug identifier
// plus request context in, zero or more transient risk flags out.
// Evaluators never write and never retry; a failed store query aborts
// the whole assessment.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// AdverseReactionEvaluator flags every documented adverse reaction of a
// drug, one flag per sourced claim. It applies unconditionally: known
// reactions are reported even when all of them are green.
type AdverseReactionEvaluator struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewAdverseReactionEvaluator creates the adverse-reaction evaluator.
func NewAdverseReactionEvaluator(store domain.KnowledgeStore, logger *logrus.Logger) *AdverseReactionEvaluator {
	return &AdverseReactionEvaluator{
		store: store,
		log:   logger,
	}
}

// Kind identifies the evaluator's flag type.
func (e *AdverseReactionEvaluator) Kind() domain.FlagType {
	return domain.FlagADR
}

// Applies always reports true.
func (e *AdverseReactionEvaluator) Applies(drugID string, req *domain.AssessmentRequest) bool {
	return true
}

// Evaluate emits one flag per stored (reaction, source) claim. A
// reaction listed under two sources yields two flags; deduplication is
// not this evaluator's job.
func (e *AdverseReactionEvaluator) Evaluate(ctx context.Context, drugID string, req *domain.AssessmentRequest) ([]domain.RiskFlag, error) {
	links, err := e.store.ListAdverseReactionLinks(ctx, drugID)
	if err != nil {
		return nil, err
	}

	flags := make([]domain.RiskFlag, 0, len(links))
	for _, link := range links {
		flags = append(flags, domain.RiskFlag{
			Type:        domain.FlagADR,
			Level:       link.Level,
			Drug:        drugID,
			Symptom:     link.Symptom,
			Severity:    link.Severity,
			Advice:      link.Advice,
			IsEmergency: link.IsEmergency,
			Sources:     []string{link.Source},
		})
	}

	e.log.WithFields(logrus.Fields{
		"drug_id": drugID,
		"flags":   len(flags),
	}).Debug("Adverse reaction evaluation completed")

	return flags, nil
}
